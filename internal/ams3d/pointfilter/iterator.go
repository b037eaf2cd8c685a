// Package pointfilter provides lazy, forward-only, non-restartable
// sequences over a Point3D slice that skip non-finite points and points
// below an applicable minimum height. They exist to feed the R*-tree's
// bulk-loading constructor with exactly the subset of points the index
// should contain; Collect materializes that subset as a slice so the
// tree is packed in bulk rather than built by one-at-a-time insertion.
package pointfilter

import (
	"math"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/raster"
)

// Iterator is a lazy forward-only sequence of Point3D. Next advances past
// elements failing the iterator's predicate and returns the next passing
// element, or ok=false at end of sequence. An Iterator must not be reused
// after it first returns ok=false.
type Iterator interface {
	Next() (p geom.Point3D, ok bool)
}

// Collect drains it into a slice. It is the usual way to materialize the
// filtered sequence for the R*-tree's bulk-load constructor, which needs
// a sized, ordered container rather than a one-at-a-time push.
func Collect(it Iterator) []geom.Point3D {
	out := make([]geom.Point3D, 0)
	for {
		p, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

// FiniteAboveHeight skips points with any non-finite coordinate or whose
// Z is below minZ. Used by the normalized-heights orchestration variant,
// where Z is already above-ground.
type FiniteAboveHeight struct {
	points []geom.Point3D
	minZ   float64
	pos    int
}

// NewFiniteAboveHeight returns an Iterator over points, keeping only
// finite points with Z >= minZ.
func NewFiniteAboveHeight(points []geom.Point3D, minZ float64) *FiniteAboveHeight {
	return &FiniteAboveHeight{points: points, minZ: minZ}
}

// Next implements Iterator.
func (f *FiniteAboveHeight) Next() (geom.Point3D, bool) {
	for f.pos < len(f.points) {
		p := f.points[f.pos]
		f.pos++
		if !p.IsFinite() {
			continue
		}
		if p.Z < f.minZ {
			continue
		}
		return p, true
	}
	return geom.Point3D{}, false
}

// FiniteAboveGround skips points with any non-finite coordinate, points
// whose above-ground height (Z - ground.ValueAtUnchecked) is non-finite,
// and points whose above-ground height is below minHAG. Used by the
// terraneous-heights orchestration variant.
type FiniteAboveGround struct {
	points []geom.Point3D
	minHAG float64
	ground raster.Raster[float64]
	pos    int
}

// NewFiniteAboveGround returns an Iterator over points, keeping only
// finite points whose ground-relative height is finite and >= minHAG.
func NewFiniteAboveGround(points []geom.Point3D, minHAG float64, ground raster.Raster[float64]) *FiniteAboveGround {
	return &FiniteAboveGround{points: points, minHAG: minHAG, ground: ground}
}

// Next implements Iterator.
func (f *FiniteAboveGround) Next() (geom.Point3D, bool) {
	for f.pos < len(f.points) {
		p := f.points[f.pos]
		f.pos++
		if !p.IsFinite() {
			continue
		}
		hAG := p.Z - f.ground.ValueAtUnchecked(p.XY())
		if math.IsNaN(hAG) || math.IsInf(hAG, 0) {
			continue
		}
		if hAG < f.minHAG {
			continue
		}
		return p, true
	}
	return geom.Point3D{}, false
}

// FiniteAboveGroundGrid is like FiniteAboveGround, but the minimum
// above-ground height is itself read per-point from a raster M, rather
// than being a constant. Used by the flexible orchestration variant when
// the minimum-height threshold is raster-valued.
type FiniteAboveGroundGrid struct {
	points []geom.Point3D
	minHAG raster.Raster[float64]
	ground raster.Raster[float64]
	pos    int
}

// NewFiniteAboveGroundGrid returns an Iterator over points, keeping only
// finite points whose ground-relative height is finite and >= the cell
// value of minHAG at that point's xy.
func NewFiniteAboveGroundGrid(points []geom.Point3D, minHAG, ground raster.Raster[float64]) *FiniteAboveGroundGrid {
	return &FiniteAboveGroundGrid{points: points, minHAG: minHAG, ground: ground}
}

// Next implements Iterator.
func (f *FiniteAboveGroundGrid) Next() (geom.Point3D, bool) {
	for f.pos < len(f.points) {
		p := f.points[f.pos]
		f.pos++
		if !p.IsFinite() {
			continue
		}
		xy := p.XY()
		g := f.ground.ValueAtUnchecked(xy)
		m := f.minHAG.ValueAtUnchecked(xy)
		if math.IsNaN(g) || math.IsInf(g, 0) || math.IsNaN(m) || math.IsInf(m, 0) {
			continue
		}
		hAG := p.Z - g
		if math.IsNaN(hAG) || math.IsInf(hAG, 0) {
			continue
		}
		if hAG < m {
			continue
		}
		return p, true
	}
	return geom.Point3D{}, false
}

var (
	_ Iterator = (*FiniteAboveHeight)(nil)
	_ Iterator = (*FiniteAboveGround)(nil)
	_ Iterator = (*FiniteAboveGroundGrid)(nil)
)
