// Package raster provides a read-only rectangular grid abstraction indexed
// by world (x, y), plus a degenerate single-value variant, following the
// polymorphism note in AMS3D's design notes: a narrow tagged-variant-style
// interface rather than a deep class hierarchy.
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/canopymodes/ams3d/geom"
)

// ErrShapeMismatch is returned by CopyWithValues when the replacement
// values slice has a different length than the raster it is replacing.
var ErrShapeMismatch = errors.New("raster: shape mismatch")

// ErrInvalidCoordinate is returned by ValueAt when the query point carries
// a NaN coordinate.
var ErrInvalidCoordinate = errors.New("raster: invalid (NaN) coordinate")

// ErrOutOfExtent is returned by ValueAt when the query point lies outside
// the raster's bounding rectangle.
var ErrOutOfExtent = errors.New("raster: coordinate out of extent")

// Raster is a read-only rectangular grid of scalar values indexed by
// world (x, y) coordinates.
type Raster[T any] interface {
	// Values returns the underlying row-major value sequence.
	Values() []T

	// HasValueAt reports whether (p.X, p.Y) lies in the closed bounding
	// rectangle of the raster.
	HasValueAt(p geom.Point2D) bool

	// ValueAt returns the value at (p.X, p.Y), or an error if the
	// coordinate is NaN (ErrInvalidCoordinate) or outside the extent
	// (ErrOutOfExtent).
	ValueAt(p geom.Point2D) (T, error)

	// ValueAtUnchecked returns the value at (p.X, p.Y) without bounds or
	// NaN checking. Behavior is undefined outside the extent; callers use
	// this on hot paths after an earlier HasValueAt check, or when they
	// accept propagating NaN.
	ValueAtUnchecked(p geom.Point2D) T

	// CopyWithValues returns an identical raster carrying newValues in
	// place of the current cell values. Fails with ErrShapeMismatch if
	// len(newValues) differs from the raster's current value count.
	CopyWithValues(newValues []T) (Raster[T], error)
}

// Grid is a row-major rectangular raster. Values are stored top-left
// (max Y, min X) to bottom-right, matching the addressing rule: row index
// = floor((YMax-Y)/RowHeight), column index = floor((X-XMin)/ColWidth).
type Grid[T any] struct {
	values []T
	rows   int
	cols   int
	xMin   float64
	xMax   float64
	yMin   float64
	yMax   float64

	rowHeight float64
	colWidth  float64
}

// NewGrid builds a Grid from row-major values and the raster's bounding
// rectangle. It panics if len(values) != rows*cols or if the rectangle is
// degenerate — these are programmer errors at construction time, not
// conditions the core's per-point path can recover from.
func NewGrid[T any](values []T, rows, cols int, xMin, xMax, yMin, yMax float64) *Grid[T] {
	if len(values) != rows*cols {
		panic(fmt.Sprintf("raster: len(values)=%d does not match rows*cols=%d", len(values), rows*cols))
	}
	if xMax <= xMin {
		panic("raster: xMax must be greater than xMin")
	}
	if yMax <= yMin {
		panic("raster: yMax must be greater than yMin")
	}
	return &Grid[T]{
		values:    values,
		rows:      rows,
		cols:      cols,
		xMin:      xMin,
		xMax:      xMax,
		yMin:      yMin,
		yMax:      yMax,
		rowHeight: (yMax - yMin) / float64(rows),
		colWidth:  (xMax - xMin) / float64(cols),
	}
}

// Values implements Raster.
func (g *Grid[T]) Values() []T { return g.values }

// HasValueAt implements Raster.
func (g *Grid[T]) HasValueAt(p geom.Point2D) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return false
	}
	return p.X >= g.xMin && p.X <= g.xMax && p.Y >= g.yMin && p.Y <= g.yMax
}

// ValueAt implements Raster.
func (g *Grid[T]) ValueAt(p geom.Point2D) (T, error) {
	var zero T
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return zero, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, p.X, p.Y)
	}
	if !g.HasValueAt(p) {
		return zero, fmt.Errorf("%w: (%v, %v) outside [%v,%v]x[%v,%v]", ErrOutOfExtent, p.X, p.Y, g.xMin, g.xMax, g.yMin, g.yMax)
	}
	return g.ValueAtUnchecked(p), nil
}

// ValueAtUnchecked implements Raster.
func (g *Grid[T]) ValueAtUnchecked(p geom.Point2D) T {
	row := g.rowIndex(p.Y)
	col := g.colIndex(p.X)
	return g.values[row*g.cols+col]
}

func (g *Grid[T]) rowIndex(y float64) int {
	row := int(math.Floor((g.yMax - y) / g.rowHeight))
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return row
}

func (g *Grid[T]) colIndex(x float64) int {
	col := int(math.Floor((x - g.xMin) / g.colWidth))
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	return col
}

// CopyWithValues implements Raster.
func (g *Grid[T]) CopyWithValues(newValues []T) (Raster[T], error) {
	if len(newValues) != len(g.values) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrShapeMismatch, len(newValues), len(g.values))
	}
	cp := *g
	cp.values = newValues
	return &cp, nil
}

// Rows returns the number of grid rows.
func (g *Grid[T]) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Grid[T]) Cols() int { return g.cols }

// Extent returns the bounding rectangle (xMin, xMax, yMin, yMax).
func (g *Grid[T]) Extent() (xMin, xMax, yMin, yMax float64) {
	return g.xMin, g.xMax, g.yMin, g.yMax
}
