// Package ams3d identifies tree-crown modes in an airborne LiDAR 3D point
// cloud by running an Adaptive Mean Shift (AMS3D) algorithm specialized
// for forest canopies, following Ferraz et al. (2012). For each input
// point, it iteratively relocates an asymmetric cylindrical kernel until
// the kernel's weighted centroid converges; the converged location is the
// point's "mode". Points belonging to the same tree crown converge to
// nearly identical modes clustered just below the crown apex; clustering
// modes into crown IDs (e.g. via DBSCAN) is left to the caller.
//
// This package is the composition root for the AMS3D core: it builds the
// spatial index once per run and drives internal/ams3d/meanshift per
// input point. None of the internal/ams3d/* packages know about each
// other's callers, mirroring the layering discipline the teacher's
// internal/lidar/pipeline package documents for its own composition root.
package ams3d

import (
	"math"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/kernel"
	"github.com/canopymodes/ams3d/internal/ams3d/meanshift"
	"github.com/canopymodes/ams3d/internal/ams3d/pointfilter"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
	"github.com/canopymodes/ams3d/raster"
)

func isFiniteScalar(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizedHeights runs AMS3D over points whose Z is already an
// above-ground height (no ground raster needed). params.
// CrownDiameterToTreeHeight and params.CrownHeightToTreeHeight supply the
// canopy ratios for every point.
func NormalizedHeights(points []geom.Point3D, params Params, progress ProgressFunc) (Result, *RunHandle) {
	filtered := pointfilter.Collect(pointfilter.NewFiniteAboveHeight(points, params.MinPointHeightAboveGround))
	index := rtree3d.Build(filtered)

	perPoint := func(i int) (geom.Point3D, []geom.Point3D) {
		c := points[i]
		if !c.IsFinite() {
			return geom.NaNPoint, nil
		}
		hAG := c.Z
		if !isFiniteScalar(hAG) || hAG < params.MinPointHeightAboveGround {
			return geom.NaNPoint, nil
		}
		return meanshift.Run(c, hAG, params.CrownDiameterToTreeHeight, params.CrownHeightToTreeHeight, 0,
			params.ConvergenceDistance, params.MaxNumCentroidsPerMode, index, params.AlsoReturnCentroids)
	}

	res, run := runOrchestration(len(points), params, progress, perPoint)
	return res, run
}

// GroundRaster runs AMS3D over points with absolute Z, using ground to
// resolve each candidate's above-ground height. params.
// CrownDiameterToTreeHeight and params.CrownHeightToTreeHeight supply the
// canopy ratios for every point.
func GroundRaster(points []geom.Point3D, ground raster.Raster[float64], params Params, progress ProgressFunc) (Result, *RunHandle) {
	filtered := pointfilter.Collect(pointfilter.NewFiniteAboveGround(points, params.MinPointHeightAboveGround, ground))
	index := rtree3d.Build(filtered)

	perPoint := func(i int) (geom.Point3D, []geom.Point3D) {
		c := points[i]
		if !c.IsFinite() {
			return geom.NaNPoint, nil
		}
		g, err := ground.ValueAt(c.XY())
		if err != nil || !isFiniteScalar(g) {
			return geom.NaNPoint, nil
		}
		hAG := c.Z - g
		if !isFiniteScalar(hAG) || hAG < params.MinPointHeightAboveGround {
			return geom.NaNPoint, nil
		}
		return meanshift.Run(c, hAG, params.CrownDiameterToTreeHeight, params.CrownHeightToTreeHeight, g,
			params.ConvergenceDistance, params.MaxNumCentroidsPerMode, index, params.AlsoReturnCentroids)
	}

	res, run := runOrchestration(len(points), params, progress, perPoint)
	return res, run
}

// FlexibleInputs bundles the three raster-or-scalar inputs accepted by
// Flexible. Wrap a constant with raster.NewSingleValueRaster to supply a
// scalar in place of a full raster; MinHeight may be left nil to fall
// back to params.MinPointHeightAboveGround as a uniform scalar.
type FlexibleInputs struct {
	Ground    raster.Raster[float64]
	DRatio    raster.Raster[float64]
	HRatio    raster.Raster[float64]
	MinHeight raster.Raster[float64] // optional
}

// Flexible runs AMS3D over points with absolute Z, where ground
// elevation, d_ratio, and h_ratio are each supplied as either a scalar
// (wrapped in a raster.SingleValueRaster) or a full raster.Grid.
func Flexible(points []geom.Point3D, in FlexibleInputs, params Params, progress ProgressFunc) (Result, *RunHandle) {
	minHeight := in.MinHeight
	if minHeight == nil {
		minHeight = raster.NewSingleValueRaster(params.MinPointHeightAboveGround)
	}

	filtered := pointfilter.Collect(pointfilter.NewFiniteAboveGroundGrid(points, minHeight, in.Ground))
	index := rtree3d.Build(filtered)

	perPoint := func(i int) (geom.Point3D, []geom.Point3D) {
		c := points[i]
		if !c.IsFinite() {
			return geom.NaNPoint, nil
		}
		xy := c.XY()

		g, err := in.Ground.ValueAt(xy)
		if err != nil || !isFiniteScalar(g) {
			return geom.NaNPoint, nil
		}
		minH, err := minHeight.ValueAt(xy)
		if err != nil || !isFiniteScalar(minH) {
			return geom.NaNPoint, nil
		}
		hAG := c.Z - g
		if !isFiniteScalar(hAG) || hAG < minH {
			return geom.NaNPoint, nil
		}

		dRatio, err := in.DRatio.ValueAt(xy)
		if err != nil || !isFiniteScalar(dRatio) {
			return geom.NaNPoint, nil
		}
		hRatio, err := in.HRatio.ValueAt(xy)
		if err != nil || !isFiniteScalar(hRatio) {
			return geom.NaNPoint, nil
		}

		return meanshift.Run(c, hAG, dRatio, hRatio, g,
			params.ConvergenceDistance, params.MaxNumCentroidsPerMode, index, params.AlsoReturnCentroids)
	}

	res, run := runOrchestration(len(points), params, progress, perPoint)
	return res, run
}

// BottomHeightGrid returns a lookup that computes, for a point p, the
// kernel bottom elevation max(0, hAG - H/4) + ground a candidate at p
// would have, where hAG = hAGAt(p), ground = groundAt(p) and
// H = hAG * hRatios(p). Values are computed on demand at each call;
// nothing is precomputed or cached. The lookup fails with hRatios'
// ValueAt error. It is a standalone utility — spec.md §9 notes the
// original's analogous helper is "not clearly used by the iteration
// path", and this port preserves that: the mean-shift driver always
// derives bottom elevation per-point from the candidate's own resolved
// ratios, never from this helper.
func BottomHeightGrid(hRatios raster.Raster[float64], hAGAt func(geom.Point2D) float64, groundAt func(geom.Point2D) float64) func(geom.Point2D) (float64, error) {
	return func(p geom.Point2D) (float64, error) {
		hRatio, err := hRatios.ValueAt(p)
		if err != nil {
			return 0, err
		}
		hAG := hAGAt(p)
		ground := groundAt(p)
		geo := kernel.NewGeometry(hAG, 0, hRatio)
		return math.Max(0, hAG-geo.H/4) + ground, nil
	}
}
