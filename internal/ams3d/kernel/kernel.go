// Package kernel implements the AMS3D kernel: an asymmetric truncated
// vertical cylinder whose radius and height derive from a candidate
// point's above-ground height and two canopy-shape ratios, and whose
// weighted centroid over points intersecting it drives the mean-shift
// iteration in package meanshift.
package kernel

import (
	"errors"
	"math"

	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
	"github.com/canopymodes/ams3d/internal/ams3d/spatial"
)

// GaussianGamma is the coefficient of the Gaussian vertical profile
// weight, fixed by spec at -5.
const GaussianGamma = -5.0

// ErrDegenerateIteration is returned by Centroid when the kernel's
// cylinder query is empty or the total weight of the points it contains
// is zero. This is not an error condition for the driver: spec treats it
// as convergence at the previous mean-shift step (or, at the first step,
// as an invalid result).
var ErrDegenerateIteration = errors.New("kernel: degenerate iteration (no points or zero total weight)")

// Geometry holds the kernel's radius and height, derived once per
// mean-shift run from the candidate's above-ground height and the two
// canopy-shape ratios. It does not change across iterations — per spec,
// canopy ratios are evaluated at the original candidate's xy, not at the
// moving kernel center, so only the kernel's position (Kernel.XYCenter,
// Kernel.BottomZ/TopZ/CenterZ) moves from one iteration to the next.
type Geometry struct {
	R      float64 // kernel radius
	H      float64 // full (untruncated) kernel height
	R2     float64 // R*R, precomputed
	HalfH  float64 // H/2, precomputed
	HalfH2 float64 // (H/2)^2, precomputed
}

// NewGeometry derives kernel Geometry from a candidate's above-ground
// height hAG and the crown-diameter-to-tree-height (dRatio) and
// crown-height-to-tree-height (hRatio) ratios.
func NewGeometry(hAG, dRatio, hRatio float64) Geometry {
	h := hAG * hRatio
	r := (hAG * dRatio) / 2
	halfH := h / 2
	return Geometry{
		R:      r,
		H:      h,
		R2:     r * r,
		HalfH:  halfH,
		HalfH2: halfH * halfH,
	}
}

// Kernel is an asymmetric truncated vertical cylinder positioned around
// the current mean-shift iterate.
type Kernel struct {
	Geometry
	XYCenter geom.Point2D
	BottomZ  float64
	TopZ     float64
	CenterZ  float64
}

// Build positions a Kernel of the given (fixed) Geometry around the
// current iterate (xyCenter, currentZ), truncating the bottom quarter of
// the symmetric kernel at ground level. groundElevation is the ground
// elevation at the ORIGINAL candidate's xy (0 in the normalized-height
// surface); it is constant across a driver invocation even though
// currentZ moves.
func Build(geo Geometry, xyCenter geom.Point2D, currentZ, groundElevation float64) Kernel {
	czAG := currentZ - groundElevation
	bottomAG := math.Max(0, czAG-geo.H/4)
	bottomZ := bottomAG + groundElevation
	topZ := bottomZ + geo.H
	return Kernel{
		Geometry: geo,
		XYCenter: xyCenter,
		BottomZ:  bottomZ,
		TopZ:     topZ,
		CenterZ:  bottomZ + geo.HalfH,
	}
}

// Centroid queries index for all points inside the kernel's truncated
// cylinder and returns their weighted centroid. The weight of a point p
// is the product of an Epanechnikov horizontal profile weight and a
// Gaussian vertical profile weight, both evaluated on SQUARED relative
// distances (the published formulation squares its distance arguments
// inside the profile functions; passing squared distances directly and
// dropping the inner squaring gives the identical numeric result — see
// Weight).
//
// Returns ErrDegenerateIteration if no indexed point lies inside the
// kernel, or if every point inside it has zero weight.
func (k Kernel) Centroid(index *rtree3d.Tree) (geom.Point3D, error) {
	pts := spatial.VerticalCylinderQuery(index, k.XYCenter, k.R, k.BottomZ, k.TopZ)
	if len(pts) == 0 {
		return geom.Point3D{}, ErrDegenerateIteration
	}

	weights := make([]float64, len(pts))
	for i, p := range pts {
		weights[i] = k.Weight(p)
	}

	mean, err := spatial.WeightedMean(pts, weights)
	if err != nil {
		return geom.Point3D{}, ErrDegenerateIteration
	}
	return mean, nil
}

// Weight returns the AMS3D profile weight of point p under this kernel:
// (1 - sH) * exp(gamma * sV), where sH and sV are p's squared relative
// horizontal and vertical distances to the kernel. Points outside the
// cylinder (sH > 1) are never returned by a cylinder query, but Weight
// still computes a (negative, meaningless) value for them rather than
// clamping, since the driver never calls it on out-of-cylinder points.
func (k Kernel) Weight(p geom.Point3D) float64 {
	dx := p.X - k.XYCenter.X
	dy := p.Y - k.XYCenter.Y
	sH := (dx*dx + dy*dy) / k.R2

	dz := p.Z - k.CenterZ
	sV := (dz * dz) / k.HalfH2

	return (1 - sH) * math.Exp(GaussianGamma*sV)
}
