// Package meanshift drives a single candidate point through the AMS3D
// mean-shift iteration: build kernel around the current iterate, query
// the index, recompute the centroid, replace the iterate, repeat until
// convergence or the iteration cap. It assumes its caller (the
// orchestration layer) has already resolved and validated every
// raster-backed input for this candidate — the driver itself never
// touches a raster.
package meanshift

import (
	"github.com/canopymodes/ams3d/geom"
	"github.com/canopymodes/ams3d/internal/ams3d/kernel"
	"github.com/canopymodes/ams3d/internal/ams3d/rtree3d"
)

// Run iterates candidate against index until convergence or maxIterations
// is reached, returning the mode and (if collectTrace) the ordered
// centroid trace s1, s2, ... (the input candidate itself, s0, is never
// included).
//
// hAG is the candidate's above-ground height, used — together with
// dRatio and hRatio — to derive the kernel's fixed radius and height
// once, before the loop starts (per spec, canopy ratios are evaluated at
// the original candidate's xy throughout the iteration; only the
// kernel's position moves). groundElevation is the ground elevation at
// the candidate's original xy, held fixed across iterations (0 in the
// normalized-height surface).
//
// A degenerate step (empty kernel query, or zero total weight) at
// iteration 0 returns geom.NaNPoint with a nil trace; at any later
// iteration it terminates the loop, returning the previous iterate as
// the mode.
func Run(
	candidate geom.Point3D,
	hAG, dRatio, hRatio, groundElevation, epsilon float64,
	maxIterations int,
	index *rtree3d.Tree,
	collectTrace bool,
) (mode geom.Point3D, trace []geom.Point3D) {
	geo := kernel.NewGeometry(hAG, dRatio, hRatio)
	current := candidate

	for i := 0; i < maxIterations; i++ {
		k := kernel.Build(geo, current.XY(), current.Z, groundElevation)

		next, err := k.Centroid(index)
		if err != nil {
			if i == 0 {
				return geom.NaNPoint, nil
			}
			return current, trace
		}

		if collectTrace {
			trace = append(trace, next)
		}

		dist := geom.EuclideanDistance(next, current)
		current = next

		if dist <= epsilon {
			return current, trace
		}
		if i+1 == maxIterations {
			return current, trace
		}
	}
	return current, trace
}
