package ams3d

import (
	"errors"

	"github.com/canopymodes/ams3d/internal/ams3d/kernel"
	"github.com/canopymodes/ams3d/internal/ams3d/spatial"
)

// The per-point path of this package never returns these as errors — a
// candidate that hits any of them yields geom.NaNPoint instead, except
// that a degenerate step after the first iteration yields the previous
// iterate as the mode (see spec.md §7). They are exported as errors.Is-compatible sentinels purely
// so a host inspecting intermediate package behavior (or writing its own
// tests against this package) has something concrete to compare against.
var (
	// ErrInvalidInput marks a candidate with a non-finite coordinate, or
	// whose above-ground height is below the configured minimum.
	ErrInvalidInput = errors.New("ams3d: invalid input point")

	// ErrOutOfExtent marks a candidate whose xy falls outside a required
	// raster's extent.
	ErrOutOfExtent = errors.New("ams3d: candidate outside raster extent")

	// ErrDegenerateIteration re-exports the kernel package's sentinel for
	// "cylinder query empty or zero total weight", matching the teacher's
	// re-export convention (internal/lidar/config.go) for aliasing a
	// sub-package's type across a layer boundary.
	ErrDegenerateIteration = kernel.ErrDegenerateIteration

	// ErrDegenerateSum re-exports the spatial package's sentinel for a
	// weighted mean whose weights sum to zero.
	ErrDegenerateSum = spatial.ErrDegenerateSum
)

// ErrShapeMismatch and ErrInvalidCoordinate are raster build/validation
// errors; see package raster. They are not re-exported here because the
// host interacts with raster.Raster directly to construct its inputs.
