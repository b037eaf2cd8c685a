package ams3d

// Params holds the scalar tuning parameters shared by every orchestration
// variant. It follows the teacher's config-struct convention (e.g.
// internal/lidar/velocity_coherent_clustering.go's Clustering6DConfig): a
// plain struct of named, unit-commented fields plus a DefaultParams
// constructor.
type Params struct {
	// MinPointHeightAboveGround is the minimum above-ground height a
	// candidate point must have to be considered; candidates below it
	// are rejected with a NaN-point result, and points below it are
	// absent from the spatial index entirely.
	MinPointHeightAboveGround float64

	// CrownDiameterToTreeHeight is the crown_diameter / tree_height
	// ratio (d_ratio) used by the NormalizedHeights and GroundRaster
	// orchestration variants, where this ratio is a single scalar for
	// the whole run.
	CrownDiameterToTreeHeight float64

	// CrownHeightToTreeHeight is the crown_height / tree_height ratio
	// (h_ratio), analogous to CrownDiameterToTreeHeight.
	CrownHeightToTreeHeight float64

	// ConvergenceDistance is epsilon: the mean-shift iteration stops once
	// a step's Euclidean displacement is <= this value. Must be > 0.
	ConvergenceDistance float64

	// MaxNumCentroidsPerMode is N, the hard iteration cap. Must be >= 1.
	MaxNumCentroidsPerMode int

	// AlsoReturnCentroids, when true, causes the orchestration call to
	// additionally populate Result.Centroids and Result.PointIndices.
	AlsoReturnCentroids bool

	// ShowProgress, when true together with a non-nil ProgressFunc
	// argument, causes the progress hook to actually be invoked; when
	// false the hook is skipped even if provided. This mirrors the
	// spec's also_return_centroids / show_progress flag pair.
	ShowProgress bool

	// Workers bounds how many goroutines process candidate points
	// concurrently. Values <= 1 run fully sequentially. Per-point work is
	// independent and deterministic, so the number of workers never
	// changes any individual point's computed mode (spec.md §5).
	Workers int

	// ProgressEvery is the number of completed points between progress
	// hook invocations. Defaults to 2000 (spec's fixed tick granularity)
	// when <= 0.
	ProgressEvery int
}

// DefaultParams returns Params with the spec's fixed constants
// (ProgressEvery) and otherwise-reasonable single-run defaults; callers
// are expected to override MinPointHeightAboveGround, the two canopy
// ratios, ConvergenceDistance, and MaxNumCentroidsPerMode for their data.
func DefaultParams() Params {
	return Params{
		ConvergenceDistance:    0.5,
		MaxNumCentroidsPerMode: 50,
		Workers:                1,
		ProgressEvery:          2000,
	}
}
