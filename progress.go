package ams3d

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ProgressFunc is consulted every Params.ProgressEvery completed points
// (spec.md §5, "every K completed points, K ~= 2000 by default"). It
// receives the number of points processed so far and the run's total
// point count, and may return true to request cancellation. It is never
// called concurrently by more than one goroutine, regardless of
// Params.Workers, so implementations need not synchronize it themselves.
type ProgressFunc func(processed, total int) (cancel bool)

// RunHandle identifies one orchestration call and tracks its cumulative
// progress, mirroring the teacher's AnalysisRunManager run-lifecycle
// pattern (internal/lidar/analysis_run_manager.go): a UUID run ID plus
// counters a host can poll, useful when several AMS3D runs (e.g. one per
// flight strip) are in flight at once and a caller wants to tell their
// progress streams apart.
type RunHandle struct {
	// ID is a process-unique identifier for this run.
	ID string

	// Total is the number of input points this run will process.
	Total int

	processed int64
	cancelled int32
}

func newRunHandle(total int) *RunHandle {
	return &RunHandle{ID: uuid.New().String(), Total: total}
}

// Processed returns the number of points completed so far.
func (r *RunHandle) Processed() int {
	return int(atomic.LoadInt64(&r.processed))
}

// Cancelled reports whether the run has been cancelled via its
// ProgressFunc returning true.
func (r *RunHandle) Cancelled() bool {
	return atomic.LoadInt32(&r.cancelled) != 0
}

func (r *RunHandle) markCancelled() {
	atomic.StoreInt32(&r.cancelled, 1)
}

func (r *RunHandle) addProcessed(n int64) int64 {
	return atomic.AddInt64(&r.processed, n)
}
