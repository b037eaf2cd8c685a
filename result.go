package ams3d

import (
	"sync"

	"github.com/canopymodes/ams3d/geom"
)

// Result is the output of an orchestration call: one mode per input
// point, aligned 1:1 by index, plus an optional flat centroid trace.
type Result struct {
	// Modes holds one Point3D per input point, in input order. Invalid or
	// rejected inputs yield geom.NaNPoint.
	Modes []geom.Point3D

	// Centroids holds every centroid produced across all input points, in
	// input-point order, concatenated. Populated only when
	// Params.AlsoReturnCentroids is true.
	Centroids []geom.Point3D

	// PointIndices holds the input index associated with each entry in
	// Centroids, same length as Centroids, enabling reassembly into
	// per-point traces. Populated only when Params.AlsoReturnCentroids is
	// true.
	PointIndices []int
}

// perPointFunc computes the mode and (if requested) the centroid trace
// for the i-th input point. It is responsible for its own short-circuit
// validation (spec.md §4.6): a rejected or invalid candidate returns
// geom.NaNPoint and a nil trace.
type perPointFunc func(i int) (mode geom.Point3D, trace []geom.Point3D)

// runOrchestration fans perPoint out across params.Workers goroutines (or
// runs it inline when Workers <= 1), preserving result ordering by
// writing into a pre-sized slice at each point's original index. The
// progress hook, if present and Params.ShowProgress is true, is consulted
// every Params.ProgressEvery completed points and is never invoked
// concurrently.
func runOrchestration(n int, params Params, progress ProgressFunc, perPoint perPointFunc) (Result, *RunHandle) {
	run := newRunHandle(n)
	modes := make([]geom.Point3D, n)

	// traces[i] is written only by the goroutine that processed point i;
	// it is flattened in input order once every point is done.
	var traces [][]geom.Point3D
	if params.AlsoReturnCentroids {
		traces = make([][]geom.Point3D, n)
	}

	every := params.ProgressEvery
	if every <= 0 {
		every = 2000
	}
	activeProgress := progress
	if !params.ShowProgress {
		activeProgress = nil
	}
	var progressMu sync.Mutex

	record := func(i int, mode geom.Point3D, trace []geom.Point3D) {
		modes[i] = mode
		if params.AlsoReturnCentroids && len(trace) > 0 {
			traces[i] = trace
		}
		n := run.addProcessed(1)
		if activeProgress != nil && n%int64(every) == 0 {
			progressMu.Lock()
			cancel := activeProgress(int(n), run.Total)
			progressMu.Unlock()
			if cancel {
				run.markCancelled()
			}
		}
	}

	workers := params.Workers
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		for i := 0; i < n; i++ {
			if run.Cancelled() {
				modes[i] = geom.NaNPoint
				continue
			}
			mode, trace := perPoint(i)
			record(i, mode, trace)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for i := range jobs {
					if run.Cancelled() {
						modes[i] = geom.NaNPoint
						continue
					}
					mode, trace := perPoint(i)
					record(i, mode, trace)
				}
			}()
		}
		for i := 0; i < n; i++ {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var centroids []geom.Point3D
	var pointIndices []int
	for i, trace := range traces {
		centroids = append(centroids, trace...)
		for range trace {
			pointIndices = append(pointIndices, i)
		}
	}

	return Result{Modes: modes, Centroids: centroids, PointIndices: pointIndices}, run
}
