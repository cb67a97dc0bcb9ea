package spectrum

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/jv-marek/radsim/internal/trace"
)

// Compute runs one particle trace through the sampling pipeline and
// lets every detector of the grid observe the resulting kinematic
// steps. Detectors are swept in parallel; the trajectory steps are
// collected once and shared read-only.
func Compute(ctx context.Context, samples []trace.Sample, grid *Grid, workers int) (*Result, error) {
	steps := make([]trace.Step, 0, len(samples))
	sampler := trace.NewSampler()
	sampler.Run(samples, func(s trace.Step) {
		steps = append(steps, s)
	})
	if len(steps) == 0 {
		return nil, fmt.Errorf("spectrum: trace too short to sample")
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(grid.Detectors) {
		workers = len(grid.Detectors)
	}

	jobs := make(chan *Detector)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				for _, s := range steps {
					d.Observe(s)
				}
			}
		}()
	}

	var err error
feed:
	for _, d := range grid.Detectors {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- d:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return grid.Collect(), nil
}

// Sweep processes many trace files concurrently, each worker with its
// own detector grid, and sums the per-trace spectra incoherently.
// progress, if non-nil, is called after each completed trace with a
// snapshot of the accumulated spectrum. The first failing trace stops
// the sweep.
func Sweep(parent context.Context, paths []string, mkGrid func() *Grid, workers int, progress func(done, total int, partial *Result)) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("spectrum: no trace files")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	// a worker error cancels the feed loop so the remaining workers
	// and the feeder do not wait on each other
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan string)
	errs := make([]error, workers)

	var mu sync.Mutex
	var total *Result
	done := 0

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			grid := mkGrid()
			for path := range jobs {
				samples, err := trace.ReadFile(path)
				if err != nil {
					errs[idx] = fmt.Errorf("%s: %w", path, err)
					cancel()
					return
				}
				// detectors within one trace run serially here;
				// parallelism comes from concurrent traces
				res, err := Compute(ctx, samples, grid, 1)
				if err != nil {
					errs[idx] = fmt.Errorf("%s: %w", path, err)
					cancel()
					return
				}

				mu.Lock()
				if total == nil {
					total = res
				} else {
					total.Accumulate(res)
				}
				done++
				if progress != nil {
					progress(done, len(paths), total.Clone())
				}
				mu.Unlock()

				for _, d := range grid.Detectors {
					d.Reset()
				}
			}
		}(w)
	}

feed:
	for _, path := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	// report the trace that actually failed, not the cancellation it
	// triggered in sibling workers
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}
