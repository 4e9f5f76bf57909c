package miniball

import (
	"fmt"
	"sync"
)

// parallelFor calls fn(i) for every i in [0, n), splitting the range into
// contiguous chunks across numWorkers goroutines. It runs inline when
// numWorkers <= 1 or n <= 1. fn must only write to state owned by index i.
func parallelFor(n, numWorkers int, fn func(i int)) {
	if numWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}

// SolveBatch computes the minimum enclosing ball of each point set in sets
// using cfg.Workers goroutines. Each set is solved independently, so results
// are identical to calling Solve on each set in turn.
//
// If any set is malformed, SolveBatch returns the error of the lowest-indexed
// failing set, wrapped with that index; it still matches ErrInvalidInput.
func SolveBatch(sets [][][]float64, cfg Config) ([]*Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	balls := make([]*Ball, len(sets))
	errs := make([]error, len(sets))
	parallelFor(len(sets), cfg.Workers, func(i int) {
		ps, err := NewPointSet(sets[i])
		if err != nil {
			errs[i] = err
			return
		}
		balls[i] = newSolver(ps, cfg).solve()
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("miniball: point set %d: %w", i, err)
		}
	}
	return balls, nil
}
