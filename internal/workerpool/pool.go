// Package workerpool provides a generic bounded worker pool for mapping
// a function over a slice of items concurrently.
package workerpool

import (
	"context"
	"sync"
)

// Map executes fn for each item in items using up to workers goroutines
// and returns the successful results in input order. Items whose fn call
// returns an error are skipped; partial results are still returned when
// the context is cancelled mid-run.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) []R {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}

	results := make([]*R, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if r, err := fn(ctx, it); err == nil {
				results[idx] = &r
			}
		}(i, item)
	}

	wg.Wait()

	out := make([]R, 0, len(items))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
