// Package worker provides a generic fixed-size worker pool that preserves
// input order in its results.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of processing one input.
type Result[R any] struct {
	Value R
	Err   error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool fans inputs out to a fixed number of goroutines. Results are
// collected by input index, so output order is independent of scheduling.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a pool with the given concurrency.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Execute runs all inputs through the pool and returns one result per
// input, in input order. Cancelling the context stops the pool early,
// leaving the remaining results zero-valued.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Result[R] {
	results := make([]Result[R], len(inputs))
	indexCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-indexCh:
					if !ok {
						return
					}
					value, err := p.process(ctx, inputs[idx])
					results[idx] = Result[R]{Value: value, Err: err}
					if err != nil {
						log.Error().Err(err).Int("index", idx).Msg("Task failed")
					}
				}
			}
		}()
	}

	// The channel is buffered to len(inputs), so sends never block.
	for i := range inputs {
		indexCh <- i
	}
	close(indexCh)

	wg.Wait()
	return results
}
