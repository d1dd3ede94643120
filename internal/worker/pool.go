// Package worker provides a bounded worker pool for processing
// independent documents concurrently. Each job gets its own engine
// pass, so no attribution state is shared between documents.
package worker

import (
	"context"
	"sync"
)

// Pool fans a set of jobs out over a fixed number of goroutines and
// collects the results in completion order.
type Pool[J, R any] struct {
	workers int
	handler func(ctx context.Context, job J) R
}

// NewPool creates a pool executing handler on each submitted job.
func NewPool[J, R any](workers int, handler func(ctx context.Context, job J) R) *Pool[J, R] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[J, R]{workers: workers, handler: handler}
}

// Run processes all jobs and returns the results. It blocks until
// every job finished or the context was canceled; on cancellation the
// results collected so far are returned.
func (p *Pool[J, R]) Run(ctx context.Context, jobs []J) []R {
	jobCh := make(chan J)
	resultCh := make(chan R, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultCh <- p.handler(ctx, job)
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobCh <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []R
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}
