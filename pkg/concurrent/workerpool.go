// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs independent jobs with a bounded number of goroutines.
type WorkerPool struct {
	workerCount int
}

// RunAll executes every function without cancelling the others on failure.
// The returned slice is aligned with functions: errs[i] is the result of functions[i].
// Jobs that have not started when ctx is done report ctx.Err().
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func(context.Context) error) []error {
	if len(functions) == 0 {
		return nil
	}

	errs := make([]error, len(functions))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx)
			return nil
		})
	}

	// jobs never return an error to the group
	_ = g.Wait()

	return errs
}

// Join collapses the results of RunAll into a single error, nil when every job succeeded.
func Join(errs []error) error {
	return errors.Join(errs...)
}

// NewWorkerPool creates a worker pool with the given number of workers, at least one.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}
