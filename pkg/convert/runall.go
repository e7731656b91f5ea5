package convert

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// RunAll converts independent projects in parallel, at most opts.Jobs at
// a time. Results keep the order of jobs; a failed job leaves a nil
// result and its error joined into the returned error. The other jobs
// still run.
func RunAll(ctx context.Context, jobs []Job, opts Options) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	failures := make([]error, len(jobs))

	limit := opts.Jobs
	if limit <= 0 || limit > len(jobs) {
		limit = len(jobs)
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			results[i], failures[i] = Run(ctx, job, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(failures...)
}
