// Package parallel runs independent jobs with a concurrency limit. The graph
// engine itself is single threaded; this is for batch work over separate
// documents, each with its own state.
package parallel

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one job.
type Result[T any] struct {
	Name    string
	Value   T
	Err     error
	Elapsed time.Duration
}

// OK reports whether the job succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Task is a named job.
type Task[T any] struct {
	Name string
	Fn   func(ctx context.Context) (T, error)
}

// Run executes tasks with at most concurrency running at once and returns
// results in submission order. A failing task does not stop the others;
// cancelling ctx does, and tasks not yet started report ctx's error.
func Run[T any](ctx context.Context, tasks []Task[T], concurrency int) []Result[T] {
	if concurrency < 1 {
		concurrency = 4
	}

	results := make([]Result[T], len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		results[i].Name = task.Name
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			start := time.Now()
			v, err := task.Fn(gctx)
			// Each goroutine owns its slot.
			results[i] = Result[T]{Name: task.Name, Value: v, Err: err, Elapsed: time.Since(start)}
			return nil // never fail the group, collect results instead
		})
	}

	_ = g.Wait()
	return results
}
