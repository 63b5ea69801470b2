// Package fetch runs independent backend calls concurrently and collects
// their outcomes without letting one failure sink the batch. Aggregate views
// like the dashboard fetch six resources at once; each branch lands as a
// Result and the caller decides which failures are fatal.
package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds one branch's outcome. Exactly one of Value and Err is
// meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the branch succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// OrDefault returns the fetched value, or def when the branch failed.
func (r Result[T]) OrDefault(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}

// OrZero returns the fetched value, or the zero value when the branch
// failed.
func (r Result[T]) OrZero() T {
	var zero T
	return r.OrDefault(zero)
}

// Go runs fn on the group and stores its outcome in out. Failures are
// recorded, not returned, so the group keeps running its other branches.
func Go[T any](g *errgroup.Group, ctx context.Context, out *Result[T], fn func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		out.Value, out.Err = v, err
		return nil
	})
}

// All runs every fn concurrently and returns their results in call order.
// It never returns early: each branch runs to completion regardless of the
// others.
func All[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))
	g, ctx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		Go(g, ctx, &results[i], fn)
	}
	g.Wait()
	return results
}
