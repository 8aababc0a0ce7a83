package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// errSourceUnavailable is the settled error of a source that is not configured
var errSourceUnavailable = errors.New("source not configured")

// settled holds the outcome of one fan-out task. Tasks never fail the group;
// their error is kept here and read after the group has been joined.
type settled[T any] struct {
	value T
	err   error
}

// goSettled starts fn on g and records its outcome. A panic in fn is
// recovered into the settled error.
func goSettled[T any](ctx context.Context, g *errgroup.Group, fn func(context.Context) (T, error)) *settled[T] {
	s := &settled[T]{}
	g.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				s.err = fmt.Errorf("panic in source call: %v", p)
			}
		}()
		s.value, s.err = fn(ctx)
		return nil
	})
	return s
}

// await joins g, or returns ctx.Err() as soon as the caller's context ends.
// On early return the tasks keep running and their settled values must not be read.
func await(ctx context.Context, g *errgroup.Group) error {
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
