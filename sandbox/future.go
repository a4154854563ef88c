package sandbox

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/jonboulle/clockwork"
)

// spawn runs fn on its own goroutine after latency and settles the returned
// future from its result. async.ErrCancelled and async.ErrInvalidState map
// to the matching outcomes.
func spawn[T any](ctx context.Context, clock clockwork.Clock, latency time.Duration, fn func(context.Context) (T, error)) *async.Future[T] {
	p, f := async.New[T]()
	go func() {
		if latency > 0 {
			select {
			case <-clock.After(latency):
			case <-ctx.Done():
				_ = p.Fail(unavailable(ctx.Err()))
				return
			}
		}

		v, err := fn(ctx)
		switch {
		case err == nil:
			_ = p.Succeed(v)
		case errors.Is(err, async.ErrCancelled):
			_ = p.Cancel()
		case errors.Is(err, async.ErrInvalidState):
			_ = p.Invalidate()
		default:
			_ = p.Fail(err)
		}
	}()
	return f
}
