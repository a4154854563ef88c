package async

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyCompleted is returned when a promise is settled more than once.
var ErrAlreadyCompleted = errors.New("async: already completed")

// ErrCancelled is the error carried by results with OutcomeCancelled.
var ErrCancelled = errors.New("async: cancelled")

// ErrInvalidState is the error carried by results with OutcomeInvalidState.
var ErrInvalidState = errors.New("async: invalid state")

// Outcome is the terminal state of a Future.
type Outcome uint8

const (
	// OutcomePending means the future has not settled yet.
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeError
	OutcomeCancelled
	OutcomeInvalidState
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeInvalidState:
		return "invalid_state"
	default:
		return "pending"
	}
}

// Result is the settled value of a Future.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Err     error
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Future is the read side of a one-shot asynchronous result.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	result    Result[T]
	callbacks []func(Result[T])
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

// New returns a connected promise/future pair.
func New[T any]() (*Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return &Promise[T]{future: f}, f
}

// Succeeded returns a future already settled with v.
func Succeeded[T any](v T) *Future[T] {
	p, f := New[T]()
	_ = p.Succeed(v)
	return f
}

// Failed returns a future already settled with err.
func Failed[T any](err error) *Future[T] {
	p, f := New[T]()
	_ = p.Fail(err)
	return f
}

// Future returns the read side of p.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Succeed settles the future with v.
func (p *Promise[T]) Succeed(v T) error {
	return p.future.complete(Result[T]{Outcome: OutcomeSuccess, Value: v})
}

// Fail settles the future with err. A nil err is replaced by ErrInvalidState
// so that an error result always carries a cause.
func (p *Promise[T]) Fail(err error) error {
	if err == nil {
		err = ErrInvalidState
	}
	return p.future.complete(Result[T]{Outcome: OutcomeError, Err: err})
}

// Cancel settles the future as cancelled by the user.
func (p *Promise[T]) Cancel() error {
	return p.future.complete(Result[T]{Outcome: OutcomeCancelled, Err: ErrCancelled})
}

// Invalidate settles the future with OutcomeInvalidState.
func (p *Promise[T]) Invalidate() error {
	return p.future.complete(Result[T]{Outcome: OutcomeInvalidState, Err: ErrInvalidState})
}

// Settle copies r into the future. Pending results are rejected.
func (p *Promise[T]) Settle(r Result[T]) error {
	if r.Outcome == OutcomePending {
		return errors.New("async: cannot settle with pending outcome")
	}
	return p.future.complete(r)
}

func (f *Future[T]) complete(r Result[T]) error {
	f.mu.Lock()
	if f.result.Outcome != OutcomePending {
		f.mu.Unlock()
		return ErrAlreadyCompleted
	}
	f.result = r
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(r)
	}
	return nil
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled result, or false while the future is pending.
func (f *Future[T]) Result() (Result[T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.result.Outcome != OutcomePending
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (Result[T], error) {
	select {
	case <-f.done:
		r, _ := f.Result()
		return r, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// OnComplete registers fn to receive the settled result. When post is non-nil
// fn is handed to post instead of being called directly, which lets callers
// re-marshal delivery onto another goroutine. If the future has already
// settled, delivery happens before OnComplete returns.
func (f *Future[T]) OnComplete(post func(func()), fn func(Result[T])) {
	deliver := fn
	if post != nil {
		deliver = func(r Result[T]) {
			post(func() { fn(r) })
		}
	}

	f.mu.Lock()
	if f.result.Outcome == OutcomePending {
		f.callbacks = append(f.callbacks, deliver)
		f.mu.Unlock()
		return
	}
	r := f.result
	f.mu.Unlock()
	deliver(r)
}

// Map returns a future settled with fn applied to a successful value. Other
// outcomes pass through unchanged.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	p, out := New[U]()
	f.OnComplete(nil, func(r Result[T]) {
		if r.Outcome == OutcomeSuccess {
			_ = p.Succeed(fn(r.Value))
			return
		}
		_ = p.Settle(Result[U]{Outcome: r.Outcome, Err: r.Err})
	})
	return out
}
