// Package uithread implements the single cooperative UI thread that every
// screen action and SDK completion runs on.
//
// Post never blocks the caller; queued functions run in FIFO order on
// whichever goroutine is driving the loop through Run, RunPending or RunUntil.
// Only one goroutine may drive a loop at a time.
package uithread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("uithread: loop closed")

// Loop is a FIFO queue of functions executed on one driving goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64
	once    sync.Once
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It returns false when the loop is closed and fn was
// dropped.
func (l *Loop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	if l.closed.Load() {
		l.dropped.Add(1)
		return false
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// RunPending executes everything queued so far, including functions posted by
// the functions it runs, and returns how many ran.
func (l *Loop) RunPending() int {
	n := 0
	for {
		fn := l.next()
		if fn == nil {
			return n
		}
		fn()
		n++
	}
}

// Run drives the loop until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			l.RunPending()
			return ErrClosed
		case <-l.wake:
		}
	}
}

// RunUntil drives the loop until done is closed, ctx is cancelled or the loop
// is closed. Hosts use it to wait for a screen action without giving up the
// UI thread.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) error {
	for {
		l.RunPending()
		select {
		case <-done:
			l.RunPending()
			return nil
		default:
		}
		select {
		case <-done:
			l.RunPending()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			l.RunPending()
			return ErrClosed
		case <-l.wake:
		}
	}
}

// Close stops accepting work. Functions already queued still run on the next
// drain.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Dropped returns how many posts were rejected after Close.
func (l *Loop) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}
