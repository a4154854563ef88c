// Package lifecycle ties asynchronous work to the lifetime of a screen.
//
// A [Scope] is a cancellation token: work started through it observes the
// scope's context, and callbacks wrapped with [Scope.Guard] become no-ops once
// the scope is closed. Closing a screen closes its scope, which is the only
// explicit cleanup a screen performs.
package lifecycle

import (
	"context"
	"sync"
)

// Scope is the lifetime of one screen instance.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	cleanups []func()
	wg       sync.WaitGroup
}

// NewScope derives a scope from parent. Cancelling parent closes the scope's
// context but cleanups only run on Close.
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Alive reports whether the scope is still open.
func (s *Scope) Alive() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.ctx.Err() == nil
}

// Guard wraps fn so that it only runs while the scope is alive.
func (s *Scope) Guard(fn func()) func() {
	return func() {
		if s.Alive() {
			fn()
		}
	}
}

// Go runs fn on a new goroutine with the scope context. It reports false
// without starting anything when the scope is already closed.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
	return true
}

// OnClose registers fn to run when the scope closes. Cleanups run in reverse
// registration order. Registering on a closed scope runs fn immediately.
func (s *Scope) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Close cancels the scope and runs its cleanups. It is idempotent.
func (s *Scope) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Wait blocks until every goroutine started with Go has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}
