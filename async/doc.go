// Package async provides a one-shot future used for every asynchronous SDK
// result and every screen action.
//
// # Terminal outcomes
//
// A [Future] settles exactly once with one of [OutcomeSuccess], [OutcomeError],
// [OutcomeCancelled] or [OutcomeInvalidState]. The producing side holds a
// [Promise]; any completion after the first returns [ErrAlreadyCompleted] and
// leaves the settled result untouched.
//
// # Architecture boundaries
//
// This package does not know about threads. Callbacks registered with
// [Future.OnComplete] run on the goroutine that settles the promise, so callers
// that need UI-thread delivery pass a poster such as uithread.Loop.Post.
package async
