package goBioLogin

import (
	"context"

	"github.com/google/uuid"
)

type attemptIDContextKey struct{}

// WithAttemptID attaches a caller-chosen correlation id to ctx. Screen
// actions started with ctx record it on their audit events instead of a
// generated one.
func WithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDContextKey{}, id)
}

func attemptIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(attemptIDContextKey{}).(string)
	return id
}

func (e *Engine) newAttempt(ctx context.Context, screen Screen) attempt {
	id := attemptIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	return attempt{id: id, screen: screen, started: e.clock.Now()}
}
