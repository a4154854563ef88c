package flows

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goBioLogin/async"
)

// RegisterErrors carries host-level sentinel errors for the two remote steps.
type RegisterErrors struct {
	VerifyCodeRejected error
	RegistrationFailed error
}

// RegisterDeps captures the two remote registration steps.
type RegisterDeps[T any] struct {
	CheckCode func(context.Context, RegisterInput) *async.Future[struct{}]
	Register  func(context.Context, RegisterInput) *async.Future[T]

	Errors RegisterErrors
}

// RunRegister checks the verification code and, only if that succeeds,
// creates the account. A failing step settles the returned future with an
// error wrapping the step's sentinel; the register step is never issued after
// a failed check.
func RunRegister[T any](ctx context.Context, in RegisterInput, deps RegisterDeps[T]) *async.Future[T] {
	p, out := async.New[T]()

	deps.CheckCode(ctx, in).OnComplete(nil, func(check async.Result[struct{}]) {
		if !check.OK() {
			_ = p.Fail(wrapStep(deps.Errors.VerifyCodeRejected, check.Err))
			return
		}
		if ctx.Err() != nil {
			_ = p.Cancel()
			return
		}
		deps.Register(ctx, in).OnComplete(nil, func(reg async.Result[T]) {
			if !reg.OK() {
				_ = p.Fail(wrapStep(deps.Errors.RegistrationFailed, reg.Err))
				return
			}
			_ = p.Succeed(reg.Value)
		})
	})

	return out
}

func wrapStep(step, cause error) error {
	if step == nil {
		return cause
	}
	if cause == nil {
		return step
	}
	return fmt.Errorf("%w: %w", step, cause)
}
