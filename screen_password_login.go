package goBioLogin

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/internal/flows"
)

// PasswordLoginScreen is the email/password login screen.
type PasswordLoginScreen struct {
	screenBase
	inFlight bool
}

// OpenPasswordLogin opens the password login screen.
func (e *Engine) OpenPasswordLogin(view View) *PasswordLoginScreen {
	s := &PasswordLoginScreen{screenBase: e.newScreenBase(ScreenPasswordLogin, view)}
	s.view.SetEnabled(ControlLogin, true)
	s.view.SetBusy(false)
	return s
}

// Login describes the login operation and its observable behavior.
//
// The trimmed country code, email and password must all be non-empty;
// otherwise a notice is shown, the returned future fails with the field's
// validation error and the account SDK is not called. While the remote call
// runs the login control is disabled and the busy indicator shown. On success
// the session is saved and the screen navigates to Home; on failure a notice
// carries the remote reason.
func (s *PasswordLoginScreen) Login(ctx context.Context, form LoginForm) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	if s.inFlight {
		return async.Failed[Screen](ErrActionInFlight)
	}
	e := s.engine
	att := e.newAttempt(ctx, s.kind)

	in := flows.TrimLogin(flows.LoginInput(form))
	if err := flows.ValidateLogin(in, validationErrors()); err != nil {
		s.view.ShowMessage(notice(textLoginRequired))
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventPasswordLoginFailure, att, false, "", err, nil)
		return async.Failed[Screen](err)
	}

	s.inFlight = true
	s.view.SetEnabled(ControlLogin, false)
	s.view.SetBusy(true)

	p, out := async.New[Screen]()
	pending := e.account.LoginWithEmail(ctx, in.CountryCode, in.Email, in.Password)
	deliver(&s.screenBase, pending, p, func(r async.Result[Identity]) {
		s.inFlight = false
		s.view.SetBusy(false)
		s.view.SetEnabled(ControlLogin, true)
		e.metricObserve(MetricPasswordLoginLatency, att.started)

		err := r.Err
		if r.OK() && strings.TrimSpace(r.Value.UserID) == "" {
			err = fmt.Errorf("%w: login returned an empty user id", ErrRemoteCall)
		}
		if err != nil {
			e.logger.WarnContext(ctx, "password login failed", "attempt_id", att.id, "error", err)
			s.view.ShowMessage(notice(fmt.Sprintf(textLoginFailed, causeText(err))))
			e.metricInc(MetricPasswordLoginFailure)
			e.emitAudit(ctx, auditEventPasswordLoginFailure, att, false, "", err, nil)
			_ = p.Fail(err)
			return
		}

		uid := r.Value.UserID
		e.saveLogin(ctx, uid, in.Email, in.CountryCode)
		s.view.ShowMessage(notice(textLoginSucceeded))
		e.metricInc(MetricPasswordLoginSuccess)
		e.emitAudit(ctx, auditEventPasswordLoginSuccess, att, true, uid, nil, nil)
		s.finish(ScreenHome)
		_ = p.Succeed(ScreenHome)
	})
	return out
}

// OpenRegister asks the host to show the register screen. The login screen
// stays open underneath.
func (s *PasswordLoginScreen) OpenRegister() {
	if s.Closed() {
		return
	}
	s.view.Navigate(ScreenRegister)
}
