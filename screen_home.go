package goBioLogin

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/internal/flows"
)

// HomeScreen is shown to a logged-in user. It enables and disables biometric
// login and logs out.
type HomeScreen struct {
	screenBase
	accountName string
	enabling    bool
	loggingOut  bool
}

// OpenHome opens the home screen with a welcome for the stored account. On
// an unsupported device the enable and disable controls are disabled.
func (e *Engine) OpenHome(ctx context.Context, view View) *HomeScreen {
	sess := e.localSession(ctx)
	s := &HomeScreen{
		screenBase:  e.newScreenBase(ScreenHome, view),
		accountName: sess.AccountName,
	}
	s.view.SetLabel(ControlWelcome, fmt.Sprintf(textWelcome, sess.AccountName))
	s.view.SetEnabled(ControlLogout, true)

	if !e.biometric.IsSupported(ctx) {
		s.view.SetEnabled(ControlEnableBiometric, false)
		s.view.SetEnabled(ControlDisableBiometric, false)
		s.view.ShowMessage(notice(textDeviceUnsupported))
	}
	return s
}

// AccountName is the account shown in the welcome text.
func (s *HomeScreen) AccountName() string {
	return s.accountName
}

// currentUserID reads the user id from the store on every call.
func (s *HomeScreen) currentUserID(ctx context.Context) string {
	return s.engine.localSession(ctx).UserID
}

// EnableBiometric turns biometric login on for the stored user. The SDK
// prompts for a biometric; cancelling it shows a "setup cancelled" notice
// and settles the future as cancelled.
func (s *HomeScreen) EnableBiometric(ctx context.Context) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	if s.enabling {
		return async.Failed[Screen](ErrActionInFlight)
	}
	e := s.engine
	att := e.newAttempt(ctx, s.kind)
	uid := s.currentUserID(ctx)

	if err := flows.CheckBiometricEnable(ctx, uid, e.biometricDeps()); err != nil {
		text := textBiometricsNoHW
		if errors.Is(err, ErrNoActiveUser) {
			text = textNoUserForEnable
		}
		s.view.ShowMessage(notice(text))
		e.metricInc(MetricBiometricEnableFailure)
		e.emitAudit(ctx, auditEventBiometricEnableFailed, att, false, uid, err, nil)
		return async.Failed[Screen](err)
	}

	s.enabling = true
	s.view.SetEnabled(ControlEnableBiometric, false)

	p, out := async.New[Screen]()
	deliver(&s.screenBase, e.biometric.EnableForUser(ctx, uid), p, func(r async.Result[Identity]) {
		s.enabling = false
		s.view.SetEnabled(ControlEnableBiometric, true)

		switch r.Outcome {
		case async.OutcomeSuccess:
			s.view.ShowMessage(notice(textEnabled))
			e.metricInc(MetricBiometricEnabled)
			e.emitAudit(ctx, auditEventBiometricEnabled, att, true, uid, nil, nil)
			_ = p.Succeed(ScreenNone)

		case async.OutcomeCancelled:
			s.view.ShowMessage(notice(textSetupCancelled))
			e.metricInc(MetricBiometricEnableFailure)
			e.emitAudit(ctx, auditEventBiometricEnableFailed, att, false, uid, ErrUserCancelled, nil)
			_ = p.Cancel()

		case async.OutcomeInvalidState:
			s.view.ShowMessage(notice(textFingerInvalid))
			e.metricInc(MetricBiometricEnableFailure)
			e.emitAudit(ctx, auditEventBiometricEnableFailed, att, false, uid, ErrInvalidCredentialState, nil)
			_ = p.Fail(ErrInvalidCredentialState)

		default:
			s.view.ShowMessage(biometricErrorMessage(r.Err, false))
			e.metricInc(MetricBiometricEnableFailure)
			e.emitAudit(ctx, auditEventBiometricEnableFailed, att, false, uid, r.Err, map[string]string{
				"class": ClassifySDKError(r.Err).String(),
			})
			_ = p.Fail(r.Err)
		}
	})
	return out
}

// DisableBiometric turns biometric login off for the stored user. The SDK
// call is synchronous, so the returned future is already settled.
func (s *HomeScreen) DisableBiometric(ctx context.Context) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	e := s.engine
	att := e.newAttempt(ctx, s.kind)
	uid := s.currentUserID(ctx)

	if uid == "" {
		s.view.ShowMessage(notice(textNoUser))
		e.emitAudit(ctx, auditEventBiometricDisabled, att, false, "", ErrNoActiveUser, nil)
		return async.Failed[Screen](ErrNoActiveUser)
	}
	if err := e.biometric.DisableForUser(ctx, uid); err != nil {
		e.logger.WarnContext(ctx, "disable biometric failed", "user_id", uid, "error", err)
		s.view.ShowMessage(notice(fmt.Sprintf(textDisableFailed, causeText(err))))
		e.emitAudit(ctx, auditEventBiometricDisabled, att, false, uid, err, nil)
		return async.Failed[Screen](err)
	}

	s.view.ShowMessage(notice(textDisabled))
	e.metricInc(MetricBiometricDisabled)
	e.emitAudit(ctx, auditEventBiometricDisabled, att, true, uid, nil, nil)
	return async.Succeeded(ScreenNone)
}

// Logout describes the logout operation and its observable behavior.
//
// On success the stored session is marked logged out with its identity kept,
// and the screen navigates to biometric login if the remembered user has it
// enabled, else to password login. On failure a notice carries the reason and
// the screen stays on Home.
func (s *HomeScreen) Logout(ctx context.Context) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	if s.loggingOut {
		return async.Failed[Screen](ErrActionInFlight)
	}
	e := s.engine
	att := e.newAttempt(ctx, s.kind)

	s.loggingOut = true
	s.view.SetEnabled(ControlLogout, false)

	p, out := async.New[Screen]()
	deliver(&s.screenBase, e.account.Logout(ctx), p, func(r async.Result[struct{}]) {
		s.loggingOut = false
		s.view.SetEnabled(ControlLogout, true)

		if !r.OK() {
			e.logger.WarnContext(ctx, "logout failed", "attempt_id", att.id, "error", r.Err)
			s.view.ShowMessage(notice(fmt.Sprintf(textLogoutFailed, causeText(r.Err))))
			e.metricInc(MetricLogoutFailure)
			e.emitAudit(ctx, auditEventLogoutFailure, att, false, "", r.Err, nil)
			_ = p.Fail(r.Err)
			return
		}

		storeCtx := context.WithoutCancel(ctx)
		if err := e.store.MarkLogout(storeCtx); err != nil {
			e.metricInc(MetricSessionStoreFailure)
			e.logger.ErrorContext(ctx, "mark logout failed", "error", err)
		}
		s.view.ShowMessage(notice(textLoggedOut))
		e.metricInc(MetricLogoutSuccess)
		e.emitAudit(ctx, auditEventLogoutSuccess, att, true, "", nil, nil)

		next := e.ScreenAfterLogout(storeCtx)
		s.finish(next)
		_ = p.Succeed(next)
	})
	return out
}
