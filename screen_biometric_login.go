package goBioLogin

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/internal/clickguard"
	"github.com/MrEthical07/goBioLogin/internal/flows"
)

// BiometricLoginScreen logs the remembered user in with a biometric prompt.
type BiometricLoginScreen struct {
	screenBase
	guard    *clickguard.Guard
	identity flows.LocalIdentity
	inFlight bool
}

// OpenBiometricLogin opens the biometric login screen for the stored
// identity. On an unsupported device both biometric triggers are disabled
// and a notice is shown.
func (e *Engine) OpenBiometricLogin(ctx context.Context, view View) *BiometricLoginScreen {
	sess := e.localSession(ctx)
	s := &BiometricLoginScreen{
		screenBase: e.newScreenBase(ScreenBiometricLogin, view),
		guard:      clickguard.New(e.clock, e.config.Biometric.ClickInterval),
		identity: flows.LocalIdentity{
			UserID:      sess.UserID,
			AccountName: sess.AccountName,
			CountryCode: sess.CountryCode,
		},
	}

	name := s.identity.AccountName
	if name == "" {
		name = textNoUserConfigured
	}
	s.view.SetLabel(ControlAccountName, name)

	if !e.biometric.IsSupported(ctx) {
		s.setTriggers(false)
		s.view.ShowMessage(notice(textDeviceUnsupported))
	}
	return s
}

// AccountName is the remembered account shown on the screen.
func (s *BiometricLoginScreen) AccountName() string {
	return s.identity.AccountName
}

func (s *BiometricLoginScreen) setTriggers(enabled bool) {
	s.view.SetEnabled(ControlFingerIcon, enabled)
	s.view.SetEnabled(ControlFingerText, enabled)
}

// FingerLogin describes the fingerlogin operation and its observable behavior.
//
// Taps repeated within the click interval are ignored with ErrThrottled.
// Preconditions are checked in order (device support, enablement for the
// stored user, credential change, complete local identity); the first
// failure is shown as a dialog that falls back to password login, and the
// SDK prompt is not started. While the prompt runs both triggers are
// disabled; any terminal outcome re-enables them. Success overwrites the
// session with the returned user id and the stored account name and country
// code, then navigates to Home. A user cancellation settles the future as
// cancelled without a message.
func (s *BiometricLoginScreen) FingerLogin(ctx context.Context) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	e := s.engine
	if !s.guard.Allow() {
		e.metricInc(MetricBiometricTapThrottled)
		return async.Failed[Screen](ErrThrottled)
	}
	if s.inFlight {
		return async.Failed[Screen](ErrActionInFlight)
	}
	att := e.newAttempt(ctx, s.kind)
	id := s.identity

	if err := flows.CheckBiometricLogin(ctx, id, e.biometricDeps()); err != nil {
		s.view.ShowMessage(fallbackDialog(preconditionText(err)))
		e.metricInc(MetricBiometricPreconditionFailed)
		e.emitAudit(ctx, auditEventBiometricPrecondition, att, false, id.UserID, err, nil)
		return async.Failed[Screen](err)
	}

	s.inFlight = true
	s.setTriggers(false)

	p, out := async.New[Screen]()
	pending := e.biometric.Authenticate(ctx, id.UserID, id.AccountName, id.CountryCode)
	deliver(&s.screenBase, pending, p, func(r async.Result[Identity]) {
		s.inFlight = false
		s.setTriggers(true)
		e.metricObserve(MetricBiometricLoginLatency, att.started)

		switch r.Outcome {
		case async.OutcomeSuccess:
			uid := r.Value.UserID
			if strings.TrimSpace(uid) == "" {
				err := fmt.Errorf("%w: authenticate returned an empty user id", ErrRemoteCall)
				s.view.ShowMessage(biometricErrorMessage(err, true))
				e.metricInc(MetricBiometricLoginFailure)
				e.emitAudit(ctx, auditEventBiometricLoginFailure, att, false, id.UserID, err, nil)
				_ = p.Fail(err)
				return
			}
			e.saveLogin(ctx, uid, id.AccountName, id.CountryCode)
			s.view.ShowMessage(notice(textBiometricSucceeded))
			e.metricInc(MetricBiometricLoginSuccess)
			e.emitAudit(ctx, auditEventBiometricLoginSuccess, att, true, uid, nil, nil)
			s.finish(ScreenHome)
			_ = p.Succeed(ScreenHome)

		case async.OutcomeCancelled:
			e.metricInc(MetricBiometricLoginCancelled)
			e.emitAudit(ctx, auditEventBiometricLoginFailure, att, false, id.UserID, ErrUserCancelled, nil)
			_ = p.Cancel()

		case async.OutcomeInvalidState:
			s.view.ShowMessage(notice(textFingerInvalid))
			e.metricInc(MetricBiometricLoginFailure)
			e.emitAudit(ctx, auditEventBiometricLoginFailure, att, false, id.UserID, ErrInvalidCredentialState, nil)
			_ = p.Fail(ErrInvalidCredentialState)

		default:
			e.logger.WarnContext(ctx, "biometric login failed",
				"attempt_id", att.id, "class", ClassifySDKError(r.Err).String(), "error", r.Err)
			s.view.ShowMessage(biometricErrorMessage(r.Err, true))
			e.metricInc(MetricBiometricLoginFailure)
			e.emitAudit(ctx, auditEventBiometricLoginFailure, att, false, id.UserID, r.Err, map[string]string{
				"class": ClassifySDKError(r.Err).String(),
			})
			_ = p.Fail(r.Err)
		}
	})
	return out
}
