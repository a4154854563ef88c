package goBioLogin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/internal/countdown"
	"github.com/MrEthical07/goBioLogin/internal/flows"
)

// RegisterScreen is the account creation screen.
type RegisterScreen struct {
	screenBase
	cooldown    *countdown.Countdown
	sending     bool
	registering bool
}

// OpenRegister opens the register screen. Closing it stops the resend
// countdown.
func (e *Engine) OpenRegister(view View) *RegisterScreen {
	cfg := e.config.Registration
	s := &RegisterScreen{
		screenBase: e.newScreenBase(ScreenRegister, view),
		cooldown:   countdown.New(e.clock, cfg.CodeCooldown, cfg.CooldownTick),
	}
	s.scope.OnClose(s.cooldown.Stop)

	s.view.SetLabel(ControlSendCode, textSendCodeLabel)
	s.view.SetEnabled(ControlSendCode, true)
	s.view.SetEnabled(ControlRegister, true)
	return s
}

// CooldownActive reports whether the resend countdown is running.
func (s *RegisterScreen) CooldownActive() bool {
	return s.cooldown.Running()
}

// SendCode describes the sendcode operation and its observable behavior.
//
// Email, country code and email format are checked locally first. The send
// control stays disabled while the request runs. On success a countdown
// relabels the control every tick and re-enables it when it reaches zero; on
// failure the control is re-enabled at once.
func (s *RegisterScreen) SendCode(ctx context.Context, email, countryCode string) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	if s.sending || s.cooldown.Running() {
		return async.Failed[Screen](ErrActionInFlight)
	}
	e := s.engine
	cfg := e.config.Registration
	att := e.newAttempt(ctx, s.kind)

	in := flows.TrimSendCode(flows.SendCodeInput{Email: email, CountryCode: countryCode})
	if err := flows.ValidateSendCode(in, validationErrors()); err != nil {
		s.view.ShowMessage(notice(registerValidationText(err, cfg.MinPasswordLength)))
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventVerifyCodeSendFailure, att, false, "", err, nil)
		return async.Failed[Screen](err)
	}

	s.sending = true
	s.view.SetEnabled(ControlSendCode, false)
	s.view.SetBusy(true)

	p, out := async.New[Screen]()
	pending := e.account.SendVerifyCode(ctx, in.Email, cfg.Region, in.CountryCode, cfg.VerifyPurpose)
	deliver(&s.screenBase, pending, p, func(r async.Result[struct{}]) {
		s.sending = false
		s.view.SetBusy(false)

		if !r.OK() {
			s.view.SetEnabled(ControlSendCode, true)
			s.view.ShowMessage(notice(fmt.Sprintf(textSendCodeFailed, causeText(r.Err))))
			e.metricInc(MetricVerifyCodeSendFailure)
			e.emitAudit(ctx, auditEventVerifyCodeSendFailure, att, false, "", r.Err, nil)
			_ = p.Fail(r.Err)
			return
		}

		s.view.ShowMessage(notice(textCodeSent))
		e.metricInc(MetricVerifyCodeSent)
		e.emitAudit(ctx, auditEventVerifyCodeSent, att, true, "", nil, nil)
		s.startCooldown()
		_ = p.Succeed(ScreenNone)
	})
	return out
}

// startCooldown restarts the resend countdown. The send control stays
// disabled until the countdown finishes.
func (s *RegisterScreen) startCooldown() {
	s.cooldown.Start(s.scope.Context(),
		func(remaining time.Duration) {
			label := fmt.Sprintf(textResendLabel, countdown.Seconds(remaining))
			s.post(func() {
				s.view.SetLabel(ControlSendCode, label)
			})
		},
		func() {
			s.post(func() {
				s.view.SetEnabled(ControlSendCode, true)
				s.view.SetLabel(ControlSendCode, textSendCodeLabel)
			})
		},
	)
}

// Register describes the register operation and its observable behavior.
//
// Every field is validated locally in display order before any remote call.
// The verification code is then checked and, only if accepted, the account
// is created. Success saves the session and navigates to Home.
func (s *RegisterScreen) Register(ctx context.Context, form RegisterForm) *async.Future[Screen] {
	if s.Closed() {
		return closedAction()
	}
	if s.registering {
		return async.Failed[Screen](ErrActionInFlight)
	}
	e := s.engine
	cfg := e.config.Registration
	att := e.newAttempt(ctx, s.kind)

	in := flows.TrimRegister(flows.RegisterInput(form))
	if err := flows.ValidateRegister(in, cfg.MinPasswordLength, validationErrors()); err != nil {
		s.view.ShowMessage(notice(registerValidationText(err, cfg.MinPasswordLength)))
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventRegisterFailure, att, false, "", err, nil)
		return async.Failed[Screen](err)
	}

	s.registering = true
	s.view.SetEnabled(ControlRegister, false)
	s.view.SetBusy(true)

	p, out := async.New[Screen]()
	pending := flows.RunRegister(ctx, in, flows.RegisterDeps[Identity]{
		CheckCode: func(ctx context.Context, in flows.RegisterInput) *async.Future[struct{}] {
			return e.account.CheckVerifyCode(ctx, in.Email, cfg.Region, in.CountryCode, in.Code, cfg.VerifyPurpose)
		},
		Register: func(ctx context.Context, in flows.RegisterInput) *async.Future[Identity] {
			return e.account.RegisterAccount(ctx, in.CountryCode, in.Email, in.Password, in.Code)
		},
		Errors: flows.RegisterErrors{
			VerifyCodeRejected: ErrVerifyCodeRejected,
			RegistrationFailed: ErrRegistrationFailed,
		},
	})
	deliver(&s.screenBase, pending, p, func(r async.Result[Identity]) {
		s.registering = false
		s.view.SetBusy(false)
		s.view.SetEnabled(ControlRegister, true)

		err := r.Err
		if r.OK() && strings.TrimSpace(r.Value.UserID) == "" {
			err = fmt.Errorf("%w: %w", ErrRegistrationFailed,
				fmt.Errorf("%w: empty user id", ErrRemoteCall))
		}
		if err != nil {
			text := fmt.Sprintf(textRegisterFailed, causeText(err))
			metric := MetricRegisterFailure
			if errors.Is(err, ErrVerifyCodeRejected) {
				text = fmt.Sprintf(textVerifyFailed, causeText(err))
				metric = MetricVerifyCodeRejected
			}
			e.logger.WarnContext(ctx, "registration failed", "attempt_id", att.id, "error", err)
			s.view.ShowMessage(notice(text))
			e.metricInc(metric)
			e.emitAudit(ctx, auditEventRegisterFailure, att, false, "", err, nil)
			_ = p.Fail(err)
			return
		}

		uid := r.Value.UserID
		e.saveLogin(ctx, uid, in.Email, in.CountryCode)
		s.view.ShowMessage(notice(textRegistered))
		e.metricInc(MetricRegisterSuccess)
		e.emitAudit(ctx, auditEventRegisterSuccess, att, true, uid, nil, nil)
		s.finish(ScreenHome)
		_ = p.Succeed(ScreenHome)
	})
	return out
}
