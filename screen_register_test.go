package goBioLogin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterForm() RegisterForm {
	return RegisterForm{
		CountryCode:     "1",
		Email:           "a@b.com",
		Password:        "abc123",
		ConfirmPassword: "abc123",
		Code:            "123456",
	}
}

func TestRegisterShortPasswordRejectedLocally(t *testing.T) {
	h := newHarness(t)
	view := newRecordingView()
	screen := h.engine.OpenRegister(view)

	form := validRegisterForm()
	form.Password, form.ConfirmPassword = "abc12", "abc12"

	r := h.await(t, screen.Register(context.Background(), form))
	require.ErrorIs(t, r.Err, ErrPasswordTooShort)
	assert.Empty(t, h.account.Calls())

	msg, _ := view.lastMessage()
	assert.Equal(t, "Password must be at least 6 characters", msg.Text)
}

func TestRegisterMismatchRejectedLocally(t *testing.T) {
	h := newHarness(t)
	screen := h.engine.OpenRegister(newRecordingView())

	form := validRegisterForm()
	form.ConfirmPassword = "abc124"

	r := h.await(t, screen.Register(context.Background(), form))
	require.ErrorIs(t, r.Err, ErrPasswordMismatch)
	assert.Empty(t, h.account.Calls())
}

func TestRegisterSuccess(t *testing.T) {
	h := newHarness(t)
	view := newRecordingView()
	screen := h.engine.OpenRegister(view)

	r := h.await(t, screen.Register(context.Background(), validRegisterForm()))
	require.True(t, r.OK(), "register failed: %v", r.Err)
	assert.Equal(t, ScreenHome, r.Value)
	assert.Equal(t, []string{"check_code", "register"}, h.account.Calls())

	sess := h.loadSession(t)
	assert.Equal(t, "u-new", sess.UserID)
	assert.Equal(t, "a@b.com", sess.AccountName)
	assert.Equal(t, "1", sess.CountryCode)
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, []Screen{ScreenHome}, view.navigated)
}

func TestRegisterCheckFailureAbortsBeforeCreate(t *testing.T) {
	h := newHarness(t)
	h.account.checkCode = func(string, string, string, string, int) *async.Future[struct{}] {
		return async.Failed[struct{}](&SDKError{Code: "CODE_EXPIRED", Message: "code expired"})
	}

	view := newRecordingView()
	screen := h.engine.OpenRegister(view)
	r := h.await(t, screen.Register(context.Background(), validRegisterForm()))

	require.ErrorIs(t, r.Err, ErrVerifyCodeRejected)
	require.ErrorIs(t, r.Err, ErrRemoteCall)
	assert.Equal(t, []string{"check_code"}, h.account.Calls())

	msg, _ := view.lastMessage()
	assert.Equal(t, "Verification failed: code expired", msg.Text)
	assert.True(t, view.isEnabled(ControlRegister))
}

func TestRegisterCreateFailure(t *testing.T) {
	h := newHarness(t)
	h.account.register = func(string, string, string, string) *async.Future[Identity] {
		return async.Failed[Identity](&SDKError{Message: "email taken"})
	}

	view := newRecordingView()
	screen := h.engine.OpenRegister(view)
	r := h.await(t, screen.Register(context.Background(), validRegisterForm()))

	require.ErrorIs(t, r.Err, ErrRegistrationFailed)
	assert.NotErrorIs(t, r.Err, ErrVerifyCodeRejected)
	msg, _ := view.lastMessage()
	assert.Equal(t, "Registration failed: email taken", msg.Text)
	_, err := h.store.Load(context.Background())
	assert.Error(t, err)
}

func TestSendCodeValidation(t *testing.T) {
	h := newHarness(t)
	view := newRecordingView()
	screen := h.engine.OpenRegister(view)

	r := h.await(t, screen.SendCode(context.Background(), "a@b", "1"))
	require.ErrorIs(t, r.Err, ErrInvalidEmail)
	assert.Empty(t, h.account.Calls())

	msg, _ := view.lastMessage()
	assert.Equal(t, textInvalidEmail, msg.Text)
}

func TestSendCodeFailureReenablesImmediately(t *testing.T) {
	h := newHarness(t)
	h.account.sendCode = func(string, string, string, int) *async.Future[struct{}] {
		return async.Failed[struct{}](&SDKError{Message: "rate limited"})
	}

	view := newRecordingView()
	screen := h.engine.OpenRegister(view)
	r := h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))

	require.Error(t, r.Err)
	assert.True(t, view.isEnabled(ControlSendCode))
	assert.False(t, screen.CooldownActive())
	msg, _ := view.lastMessage()
	assert.Equal(t, "Failed to send verification code: rate limited", msg.Text)
}

func TestSendCodeCountdownKeepsResendDisabledUntilZero(t *testing.T) {
	h := newHarness(t)
	var gotRegion string
	var gotPurpose int
	h.account.sendCode = func(email, region, countryCode string, purpose int) *async.Future[struct{}] {
		gotRegion, gotPurpose = region, purpose
		return async.Succeeded(struct{}{})
	}

	view := newRecordingView()
	screen := h.engine.OpenRegister(view)
	r := h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))
	require.True(t, r.OK(), "send failed: %v", r.Err)
	assert.Equal(t, "", gotRegion)
	assert.Equal(t, VerifyPurposeRegister, gotPurpose)

	waitLabel := func(want string) {
		t.Helper()
		require.Eventually(t, func() bool {
			h.loop.RunPending()
			return view.label(ControlSendCode) == want
		}, 2*time.Second, time.Millisecond, "label never became %q (last %q)", want, view.label(ControlSendCode))
	}

	waitLabel("Resend in 60s")
	require.False(t, view.isEnabled(ControlSendCode))

	for remaining := 59; remaining > 0; remaining-- {
		h.clock.Advance(time.Second)
		waitLabel(fmt.Sprintf("Resend in %ds", remaining))
		require.False(t, view.isEnabled(ControlSendCode), "enabled with %ds left", remaining)
	}

	h.clock.Advance(time.Second)
	waitLabel(textSendCodeLabel)
	assert.True(t, view.isEnabled(ControlSendCode))
	assert.Eventually(t, func() bool { return !screen.CooldownActive() }, time.Second, time.Millisecond)
}

func TestSendCodeWhileCoolingDownIsRejected(t *testing.T) {
	h := newHarness(t)
	screen := h.engine.OpenRegister(newRecordingView())

	r := h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))
	require.True(t, r.OK())

	r = h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))
	require.ErrorIs(t, r.Err, ErrActionInFlight)
	assert.Equal(t, []string{"send_code"}, h.account.Calls())
}

func TestRegisterCloseStopsCountdown(t *testing.T) {
	h := newHarness(t)
	view := newRecordingView()
	screen := h.engine.OpenRegister(view)

	r := h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))
	require.True(t, r.OK())
	h.loop.RunPending()

	screen.Close()
	assert.False(t, screen.CooldownActive())

	labels := len(view.labels[ControlSendCode])
	h.clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	h.loop.RunPending()
	assert.Len(t, view.labels[ControlSendCode], labels)

	r = h.await(t, screen.SendCode(context.Background(), "a@b.com", "1"))
	assert.True(t, errors.Is(r.Err, ErrScreenClosed))
}
