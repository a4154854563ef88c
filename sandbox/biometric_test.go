package sandbox

import (
	"context"
	"testing"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableThenAuthenticate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := register(t, f, "1", "a@b.com", "abc123")

	assert.False(t, f.device.IsEnabledForUser(ctx, id.UserID))
	r := await(t, f.device.EnableForUser(ctx, id.UserID))
	require.True(t, r.OK(), "enable: %v", r.Err)
	assert.Equal(t, "a@b.com", r.Value.Email)
	assert.True(t, f.device.IsEnabledForUser(ctx, id.UserID))
	assert.False(t, f.device.HasCredentialChanged(ctx, id.UserID))

	require.True(t, await(t, f.account.Logout(ctx)).OK())
	auth := await(t, f.device.Authenticate(ctx, id.UserID, "a@b.com", "1"))
	require.True(t, auth.OK(), "authenticate: %v", auth.Err)
	assert.Equal(t, id.UserID, auth.Value.UserID)
	assert.True(t, f.account.IsSessionActive(ctx), "biometric login opens a session")
}

func TestEnrollmentChangeInvalidatesCredential(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := register(t, f, "1", "a@b.com", "abc123")
	require.True(t, await(t, f.device.EnableForUser(ctx, id.UserID)).OK())

	f.device.Enroll("finger-2")
	assert.True(t, f.device.HasCredentialChanged(ctx, id.UserID))

	r := await(t, f.device.Authenticate(ctx, id.UserID, "a@b.com", "1"))
	assert.Equal(t, async.OutcomeInvalidState, r.Outcome)

	// Re-enabling records the new enrollment.
	require.True(t, await(t, f.device.EnableForUser(ctx, id.UserID)).OK())
	assert.False(t, f.device.HasCredentialChanged(ctx, id.UserID))
}

func TestPromptOutcomes(t *testing.T) {
	tests := []struct {
		prompt  Prompt
		outcome async.Outcome
		code    string
	}{
		{PromptCancel, async.OutcomeCancelled, ""},
		{PromptInvalid, async.OutcomeInvalidState, ""},
		{PromptLockout, async.OutcomeError, CodeLockout},
	}

	for _, tt := range tests {
		t.Run(tt.prompt.String(), func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			id := register(t, f, "1", "a@b.com", "abc123")
			require.True(t, await(t, f.device.EnableForUser(ctx, id.UserID)).OK())

			f.device.QueuePrompt(tt.prompt)
			r := await(t, f.device.Authenticate(ctx, id.UserID, "a@b.com", "1"))
			assert.Equal(t, tt.outcome, r.Outcome)
			if tt.code != "" {
				assert.Equal(t, tt.code, sdkCode(t, r.Err))
			}

			// The queue is drained; the next prompt is accepted.
			assert.True(t, await(t, f.device.Authenticate(ctx, id.UserID, "a@b.com", "1")).OK())
		})
	}
}

func TestSensorErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*BiometricDevice)
		code  string
	}{
		{"no hardware", func(d *BiometricDevice) { d.SetHardware(false) }, CodeNoHardware},
		{"unavailable", func(d *BiometricDevice) { d.SetAvailable(false) }, CodeHardwareUnavailable},
		{"none enrolled", func(d *BiometricDevice) { d.Unenroll("finger-1") }, CodeNoneEnrolled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			id := register(t, f, "1", "a@b.com", "abc123")

			tt.setup(f.device)
			r := await(t, f.device.EnableForUser(ctx, id.UserID))
			assert.Equal(t, tt.code, sdkCode(t, r.Err))
			assert.False(t, f.device.IsEnabledForUser(ctx, id.UserID))
		})
	}
}

func TestAuthenticateRequiresEnablement(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := register(t, f, "1", "a@b.com", "abc123")

	r := await(t, f.device.Authenticate(ctx, id.UserID, "a@b.com", "1"))
	assert.Equal(t, CodeNotEnabled, sdkCode(t, r.Err))
}

func TestDisableForUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := register(t, f, "1", "a@b.com", "abc123")
	require.True(t, await(t, f.device.EnableForUser(ctx, id.UserID)).OK())

	require.NoError(t, f.device.DisableForUser(ctx, id.UserID))
	assert.False(t, f.device.IsEnabledForUser(ctx, id.UserID))
	assert.Error(t, f.device.DisableForUser(ctx, ""))
}

func TestIsSupportedFollowsHardware(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	assert.True(t, f.device.IsSupported(ctx))
	f.device.SetHardware(false)
	assert.False(t, f.device.IsSupported(ctx))
}

func TestParsePrompt(t *testing.T) {
	p, ok := ParsePrompt("Cancel")
	assert.True(t, ok)
	assert.Equal(t, PromptCancel, p)
	_, ok = ParsePrompt("shrug")
	assert.False(t, ok)
	assert.Equal(t, []string{"finger-1"}, newFixture(t, nil).device.Templates())
}
