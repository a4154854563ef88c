package goBioLogin

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
)

const (
	auditEventPasswordLoginSuccess  = "password_login_success"
	auditEventPasswordLoginFailure  = "password_login_failure"
	auditEventVerifyCodeSent        = "verify_code_sent"
	auditEventVerifyCodeSendFailure = "verify_code_send_failure"
	auditEventRegisterSuccess       = "register_success"
	auditEventRegisterFailure       = "register_failure"
	auditEventBiometricLoginSuccess = "biometric_login_success"
	auditEventBiometricLoginFailure = "biometric_login_failure"
	auditEventBiometricPrecondition = "biometric_precondition_failed"
	auditEventBiometricEnabled      = "biometric_enabled"
	auditEventBiometricEnableFailed = "biometric_enable_failure"
	auditEventBiometricDisabled     = "biometric_disabled"
	auditEventLogoutSuccess         = "logout_success"
	auditEventLogoutFailure         = "logout_failure"
)

// AuditErrorCode is the stable error label recorded on failed events.
type AuditErrorCode string

const (
	auditErrValidation        AuditErrorCode = "validation"
	auditErrUnsupported       AuditErrorCode = "unsupported_device"
	auditErrNotEnabled        AuditErrorCode = "not_enabled"
	auditErrCredentialChanged AuditErrorCode = "credential_changed"
	auditErrIncomplete        AuditErrorCode = "incomplete_local_session"
	auditErrNoActiveUser      AuditErrorCode = "no_active_user"
	auditErrCancelled         AuditErrorCode = "cancelled"
	auditErrInvalidState      AuditErrorCode = "invalid_credential_state"
	auditErrVerifyCode        AuditErrorCode = "verify_code_rejected"
	auditErrNoHardware        AuditErrorCode = "no_hardware"
	auditErrHWUnavailable     AuditErrorCode = "hardware_unavailable"
	auditErrNoneEnrolled      AuditErrorCode = "none_enrolled"
	auditErrRemote            AuditErrorCode = "remote_error"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(ctx context.Context, eventType string, attempt attempt, success bool, userID string, err error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.clock.Now().UTC(),
		EventType: eventType,
		AttemptID: attempt.id,
		Screen:    attempt.screen.String(),
		UserID:    userID,
		Success:   success,
		Metadata:  metadata,
	}
	if !success && err != nil {
		event.Error = string(auditErrorCodeFor(err))
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCodeFor(err error) AuditErrorCode {
	switch {
	case errors.Is(err, ErrValidation):
		return auditErrValidation
	case errors.Is(err, ErrUnsupportedDevice):
		return auditErrUnsupported
	case errors.Is(err, ErrBiometricNotEnabled):
		return auditErrNotEnabled
	case errors.Is(err, ErrCredentialChanged):
		return auditErrCredentialChanged
	case errors.Is(err, ErrIncompleteLocalSession):
		return auditErrIncomplete
	case errors.Is(err, ErrNoActiveUser):
		return auditErrNoActiveUser
	case errors.Is(err, ErrUserCancelled), errors.Is(err, async.ErrCancelled):
		return auditErrCancelled
	case errors.Is(err, ErrInvalidCredentialState), errors.Is(err, async.ErrInvalidState):
		return auditErrInvalidState
	case errors.Is(err, ErrVerifyCodeRejected):
		return auditErrVerifyCode
	}

	switch ClassifySDKError(err) {
	case SDKErrorNoHardware:
		return auditErrNoHardware
	case SDKErrorHardwareUnavailable:
		return auditErrHWUnavailable
	case SDKErrorNoneEnrolled:
		return auditErrNoneEnrolled
	}
	if errors.Is(err, ErrRemoteCall) {
		return auditErrRemote
	}
	return auditErrInternal
}

// attempt tags one screen action for audit correlation and latency.
type attempt struct {
	id      string
	screen  Screen
	started time.Time
}
