package sandbox

import (
	goBioLogin "github.com/MrEthical07/goBioLogin"
)

// Error codes carried by *goBioLogin.SDKError.
const (
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAccountExists      = "ACCOUNT_EXISTS"
	CodeUnknownUser        = "ACCOUNT_NOT_FOUND"
	CodeVerifyMismatch     = "VERIFY_CODE_MISMATCH"
	CodeVerifyExpired      = "VERIFY_CODE_EXPIRED"
	CodeVerifyExhausted    = "VERIFY_CODE_ATTEMPTS_EXCEEDED"
	CodeResendTooSoon      = "VERIFY_CODE_RESEND_TOO_SOON"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeNotEnabled         = "BIOMETRIC_NOT_ENABLED"

	// Sensor codes follow the platform biometric API.
	CodeHardwareUnavailable = "1"
	CodeLockout             = "7"
	CodeNoneEnrolled        = "11"
	CodeNoHardware          = "12"
)

func sdkError(code, message string) *goBioLogin.SDKError {
	return &goBioLogin.SDKError{Code: code, Message: message}
}

func unavailable(err error) *goBioLogin.SDKError {
	return sdkError(CodeUnavailable, "service unavailable: "+err.Error())
}
