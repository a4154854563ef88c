package goBioLogin

import (
	"errors"
	"fmt"
)

const (
	textLoginRequired    = "Country code, email and password are required"
	textLoginSucceeded   = "Login successful"
	textLoginFailed      = "Login failed: %s"
	textEnterCountryCode = "Please enter the country code"
	textEnterEmail       = "Please enter your email address"
	textInvalidEmail     = "Invalid email format"
	textEnterPassword    = "Please enter a password"
	textPasswordTooShort = "Password must be at least %d characters"
	textPasswordMismatch = "Passwords do not match"
	textEnterCode        = "Please enter the verification code"
	textCodeSent         = "Verification code sent"
	textSendCodeFailed   = "Failed to send verification code: %s"
	textSendCodeLabel    = "Send code"
	textResendLabel      = "Resend in %ds"
	textRegistered       = "Registration successful"
	textVerifyFailed     = "Verification failed: %s"
	textRegisterFailed   = "Registration failed: %s"

	textNoUserConfigured   = "No user configured"
	textDeviceUnsupported  = "This device does not support biometric login"
	textBiometricsNoHW     = "Biometrics are not supported on this device"
	textNotEnabled         = "Biometric login is not enabled"
	textCredentialChanged  = "Fingerprint data has changed, please set up biometric login again"
	textIncompleteSession  = "Local account information is incomplete, please log in with your password"
	textBiometricSucceeded = "Biometric login successful"
	textHWUnavailable      = "Biometrics are currently unavailable"
	textNoneEnrolled       = "Please enroll biometrics in system settings first"
	textBiometricFailed    = "Biometric authentication failed"
	textFingerInvalid      = "Fingerprint data is invalid, please check the system fingerprint settings"

	textWelcome         = "Welcome, %s"
	textEnabled         = "Biometric login enabled"
	textSetupCancelled  = "Biometric setup cancelled"
	textNoUserForEnable = "No current user, please log in with your password first"
	textNoUser          = "No current user"
	textDisabled        = "Biometric login disabled"
	textDisableFailed   = "Failed to disable biometric login: %s"
	textLoggedOut       = "Logged out"
	textLogoutFailed    = "Logout failed: %s"
)

func notice(text string) Message {
	return Message{Kind: MessageNotice, Text: text}
}

// fallbackDialog is a dialog that sends the user back to password login.
func fallbackDialog(text string) Message {
	return Message{Kind: MessageDialog, Text: text, Fallback: ScreenPasswordLogin}
}

// registerValidationText renders a registration validation failure.
func registerValidationText(err error, minPasswordLength int) string {
	switch {
	case errors.Is(err, ErrEmptyCountryCode):
		return textEnterCountryCode
	case errors.Is(err, ErrEmptyEmail):
		return textEnterEmail
	case errors.Is(err, ErrInvalidEmail):
		return textInvalidEmail
	case errors.Is(err, ErrEmptyPassword):
		return textEnterPassword
	case errors.Is(err, ErrPasswordTooShort):
		return fmt.Sprintf(textPasswordTooShort, minPasswordLength)
	case errors.Is(err, ErrPasswordMismatch):
		return textPasswordMismatch
	case errors.Is(err, ErrEmptyVerifyCode):
		return textEnterCode
	default:
		return err.Error()
	}
}

// preconditionText renders a biometric login precondition failure.
func preconditionText(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedDevice):
		return textBiometricsNoHW
	case errors.Is(err, ErrBiometricNotEnabled):
		return textNotEnabled
	case errors.Is(err, ErrCredentialChanged):
		return textCredentialChanged
	case errors.Is(err, ErrIncompleteLocalSession):
		return textIncompleteSession
	default:
		return err.Error()
	}
}

// biometricErrorMessage renders an SDK failure of a biometric prompt. Only
// NoHardware on the login screen is a dialog.
func biometricErrorMessage(err error, dialogOnNoHardware bool) Message {
	switch ClassifySDKError(err) {
	case SDKErrorNoHardware:
		if dialogOnNoHardware {
			return fallbackDialog(textBiometricsNoHW)
		}
		return notice(textBiometricsNoHW)
	case SDKErrorHardwareUnavailable:
		return notice(textHWUnavailable)
	case SDKErrorNoneEnrolled:
		return notice(textNoneEnrolled)
	}
	if msg := sdkMessage(err); msg != "" {
		return notice(msg)
	}
	return notice(textBiometricFailed)
}

// remoteReason is the text appended to "... failed: " notices.
func remoteReason(err error) string {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		if sdkErr.Message != "" {
			return sdkErr.Message
		}
		if sdkErr.Code != "" {
			return sdkErr.Code
		}
	}
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
