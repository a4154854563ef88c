package goBioLogin

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goBioLogin/internal/flows"
)

var (
	// ErrValidation is wrapped by every local form validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCountryCode is returned when the country code field is blank.
	ErrEmptyCountryCode = fmt.Errorf("%w: country code is empty", ErrValidation)
	// ErrEmptyEmail is returned when the email field is blank.
	ErrEmptyEmail = fmt.Errorf("%w: email is empty", ErrValidation)
	// ErrInvalidEmail is returned when the email does not match the address pattern.
	ErrInvalidEmail = fmt.Errorf("%w: email format is invalid", ErrValidation)
	// ErrEmptyPassword is returned when the password field is blank.
	ErrEmptyPassword = fmt.Errorf("%w: password is empty", ErrValidation)
	// ErrPasswordTooShort is returned when the password is below the configured minimum.
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrValidation)
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	// ErrEmptyVerifyCode is returned when the verification code field is blank.
	ErrEmptyVerifyCode = fmt.Errorf("%w: verification code is empty", ErrValidation)

	// ErrUnsupportedDevice is returned when the device cannot do biometric login.
	ErrUnsupportedDevice = errors.New("biometric login not supported on this device")
	// ErrBiometricNotEnabled is returned when the stored user has not enabled biometric login.
	ErrBiometricNotEnabled = errors.New("biometric login not enabled")
	// ErrCredentialChanged is returned when enrolled biometrics changed since enablement.
	ErrCredentialChanged = errors.New("biometric credential changed")
	// ErrIncompleteLocalSession is returned when the stored identity is missing a field.
	ErrIncompleteLocalSession = errors.New("local session incomplete")
	// ErrUserCancelled is returned when the user dismissed a biometric prompt.
	ErrUserCancelled = errors.New("cancelled by user")
	// ErrInvalidCredentialState is returned when the SDK reports an invalid credential state.
	ErrInvalidCredentialState = errors.New("invalid credential state")
	// ErrRemoteCall is matched by every SDK failure.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrVerifyCodeRejected is returned when the account service rejects a verification code.
	ErrVerifyCodeRejected = errors.New("verification failed")
	// ErrRegistrationFailed is returned when account creation fails after a valid code.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrNoActiveUser is returned when an action needs a stored user id and none exists.
	ErrNoActiveUser = errors.New("no current user")
	// ErrScreenClosed is returned by actions on a closed screen.
	ErrScreenClosed = errors.New("screen closed")
	// ErrEngineNotReady is returned by Build when a required dependency is missing.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrActionInFlight is returned when a trigger fires while the previous attempt runs.
	ErrActionInFlight = errors.New("action already in flight")
	// ErrThrottled is returned when a repeated tap lands inside the click guard window.
	ErrThrottled = errors.New("repeated tap ignored")
)

// SDKErrorClass buckets biometric SDK error codes.
type SDKErrorClass uint8

const (
	SDKErrorOther SDKErrorClass = iota
	SDKErrorNoHardware
	SDKErrorHardwareUnavailable
	SDKErrorNoneEnrolled
)

func (c SDKErrorClass) String() string {
	switch c {
	case SDKErrorNoHardware:
		return "no_hardware"
	case SDKErrorHardwareUnavailable:
		return "hardware_unavailable"
	case SDKErrorNoneEnrolled:
		return "none_enrolled"
	default:
		return "other"
	}
}

// SDKError is a failure reported by the account or biometric SDK.
type SDKError struct {
	Code    string
	Message string
}

func (e *SDKError) Error() string {
	if e.Code == "" {
		return "sdk: " + e.Message
	}
	return "sdk " + e.Code + ": " + e.Message
}

// Is matches ErrRemoteCall.
func (e *SDKError) Is(target error) bool {
	return target == ErrRemoteCall
}

// Class maps the error code onto the known biometric failure classes.
func (e *SDKError) Class() SDKErrorClass {
	switch flows.ClassifyBiometricErrorCode(e.Code) {
	case flows.ErrorClassNoHardware:
		return SDKErrorNoHardware
	case flows.ErrorClassHardwareUnavailable:
		return SDKErrorHardwareUnavailable
	case flows.ErrorClassNoneEnrolled:
		return SDKErrorNoneEnrolled
	default:
		return SDKErrorOther
	}
}

// ClassifySDKError returns the class of err when it is an *SDKError.
func ClassifySDKError(err error) SDKErrorClass {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr.Class()
	}
	return SDKErrorOther
}

// sdkMessage extracts the human-readable remote message from err.
func sdkMessage(err error) string {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func validationErrors() flows.ValidationErrors {
	return flows.ValidationErrors{
		EmptyCountryCode: ErrEmptyCountryCode,
		EmptyEmail:       ErrEmptyEmail,
		InvalidEmail:     ErrInvalidEmail,
		EmptyPassword:    ErrEmptyPassword,
		PasswordTooShort: ErrPasswordTooShort,
		PasswordMismatch: ErrPasswordMismatch,
		EmptyVerifyCode:  ErrEmptyVerifyCode,
	}
}

func biometricErrors() flows.BiometricErrors {
	return flows.BiometricErrors{
		UnsupportedDevice:      ErrUnsupportedDevice,
		NotEnabled:             ErrBiometricNotEnabled,
		CredentialChanged:      ErrCredentialChanged,
		IncompleteLocalSession: ErrIncompleteLocalSession,
		NoActiveUser:           ErrNoActiveUser,
	}
}
