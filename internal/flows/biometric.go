package flows

import "context"

// Error codes reported by the platform biometric manager.
const (
	CodeHardwareUnavailable = "1"
	CodeNoneEnrolled        = "11"
	CodeNoHardware          = "12"
)

// ErrorClass buckets biometric SDK error codes.
type ErrorClass uint8

const (
	ErrorClassOther ErrorClass = iota
	ErrorClassNoHardware
	ErrorClassHardwareUnavailable
	ErrorClassNoneEnrolled
)

// ClassifyBiometricErrorCode maps an SDK error code to its class.
func ClassifyBiometricErrorCode(code string) ErrorClass {
	switch code {
	case CodeNoHardware:
		return ErrorClassNoHardware
	case CodeHardwareUnavailable:
		return ErrorClassHardwareUnavailable
	case CodeNoneEnrolled:
		return ErrorClassNoneEnrolled
	default:
		return ErrorClassOther
	}
}

// LocalIdentity is the identity remembered in the session store.
type LocalIdentity struct {
	UserID      string
	AccountName string
	CountryCode string
}

// BiometricErrors carries host-level sentinel errors for precondition failures.
type BiometricErrors struct {
	UnsupportedDevice      error
	NotEnabled             error
	CredentialChanged      error
	IncompleteLocalSession error
	NoActiveUser           error
}

// BiometricDeps captures the capability gate.
type BiometricDeps struct {
	IsSupported          func(context.Context) bool
	IsEnabled            func(context.Context, string) bool
	HasCredentialChanged func(context.Context, string) bool

	Errors BiometricErrors
}

// CheckBiometricLogin runs the login preconditions in their fixed order and
// returns the first failure. Later checks are not consulted once one fails.
func CheckBiometricLogin(ctx context.Context, id LocalIdentity, deps BiometricDeps) error {
	if deps.IsSupported == nil || !deps.IsSupported(ctx) {
		return deps.Errors.UnsupportedDevice
	}
	if id.UserID == "" || deps.IsEnabled == nil || !deps.IsEnabled(ctx, id.UserID) {
		return deps.Errors.NotEnabled
	}
	if deps.HasCredentialChanged != nil && deps.HasCredentialChanged(ctx, id.UserID) {
		return deps.Errors.CredentialChanged
	}
	if id.UserID == "" || id.AccountName == "" || id.CountryCode == "" {
		return deps.Errors.IncompleteLocalSession
	}
	return nil
}

// CheckBiometricEnable runs the preconditions for turning biometric login on.
func CheckBiometricEnable(ctx context.Context, userID string, deps BiometricDeps) error {
	if deps.IsSupported == nil || !deps.IsSupported(ctx) {
		return deps.Errors.UnsupportedDevice
	}
	if userID == "" {
		return deps.Errors.NoActiveUser
	}
	return nil
}
