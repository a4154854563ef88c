package goBioLogin

import (
	"context"

	"github.com/MrEthical07/goBioLogin/async"
)

// Identity is what the account and biometric SDKs return for an
// authenticated user.
type Identity struct {
	UserID       string
	Email        string
	CountryCode  string
	Nickname     string
	SessionToken string
}

// VerifyPurposeRegister is the verification-code purpose for account creation.
const VerifyPurposeRegister = 1

// AccountSDK is the vendor account service.
//
// Asynchronous calls return a future that settles on an SDK-owned goroutine.
// Failures should be *SDKError values.
type AccountSDK interface {
	LoginWithEmail(ctx context.Context, countryCode, email, password string) *async.Future[Identity]
	SendVerifyCode(ctx context.Context, email, region, countryCode string, purpose int) *async.Future[struct{}]
	CheckVerifyCode(ctx context.Context, email, region, countryCode, code string, purpose int) *async.Future[struct{}]
	RegisterAccount(ctx context.Context, countryCode, email, password, code string) *async.Future[Identity]
	IsSessionActive(ctx context.Context) bool
	Logout(ctx context.Context) *async.Future[struct{}]
}

// BiometricSDK is the vendor biometric matcher and enablement store.
//
// Authenticate and EnableForUser settle with OutcomeCancelled when the user
// dismisses the prompt and OutcomeInvalidState when the SDK reports an
// invalid credential state.
type BiometricSDK interface {
	IsSupported(ctx context.Context) bool
	IsEnabledForUser(ctx context.Context, userID string) bool
	HasCredentialChanged(ctx context.Context, userID string) bool
	Authenticate(ctx context.Context, userID, accountName, countryCode string) *async.Future[Identity]
	EnableForUser(ctx context.Context, userID string) *async.Future[Identity]
	DisableForUser(ctx context.Context, userID string) error
}

// LoginForm is the password login form as typed by the user.
type LoginForm struct {
	CountryCode string
	Email       string
	Password    string
}

// RegisterForm is the registration form as typed by the user.
type RegisterForm struct {
	CountryCode     string
	Email           string
	Password        string
	ConfirmPassword string
	Code            string
}
