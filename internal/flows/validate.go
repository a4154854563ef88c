package flows

import (
	"regexp"
	"strings"
)

// emailPattern is the platform's standard email address pattern.
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
)

// ValidationErrors carries host-level sentinel errors for each failed check.
type ValidationErrors struct {
	EmptyCountryCode error
	EmptyEmail       error
	InvalidEmail     error
	EmptyPassword    error
	PasswordTooShort error
	PasswordMismatch error
	EmptyVerifyCode  error
}

// LoginInput is the password login form.
type LoginInput struct {
	CountryCode string
	Email       string
	Password    string
}

// SendCodeInput is the verification-code request form.
type SendCodeInput struct {
	Email       string
	CountryCode string
}

// RegisterInput is the registration form.
type RegisterInput struct {
	CountryCode     string
	Email           string
	Password        string
	ConfirmPassword string
	Code            string
}

// IsEmail reports whether s matches the standard email pattern.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// TrimLogin trims every field of the login form.
func TrimLogin(in LoginInput) LoginInput {
	return LoginInput{
		CountryCode: strings.TrimSpace(in.CountryCode),
		Email:       strings.TrimSpace(in.Email),
		Password:    strings.TrimSpace(in.Password),
	}
}

// ValidateLogin checks a trimmed login form. Only presence is checked; the
// account service owns credential rules for existing accounts.
func ValidateLogin(in LoginInput, errs ValidationErrors) error {
	switch {
	case in.CountryCode == "":
		return errs.EmptyCountryCode
	case in.Email == "":
		return errs.EmptyEmail
	case in.Password == "":
		return errs.EmptyPassword
	}
	return nil
}

// TrimSendCode trims the send-code form.
func TrimSendCode(in SendCodeInput) SendCodeInput {
	return SendCodeInput{
		Email:       strings.TrimSpace(in.Email),
		CountryCode: strings.TrimSpace(in.CountryCode),
	}
}

// ValidateSendCode checks a trimmed send-code form.
func ValidateSendCode(in SendCodeInput, errs ValidationErrors) error {
	switch {
	case in.Email == "":
		return errs.EmptyEmail
	case in.CountryCode == "":
		return errs.EmptyCountryCode
	case !IsEmail(in.Email):
		return errs.InvalidEmail
	}
	return nil
}

// TrimRegister trims every field of the registration form.
func TrimRegister(in RegisterInput) RegisterInput {
	return RegisterInput{
		CountryCode:     strings.TrimSpace(in.CountryCode),
		Email:           strings.TrimSpace(in.Email),
		Password:        strings.TrimSpace(in.Password),
		ConfirmPassword: strings.TrimSpace(in.ConfirmPassword),
		Code:            strings.TrimSpace(in.Code),
	}
}

// ValidateRegister checks a trimmed registration form in display order and
// returns the first failure.
func ValidateRegister(in RegisterInput, minPasswordLength int, errs ValidationErrors) error {
	switch {
	case in.CountryCode == "":
		return errs.EmptyCountryCode
	case in.Email == "":
		return errs.EmptyEmail
	case !IsEmail(in.Email):
		return errs.InvalidEmail
	case in.Password == "":
		return errs.EmptyPassword
	case len([]rune(in.Password)) < minPasswordLength:
		return errs.PasswordTooShort
	case in.Password != in.ConfirmPassword:
		return errs.PasswordMismatch
	case in.Code == "":
		return errs.EmptyVerifyCode
	}
	return nil
}
