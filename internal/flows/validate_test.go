package flows

import (
	"errors"
	"testing"
)

var (
	errEmptyCountry  = errors.New("empty country")
	errEmptyEmail    = errors.New("empty email")
	errInvalidEmail  = errors.New("invalid email")
	errEmptyPassword = errors.New("empty password")
	errTooShort      = errors.New("too short")
	errMismatch      = errors.New("mismatch")
	errEmptyCode     = errors.New("empty code")
)

func testValidationErrors() ValidationErrors {
	return ValidationErrors{
		EmptyCountryCode: errEmptyCountry,
		EmptyEmail:       errEmptyEmail,
		InvalidEmail:     errInvalidEmail,
		EmptyPassword:    errEmptyPassword,
		PasswordTooShort: errTooShort,
		PasswordMismatch: errMismatch,
		EmptyVerifyCode:  errEmptyCode,
	}
}

func TestIsEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last+tag@mail.example.org", "x_y%z@a-b.io"}
	invalid := []string{"", "a@b", "@b.com", "a b@c.com", "a@.com", "abc"}

	for _, s := range valid {
		if !IsEmail(s) {
			t.Fatalf("expected %q to be accepted", s)
		}
	}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestValidateLoginOnlyChecksPresence(t *testing.T) {
	errs := testValidationErrors()
	tests := []struct {
		name string
		in   LoginInput
		want error
	}{
		{"country", LoginInput{Email: "a@b.com", Password: "x"}, errEmptyCountry},
		{"email", LoginInput{CountryCode: "1", Password: "x"}, errEmptyEmail},
		{"password", LoginInput{CountryCode: "1", Email: "a@b.com"}, errEmptyPassword},
		{"malformed email passes", LoginInput{CountryCode: "1", Email: "nope", Password: "x"}, nil},
		{"whitespace only", TrimLogin(LoginInput{CountryCode: " ", Email: "a@b.com", Password: "x"}), errEmptyCountry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateLogin(tt.in, errs); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateSendCodeOrder(t *testing.T) {
	errs := testValidationErrors()
	if got := ValidateSendCode(SendCodeInput{}, errs); got != errEmptyEmail {
		t.Fatalf("expected empty email first, got %v", got)
	}
	if got := ValidateSendCode(SendCodeInput{Email: "bad"}, errs); got != errEmptyCountry {
		t.Fatalf("expected empty country before format, got %v", got)
	}
	if got := ValidateSendCode(SendCodeInput{Email: "bad", CountryCode: "1"}, errs); got != errInvalidEmail {
		t.Fatalf("expected invalid email, got %v", got)
	}
	if got := ValidateSendCode(TrimSendCode(SendCodeInput{Email: " a@b.com ", CountryCode: " 1 "}), errs); got != nil {
		t.Fatalf("expected valid form, got %v", got)
	}
}

func TestValidateRegisterOrder(t *testing.T) {
	errs := testValidationErrors()
	ok := RegisterInput{CountryCode: "1", Email: "a@b.com", Password: "abc123", ConfirmPassword: "abc123", Code: "000000"}

	mutate := func(fn func(*RegisterInput)) RegisterInput {
		in := ok
		fn(&in)
		return in
	}

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"country first", mutate(func(in *RegisterInput) { in.CountryCode = ""; in.Email = "" }), errEmptyCountry},
		{"email empty", mutate(func(in *RegisterInput) { in.Email = ""; in.Password = "" }), errEmptyEmail},
		{"email format", mutate(func(in *RegisterInput) { in.Email = "a@b"; in.Password = "" }), errInvalidEmail},
		{"password empty", mutate(func(in *RegisterInput) { in.Password = ""; in.Code = "" }), errEmptyPassword},
		{"too short", mutate(func(in *RegisterInput) { in.Password = "abc12"; in.ConfirmPassword = "abc12" }), errTooShort},
		{"mismatch", mutate(func(in *RegisterInput) { in.ConfirmPassword = "abc124"; in.Code = "" }), errMismatch},
		{"code", mutate(func(in *RegisterInput) { in.Code = "" }), errEmptyCode},
		{"valid", ok, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateRegister(tt.in, 6, errs); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
