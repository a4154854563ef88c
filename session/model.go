package session

import (
	"context"
	"errors"
)

var (
	// ErrNoSession is returned by Load when nothing has been stored.
	ErrNoSession = errors.New("no stored session")
	// ErrEmptyUserID is returned by SaveLogin when the user id is empty.
	ErrEmptyUserID = errors.New("session user id is empty")
	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Session is the locally persisted identity.
type Session struct {
	UserID      string
	AccountName string
	CountryCode string
	LoggedIn    bool
}

// IsLoggedIn reports whether the session is marked logged in. A logged-in
// session always carries a user id.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.LoggedIn && s.UserID != ""
}

// HasIdentity reports whether a user id is remembered.
func (s *Session) HasIdentity() bool {
	return s != nil && s.UserID != ""
}

// Complete reports whether all three identity fields are present.
func (s *Session) Complete() bool {
	return s != nil && s.UserID != "" && s.AccountName != "" && s.CountryCode != ""
}

// Store is durable key-value storage for one Session.
//
// SaveLogin, MarkLogout and ClearAll each commit as a single atomic write.
type Store interface {
	// SaveLogin marks the session logged in and overwrites the identity.
	SaveLogin(ctx context.Context, userID, accountName, countryCode string) error
	// MarkLogout clears the logged-in flag and keeps the identity.
	MarkLogout(ctx context.Context) error
	// ClearAll erases every field.
	ClearAll(ctx context.Context) error
	// Load returns a consistent snapshot or ErrNoSession.
	Load(ctx context.Context) (*Session, error)
}

// Field names shared by the key/value backends.
const (
	fieldUserID      = "key_uid"
	fieldAccountName = "key_email"
	fieldCountryCode = "key_country_code"
	fieldLoggedIn    = "key_is_logged_in"
)

func encodeBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func decodeFields(fields map[string]string) *Session {
	return &Session{
		UserID:      fields[fieldUserID],
		AccountName: fields[fieldAccountName],
		CountryCode: fields[fieldCountryCode],
		LoggedIn:    fields[fieldLoggedIn] == "1",
	}
}
