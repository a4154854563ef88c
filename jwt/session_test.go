package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var testSecret = []byte(strings.Repeat("k", minSecretLen))

func newTestManager(t *testing.T, clock clockwork.Clock) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: testSecret, TTL: time.Hour, Issuer: "biologin-sandbox"}, clock)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClockAt(time.Now()))

	token, err := m.Issue("u1", "s1", "1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != "u1" || claims.SID != "s1" || claims.CountryCode != "1" || claims.Subject != "u1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	m := newTestManager(t, clock)

	token, err := m.Issue("u1", "s1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clock.Advance(time.Hour + time.Second)

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) || !errors.Is(err, gjwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	m := newTestManager(t, nil)

	other, _ := NewManager(Config{Secret: []byte(strings.Repeat("x", minSecretLen)), TTL: time.Hour, Issuer: "biologin-sandbox"}, nil)
	foreign, _ := other.Issue("u1", "s1", "")

	wrongIssuer, _ := NewManager(Config{Secret: testSecret, TTL: time.Hour, Issuer: "elsewhere"}, nil)
	misissued, _ := wrongIssuer.Issue("u1", "s1", "")

	none := gjwt.NewWithClaims(gjwt.SigningMethodNone, SessionClaims{UID: "u1", SID: "s1"})
	unsigned, _ := none.SignedString(gjwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"wrong issuer": misissued,
		"alg none":     unsigned,
		"garbage":      "not.a.jwt",
	} {
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewManagerValidates(t *testing.T) {
	if _, err := NewManager(Config{Secret: []byte("short"), TTL: time.Hour}, nil); err == nil {
		t.Fatal("expected short secret to fail")
	}
	if _, err := NewManager(Config{Secret: testSecret}, nil); err == nil {
		t.Fatal("expected zero TTL to fail")
	}
	if _, err := NewManager(Config{Secret: testSecret, TTL: time.Hour, Leeway: time.Hour}, nil); err == nil {
		t.Fatal("expected large leeway to fail")
	}
}
