package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const minSecretLen = 32

// ErrInvalidToken wraps every parse or validation failure.
var ErrInvalidToken = errors.New("jwt: invalid session token")

// Config configures a Manager.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

// SessionClaims identify one remote session.
type SessionClaims struct {
	UID         string `json:"uid"`
	SID         string `json:"sid"`
	CountryCode string `json:"cc,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses session tokens against an injectable clock.
type Manager struct {
	cfg   Config
	clock clockwork.Clock
}

// NewManager validates cfg. A nil clock means the real clock.
func NewManager(cfg Config, clock clockwork.Clock) (*Manager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("jwt: secret must be at least %d bytes", minSecretLen)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("jwt: TTL must be > 0")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt: leeway must be within [0, 2m]")
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{cfg: cfg, clock: clock}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Issue signs a token for uid and session sid.
func (m *Manager) Issue(uid, sid, countryCode string) (string, error) {
	if uid == "" || sid == "" {
		return "", errors.New("jwt: uid and sid are required")
	}
	now := m.clock.Now()
	claims := SessionClaims{
		UID:         uid,
		SID:         sid,
		CountryCode: countryCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
}

// Parse verifies the signature, algorithm, expiry and issuer of token.
func (m *Manager) Parse(token string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if m.cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(m.cfg.Leeway))
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}

	claims := &SessionClaims{}
	parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UID == "" || claims.SID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
