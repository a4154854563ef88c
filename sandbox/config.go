package sandbox

import (
	"errors"
	"time"

	"github.com/MrEthical07/goBioLogin/password"
)

// Config tunes the sandbox services.
type Config struct {
	Prefix string `toml:"prefix"`

	CodeTTL         time.Duration `toml:"code_ttl"`
	ResendInterval  time.Duration `toml:"resend_interval"`
	MaxCodeAttempts int           `toml:"max_code_attempts"`

	SessionTTL time.Duration `toml:"session_ttl"`
	// TokenSecret signs session tokens. Empty means a random per-process
	// secret, so sessions do not survive a restart.
	TokenSecret string `toml:"token_secret"`
	Issuer      string `toml:"issuer"`

	Password password.Config `toml:"password"`

	// Latency delays every SDK call, to make in-flight states visible.
	Latency time.Duration `toml:"latency"`
}

// DefaultConfig returns settings suitable for the demo.
func DefaultConfig() Config {
	return Config{
		Prefix:          "bl:sandbox",
		CodeTTL:         10 * time.Minute,
		ResendInterval:  60 * time.Second,
		MaxCodeAttempts: 5,
		SessionTTL:      24 * time.Hour,
		Issuer:          "biologin-sandbox",
		Password:        password.DefaultConfig(),
	}
}

func (c Config) validate() error {
	switch {
	case c.Prefix == "":
		return errors.New("sandbox Prefix must not be empty")
	case c.CodeTTL <= 0:
		return errors.New("sandbox CodeTTL must be > 0")
	case c.ResendInterval < 0:
		return errors.New("sandbox ResendInterval must be >= 0")
	case c.MaxCodeAttempts < 1:
		return errors.New("sandbox MaxCodeAttempts must be >= 1")
	case c.SessionTTL <= 0:
		return errors.New("sandbox SessionTTL must be > 0")
	case c.Latency < 0:
		return errors.New("sandbox Latency must be >= 0")
	}
	return nil
}
