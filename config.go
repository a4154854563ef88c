package goBioLogin

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/MrEthical07/goBioLogin/internal/clickguard"
	"github.com/MrEthical07/goBioLogin/internal/countdown"
)

// Config holds the tunables of the login orchestration.
//
// Config values are read at Build time and treated as immutable afterwards.
type Config struct {
	Registration RegistrationConfig `toml:"registration"`
	Biometric    BiometricConfig    `toml:"biometric"`
	Audit        AuditConfig        `toml:"audit"`
	Metrics      MetricsConfig      `toml:"metrics"`
}

/*
====================================
REGISTRATION CONFIG
====================================
*/

// RegistrationConfig controls the register screen.
type RegistrationConfig struct {
	MinPasswordLength int           `toml:"min_password_length"`
	CodeCooldown      time.Duration `toml:"code_cooldown"`
	CooldownTick      time.Duration `toml:"cooldown_tick"`
	Region            string        `toml:"region"`
	VerifyPurpose     int           `toml:"verify_purpose"`
}

/*
====================================
BIOMETRIC CONFIG
====================================
*/

// BiometricConfig controls the biometric login screen.
type BiometricConfig struct {
	// ClickInterval is the window in which repeated taps on a biometric
	// trigger are ignored.
	ClickInterval time.Duration `toml:"click_interval"`
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `toml:"enabled"`
	BufferSize int  `toml:"buffer_size"`
	DropIfFull bool `toml:"drop_if_full"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `toml:"enabled"`
	EnableLatencyHistograms bool `toml:"enable_latency_histograms"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Registration: RegistrationConfig{
			MinPasswordLength: 6,
			CodeCooldown:      countdown.DefaultTotal,
			CooldownTick:      countdown.DefaultInterval,
			Region:            "",
			VerifyPurpose:     VerifyPurposeRegister,
		},
		Biometric: BiometricConfig{
			ClickInterval: clickguard.DefaultInterval,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Registration.MinPasswordLength < 1 {
		return errors.New("Registration MinPasswordLength must be >= 1")
	}
	if c.Registration.CodeCooldown <= 0 {
		return errors.New("Registration CodeCooldown must be > 0")
	}
	if c.Registration.CooldownTick <= 0 {
		return errors.New("Registration CooldownTick must be > 0")
	}
	if c.Registration.CooldownTick > c.Registration.CodeCooldown {
		return errors.New("Registration CooldownTick must not exceed CodeCooldown")
	}
	if c.Registration.VerifyPurpose < 0 {
		return errors.New("Registration VerifyPurpose must be >= 0")
	}

	if c.Biometric.ClickInterval < 0 {
		return errors.New("Biometric ClickInterval must be >= 0")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}
	return nil
}

// LoadConfigFile reads a TOML file on top of DefaultConfig and validates the
// result. Keys missing from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
