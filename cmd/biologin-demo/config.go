package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/sandbox"
)

type demoConfig struct {
	Store   storeConfig       `toml:"store"`
	Redis   redisConfig       `toml:"redis"`
	Log     logConfig         `toml:"log"`
	Audit   string            `toml:"audit"`
	Metrics string            `toml:"metrics_addr"`
	Engine  goBioLogin.Config `toml:"engine"`
	Sandbox sandbox.Config    `toml:"sandbox"`
	Profile string            `toml:"profile"`
	Timeout time.Duration     `toml:"action_timeout"`
	History string            `toml:"history_file"`
}

type storeConfig struct {
	// Backend is "memory", "redis" or "sqlite".
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
	Prefix     string `toml:"prefix"`
}

type redisConfig struct {
	// Addr empty starts an in-process miniredis.
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type logConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func defaultDemoConfig() demoConfig {
	return demoConfig{
		Store:   storeConfig{Backend: "sqlite", SQLitePath: "biologin.db", Prefix: "bl"},
		Log:     logConfig{Level: "warn", Format: "text"},
		Audit:   "off",
		Engine:  goBioLogin.DefaultConfig(),
		Sandbox: sandbox.DefaultConfig(),
		Profile: "default",
		Timeout: 30 * time.Second,
	}
}

// loadDemoConfig reads path (if set) over the defaults, then applies
// BIOLOGIN_* environment overrides.
func loadDemoConfig(path string) (demoConfig, error) {
	cfg := defaultDemoConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("load %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func applyEnv(cfg *demoConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("BIOLOGIN_STORE", &cfg.Store.Backend)
	str("BIOLOGIN_SQLITE_PATH", &cfg.Store.SQLitePath)
	str("BIOLOGIN_REDIS_ADDR", &cfg.Redis.Addr)
	str("BIOLOGIN_REDIS_PASSWORD", &cfg.Redis.Password)
	str("BIOLOGIN_LOG_LEVEL", &cfg.Log.Level)
	str("BIOLOGIN_LOG_FORMAT", &cfg.Log.Format)
	str("BIOLOGIN_AUDIT", &cfg.Audit)
	str("BIOLOGIN_METRICS_ADDR", &cfg.Metrics)
	str("BIOLOGIN_PROFILE", &cfg.Profile)

	if v, ok := lookup("BIOLOGIN_SANDBOX_LATENCY"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("BIOLOGIN_SANDBOX_LATENCY: %w", err)
		}
		cfg.Sandbox.Latency = d
	}
	return nil
}

func (c *demoConfig) validate() error {
	switch c.Store.Backend {
	case "memory", "redis":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Audit {
	case "off", "log", "json":
	default:
		return fmt.Errorf("unknown audit mode %q", c.Audit)
	}
	if c.Timeout <= 0 {
		return errors.New("action_timeout must be > 0")
	}
	if c.Audit != "off" {
		c.Engine.Audit.Enabled = true
	}
	return c.Engine.Validate()
}
