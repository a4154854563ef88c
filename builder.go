package goBioLogin

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrEthical07/goBioLogin/internal/audit"
	"github.com/MrEthical07/goBioLogin/session"
	"github.com/MrEthical07/goBioLogin/uithread"
	"github.com/jonboulle/clockwork"
)

// Builder assembles an Engine. A Builder is single use.
type Builder struct {
	config Config

	store     session.Store
	account   AccountSDK
	biometric BiometricSDK

	auditSink AuditSink
	logger    *slog.Logger
	clock     clockwork.Clock
	loop      *uithread.Loop

	built bool
}

// New describes the new operation and its observable behavior.
//
// The returned Builder starts from DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSessionStore sets the local session storage. Required.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithAccountSDK sets the vendor account service. Required.
func (b *Builder) WithAccountSDK(sdk AccountSDK) *Builder {
	b.account = sdk
	return b
}

// WithBiometricSDK sets the vendor biometric SDK. Required.
func (b *Builder) WithBiometricSDK(sdk BiometricSDK) *Builder {
	b.biometric = sdk
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// The sink only receives events when Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock overrides the clock used for countdowns, tap guards and
// latency. Tests pass a clockwork fake clock.
func (b *Builder) WithClock(clock clockwork.Clock) *Builder {
	b.clock = clock
	return b
}

// WithLoop sets the UI loop every completion is posted to. Build creates one
// when none is given.
func (b *Builder) WithLoop(loop *uithread.Loop) *Builder {
	b.loop = loop
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build fails with ErrEngineNotReady when a required dependency is missing
// and with the validation error when the configuration is invalid.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case b.store == nil:
		return nil, fmt.Errorf("%w: session store required", ErrEngineNotReady)
	case b.account == nil:
		return nil, fmt.Errorf("%w: account SDK required", ErrEngineNotReady)
	case b.biometric == nil:
		return nil, fmt.Errorf("%w: biometric SDK required", ErrEngineNotReady)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := b.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	loop := b.loop
	if loop == nil {
		loop = uithread.New()
	}

	e := &Engine{
		config:    cfg,
		store:     b.store,
		account:   b.account,
		biometric: b.biometric,
		loop:      loop,
		clock:     clock,
		logger:    logger,
		metrics:   NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true
	return e, nil
}
