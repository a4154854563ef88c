package goBioLogin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/goBioLogin/internal/audit"
	"github.com/MrEthical07/goBioLogin/internal/flows"
	"github.com/MrEthical07/goBioLogin/session"
	"github.com/MrEthical07/goBioLogin/uithread"
	"github.com/jonboulle/clockwork"
)

// Engine wires the session store, the vendor SDKs and the UI loop together
// and opens screens.
//
// Screen methods must be called on the UI loop, which is whichever goroutine
// drives Engine.Loop(). Queries such as StartScreen and Session are safe from
// any goroutine.
type Engine struct {
	config Config

	store     session.Store
	account   AccountSDK
	biometric BiometricSDK

	loop   *uithread.Loop
	clock  clockwork.Clock
	logger *slog.Logger

	audit   *audit.Dispatcher
	metrics *Metrics
}

// Loop returns the UI loop every SDK completion is posted to.
func (e *Engine) Loop() *uithread.Loop {
	return e.loop
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Close flushes the audit dispatcher. Open screens are not closed.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped counts audit events dropped because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// It returns empty maps when metrics are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, since time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, e.clock.Since(since))
}

// Session returns the stored session or session.ErrNoSession.
func (e *Engine) Session(ctx context.Context) (*session.Session, error) {
	return e.store.Load(ctx)
}

// ClearSession erases every stored session field.
func (e *Engine) ClearSession(ctx context.Context) error {
	return e.store.ClearAll(ctx)
}

// StartScreen picks the entry screen at application start.
func (e *Engine) StartScreen(ctx context.Context) Screen {
	screen := screenForRoute(flows.RunStartRoute(ctx, e.navigationDeps()))
	e.logger.DebugContext(ctx, "navigation: start screen", "screen", screen.String())
	return screen
}

// ScreenAfterLogout picks the screen shown after a successful logout.
func (e *Engine) ScreenAfterLogout(ctx context.Context) Screen {
	screen := screenForRoute(flows.RunPostLogoutRoute(ctx, e.navigationDeps()))
	e.logger.DebugContext(ctx, "navigation: post-logout screen", "screen", screen.String())
	return screen
}

func (e *Engine) navigationDeps() flows.NavigationDeps {
	return flows.NavigationDeps{
		LoadSession:         e.store.Load,
		RemoteSessionActive: e.account.IsSessionActive,
		BiometricEnabled:    e.biometric.IsEnabledForUser,
		Warn: func(msg string, args ...any) {
			e.metricInc(MetricSessionStoreFailure)
			e.logger.Warn(msg, args...)
		},
	}
}

func screenForRoute(r flows.Route) Screen {
	switch r {
	case flows.RouteHome:
		return ScreenHome
	case flows.RouteBiometricLogin:
		return ScreenBiometricLogin
	default:
		return ScreenPasswordLogin
	}
}

func (e *Engine) biometricDeps() flows.BiometricDeps {
	return flows.BiometricDeps{
		IsSupported:          e.biometric.IsSupported,
		IsEnabled:            e.biometric.IsEnabledForUser,
		HasCredentialChanged: e.biometric.HasCredentialChanged,
		Errors:               biometricErrors(),
	}
}

// localSession loads the stored session for display and precondition checks.
// Absence and read failures both yield an empty session.
func (e *Engine) localSession(ctx context.Context) *session.Session {
	sess, err := e.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			e.metricInc(MetricSessionStoreFailure)
			e.logger.WarnContext(ctx, "session load failed", "error", err)
		}
		return &session.Session{}
	}
	return sess
}

// saveLogin persists a successful login. A store failure is logged; the user
// is authenticated regardless and proceeds to Home.
func (e *Engine) saveLogin(ctx context.Context, userID, accountName, countryCode string) {
	ctx = context.WithoutCancel(ctx)
	if err := e.store.SaveLogin(ctx, userID, accountName, countryCode); err != nil {
		e.metricInc(MetricSessionStoreFailure)
		e.logger.ErrorContext(ctx, "session save failed", "user_id", userID, "error", err)
	}
}

// ScreenController is the common surface of every open screen.
type ScreenController interface {
	Kind() Screen
	Close()
	Closed() bool
}

// Open opens screen with view and applies its on-open effects.
func (e *Engine) Open(ctx context.Context, screen Screen, view View) (ScreenController, error) {
	switch screen {
	case ScreenPasswordLogin:
		return e.OpenPasswordLogin(view), nil
	case ScreenRegister:
		return e.OpenRegister(view), nil
	case ScreenBiometricLogin:
		return e.OpenBiometricLogin(ctx, view), nil
	case ScreenHome:
		return e.OpenHome(ctx, view), nil
	default:
		return nil, fmt.Errorf("open screen %s: unknown screen", screen)
	}
}
