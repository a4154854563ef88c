package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/internal/logging"
	"github.com/MrEthical07/goBioLogin/password"
	"github.com/MrEthical07/goBioLogin/sandbox"
	"github.com/MrEthical07/goBioLogin/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoHarness struct {
	repl *repl
	out  *bytes.Buffer

	mu    sync.Mutex
	codes map[string]string
}

func (h *demoHarness) code(email string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.codes[email]
}

func newDemoHarness(t *testing.T) *demoHarness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &demoHarness{out: &bytes.Buffer{}, codes: map[string]string{}}

	cfg := defaultDemoConfig()
	cfg.Store.Backend = "memory"
	cfg.Timeout = 5 * time.Second
	cfg.Sandbox.Password = password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	account, err := sandbox.NewAccountService(client, cfg.Sandbox, nil, func(email, _, code string) {
		h.mu.Lock()
		h.codes[email] = code
		h.mu.Unlock()
	})
	require.NoError(t, err)
	device := sandbox.NewBiometricDevice(client, account)

	engine, err := goBioLogin.New().
		WithConfig(cfg.Engine).
		WithSessionStore(session.NewMemoryStore()).
		WithAccountSDK(account).
		WithBiometricSDK(device).
		WithLogger(logging.Discard()).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	h.repl = newREPL(cfg, engine, account, device, logging.Discard(), h.out)
	require.NoError(t, h.repl.start(context.Background()))
	return h
}

func (h *demoHarness) run(t *testing.T, line string) {
	t.Helper()
	h.out.Reset()
	if err := h.repl.exec(context.Background(), line); err != nil && err != io.EOF {
		t.Fatalf("%q: %v", line, err)
	}
}

func (h *demoHarness) screen() goBioLogin.Screen {
	return h.repl.top().Kind()
}

func TestDemoJourney(t *testing.T) {
	h := newDemoHarness(t)
	assert.Equal(t, goBioLogin.ScreenPasswordLogin, h.screen())

	h.run(t, "register")
	assert.Equal(t, goBioLogin.ScreenRegister, h.screen())
	assert.Len(t, h.repl.stack, 2)

	h.run(t, "send 1 a@b.com")
	code := h.code("a@b.com")
	require.Len(t, code, 6)

	h.run(t, "create 1 a@b.com abc123 abc123 "+code)
	assert.Equal(t, goBioLogin.ScreenHome, h.screen())
	assert.Len(t, h.repl.stack, 1)

	h.run(t, "enable")
	assert.Contains(t, h.out.String(), "enabled")

	h.run(t, "logout")
	assert.Equal(t, goBioLogin.ScreenBiometricLogin, h.screen())

	h.run(t, "finger")
	assert.Equal(t, goBioLogin.ScreenHome, h.screen())

	h.run(t, "status")
	assert.Contains(t, h.out.String(), "logged_in=true")
	assert.Contains(t, h.out.String(), "remote session active: true")
}

func TestDemoDialogFallsBackToPassword(t *testing.T) {
	h := newDemoHarness(t)
	h.run(t, "register")
	h.run(t, "send 1 a@b.com")
	h.run(t, "create 1 a@b.com abc123 abc123 "+h.code("a@b.com"))
	h.run(t, "enable")
	h.run(t, "logout")
	require.Equal(t, goBioLogin.ScreenBiometricLogin, h.screen())

	h.run(t, "device enroll finger-2")
	h.run(t, "finger")
	assert.Contains(t, h.out.String(), "[dialog]")
	assert.Equal(t, goBioLogin.ScreenPasswordLogin, h.screen())

	h.run(t, "login 1 a@b.com abc123")
	assert.Equal(t, goBioLogin.ScreenHome, h.screen())
}

func TestDemoCommandErrors(t *testing.T) {
	h := newDemoHarness(t)
	ctx := context.Background()

	assert.Error(t, h.repl.exec(ctx, "finger"), "finger is not a password-login command")
	assert.Error(t, h.repl.exec(ctx, "device prompt shrug"))
	assert.Error(t, h.repl.exec(ctx, "back"))
	assert.ErrorIs(t, h.repl.exec(ctx, "quit"), io.EOF)

	h.run(t, "login")
	assert.Contains(t, h.out.String(), "Country code, email and password are required")
	assert.Equal(t, goBioLogin.ScreenPasswordLogin, h.screen())
}

func TestDemoMetricsCommand(t *testing.T) {
	h := newDemoHarness(t)
	h.run(t, "login 1 nobody@b.com abc123")
	h.run(t, "metrics")
	assert.True(t, strings.Contains(h.out.String(), "biologin_password_login_failure_total 1"), h.out.String())
}
