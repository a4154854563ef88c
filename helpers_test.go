package goBioLogin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/internal/logging"
	"github.com/MrEthical07/goBioLogin/session"
	"github.com/MrEthical07/goBioLogin/uithread"
	"github.com/jonboulle/clockwork"
)

type fakeAccount struct {
	mu    sync.Mutex
	calls []string

	sessionActive bool

	login     func(countryCode, email, password string) *async.Future[Identity]
	sendCode  func(email, region, countryCode string, purpose int) *async.Future[struct{}]
	checkCode func(email, region, countryCode, code string, purpose int) *async.Future[struct{}]
	register  func(countryCode, email, password, code string) *async.Future[Identity]
	logout    func() *async.Future[struct{}]
}

func (f *fakeAccount) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAccount) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAccount) LoginWithEmail(_ context.Context, countryCode, email, password string) *async.Future[Identity] {
	f.record("login")
	if f.login != nil {
		return f.login(countryCode, email, password)
	}
	return async.Succeeded(Identity{UserID: "u1", Email: email, CountryCode: countryCode})
}

func (f *fakeAccount) SendVerifyCode(_ context.Context, email, region, countryCode string, purpose int) *async.Future[struct{}] {
	f.record("send_code")
	if f.sendCode != nil {
		return f.sendCode(email, region, countryCode, purpose)
	}
	return async.Succeeded(struct{}{})
}

func (f *fakeAccount) CheckVerifyCode(_ context.Context, email, region, countryCode, code string, purpose int) *async.Future[struct{}] {
	f.record("check_code")
	if f.checkCode != nil {
		return f.checkCode(email, region, countryCode, code, purpose)
	}
	return async.Succeeded(struct{}{})
}

func (f *fakeAccount) RegisterAccount(_ context.Context, countryCode, email, password, code string) *async.Future[Identity] {
	f.record("register")
	if f.register != nil {
		return f.register(countryCode, email, password, code)
	}
	return async.Succeeded(Identity{UserID: "u-new", Email: email, CountryCode: countryCode})
}

func (f *fakeAccount) IsSessionActive(context.Context) bool {
	f.record("session_active")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionActive
}

func (f *fakeAccount) Logout(context.Context) *async.Future[struct{}] {
	f.record("logout")
	if f.logout != nil {
		return f.logout()
	}
	return async.Succeeded(struct{}{})
}

type fakeBiometric struct {
	mu    sync.Mutex
	calls []string

	supported bool
	enabled   map[string]bool
	changed   bool

	authenticate func(userID, accountName, countryCode string) *async.Future[Identity]
	enable       func(userID string) *async.Future[Identity]
	disableErr   error
}

func newFakeBiometric() *fakeBiometric {
	return &fakeBiometric{supported: true, enabled: map[string]bool{}}
}

func (f *fakeBiometric) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBiometric) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBiometric) called(name string) bool {
	for _, c := range f.Calls() {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeBiometric) IsSupported(context.Context) bool {
	f.record("supported")
	return f.supported
}

func (f *fakeBiometric) IsEnabledForUser(_ context.Context, userID string) bool {
	f.record("enabled")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[userID]
}

func (f *fakeBiometric) HasCredentialChanged(context.Context, string) bool {
	f.record("changed")
	return f.changed
}

func (f *fakeBiometric) Authenticate(_ context.Context, userID, accountName, countryCode string) *async.Future[Identity] {
	f.record("authenticate")
	if f.authenticate != nil {
		return f.authenticate(userID, accountName, countryCode)
	}
	return async.Succeeded(Identity{UserID: userID})
}

func (f *fakeBiometric) EnableForUser(_ context.Context, userID string) *async.Future[Identity] {
	f.record("enable")
	if f.enable != nil {
		return f.enable(userID)
	}
	f.mu.Lock()
	f.enabled[userID] = true
	f.mu.Unlock()
	return async.Succeeded(Identity{UserID: userID})
}

func (f *fakeBiometric) DisableForUser(_ context.Context, userID string) error {
	f.record("disable")
	if f.disableErr != nil {
		return f.disableErr
	}
	f.mu.Lock()
	delete(f.enabled, userID)
	f.mu.Unlock()
	return nil
}

// recordingView is only touched from the test goroutine, which drives the loop.
type recordingView struct {
	messages  []Message
	enabled   map[Control]bool
	labels    map[Control][]string
	busy      []bool
	navigated []Screen
}

func newRecordingView() *recordingView {
	return &recordingView{
		enabled: map[Control]bool{},
		labels:  map[Control][]string{},
	}
}

func (v *recordingView) ShowMessage(msg Message) { v.messages = append(v.messages, msg) }

func (v *recordingView) SetEnabled(c Control, enabled bool) { v.enabled[c] = enabled }

func (v *recordingView) SetLabel(c Control, text string) { v.labels[c] = append(v.labels[c], text) }

func (v *recordingView) SetBusy(busy bool) { v.busy = append(v.busy, busy) }

func (v *recordingView) Navigate(s Screen) { v.navigated = append(v.navigated, s) }

func (v *recordingView) lastMessage() (Message, bool) {
	if len(v.messages) == 0 {
		return Message{}, false
	}
	return v.messages[len(v.messages)-1], true
}

func (v *recordingView) label(c Control) string {
	history := v.labels[c]
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1]
}

// isEnabled treats controls never touched as enabled.
func (v *recordingView) isEnabled(c Control) bool {
	enabled, ok := v.enabled[c]
	return !ok || enabled
}

type harness struct {
	engine  *Engine
	store   *session.MemoryStore
	account *fakeAccount
	bio     *fakeBiometric
	clock   *clockwork.FakeClock
	loop    *uithread.Loop
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, DefaultConfig())
}

func newHarnessWithConfig(t *testing.T, cfg Config) *harness {
	t.Helper()

	h := &harness{
		store:   session.NewMemoryStore(),
		account: &fakeAccount{},
		bio:     newFakeBiometric(),
		clock:   clockwork.NewFakeClock(),
		loop:    uithread.New(),
	}

	engine, err := New().
		WithConfig(cfg).
		WithSessionStore(h.store).
		WithAccountSDK(h.account).
		WithBiometricSDK(h.bio).
		WithClock(h.clock).
		WithLoop(h.loop).
		WithLogger(logging.Discard()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	h.engine = engine
	return h
}

func (h *harness) saveSession(t *testing.T, uid, account, country string, loggedIn bool) {
	t.Helper()
	ctx := context.Background()
	if err := h.store.SaveLogin(ctx, uid, account, country); err != nil {
		t.Fatalf("SaveLogin failed: %v", err)
	}
	if !loggedIn {
		if err := h.store.MarkLogout(ctx); err != nil {
			t.Fatalf("MarkLogout failed: %v", err)
		}
	}
}

func (h *harness) loadSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := h.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return sess
}

// await drives the UI loop until f settles.
func (h *harness) await(t *testing.T, f *async.Future[Screen]) async.Result[Screen] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.loop.RunUntil(ctx, f.Done()); err != nil {
		t.Fatalf("action did not settle: %v", err)
	}
	r, _ := f.Result()
	return r
}
