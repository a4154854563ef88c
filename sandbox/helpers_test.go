package sandbox

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

type codeInbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *codeInbox) sink(email, countryCode, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[countryCode+":"+email] = code
}

func (c *codeInbox) last(countryCode, email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[countryCode+":"+email]
}

type fixture struct {
	mr      *miniredis.Miniredis
	rdb     *redis.Client
	clock   *clockwork.FakeClock
	inbox   *codeInbox
	account *AccountService
	device  *BiometricDevice
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password = password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	cfg.TokenSecret = "sandbox-test-secret-0123456789abcdef"
	return cfg
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	f := &fixture{
		mr:    mr,
		rdb:   rdb,
		clock: clockwork.NewFakeClock(),
		inbox: &codeInbox{codes: map[string]string{}},
	}
	account, err := NewAccountService(rdb, cfg, f.clock, f.inbox.sink)
	if err != nil {
		t.Fatalf("NewAccountService: %v", err)
	}
	f.account = account
	f.device = NewBiometricDevice(rdb, account)
	return f
}

func await[T any](t *testing.T, f *async.Future[T]) async.Result[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := f.Await(ctx)
	if err != nil {
		t.Fatalf("future did not settle: %v", err)
	}
	return r
}
