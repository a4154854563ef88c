package sandbox

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/jwt"
	"github.com/MrEthical07/goBioLogin/password"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// CodeSink receives every verification code the service sends. The demo
// prints them; tests capture them.
type CodeSink func(email, countryCode, code string)

// AccountService implements goBioLogin.AccountSDK on Redis.
//
// The service also plays the device side of the SDK: it remembers the token
// of the last session it opened, which IsSessionActive and Logout act on.
type AccountService struct {
	redis  redis.UniversalClient
	cfg    Config
	clock  clockwork.Clock
	hasher *password.Hasher
	tokens *jwt.Manager
	codes  *codeStore
	sink   CodeSink

	mu    sync.Mutex
	token string
}

var _ goBioLogin.AccountSDK = (*AccountService)(nil)

// NewAccountService validates cfg and wires the service. A nil clock means
// the real clock; a nil sink discards codes.
func NewAccountService(client redis.UniversalClient, cfg Config, clock clockwork.Clock, sink CodeSink) (*AccountService, error) {
	if client == nil {
		return nil, errors.New("sandbox: redis client required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if sink == nil {
		sink = func(string, string, string) {}
	}

	hasher, err := password.NewHasher(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("sandbox: token secret: %w", err)
		}
	}
	tokens, err := jwt.NewManager(jwt.Config{Secret: secret, TTL: cfg.SessionTTL, Issuer: cfg.Issuer}, clock)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	return &AccountService{
		redis:  client,
		cfg:    cfg,
		clock:  clock,
		hasher: hasher,
		tokens: tokens,
		codes: &codeStore{
			redis:       client,
			prefix:      cfg.Prefix,
			ttl:         cfg.CodeTTL,
			resend:      cfg.ResendInterval,
			maxAttempts: cfg.MaxCodeAttempts,
		},
		sink: sink,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) accountKey(countryCode, email string) string {
	return s.cfg.Prefix + ":acct:" + countryCode + ":" + normalizeEmail(email)
}

func (s *AccountService) userKey(uid string) string {
	return s.cfg.Prefix + ":user:" + uid
}

func (s *AccountService) sessionKey(sid string) string {
	return s.cfg.Prefix + ":sess:" + sid
}

func codeSubject(purpose int, countryCode, email string) string {
	return strconv.Itoa(purpose) + ":" + countryCode + ":" + normalizeEmail(email)
}

func (s *AccountService) LoginWithEmail(ctx context.Context, countryCode, email, plain string) *async.Future[goBioLogin.Identity] {
	return spawn(ctx, s.clock, s.cfg.Latency, func(ctx context.Context) (goBioLogin.Identity, error) {
		key := s.accountKey(countryCode, email)
		fields, err := s.redis.HMGet(ctx, key, "uid", "hash").Result()
		if err != nil {
			return goBioLogin.Identity{}, unavailable(err)
		}
		uid, _ := fields[0].(string)
		encoded, _ := fields[1].(string)
		if uid == "" || encoded == "" {
			return goBioLogin.Identity{}, sdkError(CodeInvalidCredentials, "incorrect email or password")
		}

		ok, err := s.hasher.Verify(plain, encoded)
		if err != nil {
			return goBioLogin.Identity{}, unavailable(err)
		}
		if !ok {
			return goBioLogin.Identity{}, sdkError(CodeInvalidCredentials, "incorrect email or password")
		}

		if stale, err := s.hasher.NeedsRehash(encoded); err == nil && stale {
			if fresh, err := s.hasher.Hash(plain); err == nil {
				_ = s.redis.HSet(ctx, key, "hash", fresh).Err()
			}
		}

		return s.openSession(ctx, uid, normalizeEmail(email), countryCode)
	})
}

func (s *AccountService) SendVerifyCode(ctx context.Context, email, region, countryCode string, purpose int) *async.Future[struct{}] {
	return spawn(ctx, s.clock, s.cfg.Latency, func(ctx context.Context) (struct{}, error) {
		if purpose == goBioLogin.VerifyPurposeRegister {
			n, err := s.redis.Exists(ctx, s.accountKey(countryCode, email)).Result()
			if err != nil {
				return struct{}{}, unavailable(err)
			}
			if n > 0 {
				return struct{}{}, sdkError(CodeAccountExists, "an account with this email already exists")
			}
		}

		code, err := s.codes.Issue(ctx, codeSubject(purpose, countryCode, email))
		switch {
		case errors.Is(err, errResendTooSoon):
			return struct{}{}, sdkError(CodeResendTooSoon, "please wait before requesting another code")
		case err != nil:
			return struct{}{}, unavailable(err)
		}
		s.sink(normalizeEmail(email), countryCode, code)
		return struct{}{}, nil
	})
}

func (s *AccountService) CheckVerifyCode(ctx context.Context, email, region, countryCode, code string, purpose int) *async.Future[struct{}] {
	return spawn(ctx, s.clock, s.cfg.Latency, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.checkCode(ctx, codeSubject(purpose, countryCode, email), code, false)
	})
}

func (s *AccountService) checkCode(ctx context.Context, subject, code string, consume bool) error {
	err := s.codes.Check(ctx, subject, code, consume)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errCodeNotFound):
		return sdkError(CodeVerifyExpired, "code expired")
	case errors.Is(err, errCodeMismatch):
		return sdkError(CodeVerifyMismatch, "incorrect code")
	case errors.Is(err, errCodeExhausted):
		return sdkError(CodeVerifyExhausted, "too many attempts, request a new code")
	default:
		return unavailable(err)
	}
}

func (s *AccountService) RegisterAccount(ctx context.Context, countryCode, email, plain, code string) *async.Future[goBioLogin.Identity] {
	return spawn(ctx, s.clock, s.cfg.Latency, func(ctx context.Context) (goBioLogin.Identity, error) {
		subject := codeSubject(goBioLogin.VerifyPurposeRegister, countryCode, email)
		if err := s.checkCode(ctx, subject, code, true); err != nil {
			return goBioLogin.Identity{}, err
		}

		encoded, err := s.hasher.Hash(plain)
		if err != nil {
			return goBioLogin.Identity{}, sdkError(CodeInvalidCredentials, err.Error())
		}

		uid := uuid.NewString()
		key := s.accountKey(countryCode, email)
		created, err := s.redis.HSetNX(ctx, key, "uid", uid).Result()
		if err != nil {
			return goBioLogin.Identity{}, unavailable(err)
		}
		if !created {
			return goBioLogin.Identity{}, sdkError(CodeAccountExists, "an account with this email already exists")
		}

		addr := normalizeEmail(email)
		_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "hash", encoded, "created_at", s.clock.Now().Unix())
			pipe.HSet(ctx, s.userKey(uid), "email", addr, "country_code", countryCode)
			return nil
		})
		if err != nil {
			return goBioLogin.Identity{}, unavailable(err)
		}
		return s.openSession(ctx, uid, addr, countryCode)
	})
}

// IsSessionActive reports whether the device holds a token whose remote
// session is still alive.
func (s *AccountService) IsSessionActive(ctx context.Context) bool {
	claims, err := s.tokens.Parse(s.currentToken())
	if err != nil {
		return false
	}
	n, err := s.redis.Exists(ctx, s.sessionKey(claims.SID)).Result()
	return err == nil && n == 1
}

// Logout ends the remote session for the held token. Logging out without a
// session succeeds.
func (s *AccountService) Logout(ctx context.Context) *async.Future[struct{}] {
	return spawn(ctx, s.clock, s.cfg.Latency, func(ctx context.Context) (struct{}, error) {
		token := s.currentToken()
		if token != "" {
			if claims, err := s.tokens.Parse(token); err == nil {
				if err := s.redis.Del(ctx, s.sessionKey(claims.SID)).Err(); err != nil {
					return struct{}{}, unavailable(err)
				}
			}
		}
		s.setToken("")
		return struct{}{}, nil
	})
}

// ExpireRemoteSession drops the remote side of the held session and keeps
// the token, as a server-side expiry would.
func (s *AccountService) ExpireRemoteSession(ctx context.Context) error {
	claims, err := s.tokens.Parse(s.currentToken())
	if err != nil {
		return nil
	}
	return s.redis.Del(ctx, s.sessionKey(claims.SID)).Err()
}

// SessionToken returns the token of the held session, or "".
func (s *AccountService) SessionToken() string {
	return s.currentToken()
}

func (s *AccountService) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *AccountService) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// openSession starts a remote session for uid and makes it the held one.
func (s *AccountService) openSession(ctx context.Context, uid, email, countryCode string) (goBioLogin.Identity, error) {
	sid := uuid.NewString()
	token, err := s.tokens.Issue(uid, sid, countryCode)
	if err != nil {
		return goBioLogin.Identity{}, unavailable(err)
	}
	if err := s.redis.Set(ctx, s.sessionKey(sid), uid, s.tokens.TTL()).Err(); err != nil {
		return goBioLogin.Identity{}, unavailable(err)
	}
	s.setToken(token)

	nickname, _, _ := strings.Cut(email, "@")
	return goBioLogin.Identity{
		UserID:       uid,
		Email:        email,
		CountryCode:  countryCode,
		Nickname:     nickname,
		SessionToken: token,
	}, nil
}

// lookupUser returns the stored email and country code for uid.
func (s *AccountService) lookupUser(ctx context.Context, uid string) (string, string, error) {
	fields, err := s.redis.HMGet(ctx, s.userKey(uid), "email", "country_code").Result()
	if err != nil {
		return "", "", unavailable(err)
	}
	email, _ := fields[0].(string)
	cc, _ := fields[1].(string)
	if email == "" {
		return "", "", sdkError(CodeUnknownUser, "unknown user")
	}
	return email, cc, nil
}
