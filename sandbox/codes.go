package sandbox

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	errCodeNotFound  = errors.New("verification code not found")
	errCodeMismatch  = errors.New("verification code mismatch")
	errCodeExhausted = errors.New("verification code attempts exceeded")
	errResendTooSoon = errors.New("verification code resend too soon")
)

// checkCodeLua compares a code hash against the stored record and counts
// misses. The record is deleted once attempts reach the cap, or on a match
// when ARGV[3] is "1".
//
// KEYS[1] = record key
// ARGV[1] = sha256 hex of the provided code
// ARGV[2] = max attempts
// ARGV[3] = consume flag
var checkCodeLua = redis.NewScript(`
local rec = redis.call('HMGET', KEYS[1], 'hash', 'attempts')
if not rec[1] then
  return {err='not_found'}
end
if rec[1] ~= ARGV[1] then
  local n = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
  if n >= tonumber(ARGV[2]) then
    redis.call('DEL', KEYS[1])
    return {err='attempts_exceeded'}
  end
  return {err='mismatch'}
end
if ARGV[3] == '1' then
  redis.call('DEL', KEYS[1])
end
return 'ok'
`)

// codeStore keeps one pending verification code per (purpose, country,
// email) with a resend throttle.
type codeStore struct {
	redis       redis.UniversalClient
	prefix      string
	ttl         time.Duration
	resend      time.Duration
	maxAttempts int
}

func (s *codeStore) recordKey(subject string) string {
	return s.prefix + ":code:" + subject
}

func (s *codeStore) throttleKey(subject string) string {
	return s.prefix + ":code_resend:" + subject
}

// Issue generates a fresh 6-digit code for subject, replacing any pending one.
func (s *codeStore) Issue(ctx context.Context, subject string) (string, error) {
	if s.resend > 0 {
		ok, err := s.redis.SetNX(ctx, s.throttleKey(subject), 1, s.resend).Result()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errResendTooSoon
		}
	}

	code, err := randomCode()
	if err != nil {
		return "", err
	}

	key := s.recordKey(subject)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "hash", hashCode(code), "attempts", 0)
		pipe.PExpire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Check verifies code for subject, deleting the record on success when
// consume is set.
func (s *codeStore) Check(ctx context.Context, subject, code string, consume bool) error {
	flag := "0"
	if consume {
		flag = "1"
	}
	err := checkCodeLua.Run(ctx, s.redis, []string{s.recordKey(subject)}, hashCode(code), s.maxAttempts, flag).Err()
	if err == nil {
		return nil
	}
	switch err.Error() {
	case "not_found":
		return errCodeNotFound
	case "mismatch":
		return errCodeMismatch
	case "attempts_exceeded":
		return errCodeExhausted
	}
	return fmt.Errorf("check verification code: %w", err)
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

var codeSpace = big.NewInt(1_000_000)

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
