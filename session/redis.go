package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisSchemaField = "schema"
const redisSchemaVersion = "1"

// RedisStore keeps the session in a Redis hash keyed by device profile.
type RedisStore struct {
	redis redis.UniversalClient
	key   string
}

// NewRedisStore creates a store for one device profile. Empty prefix and
// profile default to "bl" and "default".
func NewRedisStore(client redis.UniversalClient, prefix, profile string) *RedisStore {
	if prefix == "" {
		prefix = "bl"
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		redis: client,
		key:   prefix + ":session:" + profile,
	}
}

// Key returns the hash key this store writes to.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) SaveLogin(ctx context.Context, userID, accountName, countryCode string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key,
			redisSchemaField, redisSchemaVersion,
			fieldUserID, userID,
			fieldAccountName, accountName,
			fieldCountryCode, countryCode,
			fieldLoggedIn, encodeBool(true),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) MarkLogout(ctx context.Context) error {
	if err := s.redis.HSet(ctx, s.key,
		redisSchemaField, redisSchemaVersion,
		fieldLoggedIn, encodeBool(false),
	).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) ClearAll(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	fields, err := s.redis.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrNoSession
	}
	return decodeFields(fields), nil
}
