package lockout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"anonmsg/pkg/platform/sentinel"
)

const (
	failuresKeyPrefix = "lockout:failures:"
	lockedKeyPrefix   = "lockout:locked:"
)

// RedisStore counts login failures per identifier in a fixed window that
// starts at the first failure, and holds locks as expiring keys.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RecordFailure increments the failure count and returns it. The window
// expiry is set only by the first failure.
func (s *RedisStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	key := failuresKeyPrefix + identifier
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record failure: %w: %w", sentinel.ErrUnavailable, err)
	}
	return int(incr.Val()), nil
}

// Lock locks identifier for d and resets its failure count.
func (s *RedisStore) Lock(ctx context.Context, identifier string, d time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, lockedKeyPrefix+identifier, "1", d)
	pipe.Del(ctx, failuresKeyPrefix+identifier)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lock: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) IsLocked(ctx context.Context, identifier string) (bool, error) {
	n, err := s.client.Exists(ctx, lockedKeyPrefix+identifier).Result()
	if err != nil {
		return false, fmt.Errorf("check lock: %w: %w", sentinel.ErrUnavailable, err)
	}
	return n > 0, nil
}

// Clear forgets recorded failures after a successful login.
func (s *RedisStore) Clear(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, failuresKeyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("clear failures: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
