package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"anonmsg/pkg/platform/sentinel"
)

// RedisList is a Redis-backed token revocation list shared by every
// instance. Entries expire with the token they revoke.
type RedisList struct {
	client *redis.Client
}

func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// RevokeToken marks jti revoked for ttl. Tokens that are already expired do
// not need an entry and report sentinel.ErrInvalidState.
func (l *RedisList) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if skip, err := checkRevocation(jti, ttl); skip || err != nil {
		return err
	}
	if err := l.client.Set(ctx, revokedTokenKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti has a live revocation entry.
func (l *RedisList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := l.client.Get(ctx, revokedTokenKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w: %w", sentinel.ErrUnavailable, err)
	}
	return true, nil
}
