package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonmsg/pkg/platform/sentinel"
)

func TestRedisList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	list := NewRedisList(client)
	ctx := context.Background()

	t.Run("revoked token is reported until its ttl passes", func(t *testing.T) {
		require.NoError(t, list.RevokeToken(ctx, "jti-1", time.Minute))
		assert.True(t, mr.Exists("revoked:jti:jti-1"))

		revoked, err := list.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		mr.FastForward(2 * time.Minute)
		revoked, err = list.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown and empty ids are not revoked", func(t *testing.T) {
		revoked, err := list.IsRevoked(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, list.RevokeToken(ctx, "", time.Minute))
	})

	t.Run("non-positive ttl is rejected", func(t *testing.T) {
		err := list.RevokeToken(ctx, "jti-2", 0)
		require.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		t.Cleanup(func() { _ = down.Close() })

		_, err := NewRedisList(down).IsRevoked(ctx, "jti-1")
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

func TestInMemoryList(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	list := NewInMemoryList()
	list.now = func() time.Time { return clock }

	require.NoError(t, list.RevokeToken(ctx, "jti-1", time.Minute))
	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	clock = clock.Add(time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.ErrorIs(t, list.RevokeToken(ctx, "jti-2", -time.Second), sentinel.ErrInvalidState)
}
