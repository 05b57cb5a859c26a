package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonmsg/internal/platform/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		_, err := Open(ctx, config.RedisConfig{})
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Open(ctx, config.RedisConfig{URL: "http://nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse redis URL")
	})

	t.Run("connects and applies pool settings", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := Open(ctx, config.RedisConfig{
			URL:         "redis://" + mr.Addr() + "/0",
			PoolSize:    7,
			DialTimeout: time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.Equal(t, 7, client.Options().PoolSize)
		require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		mr.CheckGet(t, "k", "v")
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := Open(ctx, config.RedisConfig{URL: "redis://127.0.0.1:1/0", DialTimeout: 100 * time.Millisecond})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis ping failed")
	})
}
