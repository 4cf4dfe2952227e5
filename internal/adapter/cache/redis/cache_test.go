package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountapp/internal/core/port"
)

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")

	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	ctx := context.Background()

	cache, err := NewCache(ctx, url)
	require.NoError(t, err)
	defer cache.Close()

	key := "accountapp:test:user:1"

	require.NoError(t, cache.Set(ctx, key, []byte("value"), time.Minute))

	value, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", string(value))

	require.NoError(t, cache.Delete(ctx, key))

	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestNewCache_InvalidURL(t *testing.T) {
	_, err := NewCache(context.Background(), "not-a-url://")

	assert.Error(t, err)
}
