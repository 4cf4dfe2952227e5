package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"accountapp/internal/core/port"
)

const cleanupInterval = time.Minute

type memoryCache struct {
	store *gocache.Cache
}

// NewCache keeps entries in process; defaultTTL applies when Set gets a zero ttl.
func NewCache(defaultTTL time.Duration) port.CacheRepository {
	return &memoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.store.Set(key, stored, ttl)

	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.store.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)

	return nil
}

func (c *memoryCache) Close() error {
	c.store.Flush()

	return nil
}
