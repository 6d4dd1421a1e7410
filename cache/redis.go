package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed Cache for deployments where multiple
// processes should share one response cache. Expiry is delegated to Redis
// TTLs, so the lazy-eviction contract holds without any sweeping here.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache creates a cache over an existing Redis client.
// prefix namespaces keys; empty means no namespacing.
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a payload. Redis errors degrade to a miss; the caller
// recomputes, which is always safe for deterministic producers.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a payload with the given TTL. TTL<=0 means no caching.
func (c *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}

// Delete removes a payload. Idempotent - missing keys are not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.prefix+key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
