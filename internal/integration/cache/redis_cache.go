// Package cache implements the report cache on Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
)

// RedisCache implements the adapter.ReportCache interface on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed report cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached bytes for a key. A missing key is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set stores bytes under a key with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Ensure RedisCache satisfies the cache interface.
var _ adapter.ReportCache = (*RedisCache)(nil)
