// Package cache is a thin, optional Redis layer for read-side results.
// When REDIS_URL is unset every operation is a no-op, so callers never
// branch on whether caching is configured.
package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Cache struct {
	rdb *redis.Client
	log *zap.Logger
}

// New connects to REDIS_URL, or returns a disabled cache when it is unset
// or unparsable. A broken cache URL is worth a warning, not a dead service.
func New(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}

	url := os.Getenv("REDIS_URL")
	if url == "" {
		return &Cache{log: log}
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid REDIS_URL, caching disabled", zap.Error(err))
		return &Cache{log: log}
	}

	return &Cache{rdb: redis.NewClient(opts), log: log}
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached value and whether it was present. Backend errors
// count as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL, best effort.
func (c *Cache) Set(ctx context.Context, key, val string, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
