package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"NewsPortal/internal/ports"
)

const editionCachePrefix = "newsportal:edition:"

// RedisEditionCache stores rendered daily editions in Redis.
type RedisEditionCache struct {
	rdb goredis.Cmdable
}

var _ ports.EditionCache = (*RedisEditionCache)(nil)

// OpenRedis parses a redis:// URL, falling back to a bare address.
func OpenRedis(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		opt = &goredis.Options{Addr: redisURL}
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisEditionCache wraps a Redis client.
func NewRedisEditionCache(rdb goredis.Cmdable) *RedisEditionCache {
	return &RedisEditionCache{rdb: rdb}
}

// Get returns the cached edition; found is false on a miss.
func (c *RedisEditionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, editionCachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get edition %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores the edition for ttl.
func (c *RedisEditionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, editionCachePrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set edition %s: %w", key, err)
	}
	return nil
}
