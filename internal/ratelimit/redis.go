package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a redis-backed Store. Counters are shared across instances,
// which makes limits global in a horizontally scaled deployment.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing redis client. The caller owns the client's
// lifecycle; Close here is a no-op.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

func (r *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	fullKey := r.prefix + key

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	ttlCmd := pipe.TTL(ctx, fullKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("redis increment: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = window
	}
	return incr.Val(), ttl, nil
}

func (r *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (r *RedisStore) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis reset: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return nil
}
