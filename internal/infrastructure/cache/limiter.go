package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/mom-generator/pkg/config"
)

const limiterKeyPrefix = "mom:ratelimit:"

// MemoryLimiter allows one attempt per key and window within this process
type MemoryLimiter struct {
	store *MemoryStore
}

// NewMemoryLimiter creates a limiter backed by a memory store
func NewMemoryLimiter(store *MemoryStore) *MemoryLimiter {
	return &MemoryLimiter{store: store}
}

// Allow reports whether an attempt for key may proceed now
func (l *MemoryLimiter) Allow(_ context.Context, key string, window time.Duration) (bool, error) {
	return l.store.SetNX(limiterKeyPrefix+key, "1", window), nil
}

// RedisLimiter allows one attempt per key and window across instances
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisLimiter creates a limiter on top of a Redis client
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Allow takes the key with SET NX PX; a held key means the window is still open
func (l *RedisLimiter) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, limiterKeyPrefix+key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return ok, nil
}
