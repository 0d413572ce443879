package payout

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Locker is a per-mentor advisory lock held across payout selection. The
// storage transaction is the correctness backstop; the lock keeps concurrent
// requests from burning settlement retries.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLocker implements Locker with SETNX.
type RedisLocker struct {
	Client *redis.Client
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.Client.Del(ctx, key).Err()
}
