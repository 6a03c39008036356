package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisLocker takes short-lived distributed locks with redislock
type RedisLocker struct {
	client *redislock.Client
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a locker that retries for up to wait before giving up
func NewRedisLocker(client redis.UniversalClient, wait time.Duration) *RedisLocker {
	retry := redislock.NoRetry()
	if wait > 0 {
		retry = redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(wait/(50*time.Millisecond)))
	}
	return &RedisLocker{client: redislock.New(client), retry: retry}
}

// Lock obtains key for ttl. A lock held elsewhere yields
// shared.ErrConcurrencyConflict.
func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrConcurrencyConflict
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
