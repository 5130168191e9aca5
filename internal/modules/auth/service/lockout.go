package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter tracks failed logins per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type redisLoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter returns a limiter backed by Redis; with a nil client every attempt is allowed.
func NewLoginLimiter(rdb *redis.Client, maxAttempts int64, window time.Duration) LoginLimiter {
	if rdb == nil {
		return noopLimiter{}
	}
	return &redisLoginLimiter{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

// lockoutKey uses the email verbatim, matching the exact-match login lookup.
func lockoutKey(email string) string {
	return fmt.Sprintf("login_failures:%s", email)
}

func (l *redisLoginLimiter) Allow(ctx context.Context, email string) (bool, time.Duration, error) {
	count, err := l.rdb.Get(ctx, lockoutKey(email)).Int64()
	if err == redis.Nil {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read login failures from redis: %w", err)
	}
	if count < l.maxAttempts {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, lockoutKey(email)).Result()
	if err != nil {
		return false, 0, err
	}
	return false, ttl, nil
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := lockoutKey(email)
	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

func (l *redisLoginLimiter) Reset(ctx context.Context, email string) error {
	return l.rdb.Del(ctx, lockoutKey(email)).Err()
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
func (noopLimiter) RecordFailure(context.Context, string) error               { return nil }
func (noopLimiter) Reset(context.Context, string) error                       { return nil }
