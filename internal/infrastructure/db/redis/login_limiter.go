package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultLockout     = 15 * time.Minute
)

// LoginLimiter counts failed admin logins per username in Redis.
// Key format: login:fail:<username>. The counter expires lockout after the
// first failure of a window.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int64
	lockout     time.Duration
}

// NewLoginLimiter returns a limiter that blocks a username after maxFailures
// failures within lockout. Non-positive values fall back to 5 and 15m.
func NewLoginLimiter(client *redis.Client, maxFailures int, lockout time.Duration) *LoginLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginLimiter{client: client, maxFailures: int64(maxFailures), lockout: lockout}
}

// Blocked reports whether username has reached the failure limit.
func (l *LoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RegisterFailure increments the failure counter, starting the lockout
// window on the first failure.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, username string) error {
	key := l.key(username)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginLimiter) key(username string) string {
	return fmt.Sprintf("login:fail:%s", username)
}
