package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts     = 5
	defaultLockoutDuration = 5 * time.Minute
)

// LockoutStore counts consecutive sign-in failures per account in Redis.
// Key format: lockout:failures:<email> and lockout:locked:<email>
type LockoutStore struct {
	client      *redis.Client
	maxAttempts int
	duration    time.Duration
}

// NewLockoutStore creates a LockoutStore. Non-positive settings fall back to
// five attempts and a five minute lock.
func NewLockoutStore(client *redis.Client, maxAttempts int, duration time.Duration) *LockoutStore {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if duration <= 0 {
		duration = defaultLockoutDuration
	}
	return &LockoutStore{client: client, maxAttempts: maxAttempts, duration: duration}
}

// IsLockedOut reports whether the account is currently locked.
func (s *LockoutStore) IsLockedOut(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.lockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n > 0, nil
}

// RecordFailure increments the failure counter. Reaching maxAttempts sets the
// lock key for the lockout duration and clears the counter.
func (s *LockoutStore) RecordFailure(ctx context.Context, key string) (bool, error) {
	failures := s.failureKey(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, failures)
	pipe.Expire(ctx, failures, s.duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("lockout record: %w", err)
	}

	if incr.Val() < int64(s.maxAttempts) {
		return false, nil
	}

	pipe = s.client.TxPipeline()
	pipe.Set(ctx, s.lockKey(key), "1", s.duration)
	pipe.Del(ctx, failures)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("lockout set: %w", err)
	}
	return true, nil
}

// Reset clears the failure counter after a successful sign-in.
func (s *LockoutStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.failureKey(key)).Err(); err != nil {
		return fmt.Errorf("lockout reset: %w", err)
	}
	return nil
}

func (s *LockoutStore) failureKey(key string) string {
	return "lockout:failures:" + strings.ToLower(key)
}

func (s *LockoutStore) lockKey(key string) string {
	return "lockout:locked:" + strings.ToLower(key)
}
