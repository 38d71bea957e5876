package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("bed lock not acquired")

// Locker guards the critical section of assigning a bed so two concurrent
// admissions cannot occupy the same bed.
type Locker interface {
	WithBedLock(ctx context.Context, bedID uuid.UUID, fn func(ctx context.Context) error) error
}

type bedLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBedLocker creates a locker that uses a per-bed Redis key.
func NewBedLocker(client *redis.Client, ttl time.Duration) Locker {
	return &bedLocker{client: client, ttl: ttl}
}

func (l *bedLocker) WithBedLock(ctx context.Context, bedID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:bed:%s", bedID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire bed lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *bedLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release bed lock: %w", err)
	}
	return nil
}

// NoopLocker runs the critical section without distributed locking. Used in
// tests and single-node deployments without Redis.
type NoopLocker struct{}

func (NoopLocker) WithBedLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
