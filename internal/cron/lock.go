package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/google/uuid"
)

const defaultLockTTL = 5 * time.Minute

// Locker hands out at most one Lease at a time across all cron workers.
// TryLock returns a nil Lease when another worker holds it.
type Locker interface {
	TryLock(ctx context.Context) (Lease, error)
}

type Lease interface {
	Unlock(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// RedisLock is a SET NX lease that expires after ttl if the holder dies.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
}

func NewRedisLock(store lockStore, name string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case store == nil:
		return nil, errors.New("redis client required for lock")
	case name == "":
		return nil, errors.New("lock name is required")
	case ttl <= 0:
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, key: store.LockKey(name), ttl: ttl}, nil
}

func (l *RedisLock) TryLock(ctx context.Context) (Lease, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if !ok {
		return nil, nil
	}
	return &redisLease{lock: l, owner: owner}, nil
}

type redisLease struct {
	lock  *RedisLock
	owner string
}

// Unlock deletes the key only while it still carries this lease's owner, so
// a lease that already expired cannot free a successor's lock.
func (r *redisLease) Unlock(ctx context.Context) error {
	current, err := r.lock.store.Get(ctx, r.lock.key)
	switch {
	case errors.Is(err, redis.ErrNil):
		return nil
	case err != nil:
		return fmt.Errorf("read %s: %w", r.lock.key, err)
	case current != r.owner:
		return nil
	}
	if err := r.lock.store.Del(ctx, r.lock.key); err != nil {
		return fmt.Errorf("release %s: %w", r.lock.key, err)
	}
	return nil
}
