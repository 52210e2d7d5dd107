package cron

import (
	"context"
	"fmt"
	"time"
)

const (
	JobExpirePendingOrders  = "expire_pending_orders"
	JobPruneUnverifiedUsers = "prune_unverified_users"
)

type pendingOrderExpirer interface {
	ExpirePending(ctx context.Context, olderThan time.Duration) (int64, error)
}

type unverifiedUserPruner interface {
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewExpirePendingOrdersJob cancels orders left unpaid longer than ttl.
func NewExpirePendingOrdersJob(orders pendingOrderExpirer, ttl time.Duration) (Job, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("pending order ttl must be positive")
	}
	return &expirePendingOrdersJob{orders: orders, ttl: ttl}, nil
}

type expirePendingOrdersJob struct {
	orders pendingOrderExpirer
	ttl    time.Duration
}

func (j *expirePendingOrdersJob) Name() string { return JobExpirePendingOrders }

func (j *expirePendingOrdersJob) Run(ctx context.Context) (int64, error) {
	return j.orders.ExpirePending(ctx, j.ttl)
}

// NewPruneUnverifiedUsersJob deletes signups that never confirmed their OTP.
func NewPruneUnverifiedUsersJob(users unverifiedUserPruner, ttl time.Duration) (Job, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("unverified user ttl must be positive")
	}
	return &pruneUnverifiedUsersJob{users: users, ttl: ttl, now: time.Now}, nil
}

type pruneUnverifiedUsersJob struct {
	users unverifiedUserPruner
	ttl   time.Duration
	now   func() time.Time
}

func (j *pruneUnverifiedUsersJob) Name() string { return JobPruneUnverifiedUsers }

func (j *pruneUnverifiedUsersJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.ttl)
	deleted, err := j.users.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune unverified users: %w", err)
	}
	return deleted, nil
}
