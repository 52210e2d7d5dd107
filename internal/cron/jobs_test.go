package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeOrders struct {
	window time.Duration
	count  int64
}

func (f *fakeOrders) ExpirePending(_ context.Context, olderThan time.Duration) (int64, error) {
	f.window = olderThan
	return f.count, nil
}

type fakeUsers struct {
	cutoff time.Time
	err    error
}

func (f *fakeUsers) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, f.err
}

func TestExpirePendingOrdersJob(t *testing.T) {
	orders := &fakeOrders{count: 5}
	job, err := NewExpirePendingOrdersJob(orders, 24*time.Hour)
	if err != nil {
		t.Fatalf("job: %v", err)
	}
	if job.Name() != JobExpirePendingOrders {
		t.Fatalf("unexpected name %s", job.Name())
	}
	n, err := job.Run(context.Background())
	if err != nil || n != 5 {
		t.Fatalf("run: %d %v", n, err)
	}
	if orders.window != 24*time.Hour {
		t.Fatalf("unexpected window %s", orders.window)
	}
	if _, err := NewExpirePendingOrdersJob(orders, 0); err == nil {
		t.Fatalf("expected zero ttl rejected")
	}
}

func TestPruneUnverifiedUsersJobUsesCutoff(t *testing.T) {
	users := &fakeUsers{}
	job, err := NewPruneUnverifiedUsersJob(users, 168*time.Hour)
	if err != nil {
		t.Fatalf("job: %v", err)
	}
	now := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	job.(*pruneUnverifiedUsersJob).now = func() time.Time { return now }

	n, err := job.Run(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("run: %d %v", n, err)
	}
	if want := now.Add(-168 * time.Hour); !users.cutoff.Equal(want) {
		t.Fatalf("cutoff %s, want %s", users.cutoff, want)
	}

	users.err = errors.New("db down")
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
