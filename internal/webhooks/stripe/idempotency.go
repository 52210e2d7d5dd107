package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultEventTTL covers Stripe's retry window for undelivered events.
	DefaultEventTTL = 72 * time.Hour
	// claimTTL bounds an in-flight claim so a crashed worker does not block retries.
	claimTTL = 10 * time.Minute

	stateProcessing = "processing"
	stateDone       = "done"
)

// EventStore is the Redis surface the guard needs.
type EventStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// EventGuard dedupes Stripe deliveries by event id. A claim is short lived
// until Complete pins it for the full retry window.
type EventGuard struct {
	store EventStore
	ttl   time.Duration
	scope string
}

func NewEventGuard(store EventStore, ttl time.Duration, scope string) (*EventGuard, error) {
	switch {
	case store == nil:
		return nil, errors.New("event store is required")
	case ttl < 0:
		return nil, errors.New("ttl must be non-negative")
	case scope == "":
		return nil, errors.New("scope is required")
	}
	if ttl == 0 {
		ttl = DefaultEventTTL
	}
	return &EventGuard{store: store, ttl: ttl, scope: scope}, nil
}

func (g *EventGuard) key(eventID string) (string, error) {
	if eventID == "" {
		return "", errors.New("event id is required")
	}
	return g.store.IdempotencyKey(g.scope, eventID), nil
}

// Claim reports whether this delivery owns eventID. False means another
// delivery is processing it or already finished it.
func (g *EventGuard) Claim(ctx context.Context, eventID string) (bool, error) {
	key, err := g.key(eventID)
	if err != nil {
		return false, err
	}
	owned, err := g.store.SetNX(ctx, key, stateProcessing, min(claimTTL, g.ttl))
	if err != nil {
		return false, fmt.Errorf("claim stripe event %s: %w", eventID, err)
	}
	return owned, nil
}

// Complete keeps eventID marked as handled for the guard's ttl.
func (g *EventGuard) Complete(ctx context.Context, eventID string) error {
	key, err := g.key(eventID)
	if err != nil {
		return err
	}
	if err := g.store.Set(ctx, key, stateDone, g.ttl); err != nil {
		return fmt.Errorf("complete stripe event %s: %w", eventID, err)
	}
	return nil
}

// Release drops the claim so Stripe's next retry is processed.
func (g *EventGuard) Release(ctx context.Context, eventID string) error {
	key, err := g.key(eventID)
	if err != nil {
		return err
	}
	return g.store.Del(ctx, key)
}
