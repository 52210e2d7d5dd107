package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"

	DefaultIdempotencyTTL  = 24 * time.Hour
	CheckoutIdempotencyTTL = 7 * 24 * time.Hour
)

// IdempotencyPolicy configures replay protection for one route.
type IdempotencyPolicy struct {
	TTL time.Duration
	// Required rejects requests without the header.
	Required bool
}

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type replayCache struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func (c replayCache) lookup(ctx context.Context, key string) (*storedResponse, error) {
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp storedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, nil
}

// save keeps the first stored response if two retries race.
func (c replayCache) save(ctx context.Context, key string, resp storedResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = c.store.SetNX(ctx, key, string(payload), c.ttl)
	return err
}

// Idempotency replays the stored response when a client retries with the same
// Idempotency-Key. Keys are scoped to the caller and route. Reusing a key with
// a different body is a conflict. Server errors are never stored.
func Idempotency(store redis.IdempotencyStore, policy IdempotencyPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	cache := replayCache{store: store, ttl: policy.TTL}
	if cache.ttl <= 0 {
		cache.ttl = DefaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if clientKey == "" {
				if policy.Required {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyHeader+" header required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintBody(body)
			key := store.IdempotencyKey(callerScope(r), clientKey)

			previous, err := cache.lookup(ctx, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if previous != nil {
				if previous.Fingerprint != fingerprint {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				writeReplay(w, previous)
				return
			}

			rec := newRecorder(w, true)
			next.ServeHTTP(rec, r)
			if rec.code() >= http.StatusInternalServerError {
				return
			}
			err = cache.save(ctx, key, storedResponse{
				Fingerprint: fingerprint,
				Status:      rec.code(),
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.capture.Bytes(),
			})
			if err != nil && logg != nil {
				logg.Error(ctx, "idempotency.save_failed", err)
			}
		})
	}
}

// callerScope is user|method|path, with "anon" for guests.
func callerScope(r *http.Request) string {
	user := UserIDFromContext(r.Context())
	if user == "" {
		user = "anon"
	}
	return user + "|" + r.Method + "|" + r.URL.Path
}

func writeReplay(w http.ResponseWriter, resp *storedResponse) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func fingerprintBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
