package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
)

type countingHandler struct {
	calls  int
	status int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.calls++
	status := h.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"success":true,"url":"https://pay.example/` + uuid.NewString() + `"}`))
}

func checkoutRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req.WithContext(WithIdentity(req.Context(), uuid.MustParse("2b1f7f0e-3c55-4a0b-9d55-7d1b0f5e9a11"), "customer", "", "jti"))
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	_, store := newTestRedis(t)
	next := &countingHandler{}
	handler := Idempotency(store, IdempotencyPolicy{TTL: CheckoutIdempotencyTTL, Required: true}, nil)(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("key-1", `{"totalAmount":10}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest("key-1", `{"totalAmount":10}`))

	if next.calls != 1 {
		t.Fatalf("expected one execution, got %d", next.calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay differs: %s vs %s", first.Body.String(), second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	_, store := newTestRedis(t)
	next := &countingHandler{}
	handler := Idempotency(store, IdempotencyPolicy{Required: true}, nil)(next)

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("key-2", `{"totalAmount":10}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest("key-2", `{"totalAmount":99}`))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestIdempotencyRequiredHeader(t *testing.T) {
	_, store := newTestRedis(t)
	next := &countingHandler{}

	required := Idempotency(store, IdempotencyPolicy{Required: true}, nil)(next)
	rec := httptest.NewRecorder()
	required.ServeHTTP(rec, checkoutRequest("", `{}`))
	if rec.Code != http.StatusBadRequest || next.calls != 0 {
		t.Fatalf("expected 400 without calling handler, got %d (%d calls)", rec.Code, next.calls)
	}

	optional := Idempotency(store, IdempotencyPolicy{}, nil)(next)
	rec = httptest.NewRecorder()
	optional.ServeHTTP(rec, checkoutRequest("", `{}`))
	if rec.Code != http.StatusOK || next.calls != 1 {
		t.Fatalf("optional policy should pass through, got %d (%d calls)", rec.Code, next.calls)
	}
}

func TestIdempotencyDoesNotStoreServerErrors(t *testing.T) {
	_, store := newTestRedis(t)
	next := &countingHandler{status: http.StatusServiceUnavailable}
	handler := Idempotency(store, IdempotencyPolicy{Required: true}, nil)(next)

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("key-3", `{}`))
	next.status = http.StatusOK
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest("key-3", `{}`))

	if next.calls != 2 || rec.Code != http.StatusOK {
		t.Fatalf("expected retry after 5xx, got %d calls, status %d", next.calls, rec.Code)
	}
}
