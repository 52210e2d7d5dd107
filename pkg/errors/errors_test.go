package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeMetadata(t *testing.T) {
	cases := map[Code]Metadata{
		CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true},
		CodeUnauthorized:  {HTTPStatus: http.StatusUnauthorized, PublicMessage: "unauthorized"},
		CodeForbidden:     {HTTPStatus: http.StatusForbidden, PublicMessage: "access denied"},
		CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"},
		CodeConflict:      {HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected"},
		CodeStateConflict: {HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "state transition disallowed", DetailsAllowed: true},
		CodeIdempotency:   {HTTPStatus: http.StatusConflict, PublicMessage: "idempotency key reused", DetailsAllowed: true},
		CodeRateLimit:     {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded"},
		CodeInternal:      {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error", Retryable: true},
		CodeDependency:    {HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "dependency unavailable", Retryable: true, DetailsAllowed: true},
	}
	for code, want := range cases {
		assert.Equal(t, want, MetadataFor(code), code)
	}
	assert.Equal(t, CodeInternal.Metadata(), Code("SOMETHING_UNKNOWN").Metadata())
}

func TestCodeForStatusRoundTripsKnownStatuses(t *testing.T) {
	for _, code := range []Code{CodeValidation, CodeUnauthorized, CodeForbidden, CodeNotFound, CodeStateConflict, CodeRateLimit, CodeDependency, CodeInternal} {
		assert.Equal(t, code, CodeForStatus(code.Metadata().HTTPStatus))
	}
	assert.Equal(t, CodeDependency, CodeForStatus(http.StatusBadGateway))
	assert.Equal(t, CodeInternal, CodeForStatus(http.StatusTeapot))
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	assert.Equal(t, CodeValidation, base.Code())
	assert.Equal(t, "missing foo", base.Message())
	assert.Nil(t, base.Details())
	assert.Equal(t, "VALIDATION_ERROR: missing foo", base.Error())

	assert.Same(t, base, base.WithDetails(map[string]any{"field": "foo"}))
	assert.NotNil(t, base.Details())

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "save")
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "CONFLICT: save: boom", wrapped.Error())

	assert.Equal(t, "product p-1 not found", Newf(CodeNotFound, "product %s not found", "p-1").Message())
}

func TestNilErrorIsSafe(t *testing.T) {
	var e *Error
	assert.Equal(t, CodeInternal, e.Code())
	assert.Empty(t, e.Message())
	assert.Empty(t, e.Error())
	assert.Nil(t, e.WithDetails("x"))
	assert.NoError(t, e.Unwrap())
}

func TestAsAndIsWalkTheChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeForbidden, "no entry"))
	typed := As(err)
	require.NotNil(t, typed)
	assert.Equal(t, CodeForbidden, typed.Code())
	assert.True(t, Is(err, CodeForbidden))
	assert.False(t, Is(err, CodeNotFound))
	assert.False(t, Is(stdErrors.New("plain"), CodeInternal))
	assert.Nil(t, As(nil))
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("disk full"), "save order")
	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}
	if _, ok := d.Fields()["sql_state"]; ok {
		t.Fatalf("did not expect sql fields for a plain error")
	}
}

func TestDumpDatabaseDetails(t *testing.T) {
	pgErr := &pq.Error{Code: "23505", Constraint: "users_email_key", Table: "users"}
	d := Dump(Wrap(CodeConflict, pgErr, "create user"))
	if d.SQLState != "23505" || d.Constraint != "users_email_key" || d.Table != "users" {
		t.Fatalf("unexpected postgres details %+v", d)
	}

	d = Dump(stdErrors.New("UNIQUE constraint failed: wishlist_items.user_id, wishlist_items.product_id"))
	if d.Table != "wishlist_items" {
		t.Fatalf("expected wishlist_items table, got %q", d.Table)
	}
	if got := d.Fields()["sql_state"]; got != "sqlite_unique" {
		t.Fatalf("unexpected sql_state %v", got)
	}
}
