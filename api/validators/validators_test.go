package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"required,oneof=increase decrease delete"`
}

func TestDecodeJSONBodyReportsFieldNames(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","action":"grow"}`))
	err := DecodeJSONBody(httptest.NewRecorder(), r, &sample{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["action"] != "must be one of: increase decrease delete" {
		t.Fatalf("unexpected action detail %q", details["action"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","action":"delete","extra":1}`))
	if err := DecodeJSONBody(httptest.NewRecorder(), r, &sample{}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&cursor=abc", nil)
	params, err := ParsePagination(r)
	if err != nil || params.Limit != 5 || params.Cursor != "abc" {
		t.Fatalf("unexpected %+v %v", params, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	params, _ = ParsePagination(r)
	if params.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit, got %d", params.Limit)
	}

	r = httptest.NewRequest(http.MethodGet, "/?limit=1000", nil)
	if _, err := ParsePagination(r); err == nil {
		t.Fatalf("expected out of range limit rejected")
	}
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?featured=true&bad=maybe", nil)
	v, err := ParseQueryBool(r, "featured")
	if err != nil || v == nil || !*v {
		t.Fatalf("unexpected %v %v", v, err)
	}
	if v, _ := ParseQueryBool(r, "missing"); v != nil {
		t.Fatalf("expected nil for missing key")
	}
	if _, err := ParseQueryBool(r, "bad"); err == nil {
		t.Fatalf("expected error for invalid bool")
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	got, err := ParseUUIDParam(r, "id")
	if err != nil || got != id {
		t.Fatalf("unexpected %v %v", got, err)
	}

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "not-a-uuid")
	if _, err := ParseUUIDParam(r, "id"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  rosés  ", 4); got != "rosé" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" tulip ", 0); got != "tulip" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	type named struct {
		Name string `json:"name" validate:"required,notblank"`
	}
	err := ValidateStruct(&named{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := typed.Details().(map[string]string)["name"]; got != "is required" {
		t.Fatalf("unexpected detail %q", got)
	}
	if err := ValidateStruct(&named{Name: "Rose"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
