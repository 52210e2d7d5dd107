package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/checkout"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
)

type stubCheckout struct {
	buyer  checkout.Buyer
	req    checkout.Request
	result *checkout.Result
	err    error
}

func (s *stubCheckout) Execute(_ context.Context, buyer checkout.Buyer, req checkout.Request) (*checkout.Result, error) {
	s.buyer = buyer
	s.req = req
	return s.result, s.err
}

const checkoutBody = `{
	"billing":{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"555","address":"1 Main","city":"Dubai","state":"DU","postalCode":"00000","country":"AE"},
	"shipping":{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"555","address":"1 Main","city":"Dubai","state":"DU","postalCode":"00000","country":"AE"},
	"contactNumber":"555",
	"cartItems":[{"product":"p1","quantity":2,"price":25}],
	"totalAmount":72.5
}`

func TestCheckoutReturnsRedirect(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckout{result: &checkout.Result{URL: "https://checkout.stripe.com/c/pay/cs_test", OrderID: orderID}}
	userID := uuid.New()
	rec := serve(Checkout(svc, nil), asUser(newRequest(http.MethodPost, "/api/v1/checkout", checkoutBody), userID, "customer"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.URL != svc.result.URL || env.OrderID != orderID.String() {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if svc.buyer.UserID != userID || svc.buyer.Email != "shopper@example.com" {
		t.Fatalf("unexpected buyer %+v", svc.buyer)
	}
	if len(svc.req.CartItems) != 1 || svc.req.TotalAmount != 72.5 {
		t.Fatalf("unexpected request %+v", svc.req)
	}
}

func TestCheckoutSurfacesFailureMessage(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeValidation, "cart has changed")}
	rec := serve(Checkout(svc, nil), asUser(newRequest(http.MethodPost, "/api/v1/checkout", checkoutBody), uuid.New(), "customer"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Message != "cart has changed" || env.URL != "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
