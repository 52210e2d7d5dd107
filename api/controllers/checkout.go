package controllers

import (
	"context"
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/middleware"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/validators"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
)

type checkoutExecutor interface {
	Execute(ctx context.Context, buyer checkout.Buyer, req checkout.Request) (*checkout.Result, error)
}

// Checkout turns the caller's cart into a pending order and returns the
// hosted payment page URL.
func Checkout(svc checkoutExecutor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body checkout.Request
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), checkout.Buyer{
			UserID: userID,
			Email:  middleware.EmailFromContext(r.Context()),
		}, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRedirect(w, result.URL, result.OrderID.String())
	}
}
