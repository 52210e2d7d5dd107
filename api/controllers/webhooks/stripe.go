// Package webhooks receives payment provider callbacks.
package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

// Stripe events are small; anything larger is not a checkout event.
const maxWebhookBytes = 64 << 10

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeEventGuard interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Complete(ctx context.Context, eventID string) error
	Release(ctx context.Context, eventID string) error
}

type stripeClient interface {
	SigningSecret() string
}

type stripeWebhook struct {
	svc    StripeWebhookService
	client stripeClient
	guard  stripeEventGuard
	logg   *logger.Logger
}

// StripeWebhook verifies the Stripe-Signature header and applies each event
// at most once. A failed event is released so Stripe's retry is processed.
func StripeWebhook(svc StripeWebhookService, client stripeClient, guard stripeEventGuard, logg *logger.Logger) http.HandlerFunc {
	h := &stripeWebhook{svc: svc, client: client, guard: guard, logg: logg}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.serve(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func (h *stripeWebhook) serve(r *http.Request) error {
	ctx := r.Context()
	if h.svc == nil || h.client == nil || h.guard == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "stripe webhook not configured")
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing")
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	event, err := webhook.ConstructEvent(payload, signature, h.client.SigningSecret())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "verify signature")
	}

	ctx = h.log(ctx, &event)
	claimed, err := h.guard.Claim(ctx, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim stripe event")
	}
	if !claimed {
		h.debug(ctx, "stripe.webhook.duplicate")
		return nil
	}

	if err := h.svc.HandleEvent(ctx, &event); err != nil {
		if releaseErr := h.guard.Release(ctx, event.ID); releaseErr != nil && h.logg != nil {
			h.logg.Error(ctx, "stripe.webhook.release_failed", releaseErr)
		}
		return err
	}
	if err := h.guard.Complete(ctx, event.ID); err != nil && h.logg != nil {
		h.logg.Error(ctx, "stripe.webhook.complete_failed", err)
	}
	if h.logg != nil {
		h.logg.Info(ctx, "stripe.webhook.processed")
	}
	return nil
}

func (h *stripeWebhook) log(ctx context.Context, event *stripe.Event) context.Context {
	if h.logg == nil {
		return ctx
	}
	return h.logg.WithFields(ctx, map[string]any{"event_id": event.ID, "event_type": string(event.Type)})
}

func (h *stripeWebhook) debug(ctx context.Context, msg string) {
	if h.logg != nil {
		h.logg.Debug(ctx, msg)
	}
}
