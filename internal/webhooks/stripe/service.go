package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/orders"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/stripe/stripe-go/v84"
)

type orderPayments interface {
	MarkPaid(ctx context.Context, stripeSessionID string) (*orders.OrderDTO, error)
	CancelBySession(ctx context.Context, stripeSessionID string) (*orders.OrderDTO, error)
}

type ServiceParams struct {
	Orders orderPayments
	Logger *logger.Logger
}

// Service applies hosted checkout events to orders.
type Service struct {
	orders orderPayments
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{orders: params.Orders, logg: logg}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionExpired,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
	default:
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
	}
	if session.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"stripe_event":   string(event.Type),
		"stripe_session": session.ID,
	})

	var err error
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		// Delayed payment methods complete the session unpaid and settle later.
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			s.logg.Info(ctx, "checkout completed awaiting async payment")
			return nil
		}
		_, err = s.orders.MarkPaid(ctx, session.ID)
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		_, err = s.orders.MarkPaid(ctx, session.ID)
	default:
		_, err = s.orders.CancelBySession(ctx, session.ID)
	}
	return s.settle(ctx, err)
}

// settle acknowledges events that can never succeed so Stripe stops retrying them.
func (s *Service) settle(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case pkgerrors.Is(err, pkgerrors.CodeNotFound):
		s.logg.Warn(ctx, "checkout session has no order")
		return nil
	case pkgerrors.Is(err, pkgerrors.CodeStateConflict):
		s.logg.Error(ctx, "checkout event conflicts with order state", err)
		return nil
	default:
		return err
	}
}
