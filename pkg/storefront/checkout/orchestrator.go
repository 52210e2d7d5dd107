// Package checkout turns the storefront cart into an order intent and hands
// the buyer to the hosted payment page.
package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	submission "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
	"github.com/google/uuid"
)

// ErrNoRedirect is returned when the API accepts the order but sends no payment URL.
var ErrNoRedirect = errors.New("checkout: no payment url returned")

// API submits the order intent.
type API interface {
	Checkout(ctx context.Context, req storefront.CheckoutRequest, idempotencyKey string) (*storefront.CheckoutRedirect, error)
}

// CartSource loads the cart being checked out.
type CartSource interface {
	Fetch(ctx context.Context) (cart.Cart, error)
}

// Redirector sends the buyer to the payment page.
type Redirector interface {
	Redirect(ctx context.Context, url string) error
}

// Details is what the buyer fills in on the checkout form.
type Details struct {
	Billing       types.Address
	Shipping      types.Address
	ContactNumber string
}

// Quote is the cart with its computed totals.
type Quote struct {
	Cart   cart.Cart
	Totals pricing.Totals
}

type Orchestrator struct {
	api      API
	carts    CartSource
	rules    pricing.Rules
	redirect Redirector
	logg     *logger.Logger

	mu      sync.Mutex
	attempt attempt
}

// attempt is the idempotency key reused while the same order intent is
// resubmitted.
type attempt struct {
	fingerprint string
	key         string
}

func NewOrchestrator(api API, carts CartSource, rules pricing.Rules, redirect Redirector, logg *logger.Logger) *Orchestrator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Orchestrator{api: api, carts: carts, rules: rules, redirect: redirect, logg: logg}
}

// Quote reads the cart and prices it.
func (o *Orchestrator) Quote(ctx context.Context) (Quote, error) {
	c, err := o.carts.Fetch(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("load cart: %w", err)
	}
	return Quote{Cart: c, Totals: o.rules.Compute(cart.Lines(c.Items))}, nil
}

// Submit validates the form, submits the order intent and redirects. A
// missing URL is reported; the submission is not retried. Resubmitting the
// same intent after a failure reuses its idempotency key.
func (o *Orchestrator) Submit(ctx context.Context, d Details) (*storefront.CheckoutRedirect, error) {
	q, err := o.Quote(ctx)
	if err != nil {
		return nil, err
	}
	if err := submission.Validate(submission.Submission{
		Billing:       d.Billing,
		Shipping:      d.Shipping,
		ContactNumber: d.ContactNumber,
		ItemCount:     len(q.Cart.Items),
	}); err != nil {
		return nil, err
	}

	req := storefront.CheckoutRequest{
		Billing:       d.Billing,
		Shipping:      d.Shipping,
		ContactNumber: d.ContactNumber,
		CartItems:     make([]storefront.CheckoutLine, 0, len(q.Cart.Items)),
		TotalAmount:   pricing.Float(q.Totals.Total),
	}
	for _, it := range q.Cart.Items {
		req.CartItems = append(req.CartItems, storefront.CheckoutLine{Product: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}

	key, err := o.keyFor(req)
	if err != nil {
		return nil, err
	}
	ctx = o.logg.WithField(ctx, "idempotency_key", key)
	res, err := o.api.Checkout(ctx, req, key)
	if err != nil {
		o.logg.Error(ctx, "checkout submission failed", err)
		return nil, err
	}
	o.forget(key)
	if res == nil || res.URL == "" {
		o.logg.Error(ctx, "checkout submission failed", ErrNoRedirect)
		return nil, ErrNoRedirect
	}
	o.logg.Info(o.logg.WithField(ctx, "order_id", res.OrderID), "redirecting to payment")
	if err := o.redirect.Redirect(ctx, res.URL); err != nil {
		return res, fmt.Errorf("redirect: %w", err)
	}
	return res, nil
}

// keyFor returns the pending key when req matches the last failed submission,
// otherwise a fresh one.
func (o *Orchestrator) keyFor(req storefront.CheckoutRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode order intent: %w", err)
	}
	sum := sha256.Sum256(raw)
	fingerprint := hex.EncodeToString(sum[:])

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attempt.fingerprint != fingerprint {
		o.attempt = attempt{fingerprint: fingerprint, key: uuid.NewString()}
	}
	return o.attempt.key, nil
}

func (o *Orchestrator) forget(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attempt.key == key {
		o.attempt = attempt{}
	}
}
