package stripe

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// MetadataOrderID links a hosted checkout session back to our order.
const MetadataOrderID = "order_id"

// LineItem is one priced row on the hosted payment page.
type LineItem struct {
	Name        string
	ImageURL    string
	UnitAmount  int64
	Quantity    int64
	Description string
}

// CheckoutSessionInput describes a one-off payment session.
type CheckoutSessionInput struct {
	OrderID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	LineItems     []LineItem
}

// CheckoutSession is the subset of the Stripe object the shop needs.
type CheckoutSession struct {
	ID  string
	URL string
}

type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type sessionAPI struct{}

func (sessionAPI) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// CreateCheckoutSession opens a hosted payment page for the order.
func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error) {
	if c == nil || c.sessions == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, errors.New("order id is required")
	}
	if len(input.LineItems) == 0 {
		return nil, errors.New("at least one line item is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		ClientReferenceID: stripe.String(input.OrderID),
	}
	params.Context = ctx
	if email := strings.TrimSpace(input.CustomerEmail); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata(MetadataOrderID, input.OrderID)

	for _, item := range input.LineItems {
		if item.Quantity <= 0 || item.UnitAmount < 0 {
			return nil, errors.New("line items need a positive quantity and non-negative amount")
		}
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if strings.HasPrefix(item.ImageURL, "https://") {
			product.Images = []*string{stripe.String(item.ImageURL)}
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(c.currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: product,
			},
		})
	}

	created, err := c.sessions.New(params)
	if err != nil {
		return nil, err
	}
	if created == nil || created.URL == "" {
		return nil, errors.New("stripe returned no checkout url")
	}
	return &CheckoutSession{ID: created.ID, URL: created.URL}, nil
}
