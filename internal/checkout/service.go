package checkout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/orders"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/stripe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, input stripe.CheckoutSessionInput) (*stripe.CheckoutSession, error)
}

// Service turns the buyer's server cart into a pending order and a payment page.
type Service interface {
	Execute(ctx context.Context, buyer Buyer, req Request) (*Result, error)
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Tx         txRunner
	Cart       cartReader
	Orders     orders.Repository
	Payments   sessionCreator
	Rules      pricing.Rules
	Currency   string
	SuccessURL string
	CancelURL  string
	Logger     *logger.Logger
}

type service struct {
	tx       txRunner
	cart     cartReader
	orders   orders.Repository
	payments sessionCreator
	rules    pricing.Rules
	currency string
	success  string
	cancel   string
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payment session creator required")
	}
	if params.SuccessURL == "" || params.CancelURL == "" {
		return nil, fmt.Errorf("checkout success and cancel urls required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	return &service{
		tx:       params.Tx,
		cart:     params.Cart,
		orders:   params.Orders,
		payments: params.Payments,
		rules:    params.Rules,
		currency: currency,
		success:  params.SuccessURL,
		cancel:   params.CancelURL,
		logg:     logg,
	}, nil
}

func (s *service) Execute(ctx context.Context, buyer Buyer, req Request) (*Result, error) {
	if buyer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized")
	}
	if err := checkout.Validate(checkout.Submission{
		Billing:       req.Billing,
		Shipping:      req.Shipping,
		ContactNumber: req.ContactNumber,
		ItemCount:     len(req.CartItems),
	}); err != nil {
		return nil, err
	}

	rows, err := s.cart.ListForUser(ctx, buyer.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order, err := s.buildOrder(buyer, req, rows)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orders.WithTx(tx).Create(ctx, order)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	email := req.Billing.Email
	if email == "" {
		email = buyer.Email
	}
	session, err := s.payments.CreateCheckoutSession(ctx, stripe.CheckoutSessionInput{
		OrderID:       order.ID.String(),
		CustomerEmail: email,
		SuccessURL:    s.success,
		CancelURL:     s.cancel,
		LineItems:     stripeLineItems(order),
	})
	if err != nil {
		s.abandon(ctx, order.ID, err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not start payment")
	}

	if err := s.orders.SetStripeSession(ctx, order.ID, session.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link payment session")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"total":    order.Total.StringFixed(2),
	})
	s.logg.Info(logCtx, "checkout session created")
	return &Result{URL: session.URL, OrderID: order.ID}, nil
}

// buildOrder prices the server cart and checks it against what the client saw.
func (s *service) buildOrder(buyer Buyer, req Request, rows []models.CartItem) (*models.Order, error) {
	clientLines := make(map[string]CartLine, len(req.CartItems))
	for _, line := range req.CartItems {
		clientLines[line.Product] = line
	}

	var (
		lines   []pricing.Line
		items   []models.OrderItem
		changed []string
	)
	for _, row := range rows {
		product := row.Product
		if !product.IsActive {
			changed = append(changed, product.ID.String())
			continue
		}
		unit := product.EffectivePrice()
		client, ok := clientLines[product.ID.String()]
		if !ok || client.Quantity != row.Quantity || !decimal.NewFromFloat(client.Price).Round(2).Equal(unit.Round(2)) {
			changed = append(changed, product.ID.String())
		}
		delete(clientLines, product.ID.String())

		lines = append(lines, pricing.Line{UnitPrice: unit, Quantity: row.Quantity})
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			UnitPrice: unit,
			Quantity:  row.Quantity,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(row.Quantity))),
		})
	}
	for id := range clientLines {
		changed = append(changed, id)
	}

	totals := s.rules.Compute(lines)
	clientTotal := decimal.NewFromFloat(req.TotalAmount).Round(2)
	if len(changed) > 0 || len(items) == 0 || !clientTotal.Equal(totals.Total.Round(2)) {
		sort.Strings(changed)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart has changed").WithDetails(MismatchDetail{
			ServerTotal: pricing.Float(totals.Total),
			ClientTotal: req.TotalAmount,
			Products:    changed,
		})
	}

	return &models.Order{
		UserID:          buyer.UserID,
		Status:          enums.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Currency:        s.currency,
		ContactNumber:   req.ContactNumber,
		BillingAddress:  req.Billing,
		ShippingAddress: req.Shipping,
		Items:           items,
	}, nil
}

// abandon cancels an order whose payment session could not be opened.
func (s *service) abandon(ctx context.Context, orderID uuid.UUID, cause error) {
	_, err := s.orders.UpdateStatus(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusCancelled, map[string]any{
		"cancelled_at": time.Now().UTC(),
	})
	logCtx := s.logg.WithFields(ctx, map[string]any{"order_id": orderID.String()})
	s.logg.Error(logCtx, "payment session failed", cause)
	if err != nil {
		s.logg.Error(logCtx, "cancel abandoned order", err)
	}
}

func stripeLineItems(order *models.Order) []stripe.LineItem {
	out := make([]stripe.LineItem, 0, len(order.Items)+2)
	for _, item := range order.Items {
		out = append(out, stripe.LineItem{
			Name:       item.Name,
			ImageURL:   item.Image,
			UnitAmount: pricing.ToCents(item.UnitPrice),
			Quantity:   int64(item.Quantity),
		})
	}
	if order.ShippingFee.IsPositive() {
		out = append(out, stripe.LineItem{Name: "Shipping", UnitAmount: pricing.ToCents(order.ShippingFee), Quantity: 1})
	}
	if order.Tax.IsPositive() {
		out = append(out, stripe.LineItem{Name: "Tax", UnitAmount: pricing.ToCents(order.Tax), Quantity: 1})
	}
	return out
}
