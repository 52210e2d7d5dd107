// Package cart is the storefront cart client. Guests keep their cart in
// local storage; authenticated users go through the API. Both paths expose
// the same absolute-quantity contract.
package cart

import (
	"context"
	"sync"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/shopspring/decimal"
)

// Cart is the displayed cart.
type Cart struct {
	Items []storefront.CartLineItem
	Total float64
}

// API is the subset of the storefront client the remote path calls.
type API interface {
	GetCart(ctx context.Context) ([]storefront.ServerCartItem, error)
	AddCartItem(ctx context.Context, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, cartItemID string, action storefront.CartAction) (*storefront.CartMutation, error)
}

// Authenticator reports whether the session is signed in.
type Authenticator interface {
	Authenticated() bool
}

type backend interface {
	fetch(ctx context.Context) ([]storefront.CartLineItem, error)
	add(ctx context.Context, productID string, quantity int, snapshot *storefront.ProductSnapshot) error
	setQuantity(ctx context.Context, cartItemID string, quantity int) error
	remove(ctx context.Context, cartItemID string) error
}

// Service routes each call to the guest or remote backend based on the session.
type Service struct {
	auth   Authenticator
	guest  backend
	remote backend
	logg   *logger.Logger

	mu      sync.RWMutex
	current Cart
}

func NewService(api API, guest *gueststore.Adapter, auth Authenticator, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		auth:    auth,
		guest:   &guestBackend{store: guest},
		remote:  &remoteBackend{api: api},
		logg:    logg,
		current: Cart{Items: []storefront.CartLineItem{}},
	}
}

func (s *Service) backend() backend {
	if s.auth != nil && s.auth.Authenticated() {
		return s.remote
	}
	return s.guest
}

// Current returns the last successfully fetched cart.
func (s *Service) Current() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]storefront.CartLineItem, len(s.current.Items))
	copy(items, s.current.Items)
	return Cart{Items: items, Total: s.current.Total}
}

// Fetch loads the cart. On failure the error is returned and the displayed
// cart is left as it was.
func (s *Service) Fetch(ctx context.Context) (Cart, error) {
	items, err := s.backend().fetch(ctx)
	if err != nil {
		s.logg.Error(ctx, "cart fetch failed", err)
		return s.Current(), err
	}
	cart := Cart{Items: items, Total: Total(items)}
	s.mu.Lock()
	s.current = cart
	s.mu.Unlock()
	return s.Current(), nil
}

// Add adds quantity of a product (1 when quantity is 0). Guests must pass a
// snapshot; authenticated calls send only the id.
func (s *Service) Add(ctx context.Context, productID string, quantity int, snapshot *storefront.ProductSnapshot) (Cart, error) {
	if productID == "" {
		return s.Current(), storefront.NewValidationError("product id required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return s.Current(), storefront.NewValidationError("quantity must be at least 1")
	}
	if quantity > storefront.MaxAddQuantity {
		return s.Current(), storefront.NewValidationError("quantity cannot exceed %d", storefront.MaxAddQuantity)
	}
	if err := s.backend().add(ctx, productID, quantity, snapshot); err != nil {
		return s.Current(), err
	}
	return s.refresh(ctx), nil
}

// UpdateQuantity sets a line to an absolute quantity. Values below 1 are
// rejected and leave the line unchanged; use Remove to drop a line.
func (s *Service) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) (Cart, error) {
	if quantity < 1 {
		return s.Current(), storefront.NewValidationError("quantity cannot be less than 1")
	}
	if err := s.backend().setQuantity(ctx, cartItemID, quantity); err != nil {
		return s.Current(), err
	}
	return s.refresh(ctx), nil
}

// Remove drops a line. Removing an absent line succeeds.
func (s *Service) Remove(ctx context.Context, cartItemID string) (Cart, error) {
	if err := s.backend().remove(ctx, cartItemID); err != nil {
		return s.Current(), err
	}
	return s.refresh(ctx), nil
}

func (s *Service) refresh(ctx context.Context) Cart {
	cart, err := s.Fetch(ctx)
	if err != nil {
		return s.Current()
	}
	return cart
}

// Total is the sum of price times quantity, rounded to cents.
func Total(items []storefront.CartLineItem) float64 {
	total, _ := pricing.Subtotal(Lines(items)).Round(2).Float64()
	return total
}

// Lines converts cart items to pricing lines.
func Lines(items []storefront.CartLineItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: decimal.NewFromFloat(it.Price), Quantity: it.Quantity})
	}
	return lines
}
