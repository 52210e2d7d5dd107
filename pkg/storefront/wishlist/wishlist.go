// Package wishlist is the storefront wishlist client. Guests keep product
// snapshots locally; authenticated users toggle through the API.
package wishlist

import (
	"context"
	"sync"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"golang.org/x/sync/singleflight"
)

// API is the subset of the storefront client the remote path calls.
type API interface {
	GetWishlist(ctx context.Context) ([]storefront.ProductSnapshot, error)
	ToggleWishlist(ctx context.Context, productID string) error
}

// Authenticator reports whether the session is signed in.
type Authenticator interface {
	Authenticated() bool
}

// Service holds the loaded wishlist and serializes toggles per product.
type Service struct {
	api   API
	guest *gueststore.Adapter
	auth  Authenticator
	logg  *logger.Logger

	inflight singleflight.Group

	mu    sync.RWMutex
	items []storefront.ProductSnapshot
}

func NewService(api API, guest *gueststore.Adapter, auth Authenticator, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{api: api, guest: guest, auth: auth, logg: logg, items: []storefront.ProductSnapshot{}}
}

func (s *Service) authenticated() bool {
	return s.auth != nil && s.auth.Authenticated()
}

// Items returns the loaded collection.
func (s *Service) Items() []storefront.ProductSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storefront.ProductSnapshot, len(s.items))
	copy(out, s.items)
	return out
}

// Fetch loads the wishlist. A failed fetch keeps the loaded collection.
func (s *Service) Fetch(ctx context.Context) ([]storefront.ProductSnapshot, error) {
	var (
		items []storefront.ProductSnapshot
		err   error
	)
	if s.authenticated() {
		items, err = s.api.GetWishlist(ctx)
	} else {
		items = s.guest.ReadWishlist()
	}
	if err != nil {
		s.logg.Error(ctx, "wishlist fetch failed", err)
		return s.Items(), err
	}
	if items == nil {
		items = []storefront.ProductSnapshot{}
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return s.Items(), nil
}

// IsInWishlist checks the loaded collection only.
func (s *Service) IsInWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, productID) >= 0
}

// Toggle flips membership of product. Concurrent toggles for the same id
// share one in-flight operation and observe its result.
func (s *Service) Toggle(ctx context.Context, product storefront.ProductSnapshot) (bool, error) {
	if product.ID == "" {
		return false, storefront.NewValidationError("product id required")
	}
	v, err, _ := s.inflight.Do(product.ID, func() (any, error) {
		if s.authenticated() {
			return s.toggleRemote(ctx, product.ID)
		}
		return s.toggleGuest(product)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *Service) toggleGuest(product storefront.ProductSnapshot) (bool, error) {
	items := s.guest.ReadWishlist()
	added := false
	if i := indexOf(items, product.ID); i >= 0 {
		items = append(items[:i], items[i+1:]...)
	} else {
		items = append(items, product)
		added = true
	}
	if err := s.guest.WriteWishlist(items); err != nil {
		return false, err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return added, nil
}

func (s *Service) toggleRemote(ctx context.Context, productID string) (bool, error) {
	added := !s.IsInWishlist(productID)
	if err := s.api.ToggleWishlist(ctx, productID); err != nil {
		return false, err
	}
	if _, err := s.Fetch(ctx); err != nil {
		return added, nil
	}
	return s.IsInWishlist(productID), nil
}

func indexOf(items []storefront.ProductSnapshot, productID string) int {
	for i, it := range items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}
