// Package syncer moves guest cart and wishlist entries onto the server
// account after login.
package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/wishlist"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Kind names the collection a failed item came from.
type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
)

// API is what the sync needs from the storefront client.
type API interface {
	AddCartItem(ctx context.Context, productID string, quantity int) error
	GetWishlist(ctx context.Context) ([]storefront.ProductSnapshot, error)
	ToggleWishlist(ctx context.Context, productID string) error
}

// Failure is a guest item that did not reach the server. Its local copy is
// gone once the sync finishes.
type Failure struct {
	Kind      Kind
	ProductID string
	Quantity  int
	Err       error
}

// Report summarizes one sync run.
type Report struct {
	CartAdded     int
	WishlistAdded int
	Skipped       int
	Failed        []Failure
}

// Err combines every per-item failure, or nil.
func (r Report) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("%s %s: %w", f.Kind, f.ProductID, f.Err))
	}
	return err
}

// Syncer pushes guest state to the server.
type Syncer struct {
	api         API
	guest       *gueststore.Adapter
	cart        *cart.Service
	wishlist    *wishlist.Service
	logg        *logger.Logger
	concurrency int
}

type Option func(*Syncer)

// WithConcurrency bounds how many add requests run at once.
func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(api API, guest *gueststore.Adapter, carts *cart.Service, wishlists *wishlist.Service, logg *logger.Logger, opts ...Option) *Syncer {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Syncer{api: api, guest: guest, cart: carts, wishlist: wishlists, logg: logg, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync adds each guest item to the account, clears guest storage whatever
// the outcome, then refetches the authoritative cart and wishlist.
func (s *Syncer) Sync(ctx context.Context) Report {
	ctx = s.logg.WithComponent(ctx, "sync")
	var (
		mu     sync.Mutex
		report Report
	)
	fail := func(f Failure) {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"kind": string(f.Kind), "product_id": f.ProductID}), "guest item sync failed", f.Err)
		mu.Lock()
		report.Failed = append(report.Failed, f)
		mu.Unlock()
	}

	items := s.guest.ReadCart()
	wanted := s.guest.ReadWishlist()

	if len(items) > 0 || len(wanted) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)

		for _, it := range items {
			g.Go(func() error {
				if pending, err := s.addLine(gctx, it.ProductID, it.Quantity); err != nil {
					fail(Failure{Kind: KindCart, ProductID: it.ProductID, Quantity: pending, Err: err})
					return nil
				}
				mu.Lock()
				report.CartAdded++
				mu.Unlock()
				return nil
			})
		}

		if len(wanted) > 0 {
			existing, err := s.api.GetWishlist(ctx)
			if err != nil {
				for _, w := range wanted {
					fail(Failure{Kind: KindWishlist, ProductID: w.ID, Err: err})
				}
			} else {
				onServer := make(map[string]struct{}, len(existing))
				for _, e := range existing {
					onServer[e.ID] = struct{}{}
				}
				for _, w := range wanted {
					if _, ok := onServer[w.ID]; ok {
						mu.Lock()
						report.Skipped++
						mu.Unlock()
						continue
					}
					g.Go(func() error {
						if err := s.api.ToggleWishlist(gctx, w.ID); err != nil {
							fail(Failure{Kind: KindWishlist, ProductID: w.ID, Err: err})
							return nil
						}
						mu.Lock()
						report.WishlistAdded++
						mu.Unlock()
						return nil
					})
				}
			}
		}
		_ = g.Wait()

		if err := multierr.Combine(s.guest.ClearCart(), s.guest.ClearWishlist()); err != nil {
			s.logg.Error(ctx, "clearing guest storage failed", err)
		}
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"cart_added":     report.CartAdded,
			"wishlist_added": report.WishlistAdded,
			"failed":         len(report.Failed),
		}), "guest state synced")
	}

	if s.cart != nil {
		_, _ = s.cart.Fetch(ctx)
	}
	if s.wishlist != nil {
		_, _ = s.wishlist.Fetch(ctx)
	}
	return report
}

// addLine sends quantity in requests of at most MaxAddQuantity. On failure it
// returns the quantity that did not reach the server.
func (s *Syncer) addLine(ctx context.Context, productID string, quantity int) (int, error) {
	for pending := quantity; pending > 0; {
		step := min(pending, storefront.MaxAddQuantity)
		if err := s.api.AddCartItem(ctx, productID, step); err != nil {
			return pending, err
		}
		pending -= step
	}
	return 0, nil
}
