package syncer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFlag bool

func (a authFlag) Authenticated() bool { return bool(a) }

// fakeServer backs both the cart and wishlist endpoints.
type fakeServer struct {
	mu       sync.Mutex
	cart     map[string]int
	wishlist map[string]bool
	fail     map[string]bool
	adds     int
	toggles  int
}

func newFakeServer() *fakeServer {
	return &fakeServer{cart: map[string]int{}, wishlist: map[string]bool{}, fail: map[string]bool{}}
}

func (f *fakeServer) AddCartItem(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.fail[productID] {
		return &storefront.APIError{Status: 503, Message: "upstream unavailable"}
	}
	if quantity < 1 || quantity > storefront.MaxAddQuantity {
		return &storefront.APIError{Status: 400, Code: "VALIDATION_ERROR", Message: "quantity out of range"}
	}
	f.cart[productID] += quantity
	return nil
}

func (f *fakeServer) GetCart(context.Context) ([]storefront.ServerCartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storefront.ServerCartItem, 0, len(f.cart))
	for id, qty := range f.cart {
		it := storefront.ServerCartItem{ID: "line-" + id, Quantity: qty}
		it.Product.ID = id
		it.Product.Price = 10
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out, nil
}

func (f *fakeServer) UpdateCartItem(context.Context, string, storefront.CartAction) (*storefront.CartMutation, error) {
	return nil, errors.New("not used")
}

func (f *fakeServer) GetWishlist(context.Context) ([]storefront.ProductSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []storefront.ProductSnapshot{}
	for id := range f.wishlist {
		out = append(out, storefront.ProductSnapshot{ID: id})
	}
	return out, nil
}

func (f *fakeServer) ToggleWishlist(_ context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	if f.wishlist[productID] {
		delete(f.wishlist, productID)
	} else {
		f.wishlist[productID] = true
	}
	return nil
}

func setup(t *testing.T, server *fakeServer) (*Syncer, *gueststore.Adapter, *cart.Service, *wishlist.Service) {
	t.Helper()
	adapter := gueststore.NewAdapter(gueststore.NewMemory(), nil)
	guestCarts := cart.NewService(server, adapter, authFlag(false), nil)
	ctx := context.Background()
	_, err := guestCarts.Add(ctx, "A", 1, &storefront.ProductSnapshot{ID: "A", Price: 10})
	require.NoError(t, err)
	_, err = guestCarts.Add(ctx, "B", 2, &storefront.ProductSnapshot{ID: "B", Price: 10})
	require.NoError(t, err)

	carts := cart.NewService(server, adapter, authFlag(true), nil)
	wishlists := wishlist.NewService(server, adapter, authFlag(true), nil)
	return New(server, adapter, carts, wishlists, nil), adapter, carts, wishlists
}

func TestSyncMovesGuestCartToServer(t *testing.T) {
	server := newFakeServer()
	s, adapter, carts, _ := setup(t, server)

	report := s.Sync(context.Background())

	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.CartAdded)
	assert.Equal(t, 2, server.adds)
	assert.Empty(t, adapter.ReadCart())

	items := carts.Current().Items
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "B", items[1].ProductID)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestSyncClearsStorageEvenWhenAddsFail(t *testing.T) {
	server := newFakeServer()
	server.fail["B"] = true
	s, adapter, carts, _ := setup(t, server)

	report := s.Sync(context.Background())

	require.Len(t, report.Failed, 1)
	assert.Equal(t, KindCart, report.Failed[0].Kind)
	assert.Equal(t, "B", report.Failed[0].ProductID)
	assert.Equal(t, 2, report.Failed[0].Quantity)
	assert.Error(t, report.Err())
	assert.Empty(t, adapter.ReadCart())
	require.Len(t, carts.Current().Items, 1)
}

func TestSyncWishlistSkipsEntriesAlreadyOnServer(t *testing.T) {
	server := newFakeServer()
	server.wishlist["W1"] = true
	s, adapter, _, wishlists := setup(t, server)
	require.NoError(t, adapter.WriteWishlist([]storefront.ProductSnapshot{{ID: "W1"}, {ID: "W2"}}))

	report := s.Sync(context.Background())

	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.WishlistAdded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, server.toggles)
	assert.Empty(t, adapter.ReadWishlist())
	assert.True(t, wishlists.IsInWishlist("W1"))
	assert.True(t, wishlists.IsInWishlist("W2"))
}

func TestSyncWithEmptyGuestStateOnlyFetches(t *testing.T) {
	server := newFakeServer()
	server.cart["Z"] = 3
	adapter := gueststore.NewAdapter(gueststore.NewMemory(), nil)
	carts := cart.NewService(server, adapter, authFlag(true), nil)
	s := New(server, adapter, carts, nil, nil)

	report := s.Sync(context.Background())

	assert.Zero(t, server.adds)
	assert.Zero(t, report.CartAdded)
	require.Len(t, carts.Current().Items, 1)
	assert.Equal(t, 3, carts.Current().Items[0].Quantity)
}

func TestSyncSplitsLargeGuestLines(t *testing.T) {
	server := newFakeServer()
	adapter := gueststore.NewAdapter(gueststore.NewMemory(), nil)
	guestCarts := cart.NewService(server, adapter, authFlag(false), nil)
	ctx := context.Background()
	for range 2 {
		_, err := guestCarts.Add(ctx, "A", 60, &storefront.ProductSnapshot{ID: "A", Price: 10})
		require.NoError(t, err)
	}
	require.Equal(t, 120, adapter.ReadCart()[0].Quantity)

	carts := cart.NewService(server, adapter, authFlag(true), nil)
	report := New(server, adapter, carts, nil, nil).Sync(ctx)

	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.CartAdded)
	assert.Equal(t, 2, server.adds)
	assert.Equal(t, 120, server.cart["A"])
	assert.Empty(t, adapter.ReadCart())
	require.Len(t, carts.Current().Items, 1)
	assert.Equal(t, 120, carts.Current().Items[0].Quantity)
}

func TestSyncReportsUnsentRemainder(t *testing.T) {
	server := newFakeServer()
	adapter := gueststore.NewAdapter(gueststore.NewMemory(), nil)
	require.NoError(t, adapter.WriteCart([]storefront.CartLineItem{
		{CartItemID: "A", ProductID: "A", Price: 10, Quantity: 150},
	}))
	flaky := &flakyAdds{fakeServer: server, failAfter: 1}

	report := New(flaky, adapter, nil, nil, nil).Sync(context.Background())

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 51, report.Failed[0].Quantity)
	assert.Equal(t, 99, server.cart["A"])
}

// flakyAdds fails every add after the first failAfter calls.
type flakyAdds struct {
	*fakeServer
	failAfter int
	calls     int
}

func (f *flakyAdds) AddCartItem(ctx context.Context, productID string, quantity int) error {
	f.calls++
	if f.calls > f.failAfter {
		return &storefront.APIError{Status: 503, Message: "upstream unavailable"}
	}
	return f.fakeServer.AddCartItem(ctx, productID, quantity)
}
