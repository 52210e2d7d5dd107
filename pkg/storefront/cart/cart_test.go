package cart

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFlag bool

func (a authFlag) Authenticated() bool { return bool(a) }

// fakeAPI mimics the server cart endpoints.
type fakeAPI struct {
	mu       sync.Mutex
	lines    []storefront.ServerCartItem
	steps    []storefront.CartAction
	fetchErr error
	nextID   int
}

func (f *fakeAPI) GetCart(context.Context) ([]storefront.ServerCartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]storefront.ServerCartItem(nil), f.lines...), nil
}

func (f *fakeAPI) AddCartItem(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lines {
		if f.lines[i].Product.ID == productID {
			f.lines[i].Quantity += quantity
			return nil
		}
	}
	f.nextID++
	line := storefront.ServerCartItem{ID: "line-" + productID, Quantity: quantity}
	line.Product.ID = productID
	line.Product.Name = "Product " + productID
	line.Product.Price = 10
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, cartItemID string, action storefront.CartAction) (*storefront.CartMutation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, action)
	for i := range f.lines {
		if f.lines[i].ID != cartItemID {
			continue
		}
		switch action {
		case storefront.CartActionIncrease:
			f.lines[i].Quantity++
		case storefront.CartActionDecrease:
			if f.lines[i].Quantity <= 1 {
				return nil, &storefront.APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "quantity cannot be less than 1"}
			}
			f.lines[i].Quantity--
		case storefront.CartActionDelete:
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return &storefront.CartMutation{CartItemID: cartItemID}, nil
		}
		return &storefront.CartMutation{CartItemID: cartItemID, Quantity: f.lines[i].Quantity}, nil
	}
	return nil, &storefront.APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "cart item not found"}
}

func newGuestService() (*Service, *gueststore.Adapter) {
	adapter := gueststore.NewAdapter(gueststore.NewMemory(), nil)
	return NewService(&fakeAPI{}, adapter, authFlag(false), nil), adapter
}

func snapshot(id string, price float64) *storefront.ProductSnapshot {
	return &storefront.ProductSnapshot{ID: id, Name: "Product " + id, Price: price}
}

func TestGuestRepeatedAddsMergeIntoOneLine(t *testing.T) {
	svc, adapter := newGuestService()
	ctx := context.Background()

	for _, qty := range []int{1, 2, 3} {
		_, err := svc.Add(ctx, "p1", qty, snapshot("p1", 12.5))
		require.NoError(t, err)
	}

	items := adapter.ReadCart()
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
	assert.Equal(t, "p1", items[0].CartItemID)
	assert.Equal(t, 75.0, svc.Current().Total)
}

func TestGuestAddRequiresSnapshot(t *testing.T) {
	svc, _ := newGuestService()
	_, err := svc.Add(context.Background(), "p1", 1, nil)
	var vErr *storefront.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "product data required", vErr.Message)
}

func TestAddRejectsQuantityAboveRequestCap(t *testing.T) {
	svc, adapter := newGuestService()
	_, err := svc.Add(context.Background(), "p1", storefront.MaxAddQuantity+1, snapshot("p1", 5))
	var vErr *storefront.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, adapter.ReadCart())

	_, err = svc.Add(context.Background(), "p1", storefront.MaxAddQuantity, snapshot("p1", 5))
	require.NoError(t, err)
}

func TestGuestRemoveThenFetch(t *testing.T) {
	svc, _ := newGuestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, "p1", 1, snapshot("p1", 5))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "p2", 1, snapshot("p2", 5))
	require.NoError(t, err)

	_, err = svc.Remove(ctx, "p1")
	require.NoError(t, err)
	_, err = svc.Remove(ctx, "missing")
	require.NoError(t, err)

	cart, err := svc.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestGuestUpdateQuantity(t *testing.T) {
	svc, adapter := newGuestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, "p1", 2, snapshot("p1", 5))
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, "p1", 0)
	require.Error(t, err)
	assert.Equal(t, 2, adapter.ReadCart()[0].Quantity)

	cart, err := svc.UpdateQuantity(ctx, "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestRemoteUpdateQuantityEmitsSteps(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, gueststore.NewAdapter(gueststore.NewMemory(), nil), authFlag(true), nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, "p1", 1, nil)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "line-p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, []storefront.CartAction{storefront.CartActionIncrease, storefront.CartActionIncrease}, api.steps)

	api.steps = nil
	cart, err = svc.UpdateQuantity(ctx, "line-p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, []storefront.CartAction{storefront.CartActionDecrease, storefront.CartActionDecrease}, api.steps)
}

func TestRemoteDecreaseAtOneFails(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, gueststore.NewAdapter(gueststore.NewMemory(), nil), authFlag(true), nil)
	ctx := context.Background()
	_, err := svc.Add(ctx, "p1", 1, nil)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, "line-p1", 0)
	require.Error(t, err)
	assert.Empty(t, api.steps)

	_, err = api.UpdateCartItem(ctx, "line-p1", storefront.CartActionDecrease)
	assert.True(t, storefront.IsValidation(err))

	cart, err := svc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestRemoteRemoveTreatsNotFoundAsDone(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, gueststore.NewAdapter(gueststore.NewMemory(), nil), authFlag(true), nil)
	ctx := context.Background()
	_, err := svc.Add(ctx, "p1", 2, nil)
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, "line-p1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.Remove(ctx, "line-p1")
	require.NoError(t, err)
}

func TestFetchFailureKeepsDisplayedCart(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, gueststore.NewAdapter(gueststore.NewMemory(), nil), authFlag(true), nil)
	ctx := context.Background()
	_, err := svc.Add(ctx, "p1", 2, nil)
	require.NoError(t, err)

	api.fetchErr = errors.New("connection reset")
	cart, err := svc.Fetch(ctx)
	require.Error(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 20.0, cart.Total)
}
