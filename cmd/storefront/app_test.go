package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShop struct {
	mu   sync.Mutex
	cart map[string]int
}

func (f *fakeShop) handler() http.Handler {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}
	mux.HandleFunc("GET /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ok(w, map[string]any{"id": id, "name": "Product " + id, "slug": id, "price": 40})
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]any{"accessToken": "tok", "refreshToken": "ref"})
	})
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unauthorized"})
			return
		}
		ok(w, map[string]any{"id": "u1", "email": "ada@example.com"})
	})
	mux.HandleFunc("POST /api/v1/cart/add", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.cart[body.ProductID] += body.Quantity
		f.mu.Unlock()
		ok(w, nil)
	})
	mux.HandleFunc("GET /api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		items := []map[string]any{}
		for id, qty := range f.cart {
			items = append(items, map[string]any{
				"_id":      "line-" + id,
				"product":  map[string]any{"_id": id, "name": "Product " + id, "price": 40},
				"quantity": qty,
			})
		}
		ok(w, map[string]any{"items": items})
	})
	mux.HandleFunc("GET /api/v1/wishlist", func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]any{"items": []any{}})
	})
	return mux
}

func newTestApp(t *testing.T, url string, store gueststore.Storage) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := &config.StorefrontConfig{
		APIURL:       url,
		SyncParallel: 2,
		Checkout:     config.CheckoutConfig{FreeShippingThreshold: "100", FlatShippingFee: "20", TaxRate: "0.05"},
	}
	out := &bytes.Buffer{}
	a, err := newApp(cfg, logger.Nop(), store, out)
	require.NoError(t, err)
	require.NoError(t, a.session.Start(context.Background()))
	return a, out
}

func TestGuestAddThenLoginMovesCart(t *testing.T) {
	shop := &fakeShop{cart: map[string]int{}}
	srv := httptest.NewServer(shop.handler())
	t.Cleanup(srv.Close)
	store := gueststore.NewMemory()
	ctx := context.Background()

	a, out := newTestApp(t, srv.URL, store)
	require.NoError(t, cmdAdd(ctx, a, []string{"roses", "2"}))
	assert.Contains(t, out.String(), "added Product roses")
	assert.Contains(t, out.String(), "80.00")

	out.Reset()
	require.NoError(t, cmdCart(ctx, a, nil))
	assert.Contains(t, out.String(), "shipping  20.00")
	assert.Contains(t, out.String(), "total     104.00")

	t.Setenv("SHOP_STOREFRONT_PASSWORD", "secret")
	out.Reset()
	require.NoError(t, cmdLogin(ctx, a, []string{"ada@example.com"}))
	assert.Contains(t, out.String(), "moved 1 cart and 0 wishlist items")
	assert.Equal(t, 2, shop.cart["roses"])
	assert.Empty(t, gueststore.NewAdapter(store, nil).ReadCart())

	// A new invocation picks the stored credential up and reads the server cart.
	b, out := newTestApp(t, srv.URL, store)
	require.NoError(t, cmdCart(ctx, b, nil))
	assert.Contains(t, out.String(), "line-roses")
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), &config.StorefrontConfig{}, logger.Nop(), []string{"dance"})
	require.ErrorIs(t, err, errUsage)
}
