package gueststore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
)

// Adapter reads and writes the guest collections. Reads never fail: a
// missing key or an unreadable document yields an empty collection.
type Adapter struct {
	store Storage
	logg  *logger.Logger
}

func NewAdapter(store Storage, logg *logger.Logger) *Adapter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Adapter{store: store, logg: logg}
}

func (a *Adapter) ReadCart() []storefront.CartLineItem {
	var items []storefront.CartLineItem
	a.read(KeyCart, &items)
	if items == nil {
		return []storefront.CartLineItem{}
	}
	return items
}

// WriteCart replaces the stored guest cart.
func (a *Adapter) WriteCart(items []storefront.CartLineItem) error {
	return a.write(KeyCart, items)
}

func (a *Adapter) ClearCart() error {
	return a.store.Delete(KeyCart)
}

func (a *Adapter) ReadWishlist() []storefront.ProductSnapshot {
	var items []storefront.ProductSnapshot
	a.read(KeyWishlist, &items)
	if items == nil {
		return []storefront.ProductSnapshot{}
	}
	return items
}

func (a *Adapter) WriteWishlist(items []storefront.ProductSnapshot) error {
	return a.write(KeyWishlist, items)
}

func (a *Adapter) ClearWishlist() error {
	return a.store.Delete(KeyWishlist)
}

func (a *Adapter) read(key string, out any) {
	raw, ok, err := a.store.Get(key)
	if err != nil {
		a.logg.Warn(a.logg.WithFields(context.Background(), map[string]any{"key": key, "error": err.Error()}), "guest storage read failed")
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logg.Warn(a.logg.WithFields(context.Background(), map[string]any{"key": key, "error": err.Error()}), "guest storage unreadable, treating as empty")
	}
}

func (a *Adapter) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(key, raw)
}

// Credentials persists the bearer token. Its presence is what makes the
// client authenticated.
type Credentials struct {
	store Storage
}

func NewCredentials(store Storage) *Credentials {
	return &Credentials{store: store}
}

// Token implements storefront.TokenSource.
func (c *Credentials) Token() (string, error) {
	raw, ok, err := c.store.Get(KeyCredential)
	if err != nil || !ok {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (c *Credentials) SetToken(token string) error {
	return c.store.Set(KeyCredential, []byte(strings.TrimSpace(token)))
}

func (c *Credentials) Clear() error {
	return c.store.Delete(KeyCredential)
}

// Authenticated reports whether a credential is stored.
func (c *Credentials) Authenticated() bool {
	token, err := c.Token()
	return err == nil && token != ""
}
