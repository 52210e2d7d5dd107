package cart

import (
	"context"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
)

type guestBackend struct {
	store *gueststore.Adapter
}

func (g *guestBackend) fetch(context.Context) ([]storefront.CartLineItem, error) {
	return g.store.ReadCart(), nil
}

func (g *guestBackend) add(_ context.Context, productID string, quantity int, snapshot *storefront.ProductSnapshot) error {
	if snapshot == nil {
		return storefront.NewValidationError("product data required")
	}
	items := g.store.ReadCart()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return g.store.WriteCart(items)
		}
	}
	items = append(items, storefront.CartLineItem{
		CartItemID: productID,
		ProductID:  productID,
		Name:       snapshot.Name,
		Image:      snapshot.Image,
		Price:      snapshot.Price,
		Quantity:   quantity,
	})
	return g.store.WriteCart(items)
}

func (g *guestBackend) setQuantity(_ context.Context, cartItemID string, quantity int) error {
	items := g.store.ReadCart()
	for i := range items {
		if items[i].CartItemID == cartItemID {
			items[i].Quantity = quantity
			return g.store.WriteCart(items)
		}
	}
	return storefront.NewValidationError("cart item %s not found", cartItemID)
}

func (g *guestBackend) remove(_ context.Context, cartItemID string) error {
	items := g.store.ReadCart()
	kept := items[:0]
	for _, it := range items {
		if it.CartItemID != cartItemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return g.store.WriteCart(kept)
}
