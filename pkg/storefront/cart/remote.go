package cart

import (
	"context"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
)

type remoteBackend struct {
	api API
}

func (r *remoteBackend) fetch(ctx context.Context) ([]storefront.CartLineItem, error) {
	raw, err := r.api.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]storefront.CartLineItem, 0, len(raw))
	for _, it := range raw {
		items = append(items, normalize(it))
	}
	return items, nil
}

// normalize flattens the nested server product into the client record.
func normalize(it storefront.ServerCartItem) storefront.CartLineItem {
	return storefront.CartLineItem{
		CartItemID: it.ID,
		ProductID:  it.Product.ID,
		Name:       it.Product.Name,
		Image:      it.Product.Image,
		Price:      it.Product.Price,
		Quantity:   it.Quantity,
	}
}

func (r *remoteBackend) add(ctx context.Context, productID string, quantity int, _ *storefront.ProductSnapshot) error {
	return r.api.AddCartItem(ctx, productID, quantity)
}

// setQuantity reads the line's current quantity and emits the increase or
// decrease steps the server understands. It stops at the first failure.
func (r *remoteBackend) setQuantity(ctx context.Context, cartItemID string, quantity int) error {
	items, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	current := -1
	for _, it := range items {
		if it.CartItemID == cartItemID {
			current = it.Quantity
			break
		}
	}
	if current < 0 {
		return storefront.NewValidationError("cart item %s not found", cartItemID)
	}

	action := storefront.CartActionIncrease
	steps := quantity - current
	if steps < 0 {
		action = storefront.CartActionDecrease
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		if _, err := r.api.UpdateCartItem(ctx, cartItemID, action); err != nil {
			return err
		}
	}
	return nil
}

func (r *remoteBackend) remove(ctx context.Context, cartItemID string) error {
	_, err := r.api.UpdateCartItem(ctx, cartItemID, storefront.CartActionDelete)
	if storefront.IsNotFound(err) {
		return nil
	}
	return err
}
