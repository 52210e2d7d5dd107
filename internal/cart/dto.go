package cart

import (
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/google/uuid"
)

// ProductRef is the nested product shape returned with each cart line.
type ProductRef struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Image string    `json:"image"`
}

// ItemDTO is one server cart line.
type ItemDTO struct {
	ID       uuid.UUID  `json:"_id"`
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// CartDTO is the GET /cart payload.
type CartDTO struct {
	Items []ItemDTO `json:"items"`
}

// AddRequest adds quantity of a product, incrementing an existing line.
type AddRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// UpdateRequest applies one step to a cart line.
type UpdateRequest struct {
	CartItemID string           `json:"cartItemId" validate:"required,uuid"`
	Action     enums.CartAction `json:"action" validate:"required,oneof=increase decrease delete"`
}

// MutationResult reports the line's quantity after an update. Deleted lines report 0.
type MutationResult struct {
	CartItemID uuid.UUID `json:"cartItemId"`
	Quantity   int       `json:"quantity"`
}

func itemFromModel(item *models.CartItem) ItemDTO {
	return ItemDTO{
		ID: item.ID,
		Product: ProductRef{
			ID:    item.Product.ID,
			Name:  item.Product.Name,
			Price: pricing.Float(item.Product.EffectivePrice()),
			Image: item.Product.Image,
		},
		Quantity: item.Quantity,
	}
}
