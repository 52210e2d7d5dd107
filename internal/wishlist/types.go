package wishlist

import "github.com/google/uuid"

// EntryDTO is the minimal product reference kept in a server wishlist.
type EntryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Slug  string    `json:"slug"`
	Image string    `json:"image"`
}

type WishlistDTO struct {
	Items []EntryDTO `json:"items"`
}

type ToggleRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// ToggleResult reports membership after the toggle.
type ToggleResult struct {
	ProductID  uuid.UUID `json:"productId"`
	InWishlist bool      `json:"inWishlist"`
}
