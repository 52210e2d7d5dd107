package models

import "github.com/google/uuid"

// assignID fills a zero primary key so rows can be created on drivers
// without gen_random_uuid().
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Occasion{},
		&Product{},
		&Blog{},
		&CartItem{},
		&WishlistItem{},
		&Order{},
		&OrderItem{},
	}
}
