package checkout

import (
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
	"github.com/google/uuid"
)

// CartLine is the client's view of one cart entry at submission time.
type CartLine struct {
	Product  string  `json:"product" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// Request is the POST /checkout body.
type Request struct {
	Billing       types.Address `json:"billing"`
	Shipping      types.Address `json:"shipping"`
	ContactNumber string        `json:"contactNumber"`
	CartItems     []CartLine    `json:"cartItems"`
	TotalAmount   float64       `json:"totalAmount"`
}

// Buyer identifies the authenticated customer.
type Buyer struct {
	UserID uuid.UUID
	Email  string
}

// Result carries the hosted payment page the client redirects to.
type Result struct {
	URL     string    `json:"url"`
	OrderID uuid.UUID `json:"orderId"`
}

// MismatchDetail is attached to "cart has changed" failures so the client can refresh.
type MismatchDetail struct {
	ServerTotal float64  `json:"serverTotal"`
	ClientTotal float64  `json:"clientTotal"`
	Products    []string `json:"products,omitempty"`
}
