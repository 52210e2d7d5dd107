package storefront

import (
	"encoding/json"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	URL     string          `json:"url,omitempty"`
	OrderID string          `json:"orderId,omitempty"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	} `json:"error"`
}

// CartLineItem is the uniform client record for a cart line. For guest items
// CartItemID equals ProductID.
type CartLineItem struct {
	CartItemID string  `json:"cartItemId"`
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// ProductSnapshot is the product data a guest keeps locally.
type ProductSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug,omitempty"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// ServerCartItem is one line of GET /api/v1/cart.
type ServerCartItem struct {
	ID      string `json:"_id"`
	Product struct {
		ID    string  `json:"_id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Image string  `json:"image"`
	} `json:"product"`
	Quantity int `json:"quantity"`
}

// MaxAddQuantity is the largest quantity one add request may carry.
const MaxAddQuantity = 99

// CartAction is one step the server applies to a cart line.
type CartAction string

const (
	CartActionIncrease CartAction = "increase"
	CartActionDecrease CartAction = "decrease"
	CartActionDelete   CartAction = "delete"
)

// CartMutation is the server's view of a line after an update.
type CartMutation struct {
	CartItemID string `json:"cartItemId"`
	Quantity   int    `json:"quantity"`
}

// Profile is the authenticated user returned by /users/me and login.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// LoginResult carries the issued tokens.
type LoginResult struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         *Profile `json:"user"`
}

// Product is the catalog shape used by the CLI.
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
	Image      string  `json:"image"`
	Stock      int     `json:"stock"`
}

// Snapshot converts a catalog product into the guest snapshot.
func (p Product) Snapshot() ProductSnapshot {
	price := p.FinalPrice
	if price == 0 {
		price = p.Price
	}
	return ProductSnapshot{ID: p.ID, Name: p.Name, Slug: p.Slug, Price: price, Image: p.Image}
}

type ProductPage struct {
	Items      []Product `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// CheckoutLine is one entry of the checkout cartItems array.
type CheckoutLine struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutRequest is the order intent submitted to POST /api/v1/checkout.
type CheckoutRequest struct {
	Billing       types.Address  `json:"billing"`
	Shipping      types.Address  `json:"shipping"`
	ContactNumber string         `json:"contactNumber"`
	CartItems     []CheckoutLine `json:"cartItems"`
	TotalAmount   float64        `json:"totalAmount"`
}

// CheckoutRedirect is the hosted payment page returned by the API.
type CheckoutRedirect struct {
	URL     string
	OrderID string
}
