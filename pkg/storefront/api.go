package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Login exchanges email and password for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out LoginResult
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the server session bound to the current credential.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, requestOptions{})
	return err
}

// Me fetches the profile behind the current credential.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out Profile
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts browses the public catalog. query may carry category, occasion, q, limit and cursor.
func (c *Client) ListProducts(ctx context.Context, query url.Values) (*ProductPage, error) {
	path := "/api/v1/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out ProductPage
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct looks a product up by id or slug.
func (c *Client) GetProduct(ctx context.Context, idOrSlug string) (*Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(idOrSlug), nil, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out Product
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCart returns the account's cart lines as the server nests them.
func (c *Client) GetCart(ctx context.Context) ([]ServerCartItem, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []ServerCartItem `json:"items"`
	}
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddCartItem adds quantity of a product; the server merges it into an existing line.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/cart/add", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}, requestOptions{})
	return err
}

// UpdateCartItem applies one increase, decrease or delete step.
func (c *Client) UpdateCartItem(ctx context.Context, cartItemID string, action CartAction) (*CartMutation, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/cart/update", map[string]any{
		"cartItemId": cartItemID,
		"action":     action,
	}, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out CartMutation
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWishlist returns the account's saved products.
func (c *Client) GetWishlist(ctx context.Context) ([]ProductSnapshot, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/wishlist", nil, requestOptions{})
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []ProductSnapshot `json:"items"`
	}
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ToggleWishlist(ctx context.Context, productID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"productId": productID}, requestOptions{})
	return err
}

// Checkout submits the order intent. Reusing idempotencyKey for the same
// body replays the first response; a different body under the key conflicts.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest, idempotencyKey string) (*CheckoutRedirect, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/checkout", req, requestOptions{idempotencyKey: idempotencyKey})
	if err != nil {
		return nil, err
	}
	return &CheckoutRedirect{URL: env.URL, OrderID: env.OrderID}, nil
}

// FormatPrice renders a price the way the storefront displays it.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
