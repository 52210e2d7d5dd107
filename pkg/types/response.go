package types

// SuccessEnvelope is the body of every 2xx response.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope carries success=false plus a human message at the top level
// so storefront clients can surface it without inspecting the code.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}

// RedirectEnvelope is returned by checkout: the hosted payment page URL.
type RedirectEnvelope struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	OrderID string `json:"orderId,omitempty"`
}
