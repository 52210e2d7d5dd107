package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	codeUnauthorized = "UNAUTHORIZED"
	codeNotFound     = "NOT_FOUND"
	codeValidation   = "VALIDATION_ERROR"
)

// APIError is a failed API call as reported by the server envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("storefront: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("storefront: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Code == codeUnauthorized
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound || e.Code == codeNotFound
}

func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Code == codeValidation
}

// AsAPIError unwraps err to an *APIError when the server produced it.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is an API rejection of the credential.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsNotFound()
}

func IsValidation(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsValidation()
}

// ValidationError is raised locally before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a client-side validation failure.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func newAPIError(status int, env *envelope, decodeErr error, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	if decodeErr == nil && env != nil {
		apiErr.Code = env.Error.Code
		apiErr.Details = env.Error.Details
		apiErr.Message = env.Message
		if apiErr.Message == "" {
			apiErr.Message = env.Error.Message
		}
	}
	if apiErr.Message == "" {
		body := raw
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
