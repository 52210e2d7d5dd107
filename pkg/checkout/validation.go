// Package checkout holds the submission rules shared by the API and the
// storefront client.
package checkout

import (
	"fmt"
	"strings"

	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
)

// Submission is the data a buyer must provide before payment.
type Submission struct {
	Billing       types.Address
	Shipping      types.Address
	ContactNumber string
	ItemCount     int
}

// ValidationDetail lists blank fields per address block.
type ValidationDetail struct {
	Billing       []string `json:"billing,omitempty"`
	Shipping      []string `json:"shipping,omitempty"`
	ContactNumber bool     `json:"contactNumber,omitempty"`
}

// Validate rejects an empty cart or any blank address field.
func Validate(s Submission) error {
	if s.ItemCount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	detail := ValidationDetail{
		Billing:       s.Billing.MissingFields(),
		Shipping:      s.Shipping.MissingFields(),
		ContactNumber: strings.TrimSpace(s.ContactNumber) == "",
	}
	missing := len(detail.Billing) + len(detail.Shipping)
	if detail.ContactNumber {
		missing++
	}
	if missing == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("please fill all required fields (%d missing)", missing)).WithDetails(detail)
}
