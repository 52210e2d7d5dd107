package checkout

import (
	"testing"

	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
)

func fullAddress() types.Address {
	return types.Address{
		FirstName:  "Grace",
		LastName:   "Hopper",
		Email:      "grace@example.com",
		Phone:      "+15550123",
		Address:    "9 Harbor Rd",
		City:       "Arlington",
		State:      "VA",
		PostalCode: "22201",
		Country:    "US",
	}
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	err := Validate(Submission{
		Billing:       fullAddress(),
		Shipping:      fullAddress(),
		ContactNumber: "+15550123",
		ItemCount:     2,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateRejectsEmptyCart(t *testing.T) {
	err := Validate(Submission{Billing: fullAddress(), Shipping: fullAddress(), ContactNumber: "1"})
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if pkgerrors.As(err).Message() != "cart is empty" {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}
}

func TestValidateReportsMissingFields(t *testing.T) {
	shipping := fullAddress()
	shipping.City = "  "
	shipping.PostalCode = ""

	err := Validate(Submission{Billing: fullAddress(), Shipping: shipping, ItemCount: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	detail, ok := typed.Details().(ValidationDetail)
	if !ok {
		t.Fatalf("expected ValidationDetail, got %T", typed.Details())
	}
	if len(detail.Billing) != 0 {
		t.Fatalf("billing should be complete, got %v", detail.Billing)
	}
	if len(detail.Shipping) != 2 || detail.Shipping[0] != "city" || detail.Shipping[1] != "postalCode" {
		t.Fatalf("unexpected shipping fields %v", detail.Shipping)
	}
	if !detail.ContactNumber {
		t.Fatalf("expected contact number flagged")
	}
}
