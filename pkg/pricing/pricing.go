// Package pricing computes order totals. The API and the storefront client
// share it so both sides agree on the amount sent to the payment page.
package pricing

import (
	"fmt"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/shopspring/decimal"
)

// Rules configures shipping and tax.
type Rules struct {
	// FreeShippingThreshold: subtotals strictly above it ship free.
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultRules ships free above 100, otherwise charges 20, and taxes 5%.
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(20),
		TaxRate:               decimal.RequireFromString("0.05"),
	}
}

// RulesFromConfig parses the checkout section of the service config.
func RulesFromConfig(cfg config.CheckoutConfig) (Rules, error) {
	threshold, fee, rate, err := cfg.Rates()
	if err != nil {
		return Rules{}, fmt.Errorf("checkout pricing: %w", err)
	}
	return Rules{FreeShippingThreshold: threshold, FlatShippingFee: fee, TaxRate: rate}, nil
}

// Line is one priced cart entry.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the breakdown shown at checkout.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums price x quantity.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Compute applies the rules to lines.
func (r Rules) Compute(lines []Line) Totals {
	return r.ComputeSubtotal(Subtotal(lines))
}

// ComputeSubtotal applies the rules to a precomputed subtotal.
func (r Rules) ComputeSubtotal(subtotal decimal.Decimal) Totals {
	shipping := r.FlatShippingFee
	if subtotal.GreaterThan(r.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(r.TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// ToCents converts an amount to the smallest currency unit, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Float returns the amount as float64 for JSON payloads.
func Float(amount decimal.Decimal) float64 {
	f, _ := amount.Round(2).Float64()
	return f
}
