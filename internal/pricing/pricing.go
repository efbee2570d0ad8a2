package pricing

// Package pricing derives subtotal, volume discount, shipping, and total
// from a cart snapshot. Everything is recomputed per read; carts are small
// and a cache would only add invalidation bugs.
//
// The original system shipped two contradictory shipping formulas (a flat
// tier table on receipts, a percentage with a floor in the live cart). The
// flat tiers are canonical here and apply uniformly.

import (
	"github.com/shopspring/decimal"

	"github.com/glamournym/nymshop/internal/cart"
)

const (
	// DiscountThreshold is exclusive: a subtotal must strictly exceed it
	// before the volume discount applies.
	DiscountThreshold = 500_000

	// FreeShippingAt and ReducedShippingAt bound the shipping tiers,
	// evaluated against the post-discount amount.
	FreeShippingAt    = 300_000
	ReducedShippingAt = 100_000

	ReducedShippingFee = 10_000
	BaseShippingFee    = 15_000
)

var discountRate = decimal.RequireFromString("0.10")

// Summary holds the derived pricing values for one cart snapshot. Discount
// and Total can carry a fractional part (10% of an odd subtotal); stored
// prices never do.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal is the sum of unit price times quantity across all lines.
func Subtotal(items []cart.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromInt(int64(item.UnitPrice)).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// VolumeDiscount returns 10% of the subtotal once it strictly exceeds the
// threshold, otherwise zero. Single tier, non-stacking.
func VolumeDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(decimal.NewFromInt(DiscountThreshold)) {
		return subtotal.Mul(discountRate)
	}
	return decimal.Zero
}

// Shipping returns the flat fee for the post-discount amount: free at or
// above 300,000; 10,000 from 100,000 up; 15,000 below that.
func Shipping(afterDiscount decimal.Decimal) decimal.Decimal {
	switch {
	case afterDiscount.GreaterThanOrEqual(decimal.NewFromInt(FreeShippingAt)):
		return decimal.Zero
	case afterDiscount.GreaterThanOrEqual(decimal.NewFromInt(ReducedShippingAt)):
		return decimal.NewFromInt(ReducedShippingFee)
	default:
		return decimal.NewFromInt(BaseShippingFee)
	}
}

// Compute derives the full summary for a snapshot:
// total = subtotal - discount + shipping.
func Compute(items []cart.LineItem) Summary {
	subtotal := Subtotal(items)
	discount := VolumeDiscount(subtotal)
	shipping := Shipping(subtotal.Sub(discount))

	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(shipping),
	}
}
