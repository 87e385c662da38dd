package services

import (
	"checkout-service/models"

	"github.com/shopspring/decimal"
)

var (
	taxRate     = decimal.RequireFromString("0.09")
	shippingFee = decimal.RequireFromString("15.00")
)

// ComputeTotals derives the monetary breakdown for a cart snapshot.
// Pure: no side effects, full-precision arithmetic. Rounding to two
// decimals happens only when the values are serialized for the wire.
//
// Shipping is a flat fee for any non-empty cart; an empty snapshot
// yields all zeros (checkout never reaches submission with one, but the
// function stays total). Discounts are carried through as a zero slot.
func ComputeTotals(cart models.CartSnapshot) models.Totals {
	subtotal := decimal.Zero
	for _, line := range cart {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(taxRate)
	shipping := decimal.Zero
	if !cart.IsEmpty() {
		shipping = shippingFee
	}
	discount := decimal.Zero

	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}
