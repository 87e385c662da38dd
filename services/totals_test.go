package services

import (
	"testing"

	"checkout-service/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price string, qty int) models.CartLine {
	return models.CartLine{
		ProductID: "p1",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("Single Line Example", func(t *testing.T) {
		totals := ComputeTotals(models.CartSnapshot{line("25.00", 2)})

		wire := totals.Wire()
		assert.Equal(t, "50.00", wire.Subtotal)
		assert.Equal(t, "4.50", wire.Tax)
		assert.Equal(t, "15.00", wire.Shipping)
		assert.Equal(t, "0.00", wire.Discount)
		assert.Equal(t, "69.50", wire.Total)
	})

	t.Run("Multiple Lines", func(t *testing.T) {
		cart := models.CartSnapshot{
			line("199.99", 1),
			line("49.99", 3),
		}
		totals := ComputeTotals(cart)

		// 199.99 + 149.97 = 349.96
		assert.Equal(t, "349.96", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "31.50", totals.Tax.StringFixed(2))    // 31.4964
		assert.Equal(t, "396.46", totals.Total.StringFixed(2)) // 349.96 + 31.4964 + 15
	})

	t.Run("Invariant Holds At Full Precision", func(t *testing.T) {
		cart := models.CartSnapshot{
			line("0.55", 1),
			line("10.01", 7),
		}
		totals := ComputeTotals(cart)

		sum := totals.Subtotal.Add(totals.Tax).Add(totals.Shipping).Sub(totals.Discount)
		assert.True(t, totals.Total.Equal(sum), "total %s != subtotal+tax+shipping-discount %s", totals.Total, sum)
	})

	t.Run("Rounded Components Sum To Rounded Total", func(t *testing.T) {
		// Tax is the only component with more than two decimals, so
		// rounding each part independently must agree with rounding
		// the full-precision total.
		cart := models.CartSnapshot{line("0.55", 1)}
		totals := ComputeTotals(cart)
		wire := totals.Wire()

		assert.Equal(t, "0.55", wire.Subtotal)
		assert.Equal(t, "0.05", wire.Tax) // 0.0495 rounds up
		assert.Equal(t, "15.60", wire.Total)

		parts := decimal.RequireFromString(wire.Subtotal).
			Add(decimal.RequireFromString(wire.Tax)).
			Add(decimal.RequireFromString(wire.Shipping)).
			Sub(decimal.RequireFromString(wire.Discount))
		assert.Equal(t, wire.Total, parts.StringFixed(2))
	})

	t.Run("Zero Quantity Line Contributes Nothing", func(t *testing.T) {
		totals := ComputeTotals(models.CartSnapshot{line("99.99", 0)})

		assert.Equal(t, "0.00", totals.Subtotal.StringFixed(2))
		// The cart is non-empty, so the flat shipping fee still applies.
		assert.Equal(t, "15.00", totals.Shipping.StringFixed(2))
	})

	t.Run("Empty Cart", func(t *testing.T) {
		totals := ComputeTotals(models.CartSnapshot{})

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Shipping.IsZero())
		assert.True(t, totals.Total.IsZero())
	})
}
