package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is a single cart entry enriched with product data. Checkout
// never mutates lines; the cart view owns them.
type CartLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// CartSnapshot is the cart as materialized once at the start of a
// checkout flow. Later cart edits do not show up in it.
type CartSnapshot []CartLine

func (s CartSnapshot) IsEmpty() bool {
	return len(s) == 0
}

// Validate rejects lines the server should never have produced.
func (s CartSnapshot) Validate() error {
	for _, line := range s {
		if line.Quantity < 0 {
			return fmt.Errorf("cart line %s has negative quantity %d", line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("cart line %s has negative price %s", line.ProductID, line.UnitPrice)
		}
	}
	return nil
}
