package models

import "github.com/shopspring/decimal"

// Totals is the monetary breakdown for a cart snapshot. Values carry
// full precision; rounding to two decimals happens at serialization.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// WireTotals is the breakdown as transmitted: every value rounded to
// two decimal places.
type WireTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// Wire rounds the totals for transmission.
func (t Totals) Wire() WireTotals {
	return WireTotals{
		Subtotal: t.Subtotal.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Discount: t.Discount.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
}

// OrderDraft is the create-order payload. Built per submission attempt
// and discarded afterwards.
type OrderDraft struct {
	OrderNumber     string            `json:"orderNumber"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerName    string            `json:"customerName"`
	ShippingAddress string            `json:"shippingAddress"`
	ShippingCity    string            `json:"shippingCity"`
	ShippingState   string            `json:"shippingState"`
	ShippingZip     string            `json:"shippingZip"`
	Subtotal        string            `json:"subtotal"`
	Tax             string            `json:"tax"`
	Shipping        string            `json:"shipping"`
	Discount        string            `json:"discount"`
	Total           string            `json:"total"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"paymentStatus"`
	Items           []OrderDraftItem  `json:"items"`
	Payment         PaymentCredential `json:"payment"`
}

type OrderDraftItem struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductPrice string `json:"productPrice"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

// OrderRecord is the server-confirmed order. Its OrderNumber is
// authoritative over any client-generated placeholder.
type OrderRecord struct {
	OrderNumber   string `json:"orderNumber"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Total         string `json:"total,omitempty"`
}
