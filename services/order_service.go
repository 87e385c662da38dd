package services

import (
	"context"
	"fmt"
	"strings"

	"checkout-service/cache"
	"checkout-service/clients"
	"checkout-service/logger"
	"checkout-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderSubmitter is the seam the checkout flow drives to place an
// order.
type OrderSubmitter interface {
	Submit(ctx context.Context, shipping models.ShippingInfo, payment models.PaymentCredential, cart models.CartSnapshot) (*models.OrderRecord, error)
}

// OrderService assembles order drafts and submits them through the
// secure transport, invalidating the dependent cached views on success.
type OrderService struct {
	client *clients.CommerceClient
	store  *cache.Store
}

func NewOrderService(client *clients.CommerceClient, store *cache.Store) *OrderService {
	return &OrderService{client: client, store: store}
}

// Submit builds and sends one order. On success the cart and orders
// views are invalidated before the result is returned, so anything the
// caller reads afterwards is fresh. On failure the cache is untouched
// and the error propagates as-is.
func (s *OrderService) Submit(ctx context.Context, shipping models.ShippingInfo, payment models.PaymentCredential, cart models.CartSnapshot) (*models.OrderRecord, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(cart)
	draft := buildDraft(placeholderOrderNumber(), shipping, payment, cart, totals)

	record, err := s.client.CreateOrder(ctx, draft)
	if err != nil {
		logger.Log.Warn("order submission failed",
			zap.String("order_number", draft.OrderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.store.Invalidate(cache.KeyCart)
	s.store.Invalidate(cache.KeyOrders)

	logger.Log.Info("order submitted",
		zap.String("order_number", record.OrderNumber),
		zap.String("status", record.Status),
		zap.String("total", draft.Total),
	)
	return record, nil
}

// placeholderOrderNumber generates the client-side order identifier.
// It is informational only: the server assigns the authoritative number
// and this one is displayed nowhere after submission.
func placeholderOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("ORD-%s", fragment)
}

func buildDraft(number string, shipping models.ShippingInfo, payment models.PaymentCredential, cart models.CartSnapshot, totals models.Totals) *models.OrderDraft {
	items := make([]models.OrderDraftItem, 0, len(cart))
	for _, line := range cart {
		lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderDraftItem{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductPrice: line.UnitPrice.StringFixed(2),
			Quantity:     line.Quantity,
			Subtotal:     lineSubtotal.StringFixed(2),
		})
	}

	return &models.OrderDraft{
		OrderNumber:     number,
		CustomerEmail:   shipping.Email,
		CustomerName:    shipping.FullName,
		ShippingAddress: shipping.Address,
		ShippingCity:    shipping.City,
		ShippingState:   shipping.State,
		ShippingZip:     shipping.Zip,
		Subtotal:        totals.Subtotal.StringFixed(2),
		Tax:             totals.Tax.StringFixed(2),
		Shipping:        totals.Shipping.StringFixed(2),
		Discount:        totals.Discount.StringFixed(2),
		Total:           totals.Total.StringFixed(2),
		Status:          "pending",
		PaymentStatus:   "pending",
		Items:           items,
		Payment:         payment,
	}
}
