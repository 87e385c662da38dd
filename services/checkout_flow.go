package services

import (
	"context"
	"sync"

	"checkout-service/models"
)

// Step is the current position in the checkout flow.
type Step string

const (
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

func (s Step) String() string {
	return string(s)
}

// Flow drives one checkout instance: shipping → payment → confirmation.
// The cart snapshot is fixed at flow start; all transitions are
// triggered by user actions or submission results, never by timers.
type Flow struct {
	mu         sync.Mutex
	step       Step
	cart       models.CartSnapshot
	shipping   models.ShippingInfo
	order      *models.OrderRecord
	processing bool
	submitter  OrderSubmitter
}

// FlowState is a point-in-time view of a flow for rendering.
type FlowState struct {
	Step     Step                `json:"step"`
	Cart     models.CartSnapshot `json:"cart"`
	Shipping models.ShippingInfo `json:"shipping"`
	Totals   models.WireTotals   `json:"totals"`
	Order    *models.OrderRecord `json:"order,omitempty"`
}

func newFlow(cart models.CartSnapshot, submitter OrderSubmitter) *Flow {
	return &Flow{
		step:      StepShipping,
		cart:      cart,
		submitter: submitter,
	}
}

// State returns a copy of the flow suitable for rendering.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FlowState{
		Step:     f.step,
		Cart:     f.cart,
		Shipping: f.shipping,
		Totals:   ComputeTotals(f.cart).Wire(),
		Order:    f.order,
	}
}

// SubmitShipping records the shipping form and advances to the payment
// step. A missing field keeps the flow at shipping with a field-level
// message; no network call is made either way.
func (f *Flow) SubmitShipping(info models.ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepShipping {
		return ErrInvalidStep
	}
	if field := info.MissingField(); field != "" {
		return &ValidationError{Field: field, Message: "is required"}
	}

	f.shipping = info
	f.step = StepPayment
	return nil
}

// Back returns from payment to the shipping form. The entered shipping
// info is retained.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return ErrInvalidStep
	}
	f.step = StepShipping
	return nil
}

// Submit places the order through the orchestrator. Success moves the
// flow to its terminal confirmation step carrying the server-confirmed
// record; failure keeps it at payment with all entered data intact so
// the user can retry deliberately.
func (f *Flow) Submit(ctx context.Context, payment models.PaymentCredential) (*models.OrderRecord, error) {
	f.mu.Lock()
	if f.step != StepPayment {
		f.mu.Unlock()
		return nil, ErrInvalidStep
	}
	if f.processing {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.processing = true
	shipping := f.shipping
	cart := f.cart
	f.mu.Unlock()

	record, err := f.submitter.Submit(ctx, shipping, payment, cart)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = false
	if err != nil {
		return nil, err
	}
	f.step = StepConfirmation
	f.order = record
	return record, nil
}
