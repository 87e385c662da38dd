package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"checkout-service/cache"
	"checkout-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmitter is a scriptable OrderSubmitter.
type fakeSubmitter struct {
	mu      sync.Mutex
	record  *models.OrderRecord
	err     error
	calls   int
	blockOn chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, shipping models.ShippingInfo, payment models.PaymentCredential, cart models.CartSnapshot) (*models.OrderRecord, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockOn
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newManager(t *testing.T, cart models.CartSnapshot, submitter OrderSubmitter) *FlowManager {
	t.Helper()
	store := cache.NewStore()
	store.Register(cache.KeyCart, func(ctx context.Context) (interface{}, error) {
		return cart, nil
	})
	return NewFlowManager(store, submitter)
}

func TestStartWithEmptyCartRedirects(t *testing.T) {
	submitter := &fakeSubmitter{}
	mgr := newManager(t, models.CartSnapshot{}, submitter)

	_, err := mgr.Start(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, submitter.callCount(), "empty-cart guard must not touch the network")

	_, err = mgr.Get("sess-1")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestShippingGuardKeepsFlowAtShipping(t *testing.T) {
	submitter := &fakeSubmitter{}
	mgr := newManager(t, testCart(), submitter)

	flow, err := mgr.Start(context.Background(), "sess-1")
	require.NoError(t, err)

	incomplete := testShipping()
	incomplete.City = ""
	err = flow.SubmitShipping(incomplete)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "city", validationErr.Field)
	assert.Equal(t, StepShipping, flow.State().Step)
	assert.Equal(t, 0, submitter.callCount())
}

func TestHappyPathToConfirmation(t *testing.T) {
	submitter := &fakeSubmitter{
		record: &models.OrderRecord{OrderNumber: "ORD-2025-001234", Status: "pending", PaymentStatus: "pending"},
	}
	mgr := newManager(t, testCart(), submitter)
	ctx := context.Background()

	flow, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StepShipping, flow.State().Step)

	require.NoError(t, flow.SubmitShipping(testShipping()))
	assert.Equal(t, StepPayment, flow.State().Step)

	record, err := flow.Submit(ctx, models.PaymentCredential{PaymentToken: "pm_abc"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-001234", record.OrderNumber)

	state := flow.State()
	assert.Equal(t, StepConfirmation, state.Step)
	assert.True(t, state.Step.IsTerminal())
	require.NotNil(t, state.Order)
	assert.Equal(t, "ORD-2025-001234", state.Order.OrderNumber)
	assert.Equal(t, "69.50", state.Totals.Total)
}

func TestBackRetainsShippingInfo(t *testing.T) {
	mgr := newManager(t, testCart(), &fakeSubmitter{})
	flow, err := mgr.Start(context.Background(), "sess-1")
	require.NoError(t, err)

	require.NoError(t, flow.SubmitShipping(testShipping()))
	require.NoError(t, flow.Back())

	state := flow.State()
	assert.Equal(t, StepShipping, state.Step)
	assert.Equal(t, "Jane Doe", state.Shipping.FullName)
	assert.Equal(t, "10001", state.Shipping.Zip)
}

func TestFailedSubmitStaysAtPayment(t *testing.T) {
	submitter := &fakeSubmitter{err: assert.AnError}
	mgr := newManager(t, testCart(), submitter)
	ctx := context.Background()

	flow, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(testShipping()))

	_, err = flow.Submit(ctx, models.PaymentCredential{PaymentToken: "pm_abc"})
	require.Error(t, err)

	state := flow.State()
	assert.Equal(t, StepPayment, state.Step, "failed submission must not transition")
	assert.Equal(t, "Jane Doe", state.Shipping.FullName, "form data is retained for retry")
	assert.Nil(t, state.Order)

	// isProcessing was cleared: a deliberate retry goes through.
	submitter.err = nil
	submitter.record = &models.OrderRecord{OrderNumber: "ORD-2025-005678"}
	record, err := flow.Submit(ctx, models.PaymentCredential{PaymentToken: "pm_abc"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-005678", record.OrderNumber)
	assert.Equal(t, 2, submitter.callCount())
}

func TestSecondSubmitWhileInFlightIsRejected(t *testing.T) {
	block := make(chan struct{})
	submitter := &fakeSubmitter{
		record:  &models.OrderRecord{OrderNumber: "ORD-2025-000001"},
		blockOn: block,
	}
	mgr := newManager(t, testCart(), submitter)
	ctx := context.Background()

	flow, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(testShipping()))

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(ctx, models.PaymentCredential{})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	_, err = flow.Submit(ctx, models.PaymentCredential{})
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, submitter.callCount())
}

func TestActionsOutOfStep(t *testing.T) {
	mgr := newManager(t, testCart(), &fakeSubmitter{record: &models.OrderRecord{OrderNumber: "ORD-1"}})
	ctx := context.Background()

	flow, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)

	t.Run("Back From Shipping", func(t *testing.T) {
		assert.ErrorIs(t, flow.Back(), ErrInvalidStep)
	})

	t.Run("Submit From Shipping", func(t *testing.T) {
		_, err := flow.Submit(ctx, models.PaymentCredential{})
		assert.ErrorIs(t, err, ErrInvalidStep)
	})

	t.Run("Confirmation Is Terminal", func(t *testing.T) {
		require.NoError(t, flow.SubmitShipping(testShipping()))
		_, err := flow.Submit(ctx, models.PaymentCredential{})
		require.NoError(t, err)

		assert.ErrorIs(t, flow.SubmitShipping(testShipping()), ErrInvalidStep)
		assert.ErrorIs(t, flow.Back(), ErrInvalidStep)
		_, err = flow.Submit(ctx, models.PaymentCredential{})
		assert.ErrorIs(t, err, ErrInvalidStep)
	})
}

func TestNewPurchaseStartsFreshFlow(t *testing.T) {
	submitter := &fakeSubmitter{record: &models.OrderRecord{OrderNumber: "ORD-1"}}
	mgr := newManager(t, testCart(), submitter)
	ctx := context.Background()

	flow, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(testShipping()))
	_, err = flow.Submit(ctx, models.PaymentCredential{})
	require.NoError(t, err)

	fresh, err := mgr.Start(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotSame(t, flow, fresh)
	assert.Equal(t, StepShipping, fresh.State().Step)
	assert.Empty(t, fresh.State().Shipping.Email)

	got, err := mgr.Get("sess-1")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}
