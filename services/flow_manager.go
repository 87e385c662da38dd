package services

import (
	"context"
	"sync"

	"checkout-service/cache"
	"checkout-service/logger"
	"checkout-service/models"

	"go.uber.org/zap"
)

// FlowManager keeps the live checkout flow per storefront session.
// Flows exist only in memory: a restart or a new purchase starts a
// fresh instance at the shipping step.
type FlowManager struct {
	mu        sync.Mutex
	flows     map[string]*Flow
	store     *cache.Store
	submitter OrderSubmitter
}

func NewFlowManager(store *cache.Store, submitter OrderSubmitter) *FlowManager {
	return &FlowManager{
		flows:     make(map[string]*Flow),
		store:     store,
		submitter: submitter,
	}
}

// Start materializes the cart snapshot from the cache store and opens a
// new flow for the session, replacing any previous one. An empty cart
// aborts with ErrEmptyCart so the caller can redirect to the catalog.
func (m *FlowManager) Start(ctx context.Context, sessionID string) (*Flow, error) {
	value, err := m.store.Read(ctx, cache.KeyCart)
	if err != nil {
		return nil, err
	}
	cart, ok := value.(models.CartSnapshot)
	if !ok {
		cart = models.CartSnapshot{}
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	flow := newFlow(cart, m.submitter)

	m.mu.Lock()
	m.flows[sessionID] = flow
	m.mu.Unlock()

	logger.Log.Info("checkout flow started",
		zap.String("session_id", sessionID),
		zap.Int("cart_lines", len(cart)),
	)
	return flow, nil
}

// Get returns the session's active flow.
func (m *FlowManager) Get(sessionID string) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow, ok := m.flows[sessionID]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return flow, nil
}
