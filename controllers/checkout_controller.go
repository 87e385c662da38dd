package controllers

import (
	"errors"
	"net/http"

	"checkout-service/cache"
	"checkout-service/clients"
	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	flows *services.FlowManager
	store *cache.Store
}

func NewCheckoutController(flows *services.FlowManager, store *cache.Store) *CheckoutController {
	return &CheckoutController{flows: flows, store: store}
}

func (cc *CheckoutController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCart serves the cached cart view.
func (cc *CheckoutController) GetCart(c *gin.Context) {
	value, err := cc.store.Read(c.Request.Context(), cache.KeyCart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

// GetOrders serves the cached orders view.
func (cc *CheckoutController) GetOrders(c *gin.Context) {
	value, err := cc.store.Read(c.Request.Context(), cache.KeyOrders)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

// State renders the session's current checkout flow.
func (cc *CheckoutController) State(c *gin.Context) {
	flow, err := cc.currentFlow(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.State())
}

// Start opens a fresh flow from the current cart.
func (cc *CheckoutController) Start(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	flow, err := cc.flows.Start(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			c.JSON(http.StatusConflict, gin.H{
				"error":    "cart is empty",
				"redirect": "/products",
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flow.State())
}

// SubmitShipping records the shipping form and advances to payment.
func (cc *CheckoutController) SubmitShipping(c *gin.Context) {
	flow, err := cc.currentFlow(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var info models.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := flow.SubmitShipping(info); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.State())
}

// Back returns from payment to the shipping form.
func (cc *CheckoutController) Back(c *gin.Context) {
	flow, err := cc.currentFlow(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := flow.Back(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.State())
}

// Submit places the order and moves the flow to confirmation.
func (cc *CheckoutController) Submit(c *gin.Context) {
	flow, err := cc.currentFlow(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var payment models.PaymentCredential
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	record, err := flow.Submit(c.Request.Context(), payment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": record,
		"step":  services.StepConfirmation,
	})
}

func (cc *CheckoutController) currentFlow(c *gin.Context) (*services.Flow, error) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return nil, err
	}
	return cc.flows.Get(sessionID)
}

// respondError maps service and transport failures onto HTTP statuses.
// Upstream submission failures stay retryable: the flow is still at
// payment and the message carries the upstream "<status>: <body>" text.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var statusErr *clients.StatusError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.Is(err, services.ErrFlowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &statusErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error(), "retryable": true})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
