package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, ctrl *controllers.CheckoutController) {
	r.GET("/health", ctrl.Health)

	// Everything else is scoped to a storefront session.
	session := r.Group("/")
	session.Use(middleware.SessionMiddleware())
	{
		session.GET("/cart", ctrl.GetCart)
		session.GET("/orders", ctrl.GetOrders)
		session.GET("/checkout", ctrl.State)
	}

	// Mutating checkout actions are additionally rate limited.
	actions := r.Group("/checkout")
	actions.Use(middleware.SessionMiddleware(), middleware.RateLimitMiddleware())
	{
		actions.POST("/start", ctrl.Start)
		actions.POST("/shipping", ctrl.SubmitShipping)
		actions.POST("/back", ctrl.Back)
		actions.POST("/submit", ctrl.Submit)
	}
}
