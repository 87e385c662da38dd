package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"checkout-service/cache"
	"checkout-service/clients"
	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/logger"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	session := clients.NewTokenSession()
	commerce := clients.NewCommerceClient(cfg.CommerceAPIURL, cfg.RequestTimeout, session)

	store := cache.NewStore()
	store.Register(cache.KeyCart, func(ctx context.Context) (interface{}, error) {
		return commerce.FetchCart(ctx)
	})
	store.Register(cache.KeyOrders, func(ctx context.Context) (interface{}, error) {
		return commerce.FetchOrders(ctx)
	})

	orders := services.NewOrderService(commerce, store)
	flows := services.NewFlowManager(store, orders)
	controller := controllers.NewCheckoutController(flows, store)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.RegisterRoutes(r, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("[Checkout] listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Checkout] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Checkout] shutdown error: %v", err)
	}
}
