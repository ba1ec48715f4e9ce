// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ticket-booking/internal/config"
	"ticket-booking/internal/handler"
	"ticket-booking/internal/middleware"
)

// RegisterRoutes wires the catalog and purchase endpoints under /api,
// plus the health and metrics endpoints. The purchase route carries
// the redis token-bucket limiter; rdb may be nil, which disables it.
func RegisterRoutes(e *echo.Echo, events *handler.EventHandler, purchase *handler.PurchaseHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/events", events.CreateEvent)
	api.GET("/events", events.ListEvents)
	api.GET("/events/:id/availability", events.GetAvailability)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	api.POST("/events/:id/purchase", purchase.Purchase, limiter)
}
