package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ticket-booking/internal/booking"
	"ticket-booking/internal/config"
	"ticket-booking/internal/database"
	"ticket-booking/internal/handler"
	"ticket-booking/internal/queue"
	"ticket-booking/internal/repository"
	"ticket-booking/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := repository.NewInventoryRepo(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis is optional: without it the service runs uncached and
	// unlimited rather than refusing to start.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}
	var cache *repository.AvailabilityCache
	if rdb != nil {
		cache = repository.NewAvailabilityCache(rdb, cfg.CacheTTL)
	}

	var publisher *queue.Publisher
	if cfg.AMQPURL != "" {
		publisher = queue.NewPublisher(cfg.AMQPURL)
		if cfg.Consumer {
			go queue.StartPurchaseConsumer(cfg.AMQPURL)
		}
	}

	// interface-typed deps must stay nil when unset, a typed nil
	// pointer would dodge the service's nil checks
	var invalidator booking.AvailabilityInvalidator
	if cache != nil {
		invalidator = cache
	}
	var pub booking.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	engine := booking.NewService(repo, invalidator, pub)

	var cacheIface handler.AvailabilityCache
	if cache != nil {
		cacheIface = cache
	}
	events := handler.NewEventHandler(repo, cacheIface)
	purchase := handler.NewPurchaseHandler(engine)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	router.RegisterRoutes(e, events, purchase, rdb)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
