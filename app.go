package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
	DB    *gorm.DB

	mq      *rabbitmq.Client
	kafka   *kafka.Publisher
	redis   *redis.Client
	closers []func() error
}

// NewApp connects every backing service named in cfg and registers all routes.
func NewApp(cfg config.AppConfig) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	a := &App{DB: db}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	// --- Event publisher ---
	var publisher services.EventPublisher
	switch cfg.EventBroker {
	case "rabbitmq":
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mq = mqClient
		a.closers = append(a.closers, mqClient.Close)
		publisher = mqClient
	case "kafka":
		a.kafka = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, a.kafka.Close)
		publisher = a.kafka
	}

	// --- Repositories and services ---
	store := repositories.NewGORMStore(db)
	notificationService := services.NewNotificationService(store.Notifications())
	authService := services.NewAuthService(store.Users(), notificationService, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store.Carts(), store.Products())
	reviewService := services.NewReviewService(store.Reviews(), store.Products(), notificationService)
	orderService := services.NewOrderService(store, notificationService, publisher, services.ShippingPolicy{
		FreeThreshold: cfg.FreeShippingThreshold,
		FlatFee:       cfg.FlatShippingFee,
	})
	paymentService := services.NewPaymentService(store, notificationService, publisher, cfg.MerchantName)
	a.Auth = authService

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(authService),
		Admin: middleware.AdminRequired(),
	}
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		a.closers = append(a.closers, a.redis.Close)
		guards.Checkout = middleware.CheckoutRateLimit(a.redis, cfg.CheckoutRateLimit, cfg.CheckoutRateWindow)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed admin: %w", err)
		}
	}

	// --- Fiber ---
	app := fiber.New(fiber.Config{AppName: "storefront"})
	app.Use(recover.New())
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, guards).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, reviewService, guards).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, guards).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, guards).RegisterRoutes(apiV1)
	handlers.NewPaymentHandler(paymentService, guards).RegisterRoutes(apiV1)
	handlers.NewNotificationHandler(notificationService, guards).RegisterRoutes(apiV1)

	app.Get("/health", a.handleHealth)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}
	if a.redis != nil {
		if err := a.redis.Ping(c.UserContext()).Err(); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "connected"
		}
	}
	if a.mq != nil {
		status["rabbitmq"] = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(status)
}

// StartConsumers attaches the event log consumer when RabbitMQ is the broker.
func (a *App) StartConsumers() {
	if a.mq == nil {
		return
	}
	log.Println("Starting RabbitMQ consumer for storefront events...")
	if err := a.mq.ConsumeEvents(rabbitmq.LogEvent); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
