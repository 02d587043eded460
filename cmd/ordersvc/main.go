package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	_ "github.com/mkrishnan-dev/storefront_backend/cmd/docs"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/handlers"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/mkrishnan-dev/storefront_backend/internal/platform/cache"
	"github.com/mkrishnan-dev/storefront_backend/internal/platform/events"
	"github.com/mkrishnan-dev/storefront_backend/internal/repositories/database/pgsql"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
	"github.com/mkrishnan-dev/storefront_backend/pkg/database"
)

// @title Storefront Order Service API
// @version 1.0
// @description Order creation, tracking and cancellation for the storefront.

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Database migrations applied.")

	// Order events are optional. Without brokers the service still takes
	// orders; downstream consumers just see nothing.
	var publisher portssvc.OrderEventPublisher = events.NoopOrderPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaOrderPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			logger.Warn("Kafka publisher setup failed, order events disabled", slog.String("error", err.Error()))
		} else {
			publisher = kafkaPublisher
			logger.Info("Order event publishing enabled", slog.String("topic", cfg.KafkaOrderTopic))
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close order event publisher", slog.String("error", err.Error()))
		}
	}()

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, services.ContainerDeps{
		ListingCache:   cache.NoopListingCache{},
		OrderPublisher: publisher,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterOrderRoutes(r, cfg, container)

	logger.Info("Order service starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
