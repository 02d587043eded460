package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	_ "github.com/mkrishnan-dev/storefront_backend/cmd/docs"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/handlers"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/mkrishnan-dev/storefront_backend/internal/platform/cache"
	"github.com/mkrishnan-dev/storefront_backend/internal/platform/events"
	"github.com/mkrishnan-dev/storefront_backend/internal/repositories/database/pgsql"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
	"github.com/mkrishnan-dev/storefront_backend/pkg/database"
)

// @title Storefront Product Service API
// @version 1.0
// @description Product catalog browsing and management for the storefront.

// @host localhost:8081
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

	// The listing cache is optional. Without redis every listing request goes
	// straight to the database.
	var listingCache portsrepo.ListingCache = cache.NoopListingCache{}
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, serving without listing cache", slog.String("error", err.Error()))
		} else {
			defer redisClient.Close()
			listingCache = cache.NewRedisListingCache(redisClient, cfg.ProductCacheTTL)
			logger.Info("Product listing cache enabled", slog.Duration("ttl", cfg.ProductCacheTTL))
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, services.ContainerDeps{
		ListingCache:   listingCache,
		OrderPublisher: events.NoopOrderPublisher{},
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

	handlers.RegisterProductRoutes(r, cfg, container)

	logger.Info("Product service starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
