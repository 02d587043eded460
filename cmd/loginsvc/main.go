package main

import (
	"context"
	"log/slog"
	"os"
	"time"

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

// @title Storefront Login Service API
// @version 1.0
// @description Authentication and user account management for the storefront.

// @host localhost:8080
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

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, services.ContainerDeps{
		ListingCache:   cache.NoopListingCache{},
		OrderPublisher: events.NoopOrderPublisher{},
	})

	// Periodically sweep expired session rows. Verification never trusts an
	// expired row, so the sweep is purely housekeeping.
	go runSessionCleanup(context.Background(), logger, container.Auth, cfg.SessionCleanupInterval)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterLoginRoutes(r, cfg, container)

	logger.Info("Login service starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runSessionCleanup(ctx context.Context, logger *slog.Logger, authSvc portssvc.AuthSvcFacade, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("Session cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Info("Swept expired sessions", slog.Int64("removed", removed))
			}
		}
	}
}
