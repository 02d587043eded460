package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mkrishnan-dev/storefront_backend/cmd/docs"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
)

// RegisterLoginRoutes sets up the login service: authentication endpoints and
// user account management.
func RegisterLoginRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCommonRoutes(r, cfg)

	registerAuthRoutes(r, services)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Auth))
	registerUserRoutes(v1, services.User)
}

// RegisterProductRoutes sets up the product service: public catalog browsing
// and authenticated catalog management.
func RegisterProductRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCommonRoutes(r, cfg)

	registerProductReadRoutes(r, services.Product)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Auth))
	registerProductWriteRoutes(v1, services.Product)
}

// RegisterOrderRoutes sets up the order service. All order operations require
// an authenticated caller.
func RegisterOrderRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCommonRoutes(r, cfg)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Auth))
	registerOrderRoutes(v1, services.Order)
}

// registerCommonRoutes wires the routes and middleware every binary carries.
func registerCommonRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(middleware.CORS(cfg.FrontendBaseURL))

	r.GET("/health", getHealth)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
