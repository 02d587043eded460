package services

import (
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
)

// ContainerDeps carries the infrastructure adapters each binary chooses for
// its container. Either may be a no-op implementation.
type ContainerDeps struct {
	ListingCache   portsrepo.ListingCache
	OrderPublisher portssvc.OrderEventPublisher
}

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, repos.SessionRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo, repos.SessionRepo)
	container.GoogleAuth = NewGoogleAuthService(cfg)
	container.Product = NewProductService(repos.ProductRepo, deps.ListingCache)
	container.Order = NewOrderService(repos.OrderRepo, deps.OrderPublisher)

	return container
}
