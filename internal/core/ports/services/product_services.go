package services

import (
	"context"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
)

// ProductSvcFacade exposes product catalog operations. The full listing is
// served through a read-through cache; every mutation invalidates it
// synchronously before returning.
type ProductSvcFacade interface {
	// CreateProduct adds a new product to the catalog.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)

	// GetProductByID retrieves a product by ID.
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts returns the product listing. The unfiltered listing is
	// served from cache when a fresh snapshot exists; cache failures fall
	// through to the store.
	ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error)

	// UpdateProduct applies changes to a product.
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, updaterUserID string) (*domain.Product, error)

	// DeleteProduct soft-deletes a product.
	DeleteProduct(ctx context.Context, productID string, deleterUserID string) error
}
