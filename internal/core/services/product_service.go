package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// productService provides product catalog operations. The unfiltered listing
// is served through a read-through cache; the cache is advisory and every
// failure falls through to the database.
type productService struct {
	productRepo  portsrepo.ProductRepositoryFacade
	listingCache portsrepo.ListingCache
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, listingCache portsrepo.ListingCache) portssvc.ProductSvcFacade {
	return &productService{
		productRepo:  productRepo,
		listingCache: listingCache,
	}
}

// Ensure productService implements the portssvc.ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("invalid price %q", raw))
	}
	if price.IsNegative() {
		return decimal.Zero, apperrors.NewValidationError("price must not be negative")
	}
	return price, nil
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := domain.Product{
		ProductID:     uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         price,
		Category:      req.Category,
		SKU:           req.SKU,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		logger.Error("Failed to save product", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateListing(ctx)
	logger.Info("Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

// ListProducts serves the product listing. Only the unfiltered listing goes
// through the cache; category-filtered requests always hit the store.
func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.Category == "" {
		payload, found, err := s.listingCache.Get(ctx)
		if err != nil {
			logger.Warn("Listing cache read failed, falling through to store", slog.String("error", err.Error()))
		} else if found {
			var cached dto.ListProductsResponse
			if err := json.Unmarshal(payload, &cached); err != nil {
				logger.Warn("Listing cache payload corrupt, falling through to store", slog.String("error", err.Error()))
			} else {
				return &cached, nil
			}
		}
	}

	products, err := s.productRepo.FindProducts(ctx, params.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	resp := dto.ToListProductsResponse(products)

	if params.Category == "" {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.listingCache.Set(ctx, payload); err != nil {
				logger.Warn("Listing cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	return &resp, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, updaterUserID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, apperrors.NewValidationError("stock quantity must not be negative")
		}
		product.StockQuantity = *req.StockQuantity
	}
	product.LastUpdatedAt = time.Now()
	product.LastUpdatedBy = updaterUserID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string, deleterUserID string) error {
	if err := s.productRepo.MarkProductInactive(ctx, productID, deleterUserID, time.Now()); err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

// invalidateListing drops the cached listing synchronously after a mutation.
// A failed invalidation is logged and tolerated; the TTL bounds how long a
// stale snapshot can survive.
func (s *productService) invalidateListing(ctx context.Context) {
	if err := s.listingCache.Invalidate(ctx); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Listing cache invalidation failed", slog.String("error", err.Error()))
	}
}
