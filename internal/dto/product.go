package dto

import (
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the payload for creating a product.
// Price travels as a string to keep exact decimal semantics on the wire.
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         string `json:"price" binding:"required"`
	Category      string `json:"category" binding:"required"`
	SKU           string `json:"sku" binding:"required"`
	StockQuantity int64  `json:"stockQuantity" binding:"gte=0"`
}

// UpdateProductRequest defines the fields that may be updated on a product.
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	Category      *string `json:"category"`
	StockQuantity *int64  `json:"stockQuantity" binding:"omitempty,gte=0"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Category string `form:"category"`
}

// ProductResponse is the outward representation of a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku"`
	StockQuantity int64           `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListProductsResponse wraps the product listing. This is also the shape
// serialized into the listing cache.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// ToProductResponse converts a domain.Product to its response DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		SKU:           p.SKU,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
}

// ToListProductsResponse converts a slice of domain.Product to ListProductsResponse.
func ToListProductsResponse(products []domain.Product) ListProductsResponse {
	productResponses := make([]ProductResponse, len(products))
	for i := range products {
		productResponses[i] = ToProductResponse(&products[i])
	}
	return ListProductsResponse{Products: productResponses}
}
