package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
)

// ProductReader defines read operations for product data.
type ProductReader interface {
	// FindProductByID retrieves a specific product by its ID.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProducts retrieves all active products, optionally filtered by
	// category (empty string means all).
	FindProducts(ctx context.Context, category string) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data.
type ProductWriter interface {
	// SaveProduct persists a new product. Duplicate SKU surfaces as apperrors.ErrDuplicate.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// MarkProductInactive soft-deletes a product by clearing the active flag.
	MarkProductInactive(ctx context.Context, productID string, deletedBy string, deletedAt time.Time) error
}

// ProductStockManager defines the transaction-scoped operations the order
// repository uses while holding an open database transaction. Callers own the
// transaction lifecycle.
type ProductStockManager interface {
	// FindProductsByIDsForUpdate locks the given product rows (SELECT ... FOR
	// UPDATE) and returns them keyed by ID. A missing or inactive product
	// fails the whole call with a not-found error naming the product, so
	// concurrent orders for the same product serialize on its row.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// AdjustStockInTx applies the given stock deltas (negative to decrement,
	// positive to restore) within the caller's transaction.
	AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]int64, updatedBy string, updatedAt time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductStockManager
}
