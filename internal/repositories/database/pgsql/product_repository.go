package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	"github.com/mkrishnan-dev/storefront_backend/internal/models"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils/mapping"
)

type PgxProductRepository struct {
	db *pgxpool.Pool
}

func newPgxProductRepository(db *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{db: db}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, name, description, price, category, sku, stock_quantity, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.Category,
		&m.SKU,
		&m.StockQuantity,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	modelProduct := mapping.ToModelProduct(product)
	query := `
        INSERT INTO products (product_id, name, description, price, category, sku, stock_quantity, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.db.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Description,
		modelProduct.Price,
		modelProduct.Category,
		modelProduct.SKU,
		modelProduct.StockQuantity,
		modelProduct.IsActive,
		modelProduct.CreatedAt,
		modelProduct.CreatedBy,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("SKU already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 AND is_active = TRUE;`
	modelProduct, err := scanProduct(r.db.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	domainProduct := mapping.ToDomainProduct(*modelProduct)
	return &domainProduct, nil
}

func (r *PgxProductRepository) FindProducts(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	modelProducts := []models.Product{}
	for rows.Next() {
		modelProduct, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		modelProducts = append(modelProducts, *modelProduct)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", rows.Err())
	}

	return mapping.ToDomainProductSlice(modelProducts), nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	modelProduct := mapping.ToModelProduct(product)
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, category = $4, stock_quantity = $5,
            last_updated_at = $6, last_updated_by = $7
        WHERE product_id = $8 AND is_active = TRUE;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		modelProduct.Name,
		modelProduct.Description,
		modelProduct.Price,
		modelProduct.Category,
		modelProduct.StockQuantity,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
		modelProduct.ProductID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update product query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("product not found or inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxProductRepository) MarkProductInactive(ctx context.Context, productID string, deletedBy string, deletedAt time.Time) error {
	query := `
        UPDATE products
        SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
        WHERE product_id = $3 AND is_active = TRUE;
    `
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deletedBy, productID)
	if err != nil {
		return fmt.Errorf("failed to mark product inactive: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("product not found or already inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

// FindProductsByIDsForUpdate locks the given product rows for the duration of
// the caller's transaction. Concurrent order transactions touching the same
// product block here until the other commits or rolls back, which is what
// keeps the stock check-then-decrement free of lost updates.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
		FOR UPDATE;`

	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock products for update: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		modelProduct, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		domainProduct := mapping.ToDomainProduct(*modelProduct)
		locked[domainProduct.ProductID] = domainProduct
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", rows.Err())
	}

	// Missing or inactive products fail the whole operation, naming the
	// offending product.
	for _, id := range productIDs {
		product, ok := locked[id]
		if !ok || !product.IsActive {
			return nil, apperrors.NewNotFoundError("product " + id + " not found or inactive")
		}
	}

	return locked, nil
}

// AdjustStockInTx applies stock deltas inside the caller's transaction. The
// rows are expected to already be locked via FindProductsByIDsForUpdate; the
// stock_quantity CHECK constraint is a backstop, never the primary guard.
func (r *PgxProductRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]int64, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $4;
	`
	for productID, delta := range stockChanges {
		cmdTag, err := tx.Exec(ctx, query, delta, updatedAt, updatedBy, productID)
		if err != nil {
			return fmt.Errorf("failed to adjust stock for product %s: %w", productID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("product " + productID + " not found for stock adjustment")
		}
	}
	return nil
}
