package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	"github.com/mkrishnan-dev/storefront_backend/internal/models"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils/mapping"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils/pricing"
)

type PgxOrderRepository struct {
	BaseRepository
	stockManager portsrepo.ProductStockManager
}

// newPgxOrderRepository creates an order repository. The stock manager is the
// product repository; order transactions lock and mutate product rows through
// it so both repositories agree on the locking protocol.
func newPgxOrderRepository(db *pgxpool.Pool, stockManager portsrepo.ProductStockManager) portsrepo.OrderRepository {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: db},
		stockManager:   stockManager,
	}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepository
var _ portsrepo.OrderRepository = (*PgxOrderRepository)(nil)

const orderColumns = `order_id, user_id, total_amount, status, shipping_address, billing_address,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.UserID,
		&m.TotalAmount,
		&m.Status,
		&m.ShippingAddress,
		&m.BillingAddress,
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

// CreateOrder runs the whole order creation as one transaction. Product rows
// are locked up front, each line is validated against remaining stock in input
// order, unit prices are snapshotted from the locked rows, and stock is
// decremented before the order and its items are inserted. Any failure rolls
// the whole thing back.
func (r *PgxOrderRepository) CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderItem) (*domain.Order, []domain.OrderItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	productIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		productIDs = append(productIDs, line.ProductID)
	}

	lockedProducts, err := r.stockManager.FindProductsByIDsForUpdate(ctx, tx, productIDs)
	if err != nil {
		return nil, nil, err
	}

	// Validate and price each line in input order. reserved tracks how much
	// stock earlier lines of this same order already claimed per product, so
	// repeated product IDs are checked against what actually remains.
	reserved := make(map[string]int64, len(lines))
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		product := lockedProducts[line.ProductID]
		if err := pricing.CheckStock(product, reserved[line.ProductID], line.Quantity); err != nil {
			return nil, nil, err
		}
		reserved[line.ProductID] += line.Quantity

		items[i] = domain.OrderItem{
			OrderItemID: uuid.NewString(),
			OrderID:     order.OrderID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  pricing.LineTotal(product.Price, line.Quantity),
			CreatedAt:   order.CreatedAt,
		}
	}
	order.TotalAmount = pricing.SumLineTotals(items)

	stockChanges := make(map[string]int64, len(reserved))
	for productID, quantity := range reserved {
		stockChanges[productID] = -quantity
	}
	if err := r.stockManager.AdjustStockInTx(ctx, tx, stockChanges, order.CreatedBy, order.CreatedAt); err != nil {
		return nil, nil, err
	}

	modelOrder := mapping.ToModelOrder(order)
	insertOrderQuery := `
        INSERT INTO orders (order_id, user_id, total_amount, status, shipping_address, billing_address,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err = tx.Exec(ctx, insertOrderQuery,
		modelOrder.OrderID,
		modelOrder.UserID,
		modelOrder.TotalAmount,
		modelOrder.Status,
		modelOrder.ShippingAddress,
		modelOrder.BillingAddress,
		modelOrder.CreatedAt,
		modelOrder.CreatedBy,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert order: %w", err)
	}

	insertItemQuery := `
        INSERT INTO order_items (order_item_id, order_id, product_id, quantity, unit_price, total_price, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	batch := &pgx.Batch{}
	for _, item := range items {
		modelItem := mapping.ToModelOrderItem(item)
		batch.Queue(insertItemQuery,
			modelItem.OrderItemID,
			modelItem.OrderID,
			modelItem.ProductID,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.TotalPrice,
			modelItem.CreatedAt,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return nil, nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, nil, fmt.Errorf("failed to close order item batch: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1;`
	modelOrder, err := scanOrder(r.Pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID %s: %w", orderID, err)
	}
	domainOrder := mapping.ToDomainOrder(*modelOrder)
	return &domainOrder, nil
}

func (r *PgxOrderRepository) FindOrderItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
        SELECT order_item_id, order_id, product_id, quantity, unit_price, total_price, created_at
        FROM order_items
        WHERE order_id = $1
        ORDER BY created_at, order_item_id;
    `
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	modelItems := []models.OrderItem{}
	for rows.Next() {
		var m models.OrderItem
		err := rows.Scan(
			&m.OrderItemID,
			&m.OrderID,
			&m.ProductID,
			&m.Quantity,
			&m.UnitPrice,
			&m.TotalPrice,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		modelItems = append(modelItems, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", rows.Err())
	}

	return mapping.ToDomainOrderItemSlice(modelItems), nil
}

func (r *PgxOrderRepository) ListOrdersByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + orderColumns + ` FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	modelOrders := []models.Order{}
	for rows.Next() {
		modelOrder, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		modelOrders = append(modelOrders, *modelOrder)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", rows.Err())
	}

	return mapping.ToDomainOrderSlice(modelOrders), nil
}

func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE orders
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE order_id = $4;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), updatedAt, updatedBy, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

// CancelOrder cancels an order and restores the stock its items consumed, all
// in one transaction. The order row is locked first so a concurrent status
// update and the cancellation serialize.
func (r *PgxOrderRepository) CancelOrder(ctx context.Context, orderID string, cancelledBy string, cancelledAt time.Time) (*domain.Order, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockOrderQuery := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE;`
	modelOrder, err := scanOrder(tx.QueryRow(ctx, lockOrderQuery, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	order := mapping.ToDomainOrder(*modelOrder)

	if !order.Status.IsCancellable() {
		if order.Status == domain.OrderStatusCancelled {
			return nil, apperrors.NewConflictError("order is already cancelled")
		}
		return nil, apperrors.NewConflictError("delivered orders cannot be cancelled")
	}

	itemsQuery := `SELECT product_id, quantity FROM order_items WHERE order_id = $1;`
	rows, err := tx.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items for cancellation: %w", err)
	}

	stockChanges := map[string]int64{}
	for rows.Next() {
		var productID string
		var quantity int64
		if err := rows.Scan(&productID, &quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order item for cancellation: %w", err)
		}
		stockChanges[productID] += quantity
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order items for cancellation: %w", rows.Err())
	}

	productIDs := make([]string, 0, len(stockChanges))
	for productID := range stockChanges {
		productIDs = append(productIDs, productID)
	}
	// Lock the product rows before restoring stock, same protocol as creation.
	// Products soft-deleted since the order was placed still get their stock
	// row restored; the lock call only rejects missing rows on creation paths,
	// so restoration bypasses it deliberately and relies on row existence.
	if len(productIDs) > 0 {
		lockProductsQuery := `SELECT product_id FROM products WHERE product_id = ANY($1) ORDER BY product_id FOR UPDATE;`
		lockRows, err := tx.Query(ctx, lockProductsQuery, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to lock products for stock restore: %w", err)
		}
		for lockRows.Next() {
			var id string
			if err := lockRows.Scan(&id); err != nil {
				lockRows.Close()
				return nil, fmt.Errorf("failed to scan locked product ID: %w", err)
			}
		}
		lockRows.Close()
		if lockRows.Err() != nil {
			return nil, fmt.Errorf("error iterating locked product IDs: %w", lockRows.Err())
		}

		if err := r.stockManager.AdjustStockInTx(ctx, tx, stockChanges, cancelledBy, cancelledAt); err != nil {
			return nil, err
		}
	}

	updateQuery := `
        UPDATE orders
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE order_id = $4;
    `
	if _, err := tx.Exec(ctx, updateQuery, string(domain.OrderStatusCancelled), cancelledAt, cancelledBy, orderID); err != nil {
		return nil, fmt.Errorf("failed to mark order cancelled: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.LastUpdatedAt = cancelledAt
	order.LastUpdatedBy = cancelledBy
	return &order, nil
}
