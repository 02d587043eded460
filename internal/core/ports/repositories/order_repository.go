package repositories

import (
	"context"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
)

// OrderRepository persists orders and their items. Creation and cancellation
// are single atomic database transactions; no partial order, item or stock
// mutation ever survives a failure.
type OrderRepository interface {
	// CreateOrder runs the order creation transaction: locks the referenced
	// products, validates activity and stock per line in input order,
	// snapshots unit prices, computes exact decimal line totals and the order
	// total, decrements stock and inserts the order plus its items. The lines
	// carry only ProductID and Quantity on entry; the returned order and
	// items are fully populated.
	CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderItem) (*domain.Order, []domain.OrderItem, error)

	// FindOrderByID retrieves an order by its ID.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// FindOrderItemsByOrderID retrieves all items belonging to an order.
	FindOrderItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)

	// ListOrdersByUser retrieves a paginated list of a user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Order, error)

	// UpdateOrderStatus sets the order's status. The caller is responsible
	// for validating the transition against the status whitelist.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedBy string, updatedAt time.Time) error

	// CancelOrder runs the cancellation transaction: locks the order row,
	// rejects delivered orders with a conflict error, restores each
	// referenced product's stock by its item quantity and sets the status to
	// cancelled. Returns the cancelled order.
	CancelOrder(ctx context.Context, orderID string, cancelledBy string, cancelledAt time.Time) (*domain.Order, error)
}
