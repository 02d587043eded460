package services

import (
	"context"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
)

// OrderSvcFacade exposes order operations. Creation and cancellation are
// atomic all-or-nothing procedures delegated to a single database
// transaction.
type OrderSvcFacade interface {
	// CreateOrder validates the request and runs the creation transaction.
	// Returns the persisted order with its fully priced items.
	CreateOrder(ctx context.Context, userID string, req dto.CreateOrderRequest) (*domain.Order, []domain.OrderItem, error)

	// GetOrderByID retrieves an order and its items. Requesting another
	// user's order fails with apperrors.ErrForbidden.
	GetOrderByID(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, []domain.OrderItem, error)

	// ListOrdersByUser retrieves the requesting user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Order, error)

	// UpdateOrderStatus moves the order to one of the whitelisted statuses.
	// Terminal orders (delivered, cancelled) reject any further change.
	UpdateOrderStatus(ctx context.Context, orderID string, status string, updaterUserID string) (*domain.Order, error)

	// CancelOrder cancels a non-delivered order, restoring stock for every
	// item within the same transaction.
	CancelOrder(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, error)
}

// OrderEventPublisher emits order lifecycle events to the message bus.
// Publication is best-effort: failures are logged, never surfaced to the
// customer request.
type OrderEventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	OrderCancelled(ctx context.Context, order *domain.Order) error
	Close() error
}
