package services

import (
	"context"
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
)

// orderService provides order operations. The stock-sensitive work happens in
// single database transactions inside the repository; this layer validates
// input, enforces ownership and emits lifecycle events.
type orderService struct {
	orderRepo portsrepo.OrderRepository
	publisher portssvc.OrderEventPublisher
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo portsrepo.OrderRepository, publisher portssvc.OrderEventPublisher) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// Ensure orderService implements the portssvc.OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func (s *orderService) CreateOrder(ctx context.Context, userID string, req dto.CreateOrderRequest) (*domain.Order, []domain.OrderItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Items) == 0 {
		return nil, nil, apperrors.NewValidationError("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("quantity for product %s must be positive", item.ProductID))
		}
	}

	now := time.Now()
	order := domain.Order{
		OrderID:         uuid.NewString(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	lines := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		lines[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	createdOrder, createdItems, err := s.orderRepo.CreateOrder(ctx, order, lines)
	if err != nil {
		var stockErr *apperrors.StockError
		if errors.As(err, &stockErr) {
			logger.Info("Order rejected for insufficient stock",
				slog.String("product_id", stockErr.ProductID),
				slog.Int64("requested", stockErr.Requested),
				slog.Int64("available", stockErr.Available),
			)
			return nil, nil, err
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		logger.Error("Order creation failed", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Event publication is best-effort; the order is already committed.
	if err := s.publisher.OrderCreated(ctx, createdOrder, createdItems); err != nil {
		logger.Warn("Failed to publish order created event", slog.String("order_id", createdOrder.OrderID), slog.String("error", err.Error()))
	}

	logger.Info("Order created",
		slog.String("order_id", createdOrder.OrderID),
		slog.String("total_amount", createdOrder.TotalAmount.String()),
	)
	return createdOrder, createdItems, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != requestingUserID {
		return nil, nil, apperrors.ErrForbidden
	}

	items, err := s.orderRepo.FindOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order items: %w", err)
	}

	return order, items, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status string, updaterUserID string) (*domain.Order, error) {
	newStatus := domain.OrderStatus(status)
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order in status %q permits no further changes", order.Status))
	}

	// Cancellation must go through CancelOrder so stock is restored.
	if newStatus == domain.OrderStatusCancelled {
		return nil, apperrors.NewValidationError("use the cancel operation to cancel an order")
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, newStatus, updaterUserID, now); err != nil {
		return nil, err
	}

	order.Status = newStatus
	order.LastUpdatedAt = now
	order.LastUpdatedBy = updaterUserID
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	// The cancellation transaction re-checks the status under lock; the check
	// above only produces a friendlier early error.
	cancelledOrder, err := s.orderRepo.CancelOrder(ctx, orderID, requestingUserID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.publisher.OrderCancelled(ctx, cancelledOrder); err != nil {
		logger.Warn("Failed to publish order cancelled event", slog.String("order_id", orderID), slog.String("error", err.Error()))
	}

	logger.Info("Order cancelled", slog.String("order_id", orderID))
	return cancelledOrder, nil
}
