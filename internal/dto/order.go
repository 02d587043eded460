package dto

import (
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is a single line of an order creation request.
type OrderItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest defines the payload for creating an order.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	BillingAddress  string             `json:"billingAddress" binding:"required"`
}

// UpdateOrderStatusRequest carries the target status for an order.
// The orderstatus validation restricts it to the fixed whitelist.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// ListOrdersParams defines query parameters for listing a user's orders.
type ListOrdersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// OrderItemResponse is the outward representation of an order line.
type OrderItemResponse struct {
	OrderItemID string          `json:"orderItemID"`
	ProductID   string          `json:"productID"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// OrderResponse is the outward representation of an order.
type OrderResponse struct {
	OrderID         string              `json:"orderID"`
	UserID          string              `json:"userID"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shippingAddress"`
	BillingAddress  string              `json:"billingAddress"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ListOrdersResponse wraps the order listing.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// ToOrderItemResponse converts a domain.OrderItem to its response DTO.
func ToOrderItemResponse(item domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		OrderItemID: item.OrderItemID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
	}
}

// ToOrderResponse converts a domain.Order and its items to a response DTO.
func ToOrderResponse(order *domain.Order, items []domain.OrderItem) OrderResponse {
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = ToOrderItemResponse(item)
	}
	return OrderResponse{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Items:           itemResponses,
		CreatedAt:       order.CreatedAt,
	}
}

// ToListOrdersResponse converts a slice of domain.Order (without items) to ListOrdersResponse.
func ToListOrdersResponse(orders []domain.Order) ListOrdersResponse {
	orderResponses := make([]OrderResponse, len(orders))
	for i := range orders {
		orderResponses[i] = ToOrderResponse(&orders[i], nil)
	}
	return ListOrdersResponse{Orders: orderResponses}
}
