package mapping

import (
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/models"
)

func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:         d.OrderID,
		UserID:          d.UserID,
		TotalAmount:     d.TotalAmount,
		Status:          string(d.Status),
		ShippingAddress: d.ShippingAddress,
		BillingAddress:  d.BillingAddress,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		TotalAmount:     m.TotalAmount,
		Status:          domain.OrderStatus(m.Status),
		ShippingAddress: m.ShippingAddress,
		BillingAddress:  m.BillingAddress,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainOrderSlice(ms []models.Order) []domain.Order {
	ds := make([]domain.Order, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrder(m)
	}
	return ds
}

func ToModelOrderItem(d domain.OrderItem) models.OrderItem {
	return models.OrderItem{
		OrderItemID: d.OrderItemID,
		OrderID:     d.OrderID,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TotalPrice:  d.TotalPrice,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainOrderItem(m models.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		OrderItemID: m.OrderItemID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
		CreatedAt:   m.CreatedAt,
	}
}

func ToDomainOrderItemSlice(ms []models.OrderItem) []domain.OrderItem {
	ds := make([]domain.OrderItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrderItem(m)
	}
	return ds
}
