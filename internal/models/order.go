package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a row of the orders table.
type Order struct {
	OrderID         string          `db:"order_id"`
	UserID          string          `db:"user_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          string          `db:"status"`
	ShippingAddress string          `db:"shipping_address"`
	BillingAddress  string          `db:"billing_address"`
	AuditFields
}

// OrderItem represents a row of the order_items table. Rows are owned by
// their order and removed by the ON DELETE CASCADE constraint.
type OrderItem struct {
	OrderItemID string          `db:"order_item_id"`
	OrderID     string          `db:"order_id"`
	ProductID   string          `db:"product_id"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	CreatedAt   time.Time       `db:"created_at"`
}
