package domain

import "github.com/shopspring/decimal"

// Product represents a sellable item. StockQuantity is mutated only by order
// creation (decrement) and order cancellation (restore) and must never go
// negative.
type Product struct {
	ProductID     string          `json:"productID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku"`
	StockQuantity int64           `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
