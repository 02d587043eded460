package models

import "github.com/shopspring/decimal"

// Product represents a row of the products table.
type Product struct {
	ProductID     string          `db:"product_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	Category      string          `db:"category"`
	SKU           string          `db:"sku"`
	StockQuantity int64           `db:"stock_quantity"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
