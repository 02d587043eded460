// Package pricing holds the pure arithmetic used by the order creation
// transaction. All amounts are shopspring decimals; currency values never
// pass through floating point.
package pricing

import (
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineTotal computes unitPrice * quantity exactly.
func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// SumLineTotals computes the exact sum of the items' line totals. This is the
// amount stored as the order total; it must equal the sum of the persisted
// item rows.
func SumLineTotals(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// CheckStock validates that a line's requested quantity fits into the
// product's remaining stock, where alreadyReserved accounts for earlier lines
// of the same order referencing the same product. Returns a StockError
// naming the product and both counts when the request cannot be satisfied.
func CheckStock(product domain.Product, alreadyReserved int64, requested int64) error {
	available := product.StockQuantity - alreadyReserved
	if requested > available {
		return apperrors.NewAppError(409, "insufficient stock", &apperrors.StockError{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Available:   available,
			Requested:   requested,
		})
	}
	return nil
}
