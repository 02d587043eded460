package pricing_test

import (
	"errors"
	"testing"

	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotal_ExactDecimalArithmetic(t *testing.T) {
	price := decimal.RequireFromString("19.99")

	total := pricing.LineTotal(price, 3)

	// 19.99 * 3 must be exactly 59.97, never 59.970000000000006.
	assert.True(t, total.Equal(decimal.RequireFromString("59.97")), "got %s", total)
}

func TestLineTotal_ZeroPrice(t *testing.T) {
	total := pricing.LineTotal(decimal.Zero, 100)
	assert.True(t, total.IsZero())
}

func TestSumLineTotals(t *testing.T) {
	items := []domain.OrderItem{
		{TotalPrice: decimal.RequireFromString("59.97")},
		{TotalPrice: decimal.RequireFromString("0.01")},
		{TotalPrice: decimal.RequireFromString("25.00")},
	}

	total := pricing.SumLineTotals(items)

	assert.True(t, total.Equal(decimal.RequireFromString("84.98")), "got %s", total)
}

func TestSumLineTotals_Empty(t *testing.T) {
	assert.True(t, pricing.SumLineTotals(nil).IsZero())
}

func TestCheckStock_SufficientStock(t *testing.T) {
	product := domain.Product{ProductID: "p1", Name: "Widget", StockQuantity: 10}

	assert.NoError(t, pricing.CheckStock(product, 0, 10))
	assert.NoError(t, pricing.CheckStock(product, 4, 6))
}

func TestCheckStock_InsufficientStock(t *testing.T) {
	product := domain.Product{ProductID: "p1", Name: "Widget", StockQuantity: 10}

	err := pricing.CheckStock(product, 0, 11)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	var stockErr *apperrors.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Equal(t, int64(10), stockErr.Available)
	assert.Equal(t, int64(11), stockErr.Requested)
}

func TestCheckStock_ReservedCountsAgainstAvailability(t *testing.T) {
	// A second line for the same product only sees what the first left over.
	product := domain.Product{ProductID: "p1", Name: "Widget", StockQuantity: 10}

	err := pricing.CheckStock(product, 7, 4)

	require.Error(t, err)
	var stockErr *apperrors.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(3), stockErr.Available)
}
