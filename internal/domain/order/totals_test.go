package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func totalsPromo(id, productID uint, pct int) promotion.Promotion {
	return promotion.Promotion{
		ID:         id,
		ProductID:  productID,
		Type:       promotion.TypeAutomatic,
		Percentage: pct,
		StartsAt:   testNow.Add(-time.Hour),
		EndsAt:     testNow.Add(time.Hour),
		IsActive:   true,
	}
}

func TestCalculateTotals_AppliesPerLineDiscount(t *testing.T) {
	lines := []TotalLine{
		{ProductID: 1, Price: decimal.RequireFromString("100.00"), Quantity: 2},
		{ProductID: 2, Price: decimal.RequireFromString("19.99"), Quantity: 1},
	}
	promos := []promotion.Promotion{totalsPromo(1, 1, 20)}

	priced, total := CalculateTotals(lines, promos)
	require.Len(t, priced, 2)

	assert.Equal(t, 20, priced[0].DiscountPercentage)
	assert.Equal(t, "20.00", priced[0].Discount.StringFixed(2))
	assert.Equal(t, "80.00", priced[0].DiscountedPrice.StringFixed(2))
	assert.Equal(t, "160.00", priced[0].LineTotal.StringFixed(2))

	assert.Equal(t, 0, priced[1].DiscountPercentage)
	assert.Equal(t, "19.99", priced[1].LineTotal.StringFixed(2))

	assert.Equal(t, "179.99", FormatTotal(total))
}

func TestCalculateTotals_EmptyCart(t *testing.T) {
	priced, total := CalculateTotals(nil, nil)
	assert.Empty(t, priced)
	assert.Equal(t, "0.00", FormatTotal(total))
}

func TestCalculateTotals_Deterministic(t *testing.T) {
	lines := []TotalLine{
		{ProductID: 1, Price: decimal.RequireFromString("33.33"), Quantity: 3},
		{ProductID: 2, Price: decimal.RequireFromString("0.99"), Quantity: 7},
	}
	promos := []promotion.Promotion{totalsPromo(1, 1, 15), totalsPromo(2, 2, 50)}

	_, first := CalculateTotals(lines, promos)
	_, second := CalculateTotals(lines, promos)
	assert.True(t, first.Equal(second))
}

func TestCalculateTotals_MatchesSumOfLineTotals(t *testing.T) {
	lines := []TotalLine{
		{ProductID: 1, Price: decimal.RequireFromString("12.49"), Quantity: 4},
		{ProductID: 2, Price: decimal.RequireFromString("7.77"), Quantity: 2},
		{ProductID: 3, Price: decimal.RequireFromString("150.00"), Quantity: 1},
	}
	promos := []promotion.Promotion{totalsPromo(1, 2, 25)}

	priced, total := CalculateTotals(lines, promos)
	sum := decimal.Zero
	for _, p := range priced {
		sum = sum.Add(p.LineTotal)
	}
	assert.True(t, total.Equal(sum.Round(2)))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusShipped.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusPending.CanTransitionTo(StatusDelivered))

	// Refunded is terminal: no outgoing transitions at all.
	for _, next := range []Status{StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled} {
		assert.False(t, StatusRefunded.CanTransitionTo(next), "refunded -> %s", next)
	}
	assert.True(t, StatusRefunded.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}
