package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activePromo(id, productID uint, pct int) Promotion {
	return Promotion{
		ID:         id,
		ProductID:  productID,
		Type:       TypeAutomatic,
		Percentage: pct,
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
		IsActive:   true,
	}
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		pct   int
		want  string
	}{
		{"twenty percent", "100.00", 20, "80.00"},
		{"zero percent", "100.00", 0, "100.00"},
		{"full discount", "100.00", 100, "0.00"},
		{"rounding", "19.99", 15, "16.99"},
		{"clamped above hundred", "50.00", 150, "0.00"},
		{"clamped below zero", "50.00", -10, "50.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedPrice(decimal.RequireFromString(tt.price), tt.pct)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestDiscountedPrice_NeverIncreases(t *testing.T) {
	price := decimal.RequireFromString("42.37")
	for pct := -20; pct <= 120; pct += 10 {
		got := DiscountedPrice(price, pct)
		assert.True(t, got.LessThanOrEqual(price), "pct=%d produced %s", pct, got)
	}
}

func TestSelectAutomatic_FiltersWindowTypeAndFlag(t *testing.T) {
	expired := activePromo(2, 1, 10)
	expired.EndsAt = now.Add(-time.Minute)
	inactive := activePromo(3, 1, 10)
	inactive.IsActive = false
	coded := activePromo(4, 1, 10)
	coded.Type = TypeCode
	hybrid := activePromo(5, 1, 10)
	hybrid.Type = TypeHybrid
	hybrid.Code = "EXTRA10"

	selected := SelectAutomatic([]Promotion{activePromo(1, 1, 20), expired, inactive, coded, hybrid}, now)
	require.Len(t, selected, 1)
	assert.Equal(t, uint(1), selected[0].ID)
}

func TestSelectAutomatic_WindowBoundsInclusive(t *testing.T) {
	p := activePromo(1, 1, 20)
	assert.True(t, p.AppliesAutomatically(p.StartsAt))
	assert.True(t, p.AppliesAutomatically(p.EndsAt))
	assert.False(t, p.AppliesAutomatically(p.EndsAt.Add(time.Second)))
}

func TestForProduct_FirstMatchWins(t *testing.T) {
	selected := []Promotion{activePromo(1, 7, 10), activePromo(2, 7, 50)}
	promo := ForProduct(selected, 7)
	require.NotNil(t, promo)
	assert.Equal(t, uint(1), promo.ID)
	assert.Nil(t, ForProduct(selected, 8))
}

func TestApplyToProduct_DiscountsBaseAndVariants(t *testing.T) {
	variantPrice := decimal.RequireFromString("120.00")
	p := &catalog.Product{
		ID:    1,
		Price: decimal.RequireFromString("100.00"),
		Variants: []catalog.Variant{
			{ID: 11, Price: &variantPrice},
			{ID: 12}, // No override; nothing to discount independently.
		},
	}
	selected := []Promotion{activePromo(1, 1, 20)}

	out := ApplyToProduct(p, selected)
	assert.Equal(t, 20, out.DiscountPercentage)
	assert.Equal(t, "80.00", out.DiscountedPrice.StringFixed(2))
	require.NotNil(t, out.Variants[0].Price)
	assert.Equal(t, "96.00", out.Variants[0].Price.StringFixed(2))
	assert.Nil(t, out.Variants[1].Price)
}

func TestApplyToProduct_DoesNotMutateInput(t *testing.T) {
	variantPrice := decimal.RequireFromString("120.00")
	p := &catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("100.00"),
		Variants: []catalog.Variant{{ID: 11, Price: &variantPrice}},
	}
	_ = ApplyToProduct(p, []Promotion{activePromo(1, 1, 50)})

	assert.Equal(t, "100", p.Price.String())
	assert.Equal(t, "120.00", p.Variants[0].Price.StringFixed(2))
}

func TestApplyToProduct_NoMatch(t *testing.T) {
	p := &catalog.Product{ID: 2, Price: decimal.RequireFromString("55.50")}
	out := ApplyToProduct(p, []Promotion{activePromo(1, 1, 20)})
	assert.Equal(t, 0, out.DiscountPercentage)
	assert.Equal(t, "55.50", out.DiscountedPrice.StringFixed(2))
}

func TestApplyToPrice_ResolvedSinglePrice(t *testing.T) {
	selected := []Promotion{activePromo(1, 1, 25)}
	got, pct := ApplyToPrice(decimal.RequireFromString("40.00"), selected, 1)
	assert.Equal(t, 25, pct)
	assert.Equal(t, "30.00", got.StringFixed(2))

	got, pct = ApplyToPrice(decimal.RequireFromString("40.00"), selected, 2)
	assert.Equal(t, 0, pct)
	assert.Equal(t, "40.00", got.StringFixed(2))
}

func TestApplyToPrice_ClampsReportedPercentage(t *testing.T) {
	over := []Promotion{activePromo(1, 1, 150)}
	got, pct := ApplyToPrice(decimal.RequireFromString("40.00"), over, 1)
	assert.Equal(t, 100, pct)
	assert.Equal(t, "0.00", got.StringFixed(2))

	under := []Promotion{activePromo(2, 1, -10)}
	got, pct = ApplyToPrice(decimal.RequireFromString("40.00"), under, 1)
	assert.Equal(t, 0, pct)
	assert.Equal(t, "40.00", got.StringFixed(2))

	out := ApplyToProduct(&catalog.Product{ID: 1, Price: decimal.RequireFromString("40.00")}, over)
	assert.Equal(t, 100, out.DiscountPercentage)
}
