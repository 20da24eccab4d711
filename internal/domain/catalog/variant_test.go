package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func testProduct() *Product {
	return &Product{
		ID:       1,
		Price:    decimal.RequireFromString("100.00"),
		Stock:    10,
		ImageURL: "base.jpg",
		Variants: []Variant{
			{
				ID:         11,
				Attributes: Attributes{"Color": "Red", "Size": "M"},
				Price:      decPtr("120.00"),
				Stock:      intPtr(2),
				ImageURL:   "red-m.jpg",
			},
			{
				ID:         12,
				Attributes: Attributes{"Color": "Blue", "Size": "M"},
			},
		},
	}
}

func TestMatchVariant_ExactSubset(t *testing.T) {
	p := testProduct()
	v := MatchVariant(p.Variants, Attributes{"Color": "Red", "Size": "M"})
	require.NotNil(t, v)
	assert.Equal(t, uint(11), v.ID)
}

func TestMatchVariant_PartialRequestMatchesFirst(t *testing.T) {
	p := testProduct()
	// Both variants carry Size=M; first declared wins.
	v := MatchVariant(p.Variants, Attributes{"Size": "M"})
	require.NotNil(t, v)
	assert.Equal(t, uint(11), v.ID)
}

func TestMatchVariant_ExtraRequestKeyFails(t *testing.T) {
	p := testProduct()
	v := MatchVariant(p.Variants, Attributes{"Color": "Red", "Size": "M", "Material": "Wool"})
	assert.Nil(t, v)
}

func TestMatchVariant_TrimInsensitive(t *testing.T) {
	p := testProduct()
	v := MatchVariant(p.Variants, Attributes{"Color": "Red ", "Size": " M"})
	require.NotNil(t, v)
	assert.Equal(t, uint(11), v.ID)
}

func TestMatchVariant_EmptyRequest(t *testing.T) {
	p := testProduct()
	assert.Nil(t, MatchVariant(p.Variants, Attributes{}))
}

func TestResolveVariant_Overrides(t *testing.T) {
	p := testProduct()
	item := ResolveVariant(p, Attributes{"Color": "Red", "Size": "M"})
	require.NotNil(t, item.Variant)
	assert.Equal(t, "120", item.Price.String())
	assert.Equal(t, 2, item.Stock)
	assert.Equal(t, "red-m.jpg", item.ImageURL)
}

func TestResolveVariant_BaseFallback(t *testing.T) {
	p := testProduct()
	// Blue/M variant has no overrides; base product fields apply.
	item := ResolveVariant(p, Attributes{"Color": "Blue", "Size": "M"})
	require.NotNil(t, item.Variant)
	assert.Equal(t, "100", item.Price.String())
	assert.Equal(t, 10, item.Stock)
	assert.Equal(t, "base.jpg", item.ImageURL)
}

func TestResolveVariant_NoMatchFallsBackToBase(t *testing.T) {
	p := testProduct()
	item := ResolveVariant(p, Attributes{"Color": "Green"})
	assert.Nil(t, item.Variant)
	assert.Equal(t, "100", item.Price.String())
	assert.Equal(t, 10, item.Stock)
}

func TestResolveVariant_EmptyRequestDefaultsToFirstVariant(t *testing.T) {
	p := testProduct()
	item := ResolveVariant(p, nil)
	require.NotNil(t, item.Variant)
	assert.Equal(t, uint(11), item.Variant.ID)
	assert.True(t, item.Attributes.Equal(Attributes{"Color": "Red", "Size": "M"}))
}

func TestResolveVariant_NoVariants(t *testing.T) {
	p := &Product{ID: 2, Price: decimal.RequireFromString("9.99"), Stock: 3}
	item := ResolveVariant(p, nil)
	assert.Nil(t, item.Variant)
	assert.Empty(t, item.Attributes)
	assert.Equal(t, 3, item.Stock)
}
