package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

func reconcilerProduct() *catalog.Product {
	variantPrice := decimal.RequireFromString("120.00")
	variantStock := 2
	return &catalog.Product{
		ID:    1,
		Name:  "Shirt",
		SKU:   "SHIRT-1",
		Price: decimal.RequireFromString("100.00"),
		Stock: 10,
		Variants: []catalog.Variant{
			{
				ID:         11,
				ProductID:  1,
				Attributes: catalog.Attributes{"Color": "Red", "Size": "M"},
				Price:      &variantPrice,
				Stock:      &variantStock,
			},
			{
				ID:         12,
				ProductID:  1,
				Attributes: catalog.Attributes{"Color": "Blue", "Size": "M"},
			},
		},
	}
}

func TestReconcile_MergesTrimInsensitiveDuplicates(t *testing.T) {
	p := reconcilerProduct()
	lines := []Line{
		{ProductID: 1, Quantity: 2, Attributes: catalog.Attributes{"Color": "Red ", "Size": "M"}},
		{ProductID: 1, Quantity: 1, Attributes: catalog.Attributes{"Color": "Red", "Size": "M"}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].Quantity)
	assert.Equal(t, "120.00", out[0].Price.StringFixed(2))
	assert.Equal(t, 2, out[0].Stock)
}

func TestReconcile_DropsDanglingReferences(t *testing.T) {
	p := reconcilerProduct()
	lines := []Line{
		{ProductID: 99, Quantity: 5, Attributes: catalog.Attributes{}},
		{ProductID: 1, Quantity: 1, Attributes: catalog.Attributes{"Color": "Blue", "Size": "M"}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].Product.ID)
}

func TestReconcile_FirstOccurrenceOrdering(t *testing.T) {
	p := reconcilerProduct()
	lines := []Line{
		{ProductID: 1, Quantity: 1, Attributes: catalog.Attributes{"Color": "Blue", "Size": "M"}},
		{ProductID: 1, Quantity: 1, Attributes: catalog.Attributes{"Color": "Red", "Size": "M"}},
		{ProductID: 1, Quantity: 2, Attributes: catalog.Attributes{"Color": "Blue", "Size": "M"}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	require.Len(t, out, 2)
	assert.Equal(t, catalog.Attributes{"Color": "Blue", "Size": "M"}, out[0].Attributes)
	assert.Equal(t, 3, out[0].Quantity)
	assert.Equal(t, catalog.Attributes{"Color": "Red", "Size": "M"}, out[1].Attributes)
}

func TestReconcile_PreservesTotalQuantityOfResolvableLines(t *testing.T) {
	p := reconcilerProduct()
	lines := []Line{
		{ProductID: 1, Quantity: 4, Attributes: catalog.Attributes{"Color": "Red", "Size": "M"}},
		{ProductID: 1, Quantity: 3, Attributes: catalog.Attributes{"Color": "Blue", "Size": "M"}},
		{ProductID: 1, Quantity: 2, Attributes: catalog.Attributes{"Color": " Red ", "Size": "M "}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	total := 0
	for _, l := range out {
		total += l.Quantity
	}
	assert.Equal(t, 9, total)
}

func TestReconcile_DoesNotEnforceStockCeiling(t *testing.T) {
	p := reconcilerProduct()
	lines := []Line{
		{ProductID: 1, Quantity: 50, Attributes: catalog.Attributes{"Color": "Red", "Size": "M"}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	require.Len(t, out, 1)
	assert.Equal(t, 50, out[0].Quantity)
}

func TestReconcile_DeactivatedVariantNoLongerPricesLine(t *testing.T) {
	// Loading a product for cart views carries active variants only, so a
	// line that used to match a now-deactivated variant re-resolves against
	// what remains.
	p := reconcilerProduct()
	p.Variants = p.Variants[1:] // Red/M deactivated and filtered out on load.
	lines := []Line{
		{ProductID: 1, Quantity: 2, Attributes: catalog.Attributes{"Color": "Red", "Size": "M"}},
	}

	out := Reconcile(lines, map[uint]*catalog.Product{1: p})
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Variant)
	assert.Equal(t, "100.00", out[0].Price.StringFixed(2))
	assert.Equal(t, 10, out[0].Stock)
}

func TestReconcile_ProductWithoutVariants(t *testing.T) {
	p := &catalog.Product{
		ID:    2,
		Name:  "Mug",
		Price: decimal.RequireFromString("9.50"),
		Stock: 100,
	}
	lines := []Line{{ProductID: 2, Quantity: 1}}

	out := Reconcile(lines, map[uint]*catalog.Product{2: p})
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Variant)
	assert.Equal(t, "9.50", out[0].Price.StringFixed(2))
	assert.Equal(t, 100, out[0].Stock)
}
