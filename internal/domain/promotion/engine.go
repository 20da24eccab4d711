// internal/domain/promotion/engine.go
package promotion

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// DiscountedProduct is a priced copy of a product with the applied automatic
// discount. Input records are never mutated; the engine is read-only and safe
// for concurrent use.
type DiscountedProduct struct {
	catalog.Product
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
}

// clampPercentage bounds a stored percentage to [0, 100] so pricing and the
// reported discount always agree.
func clampPercentage(percentage int) int {
	if percentage < 0 {
		return 0
	}
	if percentage > 100 {
		return 100
	}
	return percentage
}

// DiscountedPrice computes price - (price * pct / 100), rounded to 2 decimal
// places. Out-of-range percentages are clamped to [0, 100] so the result is
// never a price increase.
func DiscountedPrice(price decimal.Decimal, percentage int) decimal.Decimal {
	percentage = clampPercentage(percentage)
	if percentage == 0 {
		return price.Round(2)
	}
	discount := price.Mul(decimal.NewFromInt(int64(percentage))).Div(decimal.NewFromInt(100))
	return price.Sub(discount).Round(2)
}

// SelectAutomatic filters promotions down to automatic ones that are active
// and in-window at the given instant, preserving input order. The input
// order is the defined tie-break: the first selected promotion targeting a
// product wins.
func SelectAutomatic(promos []Promotion, now time.Time) []Promotion {
	var selected []Promotion
	for _, p := range promos {
		if p.AppliesAutomatically(now) {
			selected = append(selected, p)
		}
	}
	return selected
}

// ForProduct returns the first selected promotion targeting the product, or
// nil when none applies.
func ForProduct(selected []Promotion, productID uint) *Promotion {
	for i := range selected {
		if selected[i].ProductID == productID {
			return &selected[i]
		}
	}
	return nil
}

// ApplyToProduct returns a priced copy of the product. When the product
// carries variants, the same percentage is applied to every variant price
// override independently. No match leaves the price unchanged with a zero
// percentage.
func ApplyToProduct(p *catalog.Product, selected []Promotion) DiscountedProduct {
	out := DiscountedProduct{Product: *p}

	// Copy the variant slice so discounting never mutates the input record.
	out.Variants = make([]catalog.Variant, len(p.Variants))
	copy(out.Variants, p.Variants)

	promo := ForProduct(selected, p.ID)
	if promo == nil {
		out.DiscountedPrice = p.Price.Round(2)
		return out
	}

	out.DiscountPercentage = clampPercentage(promo.Percentage)
	out.DiscountedPrice = DiscountedPrice(p.Price, promo.Percentage)

	for i := range out.Variants {
		if out.Variants[i].Price != nil {
			discounted := DiscountedPrice(*out.Variants[i].Price, promo.Percentage)
			out.Variants[i].Price = &discounted
		}
	}
	return out
}

// ApplyToProducts prices a list of products against the selected promotions.
func ApplyToProducts(products []catalog.Product, selected []Promotion) []DiscountedProduct {
	out := make([]DiscountedProduct, 0, len(products))
	for i := range products {
		out = append(out, ApplyToProduct(&products[i], selected))
	}
	return out
}

// ApplyToPrice adjusts a single already-resolved price for the product, used
// when the caller has resolved one effective price through variant matching.
func ApplyToPrice(price decimal.Decimal, selected []Promotion, productID uint) (decimal.Decimal, int) {
	promo := ForProduct(selected, productID)
	if promo == nil {
		return price.Round(2), 0
	}
	return DiscountedPrice(price, promo.Percentage), clampPercentage(promo.Percentage)
}
