// internal/domain/order/totals.go
package order

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

// TotalLine is one resolved cart line fed into the total calculator
type TotalLine struct {
	ProductID uint
	Price     decimal.Decimal
	Quantity  int
}

// PricedLine is a line with its promotion discount applied
type PricedLine struct {
	ProductID          uint            `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage int             `json:"discount_percentage"`
	Discount           decimal.Decimal `json:"discount"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// CalculateTotals prices each line against the selected automatic promotions
// and sums the order total. Per line the discount is price x pct/100 and the
// line total is (price - discount) x quantity; the order total is the sum of
// line totals. The computation is deterministic and side-effect free.
func CalculateTotals(lines []TotalLine, promos []promotion.Promotion) ([]PricedLine, decimal.Decimal) {
	priced := make([]PricedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		unit := line.Price.Round(2)
		discounted, pct := promotion.ApplyToPrice(line.Price, promos, line.ProductID)
		lineTotal := discounted.Mul(decimal.NewFromInt(int64(line.Quantity)))

		priced = append(priced, PricedLine{
			ProductID:          line.ProductID,
			Quantity:           line.Quantity,
			UnitPrice:          unit,
			DiscountPercentage: pct,
			Discount:           unit.Sub(discounted),
			DiscountedPrice:    discounted,
			LineTotal:          lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return priced, total.Round(2)
}

// FormatTotal renders a stored total with exactly two decimal places
func FormatTotal(total decimal.Decimal) string {
	return total.StringFixed(2)
}
