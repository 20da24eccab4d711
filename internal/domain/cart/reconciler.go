// internal/domain/cart/reconciler.go
package cart

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Line is a raw cart line before reconciliation, independent of whether it
// came from the session store or the database.
type Line struct {
	ProductID  uint
	Quantity   int
	Attributes catalog.Attributes
}

// ReconciledLine is a deduplicated line with its resolved product view and
// the merged quantity.
type ReconciledLine struct {
	catalog.ResolvedItem
	Quantity int
}

func lineKey(productID uint, attrs catalog.Attributes) string {
	return fmt.Sprintf("%d|%s", productID, attrs.Key())
}

// Reconcile merges an ordered list of cart lines against the fetched product
// set into a single deduplicated view:
//
//   - lines whose product reference cannot be resolved are silently dropped,
//   - effective attributes/price/stock/image come from variant resolution,
//   - lines referencing the same product with identical resolved attribute
//     sets merge with their quantities summed,
//   - output ordering follows the first occurrence of each distinct
//     (product, attributes) key.
//
// Reconciliation is a pure view; stock ceilings are enforced only by the
// mutation operations.
func Reconcile(lines []Line, products map[uint]*catalog.Product) []ReconciledLine {
	var out []ReconciledLine
	index := make(map[string]int)

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue // Dangling reference; keep the read path resilient.
		}

		resolved := catalog.ResolveVariant(product, line.Attributes)
		key := lineKey(line.ProductID, resolved.Attributes)

		if i, seen := index[key]; seen {
			out[i].Quantity += line.Quantity
			continue
		}

		index[key] = len(out)
		out = append(out, ReconciledLine{ResolvedItem: resolved, Quantity: line.Quantity})
	}

	return out
}
