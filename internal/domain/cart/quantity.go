// internal/domain/cart/quantity.go
package cart

import (
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
)

// quantityDecision is the outcome of a cart mutation against one resolved
// line: either a new quantity to store or a removal.
type quantityDecision struct {
	Quantity int
	Remove   bool
}

// decideAdd merges requested quantity into the existing line total. The
// merged total is checked against the resolved stock ceiling; the reported
// available count is what the caller could still add.
func decideAdd(productID uint, existing, requested, stock int) (quantityDecision, error) {
	newTotal := existing + requested
	if newTotal > stock {
		return quantityDecision{}, apperror.NewInsufficientStock(productID, requested, stock-existing)
	}
	return quantityDecision{Quantity: newTotal}, nil
}

// decideSet replaces the quantity of an existing line. A missing line is a
// not-found error, a quantity below 1 removes the line.
func decideSet(productID uint, existing, requested, stock int) (quantityDecision, error) {
	if existing == 0 {
		return quantityDecision{}, apperror.NotFound("cart line for product %d", productID)
	}
	if requested < 1 {
		return quantityDecision{Remove: true}, nil
	}
	if requested > stock {
		return quantityDecision{}, apperror.NewInsufficientStock(productID, requested, stock)
	}
	return quantityDecision{Quantity: requested}, nil
}

// decideStep moves an existing line's quantity one step in the given
// direction. Adding at the ceiling is a capacity error; subtracting below 1
// removes the line.
func decideStep(productID uint, existing int, direction string, stock int) (quantityDecision, error) {
	if existing == 0 {
		return quantityDecision{}, apperror.NotFound("cart line for product %d", productID)
	}
	switch direction {
	case DirectionAdd:
		if existing >= stock {
			return quantityDecision{}, apperror.NewInsufficientStock(productID, 1, stock-existing)
		}
		return quantityDecision{Quantity: existing + 1}, nil
	case DirectionSubtract:
		if existing-1 < 1 {
			return quantityDecision{Remove: true}, nil
		}
		return quantityDecision{Quantity: existing - 1}, nil
	default:
		return quantityDecision{}, apperror.Validation("unknown direction %q", direction)
	}
}
