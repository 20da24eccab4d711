// internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request-local error taxonomy. None of these are
// retried automatically; handlers map them onto HTTP statuses.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports how many additional units remain available
// when a requested quantity exceeds the resolved stock ceiling.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// NewInsufficientStock builds the capacity error; available is floored at zero.
func NewInsufficientStock(productID uint, requested, available int) error {
	if available < 0 {
		available = 0
	}
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

// NotFound wraps ErrNotFound with a description of the missing resource.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict, used for invalid state transitions.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Validation wraps ErrValidation for missing or malformed fields.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Forbidden wraps ErrForbidden for failed permission or role checks.
func Forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
