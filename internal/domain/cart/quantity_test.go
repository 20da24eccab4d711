package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
)

func TestDecideAdd(t *testing.T) {
	tests := []struct {
		name      string
		existing  int
		requested int
		stock     int
		want      int
		available int
		wantErr   bool
	}{
		{name: "new line within stock", existing: 0, requested: 3, stock: 10, want: 3},
		{name: "merges into existing line", existing: 2, requested: 3, stock: 10, want: 5},
		{name: "exactly at ceiling", existing: 4, requested: 6, stock: 10, want: 10},
		{name: "over ceiling reports remaining capacity", existing: 4, requested: 7, stock: 10, available: 6, wantErr: true},
		{name: "full line reports zero available", existing: 10, requested: 1, stock: 10, available: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := decideAdd(1, tt.existing, tt.requested, tt.stock)
			if tt.wantErr {
				require.Error(t, err)
				var stockErr *apperror.InsufficientStockError
				require.ErrorAs(t, err, &stockErr)
				assert.Equal(t, uint(1), stockErr.ProductID)
				assert.Equal(t, tt.requested, stockErr.Requested)
				assert.Equal(t, tt.available, stockErr.Available)
				return
			}
			require.NoError(t, err)
			assert.False(t, decision.Remove)
			assert.Equal(t, tt.want, decision.Quantity)
		})
	}
}

func TestDecideAdd_AvailableNeverNegative(t *testing.T) {
	// A restock rollback can leave a stored line above current stock. The
	// reported available count floors at zero rather than going negative.
	_, err := decideAdd(1, 5, 1, 3)
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestDecideSet(t *testing.T) {
	tests := []struct {
		name       string
		existing   int
		requested  int
		stock      int
		want       int
		wantRemove bool
		wantErr    error
	}{
		{name: "replaces quantity", existing: 2, requested: 5, stock: 10, want: 5},
		{name: "zero removes the line", existing: 2, requested: 0, stock: 10, wantRemove: true},
		{name: "negative removes the line", existing: 2, requested: -3, stock: 10, wantRemove: true},
		{name: "missing line is not found", existing: 0, requested: 2, stock: 10, wantErr: apperror.ErrNotFound},
		{name: "over stock is a capacity error", existing: 2, requested: 11, stock: 10, wantErr: apperror.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := decideSet(1, tt.existing, tt.requested, tt.stock)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemove, decision.Remove)
			if !tt.wantRemove {
				assert.Equal(t, tt.want, decision.Quantity)
			}
		})
	}
}

func TestDecideStep(t *testing.T) {
	tests := []struct {
		name       string
		existing   int
		direction  string
		stock      int
		want       int
		wantRemove bool
		wantErr    error
	}{
		{name: "add steps up by one", existing: 2, direction: DirectionAdd, stock: 10, want: 3},
		{name: "add at ceiling is a capacity error", existing: 10, direction: DirectionAdd, stock: 10, wantErr: apperror.ErrInsufficientStock},
		{name: "subtract steps down by one", existing: 3, direction: DirectionSubtract, stock: 10, want: 2},
		{name: "subtract below one removes the line", existing: 1, direction: DirectionSubtract, stock: 10, wantRemove: true},
		{name: "missing line is not found", existing: 0, direction: DirectionAdd, stock: 10, wantErr: apperror.ErrNotFound},
		{name: "unknown direction is rejected", existing: 2, direction: "sideways", stock: 10, wantErr: apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := decideStep(1, tt.existing, tt.direction, tt.stock)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemove, decision.Remove)
			if !tt.wantRemove {
				assert.Equal(t, tt.want, decision.Quantity)
			}
		})
	}
}

func TestDecideStep_AddAtCeilingReportsZeroAvailable(t *testing.T) {
	_, err := decideStep(7, 4, DirectionAdd, 4)
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(7), stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Equal(t, 0, stockErr.Available)
}
