package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
)

func testConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := NewConverter("USD", map[string]string{
		"EUR": "0.92",
		"gbp": "0.79",
	})
	require.NoError(t, err)
	return c
}

func TestConvert_BaseIsIdentity(t *testing.T) {
	c := testConverter(t)
	got, err := c.Convert(decimal.RequireFromString("19.99"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "19.99", got.StringFixed(2))
}

func TestConvert_AppliesRateAndRounds(t *testing.T) {
	c := testConverter(t)

	got, err := c.Convert(decimal.RequireFromString("100.00"), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "92.00", got.StringFixed(2))

	// Codes are case-insensitive.
	got, err = c.Convert(decimal.RequireFromString("10.00"), "gbp")
	require.NoError(t, err)
	assert.Equal(t, "7.90", got.StringFixed(2))
}

func TestConvert_UnknownCurrency(t *testing.T) {
	c := testConverter(t)
	_, err := c.Convert(decimal.RequireFromString("5.00"), "JPY")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNewConverter_RejectsBadRates(t *testing.T) {
	_, err := NewConverter("USD", map[string]string{"EUR": "not-a-number"})
	assert.Error(t, err)

	_, err = NewConverter("USD", map[string]string{"EUR": "-1"})
	assert.Error(t, err)
}
