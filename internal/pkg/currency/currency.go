// internal/pkg/currency/currency.go
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
)

// Converter converts amounts from the base currency for display. Converted
// values are never stored; all persisted amounts stay in the base currency.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewConverter builds a converter over static base-to-target rates
func NewConverter(base string, rates map[string]string) (*Converter, error) {
	parsed := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		d, err := decimal.NewFromString(rate)
		if err != nil || d.Sign() <= 0 {
			return nil, apperror.Validation("invalid rate %q for currency %s", rate, code)
		}
		parsed[strings.ToUpper(code)] = d
	}
	return &Converter{
		base:  strings.ToUpper(base),
		rates: parsed,
	}, nil
}

// Base returns the base currency code
func (c *Converter) Base() string {
	return c.base
}

// Convert returns the display amount in the target currency, rounded to two
// decimal places. Converting to the base currency is the identity.
func (c *Converter) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == c.base {
		return amount.Round(2), nil
	}
	rate, ok := c.rates[code]
	if !ok {
		return decimal.Zero, apperror.NotFound("currency %s", code)
	}
	return amount.Mul(rate).Round(2), nil
}

// Codes lists the supported target currency codes, base included
func (c *Converter) Codes() []string {
	codes := make([]string, 0, len(c.rates)+1)
	codes = append(codes, c.base)
	for code := range c.rates {
		codes = append(codes, code)
	}
	return codes
}
