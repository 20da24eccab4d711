// internal/domain/catalog/variant.go
package catalog

import (
	"github.com/shopspring/decimal"
)

// ResolvedItem carries the effective purchasable view of a product after
// variant resolution: the attribute set actually matched plus the price,
// stock and image the caller should use.
type ResolvedItem struct {
	Product    *Product
	Variant    *Variant
	Attributes Attributes
	Price      decimal.Decimal
	Stock      int
	ImageURL   string
}

// MatchVariant returns the first variant whose attribute set contains every
// requested (key, value) pair, or nil when none matches. The match is
// asymmetric: extra keys on a variant are tolerated, extra keys in the
// request make the match fail. Zero matches is not an error; callers fall
// back to base product fields.
func MatchVariant(variants []Variant, requested Attributes) *Variant {
	if len(requested) == 0 {
		return nil
	}
	for i := range variants {
		if variants[i].Attributes.Contains(requested) {
			return &variants[i]
		}
	}
	return nil
}

// ResolveVariant resolves the effective attributes, price, stock and image
// for a product given a requested attribute set.
//
// When no attributes are requested and the product declares variants, the
// first declared variant's attributes are used as the default selection.
// This is a product-data-order dependency kept as an explicit default.
func ResolveVariant(p *Product, requested Attributes) ResolvedItem {
	requested = NormalizeAttributes(requested)

	if len(requested) == 0 && len(p.Variants) > 0 {
		requested = NormalizeAttributes(p.Variants[0].Attributes)
	}

	item := ResolvedItem{
		Product:    p,
		Attributes: requested,
		Price:      p.Price,
		Stock:      p.Stock,
		ImageURL:   p.ImageURL,
	}

	if v := MatchVariant(p.Variants, requested); v != nil {
		item.Variant = v
		item.Price = v.EffectivePrice(p)
		item.Stock = v.EffectiveStock(p)
		if v.ImageURL != "" {
			item.ImageURL = v.ImageURL
		}
	}

	return item
}
