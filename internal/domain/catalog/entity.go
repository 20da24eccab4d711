// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	SKU               string          `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name              string          `gorm:"not null;size:255" json:"name"`
	Slug              string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description       string          `gorm:"type:text" json:"description"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock             int             `gorm:"default:0" json:"stock"`
	LowStockThreshold int             `gorm:"default:5" json:"low_stock_threshold"`
	ImageURL          string          `gorm:"size:500" json:"image_url"`
	CategoryID        *uint           `gorm:"index" json:"category_id"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	IsFeatured        bool            `gorm:"default:false" json:"is_featured"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// Variant represents a purchasable configuration of a product, defined by a
// complete attribute assignment with optional price/stock/image overrides.
type Variant struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ProductID  uint             `gorm:"not null;index" json:"product_id"`
	SKU        string           `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Attributes Attributes       `gorm:"type:jsonb" json:"attributes"`
	Price      *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price,omitempty"` // Overrides product price if set
	Stock      *int             `json:"stock,omitempty"`                           // Overrides product stock if set
	ImageURL   string           `gorm:"size:500" json:"image_url"`
	IsActive   bool             `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

// Category represents product categories
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	ParentID    *uint          `gorm:"index" json:"parent_id"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Variant) TableName() string  { return "product_variants" }
func (Category) TableName() string { return "categories" }

// IsInStock reports whether any quantity remains on the base product.
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// IsLowStock reports whether stock has fallen to or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// EffectivePrice returns the variant price override when present, falling back
// to the product's base price.
func (v *Variant) EffectivePrice(p *Product) decimal.Decimal {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// EffectiveStock returns the variant stock override when present, falling back
// to the product's base stock.
func (v *Variant) EffectiveStock(p *Product) int {
	if v != nil && v.Stock != nil {
		return *v.Stock
	}
	return p.Stock
}
