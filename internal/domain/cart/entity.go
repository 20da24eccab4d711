// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// CartItem represents a cart line stored in the database for authenticated
// users. Lines are keyed by (product, normalized attribute set).
type CartItem struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	UserID     uint               `gorm:"not null;index" json:"user_id"`
	ProductID  uint               `gorm:"not null;index" json:"product_id"`
	Attributes catalog.Attributes `gorm:"type:jsonb" json:"attributes"`
	Quantity   int                `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	DeletedAt  gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// SessionCart represents a guest cart stored in Redis, created on first add
// and discarded on login-merge or session expiry.
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionCartItem represents a guest cart line
type SessionCartItem struct {
	ProductID  uint               `json:"product_id"`
	Attributes catalog.Attributes `json:"attributes,omitempty"`
	Quantity   int                `json:"quantity"`
	AddedAt    time.Time          `json:"added_at"`
}

// CartLineResponse is one reconciled cart line: product fields overlaid with
// the resolved variant price/stock/image plus current promotion pricing.
type CartLineResponse struct {
	ProductID          uint               `json:"product_id"`
	ProductName        string             `json:"product_name"`
	SKU                string             `json:"sku"`
	Attributes         catalog.Attributes `json:"attributes"`
	Quantity           int                `json:"quantity"`
	Price              decimal.Decimal    `json:"price"`
	DiscountPercentage int                `json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal    `json:"discounted_price"`
	LineTotal          decimal.Decimal    `json:"line_total"`
	Stock              int                `json:"stock"`
	ImageURL           string             `json:"image_url"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount      int             `json:"item_count"`     // Number of distinct lines
	TotalQuantity  int             `json:"total_quantity"` // Sum of all quantities
	SubTotal       decimal.Decimal `json:"sub_total"`      // Before discounts
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// CartResponse represents a reconciled shopping cart view
type CartResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	UserID    *uint              `json:"user_id,omitempty"`
	Items     []CartLineResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}
