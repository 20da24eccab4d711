// internal/domain/promotion/entity.go
package promotion

import (
	"time"

	"gorm.io/gorm"
)

// Type represents how a promotion is applied
type Type string

const (
	TypeAutomatic Type = "automatic" // Applied without a code
	TypeCode      Type = "code"      // Requires a coupon code at checkout
	TypeHybrid    Type = "hybrid"    // Carries a code but is not auto-applied
)

// Promotion represents a time-windowed percentage discount targeting a
// single product.
type Promotion struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null;size:255" json:"name"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Type       Type           `gorm:"not null;default:'automatic';size:20" json:"type"`
	Percentage int            `gorm:"not null" json:"percentage"` // 0-100
	Code       string         `gorm:"size:50;index" json:"code,omitempty"`
	StartsAt   time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt     time.Time      `gorm:"not null;index" json:"ends_at"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Promotion) TableName() string {
	return "promotions"
}

// IsInWindow reports whether the promotion window covers the given instant.
func (p *Promotion) IsInWindow(now time.Time) bool {
	return !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}

// AppliesAutomatically reports whether the promotion is selectable without a
// code at the given instant.
func (p *Promotion) AppliesAutomatically(now time.Time) bool {
	return p.IsActive && p.Type == TypeAutomatic && p.IsInWindow(now)
}
