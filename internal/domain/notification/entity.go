// internal/domain/notification/entity.go
package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Kind classifies a notification record
type Kind string

const (
	KindLowStock       Kind = "low_stock"
	KindOrderPlaced    Kind = "order_placed"
	KindRefundApproved Kind = "refund_approved"
)

// Meta carries free-form event context, stored as jsonb
type Meta map[string]interface{}

// Value implements driver.Valuer for jsonb storage
func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		m = Meta{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage
func (m *Meta) Scan(value interface{}) error {
	if value == nil {
		*m = Meta{}
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported meta column type %T", value)
	}
	return json.Unmarshal(data, m)
}

// Notification is a persisted notification record. UserID is nil for
// records addressed to the admin feed rather than a single user.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Kind      Kind           `gorm:"not null;size:50;index" json:"kind"`
	Title     string         `gorm:"not null;size:255" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Meta      Meta           `gorm:"type:jsonb" json:"meta"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Notification) TableName() string {
	return "notifications"
}
