// internal/domain/order/entity.go
package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// legalTransitions is the full set of allowed status moves. Refunded and
// cancelled have no outgoing edges; any attempt to leave them is a conflict.
var legalTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// IsValid reports whether the status is a known value
func (s Status) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal transition
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions
func (s Status) IsTerminal() bool {
	return len(legalTransitions[s]) == 0
}

// Order represents the order entity. Item rows snapshot product references
// and quantities only; prices are recomputed at read time from the
// promotions active then.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Status      Status `gorm:"not null;default:'pending'" json:"status"`

	// Total as computed at placement time, kept for the books.
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Currency    string          `gorm:"size:3;default:'USD'" json:"currency"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string  `gorm:"size:50" json:"payment_method"`
	Notes           string  `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
	Refund        *Refund         `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"refund,omitempty"`
}

// OrderItem snapshots one ordered line: product reference, resolved
// attribute set and quantity. Deliberately no price column.
type OrderItem struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	OrderID    uint               `gorm:"not null;index" json:"order_id"`
	ProductID  uint               `gorm:"not null;index" json:"product_id"`
	Attributes catalog.Attributes `gorm:"type:jsonb" json:"attributes"`
	Quantity   int                `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Refund is the optional refund sub-record attached to an order. It is
// created when a refund is requested and filled in on approval.
type Refund struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderID       uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	IsRefunded    bool           `gorm:"default:false" json:"is_refunded"`
	Approved      bool           `gorm:"default:false" json:"approved"`
	Reason        string         `gorm:"type:text" json:"reason"`
	RefundDate    *time.Time     `json:"refund_date"`
	RefundedBy    *uint          `json:"refunded_by"`
	RefundedItems RefundedItems  `gorm:"type:jsonb" json:"refunded_items"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// RefundedItem is one refunded line frozen into the refund record
type RefundedItem struct {
	ProductID  uint               `json:"product_id"`
	Attributes catalog.Attributes `json:"attributes,omitempty"`
	Quantity   int                `json:"quantity"`
}

// RefundedItems is stored as a jsonb column on the refund record
type RefundedItems []RefundedItem

// Value implements driver.Valuer for jsonb storage
func (r RefundedItems) Value() (driver.Value, error) {
	if r == nil {
		r = RefundedItems{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for jsonb storage
func (r *RefundedItems) Scan(value interface{}) error {
	if value == nil {
		*r = RefundedItems{}
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported refunded items column type %T", value)
	}
	return json.Unmarshal(data, r)
}

// Address represents the shipping address snapshot (embedded in Order)
type Address struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }
func (Refund) TableName() string        { return "order_refunds" }

// GenerateOrderNumber formats the unique order number from the row ID.
// Format: ORD-YYYYMMDD-XXXXX
func (o *Order) GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%05d", o.CreatedAt.UTC().Format("20060102"), o.ID)
}

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRefunded checks if the order is in a refundable state
func (o *Order) CanBeRefunded() bool {
	return o.Status.CanTransitionTo(StatusRefunded)
}
