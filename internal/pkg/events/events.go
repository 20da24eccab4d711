// internal/pkg/events/events.go
package events

// Bus topics. Publishing is fire-and-forget; subscribers must never fail the
// publisher.
const (
	TopicLowStock       = "inventory.low_stock"
	TopicOrderPlaced    = "order.placed"
	TopicRefundApproved = "order.refund_approved"
)

// LowStockEvent fires after a stock decrement leaves a product below its
// low-stock threshold.
type LowStockEvent struct {
	ProductID   uint
	ProductName string
	SKU         string
	Stock       int
	Threshold   int
}

// OrderPlacedEvent fires after an order is committed
type OrderPlacedEvent struct {
	OrderID     uint
	OrderNumber string
	UserID      uint
	Total       string
}

// RefundApprovedEvent fires after a refund is approved
type RefundApprovedEvent struct {
	OrderID     uint
	OrderNumber string
	UserID      uint
	RefundedBy  uint
}
