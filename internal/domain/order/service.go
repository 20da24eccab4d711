// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"github.com/your-org/storefront-backend/internal/pkg/events"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	cartService    *cart.Service
	catalogService *catalog.Service
	promoService   *promotion.Service
	bus            EventBus.Bus
	logger         *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, bus EventBus.Bus, logger *logrus.Logger) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		cartService:    cartService,
		catalogService: catalog.NewService(db, cfg),
		promoService:   promotion.NewService(db, cfg),
		bus:            bus,
		logger:         logger,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	ShippingAddress Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	Notes           string  `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	UserID    uint   `form:"user_id"`
	SortOrder string `form:"sort_order,default=desc"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status  Status `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// OrderListResponse represents order list with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// OrderDetailResponse is an order with its lines re-priced against the
// promotions active at read time. Item snapshots hold no price, so the
// displayed amounts can differ from the stored placement-time total.
type OrderDetailResponse struct {
	Order        Order        `json:"order"`
	PricedItems  []PricedLine `json:"priced_items"`
	CurrentTotal string       `json:"current_total"`
}

// CreateOrder creates an order from the user's cart. The whole sequence,
// stock decrements included, runs in one transaction so a failed line leaves
// no partial decrements behind.
func (s *Service) CreateOrder(userID uint, sessionID string, req *CreateOrderRequest) (*Order, error) {
	userIDPtr := &userID
	cartResponse, err := s.cartService.GetCart(userIDPtr, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(cartResponse.Items) == 0 {
		return nil, apperror.Validation("cart is empty")
	}

	lines := make([]TotalLine, 0, len(cartResponse.Items))
	for _, item := range cartResponse.Items {
		lines = append(lines, TotalLine{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	promos, err := s.promoService.ActiveAutomatic(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	_, total := CalculateTotals(lines, promos)

	var lowStock []events.LowStockEvent

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Decrement stock per line with the conditional guard. Any failure
	// rolls the whole order back.
	for _, item := range cartResponse.Items {
		product, err := s.catalogService.DecrementStock(tx, item.ProductID, item.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if product.IsLowStock() {
			lowStock = append(lowStock, events.LowStockEvent{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Stock:       product.Stock,
				Threshold:   product.LowStockThreshold,
			})
		}
	}

	order := Order{
		UserID:          userID,
		Status:          StatusPending,
		TotalAmount:     total,
		Currency:        s.config.App.Currency,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.OrderNumber = order.GenerateOrderNumber()
	if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to set order number: %w", err)
	}

	for _, item := range cartResponse.Items {
		orderItem := OrderItem{
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Attributes: item.Attributes,
			Quantity:   item.Quantity,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, orderItem)
	}

	history := StatusHistory{
		OrderID:   order.ID,
		Status:    StatusPending,
		Comment:   "Order placed",
		CreatedBy: userID,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	// Post-commit side effects are fire-and-forget.
	for _, ev := range lowStock {
		s.bus.Publish(events.TopicLowStock, ev)
	}
	s.bus.Publish(events.TopicOrderPlaced, events.OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		Total:       FormatTotal(order.TotalAmount),
	})

	if err := s.cartService.ClearCart(userIDPtr, sessionID); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).
			Warn("Failed to clear cart after checkout")
	}

	return &order, nil
}

// GetOrders lists orders with pagination and optional status/date filters.
// When userID is non-nil the listing is scoped to that user.
func (s *Service) GetOrders(userID *uint, req *OrderListRequest) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{}).Preload("Items")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, apperror.Validation("unknown order status %q", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, apperror.Validation("invalid date_from %q", req.DateFrom)
		}
		query = query.Where("created_at >= ?", from)
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, apperror.Validation("invalid date_to %q", req.DateTo)
		}
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at " + sortOrder).
		Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order. When userID is non-nil, ownership is
// enforced.
func (s *Service) GetOrder(id uint, userID *uint) (*Order, error) {
	var order Order
	query := s.db.Preload("Items").Preload("StatusHistory").Preload("Refund")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("order %d", id)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetOrderDetail returns the order with its item lines re-priced from the
// current catalog and promotion state.
func (s *Service) GetOrderDetail(id uint, userID *uint) (*OrderDetailResponse, error) {
	order, err := s.GetOrder(id, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalogService.GetProductsByIDs(ids)
	if err != nil {
		return nil, err
	}
	promos, err := s.promoService.ActiveAutomatic(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	lines := make([]TotalLine, 0, len(order.Items))
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue // Product since deleted; skip the line on display.
		}
		resolved := catalog.ResolveVariant(product, item.Attributes)
		lines = append(lines, TotalLine{
			ProductID: item.ProductID,
			Price:     resolved.Price,
			Quantity:  item.Quantity,
		})
	}

	priced, total := CalculateTotals(lines, promos)
	return &OrderDetailResponse{
		Order:        *order,
		PricedItems:  priced,
		CurrentTotal: FormatTotal(total),
	}, nil
}

// UpdateOrderStatus moves an order along the legal-transition table and
// records a history row. Any move out of a terminal status is a conflict.
func (s *Service) UpdateOrderStatus(id uint, actorID uint, req *UpdateStatusRequest) (*Order, error) {
	if !req.Status.IsValid() {
		return nil, apperror.Validation("unknown order status %q", req.Status)
	}

	order, err := s.GetOrder(id, nil)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(req.Status) {
		return nil, apperror.Conflict("cannot transition order %s from %s to %s",
			order.OrderNumber, order.Status, req.Status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(order).Update("status", req.Status).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	history := StatusHistory{
		OrderID:   order.ID,
		Status:    req.Status,
		Comment:   req.Comment,
		CreatedBy: actorID,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record status history: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	order.Status = req.Status
	order.StatusHistory = append(order.StatusHistory, history)
	return order, nil
}

// RequestRefund opens a refund record for a delivered order
func (s *Service) RequestRefund(orderID uint, userID uint, reason string) (*Refund, error) {
	order, err := s.GetOrder(orderID, &userID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeRefunded() {
		return nil, apperror.Conflict("order %s is not refundable in status %s",
			order.OrderNumber, order.Status)
	}
	if order.Refund != nil {
		return nil, apperror.Conflict("refund already requested for order %s", order.OrderNumber)
	}

	refund := Refund{
		OrderID: order.ID,
		Reason:  reason,
	}
	if err := s.db.Create(&refund).Error; err != nil {
		return nil, fmt.Errorf("failed to create refund request: %w", err)
	}
	return &refund, nil
}

// ApproveRefund approves a pending refund: the refund record is stamped with
// the approver and date, the ordered items are snapshotted into it, the
// ordered quantities are returned to stock and the order moves to refunded.
func (s *Service) ApproveRefund(orderID uint, approverID uint) (*Refund, error) {
	order, err := s.GetOrder(orderID, nil)
	if err != nil {
		return nil, err
	}
	if order.Refund == nil {
		return nil, apperror.NotFound("refund request for order %d", orderID)
	}
	if order.Refund.Approved {
		return nil, apperror.Conflict("refund for order %s already approved", order.OrderNumber)
	}
	if !order.Status.CanTransitionTo(StatusRefunded) {
		return nil, apperror.Conflict("cannot refund order %s in status %s",
			order.OrderNumber, order.Status)
	}

	refunded := make(RefundedItems, 0, len(order.Items))
	for _, item := range order.Items {
		refunded = append(refunded, RefundedItem{
			ProductID:  item.ProductID,
			Attributes: item.Attributes,
			Quantity:   item.Quantity,
		})
	}

	now := time.Now().UTC()
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	updates := map[string]interface{}{
		"is_refunded":    true,
		"approved":       true,
		"refund_date":    now,
		"refunded_by":    approverID,
		"refunded_items": refunded,
	}
	if err := tx.Model(order.Refund).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to approve refund: %w", err)
	}
	if err := tx.Model(order).Update("status", StatusRefunded).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	history := StatusHistory{
		OrderID:   order.ID,
		Status:    StatusRefunded,
		Comment:   "Refund approved",
		CreatedBy: approverID,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record status history: %w", err)
	}
	for _, item := range order.Items {
		if err := s.catalogService.RestockProduct(tx, item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit refund: %w", err)
	}

	s.bus.Publish(events.TopicRefundApproved, events.RefundApprovedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		RefundedBy:  approverID,
	})

	order.Refund.IsRefunded = true
	order.Refund.Approved = true
	order.Refund.RefundDate = &now
	order.Refund.RefundedBy = &approverID
	order.Refund.RefundedItems = refunded
	return order.Refund, nil
}
