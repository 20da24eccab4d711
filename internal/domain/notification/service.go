// internal/domain/notification/service.go
package notification

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"github.com/your-org/storefront-backend/internal/pkg/events"
	"gorm.io/gorm"
)

// Service persists notification records and listens on the event bus.
// Dispatch is fire-and-forget: failures are logged here and never surfaced
// to publishers.
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new notification service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Subscribe registers the bus handlers. Async subscription keeps publishers
// from blocking on notification writes.
func (s *Service) Subscribe(bus EventBus.Bus) error {
	if err := bus.SubscribeAsync(events.TopicLowStock, s.onLowStock, false); err != nil {
		return fmt.Errorf("failed to subscribe to low stock events: %w", err)
	}
	if err := bus.SubscribeAsync(events.TopicOrderPlaced, s.onOrderPlaced, false); err != nil {
		return fmt.Errorf("failed to subscribe to order events: %w", err)
	}
	if err := bus.SubscribeAsync(events.TopicRefundApproved, s.onRefundApproved, false); err != nil {
		return fmt.Errorf("failed to subscribe to refund events: %w", err)
	}
	return nil
}

// Notify persists a notification record. Errors are logged, not returned;
// a failed notification must never fail the operation that triggered it.
func (s *Service) Notify(userID *uint, kind Kind, title, message string, meta Meta) {
	record := Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Meta:    meta,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind":  kind,
			"title": title,
		}).Error("Failed to persist notification")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"notification_id": record.ID,
		"kind":            kind,
	}).Info("Notification recorded")
}

func (s *Service) onLowStock(ev events.LowStockEvent) {
	s.Notify(nil, KindLowStock,
		fmt.Sprintf("Low stock: %s", ev.ProductName),
		fmt.Sprintf("Product %s (%s) is down to %d units (threshold %d)",
			ev.ProductName, ev.SKU, ev.Stock, ev.Threshold),
		Meta{
			"product_id": ev.ProductID,
			"sku":        ev.SKU,
			"stock":      ev.Stock,
			"threshold":  ev.Threshold,
		})
}

func (s *Service) onOrderPlaced(ev events.OrderPlacedEvent) {
	s.Notify(&ev.UserID, KindOrderPlaced,
		fmt.Sprintf("Order %s placed", ev.OrderNumber),
		fmt.Sprintf("Your order %s for %s has been received", ev.OrderNumber, ev.Total),
		Meta{
			"order_id":     ev.OrderID,
			"order_number": ev.OrderNumber,
			"total":        ev.Total,
		})
}

func (s *Service) onRefundApproved(ev events.RefundApprovedEvent) {
	s.Notify(&ev.UserID, KindRefundApproved,
		fmt.Sprintf("Refund approved for order %s", ev.OrderNumber),
		fmt.Sprintf("Your refund for order %s has been approved", ev.OrderNumber),
		Meta{
			"order_id":     ev.OrderID,
			"order_number": ev.OrderNumber,
		})
}

// GetNotifications lists a user's notifications, newest first. A nil userID
// returns the admin feed.
func (s *Service) GetNotifications(userID *uint, limit int) ([]Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	query := s.db.Order("created_at DESC").Limit(limit)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	var records []Notification
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	return records, nil
}

// GetUnreadCount returns the number of unread notifications for a user
func (s *Service) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a notification as read, scoped to its owner
func (s *Service) MarkRead(id uint, userID uint) error {
	result := s.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("notification %d", id)
	}
	return nil
}
