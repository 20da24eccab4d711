// internal/interfaces/http/handlers/notification.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *notification.Service
	config              *config.Config
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notification.NewService(db, cfg, logger),
		config:              cfg,
	}
}

func notificationLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		return 20
	}
	return limit
}

// GetNotifications handles GET /notifications, listing the caller's feed
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	notifications, err := h.notificationService.GetNotifications(&userID, notificationLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// GetUnreadCount handles GET /notifications/unread
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	count, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"unread": count},
	})
}

// MarkRead handles PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// GetAdminFeed handles GET /admin/notifications, the shared operational feed
// fed by low stock and refund events
func (h *NotificationHandler) GetAdminFeed(c *gin.Context) {
	notifications, err := h.notificationService.GetNotifications(nil, notificationLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}
