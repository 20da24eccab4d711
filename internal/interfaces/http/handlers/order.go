// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, bus EventBus.Bus, logger *logrus.Logger) *OrderHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	return &OrderHandler{
		orderService: order.NewService(db, cfg, cartService, bus, logger),
		config:       cfg,
	}
}

// CreateOrder handles POST /orders, placing an order from the current cart
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	sessionID := middleware.GetSessionIDFromContext(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	placed, err := h.orderService.CreateOrder(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"data":    placed,
	})
}

// GetOrders handles GET /orders, listing the caller's own orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.orderService.GetOrders(&userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GetOrder handles GET /orders/:id, returning the order with its lines
// re-priced against the promotions active right now
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrderDetail(id, &userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	// Ownership check before the status change, which is not user scoped.
	if _, err := h.orderService.GetOrder(id, &userID); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(id, userID, &order.UpdateStatusRequest{
		Status:  order.StatusCancelled,
		Comment: "Cancelled by customer",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled",
		"data":    updated,
	})
}

// RequestRefund handles POST /orders/:id/refund
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := h.orderService.RequestRefund(id, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Refund requested",
		"data":    refund,
	})
}

// AdminGetOrders handles GET /admin/orders, listing orders across all users
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.orderService.GetOrders(nil, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrderDetail(id, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(id, actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"data":    updated,
	})
}

// ApproveRefund handles POST /admin/orders/:id/refund/approve
func (h *OrderHandler) ApproveRefund(c *gin.Context) {
	approverID, _ := middleware.GetUserIDFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	refund, err := h.orderService.ApproveRefund(id, approverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Refund approved",
		"data":    refund,
	})
}
