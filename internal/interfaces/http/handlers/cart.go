// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. Carts work for both guests (session
// header) and authenticated users.
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, redisClient, cfg),
		config:      cfg,
	}
}

// cartIdentity returns the acting user, if authenticated, and the session ID
func cartIdentity(c *gin.Context) (*uint, string) {
	sessionID := middleware.GetSessionIDFromContext(c)
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return &userID, sessionID
	}
	return nil, sessionID
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, sessionID := cartIdentity(c)

	response, err := h.cartService.GetCart(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, sessionID := cartIdentity(c)
	response, err := h.cartService.AddToCart(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    response,
	})
}

// SetQuantity handles PUT /cart/items
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req cart.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, sessionID := cartIdentity(c)
	response, err := h.cartService.SetQuantity(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    response,
	})
}

// UpdateQuantity handles PATCH /cart/items, stepping a line up or down by one
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cart.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, sessionID := cartIdentity(c)
	response, err := h.cartService.UpdateQuantity(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    response,
	})
}

// RemoveFromCart handles DELETE /cart/items/:product_id. Without an attributes
// body every line for the product is removed.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	var req struct {
		Attributes map[string]any `json:"attributes"`
	}
	// The body is optional; an empty body means remove all lines for the product.
	_ = c.ShouldBindJSON(&req)

	userID, sessionID := cartIdentity(c)
	response, err := h.cartService.RemoveFromCart(userID, sessionID, productID, req.Attributes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    response,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, sessionID := cartIdentity(c)

	if err := h.cartService.ClearCart(userID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// GetCartItemCount handles GET /cart/count
func (h *CartHandler) GetCartItemCount(c *gin.Context) {
	userID, sessionID := cartIdentity(c)

	count, err := h.cartService.GetCartItemCount(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"count": count},
	})
}
