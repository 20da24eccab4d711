// internal/interfaces/http/handlers/promotion.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"gorm.io/gorm"
)

// PromotionHandler handles promotion admin endpoints
type PromotionHandler struct {
	promoService *promotion.Service
	config       *config.Config
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(db *gorm.DB, cfg *config.Config) *PromotionHandler {
	return &PromotionHandler{
		promoService: promotion.NewService(db, cfg),
		config:       cfg,
	}
}

// GetPromotions handles GET /admin/promotions
func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	promos, err := h.promoService.GetPromotions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promos})
}

// GetPromotion handles GET /admin/promotions/:id
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	promo, err := h.promoService.GetPromotion(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promo})
}

// CreatePromotion handles POST /admin/promotions
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req promotion.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	promo, err := h.promoService.CreatePromotion(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promotion created",
		"data":    promo,
	})
}

// UpdatePromotion handles PUT /admin/promotions/:id
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req promotion.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	promo, err := h.promoService.UpdatePromotion(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion updated",
		"data":    promo,
	})
}

// DeletePromotion handles DELETE /admin/promotions/:id
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.promoService.DeletePromotion(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted"})
}
