// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/pkg/currency"
	"gorm.io/gorm"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	catalogService *catalog.Service
	promoService   *promotion.Service
	converter      *currency.Converter
	config         *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(db *gorm.DB, cfg *config.Config) (*ProductHandler, error) {
	converter, err := currency.NewConverter(cfg.App.Currency, cfg.Currency.Rates)
	if err != nil {
		return nil, err
	}
	return &ProductHandler{
		catalogService: catalog.NewService(db, cfg),
		promoService:   promotion.NewService(db, cfg),
		converter:      converter,
		config:         cfg,
	}, nil
}

// GetProducts handles GET /products. Listed prices carry any automatic
// promotion active at request time.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req catalog.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.catalogService.GetProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	promos, err := h.promoService.ActiveAutomatic(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	priced := promotion.ApplyToProducts(list.Products, promos)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"products":    priced,
			"total":       list.Total,
			"page":        list.Page,
			"limit":       list.Limit,
			"total_pages": list.TotalPages,
		},
	})
}

// GetProduct handles GET /products/:id. An optional ?currency= parameter adds
// a display price converted from the base currency.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondPriced(c, product)
}

// GetProductBySlug handles GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondPriced(c, product)
}

func (h *ProductHandler) respondPriced(c *gin.Context, product *catalog.Product) {
	promos, err := h.promoService.ActiveAutomatic(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	priced := promotion.ApplyToProduct(product, promos)

	payload := gin.H{"product": priced}
	if code := c.Query("currency"); code != "" {
		display, err := h.converter.Convert(priced.DiscountedPrice, code)
		if err != nil {
			respondError(c, err)
			return
		}
		payload["display_price"] = display.StringFixed(2)
		payload["display_currency"] = code
	}

	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// GetCurrencies handles GET /products/currencies
func (h *ProductHandler) GetCurrencies(c *gin.Context) {
	codes := h.converter.Codes()
	sort.Strings(codes)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"base":       h.converter.Base(),
			"currencies": codes,
		},
	})
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.catalogService.CreateProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created",
		"data":    product,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated",
		"data":    product,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
