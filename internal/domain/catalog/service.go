// internal/domain/catalog/service.go
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Search     string `form:"search"`
	CategoryID uint   `form:"category_id"`
	Featured   *bool  `form:"featured"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	SKU               string                 `json:"sku" binding:"required"`
	Name              string                 `json:"name" binding:"required"`
	Slug              string                 `json:"slug" binding:"required"`
	Description       string                 `json:"description"`
	Price             decimal.Decimal        `json:"price" binding:"required"`
	Stock             int                    `json:"stock"`
	LowStockThreshold int                    `json:"low_stock_threshold"`
	ImageURL          string                 `json:"image_url"`
	CategoryID        *uint                  `json:"category_id"`
	Variants          []CreateVariantRequest `json:"variants"`
}

// CreateVariantRequest represents variant creation data
type CreateVariantRequest struct {
	SKU        string           `json:"sku" binding:"required"`
	Attributes map[string]any   `json:"attributes"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	ImageURL   string           `json:"image_url"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	Stock             *int             `json:"stock"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	ImageURL          *string          `json:"image_url"`
	CategoryID        *uint            `json:"category_id"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Variants", "is_active = ?", true).
		Where("is_active = ?", true)

	if req.Search != "" {
		term := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR sku ILIKE ?", term, term, term)
	}
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Featured != nil {
		query = query.Where("is_featured = ?", *req.Featured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	sortBy := req.SortBy
	switch sortBy {
	case "created_at", "updated_at", "price", "name", "stock":
	default:
		sortBy = "created_at"
	}
	sortOrder := req.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Preload("Variants").Where("id = ?", id).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("product %d", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Preload("Variants").
		Where("slug = ? AND is_active = ?", slug, true).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("product %q", slug)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductsByIDs fetches a set of products keyed by ID, carrying only
// active variants so cart views resolve against the same variant set as cart
// mutations. Missing IDs are simply absent from the result; callers treat
// them as dangling references.
func (s *Service) GetProductsByIDs(ids []uint) (map[uint]*Product, error) {
	products := make(map[uint]*Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var rows []Product
	if err := s.db.Preload("Variants", "is_active = ?", true).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	for i := range rows {
		products[rows[i].ID] = &rows[i]
	}
	return products, nil
}

// CreateProduct creates a new product with its variants
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	if req.Price.IsNegative() {
		return nil, apperror.Validation("price cannot be negative")
	}

	product := Product{
		SKU:               req.SKU,
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		ImageURL:          req.ImageURL,
		CategoryID:        req.CategoryID,
		IsActive:          true,
	}
	if product.LowStockThreshold <= 0 {
		product.LowStockThreshold = 5
	}

	for _, v := range req.Variants {
		product.Variants = append(product.Variants, Variant{
			SKU:        v.SKU,
			Attributes: NormalizeAttributes(v.Attributes),
			Price:      v.Price,
			Stock:      v.Stock,
			ImageURL:   v.ImageURL,
			IsActive:   true,
		})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperror.Validation("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) == 0 {
		return product, nil
	}
	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProduct(id)
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product %d", id)
	}
	return nil
}

// DecrementStock atomically decrements product stock, guarded by a
// sufficient-stock condition at the store so concurrent server processes
// cannot oversell. Returns InsufficientStock when the guard fails.
func (s *Service) DecrementStock(tx *gorm.DB, productID uint, quantity int) (*Product, error) {
	result := tx.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var current Product
		if err := tx.Select("id", "stock").First(&current, productID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NotFound("product %d", productID)
			}
			return nil, fmt.Errorf("failed to read product stock: %w", err)
		}
		return nil, apperror.NewInsufficientStock(productID, quantity, current.Stock)
	}

	var updated Product
	if err := tx.First(&updated, productID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	return &updated, nil
}

// RestockProduct atomically increments product stock. Pass s.db as tx when
// no enclosing transaction is needed.
func (s *Service) RestockProduct(tx *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperror.Validation("restock quantity must be positive")
	}
	result := tx.Model(&Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to restock product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product %d", productID)
	}
	return nil
}
