// internal/domain/promotion/service.go
package promotion

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles promotion business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new promotion service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreatePromotionRequest represents promotion creation data
type CreatePromotionRequest struct {
	Name       string    `json:"name" binding:"required"`
	ProductID  uint      `json:"product_id" binding:"required"`
	Type       Type      `json:"type"`
	Percentage int       `json:"percentage" binding:"required"`
	Code       string    `json:"code"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
}

// UpdatePromotionRequest represents promotion update data
type UpdatePromotionRequest struct {
	Name       *string    `json:"name"`
	Percentage *int       `json:"percentage"`
	Code       *string    `json:"code"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	IsActive   *bool      `json:"is_active"`
}

// ActiveAutomatic returns the automatic promotions applicable at the given
// instant, ordered by id so the first-match tie-break is deterministic.
func (s *Service) ActiveAutomatic(now time.Time) ([]Promotion, error) {
	var promos []Promotion
	err := s.db.
		Where("type = ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?",
			TypeAutomatic, true, now, now).
		Order("id ASC").
		Find(&promos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active promotions: %w", err)
	}
	return promos, nil
}

// GetPromotions lists all promotions
func (s *Service) GetPromotions() ([]Promotion, error) {
	var promos []Promotion
	if err := s.db.Order("id ASC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}
	return promos, nil
}

// GetPromotion retrieves a single promotion by ID
func (s *Service) GetPromotion(id uint) (*Promotion, error) {
	var promo Promotion
	if err := s.db.First(&promo, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("promotion %d", id)
		}
		return nil, fmt.Errorf("failed to retrieve promotion: %w", err)
	}
	return &promo, nil
}

// CreatePromotion creates a new promotion
func (s *Service) CreatePromotion(req *CreatePromotionRequest) (*Promotion, error) {
	if req.Percentage < 0 || req.Percentage > 100 {
		return nil, apperror.Validation("percentage must be between 0 and 100")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperror.Validation("ends_at must be after starts_at")
	}

	promoType := req.Type
	if promoType == "" {
		promoType = TypeAutomatic
	}
	switch promoType {
	case TypeAutomatic, TypeCode, TypeHybrid:
	default:
		return nil, apperror.Validation("unknown promotion type %q", promoType)
	}
	if promoType != TypeAutomatic && req.Code == "" {
		return nil, apperror.Validation("code is required for %s promotions", promoType)
	}

	var productCount int64
	if err := s.db.Table("products").Where("id = ? AND deleted_at IS NULL", req.ProductID).Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}
	if productCount == 0 {
		return nil, apperror.NotFound("product %d", req.ProductID)
	}

	promo := Promotion{
		Name:       req.Name,
		ProductID:  req.ProductID,
		Type:       promoType,
		Percentage: req.Percentage,
		Code:       req.Code,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		IsActive:   true,
	}
	if err := s.db.Create(&promo).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return &promo, nil
}

// UpdatePromotion applies a partial update to a promotion
func (s *Service) UpdatePromotion(id uint, req *UpdatePromotionRequest) (*Promotion, error) {
	promo, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Percentage != nil {
		if *req.Percentage < 0 || *req.Percentage > 100 {
			return nil, apperror.Validation("percentage must be between 0 and 100")
		}
		updates["percentage"] = *req.Percentage
	}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return promo, nil
	}
	if err := s.db.Model(promo).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	return s.GetPromotion(id)
}

// DeletePromotion soft-deletes a promotion
func (s *Service) DeletePromotion(id uint) error {
	result := s.db.Delete(&Promotion{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("promotion %d", id)
	}
	return nil
}
