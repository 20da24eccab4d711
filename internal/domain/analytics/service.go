// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service aggregates sales reporting queries. Output is JSON-shaped structs
// only; no export formats.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SalesSummaryRequest bounds the reporting window
type SalesSummaryRequest struct {
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to" binding:"required"`
	Limit    int    `form:"limit,default=10"`
}

// TopProduct is one entry in the best-sellers list
type TopProduct struct {
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	SKU          string `json:"sku"`
	UnitsOrdered int    `json:"units_ordered"`
	OrderCount   int    `json:"order_count"`
}

// SalesSummary is the report over a date window
type SalesSummary struct {
	DateFrom    string          `json:"date_from"`
	DateTo      string          `json:"date_to"`
	OrderCount  int64           `json:"order_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	TopProducts []TopProduct    `json:"top_products"`
}

// DashboardStats is the admin landing-page snapshot
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockCount   int64           `json:"low_stock_count"`
	TotalUsers      int64           `json:"total_users"`
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	LifetimeRevenue decimal.Decimal `json:"lifetime_revenue"`
}

// GetSalesSummary aggregates order revenue, counts and best sellers over a
// date window. Cancelled and refunded orders are excluded from revenue.
func (s *Service) GetSalesSummary(req *SalesSummaryRequest) (*SalesSummary, error) {
	from, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return nil, apperror.Validation("invalid date_from %q", req.DateFrom)
	}
	to, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return nil, apperror.Validation("invalid date_to %q", req.DateTo)
	}
	if to.Before(from) {
		return nil, apperror.Validation("date_to must not precede date_from")
	}
	if req.Limit < 1 || req.Limit > 50 {
		req.Limit = 10
	}
	toExclusive := to.AddDate(0, 0, 1)

	base := s.db.Model(&order.Order{}).
		Where("created_at >= ? AND created_at < ?", from, toExclusive).
		Where("status NOT IN ?", []order.Status{order.StatusCancelled, order.StatusRefunded})

	var orderCount int64
	if err := base.Session(&gorm.Session{}).Count(&orderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var top []TopProduct
	err = s.db.Table("order_items").
		Select(`order_items.product_id,
			products.name AS product_name,
			products.sku,
			SUM(order_items.quantity) AS units_ordered,
			COUNT(DISTINCT order_items.order_id) AS order_count`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, toExclusive).
		Where("orders.status NOT IN ?", []order.Status{order.StatusCancelled, order.StatusRefunded}).
		Group("order_items.product_id, products.name, products.sku").
		Order("units_ordered DESC").
		Limit(req.Limit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}

	summary := &SalesSummary{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		OrderCount:  orderCount,
		Revenue:     decimal.Zero,
		TopProducts: top,
	}
	if revenue.Valid {
		summary.Revenue = revenue.Decimal.Round(2)
	}
	return summary, nil
}

// GetDashboardStats returns the admin dashboard counters
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{LifetimeRevenue: decimal.Zero}

	if err := s.db.Table("products").Where("deleted_at IS NULL").
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Table("products").
		Where("deleted_at IS NULL AND stock < low_stock_threshold").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}
	if err := s.db.Table("users").Where("deleted_at IS NULL").
		Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&order.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&order.Order{}).Where("status = ?", order.StatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	var revenue decimal.NullDecimal
	if err := s.db.Model(&order.Order{}).
		Where("status NOT IN ?", []order.Status{order.StatusCancelled, order.StatusRefunded}).
		Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.LifetimeRevenue = revenue.Decimal.Round(2)
	}

	return stats, nil
}
