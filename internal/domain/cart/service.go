// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Direction of a quantity update
const (
	DirectionAdd      = "add"
	DirectionSubtract = "subtract"
)

// Service handles cart business logic
type Service struct {
	db             *gorm.DB
	redisClient    *redis.Client
	config         *config.Config
	catalogService *catalog.Service
	promoService   *promotion.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:             db,
		redisClient:    redisClient,
		config:         cfg,
		catalogService: catalog.NewService(db, cfg),
		promoService:   promotion.NewService(db, cfg),
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID  uint           `json:"product_id" binding:"required"`
	Attributes map[string]any `json:"attributes"`
	Quantity   int            `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest represents a set-quantity request; quantity below 1
// removes the line.
type SetQuantityRequest struct {
	ProductID  uint           `json:"product_id" binding:"required"`
	Attributes map[string]any `json:"attributes"`
	Quantity   int            `json:"quantity"`
}

// UpdateQuantityRequest represents a single-step increment/decrement
type UpdateQuantityRequest struct {
	ProductID  uint           `json:"product_id" binding:"required"`
	Attributes map[string]any `json:"attributes"`
	Direction  string         `json:"direction" binding:"required,oneof=add subtract"`
}

// GetCart retrieves the reconciled cart view for a user or guest session,
// priced against the automatic promotions active right now.
func (s *Service) GetCart(userID *uint, sessionID string) (*CartResponse, error) {
	lines, updatedAt, err := s.loadLines(userID, sessionID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalogService.GetProductsByIDs(ids)
	if err != nil {
		return nil, err
	}

	reconciled := Reconcile(lines, products)

	promos, err := s.promoService.ActiveAutomatic(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	response := &CartResponse{
		SessionID: sessionID,
		UserID:    userID,
		Items:     make([]CartLineResponse, 0, len(reconciled)),
		UpdatedAt: updatedAt,
	}

	for _, line := range reconciled {
		discounted, pct := promotion.ApplyToPrice(line.Price, promos, line.Product.ID)
		lineTotal := discounted.Mul(decimal.NewFromInt(int64(line.Quantity)))

		response.Items = append(response.Items, CartLineResponse{
			ProductID:          line.Product.ID,
			ProductName:        line.Product.Name,
			SKU:                line.Product.SKU,
			Attributes:         line.Attributes,
			Quantity:           line.Quantity,
			Price:              line.Price.Round(2),
			DiscountPercentage: pct,
			DiscountedPrice:    discounted,
			LineTotal:          lineTotal,
			Stock:              line.Stock,
			ImageURL:           line.ImageURL,
		})

		response.Totals.TotalQuantity += line.Quantity
		response.Totals.SubTotal = response.Totals.SubTotal.Add(line.Price.Round(2).Mul(decimal.NewFromInt(int64(line.Quantity))))
		response.Totals.TotalAmount = response.Totals.TotalAmount.Add(lineTotal)
	}
	response.Totals.ItemCount = len(response.Items)
	response.Totals.DiscountAmount = response.Totals.SubTotal.Sub(response.Totals.TotalAmount)

	return response, nil
}

// AddToCart adds quantity to the line keyed by (product, attributes),
// creating it when absent. The merged total is checked against the resolved
// stock ceiling before committing.
func (s *Service) AddToCart(userID *uint, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	resolved, err := s.resolveProductLine(req.ProductID, req.Attributes)
	if err != nil {
		return nil, err
	}

	existing, err := s.currentQuantity(userID, sessionID, resolved)
	if err != nil {
		return nil, err
	}

	decision, err := decideAdd(req.ProductID, existing, req.Quantity, resolved.Stock)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		err = s.setUserQuantity(*userID, resolved, decision.Quantity)
	} else {
		err = s.setGuestQuantity(sessionID, resolved, decision.Quantity, false)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(userID, sessionID)
}

// SetQuantity replaces the quantity of an existing line. Quantity below 1
// removes the line; a missing key is a not-found error.
func (s *Service) SetQuantity(userID *uint, sessionID string, req *SetQuantityRequest) (*CartResponse, error) {
	resolved, err := s.resolveProductLine(req.ProductID, req.Attributes)
	if err != nil {
		return nil, err
	}

	existing, err := s.currentQuantity(userID, sessionID, resolved)
	if err != nil {
		return nil, err
	}
	decision, err := decideSet(req.ProductID, existing, req.Quantity, resolved.Stock)
	if err != nil {
		return nil, err
	}
	if decision.Remove {
		return s.removeResolvedLine(userID, sessionID, resolved)
	}

	if userID != nil {
		err = s.setUserQuantity(*userID, resolved, decision.Quantity)
	} else {
		err = s.setGuestQuantity(sessionID, resolved, decision.Quantity, false)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(userID, sessionID)
}

// UpdateQuantity steps a line's quantity by one in the given direction.
// Adding past the stock ceiling is a capacity error; subtracting below 1
// removes the line entirely.
func (s *Service) UpdateQuantity(userID *uint, sessionID string, req *UpdateQuantityRequest) (*CartResponse, error) {
	resolved, err := s.resolveProductLine(req.ProductID, req.Attributes)
	if err != nil {
		return nil, err
	}

	existing, err := s.currentQuantity(userID, sessionID, resolved)
	if err != nil {
		return nil, err
	}
	decision, err := decideStep(req.ProductID, existing, req.Direction, resolved.Stock)
	if err != nil {
		return nil, err
	}
	if decision.Remove {
		return s.removeResolvedLine(userID, sessionID, resolved)
	}

	if userID != nil {
		err = s.setUserQuantity(*userID, resolved, decision.Quantity)
	} else {
		err = s.setGuestQuantity(sessionID, resolved, decision.Quantity, false)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(userID, sessionID)
}

// RemoveFromCart deletes lines by (product, attributes) key. When no
// attributes are given, every line for the product is removed regardless of
// its attribute set.
func (s *Service) RemoveFromCart(userID *uint, sessionID string, productID uint, attributes map[string]any) (*CartResponse, error) {
	if len(attributes) == 0 {
		if userID != nil {
			if err := s.db.Where("user_id = ? AND product_id = ?", *userID, productID).
				Delete(&CartItem{}).Error; err != nil {
				return nil, fmt.Errorf("failed to remove cart lines: %w", err)
			}
		} else {
			sessionCart, err := s.getGuestCart(sessionID)
			if err != nil {
				return nil, err
			}
			kept := sessionCart.Items[:0]
			for _, item := range sessionCart.Items {
				if item.ProductID != productID {
					kept = append(kept, item)
				}
			}
			sessionCart.Items = kept
			sessionCart.UpdatedAt = time.Now().UTC()
			if err := s.saveGuestCart(sessionID, sessionCart); err != nil {
				return nil, err
			}
		}
		return s.GetCart(userID, sessionID)
	}

	resolved, err := s.resolveProductLine(productID, attributes)
	if err != nil {
		return nil, err
	}
	return s.removeResolvedLine(userID, sessionID, resolved)
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(userID *uint, sessionID string) error {
	if userID != nil {
		return s.db.Where("user_id = ?", *userID).Delete(&CartItem{}).Error
	}
	ctx := context.Background()
	return s.redisClient.Del(ctx, s.guestCartKey(sessionID)).Err()
}

// GetCartItemCount returns the total quantity held in the cart
func (s *Service) GetCartItemCount(userID *uint, sessionID string) (int, error) {
	response, err := s.GetCart(userID, sessionID)
	if err != nil {
		return 0, nil // Treat a missing cart as empty
	}
	return response.Totals.TotalQuantity, nil
}

// MergeGuestCartToUser folds the guest session cart into the user's
// persisted cart on login, summing quantities per (product, attributes) key
// and clamping each merged line to its stock ceiling. The session cart is
// discarded afterwards.
func (s *Service) MergeGuestCartToUser(userID uint, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	guestCart, err := s.getGuestCart(sessionID)
	if err != nil || len(guestCart.Items) == 0 {
		return nil // Nothing to merge
	}

	for _, item := range guestCart.Items {
		resolved, err := s.resolveProductLine(item.ProductID, item.Attributes)
		if err != nil {
			continue // Dangling or inactive product; drop the line silently.
		}

		userIDPtr := &userID
		existing, err := s.currentQuantity(userIDPtr, "", resolved)
		if err != nil {
			return err
		}

		merged := existing + item.Quantity
		if merged > resolved.Stock {
			merged = resolved.Stock
		}
		if merged < 1 {
			continue
		}
		if err := s.setUserQuantity(userID, resolved, merged); err != nil {
			return err
		}
	}

	return s.ClearCart(nil, sessionID)
}

// Private helper methods

// resolveProductLine loads the product and resolves the effective variant
// view for the requested attribute set.
func (s *Service) resolveProductLine(productID uint, attributes any) (catalog.ResolvedItem, error) {
	var product catalog.Product
	result := s.db.Preload("Variants", "is_active = ?", true).
		Where("id = ? AND is_active = ?", productID, true).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return catalog.ResolvedItem{}, apperror.NotFound("product %d", productID)
		}
		return catalog.ResolvedItem{}, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return catalog.ResolveVariant(&product, catalog.NormalizeAttributes(attributes)), nil
}

// currentQuantity returns the quantity currently held for the resolved line
// key, summed across stored lines that reconcile to the same key.
func (s *Service) currentQuantity(userID *uint, sessionID string, resolved catalog.ResolvedItem) (int, error) {
	key := lineKey(resolved.Product.ID, resolved.Attributes)
	total := 0

	if userID != nil {
		var items []CartItem
		if err := s.db.Where("user_id = ? AND product_id = ?", *userID, resolved.Product.ID).
			Find(&items).Error; err != nil {
			return 0, fmt.Errorf("failed to retrieve cart lines: %w", err)
		}
		for _, item := range items {
			stored := catalog.ResolveVariant(resolved.Product, item.Attributes)
			if lineKey(item.ProductID, stored.Attributes) == key {
				total += item.Quantity
			}
		}
		return total, nil
	}

	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return 0, err
	}
	for _, item := range sessionCart.Items {
		if item.ProductID != resolved.Product.ID {
			continue
		}
		stored := catalog.ResolveVariant(resolved.Product, item.Attributes)
		if lineKey(item.ProductID, stored.Attributes) == key {
			total += item.Quantity
		}
	}
	return total, nil
}

// setUserQuantity upserts the persisted line for the resolved key, replacing
// any stored lines that reconcile to it.
func (s *Service) setUserQuantity(userID uint, resolved catalog.ResolvedItem, quantity int) error {
	key := lineKey(resolved.Product.ID, resolved.Attributes)

	var items []CartItem
	if err := s.db.Where("user_id = ? AND product_id = ?", userID, resolved.Product.ID).
		Find(&items).Error; err != nil {
		return fmt.Errorf("failed to retrieve cart lines: %w", err)
	}

	var keeper *CartItem
	for i := range items {
		stored := catalog.ResolveVariant(resolved.Product, items[i].Attributes)
		if lineKey(items[i].ProductID, stored.Attributes) != key {
			continue
		}
		if keeper == nil {
			keeper = &items[i]
			continue
		}
		// Duplicate rows for the same key collapse into the keeper.
		if err := s.db.Delete(&items[i]).Error; err != nil {
			return fmt.Errorf("failed to collapse duplicate cart line: %w", err)
		}
	}

	if keeper == nil {
		newItem := CartItem{
			UserID:     userID,
			ProductID:  resolved.Product.ID,
			Attributes: resolved.Attributes,
			Quantity:   quantity,
		}
		return s.db.Create(&newItem).Error
	}

	keeper.Quantity = quantity
	keeper.Attributes = resolved.Attributes
	return s.db.Save(keeper).Error
}

// setGuestQuantity upserts the session line for the resolved key.
func (s *Service) setGuestQuantity(sessionID string, resolved catalog.ResolvedItem, quantity int, remove bool) error {
	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	key := lineKey(resolved.Product.ID, resolved.Attributes)
	kept := sessionCart.Items[:0]
	found := false
	for _, item := range sessionCart.Items {
		if item.ProductID == resolved.Product.ID {
			stored := catalog.ResolveVariant(resolved.Product, item.Attributes)
			if lineKey(item.ProductID, stored.Attributes) == key {
				if remove || found {
					continue // Drop removed lines and collapse duplicates.
				}
				item.Quantity = quantity
				item.Attributes = resolved.Attributes
				found = true
			}
		}
		kept = append(kept, item)
	}
	sessionCart.Items = kept

	if !found && !remove {
		sessionCart.Items = append(sessionCart.Items, SessionCartItem{
			ProductID:  resolved.Product.ID,
			Attributes: resolved.Attributes,
			Quantity:   quantity,
			AddedAt:    time.Now().UTC(),
		})
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(sessionID, sessionCart)
}

// removeResolvedLine removes the line for the resolved key from whichever
// store holds the cart and returns the refreshed view.
func (s *Service) removeResolvedLine(userID *uint, sessionID string, resolved catalog.ResolvedItem) (*CartResponse, error) {
	if userID != nil {
		var items []CartItem
		if err := s.db.Where("user_id = ? AND product_id = ?", *userID, resolved.Product.ID).
			Find(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to retrieve cart lines: %w", err)
		}
		key := lineKey(resolved.Product.ID, resolved.Attributes)
		for i := range items {
			stored := catalog.ResolveVariant(resolved.Product, items[i].Attributes)
			if lineKey(items[i].ProductID, stored.Attributes) == key {
				if err := s.db.Delete(&items[i]).Error; err != nil {
					return nil, fmt.Errorf("failed to remove cart line: %w", err)
				}
			}
		}
	} else {
		if err := s.setGuestQuantity(sessionID, resolved, 0, true); err != nil {
			return nil, err
		}
	}
	return s.GetCart(userID, sessionID)
}

// loadLines reads raw cart lines from the backing store for the principal.
func (s *Service) loadLines(userID *uint, sessionID string) ([]Line, time.Time, error) {
	if userID != nil {
		var items []CartItem
		if err := s.db.Where("user_id = ?", *userID).Order("created_at ASC").
			Find(&items).Error; err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to retrieve user cart: %w", err)
		}

		lines := make([]Line, 0, len(items))
		updatedAt := time.Now().UTC()
		for i, item := range items {
			lines = append(lines, Line{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				Attributes: item.Attributes,
			})
			if i == 0 || item.UpdatedAt.After(updatedAt) {
				updatedAt = item.UpdatedAt
			}
		}
		return lines, updatedAt, nil
	}

	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return nil, time.Time{}, err
	}
	lines := make([]Line, 0, len(sessionCart.Items))
	for _, item := range sessionCart.Items {
		lines = append(lines, Line{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		})
	}
	return lines, sessionCart.UpdatedAt, nil
}

func (s *Service) guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getGuestCart(sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, apperror.Validation("session ID required for guest cart")
	}

	ctx := context.Background()
	data, err := s.redisClient.Get(ctx, s.guestCartKey(sessionID)).Result()
	if err == redis.Nil {
		// Cart doesn't exist yet; created lazily on first add.
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve guest cart: %w", err)
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(data), &sessionCart); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	return &sessionCart, nil
}

func (s *Service) saveGuestCart(sessionID string, sessionCart *SessionCart) error {
	ctx := context.Background()
	data, err := json.Marshal(sessionCart)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	return s.redisClient.Set(ctx, s.guestCartKey(sessionID), data, s.config.Cart.SessionTTL).Err()
}
