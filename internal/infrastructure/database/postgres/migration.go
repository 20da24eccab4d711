// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/domain/rbac"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order matters: base tables first.
	models := []interface{}{
		&user.User{},

		&rbac.Permission{},
		&rbac.Role{},
		&rbac.UserRole{},

		&catalog.Category{},
		&catalog.Product{},
		&catalog.Variant{},

		&promotion.Promotion{},

		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},
		&order.Refund{},

		&notification.Notification{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",
		"CREATE INDEX IF NOT EXISTS idx_product_variants_product_active ON product_variants(product_id, is_active)",

		// Promotion window lookup is the hot read path
		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions(type, is_active, starts_at, ends_at)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_product ON promotions(product_id)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	log.Println("Database indexes created")
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	if err := m.seedPermissions(); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	if err := m.seedAdminRole(); err != nil {
		return fmt.Errorf("failed to seed admin role: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("Initial data seeded successfully")
	return nil
}

// seedPermissions creates the well-known permissions
func (m *Migration) seedPermissions() error {
	permissions := []rbac.Permission{
		{Name: rbac.PermManageProducts, Description: "Create, update and delete catalog products"},
		{Name: rbac.PermManageOrders, Description: "Update order status and approve refunds"},
		{Name: rbac.PermManagePromotions, Description: "Create and manage promotions"},
		{Name: rbac.PermManageRoles, Description: "Manage roles, permissions and assignments"},
		{Name: rbac.PermViewReports, Description: "View sales reports and dashboard stats"},
	}

	for _, perm := range permissions {
		var existing rbac.Permission
		if err := m.db.Where("name = ?", perm.Name).First(&existing).Error; err != nil {
			if err := m.db.Create(&perm).Error; err != nil {
				return err
			}
			log.Printf("Created permission: %s", perm.Name)
		}
	}
	return nil
}

// seedAdminRole creates the admin role holding every permission
func (m *Migration) seedAdminRole() error {
	var existing rbac.Role
	if err := m.db.Where("name = ?", "admin").First(&existing).Error; err == nil {
		return nil
	}

	var perms []rbac.Permission
	if err := m.db.Find(&perms).Error; err != nil {
		return err
	}

	role := rbac.Role{
		Name:        "admin",
		Description: "Full administrative access",
		Permissions: perms,
	}
	if err := m.db.Create(&role).Error; err != nil {
		return err
	}
	log.Println("Created admin role")
	return nil
}

// seedAdminUser creates the default admin account and assigns the admin role
func (m *Migration) seedAdminUser() error {
	var existing user.User
	if err := m.db.Where("email = ?", "admin@example.com").First(&existing).Error; err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	var adminRole rbac.Role
	if err := m.db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return fmt.Errorf("failed to load admin role: %w", err)
	}
	assignment := rbac.UserRole{UserID: adminUser.ID, RoleID: adminRole.ID}
	if err := m.db.Create(&assignment).Error; err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Println("Created admin user: admin@example.com")
	return nil
}
