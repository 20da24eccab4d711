// internal/domain/rbac/entity.go
package rbac

import (
	"time"

	"gorm.io/gorm"
)

// Permission is a named atomic capability
type Permission struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string         `gorm:"size:255" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Role owns an unordered set of permissions
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string         `gorm:"size:255" json:"description"`
	Permissions []Permission   `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserRole is the explicit user-to-role join
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_roles_user_role,unique" json:"user_id"`
	RoleID    uint      `gorm:"not null;index:idx_user_roles_user_role,unique" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Permission) TableName() string { return "permissions" }
func (Role) TableName() string       { return "roles" }
func (UserRole) TableName() string   { return "user_roles" }

// Well-known permission names used to gate admin routes
const (
	PermManageProducts   = "manage_products"
	PermManageOrders     = "manage_orders"
	PermManagePromotions = "manage_promotions"
	PermManageRoles      = "manage_roles"
	PermViewReports      = "view_reports"
)
