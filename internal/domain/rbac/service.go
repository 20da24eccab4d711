// internal/domain/rbac/service.go
package rbac

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles role and permission administration
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new rbac service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRoleRequest represents role creation data
type CreateRoleRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permission_ids"`
}

// UpdateRoleRequest represents role update data
type UpdateRoleRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PermissionIDs *[]uint `json:"permission_ids"`
}

// CreatePermissionRequest represents permission creation data
type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetRoles lists all roles with their permissions
func (s *Service) GetRoles() ([]Role, error) {
	var roles []Role
	if err := s.db.Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve roles: %w", err)
	}
	return roles, nil
}

// GetRole retrieves a single role by ID
func (s *Service) GetRole(id uint) (*Role, error) {
	var role Role
	if err := s.db.Preload("Permissions").First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("role %d", id)
		}
		return nil, fmt.Errorf("failed to retrieve role: %w", err)
	}
	return &role, nil
}

// CreateRole creates a role and attaches the given permissions
func (s *Service) CreateRole(req *CreateRoleRequest) (*Role, error) {
	perms, err := s.permissionsByIDs(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
	}
	if err := s.db.Create(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &role, nil
}

// UpdateRole applies a partial update; a permission_ids value replaces the
// role's permission set wholesale.
func (s *Service) UpdateRole(id uint, req *UpdateRoleRequest) (*Role, error) {
	role, err := s.GetRole(id)
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
	if len(updates) > 0 {
		if err := s.db.Model(role).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}

	if req.PermissionIDs != nil {
		perms, err := s.permissionsByIDs(*req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(role).Association("Permissions").Replace(perms); err != nil {
			return nil, fmt.Errorf("failed to replace role permissions: %w", err)
		}
	}

	return s.GetRole(id)
}

// DeleteRole removes a role and its user assignments
func (s *Service) DeleteRole(id uint) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("role_id = ?", id).Delete(&UserRole{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove role assignments: %w", err)
	}
	if err := tx.Delete(role).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return tx.Commit().Error
}

// GetPermissions lists all permissions
func (s *Service) GetPermissions() ([]Permission, error) {
	var perms []Permission
	if err := s.db.Order("id ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve permissions: %w", err)
	}
	return perms, nil
}

// CreatePermission creates a new permission
func (s *Service) CreatePermission(req *CreatePermissionRequest) (*Permission, error) {
	perm := Permission{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(&perm).Error; err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return &perm, nil
}

// DeletePermission removes a permission
func (s *Service) DeletePermission(id uint) error {
	result := s.db.Delete(&Permission{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("permission %d", id)
	}
	return nil
}

// AssignRole attaches a role to a user. Assigning an already-held role is a
// conflict.
func (s *Service) AssignRole(userID, roleID uint) error {
	if _, err := s.GetRole(roleID); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check role assignment: %w", err)
	}
	if count > 0 {
		return apperror.Conflict("user %d already holds role %d", userID, roleID)
	}

	assignment := UserRole{UserID: userID, RoleID: roleID}
	if err := s.db.Create(&assignment).Error; err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RevokeRole detaches a role from a user
func (s *Service) RevokeRole(userID, roleID uint) error {
	result := s.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&UserRole{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("role assignment for user %d", userID)
	}
	return nil
}

func (s *Service) permissionsByIDs(ids []uint) ([]Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []Permission
	if err := s.db.Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return nil, apperror.NotFound("one or more permissions in %v", ids)
	}
	return perms, nil
}
