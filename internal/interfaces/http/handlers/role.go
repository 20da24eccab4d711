// internal/interfaces/http/handlers/role.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/rbac"
	"gorm.io/gorm"
)

// RoleHandler handles role and permission admin endpoints
type RoleHandler struct {
	rbacService *rbac.Service
	config      *config.Config
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(db *gorm.DB, cfg *config.Config) *RoleHandler {
	return &RoleHandler{
		rbacService: rbac.NewService(db, cfg),
		config:      cfg,
	}
}

// GetRoles handles GET /admin/roles
func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.rbacService.GetRoles()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": roles})
}

// GetRole handles GET /admin/roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	role, err := h.rbacService.GetRole(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": role})
}

// CreateRole handles POST /admin/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req rbac.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.rbacService.CreateRole(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Role created",
		"data":    role,
	})
}

// UpdateRole handles PUT /admin/roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req rbac.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.rbacService.UpdateRole(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
		"data":    role,
	})
}

// DeleteRole handles DELETE /admin/roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.rbacService.DeleteRole(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// GetPermissions handles GET /admin/permissions
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	perms, err := h.rbacService.GetPermissions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": perms})
}

// CreatePermission handles POST /admin/permissions
func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req rbac.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	perm, err := h.rbacService.CreatePermission(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Permission created",
		"data":    perm,
	})
}

// DeletePermission handles DELETE /admin/permissions/:id
func (h *RoleHandler) DeletePermission(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.rbacService.DeletePermission(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permission deleted"})
}

// AssignRole handles POST /admin/users/:id/roles
func (h *RoleHandler) AssignRole(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		RoleID uint `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.rbacService.AssignRole(userID, req.RoleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role assigned"})
}

// RevokeRole handles DELETE /admin/users/:id/roles/:role_id
func (h *RoleHandler) RevokeRole(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseUintParam(c, "role_id")
	if !ok {
		return
	}

	if err := h.rbacService.RevokeRole(userID, roleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role revoked"})
}
