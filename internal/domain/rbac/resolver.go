// internal/domain/rbac/resolver.go
package rbac

import (
	"fmt"

	"gorm.io/gorm"
)

// PermissionSet is a resolved set of permission names
type PermissionSet map[string]struct{}

// Has reports whether a single permission name is present
func (ps PermissionSet) Has(name string) bool {
	_, ok := ps[name]
	return ok
}

// HasAll reports whether every required name is present. AND semantics; an
// empty required list is trivially satisfied.
func (ps PermissionSet) HasAll(required ...string) bool {
	for _, name := range required {
		if !ps.Has(name) {
			return false
		}
	}
	return true
}

// Names returns the set as a slice, order unspecified
func (ps PermissionSet) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	return names
}

// UnionPermissions collapses the permissions of all given roles into one
// set, duplicates dropped.
func UnionPermissions(roles []Role) PermissionSet {
	set := PermissionSet{}
	for _, role := range roles {
		for _, perm := range role.Permissions {
			set[perm.Name] = struct{}{}
		}
	}
	return set
}

// HasAnyRole reports whether any of the roles carries one of the wanted
// names. OR semantics, the coarse counterpart to HasAll.
func HasAnyRole(roles []Role, names ...string) bool {
	for _, role := range roles {
		for _, name := range names {
			if role.Name == name {
				return true
			}
		}
	}
	return false
}

// Resolver resolves a principal's roles and permissions through the explicit
// user_roles -> roles -> role_permissions join path.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a new permission resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// RolesFor loads the principal's roles with their permissions. A principal
// with no role rows resolves to an empty slice, never an error.
func (r *Resolver) RolesFor(userID uint) ([]Role, error) {
	var roles []Role
	err := r.db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Preload("Permissions").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}
	return roles, nil
}

// ResolvePermissions returns the union of permission names across all of the
// principal's roles.
func (r *Resolver) ResolvePermissions(userID uint) (PermissionSet, error) {
	roles, err := r.RolesFor(userID)
	if err != nil {
		return nil, err
	}
	return UnionPermissions(roles), nil
}

// HasPermission reports whether the principal holds every required
// permission.
func (r *Resolver) HasPermission(userID uint, required ...string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}
	set, err := r.ResolvePermissions(userID)
	if err != nil {
		return false, err
	}
	return set.HasAll(required...), nil
}

// HasRole reports whether the principal holds at least one of the named
// roles.
func (r *Resolver) HasRole(userID uint, names ...string) (bool, error) {
	roles, err := r.RolesFor(userID)
	if err != nil {
		return false, err
	}
	return HasAnyRole(roles, names...), nil
}
