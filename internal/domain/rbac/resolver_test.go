package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rolesFixture() []Role {
	return []Role{
		{
			ID:   1,
			Name: "sales",
			Permissions: []Permission{
				{ID: 1, Name: "view_products"},
			},
		},
		{
			ID:   2,
			Name: "catalog_editor",
			Permissions: []Permission{
				{ID: 1, Name: "view_products"},
				{ID: 2, Name: "edit_product"},
			},
		},
	}
}

func TestUnionPermissions_CollapsesDuplicates(t *testing.T) {
	set := UnionPermissions(rolesFixture())
	assert.Len(t, set, 2)
	assert.True(t, set.Has("view_products"))
	assert.True(t, set.Has("edit_product"))
}

func TestUnionPermissions_NoRoles(t *testing.T) {
	set := UnionPermissions(nil)
	assert.NotNil(t, set)
	assert.Empty(t, set)
	assert.False(t, set.Has("anything"))
}

func TestHasAll_AndSemantics(t *testing.T) {
	salesOnly := UnionPermissions(rolesFixture()[:1])

	assert.True(t, salesOnly.HasAll(), "empty required list is trivially true")
	assert.True(t, salesOnly.HasAll("view_products"))
	assert.False(t, salesOnly.HasAll("view_products", "edit_product"))
	assert.False(t, salesOnly.HasAll("edit_product"))
}

func TestHasAll_EmptySetOnlySatisfiesEmptyRequirement(t *testing.T) {
	empty := UnionPermissions(nil)
	assert.True(t, empty.HasAll())
	assert.False(t, empty.HasAll("view_products"))
}

func TestHasAnyRole_OrSemantics(t *testing.T) {
	roles := rolesFixture()

	assert.True(t, HasAnyRole(roles, "sales"))
	assert.True(t, HasAnyRole(roles, "admin", "catalog_editor"))
	assert.False(t, HasAnyRole(roles, "admin"))
	assert.False(t, HasAnyRole(roles))
	assert.False(t, HasAnyRole(nil, "sales"))
}
