package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoleLifecycle tests create, fetch, update and delete with a real database
func TestRoleLifecycle(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("lifecycle")
	assert.NotZero(t, role.ID)
	assert.Equal(t, StatusEnabled, role.Status)

	fetched, err := h.service.GetRole(h.ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Name, fetched.Name)

	desc := "updated description"
	sortOrder := 7
	updated, err := h.service.UpdateRole(h.ctx, role.ID, UpdateRoleParams{Description: &desc, Sort: &sortOrder}, 0)
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, 7, updated.Sort)

	require.NoError(t, h.service.DeleteRole(h.ctx, role.ID, 0))

	_, err = h.service.GetRole(h.ctx, role.ID)
	assert.True(t, IsNotFound(err))
}

// TestCreateRoleValidation tests name requirements and uniqueness
func TestCreateRoleValidation(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	_, err := h.service.CreateRole(h.ctx, CreateRoleParams{}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	first := h.CreateTestRole("uniquename")
	_, err = h.service.CreateRole(h.ctx, CreateRoleParams{Name: first.Name}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestDeleteRoleWithMembers tests that a role with admins refuses deletion
func TestDeleteRoleWithMembers(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("withmembers")
	admin := h.CreateTestAdmin("member", role.ID)

	err := h.service.DeleteRole(h.ctx, role.ID, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoleHasAdmins)
	assert.True(t, IsBusinessRule(err))

	// After revoking the membership the delete goes through.
	require.NoError(t, h.service.ReplaceRelations(h.ctx, admin.ID, RelationAdminRoles, nil, 0, "", ""))
	require.NoError(t, h.service.DeleteRole(h.ctx, role.ID, 0))
}

// TestDeleteRoleCascadesGrants tests that menu and resource grants go with the role
func TestDeleteRoleCascadesGrants(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("cascade")
	menu := h.CreateTestMenu("cascade-menu", nil)
	category := h.CreateTestCategory("cascade-cat")
	resource := h.CreateTestResource(category.ID, "cascade", "index")

	h.GrantMenus(role.ID, menu.ID)
	h.GrantResources(role.ID, resource.ID)

	require.NoError(t, h.service.DeleteRole(h.ctx, role.ID, 0))

	menuIDs, err := h.service.GetRelationIDs(h.ctx, role.ID, RelationRoleMenus)
	require.NoError(t, err)
	assert.Empty(t, menuIDs)

	resourceIDs, err := h.service.GetRelationIDs(h.ctx, role.ID, RelationRoleResources)
	require.NoError(t, err)
	assert.Empty(t, resourceIDs)

	// The granted entities themselves survive.
	_, err = h.service.GetMenu(h.ctx, menu.ID)
	assert.NoError(t, err)
	_, err = h.service.GetResource(h.ctx, resource.ID)
	assert.NoError(t, err)
}

// TestListRolesFilters tests keyword and status filters
func TestListRolesFilters(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("rolesearch")

	page, err := h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(role.Name), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, role.ID, page.Items[0].ID)

	disabled := StatusDisabled
	_, err = h.service.UpdateRole(h.ctx, role.ID, UpdateRoleParams{Status: &disabled}, 0)
	require.NoError(t, err)

	page, err = h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(role.Name).WithStatus(StatusEnabled), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
