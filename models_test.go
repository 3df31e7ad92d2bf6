package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAdminIsEnabled tests the status helper
func TestAdminIsEnabled(t *testing.T) {
	assert.True(t, (&Admin{Status: StatusEnabled}).IsEnabled())
	assert.False(t, (&Admin{Status: StatusDisabled}).IsEnabled())
}

// TestMenuIsRoot tests the root helper
func TestMenuIsRoot(t *testing.T) {
	assert.True(t, (&Menu{}).IsRoot())

	parent := int64(1)
	assert.False(t, (&Menu{ParentID: &parent}).IsRoot())
}

// TestRelationKindValid tests the closed relation set
func TestRelationKindValid(t *testing.T) {
	assert.True(t, RelationAdminRoles.Valid())
	assert.True(t, RelationRoleMenus.Valid())
	assert.True(t, RelationRoleResources.Valid())
	assert.False(t, RelationKind("admin-menus").Valid())
	assert.False(t, RelationKind("").Valid())
}

// TestRelationKindString tests the wire labels
func TestRelationKindString(t *testing.T) {
	assert.Equal(t, "admin-roles", RelationAdminRoles.String())
	assert.Equal(t, "role-menus", RelationRoleMenus.String())
	assert.Equal(t, "role-resources", RelationRoleResources.String())
}

// TestSpecForUnknownKind tests the relation lookup failure path
func TestSpecForUnknownKind(t *testing.T) {
	_, err := specFor(RelationKind("unknown"))
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestDedupeIDs tests duplicate removal and ordering
func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, dedupeIDs([]int64{3, 1, 2, 3, 1}))
	assert.Equal(t, []int64{5}, dedupeIDs([]int64{5}))
	assert.Empty(t, dedupeIDs(nil))
}
