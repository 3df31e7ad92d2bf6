package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMenuLevelsDerived tests that levels follow the parent chain on create
func TestMenuLevelsDerived(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	root := h.CreateTestMenu("root", nil)
	assert.Equal(t, 0, root.Level)
	assert.True(t, root.IsRoot())

	child := h.CreateTestMenu("child", &root.ID)
	assert.Equal(t, 1, child.Level)

	grandchild := h.CreateTestMenu("grandchild", &child.ID)
	assert.Equal(t, 2, grandchild.Level)
}

// TestCreateMenuUnknownParent tests the missing parent rejection
func TestCreateMenuUnknownParent(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	missing := int64(999999999)
	_, err := h.service.CreateMenu(h.ctx, CreateMenuParams{ParentID: &missing, Title: "orphan"}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = h.service.CreateMenu(h.ctx, CreateMenuParams{}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestUpdateMenuReparent tests moving a menu and the cycle rejections
func TestUpdateMenuReparent(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	rootA := h.CreateTestMenu("rootA", nil)
	rootB := h.CreateTestMenu("rootB", nil)
	child := h.CreateTestMenu("child", &rootA.ID)
	grandchild := h.CreateTestMenu("grandchild", &child.ID)

	// Move child under the other root; its level is recomputed.
	moved, err := h.service.UpdateMenu(h.ctx, child.ID, UpdateMenuParams{ParentID: &rootB.ID}, 0)
	require.NoError(t, err)
	assert.Equal(t, rootB.ID, *moved.ParentID)
	assert.Equal(t, 1, moved.Level)

	// A menu cannot become its own parent.
	_, err = h.service.UpdateMenu(h.ctx, child.ID, UpdateMenuParams{ParentID: &child.ID}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Nor move under one of its descendants.
	_, err = h.service.UpdateMenu(h.ctx, child.ID, UpdateMenuParams{ParentID: &grandchild.ID}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Clearing the parent makes it a root again.
	cleared, err := h.service.UpdateMenu(h.ctx, child.ID, UpdateMenuParams{ClearParent: true}, 0)
	require.NoError(t, err)
	assert.Nil(t, cleared.ParentID)
	assert.Equal(t, 0, cleared.Level)
}

// TestDeleteMenuWithChildren tests the blocking delete
func TestDeleteMenuWithChildren(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	parent := h.CreateTestMenu("parent", nil)
	child := h.CreateTestMenu("child", &parent.ID)

	err := h.service.DeleteMenu(h.ctx, parent.ID, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMenuHasChildren)

	// Bottom-up deletion works.
	require.NoError(t, h.service.DeleteMenu(h.ctx, child.ID, 0))
	require.NoError(t, h.service.DeleteMenu(h.ctx, parent.ID, 0))

	_, err = h.service.GetMenu(h.ctx, parent.ID)
	assert.True(t, IsNotFound(err))
}

// TestMenuTreeAssembly tests the full tree query
func TestMenuTreeAssembly(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	root := h.CreateTestMenu("treetest", nil)
	childB, err := h.service.CreateMenu(h.ctx, CreateMenuParams{ParentID: &root.ID, Title: h.UniqueName("b"), Sort: 2}, 0)
	require.NoError(t, err)
	childA, err := h.service.CreateMenu(h.ctx, CreateMenuParams{ParentID: &root.ID, Title: h.UniqueName("a"), Sort: 1}, 0)
	require.NoError(t, err)

	forest, err := h.service.MenuTree(h.ctx)
	require.NoError(t, err)

	var node *MenuNode
	for _, n := range forest {
		if n.ID == root.ID {
			node = n
			break
		}
	}
	require.NotNil(t, node, "created root should appear in the tree")
	require.Len(t, node.Children, 2)
	assert.Equal(t, childA.ID, node.Children[0].ID)
	assert.Equal(t, childB.ID, node.Children[1].ID)
}
