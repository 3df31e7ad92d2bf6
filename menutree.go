package adminkit

import (
	"sort"
)

// MenuNode is a menu with its resolved children, as returned by the tree
// builders. Children are ordered ascending by Sort, ties keeping input order.
type MenuNode struct {
	Menu
	Children []*MenuNode `json:"children,omitempty"`
}

// BuildMenuTree assembles a flat menu collection into a forest rooted at
// rootParent (nil selects menus with no parent). The input is expected to be
// whatever visibility scope the caller wants: all menus, or only the menus
// reachable through an admin's roles.
//
// The builder is pure: the same input always yields a structurally identical
// forest. Recursion depth is bounded by the input size, so a cyclic input
// (impossible for rows written through this library, which rejects cycles at
// write time) fails with ErrInternal instead of looping.
func BuildMenuTree(menus []Menu, rootParent *int64) ([]*MenuNode, error) {
	byParent := make(map[int64][]Menu)
	var roots []Menu
	for _, m := range menus {
		if parentEquals(m.ParentID, rootParent) {
			roots = append(roots, m)
			continue
		}
		if m.ParentID != nil {
			byParent[*m.ParentID] = append(byParent[*m.ParentID], m)
		}
	}

	forest, err := attachChildren(roots, byParent, len(menus))
	if err != nil {
		return nil, err
	}
	return forest, nil
}

func attachChildren(level []Menu, byParent map[int64][]Menu, depthBudget int) ([]*MenuNode, error) {
	if depthBudget < 0 {
		return nil, NewError(ErrInternal, "menu hierarchy exceeds input size, input contains a cycle")
	}

	sortMenus(level)

	nodes := make([]*MenuNode, 0, len(level))
	for _, m := range level {
		node := &MenuNode{Menu: m}
		children, err := attachChildren(byParent[m.ID], byParent, depthBudget-1)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// sortMenus orders siblings ascending by Sort, preserving input order on ties.
func sortMenus(menus []Menu) {
	sort.SliceStable(menus, func(i, j int) bool {
		return menus[i].Sort < menus[j].Sort
	})
}

func parentEquals(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
