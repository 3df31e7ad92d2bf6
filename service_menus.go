package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// CreateMenuParams are the fields for a new menu. Level is not accepted: it
// is derived from the parent chain on every write.
type CreateMenuParams struct {
	ParentID  *int64
	Title     string
	Sort      int
	Name      string
	Icon      string
	Hidden    bool
	KeepAlive *bool
}

// UpdateMenuParams are the updatable fields of a menu. Nil pointers leave the
// current value untouched; to move a menu to the root, set ParentID to a
// pointer to nil via ClearParent.
type UpdateMenuParams struct {
	ParentID    *int64
	ClearParent bool
	Title       *string
	Sort        *int
	Name        *string
	Icon        *string
	Hidden      *bool
	KeepAlive   *bool
}

// GetMenu fetches a menu by id.
func (s *Service) GetMenu(ctx context.Context, id int64) (*Menu, error) {
	var menu Menu
	err := dbkit.WithErr1(s.db.NewSelect().Model(&menu).Where("m.id = ?", id).Limit(1).Scan(ctx), "GetMenu").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, notFoundError("menu", id)
		}
		return nil, internalError("GetMenu", err)
	}
	return &menu, nil
}

// ListMenus returns every menu ordered by sort.
func (s *Service) ListMenus(ctx context.Context) ([]Menu, error) {
	var menus []Menu
	err := dbkit.WithErr1(s.db.NewSelect().Model(&menus).Order("m.sort ASC", "m.id ASC").Scan(ctx), "ListMenus").Err()
	if err != nil {
		return nil, internalError("ListMenus", err)
	}
	return menus, nil
}

// MenuTree returns the full menu forest, hidden entries included.
func (s *Service) MenuTree(ctx context.Context) ([]*MenuNode, error) {
	menus, err := s.ListMenus(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(menus, nil)
}

// CreateMenu creates a menu. The parent, when set, must exist; level becomes
// the parent's level plus one.
func (s *Service) CreateMenu(ctx context.Context, params CreateMenuParams, actorID int64) (menu *Menu, err error) {
	defer func() { s.observeOperation("menu", "create", err) }()

	if params.Title == "" {
		return nil, validationError("title", "title is required")
	}

	keepAlive := true
	if params.KeepAlive != nil {
		keepAlive = *params.KeepAlive
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		level := 0
		if params.ParentID != nil {
			parent, err := tx.GetMenu(ctx, *params.ParentID)
			if err != nil {
				if IsNotFound(err) {
					return validationError("parent_id", "parent menu does not exist")
				}
				return err
			}
			level = parent.Level + 1
		}

		menu = &Menu{
			ParentID:  params.ParentID,
			Title:     params.Title,
			Level:     level,
			Sort:      params.Sort,
			Name:      params.Name,
			Icon:      params.Icon,
			Hidden:    params.Hidden,
			KeepAlive: keepAlive,
		}
		result, err := tx.db.NewInsert().Model(menu).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateMenu").Err(); err != nil {
			return internalError("CreateMenu", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "create_menu",
			Detail:    map[string]any{"menu_id": menu.ID, "title": menu.Title},
		})
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// UpdateMenu applies partial field updates to a menu. Reparenting validates
// that the new parent exists and is not the menu itself or one of its
// descendants, and recomputes the menu's level from the new parent. Children
// keep their own levels; reparent leaves, not subtrees, if levels matter.
func (s *Service) UpdateMenu(ctx context.Context, id int64, params UpdateMenuParams, actorID int64) (menu *Menu, err error) {
	defer func() { s.observeOperation("menu", "update", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		menu, err = tx.GetMenu(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case params.ClearParent:
			menu.ParentID = nil
			menu.Level = 0
		case params.ParentID != nil:
			if err := tx.assertValidParent(ctx, id, *params.ParentID); err != nil {
				return err
			}
			parent, err := tx.GetMenu(ctx, *params.ParentID)
			if err != nil {
				return err
			}
			menu.ParentID = params.ParentID
			menu.Level = parent.Level + 1
		}

		if params.Title != nil {
			if *params.Title == "" {
				return validationError("title", "title cannot be empty")
			}
			menu.Title = *params.Title
		}
		if params.Sort != nil {
			menu.Sort = *params.Sort
		}
		if params.Name != nil {
			menu.Name = *params.Name
		}
		if params.Icon != nil {
			menu.Icon = *params.Icon
		}
		if params.Hidden != nil {
			menu.Hidden = *params.Hidden
		}
		if params.KeepAlive != nil {
			menu.KeepAlive = *params.KeepAlive
		}

		result, err := tx.db.NewUpdate().Model(menu).
			Column("parent_id", "title", "level", "sort", "name", "icon", "hidden", "keep_alive").
			Set("updated_at = current_timestamp").
			WherePK().
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateMenu").Err(); err != nil {
			return internalError("UpdateMenu", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_menu",
			Detail:    map[string]any{"menu_id": id, "title": menu.Title},
		})
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// DeleteMenu removes a menu. A menu that still has children cannot be
// deleted; role grants on the menu go with it via the storage engine's
// cascade.
func (s *Service) DeleteMenu(ctx context.Context, id, actorID int64) (err error) {
	defer func() { s.observeOperation("menu", "delete", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		menu, err := tx.GetMenu(ctx, id)
		if err != nil {
			return err
		}

		children, err := dbkit.Count[Menu](ctx, tx.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("parent_id = ?", id)
		})
		if err != nil {
			return internalError("DeleteMenu", err)
		}
		if children > 0 {
			return ErrMenuHasChildren
		}

		result, err := tx.db.NewDelete().Table("menus").Where("id = ?", id).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteMenu").Err(); err != nil {
			return internalError("DeleteMenu", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "delete_menu",
			Detail:    map[string]any{"menu_id": id, "title": menu.Title},
		})
	})
	return err
}

// assertValidParent rejects a parent assignment that would make the menu its
// own ancestor. The walk is bounded by the table size; the parent must exist.
func (s *Service) assertValidParent(ctx context.Context, menuID, parentID int64) error {
	if parentID == menuID {
		return validationError("parent_id", "menu cannot be its own parent")
	}

	budget, err := dbkit.Count[Menu](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
	if err != nil {
		return internalError("assertValidParent", err)
	}

	current := parentID
	for i := 0; i <= budget; i++ {
		var menu Menu
		err := dbkit.WithErr1(s.db.NewSelect().Model(&menu).Where("m.id = ?", current).Limit(1).Scan(ctx), "assertValidParent").Err()
		if err != nil {
			if dbkit.IsNotFound(err) {
				if current == parentID {
					return validationError("parent_id", "parent menu does not exist")
				}
				return nil
			}
			return internalError("assertValidParent", err)
		}
		if menu.ID == menuID {
			return validationError("parent_id", "menu cannot be moved under one of its descendants")
		}
		if menu.ParentID == nil {
			return nil
		}
		current = *menu.ParentID
	}

	return NewError(ErrInternal, "menu ancestry walk exceeded table size, hierarchy contains a cycle")
}
