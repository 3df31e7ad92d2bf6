package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// CreateRoleParams are the fields for a new role.
type CreateRoleParams struct {
	Name        string
	Description string
	Status      *Status
	Sort        int
}

// UpdateRoleParams are the updatable fields of a role. Nil pointers leave the
// current value untouched.
type UpdateRoleParams struct {
	Name        *string
	Description *string
	Status      *Status
	Sort        *int
}

// GetRole fetches a role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("r.id = ?", id).Limit(1).Scan(ctx), "GetRole").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, notFoundError("role", id)
		}
		return nil, internalError("GetRole", err)
	}
	return &role, nil
}

// ListRoles returns one page of roles, newest first, optionally filtered by
// keyword (name, description) and status.
func (s *Service) ListRoles(ctx context.Context, filter RoleListFilter, page, perPage int) (*Page[Role], error) {
	page, perPage = normalizePaging(page, perPage)

	var roles []Role
	q := s.db.NewSelect().Model(&roles)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("r.name ILIKE ?", pattern).
				WhereOr("r.description ILIKE ?", pattern)
		})
	}
	if filter.Status != nil {
		q = q.Where("r.status = ?", *filter.Status)
	}

	total, err := q.Order("r.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)
	if err != nil {
		return nil, internalError("ListRoles", dbkit.WithErr1(err, "ListRoles").Err())
	}

	return &Page[Role]{Items: roles, Total: total, Page: page, PerPage: perPage}, nil
}

// CreateRole creates a role.
func (s *Service) CreateRole(ctx context.Context, params CreateRoleParams, actorID int64) (role *Role, err error) {
	defer func() { s.observeOperation("role", "create", err) }()

	if params.Name == "" {
		return nil, validationError("name", "name is required")
	}

	status := StatusEnabled
	if params.Status != nil {
		status = *params.Status
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		if err := tx.assertUniqueRoleName(ctx, params.Name, 0); err != nil {
			return err
		}

		role = &Role{
			Name:        params.Name,
			Description: params.Description,
			Status:      status,
			Sort:        params.Sort,
		}
		result, err := tx.db.NewInsert().Model(role).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateRole").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("name", "role name already taken")
			}
			return internalError("CreateRole", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "create_role",
			Detail:    map[string]any{"role_id": role.ID, "name": role.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole applies partial field updates to a role.
func (s *Service) UpdateRole(ctx context.Context, id int64, params UpdateRoleParams, actorID int64) (role *Role, err error) {
	defer func() { s.observeOperation("role", "update", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		role, err = tx.GetRole(ctx, id)
		if err != nil {
			return err
		}

		if params.Name != nil {
			if *params.Name == "" {
				return validationError("name", "name cannot be empty")
			}
			if err := tx.assertUniqueRoleName(ctx, *params.Name, id); err != nil {
				return err
			}
			role.Name = *params.Name
		}
		if params.Description != nil {
			role.Description = *params.Description
		}
		if params.Status != nil {
			role.Status = *params.Status
		}
		if params.Sort != nil {
			role.Sort = *params.Sort
		}

		result, err := tx.db.NewUpdate().Model(role).
			Column("name", "description", "status", "sort").
			Set("updated_at = current_timestamp").
			WherePK().
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateRole").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("name", "role name already taken")
			}
			return internalError("UpdateRole", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_role",
			Detail:    map[string]any{"role_id": id, "name": role.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole removes a role. A role that still has admins assigned cannot be
// deleted; revoke the memberships first. Menu and resource grants go with the
// role via the storage engine's cascade.
func (s *Service) DeleteRole(ctx context.Context, id, actorID int64) (err error) {
	defer func() { s.observeOperation("role", "delete", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		role, err := tx.GetRole(ctx, id)
		if err != nil {
			return err
		}

		members, err := dbkit.Count[AdminRole](ctx, tx.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("role_id = ?", id)
		})
		if err != nil {
			return internalError("DeleteRole", err)
		}
		if members > 0 {
			return ErrRoleHasAdmins
		}

		result, err := tx.db.NewDelete().Table("roles").Where("id = ?", id).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteRole").Err(); err != nil {
			return internalError("DeleteRole", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "delete_role",
			Detail:    map[string]any{"role_id": id, "name": role.Name},
		})
	})
	return err
}

func (s *Service) assertUniqueRoleName(ctx context.Context, name string, excludeID int64) error {
	exists, err := dbkit.Exists[Role](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("name = ?", name)
		if excludeID != 0 {
			q = q.Where("id != ?", excludeID)
		}
		return q
	})
	if err != nil {
		return internalError("assertUniqueRoleName", err)
	}
	if exists {
		return validationError("name", "role name already taken")
	}
	return nil
}
