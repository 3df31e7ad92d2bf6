package adminkit

import (
	"context"
	"regexp"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// CreateAdminParams are the fields for a new admin account. Password is
// stored opaquely; hash it before calling. RoleIDs, when non-empty, become
// the initial role set in the same transaction.
type CreateAdminParams struct {
	Username string
	Password string
	Icon     string
	Email    string
	NickName string
	Note     string
	Status   *Status
	RoleIDs  []int64
}

// UpdateAdminParams are the updatable fields of an admin. Nil pointers leave
// the current value untouched. RoleIDs, when non-nil, fully replaces the role
// set (an empty slice revokes every role).
type UpdateAdminParams struct {
	Password *string
	Icon     *string
	Email    *string
	NickName *string
	Note     *string
	RoleIDs  *[]int64
}

// GetAdmin fetches an admin by id.
func (s *Service) GetAdmin(ctx context.Context, id int64) (*Admin, error) {
	var admin Admin
	err := dbkit.WithErr1(s.db.NewSelect().Model(&admin).Where("a.id = ?", id).Limit(1).Scan(ctx), "GetAdmin").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, notFoundError("admin", id)
		}
		return nil, internalError("GetAdmin", err)
	}
	return &admin, nil
}

// ListAdmins returns one page of admins, newest first, optionally filtered by
// keyword (username, nickname, email), status, and role membership.
func (s *Service) ListAdmins(ctx context.Context, filter AdminListFilter, page, perPage int) (*Page[Admin], error) {
	page, perPage = normalizePaging(page, perPage)

	var admins []Admin
	q := s.db.NewSelect().Model(&admins)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.username ILIKE ?", pattern).
				WhereOr("a.nick_name ILIKE ?", pattern).
				WhereOr("a.email ILIKE ?", pattern)
		})
	}
	if filter.Status != nil {
		q = q.Where("a.status = ?", *filter.Status)
	}
	if filter.RoleID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM admin_role ar WHERE ar.admin_id = a.id AND ar.role_id = ?)", filter.RoleID)
	}

	total, err := q.Order("a.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)
	if err != nil {
		return nil, internalError("ListAdmins", dbkit.WithErr1(err, "ListAdmins").Err())
	}

	return &Page[Admin]{Items: admins, Total: total, Page: page, PerPage: perPage}, nil
}

// CreateAdmin creates an admin account, optionally with an initial role set,
// as one transaction.
func (s *Service) CreateAdmin(ctx context.Context, params CreateAdminParams, actorID int64) (admin *Admin, err error) {
	defer func() { s.observeOperation("admin", "create", err) }()

	if err = validateAdminFields(params.Username, params.Email); err != nil {
		return nil, err
	}
	if params.Password == "" {
		return nil, validationError("password", "password is required")
	}

	status := StatusEnabled
	if params.Status != nil {
		status = *params.Status
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		if err := tx.assertUniqueAdminField(ctx, "username", params.Username, 0); err != nil {
			return err
		}
		if err := tx.assertUniqueAdminField(ctx, "email", params.Email, 0); err != nil {
			return err
		}

		admin = &Admin{
			Username: params.Username,
			Password: params.Password,
			Icon:     params.Icon,
			Email:    params.Email,
			NickName: params.NickName,
			Note:     params.Note,
			Status:   status,
		}
		result, err := tx.db.NewInsert().Model(admin).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateAdmin").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("username", "username or email already taken")
			}
			return internalError("CreateAdmin", err)
		}

		if len(params.RoleIDs) > 0 {
			if err := tx.replaceRelationRows(ctx, admin.ID, RelationAdminRoles, params.RoleIDs); err != nil {
				return err
			}
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "create_admin",
			Detail: map[string]any{
				"admin_id": admin.ID,
				"username": admin.Username,
				"role_ids": params.RoleIDs,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdateAdmin applies partial field updates to an admin and, when RoleIDs is
// non-nil, replaces the role set, as one transaction.
func (s *Service) UpdateAdmin(ctx context.Context, id int64, params UpdateAdminParams, actorID int64) (admin *Admin, err error) {
	defer func() { s.observeOperation("admin", "update", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		admin, err = tx.GetAdmin(ctx, id)
		if err != nil {
			return err
		}

		if params.Email != nil {
			if *params.Email == "" {
				return validationError("email", "email cannot be empty")
			}
			if err := tx.assertUniqueAdminField(ctx, "email", *params.Email, id); err != nil {
				return err
			}
			admin.Email = *params.Email
		}
		if params.Password != nil && *params.Password != "" {
			admin.Password = *params.Password
		}
		if params.Icon != nil {
			admin.Icon = *params.Icon
		}
		if params.NickName != nil {
			admin.NickName = *params.NickName
		}
		if params.Note != nil {
			admin.Note = *params.Note
		}

		result, err := tx.db.NewUpdate().Model(admin).
			Column("password", "icon", "email", "nick_name", "note").
			Set("updated_at = current_timestamp").
			WherePK().
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateAdmin").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("email", "email already taken")
			}
			return internalError("UpdateAdmin", err)
		}

		if params.RoleIDs != nil {
			if err := tx.replaceRelationRows(ctx, id, RelationAdminRoles, *params.RoleIDs); err != nil {
				return err
			}
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_admin",
			Detail:    map[string]any{"admin_id": id},
		})
	})
	if err != nil {
		return nil, err
	}

	// Invalidate only after commit; a read racing an in-transaction
	// invalidation would re-cache the pre-update role set.
	if params.RoleIDs != nil {
		s.invalidatePermissions(ctx, id)
	}
	return admin, nil
}

// DeleteAdmin removes an admin account. The self-protection guard rejects an
// actor deleting their own account; join rows go with the account via the
// storage engine's cascade.
func (s *Service) DeleteAdmin(ctx context.Context, id, actorID int64) (err error) {
	defer func() { s.observeOperation("admin", "delete", err) }()

	if err = AssertNotSelf(actorID, id, SelfOperationDelete); err != nil {
		return err
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		admin, err := tx.GetAdmin(ctx, id)
		if err != nil {
			return err
		}

		result, err := tx.db.NewDelete().Table("admins").Where("id = ?", id).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteAdmin").Err(); err != nil {
			return internalError("DeleteAdmin", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "delete_admin",
			Detail:    map[string]any{"admin_id": id, "username": admin.Username},
		})
	})
	if err != nil {
		return err
	}

	s.invalidatePermissions(ctx, id)
	return nil
}

// SetAdminStatus enables or disables an admin account. Disabling your own
// account is rejected by the self-protection guard.
func (s *Service) SetAdminStatus(ctx context.Context, id int64, status Status, actorID int64) (err error) {
	defer func() { s.observeOperation("admin", "set_status", err) }()

	if status != StatusEnabled && status != StatusDisabled {
		return validationError("status", "status must be enabled or disabled")
	}
	if status == StatusDisabled {
		if err = AssertNotSelf(actorID, id, SelfOperationDisable); err != nil {
			return err
		}
	}

	return s.Transaction(ctx, func(tx *Service) error {
		if _, err := tx.GetAdmin(ctx, id); err != nil {
			return err
		}

		result, err := tx.db.NewUpdate().Table("admins").
			Set("status = ?", status).
			Set("updated_at = current_timestamp").
			Where("id = ?", id).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "SetAdminStatus").Err(); err != nil {
			return internalError("SetAdminStatus", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_admin_status",
			Detail:    map[string]any{"admin_id": id, "status": status},
		})
	})
}

func validateAdminFields(username, email string) error {
	if username == "" {
		return validationError("username", "username is required")
	}
	if !usernameRe.MatchString(username) {
		return validationError("username", "username may only contain letters, digits and underscores")
	}
	if email == "" {
		return validationError("email", "email is required")
	}
	return nil
}

// assertUniqueAdminField rejects a value already used by another admin row.
// The unique index backstops the race between this check and the insert.
func (s *Service) assertUniqueAdminField(ctx context.Context, field, value string, excludeID int64) error {
	exists, err := dbkit.Exists[Admin](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("? = ?", bun.Ident(field), value)
		if excludeID != 0 {
			q = q.Where("id != ?", excludeID)
		}
		return q
	})
	if err != nil {
		return internalError("assertUniqueAdminField", err)
	}
	if exists {
		return validationError(field, field+" already taken")
	}
	return nil
}
