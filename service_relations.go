package adminkit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// relationSpec describes the join table behind a RelationKind.
type relationSpec struct {
	table         string
	subjectColumn string
	targetColumn  string
	subjectEntity string
	targetEntity  string
	targetTable   string
	operation     string
}

func specFor(kind RelationKind) (relationSpec, error) {
	switch kind {
	case RelationAdminRoles:
		return relationSpec{
			table:         "admin_role",
			subjectColumn: "admin_id",
			targetColumn:  "role_id",
			subjectEntity: "admin",
			targetEntity:  "role",
			targetTable:   "roles",
			operation:     "assign_admin_roles",
		}, nil
	case RelationRoleMenus:
		return relationSpec{
			table:         "role_menu",
			subjectColumn: "role_id",
			targetColumn:  "menu_id",
			subjectEntity: "role",
			targetEntity:  "menu",
			targetTable:   "menus",
			operation:     "assign_role_menus",
		}, nil
	case RelationRoleResources:
		return relationSpec{
			table:         "role_resource",
			subjectColumn: "role_id",
			targetColumn:  "resource_id",
			subjectEntity: "role",
			targetEntity:  "resource",
			targetTable:   "resources",
			operation:     "assign_role_resources",
		}, nil
	}
	return relationSpec{}, validationError("relation_kind", fmt.Sprintf("unknown relation kind %q", kind))
}

// ReplaceRelations replaces the full relation set of a subject with exactly
// targetIDs, as one atomic unit: target validation, the delete-and-insert,
// and the audit record commit or roll back together. Identifiers omitted from
// targetIDs are revoked; an empty targetIDs clears every grant.
//
// Two concurrent calls against the same subject and kind are not coordinated
// beyond the transaction: last commit wins, which is safe because the
// operation is a full replacement, not an increment.
//
// Example:
//
//	err := svc.ReplaceRelations(ctx, adminID, adminkit.RelationAdminRoles,
//	    []int64{1, 2}, actorID, ip, userAgent)
func (s *Service) ReplaceRelations(ctx context.Context, subjectID int64, kind RelationKind, targetIDs []int64, actorID int64, ip, userAgent string) (err error) {
	defer func() { s.observeOperation("relation", string(kind), err) }()

	spec, err := specFor(kind)
	if err != nil {
		return err
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		if err := tx.assertSubjectExists(ctx, spec, subjectID); err != nil {
			return err
		}
		if err := tx.replaceRelationRows(ctx, subjectID, kind, targetIDs); err != nil {
			return err
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: spec.operation,
			Detail: map[string]any{
				spec.subjectEntity + "_id":  subjectID,
				spec.targetEntity + "_ids":  targetIDs,
				"relation_kind":             kind.String(),
			},
			IP:        ip,
			UserAgent: userAgent,
		})
	})
	if err != nil {
		return err
	}

	s.invalidateForRelation(ctx, spec, subjectID)
	return nil
}

// GetRelationIDs returns the current target id set of a subject for one
// relation kind, ascending.
func (s *Service) GetRelationIDs(ctx context.Context, subjectID int64, kind RelationKind) ([]int64, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	ids := []int64{}
	err = dbkit.WithErr1(s.db.NewRaw(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY %s", spec.targetColumn, spec.table, spec.subjectColumn, spec.targetColumn),
		subjectID,
	).Scan(ctx, &ids), "GetRelationIDs").Err()
	if err != nil {
		return nil, internalError("GetRelationIDs", err)
	}
	return ids, nil
}

// replaceRelationRows validates the targets and rewrites the join rows. It
// must run inside a transaction; callers own the audit record.
func (s *Service) replaceRelationRows(ctx context.Context, subjectID int64, kind RelationKind, targetIDs []int64) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}

	targetIDs = dedupeIDs(targetIDs)
	if err := s.assertTargetsExist(ctx, spec, targetIDs); err != nil {
		return err
	}

	result, err := s.db.NewDelete().Table(spec.table).
		Where(spec.subjectColumn+" = ?", subjectID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "ReplaceRelations.Delete").Err(); err != nil {
		return internalError("ReplaceRelations", err)
	}

	if len(targetIDs) == 0 {
		return nil
	}

	switch kind {
	case RelationAdminRoles:
		rows := make([]*AdminRole, len(targetIDs))
		for i, id := range targetIDs {
			rows[i] = &AdminRole{AdminID: subjectID, RoleID: id}
		}
		_, err = dbkit.BatchInsert(ctx, s.db, rows, dbkit.BatchSize)
	case RelationRoleMenus:
		rows := make([]*RoleMenu, len(targetIDs))
		for i, id := range targetIDs {
			rows[i] = &RoleMenu{RoleID: subjectID, MenuID: id}
		}
		_, err = dbkit.BatchInsert(ctx, s.db, rows, dbkit.BatchSize)
	case RelationRoleResources:
		rows := make([]*RoleResource, len(targetIDs))
		for i, id := range targetIDs {
			rows[i] = &RoleResource{RoleID: subjectID, ResourceID: id}
		}
		_, err = dbkit.BatchInsert(ctx, s.db, rows, dbkit.BatchSize)
	}
	if err := dbkit.WithErr1(err, "ReplaceRelations.Insert").Err(); err != nil {
		return internalError("ReplaceRelations", err)
	}

	return nil
}

func (s *Service) assertSubjectExists(ctx context.Context, spec relationSpec, subjectID int64) error {
	switch spec.subjectEntity {
	case "admin":
		_, err := s.GetAdmin(ctx, subjectID)
		return err
	case "role":
		_, err := s.GetRole(ctx, subjectID)
		return err
	}
	return notFoundError(spec.subjectEntity, subjectID)
}

// assertTargetsExist rejects the request if any target id has no row,
// enumerating every invalid id so the caller can fix the request in one go.
func (s *Service) assertTargetsExist(ctx context.Context, spec relationSpec, targetIDs []int64) error {
	if len(targetIDs) == 0 {
		return nil
	}

	existing := []int64{}
	err := dbkit.WithErr1(s.db.NewRaw(
		fmt.Sprintf("SELECT id FROM %s WHERE id IN (?)", spec.targetTable),
		bun.In(targetIDs),
	).Scan(ctx, &existing), "ValidateRelationTargets").Err()
	if err != nil {
		return internalError("ValidateRelationTargets", err)
	}

	if len(existing) == len(targetIDs) {
		return nil
	}

	known := make(map[int64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	var invalid []string
	for _, id := range targetIDs {
		if !known[id] {
			invalid = append(invalid, fmt.Sprintf("%d", id))
		}
	}
	return validationError(
		spec.targetEntity+"_ids",
		fmt.Sprintf("unknown %s ids: %s", spec.targetEntity, strings.Join(invalid, ", ")),
	)
}

// invalidateForRelation drops cached permission sets affected by a relation
// change: the admin itself for admin-roles, every member of the role for
// role-resources. Menu grants don't feed the permission set.
func (s *Service) invalidateForRelation(ctx context.Context, spec relationSpec, subjectID int64) {
	if s.cache == nil {
		return
	}
	switch spec.subjectEntity {
	case "admin":
		s.invalidatePermissions(ctx, subjectID)
	case "role":
		if spec.table != "role_resource" {
			return
		}
		var adminIDs []int64
		err := s.db.NewRaw("SELECT admin_id FROM admin_role WHERE role_id = ?", subjectID).Scan(ctx, &adminIDs)
		if err != nil {
			s.logger.WithError(err).Warn("permission cache invalidation lookup failed")
			return
		}
		s.invalidatePermissions(ctx, adminIDs...)
	}
}

// dedupeIDs removes duplicates, preserving ascending order.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
