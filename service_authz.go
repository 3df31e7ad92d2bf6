package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// AUTHORIZATION QUERIES
// ============================================================================

// GetAdminPermissions returns the admin's effective permission set: the union
// of route-name patterns granted by the resources of every role the admin
// holds. Membership alone determines the union; role status does not gate
// grants. The set is cached when a PermissionCache is configured.
func (s *Service) GetAdminPermissions(ctx context.Context, adminID int64) ([]string, error) {
	if s.cache != nil {
		if patterns, ok := s.cache.Get(ctx, adminID); ok {
			if s.metrics != nil {
				s.metrics.observeCache("hit")
			}
			return patterns, nil
		}
		if s.metrics != nil {
			s.metrics.observeCache("miss")
		}
	}

	patterns := []string{}
	err := dbkit.WithErr1(s.db.NewRaw(
		`SELECT DISTINCT res.route_name
		   FROM resources res
		   JOIN role_resource rr ON rr.resource_id = res.id
		   JOIN admin_role ar ON ar.role_id = rr.role_id
		  WHERE ar.admin_id = ?
		  ORDER BY res.route_name`,
		adminID,
	).Scan(ctx, &patterns), "GetAdminPermissions").Err()
	if err != nil {
		return nil, internalError("GetAdminPermissions", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, adminID, patterns); err != nil {
			s.logger.WithError(err).Warn("permission cache write failed")
		}
	}
	return patterns, nil
}

// HasPermission reports whether the admin may perform the action identified
// by its route name. True iff at least one granted pattern matches; an admin
// with no grants, or any storage failure, yields false.
//
// Example:
//
//	if svc.HasPermission(ctx, adminID, "orders.cancel") {
//	    // proceed
//	}
func (s *Service) HasPermission(ctx context.Context, adminID int64, action string) bool {
	patterns, err := s.GetAdminPermissions(ctx, adminID)
	if err != nil {
		return false
	}
	return s.matcher.MatchAny(patterns, action)
}

// effectiveMenus returns the non-hidden menus reachable through the admin's
// roles, ordered by sort.
func (s *Service) effectiveMenus(ctx context.Context, adminID int64) ([]Menu, error) {
	var menus []Menu
	err := dbkit.WithErr1(s.db.NewRaw(
		`SELECT DISTINCT m.*
		   FROM menus m
		   JOIN role_menu rm ON rm.menu_id = m.id
		   JOIN admin_role ar ON ar.role_id = rm.role_id
		  WHERE ar.admin_id = ? AND m.hidden = false
		  ORDER BY m.sort ASC, m.id ASC`,
		adminID,
	).Scan(ctx, &menus), "EffectiveMenus").Err()
	if err != nil {
		return nil, internalError("EffectiveMenus", err)
	}
	return menus, nil
}

// EffectiveMenuTree returns the navigation forest visible to an admin: the
// union of menu grants across the admin's roles, hidden menus excluded,
// assembled into a tree. A node whose ancestors are not themselves
// granted is dropped with them, matching what a navigation renderer can
// actually display.
func (s *Service) EffectiveMenuTree(ctx context.Context, adminID int64) ([]*MenuNode, error) {
	menus, err := s.effectiveMenus(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(menus, nil)
}
