package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// CreateResourceCategoryParams are the fields for a new resource category.
type CreateResourceCategoryParams struct {
	Name string
	Sort int
}

// UpdateResourceCategoryParams are the updatable fields of a resource
// category. Nil pointers leave the current value untouched.
type UpdateResourceCategoryParams struct {
	Name *string
	Sort *int
}

// CreateResourceParams are the fields for a new resource.
type CreateResourceParams struct {
	CategoryID  int64
	Name        string
	RouteName   string
	Description string
}

// UpdateResourceParams are the updatable fields of a resource. Nil pointers
// leave the current value untouched.
type UpdateResourceParams struct {
	CategoryID  *int64
	Name        *string
	RouteName   *string
	Description *string
}

// ============================================================================
// RESOURCE CATEGORIES
// ============================================================================

// GetResourceCategory fetches a category by id.
func (s *Service) GetResourceCategory(ctx context.Context, id int64) (*ResourceCategory, error) {
	var category ResourceCategory
	err := dbkit.WithErr1(s.db.NewSelect().Model(&category).Where("rc.id = ?", id).Limit(1).Scan(ctx), "GetResourceCategory").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, notFoundError("resource category", id)
		}
		return nil, internalError("GetResourceCategory", err)
	}
	return &category, nil
}

// ListResourceCategories returns every category ordered by sort.
func (s *Service) ListResourceCategories(ctx context.Context) ([]ResourceCategory, error) {
	var categories []ResourceCategory
	err := dbkit.WithErr1(s.db.NewSelect().Model(&categories).Order("rc.sort ASC", "rc.id ASC").Scan(ctx), "ListResourceCategories").Err()
	if err != nil {
		return nil, internalError("ListResourceCategories", err)
	}
	return categories, nil
}

// CreateResourceCategory creates a category.
func (s *Service) CreateResourceCategory(ctx context.Context, params CreateResourceCategoryParams, actorID int64) (category *ResourceCategory, err error) {
	defer func() { s.observeOperation("resource_category", "create", err) }()

	if params.Name == "" {
		return nil, validationError("name", "name is required")
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		if err := tx.assertUniqueCategoryName(ctx, params.Name, 0); err != nil {
			return err
		}

		category = &ResourceCategory{Name: params.Name, Sort: params.Sort}
		result, err := tx.db.NewInsert().Model(category).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateResourceCategory").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("name", "category name already taken")
			}
			return internalError("CreateResourceCategory", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "create_resource_category",
			Detail:    map[string]any{"category_id": category.ID, "name": category.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateResourceCategory applies partial field updates to a category.
func (s *Service) UpdateResourceCategory(ctx context.Context, id int64, params UpdateResourceCategoryParams, actorID int64) (category *ResourceCategory, err error) {
	defer func() { s.observeOperation("resource_category", "update", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		category, err = tx.GetResourceCategory(ctx, id)
		if err != nil {
			return err
		}

		if params.Name != nil {
			if *params.Name == "" {
				return validationError("name", "name cannot be empty")
			}
			if err := tx.assertUniqueCategoryName(ctx, *params.Name, id); err != nil {
				return err
			}
			category.Name = *params.Name
		}
		if params.Sort != nil {
			category.Sort = *params.Sort
		}

		result, err := tx.db.NewUpdate().Model(category).
			Column("name", "sort").
			Set("updated_at = current_timestamp").
			WherePK().
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateResourceCategory").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("name", "category name already taken")
			}
			return internalError("UpdateResourceCategory", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_resource_category",
			Detail:    map[string]any{"category_id": id, "name": category.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteResourceCategory removes a category. A category that still contains
// resources cannot be deleted.
func (s *Service) DeleteResourceCategory(ctx context.Context, id, actorID int64) (err error) {
	defer func() { s.observeOperation("resource_category", "delete", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		category, err := tx.GetResourceCategory(ctx, id)
		if err != nil {
			return err
		}

		count, err := dbkit.Count[Resource](ctx, tx.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("category_id = ?", id)
		})
		if err != nil {
			return internalError("DeleteResourceCategory", err)
		}
		if count > 0 {
			return ErrCategoryHasResources
		}

		result, err := tx.db.NewDelete().Table("resource_categories").Where("id = ?", id).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteResourceCategory").Err(); err != nil {
			return internalError("DeleteResourceCategory", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "delete_resource_category",
			Detail:    map[string]any{"category_id": id, "name": category.Name},
		})
	})
	return err
}

// ============================================================================
// RESOURCES
// ============================================================================

// GetResource fetches a resource by id.
func (s *Service) GetResource(ctx context.Context, id int64) (*Resource, error) {
	var resource Resource
	err := dbkit.WithErr1(s.db.NewSelect().Model(&resource).Where("res.id = ?", id).Limit(1).Scan(ctx), "GetResource").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, notFoundError("resource", id)
		}
		return nil, internalError("GetResource", err)
	}
	return &resource, nil
}

// ListResources returns every resource ordered by id.
func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	var resources []Resource
	err := dbkit.WithErr1(s.db.NewSelect().Model(&resources).Order("res.id ASC").Scan(ctx), "ListResources").Err()
	if err != nil {
		return nil, internalError("ListResources", err)
	}
	return resources, nil
}

// CreateResource creates a resource. The category must exist and the route
// name must be a well-formed pattern unique across resources.
func (s *Service) CreateResource(ctx context.Context, params CreateResourceParams, actorID int64) (resource *Resource, err error) {
	defer func() { s.observeOperation("resource", "create", err) }()

	if params.Name == "" {
		return nil, validationError("name", "name is required")
	}
	if err = s.matcher.Validate(params.RouteName); err != nil {
		return nil, err
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		if _, err := tx.GetResourceCategory(ctx, params.CategoryID); err != nil {
			if IsNotFound(err) {
				return validationError("category_id", "resource category does not exist")
			}
			return err
		}
		if err := tx.assertUniqueRouteName(ctx, params.RouteName, 0); err != nil {
			return err
		}

		resource = &Resource{
			CategoryID:  params.CategoryID,
			Name:        params.Name,
			RouteName:   params.RouteName,
			Description: params.Description,
		}
		result, err := tx.db.NewInsert().Model(resource).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateResource").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("route_name", "route name already taken")
			}
			return internalError("CreateResource", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "create_resource",
			Detail:    map[string]any{"resource_id": resource.ID, "name": resource.Name, "route_name": resource.RouteName},
		})
	})
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// UpdateResource applies partial field updates to a resource. Changing the
// route name affects every role granting this resource from the next
// permission check on.
func (s *Service) UpdateResource(ctx context.Context, id int64, params UpdateResourceParams, actorID int64) (resource *Resource, err error) {
	defer func() { s.observeOperation("resource", "update", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		resource, err = tx.GetResource(ctx, id)
		if err != nil {
			return err
		}

		if params.CategoryID != nil {
			if _, err := tx.GetResourceCategory(ctx, *params.CategoryID); err != nil {
				if IsNotFound(err) {
					return validationError("category_id", "resource category does not exist")
				}
				return err
			}
			resource.CategoryID = *params.CategoryID
		}
		if params.Name != nil {
			if *params.Name == "" {
				return validationError("name", "name cannot be empty")
			}
			resource.Name = *params.Name
		}
		if params.RouteName != nil {
			if err := tx.matcher.Validate(*params.RouteName); err != nil {
				return err
			}
			if err := tx.assertUniqueRouteName(ctx, *params.RouteName, id); err != nil {
				return err
			}
			resource.RouteName = *params.RouteName
		}
		if params.Description != nil {
			resource.Description = *params.Description
		}

		result, err := tx.db.NewUpdate().Model(resource).
			Column("category_id", "name", "route_name", "description").
			Set("updated_at = current_timestamp").
			WherePK().
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateResource").Err(); err != nil {
			if dbkit.IsDuplicate(err) {
				return validationError("route_name", "route name already taken")
			}
			return internalError("UpdateResource", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "update_resource",
			Detail:    map[string]any{"resource_id": id, "name": resource.Name, "route_name": resource.RouteName},
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePermissionsForResource(ctx, id)
	return resource, nil
}

// DeleteResource removes a resource. A resource still granted to any role
// cannot be deleted; revoke the grants first.
func (s *Service) DeleteResource(ctx context.Context, id, actorID int64) (err error) {
	defer func() { s.observeOperation("resource", "delete", err) }()

	err = s.Transaction(ctx, func(tx *Service) error {
		resource, err := tx.GetResource(ctx, id)
		if err != nil {
			return err
		}

		grants, err := dbkit.Count[RoleResource](ctx, tx.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("resource_id = ?", id)
		})
		if err != nil {
			return internalError("DeleteResource", err)
		}
		if grants > 0 {
			return ErrResourceInUse
		}

		result, err := tx.db.NewDelete().Table("resources").Where("id = ?", id).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteResource").Err(); err != nil {
			return internalError("DeleteResource", err)
		}

		return tx.recordAudit(ctx, AuditEntry{
			ActorID:   actorID,
			Operation: "delete_resource",
			Detail:    map[string]any{"resource_id": id, "name": resource.Name, "route_name": resource.RouteName},
		})
	})
	return err
}

func (s *Service) assertUniqueCategoryName(ctx context.Context, name string, excludeID int64) error {
	exists, err := dbkit.Exists[ResourceCategory](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("name = ?", name)
		if excludeID != 0 {
			q = q.Where("id != ?", excludeID)
		}
		return q
	})
	if err != nil {
		return internalError("assertUniqueCategoryName", err)
	}
	if exists {
		return validationError("name", "category name already taken")
	}
	return nil
}

func (s *Service) assertUniqueRouteName(ctx context.Context, routeName string, excludeID int64) error {
	exists, err := dbkit.Exists[Resource](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("route_name = ?", routeName)
		if excludeID != 0 {
			q = q.Where("id != ?", excludeID)
		}
		return q
	})
	if err != nil {
		return internalError("assertUniqueRouteName", err)
	}
	if exists {
		return validationError("route_name", "route name already taken")
	}
	return nil
}

// invalidatePermissionsForResource drops cached permission sets of every
// admin whose roles grant the resource.
func (s *Service) invalidatePermissionsForResource(ctx context.Context, resourceID int64) {
	if s.cache == nil {
		return
	}
	var adminIDs []int64
	err := s.db.NewRaw(
		"SELECT DISTINCT ar.admin_id FROM admin_role ar JOIN role_resource rr ON rr.role_id = ar.role_id WHERE rr.resource_id = ?",
		resourceID,
	).Scan(ctx, &adminIDs)
	if err != nil {
		s.logger.WithError(err).Warn("permission cache invalidation lookup failed")
		return
	}
	s.invalidatePermissions(ctx, adminIDs...)
}
