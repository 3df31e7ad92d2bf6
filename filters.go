package adminkit

import "time"

// Page is one page of a listing plus the total row count before paging.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// normalizePaging clamps page/perPage to sane values.
func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}
	return page, perPage
}

// AdminListFilter narrows ListAdmins results.
type AdminListFilter struct {
	// Keyword matches username, nickname or email (substring, case-insensitive).
	Keyword string

	// Status filters by account status when non-nil.
	Status *Status

	// RoleID keeps only admins holding this role when non-zero.
	RoleID int64
}

// NewAdminListFilter creates an empty filter.
func NewAdminListFilter() AdminListFilter {
	return AdminListFilter{}
}

// WithKeyword sets the free-text filter.
func (f AdminListFilter) WithKeyword(keyword string) AdminListFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter.
func (f AdminListFilter) WithStatus(status Status) AdminListFilter {
	f.Status = &status
	return f
}

// WithRole sets the role membership filter.
func (f AdminListFilter) WithRole(roleID int64) AdminListFilter {
	f.RoleID = roleID
	return f
}

// RoleListFilter narrows ListRoles results.
type RoleListFilter struct {
	// Keyword matches name or description (substring, case-insensitive).
	Keyword string

	// Status filters by role status when non-nil.
	Status *Status
}

// NewRoleListFilter creates an empty filter.
func NewRoleListFilter() RoleListFilter {
	return RoleListFilter{}
}

// WithKeyword sets the free-text filter.
func (f RoleListFilter) WithKeyword(keyword string) RoleListFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter.
func (f RoleListFilter) WithStatus(status Status) RoleListFilter {
	f.Status = &status
	return f
}

// OperationLogFilter narrows GetOperationLog results.
type OperationLogFilter struct {
	AdminID   int64
	Operation string
	RouteName string
	Since     time.Time
	Until     time.Time
	Limit     int
	Offset    int
}

// NewOperationLogFilter creates a filter with the default page size.
func NewOperationLogFilter() OperationLogFilter {
	return OperationLogFilter{Limit: 100}
}

// WithAdmin sets the acting admin filter.
func (f OperationLogFilter) WithAdmin(adminID int64) OperationLogFilter {
	f.AdminID = adminID
	return f
}

// WithOperation sets the operation label filter.
func (f OperationLogFilter) WithOperation(operation string) OperationLogFilter {
	f.Operation = operation
	return f
}

// WithRouteName sets the route name filter.
func (f OperationLogFilter) WithRouteName(routeName string) OperationLogFilter {
	f.RouteName = routeName
	return f
}

// WithTimeRange sets the time range filter.
func (f OperationLogFilter) WithTimeRange(since, until time.Time) OperationLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets both limit and offset.
func (f OperationLogFilter) WithPagination(limit, offset int) OperationLogFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}
