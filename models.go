package adminkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Status represents the enabled/disabled state of an Admin or Role.
type Status int

const (
	StatusDisabled Status = 0
	StatusEnabled  Status = 1
)

// Admin is an operator account of the administrative backend.
// The password credential is opaque to this library: callers store whatever
// their credential service hands them (typically a hash) and verify it
// themselves.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Username  string    `bun:"username,notnull,unique"`
	Password  string    `bun:"password,notnull"`
	Icon      string    `bun:"icon"`
	Email     string    `bun:"email,notnull,unique"`
	NickName  string    `bun:"nick_name"`
	Note      string    `bun:"note"`
	Status    Status    `bun:"status,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Roles []Role `bun:"m2m:admin_role,join:Admin=Role"`
}

// IsEnabled reports whether the admin account may authenticate.
func (a *Admin) IsEnabled() bool {
	return a.Status == StatusEnabled
}

// Role is a named bundle of menu and resource grants assignable to admins.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	Description string    `bun:"description"`
	Status      Status    `bun:"status,notnull,default:1"`
	Sort        int       `bun:"sort,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Admins    []Admin    `bun:"m2m:admin_role,join:Role=Admin"`
	Menus     []Menu     `bun:"m2m:role_menu,join:Role=Menu"`
	Resources []Resource `bun:"m2m:role_resource,join:Role=Resource"`
}

// Menu is a node of the navigation hierarchy. ParentID is nil for roots;
// Level always equals the number of ancestors and is maintained by the
// service on every write.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ParentID  *int64    `bun:"parent_id"`
	Title     string    `bun:"title,notnull"`
	Level     int       `bun:"level,notnull,default:0"`
	Sort      int       `bun:"sort,notnull,default:0"`
	Name      string    `bun:"name"`
	Icon      string    `bun:"icon"`
	Hidden    bool      `bun:"hidden,notnull,default:false"`
	KeepAlive bool      `bun:"keep_alive,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// IsRoot reports whether the menu is a root of the forest.
func (m *Menu) IsRoot() bool {
	return m.ParentID == nil
}

// ResourceCategory groups resources for presentation.
type ResourceCategory struct {
	bun.BaseModel `bun:"table:resource_categories,alias:rc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	Sort      int       `bun:"sort,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Resource is a grantable action identifier. RouteName is either a concrete
// route name ("users.index"), a prefix wildcard ("users.*"), or the universal
// grant "*"; see PermissionMatcher for the matching rules.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:res"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CategoryID  int64     `bun:"category_id,notnull"`
	Name        string    `bun:"name,notnull"`
	RouteName   string    `bun:"route_name,notnull,unique"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Category *ResourceCategory `bun:"rel:belongs-to,join:category_id=id"`
}

// AdminRole is the admin↔role join row.
type AdminRole struct {
	bun.BaseModel `bun:"table:admin_role,alias:ar"`

	ID        int64     `bun:"id,pk,autoincrement"`
	AdminID   int64     `bun:"admin_id,notnull"`
	RoleID    int64     `bun:"role_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Admin *Admin `bun:"rel:belongs-to,join:admin_id=id"`
	Role  *Role  `bun:"rel:belongs-to,join:role_id=id"`
}

// RoleMenu is the role↔menu join row.
type RoleMenu struct {
	bun.BaseModel `bun:"table:role_menu,alias:rm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	RoleID    int64     `bun:"role_id,notnull"`
	MenuID    int64     `bun:"menu_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id"`
	Menu *Menu `bun:"rel:belongs-to,join:menu_id=id"`
}

// RoleResource is the role↔resource join row.
type RoleResource struct {
	bun.BaseModel `bun:"table:role_resource,alias:rr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	RoleID     int64     `bun:"role_id,notnull"`
	ResourceID int64     `bun:"resource_id,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Role     *Role     `bun:"rel:belongs-to,join:role_id=id"`
	Resource *Resource `bun:"rel:belongs-to,join:resource_id=id"`
}

// AdminOperationLog is one append-only audit record. Rows are written once
// by the AuditRecorder and never mutated or deleted by this library.
type AdminOperationLog struct {
	bun.BaseModel `bun:"table:admin_operation_logs,alias:aol"`

	ID        int64          `bun:"id,pk,autoincrement"`
	AdminID   int64          `bun:"admin_id,notnull"`
	Operation string         `bun:"operation,notnull"`
	Method    string         `bun:"method"`
	Path      string         `bun:"path"`
	RouteName string         `bun:"route_name"`
	Data      map[string]any `bun:"data,type:jsonb"`
	IP        string         `bun:"ip"`
	UserAgent string         `bun:"user_agent"`
	CreatedAt time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// RelationKind identifies one of the three many-to-many relations that can
// be replaced through ReplaceRelations. The set is closed on purpose: every
// relation mutation funnels through the same validate/replace/audit path.
type RelationKind string

const (
	RelationAdminRoles    RelationKind = "admin-roles"
	RelationRoleMenus     RelationKind = "role-menus"
	RelationRoleResources RelationKind = "role-resources"
)

// Valid reports whether the kind is one of the three defined relations.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationAdminRoles, RelationRoleMenus, RelationRoleResources:
		return true
	}
	return false
}

// String returns the wire label of the relation kind.
func (k RelationKind) String() string {
	return string(k)
}
