package adminkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService exposes the schema migrations as an extension to Service.
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension.
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns the database migrations required by adminkit.
// Run them with dbkit: db.Migrate(ctx, svc.Migrations()).
//
// Join tables cascade on parent deletion; that is what lets DeleteAdmin and
// DeleteRole leave join-row cleanup to the storage engine.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "adminkit-001",
			Description: "Create admins table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admins (
                    id BIGSERIAL PRIMARY KEY,
                    username VARCHAR(64) NOT NULL UNIQUE,
                    password VARCHAR(128) NOT NULL,
                    icon VARCHAR(500),
                    email VARCHAR(100) NOT NULL UNIQUE,
                    nick_name VARCHAR(200),
                    note VARCHAR(500),
                    status SMALLINT NOT NULL DEFAULT 1,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-002",
			Description: "Create roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles (
                    id BIGSERIAL PRIMARY KEY,
                    name VARCHAR(100) NOT NULL UNIQUE,
                    description VARCHAR(500),
                    status SMALLINT NOT NULL DEFAULT 1,
                    sort INTEGER NOT NULL DEFAULT 0,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-003",
			Description: "Create admin_role join table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_role (
                    id BIGSERIAL PRIMARY KEY,
                    admin_id BIGINT NOT NULL REFERENCES admins(id) ON DELETE CASCADE,
                    role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (admin_id, role_id)
                )`,
		},
		{
			ID:          "adminkit-004",
			Description: "Create menus table",
			SQL: `
                CREATE TABLE IF NOT EXISTS menus (
                    id BIGSERIAL PRIMARY KEY,
                    parent_id BIGINT REFERENCES menus(id) ON DELETE CASCADE,
                    title VARCHAR(100) NOT NULL,
                    level INTEGER NOT NULL DEFAULT 0,
                    sort INTEGER NOT NULL DEFAULT 0,
                    name VARCHAR(100),
                    icon VARCHAR(200),
                    hidden BOOLEAN NOT NULL DEFAULT false,
                    keep_alive BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-005",
			Description: "Create resource_categories table",
			SQL: `
                CREATE TABLE IF NOT EXISTS resource_categories (
                    id BIGSERIAL PRIMARY KEY,
                    name VARCHAR(200) NOT NULL UNIQUE,
                    sort INTEGER NOT NULL DEFAULT 0,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-006",
			Description: "Create resources table",
			SQL: `
                CREATE TABLE IF NOT EXISTS resources (
                    id BIGSERIAL PRIMARY KEY,
                    category_id BIGINT NOT NULL REFERENCES resource_categories(id) ON DELETE CASCADE,
                    name VARCHAR(200) NOT NULL,
                    route_name VARCHAR(200) NOT NULL UNIQUE,
                    description VARCHAR(500),
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-007",
			Description: "Create role_menu join table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_menu (
                    id BIGSERIAL PRIMARY KEY,
                    role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
                    menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (role_id, menu_id)
                )`,
		},
		{
			ID:          "adminkit-008",
			Description: "Create role_resource join table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_resource (
                    id BIGSERIAL PRIMARY KEY,
                    role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
                    resource_id BIGINT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (role_id, resource_id)
                )`,
		},
		{
			ID:          "adminkit-009",
			Description: "Create admin_operation_logs table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_operation_logs (
                    id BIGSERIAL PRIMARY KEY,
                    admin_id BIGINT NOT NULL,
                    operation VARCHAR(100) NOT NULL,
                    method VARCHAR(16),
                    path VARCHAR(500),
                    route_name VARCHAR(200),
                    data JSONB,
                    ip VARCHAR(64),
                    user_agent VARCHAR(200),
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
	}
}
