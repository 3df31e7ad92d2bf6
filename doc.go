// Package adminkit provides the authorization graph behind an admin backend:
// admins, roles, menus, resource categories and resources, the relations that
// connect them, and an append-only audit trail of who changed what.
//
// # Core Concepts
//
// Admin: A backend account that authenticates and acts. Admins hold roles;
// everything else an admin can see or do flows from those roles.
//
// Role: The unit of grouping. A role carries a set of menus (what its members
// see in navigation) and a set of resources (what its members may call).
//
// Menu: A navigation entry in a tree. Depth is tracked per node and derived
// from the parent chain on every write.
//
// Resource: A protected backend action identified by a dot-separated route
// name such as "orders.index". Resources are grouped into categories for
// administration only; categories carry no permission semantics.
//
// Permission patterns: A grant matches an action if it is equal to it, is the
// global wildcard "*", or ends in ".*" and the action extends the prefix by at
// least one more dot-separated segment. "roles.*" matches "roles.index" but
// not "role.index"; "users*" is a literal with no wildcard meaning.
//
// # Key Features
//
//   - Full CRUD over the five entity types, with uniqueness and reference
//     validation on every write
//   - Full-replacement relation assignment: the target set you send is the
//     set that exists afterwards, empty set included
//   - Blocking deletes: roles with members, menus with children, categories
//     with resources and granted resources refuse deletion
//   - Self-protection: an admin can never delete or disable itself
//   - Atomic audit: the audit row commits or rolls back with the mutation
//   - Effective permission and menu queries that honor role status
//   - Optional Redis caching of permission sets and Prometheus metrics
//
// # Basic Usage
//
//	// 1. Connect and migrate
//	db, err := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	service := adminkit.NewService(db)
//	if _, err := db.Migrate(ctx, adminkit.NewMigrationService(service).Migrations()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// 2. Build the graph
//	role, _ := service.CreateRole(ctx, adminkit.CreateRoleParams{Name: "operator"}, actorID)
//	admin, _ := service.CreateAdmin(ctx, adminkit.CreateAdminParams{
//	    Username: "jsmith",
//	    Password: hashed,
//	    Email:    "jsmith@example.com",
//	    RoleIDs:  []int64{role.ID},
//	}, actorID)
//
//	// 3. Grant resources to the role
//	service.ReplaceRelations(ctx, role.ID, adminkit.RelationRoleResources,
//	    []int64{orders.ID, refunds.ID}, actorID, ip, userAgent)
//
//	// 4. Check permissions
//	if service.HasPermission(ctx, admin.ID, "orders.cancel") {
//	    // proceed
//	}
//
//	// 5. Render navigation
//	tree, _ := service.EffectiveMenuTree(ctx, admin.ID)
//
// # Middleware Usage
//
//	mw := adminkit.NewMiddleware(service,
//	    adminkit.WithActorExtractor(sessionAdminID),
//	)
//
//	router.Use(mw.InjectAuditContext())
//	router.With(mw.RequirePermission("orders.cancel")).
//	    Post("/orders/{orderID}/cancel", cancelOrderHandler)
//
// # Error Handling
//
// Every error returned by a public operation wraps exactly one of four
// sentinels: ErrValidation, ErrNotFound, ErrBusinessRule or ErrInternal.
// Named business rules (ErrCannotDeleteSelf, ErrRoleHasAdmins, ...) wrap
// ErrBusinessRule, so both the class and the specific rule answer errors.Is.
//
// # Audit Log
//
// Every mutation with a known actor appends an operation log row with:
//   - Actor (the admin who made the change)
//   - Operation name and a structured detail payload
//   - Request metadata (method, path, IP, user agent) when present in context
//   - Timestamp
//
// Mutations with no actor (system bootstrap, migrations) are not logged.
package adminkit
