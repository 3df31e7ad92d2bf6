package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAdminLifecycle tests create, fetch, update and delete with a real database
func TestAdminLifecycle(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("operator")

	admin := h.CreateTestAdmin("lifecycle", role.ID)
	assert.NotZero(t, admin.ID)
	assert.Equal(t, StatusEnabled, admin.Status)

	fetched, err := h.service.GetAdmin(h.ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Username, fetched.Username)
	assert.Equal(t, admin.Email, fetched.Email)

	roleIDs, err := h.service.GetRelationIDs(h.ctx, admin.ID, RelationAdminRoles)
	require.NoError(t, err)
	assert.Equal(t, []int64{role.ID}, roleIDs)

	nick := "Updated Nick"
	updated, err := h.service.UpdateAdmin(h.ctx, admin.ID, UpdateAdminParams{NickName: &nick}, 0)
	require.NoError(t, err)
	assert.Equal(t, nick, updated.NickName)

	// Delete with a different actor succeeds; role revocation cascades.
	require.NoError(t, h.service.DeleteAdmin(h.ctx, admin.ID, admin.ID+1))

	_, err = h.service.GetAdmin(h.ctx, admin.ID)
	assert.True(t, IsNotFound(err))

	roleIDs, err = h.service.GetRelationIDs(h.ctx, admin.ID, RelationAdminRoles)
	require.NoError(t, err)
	assert.Empty(t, roleIDs)
}

// TestCreateAdminValidation tests input validation on create
func TestCreateAdminValidation(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	cases := []struct {
		name   string
		params CreateAdminParams
		field  string
	}{
		{
			name:   "missing username",
			params: CreateAdminParams{Password: "x", Email: "a@example.com"},
			field:  "username",
		},
		{
			name:   "invalid username characters",
			params: CreateAdminParams{Username: "bad name!", Password: "x", Email: "a@example.com"},
			field:  "username",
		},
		{
			name:   "missing password",
			params: CreateAdminParams{Username: "validname", Email: "a@example.com"},
			field:  "password",
		},
		{
			name:   "missing email",
			params: CreateAdminParams{Username: "validname", Password: "x"},
			field:  "email",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.service.CreateAdmin(h.ctx, tc.params, 0)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

// TestCreateAdminUniqueness tests username and email uniqueness
func TestCreateAdminUniqueness(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	first := h.CreateTestAdmin("unique")

	_, err := h.service.CreateAdmin(h.ctx, CreateAdminParams{
		Username: first.Username,
		Password: "x",
		Email:    h.UniqueName("other") + "@example.com",
	}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = h.service.CreateAdmin(h.ctx, CreateAdminParams{
		Username: h.UniqueName("other"),
		Password: "x",
		Email:    first.Email,
	}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestCreateAdminUnknownRole tests that an invalid initial role aborts the create
func TestCreateAdminUnknownRole(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	username := h.UniqueName("rollback")
	_, err := h.service.CreateAdmin(h.ctx, CreateAdminParams{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
		RoleIDs:  []int64{999999999},
	}, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// The admin row rolled back with the failed role assignment.
	page, err := h.service.ListAdmins(h.ctx, NewAdminListFilter().WithKeyword(username), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

// TestDeleteAdminSelfProtection tests that an admin cannot delete itself
func TestDeleteAdminSelfProtection(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	admin := h.CreateTestAdmin("selfdelete")

	err := h.service.DeleteAdmin(h.ctx, admin.ID, admin.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)

	// The account survives.
	_, err = h.service.GetAdmin(h.ctx, admin.ID)
	assert.NoError(t, err)
}

// TestSetAdminStatusSelfProtection tests enable/disable and the disable-self guard
func TestSetAdminStatusSelfProtection(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	admin := h.CreateTestAdmin("selfdisable")

	err := h.service.SetAdminStatus(h.ctx, admin.ID, StatusDisabled, admin.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCannotDisableSelf)

	// Another actor may disable the account.
	require.NoError(t, h.service.SetAdminStatus(h.ctx, admin.ID, StatusDisabled, admin.ID+1))
	fetched, err := h.service.GetAdmin(h.ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsEnabled())

	// Re-enabling your own account is allowed; only disable is guarded.
	require.NoError(t, h.service.SetAdminStatus(h.ctx, admin.ID, StatusEnabled, admin.ID))

	err = h.service.SetAdminStatus(h.ctx, admin.ID, Status(42), 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestListAdminsFilters tests keyword, status and role filters
func TestListAdminsFilters(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("listfilter")
	member := h.CreateTestAdmin("listmember", role.ID)
	outsider := h.CreateTestAdmin("listoutsider")

	page, err := h.service.ListAdmins(h.ctx, NewAdminListFilter().WithKeyword(member.Username), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, member.ID, page.Items[0].ID)

	page, err = h.service.ListAdmins(h.ctx, NewAdminListFilter().WithRole(role.ID), 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, member.ID, page.Items[0].ID)

	require.NoError(t, h.service.SetAdminStatus(h.ctx, outsider.ID, StatusDisabled, outsider.ID+1))
	page, err = h.service.ListAdmins(h.ctx, NewAdminListFilter().WithKeyword(outsider.Username).WithStatus(StatusDisabled), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

// TestAdminAuditTrail tests that mutations with an actor are logged
func TestAdminAuditTrail(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	actor := h.CreateTestAdmin("auditactor")

	username := h.UniqueName("audited")
	created, err := h.service.CreateAdmin(h.ctx, CreateAdminParams{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
	}, actor.ID)
	require.NoError(t, err)

	logs, err := h.service.GetOperationLog(h.ctx, NewOperationLogFilter().WithAdmin(actor.ID).WithOperation("create_admin"))
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, actor.ID, logs[0].AdminID)
	assert.Equal(t, "create_admin", logs[0].Operation)

	// Mutations without an actor leave no trace.
	before := len(logs)
	nick := "quiet"
	_, err = h.service.UpdateAdmin(h.ctx, created.ID, UpdateAdminParams{NickName: &nick}, 0)
	require.NoError(t, err)

	logs, err = h.service.GetOperationLog(h.ctx, NewOperationLogFilter().WithAdmin(actor.ID).WithOperation("create_admin"))
	require.NoError(t, err)
	assert.Len(t, logs, before)
}
