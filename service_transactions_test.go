package adminkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransactionRollback tests that a failing closure undoes its writes
func TestTransactionRollback(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	name := h.UniqueName("rollback")
	boom := errors.New("boom")

	err := h.service.Transaction(h.ctx, func(tx *Service) error {
		if _, err := tx.CreateRole(h.ctx, CreateRoleParams{Name: name}, 0); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	page, err := h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(name), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total, "role created inside a failed transaction must not persist")
}

// TestTransactionCommit tests that a successful closure persists its writes
func TestTransactionCommit(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	name := h.UniqueName("commit")

	err := h.service.Transaction(h.ctx, func(tx *Service) error {
		_, err := tx.CreateRole(h.ctx, CreateRoleParams{Name: name}, 0)
		return err
	})
	require.NoError(t, err)

	page, err := h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(name), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

// TestNestedTransactionSavepoint tests that inner failures roll back to a savepoint
func TestNestedTransactionSavepoint(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	outer := h.UniqueName("outer")
	inner := h.UniqueName("inner")
	boom := errors.New("inner boom")

	err := h.service.Transaction(h.ctx, func(tx *Service) error {
		if _, err := tx.CreateRole(h.ctx, CreateRoleParams{Name: outer}, 0); err != nil {
			return err
		}

		// The inner unit fails alone; the outer work survives.
		innerErr := tx.Transaction(h.ctx, func(tx2 *Service) error {
			if _, err := tx2.CreateRole(h.ctx, CreateRoleParams{Name: inner}, 0); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, innerErr, boom)

		return nil
	})
	require.NoError(t, err)

	page, err := h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(outer), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = h.service.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(inner), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

// TestReadOnlyTransaction tests a consistent multi-query read
func TestReadOnlyTransaction(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.CreateTestRole("snapshot")

	err := h.service.ReadOnlyTransaction(h.ctx, func(tx *Service) error {
		fetched, err := tx.GetRole(h.ctx, role.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, role.Name, fetched.Name)

		_, err = tx.ListRoles(h.ctx, NewRoleListFilter().WithKeyword(role.Name), 1, 10)
		return err
	})
	require.NoError(t, err)
}

// TestTransactionRequiresRealHandle tests the unsupported handle error
func TestTransactionRequiresRealHandle(t *testing.T) {
	service := NewService(nil)

	err := service.Transaction(nil, func(tx *Service) error { return nil })
	require.Error(t, err)
	assert.True(t, IsInternal(err))
}

// TestTransactionMetricsRecorded tests that the monitor sees both outcomes
func TestTransactionMetricsRecorded(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	h.service.ResetTransactionMetrics()

	require.NoError(t, h.service.Transaction(h.ctx, func(tx *Service) error { return nil }))
	boom := errors.New("boom")
	assert.ErrorIs(t, h.service.Transaction(h.ctx, func(tx *Service) error { return boom }), boom)

	m := h.service.GetTransactionMetrics()
	assert.Equal(t, int64(2), m.TotalTransactions)
	assert.Equal(t, int64(1), m.SuccessfulTransactions)
	assert.Equal(t, int64(1), m.FailedTransactions)
}
