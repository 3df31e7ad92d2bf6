package adminkit

import (
	"context"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuditEntryToModel tests the entry to row conversion
func TestAuditEntryToModel(t *testing.T) {
	entry := AuditEntry{
		ActorID:   9,
		Operation: "delete_role",
		Detail:    map[string]any{"role_id": int64(3)},
		Method:    "DELETE",
		Path:      "/admin/roles/3",
		RouteName: "roles.destroy",
		IP:        "203.0.113.7",
		UserAgent: "test-agent",
	}

	row := entry.ToModel()
	assert.Equal(t, int64(9), row.AdminID)
	assert.Equal(t, "delete_role", row.Operation)
	assert.Equal(t, entry.Detail, row.Data)
	assert.Equal(t, "DELETE", row.Method)
	assert.Equal(t, "/admin/roles/3", row.Path)
	assert.Equal(t, "roles.destroy", row.RouteName)
	assert.Equal(t, "203.0.113.7", row.IP)
	assert.Equal(t, "test-agent", row.UserAgent)
}

// TestAuditRecorderNoActor tests that records without an actor are dropped
func TestAuditRecorderNoActor(t *testing.T) {
	// A nil handle proves no query runs: touching it would panic.
	recorder := NewAuditRecorder(nil)

	err := recorder.Record(context.Background(), AuditEntry{
		ActorID:   0,
		Operation: "create_role",
	})
	assert.NoError(t, err)
}

// recordingAudit captures entries in memory for assertions.
type recordingAudit struct {
	entries []AuditEntry
}

func (r *recordingAudit) Record(_ context.Context, entry AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

// TestServiceRecordAudit tests the service-level audit hook
func TestServiceRecordAudit(t *testing.T) {
	sink := &recordingAudit{}
	service := NewService(nil, WithAuditRecorder(sink))

	err := service.recordAudit(context.Background(), AuditEntry{
		ActorID:   4,
		Operation: "update_admin",
	})
	require.NoError(t, err)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, int64(4), sink.entries[0].ActorID)
	assert.Equal(t, "update_admin", sink.entries[0].Operation)
}

// TestRecordAuditLoggingSkipsUnresolvedActor tests that the log line only
// appears for entries that carry an actor
func TestRecordAuditLoggingSkipsUnresolvedActor(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	service := NewService(nil, WithLogger(logger), WithAuditRecorder(&recordingAudit{}))

	err := service.recordAudit(context.Background(), AuditEntry{Operation: "create_role"})
	require.NoError(t, err)
	assert.Empty(t, hook.Entries)

	err = service.recordAudit(context.Background(), AuditEntry{ActorID: 7, Operation: "create_role"})
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, int64(7), hook.LastEntry().Data["actor_id"])
}
