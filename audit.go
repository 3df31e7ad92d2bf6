package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// AuditEntry describes one mutation for the audit trail.
type AuditEntry struct {
	ActorID   int64          // admin performing the mutation; 0 means unresolved
	Operation string         // short operation label, e.g. "assign_admin_roles"
	Detail    map[string]any // free-form payload describing the change
	Method    string         // HTTP method of the triggering request, if any
	Path      string         // request path, if any
	RouteName string         // resolved route name, if any
	IP        string         // client address, if any
	UserAgent string         // client user agent, if any
}

// ToModel converts an AuditEntry to an AdminOperationLog row.
func (e *AuditEntry) ToModel() *AdminOperationLog {
	return &AdminOperationLog{
		AdminID:   e.ActorID,
		Operation: e.Operation,
		Method:    e.Method,
		Path:      e.Path,
		RouteName: e.RouteName,
		Data:      e.Detail,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
}

// AuditRecorder is the append-only sink for operation records. Implementations
// must never fail a business operation just because logging is impossible:
// Record with an unresolved actor (ActorID == 0) is a no-op, not an error.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// dbAuditRecorder appends AdminOperationLog rows through the service's
// database handle, so records written inside a transaction roll back with it.
type dbAuditRecorder struct {
	db dbkit.IDB
}

// NewAuditRecorder creates the default database-backed recorder.
func NewAuditRecorder(db dbkit.IDB) AuditRecorder {
	return &dbAuditRecorder{db: db}
}

// Record appends one audit row. Request metadata missing from the entry is
// filled from the context's RequestInfo.
func (r *dbAuditRecorder) Record(ctx context.Context, entry AuditEntry) error {
	if entry.ActorID == 0 {
		return nil
	}

	info := GetRequestInfo(ctx)
	if entry.Method == "" {
		entry.Method = info.Method
	}
	if entry.Path == "" {
		entry.Path = info.Path
	}
	if entry.RouteName == "" {
		entry.RouteName = info.RouteName
	}
	if entry.IP == "" {
		entry.IP = info.IP
	}
	if entry.UserAgent == "" {
		entry.UserAgent = info.UserAgent
	}

	_, err := r.db.NewInsert().Model(entry.ToModel()).Exec(ctx)
	return dbkit.WithErr1(err, "RecordAuditEntry").Err()
}

// withDB rebinds the recorder to another handle (used inside transactions so
// the audit row commits or rolls back with the mutation it describes).
func (r *dbAuditRecorder) withDB(db dbkit.IDB) AuditRecorder {
	return &dbAuditRecorder{db: db}
}

// GetOperationLog retrieves audit records with optional filters, newest first.
func (s *Service) GetOperationLog(ctx context.Context, filter OperationLogFilter) ([]AdminOperationLog, error) {
	var logs []AdminOperationLog
	q := s.db.NewSelect().Model(&logs)
	if filter.AdminID != 0 {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	if filter.Operation != "" {
		q = q.Where("operation = ?", filter.Operation)
	}
	if filter.RouteName != "" {
		q = q.Where("route_name = ?", filter.RouteName)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("created_at DESC")
	if err := dbkit.WithErr1(q.Scan(ctx), "GetOperationLog").Err(); err != nil {
		return nil, internalError("GetOperationLog", err)
	}
	return logs, nil
}
