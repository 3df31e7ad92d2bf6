package adminkit

import (
	"context"
	"io"

	"github.com/fernandezvara/dbkit"
	"github.com/sirupsen/logrus"
)

// Service owns the authorization graph: admins, roles, menus, resource
// categories, resources, their join relations and the audit trail. All
// mutating operations validate invariants and run inside a database
// transaction; reads go straight to the store.
//
// Error handling follows the four-class taxonomy: use IsValidation,
// IsNotFound, IsBusinessRule and IsInternal (or errors.Is against the named
// sentinels) to branch on outcomes.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	svc := adminkit.NewService(db,
//	    adminkit.WithLogger(logger),
//	    adminkit.WithPermissionCache(cache),
//	)
type Service struct {
	db        dbkit.IDB
	audit     AuditRecorder
	logger    *logrus.Logger
	cache     *PermissionCache
	metrics   *Metrics
	txMonitor *transactionMonitor
	matcher   *PermissionMatcher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger for mutation logging.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditRecorder replaces the default database-backed audit recorder.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		s.audit = recorder
	}
}

// WithPermissionCache enables caching of effective permission sets.
func WithPermissionCache(cache *PermissionCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMetrics enables Prometheus operation metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// NewService creates a Service bound to the given database handle.
func NewService(db dbkit.IDB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		txMonitor: newTransactionMonitor(),
		matcher:   NewPermissionMatcher(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.audit == nil {
		s.audit = NewAuditRecorder(db)
	}
	if s.logger == nil {
		s.logger = logrus.New()
		s.logger.SetOutput(io.Discard)
	}

	return s
}

// withDB returns a shallow copy of the service bound to another database
// handle. Used by Transaction so every query inside the closure, including
// audit writes, runs on the transaction.
func (s *Service) withDB(db dbkit.IDB) *Service {
	clone := *s
	clone.db = db
	if r, ok := s.audit.(*dbAuditRecorder); ok {
		clone.audit = r.withDB(db)
	}
	return &clone
}

// Matcher returns the permission matcher used by authorization queries.
func (s *Service) Matcher() *PermissionMatcher {
	return s.matcher
}

// recordAudit appends an audit row and emits a structured log line. A failed
// audit write is an internal error: inside a transaction it aborts the whole
// mutation, because audit and mutation commit as one unit.
func (s *Service) recordAudit(ctx context.Context, entry AuditEntry) error {
	if err := s.audit.Record(ctx, entry); err != nil {
		return internalError("RecordAudit", err)
	}
	// The default recorder drops entries without an actor; don't log a
	// record that was never written.
	if entry.ActorID == 0 {
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"actor_id":  entry.ActorID,
		"operation": entry.Operation,
	}).Info("admin operation recorded")
	return nil
}
