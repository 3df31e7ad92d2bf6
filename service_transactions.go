package adminkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction runs fn inside a database transaction, committing on nil and
// rolling back on error. fn receives a Service bound to the transaction;
// every call on it, audit writes included, joins the same unit of work.
// Nested calls become savepoints.
//
// Example:
//
//	err := svc.Transaction(ctx, func(tx *adminkit.Service) error {
//	    if _, err := tx.CreateRole(ctx, params, actorID); err != nil {
//	        return err // rollback
//	    }
//	    return nil // commit
//	})
func (s *Service) Transaction(ctx context.Context, fn func(tx *Service) error) error {
	start := time.Now()
	err := s.runInTransaction(ctx, nil, fn)
	s.observeTransaction(time.Since(start), err)
	return err
}

// TransactionWithOptions is Transaction with explicit transaction options
// (isolation level, read-only). Options are ignored for nested calls, which
// always become savepoints on the enclosing transaction.
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(tx *Service) error) error {
	start := time.Now()
	err := s.runInTransaction(ctx, &opts, fn)
	s.observeTransaction(time.Since(start), err)
	return err
}

// ReadOnlyTransaction runs fn inside a read-only transaction, useful for
// multi-query reads that need one consistent snapshot.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(tx *Service) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}

func (s *Service) runInTransaction(ctx context.Context, opts *dbkit.TxOptions, fn func(tx *Service) error) error {
	if tx, ok := s.db.(*dbkit.Tx); ok {
		return tx.Transaction(ctx, func(inner *dbkit.Tx) error {
			return fn(s.withDB(inner))
		})
	}

	db, ok := s.db.(*dbkit.DBKit)
	if !ok {
		return NewError(ErrInternal, "transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	if opts != nil {
		return db.TransactionWithOptions(ctx, *opts, func(tx *dbkit.Tx) error {
			return fn(s.withDB(tx))
		})
	}
	return db.Transaction(ctx, func(tx *dbkit.Tx) error {
		return fn(s.withDB(tx))
	})
}

func (s *Service) observeTransaction(duration time.Duration, err error) {
	s.txMonitor.recordTransaction(duration, err == nil)
	if s.metrics != nil {
		s.metrics.observeTransaction(duration, err == nil)
	}
}
