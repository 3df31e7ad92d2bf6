package adminkit

import (
	"sync"
	"time"
)

// TransactionMetrics provides transaction performance and failure statistics
// for in-process inspection. The Prometheus metrics (see Metrics) cover the
// exported view; this monitor backs IsTransactionHealthy.
type TransactionMetrics struct {
	TotalTransactions      int64         `json:"total_transactions"`
	SuccessfulTransactions int64         `json:"successful_transactions"`
	FailedTransactions     int64         `json:"failed_transactions"`
	AverageDuration        time.Duration `json:"average_duration"`
	MaxDuration            time.Duration `json:"max_duration"`
	MinDuration            time.Duration `json:"min_duration"`
	LastReset              time.Time     `json:"last_reset"`
}

type transactionMonitor struct {
	mu            sync.Mutex
	totalCount    int64
	successCount  int64
	totalDuration time.Duration
	maxDuration   time.Duration
	minDuration   time.Duration
	lastReset     time.Time
}

func newTransactionMonitor() *transactionMonitor {
	return &transactionMonitor{
		minDuration: time.Hour,
		lastReset:   time.Now(),
	}
}

func (tm *transactionMonitor) recordTransaction(duration time.Duration, success bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.totalCount++
	tm.totalDuration += duration
	if success {
		tm.successCount++
	}
	if duration > tm.maxDuration {
		tm.maxDuration = duration
	}
	if duration < tm.minDuration {
		tm.minDuration = duration
	}
}

func (tm *transactionMonitor) getMetrics() TransactionMetrics {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var avg time.Duration
	if tm.totalCount > 0 {
		avg = tm.totalDuration / time.Duration(tm.totalCount)
	}

	return TransactionMetrics{
		TotalTransactions:      tm.totalCount,
		SuccessfulTransactions: tm.successCount,
		FailedTransactions:     tm.totalCount - tm.successCount,
		AverageDuration:        avg,
		MaxDuration:            tm.maxDuration,
		MinDuration:            tm.minDuration,
		LastReset:              tm.lastReset,
	}
}

func (tm *transactionMonitor) reset() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.totalCount = 0
	tm.successCount = 0
	tm.totalDuration = 0
	tm.maxDuration = 0
	tm.minDuration = time.Hour
	tm.lastReset = time.Now()
}

// GetTransactionMetrics returns the current transaction statistics.
func (s *Service) GetTransactionMetrics() TransactionMetrics {
	return s.txMonitor.getMetrics()
}

// ResetTransactionMetrics resets the transaction statistics.
func (s *Service) ResetTransactionMetrics() {
	s.txMonitor.reset()
}

// IsTransactionHealthy reports whether transaction throughput is within
// acceptable thresholds: failure rate under 5% and average duration under a
// second, once enough samples exist to judge.
func (s *Service) IsTransactionHealthy() bool {
	m := s.txMonitor.getMetrics()

	if m.TotalTransactions < 10 {
		return true
	}
	if float64(m.FailedTransactions)/float64(m.TotalTransactions) > 0.05 {
		return false
	}
	return m.AverageDuration <= time.Second
}
