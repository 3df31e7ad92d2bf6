package adminkit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exported by the service. Create
// one per registry and share it across Service instances bound to the same
// database.
type Metrics struct {
	operations    *prometheus.CounterVec
	txTotal       *prometheus.CounterVec
	txDuration    prometheus.Histogram
	cacheRequests *prometheus.CounterVec
}

// NewMetrics registers the service instruments on reg. Passing nil uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminkit",
			Name:      "operations_total",
			Help:      "Mutating operations by entity, operation and result.",
		}, []string{"entity", "operation", "result"}),
		txTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminkit",
			Name:      "transactions_total",
			Help:      "Database transactions by result.",
		}, []string{"result"}),
		txDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "adminkit",
			Name:      "transaction_duration_seconds",
			Help:      "Database transaction duration.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminkit",
			Name:      "permission_cache_requests_total",
			Help:      "Permission cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeOperation(entity, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(entity, operation, result).Inc()
}

func (m *Metrics) observeTransaction(duration time.Duration, success bool) {
	result := "commit"
	if !success {
		result = "rollback"
	}
	m.txTotal.WithLabelValues(result).Inc()
	m.txDuration.Observe(duration.Seconds())
}

func (m *Metrics) observeCache(outcome string) {
	m.cacheRequests.WithLabelValues(outcome).Inc()
}

// observeOperation is nil-safe sugar on the service.
func (s *Service) observeOperation(entity, operation string, err error) {
	if s.metrics != nil {
		s.metrics.observeOperation(entity, operation, err)
	}
}
