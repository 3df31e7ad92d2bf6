package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// HealthService provides database health monitoring as an extension to Service.
type HealthService struct {
	*Service
}

// NewHealthService creates a new health service extension.
func NewHealthService(service *Service) *HealthService {
	return &HealthService{Service: service}
}

// Health performs a comprehensive health check of the database connection,
// including latency and connection pool statistics.
func (hs *HealthService) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}

	// Inside a transaction only a basic ping is possible.
	return dbkit.HealthStatus{
		Healthy: hs.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy reports whether the database is reachable.
func (hs *HealthService) IsHealthy(ctx context.Context) bool {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}

	var count int
	err := hs.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &count)
	return err == nil
}

// GetPoolStats returns connection pool statistics for monitoring.
// Returns zero values if the database instance doesn't expose pool statistics.
func (hs *HealthService) GetPoolStats() dbkit.PoolStats {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		return dbkit.PoolStatsFromSQL(db.Stats())
	}
	return dbkit.PoolStats{}
}

// Ping performs a basic connectivity test to the database.
func (hs *HealthService) Ping(ctx context.Context) error {
	var result int
	return hs.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &result)
}
