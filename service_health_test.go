package adminkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthService tests health checks against a real database
func TestHealthService(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	hs := NewHealthService(service)

	assert.True(t, hs.IsHealthy(ctx))
	assert.NoError(t, hs.Ping(ctx))

	status := hs.Health(ctx)
	assert.True(t, status.Healthy)

	stats := hs.GetPoolStats()
	assert.GreaterOrEqual(t, stats.MaxOpenConnections, 0)
}

// TestPoolService tests connection pool configuration round-trips
func TestPoolService(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	ps := NewPoolService(service)

	config := PoolConfig{
		MaxOpenConnections: 8,
		MaxIdleConnections: 4,
	}
	require.NoError(t, ps.ConfigureConnectionPool(config))

	current, err := ps.GetConnectionPoolConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, current.MaxOpenConnections)

	require.NoError(t, ps.ResetConnectionPool())
	require.NoError(t, ps.OptimizeConnectionPool())
}

// TestDefaultPoolConfig tests the default settings
func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()
	assert.Equal(t, 25, config.MaxOpenConnections)
	assert.Equal(t, 10, config.MaxIdleConnections)
	assert.NotZero(t, config.ConnectionMaxLifetime)
	assert.NotZero(t, config.ConnectionMaxIdleTime)
}

// TestPoolServiceRequiresRealHandle tests the unsupported handle errors
func TestPoolServiceRequiresRealHandle(t *testing.T) {
	ps := NewPoolService(NewService(nil))

	assert.Error(t, ps.ConfigureConnectionPool(DefaultPoolConfig()))

	_, err := ps.GetConnectionPoolConfig()
	assert.Error(t, err)
}
