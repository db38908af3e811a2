package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics exposes sql.DB pool statistics as observable
// gauges. The returned registration must be unregistered on shutdown.
func RegisterDBPoolMetrics(meter metric.Meter, db *sql.DB, dbSystem string) (metric.Registration, error) {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Database pool connections by state"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool connections gauge: %w", err)
	}
	waitCount, err := meter.Int64ObservableCounter("db_pool_wait_count",
		metric.WithDescription("Total number of connections waited for"),
		metric.WithUnit("{waits}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool wait gauge: %w", err)
	}

	system := AttrDBSystem.String(dbSystem)
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(system, AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(system, AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(system, AttrDBState.String("open")))
		o.ObserveInt64(waitCount, stats.WaitCount, metric.WithAttributes(system))
		return nil
	}, connections, waitCount)
}
