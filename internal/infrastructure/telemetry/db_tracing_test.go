package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint
	Name string
}

func openTracedDB(t *testing.T, cfg DBTracingConfig, log *zap.Logger) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, NewDBTracingPlugin(cfg, log).Register(db))
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop()).Register(db))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProviderWithExporter(Config{ServiceName: "jpashop-test", SamplingRatio: 1}, exporter, zap.NewNop())
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	core, logs := observer.New(zap.WarnLevel)
	cfg := DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond, DBSystem: "sqlite"}
	db := openTracedDB(t, cfg, zap.New(core))

	ctx, span := StartSpan(context.Background(), "member.join")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "kim"}).Error)
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))

	names := []string{}
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "member.join")
	assert.Greater(t, len(names), 1, "expected a database span under member.join")
	assert.GreaterOrEqual(t, logs.FilterMessage("Slow query").Len(), 1)
}
