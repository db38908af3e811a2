package logger

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BunQueryHook logs the read model's bun queries with the same levels as
// GormLogger. sql.ErrNoRows is not treated as a failure.
type BunQueryHook struct {
	logger        *zap.Logger
	slowThreshold time.Duration
}

func NewBunQueryHook(zapLogger *zap.Logger, slowThreshold time.Duration) *BunQueryHook {
	return &BunQueryHook{logger: zapLogger.Named("bun"), slowThreshold: slowThreshold}
}

func (h *BunQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *BunQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	lvl, msg, extra := classifyQuery(event.Err, sql.ErrNoRows, elapsed, h.slowThreshold)

	fields := append([]zap.Field{
		zap.String("operation", event.Operation()),
		zap.Duration("elapsed", elapsed),
		zap.String("sql", event.Query),
	}, extra...)
	withRequestID(ctx, h.logger).Log(lvl, msg, fields...)
}

var _ bun.QueryHook = (*BunQueryHook)(nil)
