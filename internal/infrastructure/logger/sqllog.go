package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// classifyQuery picks level and message for one executed statement: failures
// other than benign at error, statements over slow at warn, the rest at debug.
// A zero slow threshold disables the slow check.
func classifyQuery(err, benign error, elapsed, slow time.Duration) (zapcore.Level, string, []zap.Field) {
	if err != nil && !errors.Is(err, benign) {
		return zapcore.ErrorLevel, "SQL error", []zap.Field{zap.Error(err)}
	}
	if slow != 0 && elapsed > slow {
		return zapcore.WarnLevel, "Slow SQL", []zap.Field{zap.Duration("threshold", slow)}
	}
	return zapcore.DebugLevel, "SQL", nil
}

// withRequestID tags log with the request id carried by ctx, if any
func withRequestID(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id := GetRequestID(ctx); id != "" {
		return log.With(zap.String("request_id", id))
	}
	return log
}
