package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginLoggerKey = "logger"

// GinMiddleware writes one access-log line per request. Handlers further down
// the chain find a logger carrying method, path and request id in both the
// gin context and the request context.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		req := c.Request

		ctx, scoped := WithRequestID(req.Context(),
			base.With(zap.String("method", req.Method), zap.String("path", req.URL.Path)),
			c.GetString("request_id"))
		c.Request = req.WithContext(ctx)
		c.Set(ginLoggerKey, scoped)

		c.Next()

		status := c.Writer.Status()
		if ce := scoped.Check(accessLevel(status), "HTTP Request"); ce != nil {
			ce.Write(accessFields(c, status, time.Since(began), req.URL.RawQuery)...)
		}
	}
}

func accessLevel(status int) zapcore.Level {
	if status >= http.StatusInternalServerError {
		return zapcore.ErrorLevel
	}
	if status >= http.StatusBadRequest {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

func accessFields(c *gin.Context, status int, latency time.Duration, rawQuery string) []zap.Field {
	fields := make([]zap.Field, 0, 7)
	fields = append(fields,
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("body_size", c.Writer.Size()),
	)
	if rawQuery != "" {
		fields = append(fields, zap.String("query", rawQuery))
	}
	if errs := c.Errors.Errors(); len(errs) > 0 {
		fields = append(fields, zap.Strings("errors", errs))
	}
	return fields
}

// Recovery turns a handler panic into a logged 500
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error("Panic recovered",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("error", r),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatus(http.StatusInternalServerError)
		}()
		c.Next()
	}
}

// GetGinLogger returns the request logger set by GinMiddleware, or a no-op
// logger outside of it.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(ginLoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
