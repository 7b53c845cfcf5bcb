package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MiddlewareOptions configures the request logger
type MiddlewareOptions struct {
	// SkipPaths is a list of exact paths that are not logged (health, metrics)
	SkipPaths []string
	// SkipPathPrefixes is a list of path prefixes that are not logged
	SkipPathPrefixes []string
}

// GinLogger returns a gin middleware for logging HTTP requests
func GinLogger(l *Logger) gin.HandlerFunc {
	return GinLoggerWithConfig(l, MiddlewareOptions{})
}

// GinLoggerWithConfig returns a gin middleware with custom configuration.
// A request ID is always attached to the request context and echoed back in
// the X-Request-ID header, even for skipped paths.
func GinLoggerWithConfig(l *Logger, opts MiddlewareOptions) gin.HandlerFunc {
	skipPaths := make(map[string]bool, len(opts.SkipPaths))
	for _, path := range opts.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		c.Header("X-Request-ID", requestID)

		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}
		for _, prefix := range opts.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			l.Error("HTTP Request", fields...)
		case statusCode >= 400:
			l.Warn("HTTP Request", fields...)
		default:
			l.Info("HTTP Request", fields...)
		}
	}
}

// GinRecovery returns a gin middleware for recovering from panics
func GinRecovery(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				l.Error("Panic recovered",
					zap.String("request_id", GetRequestID(c.Request.Context())),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()

		c.Next()
	}
}
