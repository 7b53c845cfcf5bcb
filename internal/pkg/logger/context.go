package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithContext returns a logger carrying the request ID found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		return l.With(zap.String("request_id", requestID))
	}
	return l
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// DetachedContext returns a background context that keeps the request ID of
// ctx but none of its deadline or cancellation.
func DetachedContext(ctx context.Context) context.Context {
	detached := context.Background()
	if requestID := GetRequestID(ctx); requestID != "" {
		detached = WithRequestID(detached, requestID)
	}
	return detached
}
