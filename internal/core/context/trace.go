// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"backoffice/internal/core/id"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, tc *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns the trace ID for ctx.
// An active OpenTelemetry span wins over the request-level trace header.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return ""
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a new TraceContext with generated IDs.
func NewTraceContext() *TraceContext {
	return &TraceContext{
		TraceID:   id.New().String(),
		SpanID:    id.New().String()[:16],
		RequestID: id.New().String(),
	}
}
