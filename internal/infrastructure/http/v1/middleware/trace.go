package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appctx "backoffice/internal/core/context"
	"backoffice/internal/core/id"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

var tracer = otel.Tracer("backoffice/http")

// Trace middleware adds request tracing context.
// Extracts or generates trace IDs and opens a server span for the request.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get or generate request ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = id.New().String()
		}

		// Get or generate trace ID
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = id.New().String()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(c.Request.Context(), fmt.Sprintf("%s %s", c.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request.id", requestID),
			))
		defer span.End()

		// Create trace context
		tc := &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    id.New().String()[:16],
			RequestID: requestID,
		}

		// Add to context
		ctx = appctx.WithTrace(ctx, tc)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)

		// Add to response headers
		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
