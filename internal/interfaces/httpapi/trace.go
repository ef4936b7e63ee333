package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/club-odds/internal/platform/tracing"
)

var apiTracer = tracing.Tracer("club-odds/internal/interfaces/httpapi")

// startSpan traces handlers only; response helpers and middleware ride on
// the otelhttp server span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return tracing.StartChild(ctx, apiTracer, name, attrs...)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
