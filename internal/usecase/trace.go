package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/club-odds/internal/platform/tracing"
)

var usecaseTracer = tracing.Tracer("club-odds/internal/usecase")

func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracing.StartChild(ctx, usecaseTracer, name, attrs...)
}

func matchAttr(matchID string) attribute.KeyValue {
	return attribute.String("match.id", matchID)
}
