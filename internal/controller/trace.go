package controller

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var controllerTracer = otel.Tracer("puppy-bowl/internal/controller")

func startSpan(ctx context.Context, name, action string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return controllerTracer.Start(ctx, name, trace.WithAttributes(attribute.String("ui.action", action)))
}
