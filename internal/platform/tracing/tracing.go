// Package tracing wraps the OpenTelemetry API for use case spans. Without a
// configured provider the global tracer is a no-op.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "anonmsg/pkg/domain-errors"
)

const instrumentation = "anonmsg"

// Tracer returns the named tracer from the global provider.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentation + "/" + component)
}

// Start opens a span and returns a func that ends it with err's status.
// Validation failures are recorded as events, not span errors.
func Start(ctx context.Context, tracer trace.Tracer, name string) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, name)
	return ctx, func(err error) {
		End(span, err)
	}
}

// End closes span, marking it failed for anything but caller errors.
func End(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	if kind := dErrors.KindOf(err); kind != "" && dErrors.CodeOf(err) != dErrors.CodeInternal {
		span.AddEvent("rejected: " + kind)
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
