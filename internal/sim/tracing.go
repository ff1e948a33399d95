package sim

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/signalsfoundry/contact-scheduler/internal/sim"

// startPhaseSpan starts a span for one phase of a simulation pass. The pass
// ID is attached as an attribute so phases group in trace viewers.
func startPhaseSpan(ctx context.Context, name, passID string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	attrs := make([]attribute.KeyValue, 0, len(extra)+1)
	if passID != "" {
		attrs = append(attrs, attribute.String("pass_id", passID))
	}
	attrs = append(attrs, extra...)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
