package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans created by this module.
const tracerName = "github.com/matzehuels/bpmnlayout"

// tracer resolves lazily so a provider installed after package init is used.
func tracer() trace.Tracer { return otel.Tracer(tracerName) }

// StartLayoutSpan starts a span covering one layout computation.
//
// The span uses the global OTel tracer provider; with none configured it is
// a no-op.
func StartLayoutSpan(ctx context.Context, nodeCount, edgeCount int) (context.Context, trace.Span) {
	return tracer().Start(ctx, "bpmnlayout.layout",
		trace.WithAttributes(
			attribute.Int("graph.nodes", nodeCount),
			attribute.Int("graph.edges", edgeCount),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRenderSpan starts a span covering one render call.
func StartRenderSpan(ctx context.Context, formats []string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "bpmnlayout.render",
		trace.WithAttributes(attribute.StringSlice("render.formats", formats)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// TracingHooks records layout events as events on the span found in the
// context. It creates no spans of its own; pair it with [StartLayoutSpan].
type TracingHooks struct{}

func (TracingHooks) OnLayoutStart(ctx context.Context, nodes, edges int) {
	AddSpanEvent(ctx, "layout.start",
		attribute.Int("graph.nodes", nodes),
		attribute.Int("graph.edges", edges),
	)
}

func (TracingHooks) OnTierAttempt(ctx context.Context, tier string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("layout.tier", tier),
		attribute.Int64("layout.duration_us", d.Microseconds()),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error", err.Error()))
	}
	AddSpanEvent(ctx, "layout.tier", attrs...)
}

func (TracingHooks) OnLayoutComplete(ctx context.Context, tier string, nodes int, d time.Duration) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("layout.tier", tier),
		attribute.Int64("layout.duration_us", d.Microseconds()),
	)
	span.AddEvent("layout.complete", trace.WithAttributes(attribute.Int("graph.nodes", nodes)))
}

func (TracingHooks) OnRenderStart(ctx context.Context, formats []string) {
	AddSpanEvent(ctx, "render.start", attribute.StringSlice("render.formats", formats))
}

func (TracingHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.StringSlice("render.formats", formats),
		attribute.Int64("render.duration_us", d.Microseconds()),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error", err.Error()))
	}
	AddSpanEvent(ctx, "render.complete", attrs...)
}
