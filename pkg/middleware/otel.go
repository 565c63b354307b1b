package middleware

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/alerts/pkg/alert"
)

// Default tracer name for alert spans.
const defaultTracerName = "alerts"

// SpanName is the name of the span covering one alert.
const SpanName = "alert.present"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "alerts").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(n alert.Notice) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(n alert.Notice) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing is an alert.Observer that records one span per alert.
type Tracing struct {
	tracer    trace.Tracer
	extractor func(n alert.Notice) []attribute.KeyValue
}

var _ alert.Observer = (*Tracing)(nil)

// OpenTelemetry creates the tracing observer.
//
// The span starts when the alert is mounted (timestamped with the notice
// mount time), receives a "hidden" event when the fade starts and ends when
// the element is detached. Alerts the host refuses produce a single span
// with error status.
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer:    tp.Tracer(config.TracerName),
		extractor: config.AttributeExtractor,
	}
}

func (o *Tracing) attributes(n alert.Notice) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("alert.id", strconv.FormatUint(n.ID, 10)),
		attribute.String("alert.kind", string(n.Kind)),
	}
	if o.extractor != nil {
		attrs = append(attrs, o.extractor(n)...)
	}
	return attrs
}

// Mounted implements alert.Observer.
func (o *Tracing) Mounted(ctx context.Context, n alert.Notice) context.Context {
	ctx, _ = o.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(o.attributes(n)...),
		trace.WithTimestamp(n.MountedAt),
	)
	return ctx
}

// Hidden implements alert.Observer.
func (o *Tracing) Hidden(ctx context.Context, _ alert.Notice) {
	trace.SpanFromContext(ctx).AddEvent("hidden")
}

// Detached implements alert.Observer.
func (o *Tracing) Detached(ctx context.Context, _ alert.Notice) {
	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// Failed implements alert.Observer.
func (o *Tracing) Failed(ctx context.Context, n alert.Notice, err error) {
	_, span := o.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(o.attributes(n)...),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
