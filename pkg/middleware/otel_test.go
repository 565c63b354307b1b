package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/vtest"
)

func newTestTracing(opts ...OTelOption) (*Tracing, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return OpenTelemetry(append([]OTelOption{WithTracerProvider(tp)}, opts...)...), sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (string, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestOpenTelemetrySpanCoversLifecycle(t *testing.T) {
	tracing, sr := newTestTracing()
	h := vtest.New(t, alert.WithObserver(tracing))

	h.Presenter.Success(context.Background(), "Saved!")
	if got := len(sr.Started()); got != 1 {
		t.Fatalf("started spans=%d, want 1", got)
	}
	if got := len(sr.Ended()); got != 0 {
		t.Fatalf("ended spans=%d, want 0 before detach", got)
	}

	h.WaitTimers(1)
	h.AdvanceToHide()
	h.WaitTimers(1)
	h.Advance(alert.FadeDuration)
	h.Eventually(func() bool { return len(sr.Ended()) == 1 }, "span to end")

	span := sr.Ended()[0]
	if span.Name() != SpanName {
		t.Fatalf("span name=%q, want %q", span.Name(), SpanName)
	}
	if v, _ := spanAttr(span, "alert.kind"); v != "success" {
		t.Fatalf("alert.kind=%q, want success", v)
	}
	if v, _ := spanAttr(span, "alert.id"); v != "1" {
		t.Fatalf("alert.id=%q, want 1", v)
	}
	if _, ok := spanAttr(span, "alert.body"); ok {
		t.Fatal("message body must not be recorded")
	}
	events := span.Events()
	if len(events) != 1 || events[0].Name != "hidden" {
		t.Fatalf("events=%v, want one hidden event", events)
	}
	if span.Status().Code != codes.Ok {
		t.Fatalf("status=%v, want Ok", span.Status().Code)
	}
}

func TestOpenTelemetryFailed(t *testing.T) {
	tracing, sr := newTestTracing()

	tracing.Failed(context.Background(), alert.Notice{ID: 7, Kind: alert.KindWarning}, errors.New("no body"))

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans=%d, want 1", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Fatalf("status=%v, want Error", ended[0].Status().Code)
	}
	if ended[0].Status().Description != "no body" {
		t.Fatalf("description=%q, want %q", ended[0].Status().Description, "no body")
	}
	found := false
	for _, ev := range ended[0].Events() {
		if ev.Name == "exception" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected exception event from RecordError")
	}
}

func TestOpenTelemetryAttributeExtractor(t *testing.T) {
	tracing, sr := newTestTracing(
		WithTracerName("custom"),
		WithAttributeExtractor(func(n alert.Notice) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("tenant", "acme")}
		}),
	)

	n := alert.Notice{ID: 3, Kind: alert.KindInfo}
	ctx := tracing.Mounted(context.Background(), n)
	tracing.Hidden(ctx, n)
	tracing.Detached(ctx, n)

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans=%d, want 1", len(ended))
	}
	if v, _ := spanAttr(ended[0], "tenant"); v != "acme" {
		t.Fatalf("tenant=%q, want acme", v)
	}
	if got := ended[0].InstrumentationScope().Name; got != "custom" {
		t.Fatalf("tracer name=%q, want custom", got)
	}
}
