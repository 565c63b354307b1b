package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/vtest"
)

// lockedBuffer is a bytes.Buffer safe for a writer goroutine and a
// polling reader.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func TestLogExporter(t *testing.T) {
	var buf lockedBuffer
	exp := NewLogExporter(slog.New(slog.NewJSONHandler(&buf, nil)))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	defer tp.Shutdown(context.Background())

	h := vtest.New(t, alert.WithObserver(OpenTelemetry(WithTracerProvider(tp))))
	h.Presenter.Warning(context.Background(), "low disk")
	h.WaitTimers(1)
	h.AdvanceToHide()
	h.WaitTimers(1)
	h.AdvanceToDetach()
	// The span ends after the recorder sees the detach.
	h.Eventually(func() bool { return len(buf.Bytes()) > 0 }, "span exported")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record %q: %v", buf.Bytes(), err)
	}
	if rec["msg"] != "span" || rec["name"] != SpanName {
		t.Errorf("record = %v", rec)
	}
	if rec["alert.kind"] != "warning" || rec["status"] != "Ok" {
		t.Errorf("record attributes = %v", rec)
	}
	if rec["events"] != float64(1) {
		t.Errorf("events = %v, want 1", rec["events"])
	}
}

func TestNewTracerProvider(t *testing.T) {
	var buf bytes.Buffer
	tp := NewTracerProvider("alerts-test", NewLogExporter(slog.New(slog.NewTextHandler(&buf, nil))))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("name=op")) {
		t.Errorf("batched span was not flushed on shutdown: %q", buf.String())
	}
}
