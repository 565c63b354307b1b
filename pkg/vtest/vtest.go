package vtest

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// Timeout bounds every wait performed by the harness.
var Timeout = 2 * time.Second

// Harness is a presenter bound to an in-memory document and a fake clock.
type Harness struct {
	t         testing.TB
	Doc       *vdom.Document
	Clock     *clockwork.FakeClock
	Presenter *alert.Presenter
	Events    *Recorder
}

// New creates a Harness. Extra options are applied after the harness
// defaults, so a test can add its own observers.
func New(t testing.TB, opts ...alert.Option) *Harness {
	t.Helper()

	h := &Harness{
		t:      t,
		Doc:    vdom.NewDocument(),
		Clock:  clockwork.NewFakeClock(),
		Events: NewRecorder(),
	}
	base := []alert.Option{
		alert.WithClock(h.Clock),
		alert.WithObserver(h.Events),
	}
	h.Presenter = alert.New(h.Doc, append(base, opts...)...)
	return h
}

// Alerts returns the elements currently attached to the body.
func (h *Harness) Alerts() []*vdom.Element {
	snap := h.Doc.Snapshot()
	out := make([]*vdom.Element, 0, len(snap.Children))
	for _, child := range snap.Children {
		if el, ok := h.Doc.Lookup(child.HID); ok {
			out = append(out, el)
		}
	}
	return out
}

// WaitTimers blocks until exactly n timers are pending on the fake clock.
func (h *Harness) WaitTimers(n int) {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := h.Clock.BlockUntilContext(ctx, n); err != nil {
		h.t.Fatalf("waiting for %d pending timers: %v", n, err)
	}
}

// Advance moves the fake clock forward by d.
func (h *Harness) Advance(d time.Duration) {
	h.Clock.Advance(d)
}

// AdvanceToHide advances by the display duration and waits until every
// mounted alert is hidden. All alerts must have been mounted at the same
// instant.
func (h *Harness) AdvanceToHide() {
	h.t.Helper()
	want := h.Events.Count(EventMounted)
	h.Advance(alert.DisplayDuration)
	h.Eventually(func() bool { return h.Events.Count(EventHidden) >= want }, "alerts hidden")
}

// AdvanceToDetach advances by the fade duration and waits until every
// hidden alert is detached.
func (h *Harness) AdvanceToDetach() {
	h.t.Helper()
	want := h.Events.Count(EventHidden)
	h.Advance(alert.FadeDuration)
	h.WaitDetached(want)
}

// WaitDetached waits until n alerts have been detached in total.
func (h *Harness) WaitDetached(n int) {
	h.t.Helper()
	h.Eventually(func() bool { return h.Events.Count(EventDetached) >= n }, "alerts detached")
}

// Eventually polls cond until it holds or Timeout elapses.
func (h *Harness) Eventually(cond func() bool, what string) {
	h.t.Helper()
	deadline := time.Now().Add(Timeout)
	for !cond() {
		if time.Now().After(deadline) {
			h.t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
