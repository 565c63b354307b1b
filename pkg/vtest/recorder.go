package vtest

import (
	"context"
	"sync"

	"github.com/vango-dev/alerts/pkg/alert"
)

// EventType identifies an observed lifecycle transition.
type EventType string

const (
	EventMounted  EventType = "mounted"
	EventHidden   EventType = "hidden"
	EventDetached EventType = "detached"
	EventFailed   EventType = "failed"
)

// Event is one recorded transition.
type Event struct {
	Type   EventType
	Notice alert.Notice
	Err    error
}

// Recorder is an alert.Observer that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ alert.Observer = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Mounted implements alert.Observer.
func (r *Recorder) Mounted(ctx context.Context, n alert.Notice) context.Context {
	r.add(Event{Type: EventMounted, Notice: n})
	return ctx
}

// Hidden implements alert.Observer.
func (r *Recorder) Hidden(_ context.Context, n alert.Notice) {
	r.add(Event{Type: EventHidden, Notice: n})
}

// Detached implements alert.Observer.
func (r *Recorder) Detached(_ context.Context, n alert.Notice) {
	r.add(Event{Type: EventDetached, Notice: n})
}

// Failed implements alert.Observer.
func (r *Recorder) Failed(_ context.Context, n alert.Notice, err error) {
	r.add(Event{Type: EventFailed, Notice: n, Err: err})
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// For returns the event types recorded for one notice, in order.
func (r *Recorder) For(id uint64) []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []EventType
	for _, e := range r.events {
		if e.Notice.ID == id {
			out = append(out, e.Type)
		}
	}
	return out
}
