package alert

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vango-dev/alerts/pkg/dom"
)

const (
	// DisplayDuration is how long an alert stays fully visible.
	DisplayDuration = 3000 * time.Millisecond

	// FadeDuration is the delay between hiding an alert and detaching it.
	// It matches the CSS fade transition.
	FadeDuration = 150 * time.Millisecond

	// Lifetime is the total time from mount to detach.
	Lifetime = DisplayDuration + FadeDuration
)

const (
	// Tag is the element created for each alert.
	Tag = "div"

	// Role is the value of the role attribute.
	Role = "alert"

	// ClassPrefix and ClassSuffix surround the kind in the class attribute.
	ClassPrefix = "alert alert-"
	ClassSuffix = " alert-dismissible fade show"

	// VisibleClass is the class token whose removal starts the fade out.
	VisibleClass = "show"

	// DismissButton is appended to every alert body.
	DismissButton = `<button type="button" class="btn-close" data-bs-dismiss="alert"></button>`
)

// ClassName returns the class attribute for an alert of the given kind.
// The kind is not sanitised.
func ClassName(kind Kind) string {
	return ClassPrefix + string(kind) + ClassSuffix
}

// Markup returns the inner HTML for an alert body.
func Markup(body string) string {
	return body + DismissButton
}

// Presenter creates alerts in a document and removes them on schedule.
// It holds no per-alert state and is safe for concurrent use.
type Presenter struct {
	doc      dom.Document
	clock    clockwork.Clock
	logger   *slog.Logger
	observer Observer
	seq      atomic.Uint64
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithClock sets the clock used to schedule hiding and removal.
// Tests pass a clockwork.FakeClock.
func WithClock(c clockwork.Clock) Option {
	return func(p *Presenter) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Presenter) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver adds an observer. Multiple observers are called in order.
func WithObserver(o Observer) Option {
	return func(p *Presenter) {
		if o == nil {
			return
		}
		if _, nop := p.observer.(nopObserver); nop {
			p.observer = o
			return
		}
		p.observer = Observers(p.observer, o)
	}
}

// New creates a Presenter for doc.
func New(doc dom.Document, opts ...Option) *Presenter {
	p := &Presenter{
		doc:      doc,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present shows an alert and returns immediately.
//
// The element is appended to the document body synchronously. After
// DisplayDuration its "show" class is removed, and FadeDuration after that
// it is detached. ctx parents tracing only; cancelling it does not cancel
// the alert.
func (p *Presenter) Present(ctx context.Context, kind Kind, body string) {
	ctx = context.WithoutCancel(ctx)
	n := Notice{
		ID:        p.seq.Add(1),
		Kind:      kind,
		MountedAt: p.clock.Now(),
	}

	el := p.doc.CreateElement(Tag)
	el.SetAttribute("class", ClassName(kind))
	el.SetAttribute("role", Role)
	el.SetInnerHTML(Markup(body))

	if err := p.doc.Body().AppendChild(el); err != nil {
		p.logger.Error("alert not mounted", "id", n.ID, "kind", string(kind), "error", err)
		p.observer.Failed(ctx, n, err)
		return
	}
	ctx = p.observer.Mounted(ctx, n)
	p.logger.Debug("alert mounted", "id", n.ID, "kind", string(kind))

	p.clock.AfterFunc(DisplayDuration, func() {
		el.ClassList().Remove(VisibleClass)

		// Scheduled from here so the fade always follows the hide. The
		// element leaves on time; Detached waits for Hidden to return.
		hidden := make(chan struct{})
		p.clock.AfterFunc(FadeDuration, func() {
			el.Remove()
			<-hidden
			p.observer.Detached(ctx, n)
			p.logger.Debug("alert detached", "id", n.ID, "kind", string(kind))
		})
		defer close(hidden)
		p.observer.Hidden(ctx, n)
	})
}

// Success presents a success alert.
//
//	p.Success(ctx, "Changes saved!")
func (p *Presenter) Success(ctx context.Context, message string) {
	p.Present(ctx, KindSuccess, message)
}

// Error presents an error alert.
//
//	p.Error(ctx, "Failed to delete item")
func (p *Presenter) Error(ctx context.Context, message string) {
	p.Present(ctx, KindError, message)
}

// Warning presents a warning alert.
func (p *Presenter) Warning(ctx context.Context, message string) {
	p.Present(ctx, KindWarning, message)
}

// Info presents an info alert.
func (p *Presenter) Info(ctx context.Context, message string) {
	p.Present(ctx, KindInfo, message)
}

// Clock returns the presenter clock.
func (p *Presenter) Clock() clockwork.Clock {
	return p.clock
}
