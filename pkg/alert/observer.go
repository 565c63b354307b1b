package alert

import (
	"context"
	"time"
)

// Notice describes one presented alert to observers. It deliberately omits
// the body.
type Notice struct {
	ID        uint64
	Kind      Kind
	MountedAt time.Time
}

// Observer is notified about alert lifecycle transitions.
//
// Mounted may return a derived context; that context is passed to Hidden and
// Detached for the same notice. Hidden and Detached run on timer goroutines.
// Detached is never called before Hidden has returned for the same notice,
// even when Hidden is still running at the fade deadline.
type Observer interface {
	Mounted(ctx context.Context, n Notice) context.Context
	Hidden(ctx context.Context, n Notice)
	Detached(ctx context.Context, n Notice)
	Failed(ctx context.Context, n Notice, err error)
}

// Observers chains observers. Mounted threads the context through each
// observer in order.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) Mounted(ctx context.Context, n Notice) context.Context {
	for _, o := range m {
		ctx = o.Mounted(ctx, n)
	}
	return ctx
}

func (m multiObserver) Hidden(ctx context.Context, n Notice) {
	for _, o := range m {
		o.Hidden(ctx, n)
	}
}

func (m multiObserver) Detached(ctx context.Context, n Notice) {
	for _, o := range m {
		o.Detached(ctx, n)
	}
}

func (m multiObserver) Failed(ctx context.Context, n Notice, err error) {
	for _, o := range m {
		o.Failed(ctx, n, err)
	}
}

type nopObserver struct{}

func (nopObserver) Mounted(ctx context.Context, _ Notice) context.Context { return ctx }
func (nopObserver) Hidden(context.Context, Notice)                        {}
func (nopObserver) Detached(context.Context, Notice)                      {}
func (nopObserver) Failed(context.Context, Notice, error)                 {}
