package server

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/alerts/pkg/alert"
)

type options struct {
	logger         *slog.Logger
	clock          clockwork.Clock
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	observers      []alert.Observer
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the presenter clock. Tests pass a clockwork.FakeClock.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithRegistry sets the Prometheus registry used for alert metrics and
// served at the metrics path. By default each Server gets its own registry
// with the Go and process collectors.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithTracerProvider sets the provider for alert spans when tracing is
// enabled. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithObserver adds an alert observer after the built-in ones.
func WithObserver(obs alert.Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}
