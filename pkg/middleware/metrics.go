package middleware

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/alerts/pkg/alert"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "alerts").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for alert lifetime in seconds.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Clock measures alert lifetime. It should be the presenter clock.
	Clock clockwork.Clock
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// WithMetricsClock sets the clock used to measure alert lifetime.
func WithMetricsClock(clock clockwork.Clock) MetricsOption {
	return func(c *MetricsConfig) {
		c.Clock = clock
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "alerts",
		Buckets:   []float64{1, 2, 3, 3.2, 4, 5, 10, 30},
		Registry:  prometheus.DefaultRegisterer,
		Clock:     clockwork.NewRealClock(),
	}
}

// Metrics is an alert.Observer that records Prometheus metrics. It also
// exposes stream hooks for the server.
type Metrics struct {
	clock clockwork.Clock

	presented  *prometheus.CounterVec
	failed     *prometheus.CounterVec
	active     prometheus.Gauge
	lifetime   prometheus.Histogram
	streams    *prometheus.GaugeVec
	framesSent *prometheus.CounterVec
	drops      *prometheus.CounterVec
}

var _ alert.Observer = (*Metrics)(nil)

// Prometheus creates the metrics observer and registers its collectors.
// Registering twice on the same registry panics, as with promauto.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		clock: config.Clock,

		presented: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "presented_total",
			Help:        "Total number of alerts mounted, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failed_total",
			Help:        "Total number of alerts the host document refused, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active",
			Help:        "Number of alerts currently attached to the document",
			ConstLabels: config.ConstLabels,
		}),

		lifetime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifetime_seconds",
			Help:        "Time from mount to detach in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		streams: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "streams_active",
			Help:        "Number of connected browser streams by transport",
			ConstLabels: config.ConstLabels,
		}, []string{"transport"}),

		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of patch frames written to streams",
			ConstLabels: config.ConstLabels,
		}, []string{"transport"}),

		drops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stream_drops_total",
			Help:        "Total number of streams dropped for falling behind",
			ConstLabels: config.ConstLabels,
		}, []string{"transport"}),
	}
}

// kindLabel bounds label cardinality for caller-supplied kinds.
func kindLabel(k alert.Kind) string {
	if k.Known() {
		return string(k)
	}
	return "other"
}

// Mounted implements alert.Observer.
func (m *Metrics) Mounted(ctx context.Context, n alert.Notice) context.Context {
	m.presented.WithLabelValues(kindLabel(n.Kind)).Inc()
	m.active.Inc()
	return ctx
}

// Hidden implements alert.Observer.
func (m *Metrics) Hidden(context.Context, alert.Notice) {}

// Detached implements alert.Observer.
func (m *Metrics) Detached(_ context.Context, n alert.Notice) {
	m.lifetime.Observe(m.clock.Since(n.MountedAt).Seconds())
	m.active.Dec()
}

// Failed implements alert.Observer.
func (m *Metrics) Failed(_ context.Context, n alert.Notice, _ error) {
	m.failed.WithLabelValues(kindLabel(n.Kind)).Inc()
}

// StreamOpened records a browser stream connecting.
func (m *Metrics) StreamOpened(transport string) {
	if m == nil {
		return
	}
	m.streams.WithLabelValues(transport).Inc()
}

// StreamClosed records a browser stream going away.
func (m *Metrics) StreamClosed(transport string) {
	if m == nil {
		return
	}
	m.streams.WithLabelValues(transport).Dec()
}

// FrameSent records one frame written to a stream.
func (m *Metrics) FrameSent(transport string) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(transport).Inc()
}

// StreamDropped records a stream removed for falling behind.
func (m *Metrics) StreamDropped(transport string) {
	if m == nil {
		return
	}
	m.drops.WithLabelValues(transport).Inc()
}
