// Package middleware provides production observers for alert lifecycles
// and the streams that deliver them.
//
// This package includes:
//   - Prometheus metrics for presented, active and failed alerts and for
//     patch streams
//   - OpenTelemetry tracing with one span per alert, mount to detach
//
// # Prometheus Metrics
//
//	metrics := middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	)
//	p := alert.New(doc, alert.WithObserver(metrics))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - alerts_presented_total: Counter of mounted alerts by kind
//   - alerts_failed_total: Counter of alerts the host refused, by kind
//   - alerts_active: Gauge of alerts currently attached
//   - alerts_lifetime_seconds: Histogram of mount-to-detach time
//   - alerts_streams_active: Gauge of connected browser streams by transport
//   - alerts_frames_sent_total: Counter of frames written to streams
//   - alerts_stream_drops_total: Counter of streams dropped for falling behind
//
// Kinds outside the predefined set are reported as "other" to keep label
// cardinality bounded.
//
// # OpenTelemetry
//
//	p := alert.New(doc, alert.WithObserver(
//	    middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Spans carry alert.id and alert.kind and get a
// "hidden" event when the fade starts. The message body is never recorded.
package middleware
