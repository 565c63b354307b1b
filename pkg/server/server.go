package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/middleware"
	"github.com/vango-dev/alerts/pkg/render"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// Route paths.
const (
	PathPage    = "/"
	PathClient  = "/_alerts/client.js"
	PathWS      = "/_alerts/ws"
	PathSSE     = "/_alerts/sse"
	PathPresent = "/alerts"
	PathHealthz = "/healthz"
)

// Server serves one shared alert document.
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	doc       *vdom.Document
	presenter *alert.Presenter
	hub       *Hub
	renderer  *render.Renderer
	metrics   *middleware.Metrics
	registry  *prometheus.Registry
	upgrader  websocket.Upgrader
	router    chi.Router
}

// New creates a Server from a validated configuration. A nil cfg uses the
// defaults.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	logger := o.logger.With("component", "server")

	s := &Server{
		config:   cfg,
		logger:   logger,
		doc:      vdom.NewDocument(),
		renderer: render.NewRenderer(render.RendererConfig{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	presenterOpts := []alert.Option{
		alert.WithClock(o.clock),
		alert.WithLogger(o.logger.With("component", "alert")),
	}

	var streams StreamObserver
	if cfg.Metrics.Enabled {
		s.registry = o.registry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
			s.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		s.metrics = middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithMetricsClock(o.clock),
		)
		streams = s.metrics
		presenterOpts = append(presenterOpts, alert.WithObserver(s.metrics))
	}
	if cfg.Tracing.Enabled {
		tracingOpts := []middleware.OTelOption{middleware.WithTracerName(cfg.Tracing.ServiceName)}
		if o.tracerProvider != nil {
			tracingOpts = append(tracingOpts, middleware.WithTracerProvider(o.tracerProvider))
		}
		presenterOpts = append(presenterOpts, alert.WithObserver(middleware.OpenTelemetry(tracingOpts...)))
	}
	for _, obs := range o.observers {
		presenterOpts = append(presenterOpts, alert.WithObserver(obs))
	}

	s.presenter = alert.New(s.doc, presenterOpts...)
	s.hub = NewHub(s.doc, HubConfig{
		BufferSize:  cfg.Stream.BufferSize,
		HistorySize: cfg.Stream.HistorySize,
		Logger:      logger,
		Streams:     streams,
	})
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Get(PathPage, s.handlePage)
	r.Get(PathClient, s.serveThinClient)
	r.Head(PathClient, s.serveThinClient)
	r.Get(PathWS, s.handleWebSocket)
	r.Get(PathSSE, s.handleSSE)
	r.Post(PathPresent, s.handlePresent)
	r.Get(PathHealthz, s.handleHealthz)
	if s.registry != nil {
		r.Method(http.MethodGet, s.config.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// logRequests logs each request at debug level once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Presenter returns the presenter bound to the shared document.
func (s *Server) Presenter() *alert.Presenter {
	return s.presenter
}

// Document returns the shared document.
func (s *Server) Document() *vdom.Document {
	return s.doc
}

// Hub returns the stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Metrics returns the Prometheus observer, or nil when metrics are off.
func (s *Server) Metrics() *middleware.Metrics {
	return s.metrics
}

// Config returns the server configuration.
func (s *Server) Config() *config.Config {
	return s.config
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return errors.New("E301").WithDetail(s.config.Address()).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout. Streams are closed first so
// their handlers return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "transport", s.config.Stream.Transport)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E301").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return errors.New("E304").Wrap(err)
	}
	<-errCh

	s.logger.Info("server shutdown complete")
	return nil
}
