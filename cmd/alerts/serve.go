package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/middleware"
	"github.com/vango-dev/alerts/pkg/server"
)

type serveOptions struct {
	configPath string
	host       string
	port       int
	transport  string
	demo       time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the alerts server",
		Long: `Start the HTTP server.

The page at / shows the live alert document. POST /alerts with a
JSON body {"kind": "success", "message": "Saved!"} or an equivalent
form to present an alert to every connected browser.

Configuration is read from --config, then $ALERTS_CONFIG, then
alerts.json in the current directory. Flags override the file.

Examples:
  alerts serve
  alerts serve --port=8080 --transport=sse
  alerts serve --demo=5s`,
		Args: maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to alerts.json")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from alerts.json)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to run on (default from alerts.json)")
	cmd.Flags().StringVarP(&opts.transport, "transport", "t", "", "Stream transport: websocket or sse")
	cmd.Flags().DurationVar(&opts.demo, "demo", 0, "Present a demo alert at this interval")

	return cmd
}

func runServe(ctx context.Context, stdout, stderr io.Writer, opts serveOptions) error {
	cfg, err := config.Resolve(opts.configPath, ".")
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.transport != "" {
		cfg.Stream.Transport = strings.ToLower(opts.transport)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	srvOpts := []server.Option{server.WithLogger(logger)}
	if cfg.Tracing.Enabled {
		tp := middleware.NewTracerProvider(cfg.Tracing.ServiceName,
			middleware.NewLogExporter(logger.With("component", "tracing")))
		otel.SetTracerProvider(tp)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout())
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
		srvOpts = append(srvOpts, server.WithTracerProvider(tp))
	}

	srv, err := server.New(cfg, srvOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(stdout)
	success(stdout, "Serving alerts on %s", cfg.URL())
	info(stdout, "Transport: %s", cfg.Stream.Transport)
	if cfg.Metrics.Enabled {
		info(stdout, "Metrics:   %s%s", cfg.URL(), cfg.Metrics.Path)
	}
	fmt.Fprintln(stdout)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if opts.demo > 0 {
		g.Go(func() error {
			return runDemo(ctx, srv.Presenter(), opts.demo)
		})
	}
	return g.Wait()
}

var demoKinds = []alert.Kind{alert.KindSuccess, alert.KindInfo, alert.KindWarning, alert.KindDanger}

// runDemo presents a rotating alert every interval until ctx is done.
func runDemo(ctx context.Context, p *alert.Presenter, every time.Duration) error {
	ticker := p.Clock().NewTicker(every)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			kind := demoKinds[i%len(demoKinds)]
			p.Present(ctx, kind, fmt.Sprintf("Demo alert #%d (%s)", i+1, kind))
		}
	}
}
