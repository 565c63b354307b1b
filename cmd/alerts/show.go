package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/render"
	"github.com/vango-dev/alerts/pkg/server"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// lifecycleTimeout bounds a --lifecycle run. The clock is fake, so this
// only trips if a timer never fires.
const lifecycleTimeout = 5 * time.Second

func showCmd() *cobra.Command {
	var (
		pretty    bool
		lifecycle bool
	)

	cmd := &cobra.Command{
		Use:   "show <kind> <message>",
		Short: "Print the markup of an alert",
		Long: `Print the element an alert mounts, without starting a server.

The message is inserted as raw HTML. With --lifecycle the command
prints every patch frame the alert produces, from insert to removal,
as a connected browser would receive them.

Examples:
  alerts show success "Changes saved!"
  alerts show warning "<b>Careful</b>" --pretty
  alerts show info "Heads up" --lifecycle`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, message := alert.Kind(args[0]), args[1]
			w := cmd.OutOrStdout()
			if !kind.Known() {
				warn(cmd.ErrOrStderr(), "%q is not a Bootstrap alert kind; the class is used as given", kind)
			}
			if lifecycle {
				return runLifecycle(cmd.Context(), w, kind, message)
			}
			return runShow(w, kind, message, pretty)
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the markup")
	cmd.Flags().BoolVarP(&lifecycle, "lifecycle", "l", false, "Print the patch frames from mount to removal")

	return cmd
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runShow(w io.Writer, kind alert.Kind, message string, pretty bool) error {
	doc := vdom.NewDocument()
	p := alert.New(doc,
		alert.WithClock(clockwork.NewFakeClock()),
		alert.WithLogger(quietLogger()),
	)
	p.Present(context.Background(), kind, message)

	renderer := render.NewRenderer(render.RendererConfig{Pretty: pretty, OmitHIDs: true})
	for _, child := range doc.Snapshot().Children {
		if err := renderer.RenderToWriter(w, child); err != nil {
			return err
		}
	}
	if !pretty {
		fmt.Fprintln(w)
	}
	return nil
}

// runLifecycle drives one alert through its timers on a fake clock and
// prints each frame with the time it would be sent.
func runLifecycle(ctx context.Context, w io.Writer, kind alert.Kind, message string) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycleTimeout)
	defer cancel()

	logger := quietLogger()
	doc := vdom.NewDocument()
	hub := server.NewHub(doc, server.HubConfig{BufferSize: 4, Logger: logger})
	defer hub.Close()
	sub := hub.Subscribe("cli")

	clock := clockwork.NewFakeClock()
	start := clock.Now()
	p := alert.New(doc, alert.WithClock(clock), alert.WithLogger(logger))
	p.Present(ctx, kind, message)

	for _, step := range []time.Duration{0, alert.DisplayDuration, alert.FadeDuration} {
		if step > 0 {
			if err := clock.BlockUntilContext(ctx, 1); err != nil {
				return err
			}
			clock.Advance(step)
		}

		var u server.Update
		select {
		case u = <-sub.Updates():
		case <-ctx.Done():
			return ctx.Err()
		}
		if u.Frame == nil {
			return errors.New("E202").WithDetail("patch " + strconv.FormatUint(u.Seq, 10) + " could not be encoded")
		}
		fmt.Fprintf(w, "%-6s %s\n", clock.Since(start), u.Frame)
	}
	return nil
}

// exactArgs is cobra.ExactArgs reporting E401.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New("E401").
				WithDetail(cmd.CommandPath() + " takes " + plural(n, "argument") + ", got " + strconv.Itoa(len(args))).
				WithSuggestion("Usage: " + cmd.UseLine())
		}
		return nil
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
