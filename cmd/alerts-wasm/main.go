//go:build js && wasm

// Command alerts-wasm exposes alert presentation to page scripts when
// compiled to WebAssembly:
//
//	showAlert("success", "Changes saved!")
//
// Alerts are mounted straight into the page document and removed on the
// same schedule as server-driven ones.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/jsdom"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := alert.New(jsdom.Global(), alert.WithLogger(logger))

	show := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			logger.Warn("showAlert needs a kind and a message", "args", len(args))
			return nil
		}
		p.Present(context.Background(), alert.Kind(args[0].String()), args[1].String())
		return nil
	})
	defer show.Release()

	js.Global().Set("showAlert", show)
	js.Global().Set("alertsReady", true)

	// Keep the timers and the exported function alive.
	select {}
}
