// Package server serves a shared alert document to browsers.
//
// A Server owns one vdom.Document and the alert.Presenter that mutates it.
// Every browser renders the same body: GET / returns the current document
// and a patch stream keeps it live until the page is closed.
//
// # Routes
//
//	GET  /                   server-rendered page
//	GET  /_alerts/client.js  thin WebSocket client
//	GET  /_alerts/ws         WebSocket patch stream (JSON frames)
//	GET  /_alerts/sse        datastar SSE patch stream
//	POST /alerts             present {"kind", "message"} (JSON or form)
//	GET  /metrics            Prometheus scrape endpoint, when enabled
//	GET  /healthz            liveness
//
// # Streams
//
// The Hub renders each document patch once and fans it out to every
// stream, and keeps the encoded WebSocket frames in a PatchHistory.
// Patches carry the document version. A WebSocket client that reconnects
// with the last version it applied is replayed the frames it missed; it
// reloads only when those frames have left the history.
//
// # Trust
//
// POST /alerts inserts the message as raw HTML into every connected page.
// The default configuration binds to localhost; put the server behind
// authentication before exposing it.
//
// # Usage
//
//	srv, err := server.New(cfg, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	srv.Presenter().Success(ctx, "Saved!")
//	return srv.Run(ctx)
package server
