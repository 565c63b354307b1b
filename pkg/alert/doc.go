// Package alert presents transient, dismissible notifications.
//
// Present creates an alert element, appends it to the document body and
// schedules its removal: after DisplayDuration the "show" class is dropped
// so the stylesheet fades the alert out, and FadeDuration later the element
// is detached. Present returns immediately and there is no way to cancel a
// scheduled removal.
//
// The markup follows Bootstrap's alert component:
//
//	<div class="alert alert-success alert-dismissible fade show" role="alert">
//	    Saved!<button type="button" class="btn-close" data-bs-dismiss="alert"></button>
//	</div>
//
// # Hosts
//
// The presenter talks to a dom.Document. On the server that is a
// vdom.Document whose patches are streamed to browsers; in a js/wasm build
// it is the browser document itself (see pkg/jsdom).
//
// # Usage
//
//	doc := vdom.NewDocument()
//	p := alert.New(doc, alert.WithLogger(logger))
//
//	p.Success(ctx, "Project deleted")
//	p.Present(ctx, "warning", "<strong>Careful:</strong> this cannot be undone")
//
// The body is inserted as raw HTML. Callers must sanitise anything that did
// not originate from trusted code.
//
// # Observers
//
// An Observer is notified when an alert is mounted, hidden, detached, or
// could not be mounted. pkg/middleware provides Prometheus and
// OpenTelemetry observers.
package alert
