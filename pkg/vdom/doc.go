// Package vdom provides the server-side virtual DOM used to present alerts.
//
// The virtual DOM is an in-memory representation of the page body. In the
// server-driven setup the Document lives on the server: every mutation is
// described as a Patch and handed to subscribers, which forward it to
// connected browsers.
//
// # Core Types
//
// VNode is the building block representing elements, text, fragments and
// raw HTML. Props holds attributes. Attr is used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("alert", "alert-info"), Role("alert"),
//	    Text("Heads up"),
//	)
//
// # Document
//
// Document is the mutable tree rooted at <body>. It implements dom.Document,
// so it can be handed directly to an alert.Presenter:
//
//	doc := vdom.NewDocument()
//	unsubscribe := doc.Subscribe(func(p vdom.Patch) {
//	    log.Println(p.Op, p.HID)
//	})
//	defer unsubscribe()
//
// # Hydration IDs
//
// Nodes attached to a Document receive hydration IDs ("h1", "h2", ...).
// Patches address nodes by HID, and the renderer emits them as data-hid
// attributes so the browser can find the same node.
package vdom
