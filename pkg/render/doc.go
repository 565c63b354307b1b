// Package render provides server-side rendering (SSR) of virtual DOM trees.
//
// The render package converts VNode trees into HTML strings or streams:
//
//   - HTML5 compliant element rendering
//   - Proper text and attribute escaping
//   - Void element handling (input, br, meta, etc.)
//   - Boolean attribute handling (defer, hidden, etc.)
//   - data-hid attributes for nodes attached to a vdom.Document
//   - Full page rendering with DOCTYPE, head, body
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Body:      doc.Snapshot(),
//	    Title:     "Alerts",
//	    Transport: render.TransportWebSocket,
//	}
//	err := renderer.RenderPage(w, page)
//
// # Security
//
// Text content and attribute values are escaped. Raw nodes and inner HTML
// set through vdom.InnerHTML are written verbatim; alert bodies travel this
// path and must come from trusted callers.
package render
