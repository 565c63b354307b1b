package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vango-dev/alerts/pkg/vdom"
)

// Transport names understood by the page bootstrap.
const (
	TransportWebSocket = "websocket"
	TransportSSE       = "sse"
)

// DefaultClientScript is the path of the embedded thin client.
const DefaultClientScript = "/_alerts/client.js"

// DatastarScript is the datastar bundle loaded by SSE pages.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the document body to render. It is cloned before the
	// bootstrap attributes are added.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains script tags to include in the head.
	Scripts []ScriptTag

	// Transport selects how the page receives document patches:
	// TransportWebSocket (thin client) or TransportSSE (datastar).
	Transport string

	// StreamURL is the endpoint of the selected transport.
	StreamURL string

	// Seq is the document version Body reflects. The thin client resumes
	// the stream from it.
	Seq uint64

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to DefaultClientScript. Unused for TransportSSE.
	ClientScript string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Defer  bool   // defer attribute
	Module bool   // type="module"
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, r.head(page)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	body := page.Body.Clone()
	if body == nil {
		body = vdom.Body()
	}
	if body.Props == nil {
		body.Props = make(vdom.Props)
	}
	switch page.Transport {
	case TransportSSE:
		// datastar opens the stream as soon as it initialises the body.
		body.Props["data-init"] = fmt.Sprintf("@get('%s')", page.StreamURL)
	case TransportWebSocket:
		body.Props["data-alerts-stream"] = page.StreamURL
		body.Props["data-alerts-seq"] = strconv.FormatUint(page.Seq, 10)
	}
	if err := r.RenderToWriter(w, body); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n</html>\n")
	return err
}

// head builds the document head.
func (r *Renderer) head(page PageData) *vdom.VNode {
	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
	)
	if page.Title != "" {
		head.Children = append(head.Children, vdom.Title(vdom.Text(page.Title)))
	}
	for _, href := range page.StyleSheets {
		head.Children = append(head.Children, vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href)))
	}
	for _, s := range page.Scripts {
		head.Children = append(head.Children, scriptNode(s))
	}
	switch page.Transport {
	case TransportWebSocket:
		src := page.ClientScript
		if src == "" {
			src = DefaultClientScript
		}
		head.Children = append(head.Children, scriptNode(ScriptTag{Src: src, Defer: true}))
	case TransportSSE:
		head.Children = append(head.Children, scriptNode(ScriptTag{Src: DatastarScript, Module: true}))
	}
	return head
}

func scriptNode(s ScriptTag) *vdom.VNode {
	var typ, deferred vdom.Attr
	if s.Module {
		typ = vdom.Type("module")
	}
	if s.Defer {
		deferred = vdom.Defer()
	}
	return vdom.Script(typ, vdom.Src(s.Src), deferred)
}
