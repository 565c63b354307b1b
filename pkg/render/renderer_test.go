package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/alerts/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderRaw(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Raw("<b>bold</b>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<b>bold</b>" {
		t.Errorf("got %q, want raw passthrough", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.El("p", vdom.Text("Content")),
		&vdom.VNode{Kind: vdom.KindFragment, Children: []*vdom.VNode{vdom.El("span"), vdom.Text("tail")}},
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><p>Content</p><span></span>tail</div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAlertMarkup(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(
		vdom.Class("alert alert-success alert-dismissible fade show"),
		vdom.Role("alert"),
		vdom.InnerHTML(`Saved!<button type="button" class="btn-close" data-bs-dismiss="alert"></button>`),
	)
	node.HID = "h3"

	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="alert alert-success alert-dismissible fade show" role="alert" data-hid="h3">` +
		`Saved!<button type="button" class="btn-close" data-bs-dismiss="alert"></button></div>`
	if html != want {
		t.Errorf("got %q\nwant %q", html, want)
	}
}

func TestRenderOmitHIDs(t *testing.T) {
	renderer := NewRenderer(RendererConfig{OmitHIDs: true})

	node := vdom.Div()
	node.HID = "h1"
	html, _ := renderer.RenderToString(node)
	if strings.Contains(html, "data-hid") {
		t.Errorf("OmitHIDs output %q contains data-hid", html)
	}
}

func TestRenderInnerHTMLThenChildren(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.InnerHTML("<i>a</i>"), vdom.El("span", vdom.Text("b")))
	html, _ := renderer.RenderToString(node)
	if html != "<div><i>a</i><span>b</span></div>" {
		t.Errorf("got %q", html)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, _ := renderer.RenderToString(vdom.Div(vdom.Class(`alert-"><script>`)))
	value := extractAttrValue(t, html, "class")
	if strings.ContainsAny(value, `<>"`) {
		t.Errorf("class value %q should be escaped", value)
	}
}

func TestRenderVoidAndBoolean(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"meta", vdom.Meta(vdom.Charset("utf-8")), `<meta charset="utf-8">`},
		{"defer true", vdom.Script(vdom.Src("/a.js"), vdom.Defer()), `<script defer src="/a.js"></script>`},
		{"defer false", vdom.Script(vdom.Attr{Key: "defer", Value: false}), `<script></script>`},
		{"int attr", vdom.Div(vdom.Attr{Key: "tabindex", Value: 2}), `<div tabindex="2"></div>`},
		{"empty class kept", vdom.Div(vdom.Class()), `<div class=""></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	if _, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.VKind(99)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
	if html, err := renderer.RenderToString(nil); err != nil || html != "" {
		t.Errorf("nil node = %q, %v", html, err)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	var buf bytes.Buffer
	if err := renderer.RenderToWriter(&buf, vdom.Div(vdom.El("span", vdom.Text("x")))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div>\n  <span>x</span>\n</div>\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
