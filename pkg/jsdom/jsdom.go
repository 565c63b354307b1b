//go:build js && wasm

// Package jsdom adapts the browser document to the dom interfaces so a
// Presenter can run in a WebAssembly build and mount alerts directly.
package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/vango-dev/alerts/pkg/dom"
)

// Document wraps a JavaScript document object.
type Document struct {
	v js.Value
}

var _ dom.Document = Document{}

// Global returns the page document.
func Global() Document {
	return Document{v: js.Global().Get("document")}
}

// Wrap returns a Document for v, which must be a DOM Document.
func Wrap(v js.Value) Document {
	return Document{v: v}
}

// CreateElement implements dom.Document.
func (d Document) CreateElement(tag string) dom.Element {
	return Element{v: d.v.Call("createElement", tag)}
}

// Body implements dom.Document. A document without a body yields an
// element whose AppendChild returns dom.ErrNoBody.
func (d Document) Body() dom.Element {
	return Element{v: d.v.Get("body")}
}

// Element wraps a JavaScript element.
type Element struct {
	v js.Value
}

var _ dom.Element = Element{}

// Value returns the underlying JavaScript object.
func (e Element) Value() js.Value {
	return e.v
}

func (e Element) missing() bool {
	return e.v.IsNull() || e.v.IsUndefined()
}

// SetAttribute implements dom.Element.
func (e Element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// Attribute implements dom.Element.
func (e Element) Attribute(name string) string {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}

// SetInnerHTML implements dom.Element.
func (e Element) SetInnerHTML(html string) {
	e.v.Set("innerHTML", html)
}

// ClassList implements dom.Element.
func (e Element) ClassList() dom.ClassList {
	return ClassList{v: e.v.Get("classList")}
}

// AppendChild implements dom.Element.
func (e Element) AppendChild(child dom.Element) error {
	c, ok := child.(Element)
	if !ok {
		return dom.ErrForeignElement
	}
	if e.missing() {
		return dom.ErrNoBody
	}
	e.v.Call("appendChild", c.v)
	return nil
}

// Remove implements dom.Element.
func (e Element) Remove() {
	e.v.Call("remove")
}

// ClassList wraps a DOMTokenList.
type ClassList struct {
	v js.Value
}

var _ dom.ClassList = ClassList{}

// Add implements dom.ClassList.
func (c ClassList) Add(tokens ...string) {
	c.v.Call("add", toArgs(tokens)...)
}

// Remove implements dom.ClassList.
func (c ClassList) Remove(tokens ...string) {
	c.v.Call("remove", toArgs(tokens)...)
}

// Contains implements dom.ClassList.
func (c ClassList) Contains(token string) bool {
	return c.v.Call("contains", token).Bool()
}

// String implements dom.ClassList.
func (c ClassList) String() string {
	return strings.TrimSpace(c.v.Get("value").String())
}

func toArgs(tokens []string) []any {
	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = t
	}
	return args
}
