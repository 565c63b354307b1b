// Package dom defines the slice of a host document that alert presentation
// needs: creating an element, attaching it to the body, editing its class
// list and detaching it again.
//
// Two hosts implement it: the server-side virtual document in pkg/vdom and
// the browser document in pkg/jsdom (js/wasm builds only).
package dom

import "errors"

var (
	// ErrForeignElement is returned by AppendChild when the child was
	// created by a different Document implementation.
	ErrForeignElement = errors.New("dom: element belongs to another document")

	// ErrNoBody is returned when the document has no body to append to.
	ErrNoBody = errors.New("dom: document has no body")
)

// Document is a host document.
type Document interface {
	// CreateElement returns a new detached element with the given tag.
	CreateElement(tag string) Element

	// Body returns the document root container.
	Body() Element
}

// Element is a node in a host document.
type Element interface {
	SetAttribute(name, value string)
	Attribute(name string) string

	// SetInnerHTML replaces the element content with raw markup.
	// The markup is not escaped.
	SetInnerHTML(html string)

	ClassList() ClassList

	// AppendChild attaches child as the last child of this element.
	AppendChild(child Element) error

	// Remove detaches the element from its parent. Removing a detached
	// element is a no-op.
	Remove()
}

// ClassList is the space-separated token set of the class attribute.
type ClassList interface {
	Add(tokens ...string)
	Remove(tokens ...string)
	Contains(token string) bool
	String() string
}
