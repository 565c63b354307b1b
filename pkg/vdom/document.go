package vdom

import (
	"sync"

	"github.com/vango-dev/alerts/pkg/dom"
)

// BodyHID is the hydration ID of the document body.
const BodyHID = "h0"

// innerHTMLKey is the prop holding raw element content.
const innerHTMLKey = "dangerouslySetInnerHTML"

// Document is a mutable virtual document rooted at <body>.
// It is safe for concurrent use. Every change to a node reachable from the
// body is reported to subscribers as a Patch.
type Document struct {
	mu      sync.Mutex
	body    *VNode
	hids    *HIDGenerator
	version uint64

	subs    map[uint64]func(Patch)
	nextSub uint64

	// emitMu orders patch delivery; it is acquired before mu is released.
	emitMu sync.Mutex
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	body := Body()
	body.HID = BodyHID
	return &Document{
		body: body,
		hids: NewHIDGenerator(),
		subs: make(map[uint64]func(Patch)),
	}
}

// CreateElement returns a new detached element.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// NewElement is CreateElement with the concrete return type.
func (d *Document) NewElement(tag string) *Element {
	return &Element{doc: d, node: El(tag)}
}

// Body returns the document root container.
func (d *Document) Body() dom.Element {
	return &Element{doc: d, node: d.body}
}

// Subscribe registers fn to receive every patch in mutation order.
// fn is called outside the tree lock but must not call back into the
// Document. The returned function removes the subscription.
func (d *Document) Subscribe(fn func(Patch)) (unsubscribe func()) {
	d.mu.Lock()
	d.nextSub++
	id := d.nextSub
	d.subs[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
		})
	}
}

// Snapshot returns a deep copy of the body.
func (d *Document) Snapshot() *VNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.body.Clone()
}

// SnapshotVersion returns a deep copy of the body together with the Seq of
// the last patch it reflects. Every later patch has a greater Seq.
func (d *Document) SnapshotVersion() (*VNode, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.body.Clone(), d.version
}

// Version returns the Seq of the most recent patch.
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Len returns the number of direct children of the body.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.body.Children)
}

// Lookup finds an attached element by hydration ID.
func (d *Document) Lookup(hid string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node, ok := CollectHIDs(d.body)[hid]
	if !ok || node.Kind != KindElement {
		return nil, false
	}
	return &Element{doc: d, node: node}, true
}

// mutate runs fn under the tree lock and delivers the patches it returns.
func (d *Document) mutate(fn func() []Patch) {
	d.mu.Lock()
	patches := fn()
	for i := range patches {
		d.version++
		patches[i].Seq = d.version
	}
	if len(patches) == 0 || len(d.subs) == 0 {
		d.mu.Unlock()
		return
	}
	subs := make([]func(Patch), 0, len(d.subs))
	for _, s := range d.subs {
		subs = append(subs, s)
	}
	d.emitMu.Lock()
	d.mu.Unlock()
	defer d.emitMu.Unlock()

	for _, p := range patches {
		for _, s := range subs {
			s(p)
		}
	}
}

// connectedLocked reports whether node is reachable from the body.
func (d *Document) connectedLocked(node *VNode) bool {
	for n := node; n != nil; n = n.parent {
		if n == d.body {
			return true
		}
	}
	return false
}

// Element is a node of a Document.
type Element struct {
	doc  *Document
	node *VNode
}

var _ dom.Element = (*Element)(nil)

// HID returns the hydration ID, or "" while the element was never attached.
func (e *Element) HID() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.node.HID
}

// Tag returns the element tag name.
func (e *Element) Tag() string {
	return e.node.Tag
}

// IsConnected reports whether the element is attached to the body.
func (e *Element) IsConnected() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.connectedLocked(e.node)
}

// InnerHTML returns the raw content set with SetInnerHTML.
func (e *Element) InnerHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.node.StringProp(innerHTMLKey)
}

// Node returns a snapshot of the element subtree.
func (e *Element) Node() *VNode {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.node.Clone()
}

// SetAttribute sets an attribute value.
func (e *Element) SetAttribute(name, value string) {
	e.doc.mutate(func() []Patch {
		return e.setAttrLocked(name, value)
	})
}

// Attribute returns an attribute value, or "" if unset.
func (e *Element) Attribute(name string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.node.StringProp(name)
}

// SetInnerHTML replaces the element content with raw, unescaped markup.
func (e *Element) SetInnerHTML(html string) {
	e.doc.mutate(func() []Patch {
		for _, child := range e.node.Children {
			child.parent = nil
		}
		e.node.Children = nil
		return e.setAttrLocked(innerHTMLKey, html)
	})
}

// ClassList returns the class token set.
func (e *Element) ClassList() dom.ClassList {
	return &ClassList{el: e}
}

// AppendChild attaches child as the last child of e. A child that is
// already attached elsewhere is moved.
func (e *Element) AppendChild(child dom.Element) error {
	c, ok := child.(*Element)
	if !ok || c.doc != e.doc {
		return dom.ErrForeignElement
	}

	var err error
	e.doc.mutate(func() []Patch {
		for n := e.node; n != nil; n = n.parent {
			if n == c.node {
				err = errHierarchy
				return nil
			}
		}

		var patches []Patch
		patches = append(patches, c.removeLocked()...)

		AssignHIDs(c.node, e.doc.hids)
		e.node.Children = append(e.node.Children, c.node)
		c.node.parent = e.node

		if e.doc.connectedLocked(e.node) {
			patches = append(patches, Patch{
				Op:       PatchInsertNode,
				HID:      c.node.HID,
				ParentID: e.node.HID,
				Index:    len(e.node.Children) - 1,
				Node:     c.node.Clone(),
			})
		}
		return patches
	})
	return err
}

// Remove detaches the element from its parent. Removing a detached element
// does nothing, so a node is reported removed at most once per attachment.
func (e *Element) Remove() {
	e.doc.mutate(e.removeLocked)
}

func (e *Element) removeLocked() []Patch {
	parent := e.node.parent
	if parent == nil {
		return nil
	}
	connected := e.doc.connectedLocked(e.node)

	for i, child := range parent.Children {
		if child == e.node {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	e.node.parent = nil

	if !connected {
		return nil
	}
	return []Patch{{Op: PatchRemoveNode, HID: e.node.HID, ParentID: parent.HID}}
}

func (e *Element) setAttrLocked(name, value string) []Patch {
	if old, ok := e.node.Props[name].(string); ok && old == value {
		return nil
	}
	e.node.Props[name] = value
	if !e.doc.connectedLocked(e.node) {
		return nil
	}
	return []Patch{{
		Op:    PatchSetAttr,
		HID:   e.node.HID,
		Key:   name,
		Value: value,
		Node:  e.node.Clone(),
	}}
}
