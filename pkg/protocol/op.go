package protocol

import (
	"strconv"

	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// OpKind names a patch operation on the wire.
type OpKind string

const (
	OpInsert OpKind = "insert" // Insert rendered HTML under a parent
	OpAttr   OpKind = "attr"   // Set an attribute
	OpRemove OpKind = "remove" // Detach a node
)

// Valid reports whether k is a known operation.
func (k OpKind) Valid() bool {
	switch k {
	case OpInsert, OpAttr, OpRemove:
		return true
	}
	return false
}

// Op is a single DOM operation for a browser to apply.
type Op struct {
	Kind   OpKind `json:"op"`
	HID    string `json:"hid"`
	Parent string `json:"parent,omitempty"`
	Index  int    `json:"index,omitempty"`
	HTML   string `json:"html,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// FromPatch converts a document patch into a wire operation. html is the
// rendered node for InsertNode and is ignored otherwise.
func FromPatch(p vdom.Patch, html string) (Op, error) {
	var op Op
	switch p.Op {
	case vdom.PatchInsertNode:
		op = Op{Kind: OpInsert, HID: p.HID, Parent: p.ParentID, Index: p.Index, HTML: html}
	case vdom.PatchSetAttr:
		op = Op{Kind: OpAttr, HID: p.HID, Key: p.Key, Value: p.Value}
	case vdom.PatchRemoveNode:
		op = Op{Kind: OpRemove, HID: p.HID}
	default:
		return Op{}, errors.New("E203").WithDetail("patch op " + p.Op.String())
	}
	return op, op.Validate()
}

// Validate checks that the operation carries the fields its kind needs.
func (o Op) Validate() error {
	if !o.Kind.Valid() {
		return errors.New("E201").
			WithField("op").
			WithDetail(strconv.Quote(string(o.Kind)) + " is not a known operation")
	}
	if o.HID == "" {
		return errors.New("E202").WithField("hid").WithDetail(string(o.Kind) + " without a target")
	}
	switch o.Kind {
	case OpInsert:
		if o.Parent == "" {
			return errors.New("E202").WithField("parent").WithDetail("insert without a parent")
		}
		if o.Index < 0 {
			return errors.New("E202").WithField("index").WithDetail("negative insert index")
		}
	case OpAttr:
		if o.Key == "" {
			return errors.New("E202").WithField("key").WithDetail("attr without a key")
		}
	}
	return nil
}
