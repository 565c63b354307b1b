package vdom

import "errors"

var errHierarchy = errors.New("vdom: cannot append an element to its own descendant")
