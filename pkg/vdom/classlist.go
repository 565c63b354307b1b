package vdom

import "strings"

// ClassList is the class token set of an Element. Updates behave like the
// browser DOMTokenList: the attribute is rewritten as the ordered,
// de-duplicated token set.
type ClassList struct {
	el *Element
}

// Add appends tokens that are not already present.
func (c *ClassList) Add(tokens ...string) {
	c.el.doc.mutate(func() []Patch {
		set := classTokens(c.el.node.StringProp("class"))
		for _, t := range tokens {
			if t != "" && !containsToken(set, t) {
				set = append(set, t)
			}
		}
		return c.el.setAttrLocked("class", strings.Join(set, " "))
	})
}

// Remove drops every occurrence of the given tokens.
func (c *ClassList) Remove(tokens ...string) {
	c.el.doc.mutate(func() []Patch {
		set := classTokens(c.el.node.StringProp("class"))
		kept := set[:0]
		for _, t := range set {
			if !containsToken(tokens, t) {
				kept = append(kept, t)
			}
		}
		return c.el.setAttrLocked("class", strings.Join(kept, " "))
	})
}

// Contains reports whether token is present.
func (c *ClassList) Contains(token string) bool {
	c.el.doc.mu.Lock()
	defer c.el.doc.mu.Unlock()
	return containsToken(classTokens(c.el.node.StringProp("class")), token)
}

// String returns the class attribute value.
func (c *ClassList) String() string {
	c.el.doc.mu.Lock()
	defer c.el.doc.mu.Unlock()
	return c.el.node.StringProp("class")
}

// classTokens splits a class attribute into an ordered set.
func classTokens(class string) []string {
	fields := strings.Fields(class)
	set := make([]string, 0, len(fields))
	for _, f := range fields {
		if !containsToken(set, f) {
			set = append(set, f)
		}
	}
	return set
}

func containsToken(set []string, token string) bool {
	for _, t := range set {
		if t == token {
			return true
		}
	}
	return false
}
