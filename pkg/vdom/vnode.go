package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
	HID      string   // Hydration ID (assigned when attached to a Document)

	parent *VNode // Set by Document; Clone does not copy it
}

// Props holds attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Clone returns a deep copy of the node and its subtree.
// Prop values are copied shallowly.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := &VNode{
		Kind: v.Kind,
		Tag:  v.Tag,
		Text: v.Text,
		HID:  v.HID,
	}
	if v.Props != nil {
		c.Props = make(Props, len(v.Props))
		for k, val := range v.Props {
			c.Props[k] = val
		}
	}
	if v.Children != nil {
		c.Children = make([]*VNode, len(v.Children))
		for i, child := range v.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// StringProp returns the prop as a string, or "" if absent or not a string.
func (v *VNode) StringProp(key string) string {
	if v == nil || v.Props == nil {
		return ""
	}
	s, _ := v.Props[key].(string)
	return s
}
