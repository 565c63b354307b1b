package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetAttr    PatchOp = 0x02 // Set/update attribute
	PatchInsertNode PatchOp = 0x04 // Insert new node
	PatchRemoveNode PatchOp = 0x05 // Remove node
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	default:
		return "Unknown"
	}
}

// Patch represents a single DOM operation to apply.
type Patch struct {
	Seq      uint64  // Document version after this patch
	Op       PatchOp // Operation type
	HID      string  // Target element's hydration ID
	Key      string  // Attribute key (for SetAttr)
	Value    string  // New value
	Node     *VNode  // Snapshot of the target after the change (InsertNode, SetAttr)
	Index    int     // Insert position
	ParentID string  // Parent for InsertNode
}
