package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// AssignHIDs walks the tree and assigns HIDs to every element that does
// not have one yet.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}
	if node.Kind == KindElement && node.HID == "" {
		node.HID = gen.Next()
	}
	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// CollectHIDs returns a map of HID to VNode for all nodes with HIDs.
func CollectHIDs(node *VNode) map[string]*VNode {
	result := make(map[string]*VNode)
	collectHIDs(node, result)
	return result
}

func collectHIDs(node *VNode, result map[string]*VNode) {
	if node == nil {
		return
	}
	if node.HID != "" {
		result[node.HID] = node
	}
	for _, child := range node.Children {
		collectHIDs(child, result)
	}
}
