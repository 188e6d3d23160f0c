package host

import "sort"

// Memory is the in-memory host object used by headless rendering: the test
// harness, the markup serializer, the raster painter, and the CLI. It simply
// records the property bag and child list it is given.
type Memory struct {
	tag      string
	props    map[string]any
	children []Object
	depth    int
	detached bool
}

// NewMemory creates a memory object for the given tag.
func NewMemory(tag string) *Memory {
	return &Memory{tag: tag}
}

// NewMemoryRegistry returns a registry whose fallback creates memory objects,
// so every tag resolves.
func NewMemoryRegistry() *Registry {
	r := NewRegistry()
	r.SetFallback(func(tag string) Object {
		return NewMemory(tag)
	})
	return r
}

// Tag returns the tag the object was created for.
func (m *Memory) Tag() string {
	return m.tag
}

// ApplyProps stores the property bag.
func (m *Memory) ApplyProps(props map[string]any) {
	m.props = props
}

// SetChildren replaces the child list.
func (m *Memory) SetChildren(children []Object) {
	m.children = children
}

// Detach marks the object as released.
func (m *Memory) Detach() {
	m.detached = true
	m.children = nil
}

// Detached reports whether the object has been released.
func (m *Memory) Detached() bool {
	return m.detached
}

// Props returns the current property bag. Callers must not mutate it.
func (m *Memory) Props() map[string]any {
	return m.props
}

// PropKeys returns the property names in sorted order.
func (m *Memory) PropKeys() []string {
	keys := make([]string, 0, len(m.props))
	for k := range m.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prop returns a single property value.
func (m *Memory) Prop(name string) (any, bool) {
	v, ok := m.props[name]
	return v, ok
}

// Text returns the "text" property, or empty string.
func (m *Memory) Text() string {
	if s, ok := m.props["text"].(string); ok {
		return s
	}
	return ""
}

// Children returns the ordered child list. Callers must not mutate it.
func (m *Memory) Children() []Object {
	return m.children
}

// SetDepth records the tree depth, used by the commit pipeline for ordering.
func (m *Memory) SetDepth(depth int) {
	m.depth = depth
}

// Depth returns the tree depth.
func (m *Memory) Depth() int {
	return m.depth
}

// Walk visits the object and its descendants depth-first, pre-order. The
// visitor returns false to stop traversal.
func (m *Memory) Walk(visitor func(*Memory) bool) {
	if !visitor(m) {
		return
	}
	for _, child := range m.children {
		if mem, ok := child.(*Memory); ok {
			mem.Walk(visitor)
		}
	}
}
