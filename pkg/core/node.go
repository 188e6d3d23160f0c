package core

// Node is an immutable element descriptor: a description of what to render,
// not the rendered thing itself. A node's type is either a Component or a
// primitive host tag name; its props bag and child list are copied at
// construction and never change afterwards.
type Node struct {
	component Component
	tag       string
	props     Props
	children  []*Node
}

// New creates a descriptor for a component with the given props and
// children. Nil children are dropped, which makes conditional composition
// convenient:
//
//	core.New(Counter{}, core.Props{"label": "Clicks"},
//	    core.Text("header"),
//	    maybeFooter(), // may be nil
//	)
func New(component Component, props Props, children ...*Node) *Node {
	return &Node{
		component: component,
		props:     props.clone(),
		children:  compactChildren(children),
	}
}

// Host creates a descriptor for a primitive host tag.
func Host(tag string, props Props, children ...*Node) *Node {
	return &Node{
		tag:      tag,
		props:    props.clone(),
		children: compactChildren(children),
	}
}

// Text creates a descriptor for the primitive "text" tag.
func Text(content string) *Node {
	return Host("text", Props{"text": content})
}

// compactChildren copies the child slice, dropping nil entries.
func compactChildren(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	compacted := make([]*Node, 0, len(children))
	for _, child := range children {
		if child != nil {
			compacted = append(compacted, child)
		}
	}
	if len(compacted) == 0 {
		return nil
	}
	return compacted
}

// Component returns the component this node describes, or nil for host nodes.
func (n *Node) Component() Component {
	return n.component
}

// Tag returns the primitive tag name, or "" for component nodes.
func (n *Node) Tag() string {
	return n.tag
}

// IsHost reports whether the node describes a primitive host tag.
func (n *Node) IsHost() bool {
	return n.component == nil
}

// Key returns the reconciliation key from the props bag, or nil.
func (n *Node) Key() any {
	return n.props.Key()
}

// Prop returns a single prop value.
func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// Props returns a copy of the props bag. Mutating the copy does not affect
// the descriptor.
func (n *Node) Props() Props {
	return n.props.clone()
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child at index i.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// VisitChildren calls visitor for each child in order. The visitor returns
// false to stop.
func (n *Node) VisitChildren(visitor func(*Node) bool) {
	for _, child := range n.children {
		if !visitor(child) {
			return
		}
	}
}

// renderProps returns the bag a component receives: the node's props with
// children injected under PropChildren. The returned bag is a fresh copy,
// so a misbehaving component cannot corrupt the descriptor.
func (n *Node) renderProps() Props {
	if len(n.children) == 0 {
		return n.props.clone()
	}
	effective := n.props.clone()
	if effective == nil {
		effective = make(Props, 1)
	}
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	effective[PropChildren] = children
	return effective
}
