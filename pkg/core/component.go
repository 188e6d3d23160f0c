package core

import "reflect"

// Component is the type of a node's component reference. A value used as a
// component must be one of:
//
//   - a Renderer (stateless: a pure function of props),
//   - a StatefulComponent (owns a State),
//   - a ProviderComponent (exposes a scoped value to descendants).
//
// Anything else fails at inflation with a structured render error.
type Component any

// Renderer is a stateless component: a pure function from props to a
// descriptor. Rendering must not have side effects; for the same props it
// must describe the same tree.
type Renderer interface {
	Render(ctx Context, props Props) *Node
}

// Func adapts a plain function to a stateless component.
//
//	greeting := core.Func(func(ctx core.Context, props core.Props) *core.Node {
//	    return core.Text("Hello, " + props.String("name"))
//	})
type Func func(ctx Context, props Props) *Node

// Render calls the function.
func (f Func) Render(ctx Context, props Props) *Node {
	return f(ctx, props)
}

// StatefulComponent is a component with per-instance private state.
type StatefulComponent interface {
	// CreateState returns a fresh State for a new instance.
	CreateState() State
}

// State carries an instance's private data bag and receives lifecycle hooks.
// Embed StateBase to get the data bag, SetState, and no-op defaults.
type State interface {
	// Init is called once, after the state is attached to its instance and
	// before the first render.
	Init()
	// Render maps the current props and state to a descriptor.
	Render(ctx Context, props Props) *Node
	// DidMount is called after the instance and its subtree are mounted.
	DidMount()
	// DidUpdate is called after a rebuild caused by new props or applied
	// state, with the previous values.
	DidUpdate(prevProps Props, prevState StateMap)
	// DidChangeDependencies is called when a provider this instance depends
	// on publishes a new value.
	DidChangeDependencies()
	// WillUnmount is called when the instance is removed from the tree,
	// before its children are torn down.
	WillUnmount()
}

// ProviderComponent exposes a value to descendant instances. Descendants
// read it with ProviderOf and are rebuilt when ShouldNotify reports a
// change.
type ProviderComponent interface {
	// ProviderValue returns the exposed value.
	ProviderValue() any
	// ShouldNotify reports whether dependents must rebuild given the
	// previous component configuration.
	ShouldNotify(old ProviderComponent) bool
	// ChildNode returns the subtree the provider wraps.
	ChildNode() *Node
}

// Context is handed to components during render. It provides ancestor and
// provider lookups and access to the scheduler. Instances implement Context.
type Context interface {
	// Owner returns the scheduler that owns this part of the tree.
	Owner() *Owner
	// FindAncestor walks toward the root and returns the first instance
	// satisfying the predicate, or nil.
	FindAncestor(predicate func(Instance) bool) Instance
	// DependOnProvider finds the nearest provider of the given component
	// type, registers the calling instance as a dependent, and returns the
	// provider component. Returns nil if no such provider exists.
	DependOnProvider(providerType reflect.Type) ProviderComponent
}

// ProviderOf finds the nearest provider of type P above ctx, registering a
// dependency so the caller rebuilds when the provider's value changes.
//
//	theme, ok := core.ProviderOf[ThemeScope](ctx)
func ProviderOf[P ProviderComponent](ctx Context) (P, bool) {
	var zero P
	found := ctx.DependOnProvider(reflect.TypeOf((*P)(nil)).Elem())
	if found == nil {
		return zero, false
	}
	typed, ok := found.(P)
	if !ok {
		return zero, false
	}
	return typed, true
}
