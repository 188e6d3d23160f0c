package core

import "github.com/go-fern/fern/pkg/host"

// ProviderInstance hosts a ProviderComponent and tracks the descendant
// instances that depend on its value.
type ProviderInstance struct {
	instanceBase
	child      Instance
	dependents map[Instance]struct{}
}

func NewProviderInstance(node *Node, owner *Owner) *ProviderInstance {
	instance := &ProviderInstance{
		dependents: make(map[Instance]struct{}),
	}
	instance.node = node
	instance.owner = owner
	instance.setSelf(instance)
	return instance
}

// Value returns the provider's exposed value.
func (e *ProviderInstance) Value() any {
	return e.node.Component().(ProviderComponent).ProviderValue()
}

// AddDependent registers an instance to be notified when the provider's
// value changes.
func (e *ProviderInstance) AddDependent(dependent Instance) {
	if dependent == nil {
		return
	}
	e.dependents[dependent] = struct{}{}
}

// RemoveDependent unregisters an instance.
func (e *ProviderInstance) RemoveDependent(dependent Instance) {
	delete(e.dependents, dependent)
}

func (e *ProviderInstance) Mount(parent Instance, slot any) {
	e.mountBase(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *ProviderInstance) Update(node *Node) {
	old := e.node.Component().(ProviderComponent)
	e.node = node
	next := node.Component().(ProviderComponent)
	if next.ShouldNotify(old) {
		for dependent := range e.dependents {
			e.notifyDependent(dependent)
		}
	}
	e.MarkNeedsBuild()
}

// notifyDependent tells a dependent the provided value changed.
func (e *ProviderInstance) notifyDependent(dependent Instance) {
	if stateful, ok := dependent.(*StatefulInstance); ok && stateful.state != nil {
		stateful.state.DidChangeDependencies()
	}
	dependent.MarkNeedsBuild()
}

func (e *ProviderInstance) Unmount() {
	e.mounted = false
	e.dependents = make(map[Instance]struct{})
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *ProviderInstance) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	childNode := e.node.Component().(ProviderComponent).ChildNode()
	if childNode == nil && e.node.ChildCount() > 0 {
		childNode = e.node.Child(0)
	}
	e.child = updateChild(e.child, childNode, e, e.owner, nil)
}

func (e *ProviderInstance) VisitChildren(visitor func(Instance) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// HostObject returns the host object from the first host descendant.
func (e *ProviderInstance) HostObject() host.Object {
	return childHostObject(e.child)
}
