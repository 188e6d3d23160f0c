package core

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-fern/fern/pkg/errors"
	"github.com/go-fern/fern/pkg/host"
)

// Instance is the instantiation of a Node at a particular location in the
// tree. Instances manage lifecycle and identity across rebuilds; they are
// created by the framework, never by components.
type Instance interface {
	Context

	// Node returns the descriptor currently configuring this instance.
	Node() *Node
	// Depth returns the distance from the root.
	Depth() int
	// Slot returns the position marker assigned by the parent.
	Slot() any
	// UpdateSlot reassigns the position marker without rebuilding.
	UpdateSlot(slot any)
	// MarkNeedsBuild schedules the instance for rebuild on the next flush.
	MarkNeedsBuild()
	// Mount attaches the instance below parent and builds its subtree.
	Mount(parent Instance, slot any)
	// Update reconfigures the instance with a new descriptor of the same
	// type and key.
	Update(node *Node)
	// Unmount removes the instance and its subtree, running cleanup.
	Unmount()
	// RebuildIfNeeded rebuilds the instance if it is marked dirty.
	RebuildIfNeeded()
	// VisitChildren calls visitor for each child. The visitor returns false
	// to stop.
	VisitChildren(visitor func(Instance) bool)
}

// IndexedSlot identifies a child's position within a multi-child parent.
type IndexedSlot struct {
	Index           int
	PreviousSibling Instance
}

type instanceBase struct {
	node       *Node
	parent     Instance
	depth      int
	slot       any
	owner      *Owner
	dirty      bool
	self       Instance
	mounted    bool
	hostParent *HostInstance // nearest ancestor that owns a host object
}

func (e *instanceBase) Node() *Node {
	return e.node
}

func (e *instanceBase) Depth() int {
	return e.depth
}

func (e *instanceBase) Slot() any {
	return e.slot
}

func (e *instanceBase) UpdateSlot(slot any) {
	e.slot = slot
}

func (e *instanceBase) Owner() *Owner {
	return e.owner
}

func (e *instanceBase) MarkNeedsBuild() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.owner != nil && e.self != nil {
		e.owner.ScheduleBuild(e.self)
	}
}

func (e *instanceBase) parentInstance() Instance {
	return e.parent
}

func (e *instanceBase) setSelf(self Instance) {
	e.self = self
}

func (e *instanceBase) setOwner(owner *Owner) {
	e.owner = owner
}

func (e *instanceBase) isMounted() bool {
	return e.mounted
}

// mountBase records tree position. Called at the top of every Mount.
func (e *instanceBase) mountBase(parent Instance, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.hostParent = e.findHostParent()
	e.mounted = true
}

// findHostParent walks up the instance tree to find the nearest HostInstance.
func (e *instanceBase) findHostParent() *HostInstance {
	current := e.parent
	for current != nil {
		if hostInstance, ok := current.(*HostInstance); ok {
			return hostInstance
		}
		if base, ok := current.(interface{ parentInstance() Instance }); ok {
			current = base.parentInstance()
		} else {
			break
		}
	}
	return nil
}

func (e *instanceBase) FindAncestor(predicate func(Instance) bool) Instance {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		if base, ok := current.(interface{ parentInstance() Instance }); ok {
			current = base.parentInstance()
		} else {
			break
		}
	}
	return nil
}

// DependOnProvider walks up the instance tree to find the nearest provider
// of the requested component type and registers the calling instance as a
// dependent.
func (e *instanceBase) DependOnProvider(providerType reflect.Type) ProviderComponent {
	current := e.parent
	for current != nil {
		if provider, ok := current.(*ProviderInstance); ok {
			component := provider.Node().Component()
			componentType := reflect.TypeOf(component)
			if componentType == providerType || (componentType.Kind() == reflect.Pointer && componentType.Elem() == providerType) {
				provider.AddDependent(e.self)
				return component.(ProviderComponent)
			}
		}
		if base, ok := current.(interface{ parentInstance() Instance }); ok {
			current = base.parentInstance()
		} else {
			break
		}
	}
	return nil
}

// safeRender executes a render function with panic recovery.
// If the render panics, it reports the error, offers it to ancestor error
// boundaries, and falls back to the global fallback builder.
func (e *instanceBase) safeRender(render func() *Node) *Node {
	var built *Node
	var boundaryErr *errors.BoundaryError

	func() {
		defer func() {
			if r := recover(); r != nil {
				var stack string
				if DebugMode {
					stack = errors.CaptureStack()
				}
				boundaryErr = &errors.BoundaryError{
					Component:  describeNode(e.node),
					Instance:   reflect.TypeOf(e.self).String(),
					Phase:      "render",
					Recovered:  r,
					StackTrace: stack,
					Timestamp:  time.Now(),
				}
			}
		}()
		built = render()
	}()

	if boundaryErr == nil {
		return built
	}

	errors.ReportBoundaryError(boundaryErr)

	// Offer the error to ancestor boundaries, nearest first.
	current := e.parent
	for current != nil {
		if capture, ok := current.(ErrorBoundaryCapture); ok {
			if capture.CaptureError(boundaryErr) {
				// The boundary will render the fallback on its own rebuild.
				return nil
			}
		}
		if base, ok := current.(interface{ parentInstance() Instance }); ok {
			current = base.parentInstance()
		} else {
			break
		}
	}

	if builder := GetFallbackBuilder(); builder != nil {
		if fallback := builder(boundaryErr); fallback != nil {
			return fallback
		}
	}
	return nil
}

// describeNode names a node's type for error reporting.
func describeNode(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.IsHost() {
		return "host:" + n.Tag()
	}
	return reflect.TypeOf(n.Component()).String()
}

// StatelessInstance hosts a Renderer component.
type StatelessInstance struct {
	instanceBase
	child    Instance
	renderer Renderer
}

func NewStatelessInstance(node *Node, owner *Owner) *StatelessInstance {
	instance := &StatelessInstance{}
	instance.node = node
	instance.owner = owner
	instance.renderer = node.Component().(Renderer)
	instance.setSelf(instance)
	return instance
}

func (e *StatelessInstance) Mount(parent Instance, slot any) {
	e.mountBase(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessInstance) Update(node *Node) {
	e.node = node
	e.renderer = node.Component().(Renderer)
	e.MarkNeedsBuild()
}

func (e *StatelessInstance) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *StatelessInstance) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeRender(func() *Node {
		return e.renderer.Render(e, e.node.renderProps())
	})
	e.child = updateChild(e.child, built, e, e.owner, nil)
}

func (e *StatelessInstance) VisitChildren(visitor func(Instance) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// HostObject returns the host object from the first host descendant.
func (e *StatelessInstance) HostObject() host.Object {
	return childHostObject(e.child)
}

// StatefulInstance hosts a StatefulComponent and its State.
type StatefulInstance struct {
	instanceBase
	child Instance
	state State

	// Pending DidUpdate bookkeeping: the earliest previous props/state seen
	// since the last completed rebuild.
	pendingPrevProps Props
	pendingPrevState StateMap
	hasPendingUpdate bool
	didMount         bool
}

func NewStatefulInstance(node *Node, owner *Owner) *StatefulInstance {
	instance := &StatefulInstance{}
	instance.node = node
	instance.owner = owner
	instance.setSelf(instance)
	return instance
}

// State returns the state object attached to this instance.
func (e *StatefulInstance) State() State {
	return e.state
}

func (e *StatefulInstance) Mount(parent Instance, slot any) {
	e.mountBase(parent, slot)
	component := e.node.Component().(StatefulComponent)
	e.state = component.CreateState()
	if setter, ok := e.state.(interface{ SetInstance(*StatefulInstance) }); ok {
		setter.SetInstance(e)
	}
	e.state.Init()
	e.dirty = true
	e.RebuildIfNeeded()
	e.didMount = true
	e.state.DidMount()
}

func (e *StatefulInstance) Update(node *Node) {
	prevProps := e.node.Props()
	e.node = node
	e.notePrevious(prevProps, e.stateSnapshot())
	e.MarkNeedsBuild()
}

func (e *StatefulInstance) stateSnapshot() StateMap {
	if snapshotter, ok := e.state.(interface{ Snapshot() StateMap }); ok {
		return snapshotter.Snapshot()
	}
	return nil
}

// noteStateChange records the pre-merge state snapshot so DidUpdate can
// report it after the rebuild. Called by StateBase when a merge is applied.
func (e *StatefulInstance) noteStateChange(prevState StateMap) {
	e.notePrevious(e.node.Props(), prevState)
}

func (e *StatefulInstance) notePrevious(prevProps Props, prevState StateMap) {
	if !e.hasPendingUpdate {
		e.hasPendingUpdate = true
		e.pendingPrevProps = prevProps
		e.pendingPrevState = prevState
		return
	}
	if e.pendingPrevState == nil {
		e.pendingPrevState = prevState
	}
}

func (e *StatefulInstance) Unmount() {
	e.mounted = false
	if e.state != nil {
		e.state.WillUnmount()
	}
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	if disposable, ok := e.state.(interface{ RunDisposers() }); ok {
		disposable.RunDisposers()
	}
}

func (e *StatefulInstance) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeRender(func() *Node {
		return e.state.Render(e, e.node.renderProps())
	})
	e.child = updateChild(e.child, built, e, e.owner, nil)

	if e.hasPendingUpdate && e.didMount {
		prevProps := e.pendingPrevProps
		prevState := e.pendingPrevState
		e.hasPendingUpdate = false
		e.pendingPrevProps = nil
		e.pendingPrevState = nil
		e.state.DidUpdate(prevProps, prevState)
	}
}

func (e *StatefulInstance) VisitChildren(visitor func(Instance) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// HostObject returns the host object from the first host descendant.
func (e *StatefulInstance) HostObject() host.Object {
	return childHostObject(e.child)
}

// CaptureError forwards boundary errors to the state if it captures them.
func (e *StatefulInstance) CaptureError(err *errors.BoundaryError) bool {
	if capture, ok := e.state.(ErrorBoundaryCapture); ok {
		return capture.CaptureError(err)
	}
	return false
}

// HostInstance hosts a primitive tag and owns a host object.
type HostInstance struct {
	instanceBase
	object   host.Object
	children []Instance
}

func NewHostInstance(node *Node, owner *Owner) *HostInstance {
	instance := &HostInstance{}
	instance.node = node
	instance.owner = owner
	instance.setSelf(instance)
	return instance
}

func (e *HostInstance) Mount(parent Instance, slot any) {
	e.mountBase(parent, slot)

	tag := e.node.Tag()
	if e.owner != nil {
		object, err := e.owner.Registry().Create(tag)
		if err != nil {
			if fernErr, ok := err.(*errors.FernError); ok {
				errors.Report(fernErr)
			}
		}
		e.object = object
	}
	if e.object == nil {
		// Keep the tree consistent even when the tag is unknown.
		e.object = host.NewMemory(tag)
	}
	if setter, ok := e.object.(interface{ SetDepth(int) }); ok {
		setter.SetDepth(e.depth)
	}

	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *HostInstance) Update(node *Node) {
	e.node = node
	e.MarkNeedsBuild()
}

func (e *HostInstance) Unmount() {
	e.mounted = false

	// Unmount children first so their host objects detach before ours.
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil

	e.object.Detach()
	if e.hostParent != nil {
		// HostObject() returns nil once unmounted, so rebuilding the
		// parent's child list drops this object.
		e.hostParent.rebuildChildObjects()
	}
}

func (e *HostInstance) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	e.object.ApplyProps(hostProps(e.node))
	if e.owner != nil {
		e.owner.Pipeline().ScheduleCommit(e.object)
	}

	nodes := make([]*Node, 0, e.node.ChildCount())
	e.node.VisitChildren(func(child *Node) bool {
		nodes = append(nodes, child)
		return true
	})
	e.children = updateChildren(e, e.children, nodes, e.owner)
	e.rebuildChildObjects()
}

func (e *HostInstance) VisitChildren(visitor func(Instance) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

// HostObject exposes the backing host object. Returns nil once unmounted so
// stale objects never linger in a parent's child list.
func (e *HostInstance) HostObject() host.Object {
	if !e.mounted {
		return nil
	}
	return e.object
}

// rebuildChildObjects rebuilds the host object child list from the instance
// children.
func (e *HostInstance) rebuildChildObjects() {
	objects := make([]host.Object, 0, len(e.children))
	for _, child := range e.children {
		if provider, ok := child.(interface{ HostObject() host.Object }); ok {
			if object := provider.HostObject(); object != nil {
				objects = append(objects, object)
			}
		}
	}
	e.object.SetChildren(objects)
	if e.owner != nil {
		e.owner.Pipeline().ScheduleCommit(e.object)
	}
}

// hostProps builds the bag handed to the host object: the node's props
// without the reconciliation key.
func hostProps(n *Node) map[string]any {
	props := n.Props()
	delete(props, PropKey)
	return props
}

// childHostObject extracts the host object from a child instance, if any.
func childHostObject(child Instance) host.Object {
	if child == nil {
		return nil
	}
	if provider, ok := child.(interface{ HostObject() host.Object }); ok {
		return provider.HostObject()
	}
	return nil
}

// updateChild reconciles a single child position: update in place when the
// descriptor is compatible, otherwise unmount and inflate.
func updateChild(existing Instance, node *Node, parent Instance, owner *Owner, slot any) Instance {
	if node == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdate(existing.Node(), node) {
		existing.UpdateSlot(slot)
		existing.Update(node)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	instance := inflate(node, owner)
	if instance == nil {
		return nil
	}
	instance.Mount(parent, slot)
	return instance
}

// updateChildren reconciles an ordered child list. Runs of compatible
// children sync from the top and bottom; the keyed middle reorders without
// remounting. Non-keyed middle children that fall out of the synced runs are
// replaced.
func updateChildren(parent Instance, oldChildren []Instance, newNodes []*Node, owner *Owner) []Instance {
	newChildren := make([]Instance, len(newNodes))

	oldTop, newTop := 0, 0
	oldBottom, newBottom := len(oldChildren)-1, len(newNodes)-1

	// Sync forward from the top.
	for oldTop <= oldBottom && newTop <= newBottom {
		old := oldChildren[oldTop]
		if old == nil || !canUpdate(old.Node(), newNodes[newTop]) {
			break
		}
		newChildren[newTop] = updateChild(old, newNodes[newTop], parent, owner, slotFor(newTop, newChildren))
		oldTop++
		newTop++
	}

	// Scan backward from the bottom, without syncing yet.
	for oldTop <= oldBottom && newTop <= newBottom {
		old := oldChildren[oldBottom]
		if old == nil || !canUpdate(old.Node(), newNodes[newBottom]) {
			break
		}
		oldBottom--
		newBottom--
	}

	// Index the old middle by key. Non-keyed middle children cannot be
	// matched and are unmounted.
	var oldKeyed map[any]Instance
	for i := oldTop; i <= oldBottom; i++ {
		old := oldChildren[i]
		if old == nil {
			continue
		}
		key := old.Node().Key()
		if key != nil && isComparable(key) {
			if oldKeyed == nil {
				oldKeyed = make(map[any]Instance)
			}
			oldKeyed[key] = old
		} else {
			old.Unmount()
		}
	}

	// Sync the middle, reusing keyed matches.
	for newTop <= newBottom {
		var existing Instance
		key := newNodes[newTop].Key()
		if key != nil && isComparable(key) {
			if candidate, ok := oldKeyed[key]; ok && canUpdate(candidate.Node(), newNodes[newTop]) {
				existing = candidate
				delete(oldKeyed, key)
			}
		}
		newChildren[newTop] = updateChild(existing, newNodes[newTop], parent, owner, slotFor(newTop, newChildren))
		newTop++
	}

	// Sync the bottom run scanned earlier.
	oldIndex := oldBottom + 1
	for newIndex := newBottom + 1; newIndex < len(newNodes); newIndex++ {
		newChildren[newIndex] = updateChild(oldChildren[oldIndex], newNodes[newIndex], parent, owner, slotFor(newIndex, newChildren))
		oldIndex++
	}

	// Unmatched keyed leftovers are gone.
	for _, leftover := range oldKeyed {
		leftover.Unmount()
	}

	return newChildren
}

func slotFor(index int, children []Instance) IndexedSlot {
	var previous Instance
	if index > 0 {
		previous = children[index-1]
	}
	return IndexedSlot{Index: index, PreviousSibling: previous}
}

// canUpdate reports whether an instance configured by old can be reconfigured
// by next: same kind (host tag or component type) and equal keys.
func canUpdate(old *Node, next *Node) bool {
	if old == nil || next == nil {
		return false
	}
	if old.IsHost() != next.IsHost() {
		return false
	}
	if old.IsHost() {
		if old.Tag() != next.Tag() {
			return false
		}
	} else if reflect.TypeOf(old.Component()) != reflect.TypeOf(next.Component()) {
		return false
	}
	return keysEqual(old.Key(), next.Key())
}

func keysEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !isComparable(a) || !isComparable(b) {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// isComparable guards key comparisons against non-comparable types
// (slices, maps, funcs), which would panic under ==.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// inflate creates the instance kind matching the node. Provider is checked
// before StatefulComponent and Renderer so a component implementing several
// interfaces has a deterministic kind.
func inflate(node *Node, owner *Owner) Instance {
	if node == nil {
		return nil
	}
	if node.IsHost() {
		return NewHostInstance(node, owner)
	}
	switch node.Component().(type) {
	case ProviderComponent:
		return NewProviderInstance(node, owner)
	case StatefulComponent:
		return NewStatefulInstance(node, owner)
	case Renderer:
		return NewStatelessInstance(node, owner)
	}
	errors.Report(&errors.FernError{
		Op:   "core.inflate",
		Kind: errors.KindRender,
		Err:  fmt.Errorf("component %T is neither Renderer, StatefulComponent, nor ProviderComponent", node.Component()),
	})
	return nil
}
