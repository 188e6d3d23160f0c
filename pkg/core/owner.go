package core

import (
	"sort"
	"sync"

	"github.com/go-fern/fern/pkg/host"
)

// stateMerge is a queued state update: the merge to apply plus completion
// callbacks to run once the tree has settled.
type stateMerge struct {
	apply func()
	done  []func()
}

// Owner tracks instances that need rebuilding and drives the update cycle.
// One Owner manages one tree. A flush applies pending state merges, rebuilds
// dirty instances in depth order (parents before children), and then runs
// completion callbacks.
type Owner struct {
	mu         sync.Mutex
	dirty      []Instance
	dirtySet   map[Instance]bool
	merges     []stateMerge
	dispatches []func()

	pipeline *host.Pipeline
	registry *host.Registry

	// OnNeedsFrame is called when work is first scheduled after the owner
	// went quiet, so an embedder can request a frame.
	OnNeedsFrame func()
}

// NewOwner creates an Owner backed by the given host registry. A nil registry
// gets an in-memory one, which is what tests and headless rendering use.
func NewOwner(registry *host.Registry) *Owner {
	if registry == nil {
		registry = host.NewMemoryRegistry()
	}
	return &Owner{
		dirtySet: make(map[Instance]bool),
		pipeline: host.NewPipeline(),
		registry: registry,
	}
}

// Registry returns the host object registry.
func (o *Owner) Registry() *host.Registry {
	return o.registry
}

// Pipeline returns the host commit pipeline.
func (o *Owner) Pipeline() *host.Pipeline {
	return o.pipeline
}

// ScheduleBuild adds an instance to the dirty list. Duplicate scheduling
// within one turn is a no-op.
func (o *Owner) ScheduleBuild(instance Instance) {
	if instance == nil {
		return
	}
	o.mu.Lock()
	if o.dirtySet[instance] {
		o.mu.Unlock()
		return
	}
	o.dirtySet[instance] = true
	wasQuiet := len(o.dirty) == 0 && len(o.merges) == 0
	o.dirty = append(o.dirty, instance)
	o.mu.Unlock()

	if wasQuiet && o.OnNeedsFrame != nil {
		o.OnNeedsFrame()
	}
}

// ScheduleStateMerge queues a state merge for instance. The merge is applied
// at the start of the next flush, before rebuilds; done callbacks run after
// the flush settles.
func (o *Owner) ScheduleStateMerge(instance Instance, apply func(), done []func()) {
	o.mu.Lock()
	wasQuiet := len(o.dirty) == 0 && len(o.merges) == 0
	o.merges = append(o.merges, stateMerge{apply: apply, done: done})
	o.mu.Unlock()

	if instance != nil {
		instance.MarkNeedsBuild()
	}
	if wasQuiet && o.OnNeedsFrame != nil {
		o.OnNeedsFrame()
	}
}

// Dispatch queues a callback to run on the next DrainDispatches. Event
// handlers fired from host objects go through here so their state updates
// land in a single flush.
func (o *Owner) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.dispatches = append(o.dispatches, fn)
	o.mu.Unlock()

	if o.OnNeedsFrame != nil {
		o.OnNeedsFrame()
	}
}

// DrainDispatches runs all queued dispatch callbacks.
func (o *Owner) DrainDispatches() {
	o.mu.Lock()
	dispatches := o.dispatches
	o.dispatches = nil
	o.mu.Unlock()

	for _, fn := range dispatches {
		fn()
	}
}

// NeedsWork reports whether a flush or commit would do anything.
func (o *Owner) NeedsWork() bool {
	o.mu.Lock()
	pending := len(o.dirty) > 0 || len(o.merges) > 0 || len(o.dispatches) > 0
	o.mu.Unlock()
	return pending || o.pipeline.NeedsCommit()
}

// FlushBuild runs one update cycle: apply queued merges, rebuild dirty
// instances parents-first, repeat until no work remains, then run merge
// completion callbacks. Rebuilds may schedule further merges and builds;
// those are handled within the same flush. Callbacks run last, so they
// observe the settled tree; state they schedule lands in the next flush.
func (o *Owner) FlushBuild() {
	var completions []func()

	for {
		o.mu.Lock()
		merges := o.merges
		o.merges = nil
		o.mu.Unlock()

		for _, merge := range merges {
			merge.apply()
			completions = append(completions, merge.done...)
		}

		o.mu.Lock()
		if len(o.dirty) == 0 {
			o.mu.Unlock()
			if len(merges) == 0 {
				break
			}
			continue
		}
		// Parents before children, so a parent rebuild that replaces a
		// child never wastes the child's own rebuild.
		sort.SliceStable(o.dirty, func(i, j int) bool {
			return o.dirty[i].Depth() < o.dirty[j].Depth()
		})
		dirty := o.dirty
		o.dirty = nil
		clear(o.dirtySet)
		o.mu.Unlock()

		for _, instance := range dirty {
			if mountable, ok := instance.(interface{ isMounted() bool }); ok && !mountable.isMounted() {
				continue
			}
			instance.RebuildIfNeeded()
		}
	}

	for _, fn := range completions {
		fn()
	}
}
