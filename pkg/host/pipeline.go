package host

import "slices"

// Pipeline tracks host objects whose props or children changed during a
// build flush and need to be committed to the backend observer (a renderer
// deciding what to redraw, or a test asserting what changed).
//
// Commit scheduling is deduplicated: an object scheduled twice in one turn
// is flushed once. FlushCommits returns objects parents-first so observers
// can process containers before their contents.
type Pipeline struct {
	dirty       []Object
	dirtySet    map[Object]bool
	needsCommit bool
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{dirtySet: make(map[Object]bool)}
}

// ScheduleCommit marks a host object as changed since the last flush.
func (p *Pipeline) ScheduleCommit(object Object) {
	if object == nil {
		return
	}
	if p.dirtySet == nil {
		p.dirtySet = make(map[Object]bool)
	}
	if p.dirtySet[object] {
		return
	}
	p.dirtySet[object] = true
	p.dirty = append(p.dirty, object)
	p.needsCommit = true
}

// NeedsCommit reports whether any host objects changed since the last flush.
func (p *Pipeline) NeedsCommit() bool {
	return p.needsCommit
}

// FlushCommits returns the changed objects sorted by depth (parents first)
// and clears the dirty set for the next turn.
func (p *Pipeline) FlushCommits() []Object {
	if !p.needsCommit || len(p.dirty) == 0 {
		p.dirty = nil
		p.dirtySet = nil
		p.needsCommit = false
		return nil
	}

	dirty := p.dirty
	p.dirty = nil
	p.dirtySet = nil
	p.needsCommit = false

	slices.SortFunc(dirty, func(a, b Object) int {
		return getDepth(a) - getDepth(b)
	})
	return dirty
}

// getDepth returns the tree depth of a host object.
func getDepth(obj Object) int {
	if getter, ok := obj.(interface{ Depth() int }); ok {
		return getter.Depth()
	}
	return 0
}
