// Package core provides the component and instance framework interfaces and lifecycle.
//
// This package defines the foundational types for building declarative UI
// trees: Node, Component, State, and Context. It follows a declarative model
// where nodes describe what the tree should look like, and the framework
// reconciles the live instance tree to match.
//
// # Core Types
//
// Node is an immutable description of part of the tree. Nodes are lightweight
// descriptor objects that can be created frequently without performance
// concerns; they carry a type (a component or a primitive host tag), a props
// bag, and ordered children.
//
// Instance is the instantiation of a Node at a particular location in the
// tree. Instances manage lifecycle and identity across rebuilds.
//
// # Stateful Components
//
// For components that need private state, embed StateBase in your state
// struct:
//
//	type counterState struct {
//	    core.StateBase
//	}
//
//	func (s *counterState) Init() {
//	    s.SetInitial(core.StateMap{"count": 0})
//	}
//
//	func (s *counterState) Render(ctx core.Context, props core.Props) *core.Node {
//	    return core.Text(fmt.Sprintf("Count: %d", s.Int("count")))
//	}
//
// # State Updates
//
// State is mutated only through merge requests. SetState queues a shallow
// merge that is applied asynchronously at the start of the next flush;
// requests issued within one turn coalesce into a single applied update.
// Keys absent from the payload are preserved. Code that needs to observe the
// post-update state must pass a completion callback:
//
//	s.SetState(core.StateMap{"count": s.Int("count") + 1}, func() {
//	    // state has been applied and the instance rebuilt
//	})
//
// Reading state immediately after SetState observes the old value.
package core
