package core

import (
	"testing"
)

func countEntries(log []string, entry string) int {
	n := 0
	for _, e := range log {
		if e == entry {
			n++
		}
	}
	return n
}

func TestSetStateIsAsynchronous(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)

	state.SetState(StateMap{"count": 1})
	if got := state.Int("count"); got != 0 {
		t.Errorf("count before flush = %d, want 0 (merge must be deferred)", got)
	}

	owner.FlushBuild()
	if got := state.Int("count"); got != 1 {
		t.Errorf("count after flush = %d, want 1", got)
	}
}

func TestSetStateCoalescesIntoOneRebuild(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)

	rendersBefore := countEntries(log, "render")
	state.SetState(StateMap{"count": 1})
	state.SetState(StateMap{"count": 2})
	state.SetState(StateMap{"mode": "fast"})
	owner.FlushBuild()

	if got := countEntries(log, "render") - rendersBefore; got != 1 {
		t.Errorf("rebuilds for three coalesced merges = %d, want 1", got)
	}
	if got := state.Int("count"); got != 2 {
		t.Errorf("count = %d, want 2 (later merge wins)", got)
	}
	if got := state.String("mode"); got != "fast" {
		t.Errorf("mode = %q, want fast", got)
	}
}

func TestSetStatePreservesAbsentKeys(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)

	state.SetState(StateMap{"mode": "fast"})
	owner.FlushBuild()

	if _, ok := state.Lookup("count"); !ok {
		t.Error("key absent from the merge payload was dropped, want preserved")
	}
}

func TestSetStateCallbacksRunAfterSettle(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)

	rendersBefore := countEntries(log, "render")
	var order []string
	state.SetState(StateMap{"count": 1}, func() {
		// Every merge of the turn has been applied and the rebuild has
		// happened by the time callbacks run.
		if got := state.Int("count"); got != 2 {
			t.Errorf("count inside callback = %d, want 2", got)
		}
		if countEntries(log, "render") == rendersBefore {
			t.Error("callback ran before the rebuild")
		}
		order = append(order, "first")
	})
	state.SetState(StateMap{"count": 2}, func() {
		order = append(order, "second")
	})
	owner.FlushBuild()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("callback order = %v, want [first second]", order)
	}
}

func TestDidUpdateReportsPreMergeState(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, Props{"label": "x"}), owner)
	state := findStateful(root).State().(*lifecycleState)

	state.SetState(StateMap{"count": 5})
	owner.FlushBuild()

	want := "didUpdate label=x count=0"
	if got := log[len(log)-1]; got != want {
		t.Errorf("last lifecycle entry = %q, want %q", got, want)
	}
}

func TestSetStateDuringCallbackLandsInNextFlush(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)

	state.SetState(StateMap{"count": 1}, func() {
		state.SetState(StateMap{"count": 2})
	})
	owner.FlushBuild()

	if got := state.Int("count"); got != 1 {
		t.Fatalf("count after first flush = %d, want 1", got)
	}
	if !owner.NeedsWork() {
		t.Fatal("owner reports no work although a merge is pending")
	}
	owner.FlushBuild()
	if got := state.Int("count"); got != 2 {
		t.Errorf("count after second flush = %d, want 2", got)
	}
}

func TestDispatchQueuesUntilDrain(t *testing.T) {
	owner := NewOwner(nil)
	var order []int
	owner.Dispatch(func() { order = append(order, 1) })
	owner.Dispatch(func() { order = append(order, 2) })

	if len(order) != 0 {
		t.Fatalf("dispatches ran before drain: %v", order)
	}
	owner.DrainDispatches()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("dispatch order = %v, want [1 2]", order)
	}
	owner.DrainDispatches()
	if len(order) != 2 {
		t.Errorf("drain reran dispatches: %v", order)
	}
}

func TestOnNeedsFrameFiresOncePerQuietPeriod(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	state := findStateful(root).State().(*lifecycleState)
	owner.Pipeline().FlushCommits()

	frames := 0
	owner.OnNeedsFrame = func() { frames++ }

	state.SetState(StateMap{"count": 1})
	state.SetState(StateMap{"count": 2})
	if frames != 1 {
		t.Errorf("frames after two merges in one turn = %d, want 1", frames)
	}

	owner.FlushBuild()
	state.SetState(StateMap{"count": 3})
	if frames != 2 {
		t.Errorf("frames after a new quiet period = %d, want 2", frames)
	}
}

func TestNeedsWork(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(lifecycleComponent{log: &log}, nil), owner)
	owner.FlushBuild()
	owner.Pipeline().FlushCommits()

	if owner.NeedsWork() {
		t.Error("owner reports work while idle")
	}

	state := findStateful(root).State().(*lifecycleState)
	state.SetState(StateMap{"count": 1})
	if !owner.NeedsWork() {
		t.Error("owner reports no work with a pending merge")
	}
	owner.FlushBuild()
	owner.Pipeline().FlushCommits()
	if owner.NeedsWork() {
		t.Error("owner reports work after flushing")
	}
}

func TestSetStateAfterUnmountIsIgnored(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(Host("box", nil,
		New(lifecycleComponent{log: &log}, nil),
	), owner)
	state := findStateful(root).State().(*lifecycleState)

	root.Update(Host("box", nil))
	owner.FlushBuild()

	called := false
	state.SetState(StateMap{"count": 9}, func() { called = true })
	owner.FlushBuild()

	if got := state.Int("count"); got != 0 {
		t.Errorf("count after post-unmount SetState = %d, want 0", got)
	}
	if called {
		t.Error("completion callback ran for a discarded merge")
	}
}
