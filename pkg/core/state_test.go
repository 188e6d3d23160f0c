package core

import "testing"

// A StateBase detached from any tree applies merges synchronously, which
// keeps state objects testable on their own.
func TestStandaloneStateAppliesSynchronously(t *testing.T) {
	s := &StateBase{}
	called := false

	s.SetState(StateMap{"x": 1}, func() { called = true })

	if s.Int("x") != 1 {
		t.Errorf("x = %d, want 1", s.Int("x"))
	}
	if !called {
		t.Error("completion callback did not run")
	}
}

func TestSetInitial(t *testing.T) {
	s := &StateBase{}
	s.SetInitial(StateMap{"a": 1, "b": "two"})

	if s.Int("a") != 1 || s.String("b") != "two" {
		t.Errorf("state = %v", s.Snapshot())
	}
}

func TestStateTypedGetters(t *testing.T) {
	s := &StateBase{}
	s.SetInitial(StateMap{
		"n":     7,
		"big":   int64(8),
		"f":     1.5,
		"label": "hi",
		"flag":  true,
	})

	if s.Int("n") != 7 || s.Int("big") != 8 || s.Int("f") != 1 {
		t.Errorf("Int getters = %d, %d, %d", s.Int("n"), s.Int("big"), s.Int("f"))
	}
	if s.Float("f") != 1.5 || s.Float("n") != 7 {
		t.Errorf("Float getters = %v, %v", s.Float("f"), s.Float("n"))
	}
	if s.String("label") != "hi" || !s.Bool("flag") {
		t.Errorf("String/Bool getters = %q, %v", s.String("label"), s.Bool("flag"))
	}
	if v, ok := s.Lookup("missing"); ok || v != nil {
		t.Errorf("Lookup(missing) = %v, %v", v, ok)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := &StateBase{}
	s.SetInitial(StateMap{"count": 1})

	snapshot := s.Snapshot()
	snapshot["count"] = 99

	if s.Int("count") != 1 {
		t.Errorf("count = %d, snapshot mutation leaked", s.Int("count"))
	}
}

func TestOnDisposeUnregister(t *testing.T) {
	s := &StateBase{}
	var order []string

	s.OnDispose(func() { order = append(order, "first") })
	unregister := s.OnDispose(func() { order = append(order, "second") })
	s.OnDispose(func() { order = append(order, "third") })
	unregister()

	s.RunDisposers()

	if len(order) != 2 || order[0] != "third" || order[1] != "first" {
		t.Errorf("disposer order = %v, want [third first]", order)
	}
	if !s.IsDisposed() {
		t.Error("state not disposed after RunDisposers")
	}

	// Further merges are ignored.
	s.SetState(StateMap{"x": 1})
	if _, ok := s.Lookup("x"); ok {
		t.Error("merge applied after dispose")
	}
}
