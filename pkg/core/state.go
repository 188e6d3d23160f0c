package core

import "sync"

// StateBase provides the state data bag, SetState, disposer registration, and
// no-op lifecycle defaults. Embed it in state structs and override the
// lifecycle methods you need.
type StateBase struct {
	mu        sync.Mutex
	instance  *StatefulInstance
	state     StateMap
	disposers []func()
	disposed  bool
}

// SetInstance attaches the state to its instance. Called by the framework
// during mount.
func (s *StateBase) SetInstance(instance *StatefulInstance) {
	s.mu.Lock()
	s.instance = instance
	s.mu.Unlock()
}

// Instance returns the instance this state is attached to, or nil before
// mount.
func (s *StateBase) Instance() *StatefulInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance
}

// SetInitial merges values into the bag directly, without scheduling. Only
// valid during Init, before the first render.
func (s *StateBase) SetInitial(initial StateMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = make(StateMap, len(initial))
	}
	for k, v := range initial {
		s.state[k] = v
	}
}

// Get returns the named value, or nil.
func (s *StateBase) Get(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[name]
}

// Lookup returns the named value and whether it is present.
func (s *StateBase) Lookup(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state[name]
	return v, ok
}

// String returns the named value as a string, or "".
func (s *StateBase) String(name string) string {
	v, _ := s.Lookup(name)
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}

// Int returns the named value as an int, converting integer and float
// values; anything else yields 0.
func (s *StateBase) Int(name string) int {
	v, _ := s.Lookup(name)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Float returns the named value as a float64, or 0.
func (s *StateBase) Float(name string) float64 {
	v, _ := s.Lookup(name)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Bool returns the named value as a bool, or false.
func (s *StateBase) Bool(name string) bool {
	v, _ := s.Lookup(name)
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// Snapshot returns a copy of the bag. Mutating the copy has no effect.
func (s *StateBase) Snapshot() StateMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetState requests a shallow merge of partial into the bag. The merge is
// applied asynchronously, at the start of the owner's next flush; reading
// state immediately after SetState observes the old values. Keys absent from
// partial are preserved. Multiple requests within one turn coalesce into a
// single applied update and a single rebuild. Completion callbacks run after
// the merge has been applied and the tree has settled.
//
// When the state is not attached to a mounted tree, the merge applies
// synchronously and callbacks run immediately. That keeps state objects
// usable standalone.
func (s *StateBase) SetState(partial StateMap, done ...func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	instance := s.instance
	s.mu.Unlock()

	payload := partial.clone()

	var owner *Owner
	if instance != nil {
		owner = instance.Owner()
	}
	if owner == nil {
		s.applyMerge(payload)
		for _, fn := range done {
			if fn != nil {
				fn()
			}
		}
		return
	}

	var callbacks []func()
	for _, fn := range done {
		if fn != nil {
			callbacks = append(callbacks, fn)
		}
	}
	owner.ScheduleStateMerge(instance, func() {
		s.applyMerge(payload)
	}, callbacks)
}

// applyMerge shallow-merges payload into the bag, recording the pre-merge
// snapshot with the instance for DidUpdate.
func (s *StateBase) applyMerge(payload StateMap) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	instance := s.instance
	previous := s.state.clone()
	if s.state == nil {
		s.state = make(StateMap, len(payload))
	}
	for k, v := range payload {
		s.state[k] = v
	}
	s.mu.Unlock()

	if instance != nil {
		instance.noteStateChange(previous)
	}
}

// OnDispose registers cleanup to run when the instance unmounts. Returns a
// function that unregisters the disposer.
func (s *StateBase) OnDispose(disposer func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return func() {}
	}
	s.disposers = append(s.disposers, disposer)
	index := len(s.disposers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers runs registered disposers in reverse order. Called by the
// framework after WillUnmount.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
}

// IsDisposed reports whether the instance has unmounted.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Lifecycle defaults. Override the ones you need.

func (s *StateBase) Init() {}

func (s *StateBase) DidMount() {}

func (s *StateBase) DidUpdate(prevProps Props, prevState StateMap) {}

func (s *StateBase) DidChangeDependencies() {}

func (s *StateBase) WillUnmount() {}
