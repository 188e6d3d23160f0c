package core

import "reflect"

// PropKey is the reserved prop carrying reconciliation identity.
const PropKey = "key"

// PropChildren is the reserved prop under which the framework exposes a
// node's children to the receiving component.
const PropChildren = "children"

// Props is the input data bag a parent passes to a child. It is read-only
// from the receiving component's perspective: components must never mutate
// the bag they are handed. The framework copies bags at descriptor creation,
// so mutating the original map after constructing a Node has no effect.
type Props map[string]any

// String returns the named prop as a string, or "" if absent or not a string.
func (p Props) String(name string) string {
	if s, ok := p[name].(string); ok {
		return s
	}
	return ""
}

// Int returns the named prop as an int. Float and integer values convert;
// anything else yields 0.
func (p Props) Int(name string) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the named prop as a float64, or 0 if absent.
func (p Props) Float(name string) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the named prop as a bool, or false if absent.
func (p Props) Bool(name string) bool {
	if b, ok := p[name].(bool); ok {
		return b
	}
	return false
}

// Handler returns the named prop as a niladic callback, or nil.
func (p Props) Handler(name string) func() {
	if f, ok := p[name].(func()); ok {
		return f
	}
	return nil
}

// EventHandler returns the named prop as an event callback, or nil.
func (p Props) EventHandler(name string) func(event any) {
	if f, ok := p[name].(func(event any)); ok {
		return f
	}
	return nil
}

// ChildNodes returns the children the framework injected under PropChildren.
func (p Props) ChildNodes() []*Node {
	if nodes, ok := p[PropChildren].([]*Node); ok {
		return nodes
	}
	return nil
}

// Key returns the reconciliation key, or nil.
func (p Props) Key() any {
	return p[PropKey]
}

// Merge returns a new bag with other's entries shallow-merged over p.
// Neither input is modified.
func (p Props) Merge(other Props) Props {
	merged := make(Props, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Equal reports whether two bags hold the same entries. Values are compared
// with reflect.DeepEqual; function-valued props compare equal only when both
// are nil or identical.
func (p Props) Equal(other Props) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		ov, ok := other[k]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// clone returns a shallow copy of the bag. A nil bag clones to nil.
func (p Props) clone() Props {
	if p == nil {
		return nil
	}
	copied := make(Props, len(p))
	for k, v := range p {
		copied[k] = v
	}
	return copied
}

// StateMap is the private data bag owned by a single stateful instance.
// It is mutated only through merge-update requests; see StateBase.SetState.
type StateMap map[string]any

// clone returns a shallow copy of the map. A nil map clones to nil.
func (m StateMap) clone() StateMap {
	if m == nil {
		return nil
	}
	copied := make(StateMap, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
