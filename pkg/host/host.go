// Package host defines the backend object tree that primitive tags render
// into, and the registry that resolves tag names to object factories.
//
// The framework core drives host objects but never assumes a concrete
// backend: anything that can create objects for tags and apply property
// bags can act as a display surface. The in-memory backend in this package
// is used by the CLI, the test harness, and the markup and raster renderers.
package host

import (
	"fmt"
	"sync"

	"github.com/go-fern/fern/pkg/errors"
)

// Object is the mutable backend node a host instance drives. Implementations
// are owned by exactly one host instance; the framework serializes access,
// so implementations do not need to be thread-safe.
type Object interface {
	// Tag returns the primitive tag name this object was created for.
	Tag() string
	// ApplyProps replaces the object's property bag. The framework passes a
	// bag the implementation may retain; it must not be mutated afterwards.
	ApplyProps(props map[string]any)
	// SetChildren replaces the ordered child list.
	SetChildren(children []Object)
	// Detach releases backend resources when the owning instance unmounts.
	Detach()
}

// Factory creates a host object for a tag.
type Factory func(tag string) Object

// Registry resolves primitive tag names to object factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	fallback  Factory
}

// NewRegistry creates an empty registry with no fallback.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a factory to a tag name, replacing any previous binding.
func (r *Registry) Register(tag string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = factory
}

// SetFallback configures a factory used for tags with no explicit binding.
// Pass nil to make unknown tags an error again.
func (r *Registry) SetFallback(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = factory
}

// Known reports whether the tag has an explicit binding or a fallback exists.
func (r *Registry) Known(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.factories[tag]; ok {
		return true
	}
	return r.fallback != nil
}

// Create instantiates a host object for the tag. Unknown tags without a
// fallback produce a structured host error.
func (r *Registry) Create(tag string) (Object, error) {
	r.mu.RLock()
	factory, ok := r.factories[tag]
	if !ok {
		factory = r.fallback
	}
	r.mu.RUnlock()

	if factory == nil {
		return nil, &errors.FernError{
			Op:   "host.Create",
			Kind: errors.KindHost,
			Tag:  tag,
			Err:  fmt.Errorf("tag %q is not registered", tag),
		}
	}
	return factory(tag), nil
}
