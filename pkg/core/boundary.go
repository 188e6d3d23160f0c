package core

import (
	"sync"

	"github.com/go-fern/fern/pkg/errors"
)

// ErrorBoundaryCapture is implemented by instances that can contain render
// failures from their subtree. CaptureError returns true when the error was
// handled; the framework then leaves the failed position empty and lets the
// boundary render a fallback on its own rebuild.
type ErrorBoundaryCapture interface {
	CaptureError(err *errors.BoundaryError) bool
}

// FallbackBuilder produces a replacement subtree for a render failure that no
// boundary captured.
type FallbackBuilder func(err *errors.BoundaryError) *Node

var (
	fallbackBuilderMu sync.RWMutex
	fallbackBuilder   FallbackBuilder
)

// SetFallbackBuilder installs the global fallback used when a render panic
// escapes every boundary. Passing nil removes it, leaving failed positions
// empty.
func SetFallbackBuilder(builder FallbackBuilder) {
	fallbackBuilderMu.Lock()
	fallbackBuilder = builder
	fallbackBuilderMu.Unlock()
}

// GetFallbackBuilder returns the installed global fallback, or nil.
func GetFallbackBuilder() FallbackBuilder {
	fallbackBuilderMu.RLock()
	defer fallbackBuilderMu.RUnlock()
	return fallbackBuilder
}

// ErrorBoundary contains render failures from its subtree. When a descendant
// panics during render, the boundary captures the error and renders Fallback
// in place of Child. Without a Fallback it renders a host "error" node
// carrying the message.
type ErrorBoundary struct {
	Child    *Node
	Fallback func(err *errors.BoundaryError) *Node
	OnError  func(err *errors.BoundaryError)
}

func (b ErrorBoundary) CreateState() State {
	return &errorBoundaryState{}
}

type errorBoundaryState struct {
	StateBase
	captured *errors.BoundaryError
}

func (s *errorBoundaryState) CaptureError(err *errors.BoundaryError) bool {
	instance := s.Instance()
	if instance == nil {
		return false
	}
	s.captured = err
	if boundary, ok := instance.Node().Component().(ErrorBoundary); ok && boundary.OnError != nil {
		boundary.OnError(err)
	}
	instance.MarkNeedsBuild()
	return true
}

func (s *errorBoundaryState) Render(ctx Context, props Props) *Node {
	boundary, _ := s.Instance().Node().Component().(ErrorBoundary)
	if s.captured != nil {
		if boundary.Fallback != nil {
			return boundary.Fallback(s.captured)
		}
		return Host("error", Props{"message": s.captured.Error()})
	}
	return boundary.Child
}
