// Package errors provides structured error handling for the Fern framework.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRender indicates a component render failure.
	KindRender
	// KindState indicates an invalid state update.
	KindState
	// KindTemplate indicates a template parse or expression error.
	KindTemplate
	// KindHost indicates a host backend error (unknown tag, detached object).
	KindHost
	// KindInit indicates an initialization error.
	KindInit
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindState:
		return "state"
	case KindTemplate:
		return "template"
	case KindHost:
		return "host"
	case KindInit:
		return "init"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FernError represents a structured error in the Fern framework.
type FernError struct {
	// Op is the operation that failed (e.g., "template.Compile").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Tag is the host tag involved, if applicable.
	Tag string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FernError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s [%s] tag=%s: %v", e.Op, e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FernError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.FlushBuild").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BoundaryError represents a failure inside a component render, captured by
// the framework and routed to the nearest error boundary.
type BoundaryError struct {
	// Component is the type name of the component that failed.
	Component string
	// Instance is the instance kind (ComponentInstance, HostInstance, ...).
	Instance string
	// Phase is the lifecycle phase during which the failure occurred
	// ("render", "mount", "unmount").
	Phase string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BoundaryError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Render() [%s]: %v", e.Component, e.Phase, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Render() [%s]: %v", e.Component, e.Phase, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Render()", e.Component)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the Fern framework.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FernError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBoundaryError is called when a component render fails.
	HandleBoundaryError(err *BoundaryError)
}
