package core

import (
	"strings"
	"testing"

	"github.com/go-fern/fern/pkg/errors"
	"github.com/go-fern/fern/pkg/host"
)

type capturingHandler struct {
	errs       []*errors.FernError
	panics     []*errors.PanicError
	boundaries []*errors.BoundaryError
}

func (h *capturingHandler) HandleError(err *errors.FernError) {
	h.errs = append(h.errs, err)
}

func (h *capturingHandler) HandlePanic(err *errors.PanicError) {
	h.panics = append(h.panics, err)
}

func (h *capturingHandler) HandleBoundaryError(err *errors.BoundaryError) {
	h.boundaries = append(h.boundaries, err)
}

func captureErrors(t *testing.T) *capturingHandler {
	t.Helper()
	handler := &capturingHandler{}
	errors.SetHandler(handler)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return handler
}

type panicRenderer struct{}

func (panicRenderer) Render(ctx Context, props Props) *Node {
	panic("render exploded")
}

func TestBoundaryRendersFallbackOnPanic(t *testing.T) {
	handler := captureErrors(t)
	owner := NewOwner(nil)

	root := MountRoot(New(ErrorBoundary{
		Child: New(panicRenderer{}, nil),
		Fallback: func(err *errors.BoundaryError) *Node {
			return Text("recovered")
		},
	}, nil), owner)
	owner.FlushBuild()

	if got := firstText(t, root); got != "recovered" {
		t.Errorf("text = %q, want recovered", got)
	}
	if len(handler.boundaries) != 1 {
		t.Fatalf("reported boundary errors = %d, want 1", len(handler.boundaries))
	}
	reported := handler.boundaries[0]
	if reported.Phase != "render" {
		t.Errorf("phase = %q, want render", reported.Phase)
	}
	if !strings.Contains(reported.Component, "panicRenderer") {
		t.Errorf("component = %q, want a panicRenderer reference", reported.Component)
	}
}

func TestBoundaryDefaultFallback(t *testing.T) {
	captureErrors(t)
	owner := NewOwner(nil)

	root := MountRoot(New(ErrorBoundary{
		Child: New(panicRenderer{}, nil),
	}, nil), owner)
	owner.FlushBuild()

	var errorObject *host.Memory
	rootMemory(t, root).Walk(func(object *host.Memory) bool {
		if object.Tag() == "error" {
			errorObject = object
			return false
		}
		return true
	})
	if errorObject == nil {
		t.Fatal("no error object in host tree")
	}
	message, _ := errorObject.Prop("message")
	if s, ok := message.(string); !ok || !strings.Contains(s, "render exploded") {
		t.Errorf("message = %v, want the panic value", message)
	}
}

func TestBoundaryOnErrorHook(t *testing.T) {
	captureErrors(t)
	owner := NewOwner(nil)

	var seen *errors.BoundaryError
	MountRoot(New(ErrorBoundary{
		Child:    New(panicRenderer{}, nil),
		Fallback: func(err *errors.BoundaryError) *Node { return Text("ok") },
		OnError:  func(err *errors.BoundaryError) { seen = err },
	}, nil), owner)
	owner.FlushBuild()

	if seen == nil {
		t.Fatal("OnError not invoked")
	}
	if seen.Recovered != "render exploded" {
		t.Errorf("recovered value = %v, want the panic value", seen.Recovered)
	}
}

func TestBoundaryHealthySubtreeUnaffected(t *testing.T) {
	captureErrors(t)
	owner := NewOwner(nil)

	root := MountRoot(Host("row", nil,
		New(ErrorBoundary{
			Child:    New(panicRenderer{}, nil),
			Fallback: func(err *errors.BoundaryError) *Node { return Text("contained") },
		}, nil),
		Text("healthy"),
	), owner)
	owner.FlushBuild()

	texts := map[string]bool{}
	rootMemory(t, root).Walk(func(object *host.Memory) bool {
		if object.Tag() == "text" {
			texts[object.Text()] = true
		}
		return true
	})
	if !texts["contained"] || !texts["healthy"] {
		t.Errorf("host texts = %v, want both contained and healthy", texts)
	}
}

func TestGlobalFallbackBuilder(t *testing.T) {
	captureErrors(t)
	SetFallbackBuilder(func(err *errors.BoundaryError) *Node {
		return Text("global fallback")
	})
	t.Cleanup(func() { SetFallbackBuilder(nil) })

	owner := NewOwner(nil)
	root := MountRoot(Host("box", nil, New(panicRenderer{}, nil)), owner)
	owner.FlushBuild()

	if got := firstText(t, root); got != "global fallback" {
		t.Errorf("text = %q, want the global fallback", got)
	}
}

func TestInvalidComponentReported(t *testing.T) {
	handler := captureErrors(t)
	owner := NewOwner(nil)
	MountRoot(New(struct{ notAComponent int }{}, nil), owner)

	if len(handler.errs) != 1 {
		t.Fatalf("reported errors = %d, want 1", len(handler.errs))
	}
	if handler.errs[0].Kind != errors.KindRender {
		t.Errorf("kind = %v, want KindRender", handler.errs[0].Kind)
	}
}
