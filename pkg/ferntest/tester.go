// Package ferntest provides a harness for testing component trees without a
// display backend. A Tester mounts a tree onto an in-memory host surface,
// pumps the update cycle deterministically, and offers finders and golden
// snapshots for assertions.
package ferntest

import (
	"errors"
	"testing"

	"github.com/go-fern/fern/pkg/core"
	"github.com/go-fern/fern/pkg/host"
	"github.com/go-fern/fern/pkg/markup"
)

// ErrSettleTimeout is returned by PumpAndSettle when the tree keeps
// scheduling work past the pump limit.
var ErrSettleTimeout = errors.New("ferntest: tree did not settle")

// Tester drives a component tree under test.
type Tester struct {
	t     *testing.T
	owner *core.Owner
	root  core.Instance

	// SnapshotDir is where MatchSnapshot stores goldens. Defaults to
	// testdata/snapshots relative to the test's working directory.
	SnapshotDir string
}

// New creates a tester backed by an in-memory host registry.
func New(t *testing.T) *Tester {
	t.Helper()
	return &Tester{
		t:           t,
		owner:       core.NewOwner(nil),
		SnapshotDir: "testdata/snapshots",
	}
}

// Owner returns the scheduler driving the tree.
func (tr *Tester) Owner() *core.Owner {
	return tr.owner
}

// Root returns the mounted root instance.
func (tr *Tester) Root() core.Instance {
	return tr.root
}

// Mount inflates node as the root and pumps once.
func (tr *Tester) Mount(node *core.Node) core.Instance {
	tr.t.Helper()
	tr.root = core.MountRoot(node, tr.owner)
	if tr.root == nil {
		tr.t.Fatalf("Mount: node did not inflate to an instance")
	}
	tr.Pump()
	return tr.root
}

// Update hands the root a new descriptor and pumps once.
func (tr *Tester) Update(node *core.Node) {
	tr.t.Helper()
	if tr.root == nil {
		tr.t.Fatalf("Update: nothing mounted")
	}
	tr.root.Update(node)
	tr.Pump()
}

// Pump runs one frame: drain dispatched events, flush builds, commit host
// changes.
func (tr *Tester) Pump() {
	tr.owner.DrainDispatches()
	tr.owner.FlushBuild()
	tr.owner.Pipeline().FlushCommits()
}

// PumpAndSettle pumps until no work remains, up to maxPumps frames
// (0 means 100). Returns ErrSettleTimeout when work keeps appearing.
func (tr *Tester) PumpAndSettle(maxPumps int) error {
	if maxPumps <= 0 {
		maxPumps = 100
	}
	for i := 0; i < maxPumps; i++ {
		if !tr.owner.NeedsWork() {
			return nil
		}
		tr.Pump()
	}
	if tr.owner.NeedsWork() {
		return ErrSettleTimeout
	}
	return nil
}

// Dispatch queues an event callback and pumps, the way a host backend
// delivers input.
func (tr *Tester) Dispatch(fn func()) {
	tr.owner.Dispatch(fn)
	tr.Pump()
}

// HostRoot returns the root of the committed host tree.
func (tr *Tester) HostRoot() *host.Memory {
	tr.t.Helper()
	provider, ok := tr.root.(interface{ HostObject() host.Object })
	if !ok {
		tr.t.Fatalf("root instance %T exposes no host object", tr.root)
	}
	memory, ok := provider.HostObject().(*host.Memory)
	if !ok {
		tr.t.Fatalf("host object is %T, want *host.Memory", provider.HostObject())
	}
	return memory
}

// Markup serializes the committed host tree.
func (tr *Tester) Markup() string {
	tr.t.Helper()
	return markup.Render(tr.HostRoot())
}

// Tap invokes the "onClick" handler of the first host object matched by the
// finder, delivered through the dispatch queue.
func (tr *Tester) Tap(finder Finder) {
	tr.t.Helper()
	instance := tr.Find(finder).Single(tr.t)
	hostInstance, ok := instance.(*core.HostInstance)
	if !ok {
		tr.t.Fatalf("Tap: %s matched %T, want a host instance", finder.Describe(), instance)
	}
	handler := hostInstance.Node().Props().Handler("onClick")
	if handler == nil {
		tr.t.Fatalf("Tap: %s has no onClick handler", finder.Describe())
	}
	tr.Dispatch(handler)
}
