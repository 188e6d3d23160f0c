package ferntest

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/go-fern/fern/pkg/core"
)

// Finder locates instances in a mounted tree.
type Finder interface {
	// Describe names the finder for failure messages.
	Describe() string
	// Matches reports whether the instance satisfies the finder.
	Matches(instance core.Instance) bool
}

// FinderResult holds the instances a finder matched, in tree order.
type FinderResult struct {
	Finder    Finder
	Instances []core.Instance
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.Instances)
}

// Empty reports whether nothing matched.
func (r FinderResult) Empty() bool {
	return len(r.Instances) == 0
}

// Single asserts exactly one match and returns it.
func (r FinderResult) Single(t *testing.T) core.Instance {
	t.Helper()
	if len(r.Instances) != 1 {
		t.Fatalf("finder %s matched %d instances, want exactly 1", r.Finder.Describe(), len(r.Instances))
	}
	return r.Instances[0]
}

// First asserts at least one match and returns the first.
func (r FinderResult) First(t *testing.T) core.Instance {
	t.Helper()
	if len(r.Instances) == 0 {
		t.Fatalf("finder %s matched nothing", r.Finder.Describe())
	}
	return r.Instances[0]
}

// Find evaluates a finder against the mounted tree.
func (tr *Tester) Find(finder Finder) FinderResult {
	result := FinderResult{Finder: finder}
	walk(tr.root, func(instance core.Instance) bool {
		if finder.Matches(instance) {
			result.Instances = append(result.Instances, instance)
		}
		return true
	})
	return result
}

func walk(instance core.Instance, visit func(core.Instance) bool) {
	if instance == nil {
		return
	}
	if !visit(instance) {
		return
	}
	instance.VisitChildren(func(child core.Instance) bool {
		walk(child, visit)
		return true
	})
}

type predicateFinder struct {
	description string
	predicate   func(core.Instance) bool
}

func (f predicateFinder) Describe() string {
	return f.description
}

func (f predicateFinder) Matches(instance core.Instance) bool {
	return f.predicate(instance)
}

// ByPredicate matches instances satisfying an arbitrary predicate.
func ByPredicate(description string, predicate func(core.Instance) bool) Finder {
	return predicateFinder{description: description, predicate: predicate}
}

// ByTag matches host instances with the given tag.
func ByTag(tag string) Finder {
	return predicateFinder{
		description: fmt.Sprintf("ByTag(%q)", tag),
		predicate: func(instance core.Instance) bool {
			node := instance.Node()
			return node.IsHost() && node.Tag() == tag
		},
	}
}

// ByText matches text host instances with exactly the given content.
func ByText(text string) Finder {
	return predicateFinder{
		description: fmt.Sprintf("ByText(%q)", text),
		predicate: func(instance core.Instance) bool {
			node := instance.Node()
			if !node.IsHost() || node.Tag() != "text" {
				return false
			}
			content, _ := node.Prop("text")
			return content == text
		},
	}
}

// ByKey matches instances whose descriptor carries the given key.
func ByKey(key any) Finder {
	return predicateFinder{
		description: fmt.Sprintf("ByKey(%v)", key),
		predicate: func(instance core.Instance) bool {
			return reflect.DeepEqual(instance.Node().Key(), key)
		},
	}
}

// ByComponent matches instances whose component is of type C.
func ByComponent[C core.Component]() Finder {
	target := reflect.TypeOf((*C)(nil)).Elem()
	return predicateFinder{
		description: fmt.Sprintf("ByComponent[%s]", target),
		predicate: func(instance core.Instance) bool {
			component := instance.Node().Component()
			if component == nil {
				return false
			}
			return reflect.TypeOf(component) == target
		},
	}
}

// Descendant matches instances that satisfy finder and sit below an instance
// matched by of.
func Descendant(of Finder, finder Finder) Finder {
	return predicateFinder{
		description: fmt.Sprintf("Descendant(%s, %s)", of.Describe(), finder.Describe()),
		predicate: func(instance core.Instance) bool {
			if !finder.Matches(instance) {
				return false
			}
			return instance.FindAncestor(of.Matches) != nil
		},
	}
}

// StateOf returns the state of the single stateful instance the finder
// matches, typed as S.
func StateOf[S core.State](t *testing.T, tr *Tester, finder Finder) S {
	t.Helper()
	instance := tr.Find(finder).Single(t)
	stateful, ok := instance.(*core.StatefulInstance)
	if !ok {
		t.Fatalf("finder %s matched %T, want a stateful instance", finder.Describe(), instance)
	}
	state, ok := stateful.State().(S)
	if !ok {
		t.Fatalf("state is %T, want %s", stateful.State(), reflect.TypeOf((*S)(nil)).Elem())
	}
	return state
}
