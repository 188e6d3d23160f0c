package core

import "testing"

type themeScope struct {
	Color string
	child *Node
}

func (t themeScope) ProviderValue() any {
	return t.Color
}

func (t themeScope) ShouldNotify(old ProviderComponent) bool {
	prev, ok := old.(themeScope)
	return !ok || prev.Color != t.Color
}

func (t themeScope) ChildNode() *Node {
	return t.child
}

type themedConsumer struct {
	log *[]string
}

func (c themedConsumer) CreateState() State {
	return &themedConsumerState{}
}

type themedConsumerState struct {
	StateBase
}

func (s *themedConsumerState) record(entry string) {
	log := s.Instance().Node().Component().(themedConsumer).log
	*log = append(*log, entry)
}

func (s *themedConsumerState) Render(ctx Context, props Props) *Node {
	theme, ok := ProviderOf[themeScope](ctx)
	if !ok {
		return Text("no-theme")
	}
	return Text(theme.Color)
}

func (s *themedConsumerState) DidChangeDependencies() {
	s.record("didChangeDependencies")
}

func TestProviderValueReachesDescendant(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(themeScope{
		Color: "light",
		child: Host("box", nil, New(themedConsumer{log: &log}, nil)),
	}, nil), owner)

	if got := firstText(t, root); got != "light" {
		t.Errorf("text = %q, want light", got)
	}
}

func TestProviderChangeNotifiesDependents(t *testing.T) {
	log := []string{}
	child := Host("box", nil, New(themedConsumer{log: &log}, nil))
	owner := NewOwner(nil)
	root := MountRoot(New(themeScope{Color: "light", child: child}, nil), owner)

	root.Update(New(themeScope{Color: "dark", child: child}, nil))
	owner.FlushBuild()

	if got := firstText(t, root); got != "dark" {
		t.Errorf("text = %q, want dark", got)
	}
	if countEntries(log, "didChangeDependencies") != 1 {
		t.Errorf("lifecycle log = %v, want one didChangeDependencies", log)
	}
}

func TestProviderShouldNotifyGatesNotification(t *testing.T) {
	log := []string{}
	child := Host("box", nil, New(themedConsumer{log: &log}, nil))
	owner := NewOwner(nil)
	root := MountRoot(New(themeScope{Color: "light", child: child}, nil), owner)

	// Same value: dependents must not be notified.
	root.Update(New(themeScope{Color: "light", child: child}, nil))
	owner.FlushBuild()

	if countEntries(log, "didChangeDependencies") != 0 {
		t.Errorf("lifecycle log = %v, want no didChangeDependencies", log)
	}
}

func TestProviderOfWithoutProvider(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(themedConsumer{log: &log}, nil), owner)

	if got := firstText(t, root); got != "no-theme" {
		t.Errorf("text = %q, want no-theme", got)
	}
}

func TestNearestProviderWins(t *testing.T) {
	log := []string{}
	inner := New(themeScope{
		Color: "inner",
		child: New(themedConsumer{log: &log}, nil),
	}, nil)
	owner := NewOwner(nil)
	root := MountRoot(New(themeScope{Color: "outer", child: inner}, nil), owner)

	if got := firstText(t, root); got != "inner" {
		t.Errorf("text = %q, want inner", got)
	}
}

func TestProviderFallsBackToNodeChild(t *testing.T) {
	log := []string{}
	owner := NewOwner(nil)
	root := MountRoot(New(themeScope{Color: "light"}, nil,
		New(themedConsumer{log: &log}, nil),
	), owner)

	if got := firstText(t, root); got != "light" {
		t.Errorf("text = %q, want light", got)
	}
}
