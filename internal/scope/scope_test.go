package scope

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/value"
)

func TestPushIncrementsLevel(t *testing.T) {
	root := NewRoot()
	if root.Level() != 1 {
		t.Fatalf("expected root level 1, got %d", root.Level())
	}
	child := Push(root, nil, nil)
	if child.Level() != 2 {
		t.Fatalf("expected child level 2, got %d", child.Level())
	}
	if child.Parent() != root {
		t.Fatalf("expected child's parent to be root")
	}
}

func TestPushHookVeto(t *testing.T) {
	root := NewRoot()
	popRan := false
	child := Push(root, func(s *Scope) bool { return false }, func(s *Scope) { popRan = true })
	if child != nil {
		t.Fatalf("expected vetoed push to return nil")
	}
	if popRan {
		t.Fatalf("pop hook must not run after a veto")
	}
}

func TestTrackAndSweepFinalizesProbationaryValues(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)

	v := e.NewInt(123456) // outside small-int range, allocates
	rc := v.(value.Refcounted)
	if rc.Hdr().RefCount() != 0 {
		t.Fatalf("freshly allocated value should start at refcount 0")
	}

	root.Sweep(e)
	if !rc.Hdr().Finalized() {
		t.Fatalf("expected unreferenced value to be finalized by sweep")
	}
}

func TestSweepSparesReferencedValues(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)

	v := e.NewInt(654321)
	e.Ref(v)
	rc := v.(value.Refcounted)

	root.Sweep(e)
	if rc.Hdr().Finalized() {
		t.Fatalf("referenced value must survive sweep")
	}
}

func TestPopFinalizesOwnedValues(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)
	child := Push(root, nil, nil)
	e.SetCurrentScope(child)

	v := e.NewInt(777777)
	e.Ref(v)
	rc := v.(value.Refcounted)

	parent := child.Pop(e)
	if parent != root {
		t.Fatalf("expected Pop to return the parent scope")
	}
	if !rc.Hdr().Finalized() {
		t.Fatalf("expected owned value to be finalized on scope pop")
	}
}

func TestPopRescopesPropagatingValue(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)
	child := Push(root, nil, nil)
	e.SetCurrentScope(child)

	v := e.NewArray(nil)
	e.Ref(v)
	child.SetPropagating(v)

	child.Pop(e)

	rc := v.(value.Refcounted)
	if rc.Hdr().Finalized() {
		t.Fatalf("propagating value must survive its scope's pop")
	}
	if rc.Hdr().Owner() != root {
		t.Fatalf("propagating value should be rescoped into the parent")
	}
}

func TestVacuumReclaimsUnreachableCycle(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)

	a := e.NewObject(nil)
	b := e.NewObject(nil)
	e.Ref(a)
	e.Ref(b)
	a.Props().SetByName("other", b, 0)
	b.Props().SetByName("other", a, 0)
	e.Ref(b) // a -> b
	e.Ref(a) // b -> a
	// Drop the only external references; a and b now only reference
	// each other, an unreachable cycle from the scope's variables.
	e.Unhand(a)
	e.Unhand(b)
	e.Unhand(a)
	e.Unhand(b)

	aRC := a.(value.Refcounted)
	bRC := b.(value.Refcounted)

	root.Vacuum(e)

	if !aRC.Hdr().Finalized() || !bRC.Hdr().Finalized() {
		t.Fatalf("expected unreachable cycle to be collected by vacuum")
	}
}

func TestVacuumPreservesVariableReachableValues(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)

	v := e.NewArray(nil)
	e.Ref(v)
	root.Vars().SetByName("x", v, 0)

	root.Vacuum(e)

	rc := v.(value.Refcounted)
	if rc.Hdr().Finalized() {
		t.Fatalf("value reachable from a scope variable must survive vacuum")
	}
}

func TestVacuumIsNotReentrant(t *testing.T) {
	e := value.NewEngine(value.Options{})
	root := NewRoot()
	e.SetCurrentScope(root)
	root.destroying = true
	// Should simply return without panicking or double-running.
	root.Vacuum(e)
}
