package value

import "testing"

// fakeScope is a minimal ScopeOwner double for unit-testing the value
// engine in isolation from the real scope package.
type fakeScope struct {
	level    int
	tracked  []Refcounted
	enqueued []Refcounted
}

func (s *fakeScope) Level() int { return s.level }
func (s *fakeScope) Track(v Refcounted) {
	s.tracked = append(s.tracked, v)
}
func (s *fakeScope) Untrack(v Refcounted) {
	for i, t := range s.tracked {
		if t == v {
			s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
			return
		}
	}
}
func (s *fakeScope) EnqueueFinalize(v Refcounted) {
	s.enqueued = append(s.enqueued, v)
}

func TestBuiltinsAreLifetimeNoOps(t *testing.T) {
	e := NewEngine(Options{})
	for _, v := range []Value{Undefined(), Null(), Bool(true), Bool(false)} {
		if e.Ref(v) != v {
			t.Fatalf("Ref on builtin %v should return itself", v)
		}
		if got := e.Unref(v); got != nil {
			t.Fatalf("Unref on builtin %v should return nil, got %v", v, got)
		}
		if got := e.Unhand(v); got != v {
			t.Fatalf("Unhand on builtin %v should return itself, got %v", v, got)
		}
	}
}

func TestSmallIntAndASCIIStringAreBuiltin(t *testing.T) {
	e := NewEngine(Options{})
	v := e.NewInt(5)
	if !IsBuiltin(v) {
		t.Fatalf("small int 5 should be builtin")
	}
	s := e.NewString("a")
	if !IsBuiltin(s) {
		t.Fatalf("length-1 ASCII string should be builtin")
	}
	empty := e.NewString("")
	if !IsBuiltin(empty) {
		t.Fatalf("empty string should be builtin")
	}
}

func TestRefUnrefLifecycle(t *testing.T) {
	e := NewEngine(Options{})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)

	v := e.NewInt(100000) // outside the small-int range, allocates
	if len(scope.tracked) != 1 {
		t.Fatalf("expected value to be tracked, got %d tracked", len(scope.tracked))
	}

	e.Ref(v)
	rc := v.(Refcounted)
	if rc.Hdr().RefCount() != 1 {
		t.Fatalf("expected refcount 1, got %d", rc.Hdr().RefCount())
	}

	e.Unref(v)
	if rc.Hdr().RefCount() != 0 {
		t.Fatalf("expected refcount 0 after unref, got %d", rc.Hdr().RefCount())
	}
	if !rc.Hdr().Finalized() {
		t.Fatalf("expected value to be finalized after refcount reaches zero")
	}
	if len(scope.tracked) != 0 {
		t.Fatalf("expected value to be untracked after finalization")
	}
}

func TestUnhandReturnsValueWithoutFinalizing(t *testing.T) {
	e := NewEngine(Options{})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)

	v := e.NewInt(999999)
	e.Ref(v)
	e.Ref(v)

	got := e.Unhand(v)
	if got != v {
		t.Fatalf("Unhand should return v while refcount remains positive")
	}
	rc := v.(Refcounted)
	if rc.Hdr().Finalized() {
		t.Fatalf("Unhand must never finalize")
	}
	if rc.Hdr().RefCount() != 1 {
		t.Fatalf("expected refcount 1 after one Unhand, got %d", rc.Hdr().RefCount())
	}
}

func TestGraphDestructionDefersFinalizationToScope(t *testing.T) {
	e := NewEngine(Options{})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)

	arr := e.NewArray(nil)
	e.Ref(arr)

	e.BeginGraphDestruction()
	e.Unref(arr)
	if arr.Hdr().Finalized() {
		t.Fatalf("container finalization must be deferred during graph destruction")
	}
	if len(scope.enqueued) != 1 {
		t.Fatalf("expected container to be enqueued on its scope's GC list")
	}
	e.EndGraphDestruction()

	// Scope drains its queue by calling Finalize directly once traversal
	// completes.
	e.Finalize(arr)
	if !arr.Hdr().Finalized() {
		t.Fatalf("expected finalization after scope drains its GC list")
	}
}

func TestStringInterningIdempotence(t *testing.T) {
	e := NewEngine(Options{EnableInterning: true})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)

	a := e.NewString("hello world")
	b := e.NewString("hello world")
	if a != b {
		t.Fatalf("interned strings with equal content should be pointer-equal")
	}
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEngine(Options{})
	for _, s := range []string{"", "a", "hello", "unicode: éè", "longer string value here"} {
		v := e.NewString(s)
		if v.String() != s {
			t.Fatalf("round trip failed: got %q want %q", v.String(), s)
		}
	}
}

func TestMakeVacuumProofIsNoOpForBuiltins(t *testing.T) {
	e := NewEngine(Options{})
	e.MakeVacuumProof(Bool(true), true) // must not panic
}

func TestRefOverflowIsFatal(t *testing.T) {
	e := NewEngine(Options{})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)
	v := e.NewInt(424242)
	rc := v.(Refcounted)
	rc.Hdr().refCount = 1<<31 - 1
	e.Ref(v)
	if !e.Dead() {
		t.Fatalf("refcount overflow should set the engine's dead flag")
	}
}

func TestMaxSingleAllocSizeReturnsOOM(t *testing.T) {
	e := NewEngine(Options{MaxSingleAllocSize: 8})
	scope := &fakeScope{level: 1}
	e.SetCurrentScope(scope)
	v := e.NewString("this string is definitely longer than eight bytes")
	if v != Undefined() {
		t.Fatalf("expected undefined sentinel when allocation exceeds cap, got %v", v)
	}
}
