// Package scope implements the scope stack: a chain of nested frames that
// own values (spec 3.2/4.2). Each frame tracks its values across four
// lists (plain, container, probationary, vacuum-safe), supports push/pop
// with optional veto hooks, and drives sweep/vacuum.
//
// Grounded on a prior implementation's internal/interp/runtime/environment.go
// (outer-pointer chain, Define/Get/Set/Range), generalized from a pure
// symbol table into an owning scope with lifetime bookkeeping, plus the
// DestructorCallback pattern from refcount.go for the GC-list deferral
// drain.
package scope

import "github.com/cwscript-lang/cwscript/internal/value"

// valueList is a simple owned-value set. A slice suffices here: the spec
// describes "four linked lists" for O(1) unlink, but Go's slice-based
// removal is adequate at the scope sizes this engine targets and keeps
// the implementation straightforward, matching a prior implementation's own
// preference for slices/maps over hand-rolled linked lists everywhere
// else in its runtime package.
type valueList struct {
	items []value.Refcounted
}

func (l *valueList) add(v value.Refcounted) {
	l.items = append(l.items, v)
}

func (l *valueList) remove(v value.Refcounted) bool {
	for i, it := range l.items {
		if it == v {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// PushHook runs before a scope becomes current; returning false vetoes
// the push, in which case the scope is popped immediately without its
// PopHook running (spec 4.2's "Push").
type PushHook func(s *Scope) bool

// PopHook runs when a scope is popped, before its owned values are
// dereferenced.
type PopHook func(s *Scope)

// Scope is one frame of the scope stack (spec 3.2). It owns every value
// allocated while it is current, tracked across four lists: plain values,
// container values, refcount-0 probationary values, and vacuum-safe
// values explicitly marked to survive a vacuum pass.
type Scope struct {
	parent *Scope
	level  int

	plain        valueList
	containers   valueList
	probationary valueList
	vacuumSafe   valueList

	vars *value.PropMap

	gcList []value.Refcounted

	destroying bool

	pushHook PushHook
	popHook  PopHook

	// propagating carries a return/break/continue/exit payload up the
	// stack through a pop (spec 3.3's "propagating value").
	propagating value.Value
	// exception carries a thrown exception value through a pop the same
	// way, so catch handlers higher up the stack can observe it.
	exception value.Value

	// evalHold is the "eval holder" of spec 4.5: a strong-reference
	// vector that values passed to HoldForEval are added to, so they
	// survive sweep/vacuum until EvalHoldRelease even though nothing
	// else may reference them yet. The evaluator does not call
	// HoldForEval; expression temporaries are not held here.
	evalHold []value.Value
}

// NewRoot creates the outermost scope (level 1, no parent).
func NewRoot() *Scope {
	return &Scope{level: 1, vars: value.NewPropMap()}
}

// Level returns the scope's depth, root = 1. Implements value.ScopeOwner.
func (s *Scope) Level() int { return s.level }

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Vars returns the scope's variable property map.
func (s *Scope) Vars() *value.PropMap { return s.vars }

// Push creates and returns a new child scope one level deeper. If hook
// is non-nil and returns false, the new scope is immediately popped
// (without running any PopHook) and Push returns nil (spec 4.2's
// push-hook veto).
func Push(parent *Scope, hook PushHook, popHook PopHook) *Scope {
	child := &Scope{
		parent:   parent,
		level:    parent.level + 1,
		vars:     value.NewPropMap(),
		pushHook: hook,
		popHook:  popHook,
	}
	if hook != nil && !hook(child) {
		child.popHook = nil
		child.Pop(nil)
		return nil
	}
	return child
}

// Track registers a freshly allocated value as probationary in this
// scope. Implements value.ScopeOwner.
func (s *Scope) Track(v value.Refcounted) {
	if v.Hdr().Kind().IsContainer() {
		s.containers.add(v)
	} else {
		s.plain.add(v)
	}
	s.probationary.add(v)
}

// Untrack removes v from every list it might be on, without finalizing
// it. Implements value.ScopeOwner. Used when a value is rescoped to an
// older scope or when the engine finalizes it directly.
func (s *Scope) Untrack(v value.Refcounted) {
	s.plain.remove(v)
	s.containers.remove(v)
	s.probationary.remove(v)
	s.vacuumSafe.remove(v)
}

// EnqueueFinalize defers finalization of v to this scope's GC list.
// Implements value.ScopeOwner; called by the engine while a container
// graph is mid-teardown so cycle traversal never frees a node a live
// iterator is still visiting (spec 4.2's "Pop").
func (s *Scope) EnqueueFinalize(v value.Refcounted) {
	s.gcList = append(s.gcList, v)
}

// drainGCList finalizes every value queued during graph destruction.
// Called once traversal has fully completed, so it is always safe.
func (s *Scope) drainGCList(e *value.Engine) {
	for len(s.gcList) > 0 {
		pending := s.gcList
		s.gcList = nil
		for _, v := range pending {
			if !v.Hdr().Finalized() {
				e.Finalize(v)
			}
		}
	}
}

// Rescope moves ownership of v from its current scope to s, which must
// be an ancestor (or s itself). Rescoping never moves a value to a
// newer scope (spec 4.1's "Rescoping"): a value already owned by s or
// by an older scope is left where it is. The returned error is always
// nil.
func (s *Scope) Rescope(v value.Refcounted) error {
	owner, _ := v.Hdr().Owner().(*Scope)
	if owner == nil {
		v.Hdr().SetOwner(s)
		s.Track(v)
		return nil
	}
	if owner == s {
		return nil
	}
	if owner.level <= s.level {
		// v is already owned at least as high as s; nothing to do.
		return nil
	}
	owner.Untrack(v)
	v.Hdr().SetOwner(s)
	if v.Hdr().VacuumSafe() {
		s.vacuumSafe.add(v)
	} else if v.Hdr().Kind().IsContainer() {
		s.containers.add(v)
	} else {
		s.plain.add(v)
	}
	return nil
}

// SetPropagating records a flow-control payload (return/break/continue/
// exit) to survive the pending pop.
func (s *Scope) SetPropagating(v value.Value) { s.propagating = v }

// Propagating returns the current propagating value, if any.
func (s *Scope) Propagating() value.Value { return s.propagating }

// SetException records a thrown exception to survive the pending pop.
func (s *Scope) SetException(v value.Value) { s.exception = v }

// Exception returns the current exception value, if any.
func (s *Scope) Exception() value.Value { return s.exception }

// HoldForEval adds a strong reference to v in this scope's eval holder
// (spec 4.5), protecting it from Sweep/Vacuum until EvalHoldRelease
// truncates the holder back past it.
func (s *Scope) HoldForEval(e *value.Engine, v value.Value) {
	if rc, ok := v.(value.Refcounted); ok {
		e.Ref(rc)
	}
	s.evalHold = append(s.evalHold, v)
}

// EvalHoldMark returns the current length of the eval holder, to be
// passed back to EvalHoldRelease once the expression that started here
// completes.
func (s *Scope) EvalHoldMark() int { return len(s.evalHold) }

// EvalHoldRelease unrefs every value held since mark and truncates the
// holder back to it (spec 4.5's "the holder is truncated back on
// expression exit").
func (s *Scope) EvalHoldRelease(e *value.Engine, mark int) {
	if mark > len(s.evalHold) {
		mark = len(s.evalHold)
	}
	for i := mark; i < len(s.evalHold); i++ {
		e.Unref(s.evalHold[i])
	}
	s.evalHold = s.evalHold[:mark]
}

// Pop tears this scope down: runs the pop-hook, rescopes a propagating
// result and exception into the parent, dereferences every owned value
// (deferring container finalization into the GC list), then drains the
// list once traversal completes (spec 4.2's "Pop"). Returns the parent
// scope, or nil if this was the root.
func (s *Scope) Pop(e *value.Engine) *Scope {
	if s.popHook != nil {
		s.popHook(s)
	}

	if s.parent != nil {
		if rc, ok := s.propagating.(value.Refcounted); ok {
			s.parent.Rescope(rc)
		}
		if rc, ok := s.exception.(value.Refcounted); ok {
			s.parent.Rescope(rc)
		}
	}

	if e != nil {
		e.BeginGraphDestruction()
		for _, v := range append(append([]value.Refcounted{}, s.plain.items...), s.containers.items...) {
			if v == value.Refcounted(nil) {
				continue
			}
			if v.Hdr().Finalized() {
				continue
			}
			if s.isSurvivor(v) {
				continue
			}
			e.Unref(valueOf(v))
		}
		e.EndGraphDestruction()
		s.drainGCList(e)
	}

	s.plain.items = nil
	s.containers.items = nil
	s.probationary.items = nil
	s.vacuumSafe.items = nil

	return s.parent
}

func (s *Scope) isSurvivor(v value.Refcounted) bool {
	if rc, ok := s.propagating.(value.Refcounted); ok && rc == v {
		return true
	}
	if rc, ok := s.exception.(value.Refcounted); ok && rc == v {
		return true
	}
	return false
}

// valueOf recovers the value.Value interface from a Refcounted, which
// every concrete kind also implements.
func valueOf(rc value.Refcounted) value.Value {
	return rc.(value.Value)
}

// Sweep unrefs every value in the current scope's probationary list
// (spec 4.2's "Sweep"): these are temporaries nobody ever took a
// reference to, so unref finalizes them immediately. Values on the list
// whose refcount is above zero are skipped, and the whole list is
// cleared, so a held value is never probationary again.
func (s *Scope) Sweep(e *value.Engine) {
	pending := s.probationary.items
	s.probationary.items = nil
	for _, v := range pending {
		if v.Hdr().Finalized() {
			continue
		}
		if v.Hdr().RefCount() == 0 {
			e.Unref(valueOf(v))
		}
	}
}

// Vacuum breaks reference cycles unreachable from this scope's
// variables or vacuum-safe set (spec 4.2's "Vacuum"). It is implemented
// as the spec describes: a twin scope absorbs the reachable set, the
// original scope's remaining (now-orphaned) values are released, and
// the twin's tracked set is folded back. A nested call on a scope that
// is already vacuuming (its destroying flag is set) returns at once.
func (s *Scope) Vacuum(e *value.Engine) {
	if s.destroying {
		return
	}
	s.destroying = true
	defer func() { s.destroying = false }()

	twin := &Scope{level: s.level, vars: s.vars}

	reachable := s.reachableSet()
	for _, v := range reachable {
		s.Untrack(v)
		v.Hdr().SetOwner(twin)
		if v.Hdr().VacuumSafe() {
			twin.vacuumSafe.add(v)
		} else if v.Hdr().Kind().IsContainer() {
			twin.containers.add(v)
		} else {
			twin.plain.add(v)
		}
	}

	e.BeginGraphDestruction()
	orphans := append(append([]value.Refcounted{}, s.plain.items...), s.containers.items...)
	for _, v := range orphans {
		if v.Hdr().Finalized() {
			continue
		}
		e.Unref(valueOf(v))
	}
	e.EndGraphDestruction()
	s.drainGCList(e)

	s.plain.items = twin.plain.items
	s.containers.items = twin.containers.items
	s.vacuumSafe.items = twin.vacuumSafe.items
	s.probationary.items = nil
	for _, v := range append(append([]value.Refcounted{}, twin.plain.items...), twin.containers.items...) {
		v.Hdr().SetOwner(s)
	}
	for _, v := range twin.vacuumSafe.items {
		v.Hdr().SetOwner(s)
	}
}

// reachableSet returns every value transitively reachable from this
// scope's variables or vacuum-safe list: the survivor set a vacuum pass
// must preserve.
func (s *Scope) reachableSet() []value.Refcounted {
	seen := make(map[value.Refcounted]bool)
	var order []value.Refcounted

	var visit func(v value.Value)
	visit = func(v value.Value) {
		rc, ok := v.(value.Refcounted)
		if !ok || rc == nil {
			return
		}
		if seen[rc] {
			return
		}
		seen[rc] = true
		order = append(order, rc)
		walkChildren(v, visit)
	}

	s.vars.Range(func(_, val value.Value, _ value.PropFlag) bool {
		visit(val)
		return true
	})
	for _, v := range s.vacuumSafe.items {
		visit(valueOf(v))
	}
	return order
}

// walkChildren calls visit on every value directly referenced by v, so
// reachableSet can traverse a container graph without internal/value
// exposing a generic child iterator of its own.
func walkChildren(v value.Value, visit func(value.Value)) {
	if holder, ok := v.(value.PropertyHolder); ok && holder.Props() != nil {
		holder.Props().Range(func(_, val value.Value, _ value.PropFlag) bool {
			visit(val)
			return true
		})
	}
	switch c := v.(type) {
	case interface{ Items() []value.Value }:
		for _, item := range c.Items() {
			visit(item)
		}
	case interface{ Slots() []value.Value }:
		for _, item := range c.Slots() {
			visit(item)
		}
	}
}
