package value

// ScopeOwner is the minimal surface a scope must provide so the value
// engine can track ownership and defer cycle-breaking finalization without
// importing the scope package. *scope.Scope implements this interface;
// see internal/scope for the concrete lifetime algorithms (sweep, vacuum).
//
// This mirrors a prior implementation's DestructorCallback/RefCountManager pattern
// (internal/interp/runtime/refcount.go), generalized from "object
// destructor" to "whole-scope ownership and GC-list deferral".
type ScopeOwner interface {
	// Level returns the scope's depth (root = 1), used to enforce the
	// invariant that a value's owner level is <= every referencing
	// container's owner level.
	Level() int

	// Track registers a freshly allocated value as probationary (owned,
	// refcount 0, eligible for sweep) in this scope.
	Track(v Refcounted)

	// Untrack removes v from this scope's owned lists without finalizing
	// it, used when a value is rescoped to an older scope.
	Untrack(v Refcounted)

	// EnqueueFinalize defers finalization of v to this scope's GC list,
	// used while a container graph is being torn down so that cycle
	// traversal never frees a value out from under a live iterator.
	EnqueueFinalize(v Refcounted)
}

// Header is the lifetime record embedded (by pointer, via Hdr()) in every
// non-builtin value. Builtins never allocate a Header; IsBuiltin reports
// true for them via a package-level check, not via this struct.
type Header struct {
	kind       Kind
	refCount   int32
	owner      ScopeOwner
	vacuumSafe bool
	finalized  bool
}

// Kind returns the value's kind.
func (h *Header) Kind() Kind { return h.kind }

// RefCount returns the current reference count.
func (h *Header) RefCount() int32 { return h.refCount }

// Owner returns the scope that currently owns this value, or nil if it has
// not yet been tracked by any scope (freshly constructed, pre-Track).
func (h *Header) Owner() ScopeOwner { return h.owner }

// SetOwner assigns a new owning scope. Used by the scope package when
// tracking a new value or rescoping an existing one upward. Callers must
// enforce the "never move to a newer scope" invariant themselves (Header
// has no way to compare levels against the previous owner once it is
// overwritten).
func (h *Header) SetOwner(o ScopeOwner) { h.owner = o }

// VacuumSafe reports whether this value is on its scope's vacuum-safe
// list rather than its normal list.
func (h *Header) VacuumSafe() bool { return h.vacuumSafe }

// SetVacuumSafe flips the vacuum-safe flag. The scope package is
// responsible for actually moving the value between its internal lists;
// this only records the flag the scope consults.
func (h *Header) SetVacuumSafe(v bool) { h.vacuumSafe = v }

// Finalized reports whether this value has already run through
// finalization. Used to make unref/unhand of an already-freed value a
// best-effort detectable misuse rather than a silent double-free.
func (h *Header) Finalized() bool { return h.finalized }

// MarkFinalized is called exactly once by the engine when a value's
// refcount reaches zero and finalization completes.
func (h *Header) MarkFinalized() { h.finalized = true }

func newHeader(k Kind) Header {
	return Header{kind: k}
}
