package value

import (
	"math"

	"github.com/cwscript-lang/cwscript/internal/script"
)

// Options tunes the value engine's allocation caps and optional features.
// Zero values mean "unlimited"/"disabled" except where noted.
type Options struct {
	// MaxTotalBytes caps the engine's lifetime estimated allocation total.
	// 0 means unlimited.
	MaxTotalBytes int64
	// MaxConcurrentBytes caps the estimated bytes currently live. 0 means
	// unlimited.
	MaxConcurrentBytes int64
	// MaxSingleAllocSize caps any single allocation's estimated size. 0
	// means unlimited.
	MaxSingleAllocSize int64
	// EnableInterning turns on string interning (see NewString in
	// new.go). Disabled by default per spec 9's open question: interning
	// is "known-brittle with temporaries" unless every temporary is
	// strictly refcounted. The evaluator does not hold its temporaries
	// in the scope's eval holder.
	EnableInterning bool
}

// Engine owns allocation, reference counting, interning, and recycling for
// every value kind (spec 4.1). It does not know about scope.Scope
// directly; ownership bookkeeping flows through the ScopeOwner interface
// so this package never imports internal/scope.
type Engine struct {
	opts    Options
	current ScopeOwner

	liveBytes  int64
	totalBytes int64

	interned map[string]*StringValue

	destroying int // >0 while a scope's graph is being torn down

	dead bool // set on FATAL; all further operations refuse to run
}

// NewEngine constructs a value engine with the given options.
func NewEngine(opts Options) *Engine {
	e := &Engine{opts: opts}
	if opts.EnableInterning {
		e.interned = make(map[string]*StringValue)
	}
	return e
}

// Dead reports whether the engine has observed a FATAL corruption and
// refuses further operations (spec 4.1's "Failure semantics").
func (e *Engine) Dead() bool { return e.dead }

// SetCurrentScope is called by the scope stack on every push/pop so
// freshly allocated values are tracked by the right scope. A nil current
// scope means newly allocated values are untracked (used only during
// engine construction before any scope exists).
func (e *Engine) SetCurrentScope(s ScopeOwner) { e.current = s }

// CurrentScope returns the scope the engine currently tracks new
// allocations against.
func (e *Engine) CurrentScope() ScopeOwner { return e.current }

// BeginGraphDestruction marks the start of a scope-pop or vacuum's
// cleanup traversal. While active, Unref of a container queues
// finalization on the container's owning scope instead of running it
// immediately, so that breaking a cycle never frees a value a live
// traversal is still visiting (spec 4.2).
func (e *Engine) BeginGraphDestruction() { e.destroying++ }

// EndGraphDestruction closes a BeginGraphDestruction span.
func (e *Engine) EndGraphDestruction() {
	if e.destroying > 0 {
		e.destroying--
	}
}

func (e *Engine) track(v Refcounted) {
	if e.current != nil {
		v.Hdr().SetOwner(e.current)
		e.current.Track(v)
	}
}

// estimateSize returns a rough byte-cost estimate per kind, used only to
// enforce the configured allocation caps; it is not an exact
// sizeof-equivalent.
func estimateSize(k Kind, extra int) int64 {
	const headerCost = 48
	return int64(headerCost + extra)
}

func (e *Engine) checkAlloc(size int64) *script.EngineError {
	if e.dead {
		return script.NewEngineError(script.FATAL, script.Position{}, "engine is dead")
	}
	if e.opts.MaxSingleAllocSize > 0 && size > e.opts.MaxSingleAllocSize {
		return script.NewOOMError(script.Position{})
	}
	if e.opts.MaxConcurrentBytes > 0 && e.liveBytes+size > e.opts.MaxConcurrentBytes {
		return script.NewOOMError(script.Position{})
	}
	if e.opts.MaxTotalBytes > 0 && e.totalBytes+size > e.opts.MaxTotalBytes {
		return script.NewOOMError(script.Position{})
	}
	e.liveBytes += size
	e.totalBytes += size
	return nil
}

func (e *Engine) releaseAlloc(size int64) {
	e.liveBytes -= size
	if e.liveBytes < 0 {
		e.liveBytes = 0
	}
}

// Fatal sets the engine's dead flag. Called when a lifetime invariant is
// violated in a way that cannot be safely recovered from (refcount
// overflow, use of an already-finalized value detected outside the
// best-effort checks).
func (e *Engine) Fatal() { e.dead = true }

// ---- Reference counting -------------------------------------------------

// Ref increments v's reference count. Builtins are a no-op and always
// return v. Overflow is fatal (spec 4.1).
func (e *Engine) Ref(v Value) Value {
	if v == nil || IsBuiltin(v) {
		return v
	}
	rc, ok := v.(Refcounted)
	if !ok {
		return v
	}
	h := rc.Hdr()
	if h.refCount == math.MaxInt32 {
		e.Fatal()
		return v
	}
	h.refCount++
	return v
}

// Unref decrements v's reference count and finalizes it on reaching
// zero, deferring to the owning scope's GC list during graph destruction.
// Always returns nil, matching the spec's "decrements; when it reaches
// zero, begins finalization" contract — callers that need the value back
// to propagate it outward must use Unhand instead.
func (e *Engine) Unref(v Value) Value {
	if v == nil || IsBuiltin(v) {
		return nil
	}
	rc, ok := v.(Refcounted)
	if !ok {
		return nil
	}
	h := rc.Hdr()
	if h.refCount > 0 {
		h.refCount--
	}
	if h.refCount == 0 && !h.finalized {
		e.finalize(rc)
	}
	return nil
}

// Unhand decrements the reference count without ever finalizing v,
// returning v so it can continue propagating outward (e.g. a function
// result surviving past the scope that produced it). Returns nil only if
// v was already finalized, which best-effort signals a lifetime
// corruption to the caller (spec 4.1).
func (e *Engine) Unhand(v Value) Value {
	if v == nil {
		return nil
	}
	if IsBuiltin(v) {
		return v
	}
	rc, ok := v.(Refcounted)
	if !ok {
		return v
	}
	h := rc.Hdr()
	if h.finalized {
		return nil
	}
	if h.refCount > 0 {
		h.refCount--
	}
	return v
}

// MakeVacuumProof moves v between its owning scope's normal and
// vacuum-safe lists. The actual list membership lives in the scope
// package; this only flips the flag the scope consults when rehoming
// values during a vacuum pass.
func (e *Engine) MakeVacuumProof(v Value, safe bool) {
	if v == nil || IsBuiltin(v) {
		return
	}
	rc, ok := v.(Refcounted)
	if !ok {
		return
	}
	rc.Hdr().SetVacuumSafe(safe)
}

func (e *Engine) finalize(rc Refcounted) {
	h := rc.Hdr()
	if e.destroying > 0 && h.Kind().IsContainer() {
		if owner := h.Owner(); owner != nil {
			owner.EnqueueFinalize(rc)
			return
		}
	}
	h.MarkFinalized()
	if owner := h.Owner(); owner != nil {
		owner.Untrack(rc)
	}
	e.releaseAlloc(estimateSize(h.Kind(), 0))
	e.recycle(rc)
}

// Finalize runs finalization on rc immediately, bypassing the graph-
// destruction deferral. Used by the scope package when draining its GC
// list — by the time the list is drained, traversal has already
// completed, so it is always safe to free directly.
func (e *Engine) Finalize(rc Refcounted) {
	h := rc.Hdr()
	if h.finalized {
		return
	}
	h.MarkFinalized()
	if owner := h.Owner(); owner != nil {
		owner.Untrack(rc)
	}
	e.recycle(rc)
}
