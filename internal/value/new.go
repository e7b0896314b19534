package value

import "github.com/cwscript-lang/cwscript/internal/script"

// NewInt returns an int value, preferring the shared small-int builtin
// when n falls in its range (spec 4.1: "builtins may be returned instead
// of allocating").
func (e *Engine) NewInt(n int64) Value {
	if si, ok := smallInt(n); ok {
		return si
	}
	v := intPool.Get().(*IntValue)
	v.hdr = newHeader(KindInt)
	v.n = n
	e.track(v)
	return v
}

// NewDouble returns a float value.
func (e *Engine) NewDouble(f float64) Value {
	v := doublePool.Get().(*DoubleValue)
	v.hdr = newHeader(KindDouble)
	v.f = f
	e.track(v)
	return v
}

// NewBool returns the shared boolean builtin (booleans are always
// builtins in this implementation; see builtins.go).
func (e *Engine) NewBool(b bool) Value { return Bool(b) }

// NewString returns a string value, consulting the small-string builtin
// table and, if enabled, the interning table (spec 4.1's Interning
// section: on a hit the existing value is returned without an implicit
// ref — the caller must Ref it exactly as if freshly created).
func (e *Engine) NewString(s string) Value {
	if small, ok := smallString(s); ok {
		return small
	}
	if e.opts.EnableInterning {
		if existing, ok := e.interned[s]; ok {
			return existing
		}
	}
	if err := e.checkAlloc(estimateSize(KindString, len(s))); err != nil {
		return builtinUndefined
	}
	v := &StringValue{hdr: newHeader(KindString), s: s}
	e.track(v)
	if e.opts.EnableInterning {
		e.interned[s] = v
	}
	return v
}

// NewArray returns an array value pre-populated with items (the slice is
// taken by reference, not copied).
func (e *Engine) NewArray(items []Value) *ArrayValue {
	v := newArray(items)
	v.hdr = newHeader(KindArray)
	e.track(v)
	return v
}

// NewObject returns a new object with the given prototype (nil for none).
func (e *Engine) NewObject(proto Value) *ObjectValue {
	v := newObject(proto)
	v.hdr = newHeader(KindObject)
	e.track(v)
	return v
}

// NewHash returns a new empty hash.
func (e *Engine) NewHash() *HashValue {
	v := newHash()
	v.hdr = newHeader(KindHash)
	e.track(v)
	return v
}

// NewBuffer returns a new buffer with the given initial capacity hint.
func (e *Engine) NewBuffer(capacity int) *BufferValue {
	v := newBuffer(capacity)
	v.hdr = newHeader(KindBuffer)
	e.track(v)
	return v
}

// NewNativeFunction returns a function value wrapping a host Go callback.
func (e *Engine) NewNativeFunction(name string, params []Param, fn NativeFunc) *FunctionValue {
	v := newFunction(name, params)
	v.hdr = newHeader(KindFunction)
	v.Native = fn
	e.track(v)
	return v
}

// NewScriptFunction returns a function value backed by a script body. body
// and captured are opaque to this package; see function.go.
func (e *Engine) NewScriptFunction(name string, params []Param, variadic bool, body any, captured ScopeOwner) *FunctionValue {
	v := newFunction(name, params)
	v.hdr = newHeader(KindFunction)
	v.Variadic = variadic
	v.Body = body
	v.Captured = captured
	e.track(v)
	return v
}

// NewException returns an exception value.
func (e *Engine) NewException(code script.RC, message string) *ExceptionValue {
	v := newException(code, message)
	v.hdr = newHeader(KindException)
	e.track(v)
	return v
}

// NewNative wraps an arbitrary host value.
func (e *Engine) NewNative(typeName string, payload any) *NativeValue {
	v := newNative(typeName, payload)
	v.hdr = newHeader(KindNative)
	e.track(v)
	return v
}

// NewUnique returns a fresh identity-compared unique value.
func (e *Engine) NewUnique(tag string) *UniqueValue {
	v := newUnique(tag)
	v.hdr = newHeader(KindUnique)
	e.track(v)
	return v
}

// NewTuple returns a tuple wrapping slots (taken by reference).
func (e *Engine) NewTuple(slots []Value) *TupleValue {
	v := newTuple(slots)
	v.hdr = newHeader(KindTuple)
	e.track(v)
	return v
}
