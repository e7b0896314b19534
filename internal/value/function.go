package value

import "fmt"

// NativeFunc is a host (Go) function exposed to scripts. It receives the
// bound `this` value (nil if unqualified) and the evaluated argument
// list, and returns a result or an error.
type NativeFunc func(this Value, args []Value) (Value, error)

// FunctionValue represents both native and script functions (spec 4.6's
// "Callback, function, and prototype model"). A script function's body is
// stored as an opaque Body value the evaluator package populates and
// interprets; the value package never inspects it, which is what keeps
// this package free of an import on the evaluator.
type FunctionValue struct {
	hdr   Header
	props *PropMap

	Name     string
	Params   []Param
	Variadic bool

	// Native is non-nil for a host-registered function.
	Native NativeFunc

	// Body is non-nil for a script-defined function (proc/lambda). Its
	// concrete type is owned by the evaluator package.
	Body any

	// Captured is the defining scope, opaque to this package (spec 9's
	// "Script functions with captured using bindings"); its concrete
	// type is *scope.Scope, stored here as ScopeOwner to avoid a cycle.
	Captured ScopeOwner

	// BoundThis is set for methods bound to a specific receiver.
	BoundThis Value
}

// Param describes one formal parameter.
type Param struct {
	Name     string
	ByRef    bool // var parameter
	Lazy     bool // lazy-evaluated parameter (spec 9's lazy params)
	Default  any  // opaque default-value expression, evaluator-owned
}

func newFunction(name string, params []Param) *FunctionValue {
	return &FunctionValue{Name: name, Params: params, props: NewPropMap()}
}

func (f *FunctionValue) Kind() Kind      { return KindFunction }
func (f *FunctionValue) Hdr() *Header    { return &f.hdr }
func (f *FunctionValue) Props() *PropMap { return f.props }
func (f *FunctionValue) Arity() int      { return len(f.Params) }

func (f *FunctionValue) String() string {
	if f.Name != "" {
		return fmt.Sprintf("[function %s]", f.Name)
	}
	return "[function]"
}

// IsNative reports whether this function calls directly into Go.
func (f *FunctionValue) IsNative() bool { return f.Native != nil }

// Bind returns a shallow copy of f with BoundThis set, used when a
// function value is read off an object as a bound method.
func (f *FunctionValue) Bind(this Value) *FunctionValue {
	clone := *f
	clone.hdr = Header{}
	clone.BoundThis = this
	return &clone
}
