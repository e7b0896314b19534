package evaluator

import (
	"sync/atomic"

	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/optable"
	"github.com/cwscript-lang/cwscript/internal/scope"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/ukwd"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Evaluator drives one engine instance through source text: the current
// lexer over whatever span is presently executing, the current scope,
// the call stack, the user-defined-keyword table, and the flow-control/
// exception state that survives across scope pops (spec 4.6, 4.7).
//
// Grounded on a prior implementation's internal/interp/evaluator.Evaluator (which
// bundles an Environment pointer, a CallStack, and an Interrupter flag
// together as the single thing every AST Eval method receives);
// generalized here into the thing that also owns the token stream,
// since this design has no AST nodes to carry an evaluator reference of
// their own.
type Evaluator struct {
	Engine *value.Engine
	Scope  *scope.Scope
	Calls  *CallStack
	UKWD   *ukwd.Table

	ScriptName string

	lex *lexer.Lexer

	// pending carries an active return/break/continue/exit/interrupted
	// transfer. Statement dispatch checks it after every statement and
	// stops running the current block as soon as it is set; the
	// structure designed to intercept that particular code (loop,
	// function, top driver) clears it once handled.
	pending signal

	// exception carries a thrown value independently of pending,
	// mirroring spec 4.6's "exception slot" distinct from the
	// propagating-value slot.
	exception value.Value

	// interrupted is the sticky flag spec 5's "Cancellation" describes;
	// Interrupt() sets it, and every statement-loop iteration polls it
	// at its safe point. atomic.Bool since Interrupt is the one method
	// callable from a goroutine other than the one driving Eval.
	interrupted atomic.Bool

	// pragmas records pragma directives observed during evaluation,
	// keyed by name (spec 6's feature-disable mask and friends are
	// implemented on top of this at the embedding layer).
	pragmas map[string]value.Value

	// sweepInterval/vacuumInterval and their counters implement spec
	// 4.2's "Scheduling": sweep runs every SweepInterval'th top-level
	// expression, and every VacuumInterval'th successful sweep is
	// promoted to a vacuum.
	sweepInterval  int
	vacuumInterval int
	sweepCount     int
	vacuumCount    int
}

// DefaultSweepInterval and DefaultVacuumInterval are the scheduling
// constants New installs; an embedder can override them through
// SetSweepInterval/SetVacuumInterval.
const (
	DefaultSweepInterval  = 1
	DefaultVacuumInterval = 32
)

// SetSweepInterval overrides how many top-level expressions elapse
// between sweeps. n <= 0 is treated as 1 (sweep every expression).
func (e *Evaluator) SetSweepInterval(n int) {
	if n <= 0 {
		n = 1
	}
	e.sweepInterval = n
}

// SetVacuumInterval overrides how many successful sweeps elapse before
// one is promoted to a vacuum. n <= 0 disables vacuuming.
func (e *Evaluator) SetVacuumInterval(n int) {
	e.vacuumInterval = n
}

// New constructs an Evaluator bound to engine and rootScope. It also
// installs itself as the package's active instance so that
// optable.OverloadResolver (consulted only during that engine's own
// expression evaluation, never concurrently: spec 5's single-threaded,
// non-reentrant scheduling model) can dispatch into it without a direct
// reference of its own.
func New(engine *value.Engine, rootScope *scope.Scope, scriptName string) *Evaluator {
	ev := &Evaluator{
		Engine:     engine,
		Scope:      rootScope,
		Calls:      NewCallStack(DefaultMaxRecursionDepth),
		UKWD:       ukwd.NewTable(),
		ScriptName: scriptName,
		pragmas:    make(map[string]value.Value),

		sweepInterval:  DefaultSweepInterval,
		vacuumInterval: DefaultVacuumInterval,
	}
	engine.SetCurrentScope(rootScope)
	currentEvaluator = ev
	return ev
}

// Interrupt sets the sticky interrupt flag (spec 5).
func (e *Evaluator) Interrupt() { e.interrupted.Store(true) }

// currentEvaluator is consulted by dispatchOverload. Execution within one
// engine is strictly single-threaded and non-reentrant (spec 5), so a
// single package-level pointer to "whichever Evaluator is presently
// running" is sufficient and avoids optable importing this package.
var currentEvaluator *Evaluator

func init() {
	optable.OverloadResolver = dispatchOverload
}

// overloadMethodNames maps an overloadable operator's symbol to the
// prototype method name spec 4.4's "Overloading" paragraph says it
// consults ("the operator's method name").
var overloadMethodNames = map[string]string{
	"+": "opAdd", "-": "opSub", "*": "opMul", "/": "opDiv", "%": "opMod",
	"==": "opEq", "!=": "opNeq", "===": "opStrictEq", "!==": "opStrictNeq",
	"<": "opLt", ">": "opGt", "<=": "opLe", ">=": "opGe",
	"&": "opBitAnd", "|": "opBitOr", "^": "opBitXor", "<<": "opShl", ">>": "opShr",
}

func dispatchOverload(e *value.Engine, symbol string, args []value.Value, skip bool) (value.Value, bool, *script.EngineError) {
	if currentEvaluator == nil || skip || len(args) == 0 {
		return nil, false, nil
	}
	return currentEvaluator.resolveOverload(symbol, args)
}

// resolveOverload implements spec 4.4's "Overloading": if the left
// operand is a container whose prototype chain defines the operator's
// method name, that method is called (bound as `this`) instead of the
// operator's builtin Handler.
func (e *Evaluator) resolveOverload(symbol string, args []value.Value) (value.Value, bool, *script.EngineError) {
	methodName := overloadMethodNames[symbol]
	if methodName == "" {
		return nil, false, nil
	}
	obj, ok := args[0].(*value.ObjectValue)
	if !ok {
		return nil, false, nil
	}
	fn := lookupPrototypeMethod(obj, methodName)
	if fn == nil {
		return nil, false, nil
	}
	result, err := e.callValue(fn, obj, args[1:])
	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}

// lookupPrototypeMethod walks obj's own properties, then its prototype
// chain, for a function-valued property named name.
func lookupPrototypeMethod(obj *value.ObjectValue, name string) *value.FunctionValue {
	if v, _, ok := obj.Props().GetByName(name); ok {
		if fn, ok := v.(*value.FunctionValue); ok {
			return fn
		}
	}
	proto := obj.Prototype()
	for proto != nil {
		pobj, ok := proto.(*value.ObjectValue)
		if !ok {
			return nil
		}
		if v, _, ok := pobj.Props().GetByName(name); ok {
			if fn, ok := v.(*value.FunctionValue); ok {
				return fn
			}
		}
		proto = pobj.Prototype()
	}
	return nil
}

// pos reports the current token's source position for error reporting.
func (e *Evaluator) pos() script.Position {
	if e.lex == nil {
		return script.Position{Script: e.ScriptName}
	}
	p := e.lex.Current().Pos
	return script.Position{Script: e.ScriptName, Line: p.Line, Column: p.Column}
}

// lvalueKind distinguishes the three kinds of assignable reference an
// expression parse can produce (spec 4.4's dot-op state note: "only the
// evaluator knows which kind of lvalue produced the left operand").
type lvalueKind int

const (
	refNone lvalueKind = iota
	refVar
	refProp
	refIndex
)

// lvalueRef captures enough about an already-parsed lvalue expression to
// redo a load or store without reparsing it.
type lvalueRef struct {
	kind lvalueKind

	// refVar
	name string

	// refProp
	holder value.PropertyHolder
	key    string

	// refIndex
	indexable value.IndexableValue
	idx       int64
}

// loadRef re-reads the value currently held by ref, used by compound
// assignment (`+=` etc.) to fetch the left operand's current value.
func (e *Evaluator) loadRef(ref lvalueRef) (value.Value, *script.EngineError) {
	switch ref.kind {
	case refVar:
		if v, _, ok := e.lookupVar(ref.name); ok {
			return v, nil
		}
		return value.Undefined(), nil
	case refProp:
		if v, _, ok := ref.holder.Props().GetByName(ref.key); ok {
			return v, nil
		}
		return value.Undefined(), nil
	case refIndex:
		v, err := ref.indexable.GetIndex(ref.idx)
		if err != nil {
			return nil, script.NewEngineError(script.RANGE, e.pos(), "%s", err.Error())
		}
		return v, nil
	default:
		return nil, script.NewEngineError(script.SYNTAX, e.pos(), "invalid assignment target")
	}
}

// storeRef writes v into the location ref describes.
func (e *Evaluator) storeRef(ref lvalueRef, v value.Value) *script.EngineError {
	switch ref.kind {
	case refVar:
		return e.assignVar(ref.name, v)
	case refProp:
		if err := ref.holder.Props().SetByName(ref.key, v, 0); err != nil {
			return script.NewEngineError(script.CONST_VIOLATION, e.pos(), "%s", err.Error())
		}
		return nil
	case refIndex:
		if err := ref.indexable.SetIndex(ref.idx, v); err != nil {
			return script.NewEngineError(script.RANGE, e.pos(), "%s", err.Error())
		}
		return nil
	default:
		return script.NewEngineError(script.SYNTAX, e.pos(), "invalid assignment target")
	}
}

// lookupVar searches the scope chain upward for name, returning the
// owning scope alongside the value (spec 3.2's scope-chain search).
func (e *Evaluator) lookupVar(name string) (value.Value, *scope.Scope, bool) {
	for s := e.Scope; s != nil; s = s.Parent() {
		if v, _, ok := s.Vars().GetByName(name); ok {
			return v, s, true
		}
	}
	return nil, nil, false
}

// declareVar installs name as a fresh binding in the current scope,
// shadowing any outer binding of the same name. This is `:=`'s semantics
// (`:=` always declares in the current scope; `=` searches upward
// first).
func (e *Evaluator) declareVar(name string, v value.Value, flags value.PropFlag) *script.EngineError {
	if err := e.Scope.Vars().SetByName(name, v, flags); err != nil {
		return script.NewEngineError(script.CONST_VIOLATION, e.pos(), "%s", err.Error())
	}
	return nil
}

// assignVar implements `=` and the compound-assign operators: search the
// scope chain for an existing binding and set it there; if none exists,
// implicitly declare in the current scope (JS-loose-mode assignment).
func (e *Evaluator) assignVar(name string, v value.Value) *script.EngineError {
	for s := e.Scope; s != nil; s = s.Parent() {
		if _, _, ok := s.Vars().GetByName(name); ok {
			if err := s.Vars().SetByName(name, v, 0); err != nil {
				return script.NewEngineError(script.CONST_VIOLATION, e.pos(), "%s", err.Error())
			}
			return nil
		}
	}
	return e.declareVar(name, v, 0)
}

// getProp reads holder's property named key, consulting the prototype
// chain for objects and binding `this` to holder when the value read is
// a function (spec 4.6's method-call binding).
func (e *Evaluator) getProp(holder value.Value, key string) (value.Value, *script.EngineError) {
	if exc, ok := holder.(*value.ExceptionValue); ok {
		if v, ok := exceptionField(exc, key, e.Engine); ok {
			return v, nil
		}
	}
	if av, ok := holder.(*value.ArrayValue); ok {
		if v, ok := arrayMethod(e.Engine, av, key); ok {
			return v, nil
		}
	}
	ph, ok := holder.(value.PropertyHolder)
	if !ok {
		return nil, script.NewEngineError(script.TYPE, e.pos(), "value of kind %s has no properties", holder.Kind())
	}
	if v, _, ok := ph.Props().GetByName(key); ok {
		return e.bindIfFunction(v, holder), nil
	}
	if ov, ok := holder.(*value.ObjectValue); ok {
		proto := ov.Prototype()
		for proto != nil {
			pobj, ok := proto.(*value.ObjectValue)
			if !ok {
				break
			}
			if v, _, ok := pobj.Props().GetByName(key); ok {
				return e.bindIfFunction(v, holder), nil
			}
			proto = pobj.Prototype()
		}
	}
	return value.Undefined(), nil
}

// exceptionField surfaces an ExceptionValue's struct fields as script
// properties (spec 3.1/4.7's "code, message, optional script position,
// and a stack trace"), since they live outside the value's own PropMap.
func exceptionField(exc *value.ExceptionValue, key string, engine *value.Engine) (value.Value, bool) {
	switch key {
	case "code":
		return engine.NewString(exc.Code.String()), true
	case "message":
		return engine.NewString(exc.Message), true
	case "script":
		return engine.NewString(exc.Script), true
	case "line":
		return engine.NewInt(int64(exc.Line)), true
	case "column":
		return engine.NewInt(int64(exc.Column)), true
	case "value":
		if v, _, ok := exc.Props().GetByName("value"); ok {
			return v, true
		}
		return value.Undefined(), true
	case "stacktrace":
		frames := make([]value.Value, len(exc.StackTrace))
		for i, f := range exc.StackTrace {
			fv := engine.NewObject(nil)
			fv.Props().SetByName("script", engine.NewString(f.Script), 0)
			fv.Props().SetByName("line", engine.NewInt(int64(f.Line)), 0)
			fv.Props().SetByName("column", engine.NewInt(int64(f.Column)), 0)
			frames[i] = fv
		}
		return engine.NewArray(frames), true
	default:
		return nil, false
	}
}

// arrayMethod surfaces the handful of built-in array helpers (length,
// push, pop) as bound native functions, the same way exceptionField
// surfaces an ExceptionValue's struct fields: these live outside the
// value's own PropMap since every array shares the same behavior rather
// than carrying per-instance script-defined methods.
func arrayMethod(engine *value.Engine, av *value.ArrayValue, key string) (value.Value, bool) {
	switch key {
	case "length":
		fn := engine.NewNativeFunction("length", nil, func(this value.Value, args []value.Value) (value.Value, error) {
			return engine.NewInt(av.Length()), nil
		})
		return fn.Bind(av), true
	case "push":
		fn := engine.NewNativeFunction("push", nil, func(this value.Value, args []value.Value) (value.Value, error) {
			for _, a := range args {
				av.Append(a)
			}
			return engine.NewInt(av.Length()), nil
		})
		return fn.Bind(av), true
	case "pop":
		fn := engine.NewNativeFunction("pop", nil, func(this value.Value, args []value.Value) (value.Value, error) {
			v, ok := av.Pop()
			if !ok {
				return value.Undefined(), nil
			}
			return v, nil
		})
		return fn.Bind(av), true
	default:
		return nil, false
	}
}

func (e *Evaluator) bindIfFunction(v value.Value, this value.Value) value.Value {
	if fn, ok := v.(*value.FunctionValue); ok {
		return fn.Bind(this)
	}
	return v
}

// callValue invokes fn (which must be a *value.FunctionValue) with the
// given `this` and arguments, per spec 4.5's "Function calls": args are
// ref'd for the duration of the call and unhanded afterward so they
// survive any sweep the call triggers without leaking past it.
func (e *Evaluator) callValue(fn value.Value, this value.Value, args []value.Value) (value.Value, *script.EngineError) {
	fv, ok := fn.(*value.FunctionValue)
	if !ok {
		return nil, script.NewEngineError(script.CALL_OF_NON_FUNCTION, e.pos(), "value of kind %s is not callable", fn.Kind())
	}
	if fv.BoundThis != nil {
		this = fv.BoundThis
	}
	for _, a := range args {
		e.Engine.Ref(a)
	}
	defer func() {
		for _, a := range args {
			e.Engine.Unhand(a)
		}
	}()

	if fv.IsNative() {
		res, err := fv.Native(this, args)
		if err != nil {
			return nil, script.NewEngineError(script.ERROR, e.pos(), "%s", err.Error())
		}
		if res == nil {
			return value.Undefined(), nil
		}
		return res, nil
	}
	return e.callScript(fv, this, args)
}

// callScript runs a script-defined function's captured body text in a
// fresh scope pushed off its captured (defining) scope, binds `this`,
// `argv`, its own name, and its formal parameters, then intercepts a
// RETURN signal as the call's result (spec 4.5/4.6).
func (e *Evaluator) callScript(fv *value.FunctionValue, this value.Value, args []value.Value) (value.Value, *script.EngineError) {
	bodySrc, _ := fv.Body.(string)
	captured, _ := fv.Captured.(*scope.Scope)
	if captured == nil {
		captured = e.Scope
	}

	callPos := e.pos()
	if err := e.Calls.Push(fv.Name, callPos); err != nil {
		return nil, script.NewEngineError(script.ERROR, callPos, "%s", err.Error())
	}
	defer e.Calls.Pop()

	outerScope := e.Scope
	callScope := scope.Push(captured, nil, nil)
	e.Scope = callScope
	e.Engine.SetCurrentScope(callScope)
	defer func() {
		e.popScope()
		if e.Scope == nil {
			e.Scope = outerScope
			e.Engine.SetCurrentScope(e.Scope)
		}
	}()

	if this == nil {
		this = value.Undefined()
	}
	if err := e.declareVar("this", this, 0); err != nil {
		return nil, err
	}
	if err := e.declareVar("argv", e.Engine.NewArray(append([]value.Value{}, args...)), 0); err != nil {
		return nil, err
	}
	if fv.Name != "" {
		if err := e.declareVar(fv.Name, fv, 0); err != nil {
			return nil, err
		}
	}

	for i, p := range fv.Params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			defSrc, _ := p.Default.(string)
			dv, eerr := e.evalExprText(defSrc)
			if eerr != nil {
				return nil, eerr
			}
			v = dv
		default:
			v = value.Undefined()
		}
		if err := e.declareVar(p.Name, v, 0); err != nil {
			return nil, err
		}
	}
	if fv.Variadic && len(args) > len(fv.Params) {
		extra := append([]value.Value{}, args[len(fv.Params):]...)
		if err := e.declareVar("varargs", e.Engine.NewArray(extra), 0); err != nil {
			return nil, err
		}
	}

	if err := e.runBlock(bodySrc); err != nil {
		return nil, err
	}

	// An exception or a break/continue/exit escaping an uncaught
	// function body keeps propagating exactly as it arrived; the
	// caller (an expression or statement further up the stack) is
	// responsible for noticing e.pending is set and unwinding in turn,
	// the same way a native stack unwinds on an unrecovered panic.
	if e.pending.code == script.EXCEPTION || (e.pending.isSet() && e.pending.code != script.RETURN) {
		return value.Undefined(), nil
	}

	if e.pending.code == script.RETURN {
		v := e.pending.value
		e.pending = noSignal
		if v == nil {
			v = value.Undefined()
		}
		return v, nil
	}
	e.pending = noSignal
	return value.Undefined(), nil
}

// evalExprText parses and evaluates one standalone expression from src,
// restoring the evaluator's current lexer afterward. Used for default
// parameter expressions and the `eval` keyword.
func (e *Evaluator) evalExprText(src string) (value.Value, *script.EngineError) {
	saved := e.lex
	e.lex = lexer.New(src)
	e.lex.NextToken()
	defer func() { e.lex = saved }()

	v, err := e.parseCommaExpr(false)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// consume advances past the current token if it matches tt, otherwise
// reports a syntax error.
func (e *Evaluator) consume(tt lexer.TokenType) (lexer.Token, *script.EngineError) {
	tok := e.lex.Current()
	if tok.Type != tt {
		return tok, script.NewEngineError(script.UNEXPECTED_TOKEN, e.pos(), "expected %s, got %s", tt, tok.Type)
	}
	e.lex.NextToken()
	return tok, nil
}

func (e *Evaluator) errorf(code script.RC, format string, args ...any) *script.EngineError {
	return script.NewEngineError(code, e.pos(), format, args...)
}

// pushBlockScope opens a fresh child scope for one block/loop-iteration
// body (spec 4.2's "Push"), updating both the evaluator's and the
// engine's notion of the current scope.
func (e *Evaluator) pushBlockScope() {
	e.Scope = scope.Push(e.Scope, nil, nil)
	e.Engine.SetCurrentScope(e.Scope)
}

// popScope tears down the evaluator's current scope. Before the pop, any
// live flow-control payload or exception is published to the scope's
// propagating/exception slots so Scope.Pop's survivor check keeps it
// alive and rescopes it into the parent instead of unref'ing it away
// mid-unwind (spec 4.2's "Pop" note that a propagating value must
// outlive the scope that raised it).
func (e *Evaluator) popScope() {
	s := e.Scope
	switch e.pending.code {
	case script.RETURN, script.EXIT, script.BREAK, script.CONTINUE:
		if e.pending.value != nil {
			s.SetPropagating(e.pending.value)
		}
	case script.EXCEPTION:
		if e.exception != nil {
			s.SetException(e.exception)
		}
	}
	e.Scope = s.Pop(e.Engine)
	e.Engine.SetCurrentScope(e.Scope)
}
