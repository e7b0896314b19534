// Package cwscript is the public embedding API: construct an Engine,
// feed it script source, register Go functions and methods callable
// from scripts, and walk or mutate the resulting value tree.
//
// The surface (New(options...), engine.Eval(src) (Result, error),
// engine.SetOutput(io.Writer), engine.RegisterFunction(name, fn) via
// reflection, engine.RegisterMethod, functional With... options) mirrors
// a statically type-checked embedding API carried over to a dynamically
// typed one: there is no WithTypeCheck option, since there is no
// separate type-check pass to toggle here.
package cwscript

import (
	"fmt"
	"io"
	"os"

	"github.com/cwscript-lang/cwscript/internal/builtins"
	"github.com/cwscript-lang/cwscript/internal/config"
	"github.com/cwscript-lang/cwscript/internal/evaluator"
	"github.com/cwscript-lang/cwscript/internal/scope"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Value is the value engine's handle type, re-exported so embedders
// never need to import internal/value directly.
type Value = value.Value

// Result is what Eval and its siblings return: the script's final
// expression value plus a success flag.
type Result struct {
	Value   Value
	Success bool
}

// Outputer is the pluggable output sink named by spec 6 ("Output/flush
// via a pluggable outputer interface"). Flush lets a buffering
// implementation defer writes; callers that don't need buffering can
// satisfy it trivially.
type Outputer interface {
	io.Writer
	Flush() error
}

// nopFlushWriter adapts a bare io.Writer (the common case) into an
// Outputer whose Flush is a no-op.
type nopFlushWriter struct{ io.Writer }

func (nopFlushWriter) Flush() error { return nil }

func asOutputer(w io.Writer) Outputer {
	if w == nil {
		return nil
	}
	if out, ok := w.(Outputer); ok {
		return out
	}
	return nopFlushWriter{w}
}

// ModuleLoader is the module-loading hook named by spec 6
// ("module_load(dll_path, symbol?) -> module_value"). Module loading
// itself is explicitly out of scope for the core (spec 1's "loadable-
// module/DLL mechanism... external collaborator"); an embedder that
// wants script-triggered module loading implements this and registers
// it with WithModuleLoader.
type ModuleLoader interface {
	Load(name string) (Value, error)
}

// Frame is the public form of an open call at the time an error was
// raised, re-exported so embedders never need to import internal/script
// directly to inspect CompileError.StackTrace.
type Frame = script.Frame

// CompileError reports a failure before or during evaluation: Stage
// names where the failure occurred, Err carries the underlying error.
type CompileError struct {
	Stage string
	Err   *script.EngineError
}

func (e *CompileError) Error() string {
	if e == nil || e.Err == nil {
		return fmt.Sprintf("%s: unknown error", e.Stage)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Err.Error())
}

func (e *CompileError) Unwrap() error { return e.Err }

// StackTrace returns the open calls at the point an uncaught exception
// was raised, newest-call-first, per spec 4.7. It is empty for errors
// that never unwound through a script call (e.g. a syntax error).
func (e *CompileError) StackTrace() []Frame {
	if e == nil || e.Err == nil {
		return nil
	}
	return e.Err.StackTrace
}

// Engine is one independent script execution context: its own value
// engine, root scope, evaluator, and registered globals. Not safe for
// concurrent use from multiple goroutines simultaneously (spec 5),
// except for Interrupt.
type Engine struct {
	values *value.Engine
	root   *scope.Scope
	eval   *evaluator.Evaluator
	cfg    *config.Options

	output       Outputer
	moduleLoader ModuleLoader
}

// engineConfig accumulates functional-option state across New/
// NewFromYAML before an Engine is actually constructed.
type engineConfig struct {
	configOpts   []config.Option
	output       Outputer
	moduleLoader ModuleLoader
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

// WithMaxTotalBytes caps the engine's lifetime allocation total.
func WithMaxTotalBytes(n int64) Option {
	return func(c *engineConfig) { c.configOpts = append(c.configOpts, config.WithMaxTotalBytes(n)) }
}

// WithMaxConcurrentBytes caps estimated live bytes.
func WithMaxConcurrentBytes(n int64) Option {
	return func(c *engineConfig) {
		c.configOpts = append(c.configOpts, config.WithMaxConcurrentBytes(n))
	}
}

// WithMaxSingleAllocSize caps any single allocation's estimated size.
func WithMaxSingleAllocSize(n int64) Option {
	return func(c *engineConfig) {
		c.configOpts = append(c.configOpts, config.WithMaxSingleAllocSize(n))
	}
}

// WithInterning enables string interning.
func WithInterning(enabled bool) Option {
	return func(c *engineConfig) { c.configOpts = append(c.configOpts, config.WithInterning(enabled)) }
}

// WithSweepInterval sets the sweep cadence.
func WithSweepInterval(n int) Option {
	return func(c *engineConfig) { c.configOpts = append(c.configOpts, config.WithSweepInterval(n)) }
}

// WithVacuumInterval sets the vacuum cadence; n <= 0 disables vacuuming.
func WithVacuumInterval(n int) Option {
	return func(c *engineConfig) { c.configOpts = append(c.configOpts, config.WithVacuumInterval(n)) }
}

// WithMaxStackDepth sets the script call-recursion cap.
func WithMaxStackDepth(n int) Option {
	return func(c *engineConfig) { c.configOpts = append(c.configOpts, config.WithMaxStackDepth(n)) }
}

// WithDisabledFeatures disables the named advisory features for
// host-bound stdlib functions registered on this engine.
func WithDisabledFeatures(features ...config.Feature) Option {
	return func(c *engineConfig) {
		c.configOpts = append(c.configOpts, config.WithDisabledFeatures(features...))
	}
}

// WithOutput directs script output (e.g. a registered "print" builtin)
// to w.
func WithOutput(w io.Writer) Option {
	return func(c *engineConfig) { c.output = asOutputer(w) }
}

// WithModuleLoader installs the module-loading hook.
func WithModuleLoader(loader ModuleLoader) Option {
	return func(c *engineConfig) { c.moduleLoader = loader }
}

// New constructs an Engine from Default options plus opts.
func New(opts ...Option) (*Engine, error) {
	return newEngine(config.Default(), opts...)
}

// NewFromYAML constructs an Engine whose tuning knobs are loaded from a
// YAML file (spec's "[DOMAIN] Config loading"), with opts layered on
// top of whatever the file specifies.
func NewFromYAML(path string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return newEngine(cfg, opts...)
}

func newEngine(cfg *config.Options, opts ...Option) (*Engine, error) {
	ec := &engineConfig{}
	for _, o := range opts {
		o(ec)
	}
	cfg.Apply(ec.configOpts...)

	ve := value.NewEngine(cfg.ValueOptions())
	root := scope.NewRoot()
	ve.SetCurrentScope(root)

	ev := evaluator.New(ve, root, "<script>")
	ev.SetSweepInterval(cfg.SweepInterval)
	ev.SetVacuumInterval(cfg.VacuumInterval)
	ev.Calls.SetMaxDepth(cfg.MaxStackDepth)

	eng := &Engine{
		values:       ve,
		root:         root,
		eval:         ev,
		cfg:          cfg,
		output:       ec.output,
		moduleLoader: ec.moduleLoader,
	}
	eng.registerBuiltins()
	return eng, nil
}

// SetOutput redirects script output after construction.
func (e *Engine) SetOutput(w io.Writer) { e.output = asOutputer(w) }

// Interrupt requests cooperative cancellation of any evaluation
// currently in progress on this Engine (safe to call concurrently).
func (e *Engine) Interrupt() { e.eval.Interrupt() }

// Config returns the engine's resolved tuning options.
func (e *Engine) Config() *config.Options { return e.cfg }

// Eval evaluates src and returns its result, per spec 6's `eval_cstr`.
func (e *Engine) Eval(src string) (*Result, error) {
	v, err := e.eval.EvalScript(src)
	if err != nil {
		return &Result{Success: false}, &CompileError{Stage: "eval", Err: err}
	}
	return &Result{Value: v, Success: true}, nil
}

// EvalCstr is Eval under spec 6's own naming (`eval_cstr`); it is the
// identical plain-string entry point, kept as an alias so embedders
// porting from the C-string-flavored API surface find a matching name.
func (e *Engine) EvalCstr(src string) (*Result, error) { return e.Eval(src) }

// EvalFilename reads path and evaluates its contents, per spec 6's
// `eval_filename`.
func (e *Engine) EvalFilename(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Success: false}, fmt.Errorf("cwscript: reading %s: %w", path, err)
	}
	return e.Eval(string(data))
}

// EvalBuffer evaluates a raw byte buffer, per spec 6's `eval_buffer`.
func (e *Engine) EvalBuffer(buf []byte) (*Result, error) {
	return e.Eval(string(buf))
}

// PrototypeGet returns v's prototype, if v is an object.
func (e *Engine) PrototypeGet(v Value) (Value, bool) {
	ov, ok := v.(*value.ObjectValue)
	if !ok {
		return nil, false
	}
	proto := ov.Prototype()
	return proto, proto != nil
}

// PrototypeSet sets v's prototype; v must be an object.
func (e *Engine) PrototypeSet(v Value, proto Value) error {
	ov, ok := v.(*value.ObjectValue)
	if !ok {
		return fmt.Errorf("cwscript: %s is not an object", v.Kind())
	}
	ov.SetPrototype(proto)
	return nil
}

// DerivesFrom reports whether v's prototype chain includes a class
// named name.
func (e *Engine) DerivesFrom(v Value, name string) bool {
	ov, ok := v.(*value.ObjectValue)
	if !ok {
		return false
	}
	return ov.DerivesFrom(name)
}

// VarDecl declares a global script variable.
func (e *Engine) VarDecl(name string, v Value) error {
	return e.root.Vars().SetByName(name, v, 0)
}

// VarGet reads a global script variable.
func (e *Engine) VarGet(name string) (Value, bool) {
	v, _, ok := e.root.Vars().GetByName(name)
	return v, ok
}

// VarSet assigns a global script variable, failing if it is const.
func (e *Engine) VarSet(name string, v Value) error {
	return e.root.Vars().SetByName(name, v, 0)
}

// RegisterKeyword installs a user-defined keyword per spec 4.8: name
// becomes usable as a bareword anywhere an identifier is expected,
// resolving to v. name must not already name a real keyword or a
// previously registered one, and v must be neither null nor undefined.
func (e *Engine) RegisterKeyword(name string, v Value) error {
	return e.eval.UKWD.Register(name, v)
}

// ToJSON serializes v to a JSON document.
func (e *Engine) ToJSON(v Value) (string, error) { return builtins.ToJSON(v) }

// FromJSON splices a JSON document into this engine's value tree.
func (e *Engine) FromJSON(doc string) (Value, error) { return builtins.FromJSON(e.values, doc) }

// NewInt, NewDouble, NewBool, NewString, NewArray, and NewObject
// construct values owned by this engine's current scope, for embedders
// building up script-visible data before an Eval call.
func (e *Engine) NewInt(n int64) Value       { return e.values.NewInt(n) }
func (e *Engine) NewDouble(f float64) Value  { return e.values.NewDouble(f) }
func (e *Engine) NewBool(b bool) Value       { return e.values.NewBool(b) }
func (e *Engine) NewString(s string) Value   { return e.values.NewString(s) }
func (e *Engine) NewArray(items []Value) Value {
	return e.values.NewArray(items)
}
func (e *Engine) NewObject(proto Value) Value { return e.values.NewObject(proto) }
