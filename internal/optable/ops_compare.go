package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// looseEqual implements == / != : numeric kinds compare by value across
// int/double, strings compare by content, booleans by value; anything
// else falls back to identity. Grounded on a prior implementation's EqualTo dispatch
// (internal/value/primitives.go) plus its IsTruthy-style "default: exists"
// fallback (internal/interp/runtime/helpers.go) generalized to equality.
func looseEqual(a, b value.Value) bool {
	if cv, ok := a.(value.ComparableValue); ok {
		if eq, err := cv.EqualTo(b); err == nil {
			return eq
		}
	}
	return a == b
}

// strictEqual additionally requires both operands share the same kind,
// so 1 === "1" is false even though 1 == "1" may coerce.
func strictEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	return looseEqual(a, b)
}

func boolHandler(fn func(a, b value.Value) (bool, *script.EngineError)) Handler {
	return func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
		if skip {
			return value.Undefined(), nil
		}
		ok, eerr := fn(args[0], args[1])
		if eerr != nil {
			return nil, eerr
		}
		return e.NewBool(ok), nil
	}
}

func orderedCompare(a, b value.Value) (int, *script.EngineError) {
	ov, ok := a.(value.OrderableValue)
	if !ok {
		return 0, script.NewEngineError(script.TYPE, script.Position{}, "operands are not orderable")
	}
	n, err := ov.CompareTo(b)
	if err != nil {
		return 0, script.NewEngineError(script.TYPE, script.Position{}, err.Error())
	}
	return n, nil
}

func init() {
	Register(&Op{
		Symbol: "==", Token: lexer.EQ, Arity: 2, Precedence: PrecEquality, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			return looseEqual(a, b), nil
		}),
	})
	Register(&Op{
		Symbol: "!=", Token: lexer.NEQ, Arity: 2, Precedence: PrecEquality, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			return !looseEqual(a, b), nil
		}),
	})
	Register(&Op{
		Symbol: "===", Token: lexer.EQ3, Arity: 2, Precedence: PrecEquality, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			return strictEqual(a, b), nil
		}),
	})
	Register(&Op{
		Symbol: "!==", Token: lexer.NEQ3, Arity: 2, Precedence: PrecEquality, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			return !strictEqual(a, b), nil
		}),
	})
	Register(&Op{
		Symbol: "<", Token: lexer.LT, Arity: 2, Precedence: PrecRelational, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			n, err := orderedCompare(a, b)
			return n < 0, err
		}),
	})
	Register(&Op{
		Symbol: ">", Token: lexer.GT, Arity: 2, Precedence: PrecRelational, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			n, err := orderedCompare(a, b)
			return n > 0, err
		}),
	})
	Register(&Op{
		Symbol: "<=", Token: lexer.LE, Arity: 2, Precedence: PrecRelational, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			n, err := orderedCompare(a, b)
			return n <= 0, err
		}),
	})
	Register(&Op{
		Symbol: ">=", Token: lexer.GE, Arity: 2, Precedence: PrecRelational, Overloadable: true,
		Handler: boolHandler(func(a, b value.Value) (bool, *script.EngineError) {
			n, err := orderedCompare(a, b)
			return n >= 0, err
		}),
	})
}
