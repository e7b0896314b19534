package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// truthy implements boolean-context coercion, grounded on a prior implementation's
// IsTruthy (internal/interp/runtime/helpers.go): booleans by value,
// numerics non-zero, strings non-empty, null/undefined false, everything
// else (objects, arrays, functions) true because it exists.
func truthy(v value.Value) bool {
	switch k := v.(type) {
	case *value.BoolValue:
		return k.Val()
	case value.NumericValue:
		if f, ok := k.AsDouble(); ok {
			return f != 0
		}
		return true
	case *value.StringValue:
		return k.Val() != ""
	case *value.UndefinedValue, *value.NullValue:
		return false
	default:
		return true
	}
}

// Truthy exports truthy for the evaluator's own boolean-context
// decisions (if/while conditions, the bare `a ? b : c` ternary), so
// both the stack machine's short-circuit operators and the evaluator's
// statement-level branching agree on exactly one coercion rule.
func Truthy(v value.Value) bool { return truthy(v) }

// isNullish reports whether v is undefined or null, the left-operand test
// for the ||| nullish-coalescing operator.
func isNullish(v value.Value) bool {
	switch v.(type) {
	case *value.UndefinedValue, *value.NullValue:
		return true
	default:
		return false
	}
}

func init() {
	// && and || are registered with ShortCircuit set; the stack
	// machine (spec 4.4's "Short-circuiting") raises the skip level
	// before evaluating the right operand once the left already
	// determines the result, so by the time the handler runs both
	// operands have already been fetched under the correct skip state
	// and the handler only combines them.
	Register(&Op{
		Symbol: "&&", Token: lexer.AND, Arity: 2, Precedence: PrecLogicalAnd, ShortCircuit: true,
		ShortCircuitTest: func(lhs value.Value) bool { return !truthy(lhs) },
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			return e.NewBool(truthy(args[0]) && truthy(args[1])), nil
		},
	})
	Register(&Op{
		Symbol: "||", Token: lexer.OR, Arity: 2, Precedence: PrecLogicalOr, ShortCircuit: true,
		ShortCircuitTest: func(lhs value.Value) bool { return truthy(lhs) },
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			return e.NewBool(truthy(args[0]) || truthy(args[1])), nil
		},
	})
	// ||| is nullish-coalescing: yields the left operand unless it is
	// undefined or null, in which case it yields the right. Distinct
	// from || because a falsy-but-present value (0, "", false) must not
	// be replaced.
	Register(&Op{
		Symbol: "|||", Token: lexer.OROR_OR, Arity: 2, Precedence: PrecLogicalOr, ShortCircuit: true,
		ShortCircuitTest: func(lhs value.Value) bool { return !isNullish(lhs) },
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			if isNullish(args[0]) {
				return args[1], nil
			}
			return args[0], nil
		},
	})
	// ?: is the Elvis operator: the left operand if truthy, else the
	// right. The ternary `a ? b : c` is handled by the evaluator
	// directly, evaluating its untaken arm under skip (it needs two
	// delimiting tokens, not one binary operator slot).
	Register(&Op{
		Symbol: "?:", Token: lexer.ELVIS, Arity: 2, Precedence: PrecTernary, ShortCircuit: true,
		ShortCircuitTest: func(lhs value.Value) bool { return truthy(lhs) },
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			if truthy(args[0]) {
				return args[0], nil
			}
			return args[1], nil
		},
	})
	Register(&Op{
		Symbol: "!", Token: lexer.BANG, Arity: 1, Placement: Prefix, Precedence: PrecUnary,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			return e.NewBool(!truthy(args[0])), nil
		},
	})
}
