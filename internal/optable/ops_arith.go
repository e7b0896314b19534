package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// numericOperands coerces two operands for arithmetic: int+int stays
// integer, any float operand promotes both to double, grounded on the
// teacher's evalIntegerBinaryOp/evalFloatBinaryOp split
// (internal/interp/expressions_binary.go) which checks INTEGER+INTEGER
// before falling back to a float path.
func numericOperands(a, b value.Value) (aInt, bInt int64, aF, bF float64, isFloat bool, ok bool) {
	an, aok := a.(value.NumericValue)
	bn, bok := b.(value.NumericValue)
	if !aok || !bok {
		return 0, 0, 0, 0, false, false
	}
	_, aIsDouble := a.(*value.DoubleValue)
	_, bIsDouble := b.(*value.DoubleValue)
	if aIsDouble || bIsDouble {
		af, _ := an.AsDouble()
		bf, _ := bn.AsDouble()
		return 0, 0, af, bf, true, true
	}
	ai, _ := an.AsInt()
	bi, _ := bn.AsInt()
	return ai, bi, 0, 0, false, true
}

// arithHandler builds a handler for a purely numeric binary operator
// (no string-concatenation fallback, unlike `+`; see its own
// registration below).
func arithHandler(op func(a, b int64) int64, fop func(a, b float64) float64) Handler {
	return func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
		if skip {
			return value.Undefined(), nil
		}
		ai, bi, af, bf, isFloat, ok := numericOperands(args[0], args[1])
		if !ok {
			return nil, script.NewEngineError(script.TYPE, script.Position{}, "arithmetic requires numeric operands")
		}
		if isFloat {
			return e.NewDouble(fop(af, bf)), nil
		}
		return e.NewInt(op(ai, bi)), nil
	}
}

func init() {
	Register(&Op{
		Symbol: "+", Token: lexer.PLUS, Arity: 2, Precedence: PrecAdditive, Overloadable: true,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			if sa, ok := args[0].(*value.StringValue); ok {
				if sb, ok := args[1].(*value.StringValue); ok {
					return e.NewString(sa.Val() + sb.Val()), nil
				}
			}
			ai, bi, af, bf, isFloat, ok := numericOperands(args[0], args[1])
			if !ok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'+' requires numeric or string operands")
			}
			if isFloat {
				return e.NewDouble(af + bf), nil
			}
			return e.NewInt(ai + bi), nil
		},
	})
	Register(&Op{
		Symbol: "-", Token: lexer.MINUS, Arity: 2, Precedence: PrecAdditive, Overloadable: true,
		Handler: arithHandler(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
	})
	Register(&Op{
		Symbol: "*", Token: lexer.STAR, Arity: 2, Precedence: PrecMultiplicative, Overloadable: true,
		Handler: arithHandler(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
	})
	Register(&Op{
		Symbol: "/", Token: lexer.SLASH, Arity: 2, Precedence: PrecMultiplicative, Overloadable: true,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			ai, bi, af, bf, isFloat, ok := numericOperands(args[0], args[1])
			if !ok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'/' requires numeric operands")
			}
			if isFloat {
				return e.NewDouble(af / bf), nil
			}
			if bi == 0 {
				return nil, script.NewEngineError(script.DIV_BY_ZERO, script.Position{}, "division by zero")
			}
			return e.NewInt(ai / bi), nil
		},
	})
	Register(&Op{
		Symbol: "%", Token: lexer.PERCENT, Arity: 2, Precedence: PrecMultiplicative, Overloadable: true,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			ai, bi, _, _, isFloat, ok := numericOperands(args[0], args[1])
			if !ok || isFloat {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'%%' requires integer operands")
			}
			if bi == 0 {
				return nil, script.NewEngineError(script.DIV_BY_ZERO, script.Position{}, "division by zero")
			}
			return e.NewInt(ai % bi), nil
		},
	})
	Register(&Op{
		Symbol: "-u", Token: lexer.MINUS, Arity: 1, Placement: Prefix, Precedence: PrecUnary,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			n, ok := args[0].(value.NumericValue)
			if !ok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "unary '-' requires a numeric operand")
			}
			if _, isDouble := args[0].(*value.DoubleValue); isDouble {
				f, _ := n.AsDouble()
				return e.NewDouble(-f), nil
			}
			i, _ := n.AsInt()
			return e.NewInt(-i), nil
		},
	})
}
