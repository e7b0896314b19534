package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// intOperands requires both operands be integer-valued (no implicit
// float truncation), grounded on a prior implementation's bitwise handlers which
// reject FloatValue outright rather than silently truncating
// (internal/interp/expressions_binary.go).
func intOperands(a, b value.Value) (int64, int64, bool) {
	an, aok := a.(value.NumericValue)
	bn, bok := b.(value.NumericValue)
	if !aok || !bok {
		return 0, 0, false
	}
	if _, isDouble := a.(*value.DoubleValue); isDouble {
		return 0, 0, false
	}
	if _, isDouble := b.(*value.DoubleValue); isDouble {
		return 0, 0, false
	}
	ai, _ := an.AsInt()
	bi, _ := bn.AsInt()
	return ai, bi, true
}

func bitwiseHandler(sym string, op func(a, b int64) int64) Handler {
	return func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
		if skip {
			return value.Undefined(), nil
		}
		ai, bi, ok := intOperands(args[0], args[1])
		if !ok {
			return nil, script.NewEngineError(script.TYPE, script.Position{}, "'"+sym+"' requires integer operands")
		}
		return e.NewInt(op(ai, bi)), nil
	}
}

func init() {
	Register(&Op{
		Symbol: "&", Token: lexer.AMP, Arity: 2, Precedence: PrecBitwiseAnd, Overloadable: true,
		Handler: bitwiseHandler("&", func(a, b int64) int64 { return a & b }),
	})
	Register(&Op{
		Symbol: "|", Token: lexer.PIPE, Arity: 2, Precedence: PrecBitwiseOr, Overloadable: true,
		Handler: bitwiseHandler("|", func(a, b int64) int64 { return a | b }),
	})
	Register(&Op{
		Symbol: "^", Token: lexer.CARET, Arity: 2, Precedence: PrecBitwiseXor, Overloadable: true,
		Handler: bitwiseHandler("^", func(a, b int64) int64 { return a ^ b }),
	})
	Register(&Op{
		Symbol: "<<", Token: lexer.SHL, Arity: 2, Precedence: PrecShift, Overloadable: true,
		Handler: bitwiseHandler("<<", func(a, b int64) int64 { return a << uint64(b) }),
	})
	Register(&Op{
		Symbol: ">>", Token: lexer.SHR, Arity: 2, Precedence: PrecShift, Overloadable: true,
		Handler: bitwiseHandler(">>", func(a, b int64) int64 { return a >> uint64(b) }),
	})
	Register(&Op{
		Symbol: "~", Token: lexer.TILDE, Arity: 1, Placement: Prefix, Precedence: PrecUnary,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			n, ok := args[0].(value.NumericValue)
			if !ok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'~' requires an integer operand")
			}
			if _, isDouble := args[0].(*value.DoubleValue); isDouble {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'~' requires an integer operand")
			}
			i, _ := n.AsInt()
			return e.NewInt(^i), nil
		},
	})
}
