package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Assignment-family handlers only compute the operator's result value;
// they never perform the store themselves. Storing into the target
// (a variable slot or a property through the published dot-op state of
// self/lhs/key, spec 4.4's "Dot-op state") is the evaluator's job once
// the handler returns, since only the evaluator knows which kind of
// lvalue produced the left operand. := and = are registered here purely
// so the stack machine recognizes their precedence and arity; their
// handler is the identity function, the new value to store being
// simply the right operand.
func identityAssign(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
	if skip {
		return value.Undefined(), nil
	}
	return args[1], nil
}

func init() {
	Register(&Op{
		Symbol: ":=", Token: lexer.DEFINE, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: identityAssign,
	})
	Register(&Op{
		Symbol: "=", Token: lexer.ASSIGN, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: identityAssign,
	})
	Register(&Op{
		Symbol: "+=", Token: lexer.PLUSEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
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
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'+=' requires numeric or string operands")
			}
			if isFloat {
				return e.NewDouble(af + bf), nil
			}
			return e.NewInt(ai + bi), nil
		},
	})
	Register(&Op{
		Symbol: "-=", Token: lexer.MINUSEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignArith("-=", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
	})
	Register(&Op{
		Symbol: "*=", Token: lexer.STAREQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignArith("*=", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
	})
	Register(&Op{
		Symbol: "/=", Token: lexer.SLASHEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			ai, bi, af, bf, isFloat, ok := numericOperands(args[0], args[1])
			if !ok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'/=' requires numeric operands")
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
		Symbol: "%=", Token: lexer.PERCENTEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			ai, bi, _, _, isFloat, ok := numericOperands(args[0], args[1])
			if !ok || isFloat {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'%%=' requires integer operands")
			}
			if bi == 0 {
				return nil, script.NewEngineError(script.DIV_BY_ZERO, script.Position{}, "division by zero")
			}
			return e.NewInt(ai % bi), nil
		},
	})
	Register(&Op{
		Symbol: "&=", Token: lexer.AMPEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignBitwise("&=", func(a, b int64) int64 { return a & b }),
	})
	Register(&Op{
		Symbol: "|=", Token: lexer.PIPEEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignBitwise("|=", func(a, b int64) int64 { return a | b }),
	})
	Register(&Op{
		Symbol: "^=", Token: lexer.CARETEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignBitwise("^=", func(a, b int64) int64 { return a ^ b }),
	})
	Register(&Op{
		Symbol: "<<=", Token: lexer.SHLEQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignBitwise("<<=", func(a, b int64) int64 { return a << uint64(b) }),
	})
	Register(&Op{
		Symbol: ">>=", Token: lexer.SHREQ, Arity: 2, Assoc: RightAssoc, Precedence: PrecAssign,
		Handler: assignBitwise(">>=", func(a, b int64) int64 { return a >> uint64(b) }),
	})
	Register(&Op{
		Symbol: "++", Token: lexer.INC, Arity: 1, Placement: Prefix, Precedence: PrecUnary,
		Handler: incDecHandler("++", 1),
	})
	Register(&Op{
		Symbol: "--", Token: lexer.DEC, Arity: 1, Placement: Prefix, Precedence: PrecUnary,
		Handler: incDecHandler("--", -1),
	})
}

func assignArith(sym string, op func(a, b int64) int64, fop func(a, b float64) float64) Handler {
	return func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
		if skip {
			return value.Undefined(), nil
		}
		ai, bi, af, bf, isFloat, ok := numericOperands(args[0], args[1])
		if !ok {
			return nil, script.NewEngineError(script.TYPE, script.Position{}, "'"+sym+"' requires numeric operands")
		}
		if isFloat {
			return e.NewDouble(fop(af, bf)), nil
		}
		return e.NewInt(op(ai, bi)), nil
	}
}

func assignBitwise(sym string, op func(a, b int64) int64) Handler {
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

func incDecHandler(sym string, delta int64) Handler {
	return func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
		if skip {
			return value.Undefined(), nil
		}
		n, ok := args[0].(value.NumericValue)
		if !ok {
			return nil, script.NewEngineError(script.TYPE, script.Position{}, "'"+sym+"' requires a numeric operand")
		}
		if _, isDouble := args[0].(*value.DoubleValue); isDouble {
			f, _ := n.AsDouble()
			return e.NewDouble(f + float64(delta)), nil
		}
		i, _ := n.AsInt()
		return e.NewInt(i + delta), nil
	}
}
