package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Property-accessing and call/subscript operators (., ?., the call
// operator, and the subscript operator) are not registered here: each
// needs more than two already-reduced value operands (an unreduced
// identifier, a group-token argument list, or the dot-op state of spec
// 4.4's "self, lhs, key" publication) so the evaluator's driver
// recognizes and special-cases their tokens directly rather than
// routing them through the generic two-stack reduction. The ->, :: and
// .# tokens are lexed but are neither registered here nor handled by
// the evaluator, so no expression can use them. The ternary
// `a ? b : c` is likewise evaluator-special-cased, since it spans two
// delimiting tokens instead of one operator slot.
func init() {
	Register(&Op{
		Symbol: ",", Token: lexer.COMMA, Arity: 2, Precedence: PrecComma,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			return args[1], nil
		},
	})
	Register(&Op{
		Symbol: "..", Token: lexer.RANGE, Arity: 2, Precedence: PrecPrimary,
		Handler: func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError) {
			if skip {
				return value.Undefined(), nil
			}
			an, aok := args[0].(value.NumericValue)
			bn, bok := args[1].(value.NumericValue)
			if !aok || !bok {
				return nil, script.NewEngineError(script.TYPE, script.Position{}, "'..' requires numeric bounds")
			}
			lo, _ := an.AsInt()
			hi, _ := bn.AsInt()
			items := make([]value.Value, 0, hi-lo+1)
			for i := lo; i <= hi; i++ {
				items = append(items, e.NewInt(i))
			}
			return e.NewArray(items), nil
		},
	})
}
