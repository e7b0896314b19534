// Package optable implements the static operator table and two-stack
// shunting-style stack machine described in spec 4.4.
//
// Grounded on a prior implementation's internal/parser/parser.go precedence ladder
// (const-iota precedence levels plus a map[lexer.TokenType]int), adapted
// from a Pratt-parser precedence table (which only ever orders prefix/
// infix parse function dispatch) into a full operator descriptor table
// driving an explicit two-stack reduction machine, since this engine has
// no AST to build (spec's "not a bytecode VM" non-goal; see the
// evaluator package's doc comment for the token-stream-driven design).
package optable

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Assoc is an operator's associativity.
type Assoc uint8

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// Placement distinguishes where an operator may appear relative to its
// operands.
type Placement uint8

const (
	Infix Placement = iota
	Prefix
	Postfix
)

// Precedence levels, classic C-family ladder (spec 4.4), lowest to
// highest: comma < assignment < ternary < logical-or < logical-and <
// bitwise-or < bitwise-xor < bitwise-and < equality < relational <
// shift < additive < multiplicative < unary < primary.
const (
	_ int = iota
	PrecComma
	PrecAssign
	PrecTernary
	PrecLogicalOr
	PrecLogicalAnd
	PrecBitwiseOr
	PrecBitwiseXor
	PrecBitwiseAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPrimary
)

// Handler implements one operator's runtime behavior. args holds exactly
// Arity operands in source order. When skip is true (the engine's skip
// level is nonzero, spec 4.4 point 2) the handler must perform no side
// effects and return undefined. e provides allocation for the result.
type Handler func(e *value.Engine, args []value.Value, skip bool) (value.Value, *script.EngineError)

// Op is one operator table entry (spec 4.4's "static array keyed by
// operator id").
type Op struct {
	Symbol     string
	Token      lexer.TokenType
	Arity      int
	Assoc      Assoc
	Precedence int
	Placement  Placement
	Handler    Handler
	// ShortCircuit marks operators whose right operand's evaluation
	// depends on the left (||, &&, ?:), which the stack machine uses
	// to raise the skip-level counter (spec 4.4's
	// "Short-circuiting").
	ShortCircuit bool
	// ShortCircuitTest reports, given the already-reduced left operand,
	// whether the right operand is dead and should be evaluated under
	// skip. Only consulted when ShortCircuit is true. The stack
	// machine raises skip for exactly the span between this operator
	// being pushed and being reduced, which by shunting-yard precedence
	// rules is exactly its right-hand operand.
	ShortCircuitTest func(lhs value.Value) bool
	// Overloadable marks arithmetic/comparison operators eligible for
	// spec 4.4's "Overloading": reduceTop offers OverloadResolver first
	// and only falls back to Handler if it declines.
	Overloadable bool
}

// OverloadResolver, when non-nil, is consulted by reduceTop before an
// Overloadable operator's own Handler runs, so the evaluator package can
// dispatch arithmetic/comparison operators to a prototype-chain method
// (spec 4.4's "Overloading") without this package importing the
// evaluator. Installed once, by the evaluator package's init, the same
// registration-hook shape database/sql drivers use to avoid a driver
// package depending on database/sql's callers.
var OverloadResolver func(e *value.Engine, symbol string, args []value.Value, skip bool) (result value.Value, handled bool, err *script.EngineError)

// Operators are split into two tables keyed by token: a prefix table
// and an infix/postfix table. A single token (e.g. MINUS) can name both
// a binary operator and a unary one, so one map keyed purely by token
// cannot hold both without the later Register silently clobbering the
// earlier one; the stack machine always knows from its own parse state
// ("expecting an operand" vs. "expecting an operator") which table to
// consult, so the split costs it nothing.
var infixTable = map[lexer.TokenType]*Op{}
var prefixTable = map[lexer.TokenType]*Op{}

// Register installs an operator descriptor into the prefix or infix/
// postfix table according to its Placement. Called from init() in
// ops_arith.go/ops_compare.go/etc. so each operator family's handlers
// live beside their own file, matching a prior implementation's one-concern-per-
// file test/source layout.
func Register(op *Op) {
	if op.Placement == Prefix {
		prefixTable[op.Token] = op
		return
	}
	infixTable[op.Token] = op
}

// Lookup returns the infix/postfix operator descriptor for tok, or
// (nil, false) if tok does not name one (e.g. a literal, identifier, or
// prefix-only token).
func Lookup(tok lexer.TokenType) (*Op, bool) {
	op, ok := infixTable[tok]
	return op, ok
}

// LookupPrefix returns the prefix operator descriptor for tok, or
// (nil, false) if tok does not name one.
func LookupPrefix(tok lexer.TokenType) (*Op, bool) {
	op, ok := prefixTable[tok]
	return op, ok
}

// PrecedenceOf returns tok's infix precedence, or PrecComma (the
// lowest) if tok is not an infix/postfix operator — mirroring the
// teacher's getPrecedence's "LOWEST if not found" fallback so an
// unrecognized token simply stops further reduction instead of
// erroring.
func PrecedenceOf(tok lexer.TokenType) int {
	if op, ok := infixTable[tok]; ok {
		return op.Precedence
	}
	return PrecComma
}
