package optable

import (
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// StackMachine is the two-stack reduction engine described in spec 4.4:
// a value stack and an operator stack. The driver (internal/evaluator)
// pushes operand values as it reads them and pushes operators as it
// reads them; PushOperator reduces any higher-or-equal-precedence
// left-associative (or higher-precedence right-associative) top-of-ops
// entry before installing the incoming operator, exactly mirroring a
// classic precedence-climbing shunting-yard pass. Reductions pop
// exactly Arity value-stack entries, invoke the handler, and push the
// result back as a single value.
//
// Grounded in shape on a prior implementation's Pratt-parser precedence loop
// (internal/parser/parser.go's parseExpression/getPrecedence), adapted
// from "decide which parse function to call next" into "decide which
// pending operator to reduce next" since this engine never builds an
// AST node for the reduced result, only a value.
type StackMachine struct {
	values []value.Value
	ops    []*Op
	// opSkipRaised parallels ops: records whether installing the
	// operator at that stack position raised the skip level, so
	// reduceTop can lower it again exactly when that operator reduces
	// (spec 4.4's "the evaluator restores skip-level after the operator
	// completes").
	opSkipRaised []bool
	skip         int
}

// NewStackMachine returns an empty machine ready for one expression.
func NewStackMachine() *StackMachine {
	return &StackMachine{}
}

// PushValue pushes an already-evaluated operand.
func (m *StackMachine) PushValue(v value.Value) { m.values = append(m.values, v) }

// RaiseSkip increments the skip-level counter (spec 4.4's
// "Short-circuiting"); while positive, every handler invoked through
// this machine runs in skip mode (no side effects, returns undefined).
func (m *StackMachine) RaiseSkip() { m.skip++ }

// LowerSkip decrements the skip-level counter. It is a no-op once the
// counter reaches zero, so mismatched restores never go negative.
func (m *StackMachine) LowerSkip() {
	if m.skip > 0 {
		m.skip--
	}
}

// Skipping reports whether the machine is currently in skip mode.
func (m *StackMachine) Skipping() bool { return m.skip > 0 }

// top returns the operator stack's top entry, or nil if empty.
func (m *StackMachine) top() *Op {
	if len(m.ops) == 0 {
		return nil
	}
	return m.ops[len(m.ops)-1]
}

// shouldReduceBefore reports whether the operator currently on top of
// the operator stack must be reduced before incoming can be pushed,
// per spec 4.4's "higher-or-equal-precedence left-associative (or
// higher-precedence right-associative)" rule.
func shouldReduceBefore(top, incoming *Op) bool {
	if top.Precedence > incoming.Precedence {
		return true
	}
	if top.Precedence == incoming.Precedence && incoming.Assoc == LeftAssoc {
		return true
	}
	return false
}

// TopValue returns the value currently on top of the value stack
// without popping it, or (nil, false) if the stack is empty. Used by
// PushOperator to test a short-circuit operator's already-reduced left
// operand.
func (m *StackMachine) TopValue() (value.Value, bool) {
	if len(m.values) == 0 {
		return nil, false
	}
	return m.values[len(m.values)-1], true
}

// PushOperator reduces any pending higher-priority operator, then
// pushes op onto the operator stack. If op is a short-circuit operator
// whose ShortCircuitTest reports the right operand is dead, raises the
// skip level for exactly the span until op itself reduces.
func (m *StackMachine) PushOperator(e *value.Engine, op *Op) *script.EngineError {
	for {
		top := m.top()
		if top == nil || !shouldReduceBefore(top, op) {
			break
		}
		if err := m.reduceTop(e); err != nil {
			return err
		}
	}

	raised := false
	if op.ShortCircuit && op.ShortCircuitTest != nil {
		if lhs, ok := m.TopValue(); ok && op.ShortCircuitTest(lhs) {
			m.RaiseSkip()
			raised = true
		}
	}
	m.ops = append(m.ops, op)
	m.opSkipRaised = append(m.opSkipRaised, raised)
	return nil
}

// reduceTop pops the top operator and exactly its Arity operands,
// invokes its handler, and pushes the result. If this operator itself
// raised the skip level (it short-circuited its right operand), that
// level is restored before the operator's own handler runs: the right
// operand's nested evaluation is what must be suppressed, not the
// short-circuiting operator's own combination of the already-computed
// operands (spec 4.4: "the evaluator restores skip-level after the
// operator completes" evaluating its operand, not after itself runs).
func (m *StackMachine) reduceTop(e *value.Engine) *script.EngineError {
	op := m.ops[len(m.ops)-1]
	m.ops = m.ops[:len(m.ops)-1]
	raised := m.opSkipRaised[len(m.opSkipRaised)-1]
	m.opSkipRaised = m.opSkipRaised[:len(m.opSkipRaised)-1]
	if raised {
		m.LowerSkip()
	}

	if len(m.values) < op.Arity {
		return script.NewEngineError(script.SYNTAX, script.Position{}, "operator %q missing operand", op.Symbol)
	}
	args := m.values[len(m.values)-op.Arity:]
	m.values = m.values[:len(m.values)-op.Arity]

	var result value.Value
	var err *script.EngineError
	handled := false
	if op.Overloadable && OverloadResolver != nil {
		result, handled, err = OverloadResolver(e, op.Symbol, args, m.Skipping())
	}
	if !handled {
		result, err = op.Handler(e, args, m.Skipping())
	}
	if err != nil {
		return err
	}
	m.values = append(m.values, result)
	return nil
}

// Finish reduces every remaining operator and returns the single
// surviving value. Called at EOX/EOF/closing-group, spec 4.5's
// eval_expr driver termination.
func (m *StackMachine) Finish(e *value.Engine) (value.Value, *script.EngineError) {
	for len(m.ops) > 0 {
		if err := m.reduceTop(e); err != nil {
			return nil, err
		}
	}
	if len(m.values) != 1 {
		return nil, script.NewEngineError(script.SYNTAX, script.Position{}, "expression did not reduce to a single value")
	}
	return m.values[0], nil
}
