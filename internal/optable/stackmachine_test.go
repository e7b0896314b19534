package optable

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// evalSimple drives "a op1 b op2 c" through the stack machine the way
// the evaluator would: push value, push operator, push value, push
// operator, push value, then Finish.
func evalSimple(t *testing.T, e *value.Engine, a value.Value, op1 lexer.TokenType, b value.Value, op2 lexer.TokenType, c value.Value) value.Value {
	t.Helper()
	m := NewStackMachine()
	m.PushValue(a)
	o1, ok := Lookup(op1)
	if !ok {
		t.Fatalf("no infix operator registered for %s", op1)
	}
	if err := m.PushOperator(e, o1); err != nil {
		t.Fatalf("push op1: %v", err)
	}
	m.PushValue(b)
	o2, ok := Lookup(op2)
	if !ok {
		t.Fatalf("no infix operator registered for %s", op2)
	}
	if err := m.PushOperator(e, o2); err != nil {
		t.Fatalf("push op2: %v", err)
	}
	m.PushValue(c)
	result, err := m.Finish(e)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return result
}

func TestStackMachinePrecedenceMultiplicationBeforeAddition(t *testing.T) {
	e := newTestEngine()
	// 2 + 3 * 4 should reduce as 2 + (3 * 4) = 14, not (2 + 3) * 4 = 20.
	result := evalSimple(t, e, e.NewInt(2), lexer.PLUS, e.NewInt(3), lexer.STAR, e.NewInt(4))
	i, ok := result.(*value.IntValue)
	if !ok || i.Val() != 14 {
		t.Fatalf("expected 14, got %v", result)
	}
}

func TestStackMachineLeftAssociativeSamePrecedence(t *testing.T) {
	e := newTestEngine()
	// 10 - 3 - 2 should reduce left-to-right: (10 - 3) - 2 = 5.
	result := evalSimple(t, e, e.NewInt(10), lexer.MINUS, e.NewInt(3), lexer.MINUS, e.NewInt(2))
	i, ok := result.(*value.IntValue)
	if !ok || i.Val() != 5 {
		t.Fatalf("expected 5, got %v", result)
	}
}

func TestStackMachineRightAssociativeAssignment(t *testing.T) {
	e := newTestEngine()
	// a := b := 5: with right associativity, := does not reduce the
	// prior := before pushing the second one; the identity-assign
	// handler just threads the rightmost value through.
	m := NewStackMachine()
	assignOp, _ := Lookup(lexer.DEFINE)
	m.PushValue(e.NewInt(1)) // placeholder "a" slot
	if err := m.PushOperator(e, assignOp); err != nil {
		t.Fatalf("push first :=: %v", err)
	}
	m.PushValue(e.NewInt(2)) // placeholder "b" slot
	if err := m.PushOperator(e, assignOp); err != nil {
		t.Fatalf("push second :=: %v", err)
	}
	m.PushValue(e.NewInt(5))
	result, err := m.Finish(e)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if i := result.(*value.IntValue); i.Val() != 5 {
		t.Fatalf("expected 5, got %v", result)
	}
}

func TestStackMachineSkipModeSuppressesSideEffects(t *testing.T) {
	e := newTestEngine()
	m := NewStackMachine()
	m.RaiseSkip()
	m.PushValue(e.NewInt(1))
	slash, _ := Lookup(lexer.SLASH)
	if err := m.PushOperator(e, slash); err != nil {
		t.Fatalf("push /: %v", err)
	}
	m.PushValue(e.NewInt(0)) // would divide by zero if not skipped
	result, err := m.Finish(e)
	if err != nil {
		t.Fatalf("expected skip mode to suppress the division-by-zero error: %v", err)
	}
	if _, ok := result.(*value.UndefinedValue); !ok {
		t.Fatalf("expected undefined under skip mode, got %v", result)
	}
}

func TestStackMachineMissingOperandIsSyntaxError(t *testing.T) {
	e := newTestEngine()
	m := NewStackMachine()
	plus, _ := Lookup(lexer.PLUS)
	m.PushValue(e.NewInt(1))
	if err := m.PushOperator(e, plus); err != nil {
		t.Fatalf("push +: %v", err)
	}
	// No second operand pushed.
	if _, err := m.Finish(e); err == nil {
		t.Fatalf("expected a syntax error for a missing operand")
	}
}

func TestStackMachineShortCircuitSuppressesRightOperandSideEffects(t *testing.T) {
	e := newTestEngine()
	m := NewStackMachine()

	m.PushValue(e.NewBool(false))
	and, _ := Lookup(lexer.AND)
	if err := m.PushOperator(e, and); err != nil {
		t.Fatalf("push &&: %v", err)
	}
	if !m.Skipping() {
		t.Fatalf("expected false && ... to raise skip for the right operand")
	}

	// The right operand is itself "1 / 0", which would error if actually
	// evaluated; under skip it must return undefined without error.
	m.PushValue(e.NewInt(1))
	slash, _ := Lookup(lexer.SLASH)
	if err := m.PushOperator(e, slash); err != nil {
		t.Fatalf("push /: %v", err)
	}
	m.PushValue(e.NewInt(0))

	result, err := m.Finish(e)
	if err != nil {
		t.Fatalf("expected short-circuited && to suppress the division-by-zero error: %v", err)
	}
	b, ok := result.(*value.BoolValue)
	if !ok || b.Val() {
		t.Fatalf("expected false && <dead> to evaluate to false, got %v", result)
	}
	if m.Skipping() {
		t.Fatalf("expected skip level restored to 0 after && completes")
	}
}
