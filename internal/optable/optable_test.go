package optable

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/value"
)

func newTestEngine() *value.Engine { return value.NewEngine(value.Options{}) }

func TestMinusRegistersBothInfixAndPrefix(t *testing.T) {
	infix, ok := Lookup(lexer.MINUS)
	if !ok || infix.Arity != 2 || infix.Placement != Infix {
		t.Fatalf("expected infix '-' in the infix table, got %+v ok=%v", infix, ok)
	}
	prefix, ok := LookupPrefix(lexer.MINUS)
	if !ok || prefix.Arity != 1 || prefix.Placement != Prefix {
		t.Fatalf("expected prefix '-u' in the prefix table, got %+v ok=%v", prefix, ok)
	}
}

func TestArithmeticIntPromotesToFloat(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.PLUS)
	result, eerr := op.Handler(e, []value.Value{e.NewInt(2), e.NewDouble(1.5)}, false)
	if eerr != nil {
		t.Fatalf("unexpected error: %v", eerr)
	}
	d, ok := result.(*value.DoubleValue)
	if !ok || d.Val() != 3.5 {
		t.Fatalf("expected 3.5 (float promotion), got %v", result)
	}
}

func TestArithmeticIntStaysInt(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.PLUS)
	result, eerr := op.Handler(e, []value.Value{e.NewInt(2), e.NewInt(3)}, false)
	if eerr != nil {
		t.Fatalf("unexpected error: %v", eerr)
	}
	i, ok := result.(*value.IntValue)
	if !ok || i.Val() != 5 {
		t.Fatalf("expected int 5, got %v", result)
	}
}

func TestStringConcatenation(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.PLUS)
	result, eerr := op.Handler(e, []value.Value{e.NewString("foo"), e.NewString("bar")}, false)
	if eerr != nil {
		t.Fatalf("unexpected error: %v", eerr)
	}
	s, ok := result.(*value.StringValue)
	if !ok || s.Val() != "foobar" {
		t.Fatalf("expected foobar, got %v", result)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.SLASH)
	_, eerr := op.Handler(e, []value.Value{e.NewInt(1), e.NewInt(0)}, false)
	if eerr == nil {
		t.Fatalf("expected division-by-zero error")
	}
}

func TestSkipModeReturnsUndefinedWithoutError(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.SLASH)
	result, eerr := op.Handler(e, []value.Value{e.NewInt(1), e.NewInt(0)}, true)
	if eerr != nil {
		t.Fatalf("skip mode must not produce an error even for a would-be division by zero: %v", eerr)
	}
	if _, ok := result.(*value.UndefinedValue); !ok {
		t.Fatalf("expected undefined in skip mode, got %v", result)
	}
}

func TestComparisonOperators(t *testing.T) {
	e := newTestEngine()
	lt, _ := Lookup(lexer.LT)
	result, eerr := lt.Handler(e, []value.Value{e.NewInt(1), e.NewInt(2)}, false)
	if eerr != nil {
		t.Fatalf("unexpected error: %v", eerr)
	}
	b, ok := result.(*value.BoolValue)
	if !ok || !b.Val() {
		t.Fatalf("expected true, got %v", result)
	}
}

func TestStrictEqualityRejectsCrossKind(t *testing.T) {
	e := newTestEngine()
	loose, _ := Lookup(lexer.EQ)
	strict, _ := Lookup(lexer.EQ3)

	looseResult, _ := loose.Handler(e, []value.Value{e.NewInt(1), e.NewInt(1)}, false)
	if b := looseResult.(*value.BoolValue); !b.Val() {
		t.Fatalf("expected 1 == 1 to be true")
	}

	strictResult, _ := strict.Handler(e, []value.Value{e.NewInt(1), e.NewString("1")}, false)
	if b := strictResult.(*value.BoolValue); b.Val() {
		t.Fatalf("expected 1 === \"1\" to be false")
	}
}

func TestLogicalAndOr(t *testing.T) {
	e := newTestEngine()
	and, _ := Lookup(lexer.AND)
	or, _ := Lookup(lexer.OR)

	r, _ := and.Handler(e, []value.Value{e.NewBool(true), e.NewBool(false)}, false)
	if r.(*value.BoolValue).Val() {
		t.Fatalf("expected true && false to be false")
	}
	r, _ = or.Handler(e, []value.Value{e.NewBool(false), e.NewBool(true)}, false)
	if !r.(*value.BoolValue).Val() {
		t.Fatalf("expected false || true to be true")
	}
}

func TestNullishCoalescing(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.OROR_OR)

	r, _ := op.Handler(e, []value.Value{value.Undefined(), e.NewInt(5)}, false)
	if i := r.(*value.IntValue); i.Val() != 5 {
		t.Fatalf("expected undefined ||| 5 to be 5, got %v", r)
	}
	r, _ = op.Handler(e, []value.Value{e.NewInt(0), e.NewInt(5)}, false)
	if i := r.(*value.IntValue); i.Val() != 0 {
		t.Fatalf("expected 0 ||| 5 to keep the falsy-but-present 0, got %v", r)
	}
}

func TestElvisOperator(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.ELVIS)

	r, _ := op.Handler(e, []value.Value{e.NewInt(0), e.NewInt(9)}, false)
	if i := r.(*value.IntValue); i.Val() != 9 {
		t.Fatalf("expected falsy 0 ?: 9 to be 9, got %v", r)
	}
}

func TestBitwiseRejectsFloat(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.AMP)
	_, eerr := op.Handler(e, []value.Value{e.NewDouble(1.5), e.NewInt(2)}, false)
	if eerr == nil {
		t.Fatalf("expected bitwise '&' to reject a float operand")
	}
}

func TestShiftOperators(t *testing.T) {
	e := newTestEngine()
	shl, _ := Lookup(lexer.SHL)
	r, _ := shl.Handler(e, []value.Value{e.NewInt(1), e.NewInt(4)}, false)
	if i := r.(*value.IntValue); i.Val() != 16 {
		t.Fatalf("expected 1 << 4 == 16, got %v", r)
	}
}

func TestUnaryMinusAndNot(t *testing.T) {
	e := newTestEngine()
	neg, _ := LookupPrefix(lexer.MINUS)
	r, _ := neg.Handler(e, []value.Value{e.NewInt(5)}, false)
	if i := r.(*value.IntValue); i.Val() != -5 {
		t.Fatalf("expected -5, got %v", r)
	}

	not, _ := LookupPrefix(lexer.BANG)
	r, _ = not.Handler(e, []value.Value{e.NewBool(true)}, false)
	if b := r.(*value.BoolValue); b.Val() {
		t.Fatalf("expected !true to be false")
	}
}

func TestIncDec(t *testing.T) {
	e := newTestEngine()
	inc, _ := LookupPrefix(lexer.INC)
	r, _ := inc.Handler(e, []value.Value{e.NewInt(1)}, false)
	if i := r.(*value.IntValue); i.Val() != 2 {
		t.Fatalf("expected ++1 == 2, got %v", r)
	}
}

func TestCompoundAssignComputesNewValue(t *testing.T) {
	e := newTestEngine()
	plusEq, _ := Lookup(lexer.PLUSEQ)
	r, _ := plusEq.Handler(e, []value.Value{e.NewInt(10), e.NewInt(5)}, false)
	if i := r.(*value.IntValue); i.Val() != 15 {
		t.Fatalf("expected 10 += 5 to compute 15, got %v", r)
	}
}

func TestPrecedenceOfUnregisteredTokenIsLowest(t *testing.T) {
	if PrecedenceOf(lexer.IDENT) != PrecComma {
		t.Fatalf("expected unregistered token to report PrecComma (lowest)")
	}
}

func TestRangeOperatorBuildsArray(t *testing.T) {
	e := newTestEngine()
	op, _ := Lookup(lexer.RANGE)
	r, eerr := op.Handler(e, []value.Value{e.NewInt(1), e.NewInt(3)}, false)
	if eerr != nil {
		t.Fatalf("unexpected error: %v", eerr)
	}
	arr, ok := r.(*value.ArrayValue)
	if !ok || arr.Length() != 3 {
		t.Fatalf("expected a 3-element array, got %v", r)
	}
}
