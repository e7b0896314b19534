package evaluator

import "testing"

func TestIfElseChain(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{`var x = 1; if (x == 1) { x = 10 } else { x = 20 } x`, 10},
		{`var x = 2; if (x == 1) { x = 10 } else { x = 20 } x`, 20},
		{`var x = 3; if (x == 1) { x = 10 } else if (x == 3) { x = 30 } else { x = 20 } x`, 30},
		{`var y = 0; if (1) { y = 1 } else { y = 99 } y`, 1},
	}
	for _, tt := range tests {
		if got := mustEvalInt(t, tt.input); got != tt.expected {
			t.Errorf("%q = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestIfUntakenBranchNeverRuns(t *testing.T) {
	src := `var y = 0; if (0) { y = 1 } else { y = y + 1 } y`
	if got := mustEvalInt(t, src); got != 1 {
		t.Errorf("y = %d, want 1", got)
	}
	// the dead `else` branch must never assign 99 to z.
	src2 := `var z = 0; if (1) { z = 1 } else { z = 99 } z`
	if got := mustEvalInt(t, src2); got != 1 {
		t.Errorf("z = %d, want 1", got)
	}
}

func TestWhileLoop(t *testing.T) {
	src := `var i = 0; var sum = 0; while (i < 5) { sum = sum + i; i = i + 1 } sum`
	if got := mustEvalInt(t, src); got != 10 {
		t.Errorf("sum = %d, want 10", got)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	src := `var i = 0; var sum = 0; while (i < 10) { i = i + 1; if (i == 5) { continue } if (i == 8) { break } sum = sum + i } sum`
	// i runs 1..7, skipping the add at i==5 (continue) and stopping before
	// the add at i==8 (break): 1+2+3+4+6+7 = 23.
	if got := mustEvalInt(t, src); got != 23 {
		t.Errorf("sum = %d, want 23", got)
	}
}

func TestDoWhileRunsAtLeastOnce(t *testing.T) {
	src := `var i = 0; do { i = i + 1 } while (i < 0) i`
	if got := mustEvalInt(t, src); got != 1 {
		t.Errorf("i = %d, want 1", got)
	}
}

func TestForLoop(t *testing.T) {
	src := `var sum = 0; for (var i = 0; i < 5; i = i + 1) { sum = sum + i } sum`
	if got := mustEvalInt(t, src); got != 10 {
		t.Errorf("sum = %d, want 10", got)
	}
}

func TestForeachArray(t *testing.T) {
	src := `var a = [1, 2, 3]; var sum = 0; foreach (v in a) { sum = sum + v } sum`
	if got := mustEvalInt(t, src); got != 6 {
		t.Errorf("sum = %d, want 6", got)
	}
}

func TestForeachKeyValue(t *testing.T) {
	src := `var a = [10, 20, 30]; var sum = 0; foreach (k, v in a) { sum = sum + k } sum`
	if got := mustEvalInt(t, src); got != 3 {
		t.Errorf("sum = %d, want 3", got)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	src := `proc add(a, b) { return a + b } add(3, 4)`
	if got := mustEvalInt(t, src); got != 7 {
		t.Errorf("add(3,4) = %d, want 7", got)
	}
}

func TestFunctionClosure(t *testing.T) {
	src := `proc makeCounter() { var n = 0; return proc() { n = n + 1; return n } } var c = makeCounter(); c(); c(); c()`
	if got := mustEvalInt(t, src); got != 3 {
		t.Errorf("counter = %d, want 3", got)
	}
}

func TestFunctionDefaultParam(t *testing.T) {
	src := `proc greet(times = 3) { return times } greet()`
	if got := mustEvalInt(t, src); got != 3 {
		t.Errorf("greet() = %d, want 3", got)
	}
}

func TestTryCatch(t *testing.T) {
	src := `var caught = 0; try { throw 42 } catch (e) { caught = e.value } caught`
	if got := mustEvalInt(t, src); got != 42 {
		t.Errorf("caught = %d, want 42", got)
	}
}

func TestTryFinallyAlwaysRuns(t *testing.T) {
	src := `var ran = 0; try { throw 1 } catch (e) {} finally { ran = 1 } ran`
	if got := mustEvalInt(t, src); got != 1 {
		t.Errorf("ran = %d, want 1", got)
	}
}

func TestAssertRaisesCatchableException(t *testing.T) {
	src := `var code = ""; try { assert 1 == 2 } catch (e) { code = e.code } code`
	if got := mustEvalString(t, src); got != "ASSERT" {
		t.Errorf("code = %q, want ASSERT", got)
	}
}

func TestClassWithMethodAndField(t *testing.T) {
	src := `
class Point {
  var x = 0
  proc sum() { return this.x }
}
var p = new Point()
p.x = 5
p.sum()
`
	if got := mustEvalInt(t, src); got != 5 {
		t.Errorf("p.sum() = %d, want 5", got)
	}
}

func TestEnumConsecutiveValues(t *testing.T) {
	src := `enum Color { Red, Green, Blue } Color.Blue`
	if got := mustEvalInt(t, src); got != 2 {
		t.Errorf("Color.Blue = %d, want 2", got)
	}
}

func TestEnumExplicitReset(t *testing.T) {
	src := `enum Code { A = 10, B, C = 20 } Code.B`
	if got := mustEvalInt(t, src); got != 11 {
		t.Errorf("Code.B = %d, want 11", got)
	}
}

func TestScopeBlockIsolatesDeclarations(t *testing.T) {
	src := `var x = 1; scope { var x = 99 } x`
	if got := mustEvalInt(t, src); got != 1 {
		t.Errorf("x = %d, want 1 (scope block leaked)", got)
	}
}

func TestVarMultipleDeclarators(t *testing.T) {
	src := `var a = 1, b = 2; a + b`
	if got := mustEvalInt(t, src); got != 3 {
		t.Errorf("a + b = %d, want 3", got)
	}
}
