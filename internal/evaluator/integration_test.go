package evaluator

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEndToEndScenarios snapshots the final rendering of a handful of
// whole-program scenarios, the same way a prior implementation's fixture suite
// snapshots interpreter output rather than asserting on it field by
// field: these exercise the tokenizer, evaluator, scope GC, and
// exception machinery together instead of in isolation.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic", `var x = 1 + 2; x`},
		{"array_push_length", `var a = [1,2,3]; a.push(4); a.length()`},
		{"recursive_factorial", `proc f(n){ return n<=1 ? 1 : n*f(n-1); }; f(5)`},
		{"assert_failure_code", `catch { affirm 1==2 }.code`},
		{"heredoc_trimmed", "<<<EOF\nhello\nEOF"},
		{"heredoc_preserved", "<<<:EOF\n hello \nEOF"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := newTestEvaluator()
			v, err := ev.EvalScript(c.src)
			if err != nil {
				t.Fatalf("EvalScript(%q): %v", c.src, err)
			}
			snaps.MatchSnapshot(t, c.name, v.String())
		})
	}
}

// TestFactorialThrowStackDepth exercises scenario 4's other half: a
// deliberate throw partway through a recursive call chain carries a
// stack trace whose depth matches how many calls are still open.
func TestFactorialThrowStackDepth(t *testing.T) {
	ev := newTestEvaluator()
	src := `proc f(n){ if (n<=1) { throw "bottom"; } return n*f(n-1); }; f(5)`
	_, err := ev.EvalScript(src)
	if err == nil {
		t.Fatalf("EvalScript(%q): expected an uncaught-exception error", src)
	}
	if err.Code != script.EXCEPTION {
		t.Fatalf("err.Code = %v, want %v", err.Code, script.EXCEPTION)
	}

	const wantDepth = 5 // f(5),f(4),f(3),f(2),f(1) all still open when f(1) throws
	if len(err.StackTrace) != wantDepth {
		t.Fatalf("len(err.StackTrace) = %d, want %d (%+v)", len(err.StackTrace), wantDepth, err.StackTrace)
	}
	for _, frame := range err.StackTrace {
		if frame.Name != "f" {
			t.Fatalf("frame.Name = %q, want %q", frame.Name, "f")
		}
	}
}

// TestCyclicObjectFinalizedAfterVacuum exercises scenario 3: a
// self-referential object, once unreachable from any scope, is
// finalized by a vacuum pass rather than leaking.
func TestCyclicObjectFinalizedAfterVacuum(t *testing.T) {
	ev := newTestEvaluator()
	ev.Engine.SetCurrentScope(ev.Scope)

	if _, err := ev.EvalScript(`var o = {}; o.self = o;`); err != nil {
		t.Fatalf("EvalScript: %v", err)
	}

	v, _, ok := ev.Scope.Vars().GetByName("o")
	if !ok {
		t.Fatalf("variable %q not found", "o")
	}
	obj, ok := v.(*value.ObjectValue)
	if !ok {
		t.Fatalf("o is %T, want *value.ObjectValue", v)
	}

	if _, err := ev.EvalScript(`o = undefined;`); err != nil {
		t.Fatalf("EvalScript: %v", err)
	}

	ev.Scope.Sweep(ev.Engine)
	ev.Scope.Vacuum(ev.Engine)

	if !obj.Hdr().Finalized() {
		t.Fatalf("cyclic object was not finalized after vacuum")
	}
}
