package evaluator

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/scope"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

func newTestEvaluator() *Evaluator {
	engine := value.NewEngine(value.Options{})
	root := scope.NewRoot()
	return New(engine, root, "test.cws")
}

func mustEvalInt(t *testing.T, src string) int64 {
	t.Helper()
	ev := newTestEvaluator()
	v, err := ev.EvalScript(src)
	if err != nil {
		t.Fatalf("EvalScript(%q): %v", src, err)
	}
	nv, ok := v.(value.NumericValue)
	if !ok {
		t.Fatalf("EvalScript(%q) = %v (kind %s), want numeric", src, v, v.Kind())
	}
	n, _ := nv.AsInt()
	return n
}

func mustEvalString(t *testing.T, src string) string {
	t.Helper()
	ev := newTestEvaluator()
	v, err := ev.EvalScript(src)
	if err != nil {
		t.Fatalf("EvalScript(%q): %v", src, err)
	}
	return v.String()
}

func mustEvalErr(t *testing.T, src string) *script.EngineError {
	t.Helper()
	ev := newTestEvaluator()
	_, err := ev.EvalScript(src)
	if err == nil {
		t.Fatalf("EvalScript(%q): expected error, got none", src)
	}
	return err
}
