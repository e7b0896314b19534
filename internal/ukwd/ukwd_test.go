package ukwd

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/value"
)

func TestRegisterRejectsNullish(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Register("greet", value.Undefined()); err == nil {
		t.Fatal("expected error registering undefined value")
	}
	if err := tbl.Register("greet", value.Null()); err == nil {
		t.Fatal("expected error registering null value")
	}
}

func TestRegisterRejectsReservedKeyword(t *testing.T) {
	tbl := NewTable()
	engine := value.NewEngine(value.Options{})
	if err := tbl.Register("if", engine.NewInt(1)); err == nil {
		t.Fatal("expected error registering a reserved keyword name")
	}
}

func TestRegisterRejectsInvalidIdent(t *testing.T) {
	tbl := NewTable()
	engine := value.NewEngine(value.Options{})
	if err := tbl.Register("123bad", engine.NewInt(1)); err == nil {
		t.Fatal("expected error registering an invalid identifier")
	}
	if err := tbl.Register("", engine.NewInt(1)); err == nil {
		t.Fatal("expected error registering an empty name")
	}
}

func TestRegisterAndLookup(t *testing.T) {
	tbl := NewTable()
	engine := value.NewEngine(value.Options{})
	v := engine.NewInt(42)
	if err := tbl.Register("answer", v); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, ok := tbl.Lookup("answer")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if got != v {
		t.Error("looked-up value does not match registered value")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	tbl := NewTable()
	engine := value.NewEngine(value.Options{})
	if err := tbl.Register("dup", engine.NewInt(1)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := tbl.Register("dup", engine.NewInt(2)); err == nil {
		t.Fatal("expected error re-registering the same name")
	}
}

func TestShortlistForLength(t *testing.T) {
	tbl := NewTable()
	engine := value.NewEngine(value.Options{})
	names := []string{"foo", "bar", "abcd"}
	for _, n := range names {
		if err := tbl.Register(n, engine.NewInt(1)); err != nil {
			t.Fatalf("Register(%q): %v", n, err)
		}
	}
	three := tbl.ShortlistForLength(3)
	if len(three) != 2 {
		t.Fatalf("ShortlistForLength(3) = %v, want 2 entries", three)
	}
	if three[0] != "bar" || three[1] != "foo" {
		t.Errorf("ShortlistForLength(3) = %v, want sorted [bar foo]", three)
	}
	four := tbl.ShortlistForLength(4)
	if len(four) != 1 || four[0] != "abcd" {
		t.Errorf("ShortlistForLength(4) = %v, want [abcd]", four)
	}
}

func TestNilTableIsSafe(t *testing.T) {
	var tbl *Table
	if _, ok := tbl.Lookup("anything"); ok {
		t.Error("nil table should never report a hit")
	}
	if got := tbl.ShortlistForLength(3); got != nil {
		t.Error("nil table's shortlist should be nil")
	}
	if tbl.Len() != 0 {
		t.Error("nil table's length should be 0")
	}
}
