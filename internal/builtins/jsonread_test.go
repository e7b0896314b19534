package builtins

import (
	"testing"

	"github.com/cwscript-lang/cwscript/internal/value"
)

func TestFromJSONPrimitives(t *testing.T) {
	e := value.NewEngine(value.Options{})

	v, err := FromJSON(e, `{"name":"ada","age":36,"active":true,"tags":["x","y"]}`)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	obj, ok := v.(*value.ObjectValue)
	if !ok {
		t.Fatalf("FromJSON returned %T, want *value.ObjectValue", v)
	}
	name, _, ok := obj.Props().GetByName("name")
	if !ok || name.String() != "ada" {
		t.Errorf("name = %v, want ada", name)
	}
	age, _, ok := obj.Props().GetByName("age")
	if !ok {
		t.Fatal("age property missing")
	}
	if _, isInt := age.(*value.IntValue); !isInt {
		t.Errorf("age = %T, want *value.IntValue", age)
	}
	tags, _, ok := obj.Props().GetByName("tags")
	if !ok {
		t.Fatal("tags property missing")
	}
	arr, ok := tags.(*value.ArrayValue)
	if !ok || arr.Length() != 2 {
		t.Errorf("tags = %v, want a 2-element array", tags)
	}
}

func TestFromJSONInvalid(t *testing.T) {
	e := value.NewEngine(value.Options{})
	if _, err := FromJSON(e, `{not valid`); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	e := value.NewEngine(value.Options{})
	orig := `{"a":1,"b":"two","c":[1,2,3]}`
	v, err := FromJSON(e, orig)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	out, err := ToJSON(v)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(e, out)
	if err != nil {
		t.Fatalf("FromJSON(ToJSON(...)): %v, doc was %q", err, out)
	}
	obj, ok := back.(*value.ObjectValue)
	if !ok {
		t.Fatalf("round trip result is %T, want *value.ObjectValue", back)
	}
	a, _, ok := obj.Props().GetByName("a")
	if !ok || a.String() != "1" {
		t.Errorf("a = %v, want 1", a)
	}
}

func TestToJSONRejectsCycles(t *testing.T) {
	e := value.NewEngine(value.Options{})
	obj := e.NewObject(nil)
	obj.Props().SetByName("self", obj, 0)
	if _, err := ToJSON(obj); err == nil {
		t.Fatal("expected an error serializing a cyclic object")
	}
}
