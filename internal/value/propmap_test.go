package value

import "testing"

func TestPropMapIntStringKeyCollision(t *testing.T) {
	m := NewPropMap()
	if err := m.Set(&IntValue{n: 1}, &StringValue{s: "one"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _, ok := m.Get(&StringValue{s: "1"})
	if !ok {
		t.Fatalf("expected string key \"1\" to collide with int key 1")
	}
	if got.(*StringValue).s != "one" {
		t.Fatalf("got wrong value back: %v", got)
	}
	if m.Len() != 1 {
		t.Fatalf("expected exactly one entry, got %d", m.Len())
	}
}

func TestPropMapBoolKeyDoesNotCollide(t *testing.T) {
	m := NewPropMap()
	m.Set(&StringValue{s: "true"}, &IntValue{n: 1}, 0)
	if m.Has(&BoolValue{val: true}) {
		t.Fatalf("boolean key must never collide with string \"true\"")
	}
}

func TestPropMapRejectsBufferAndTupleKeys(t *testing.T) {
	m := NewPropMap()
	if err := m.Set(&BufferValue{}, &IntValue{n: 1}, 0); err == nil {
		t.Fatalf("expected error using a buffer as a property key")
	}
	if err := m.Set(&TupleValue{}, &IntValue{n: 1}, 0); err == nil {
		t.Fatalf("expected error using a tuple as a property key")
	}
}

func TestPropMapConstRejectsOverwriteAndUnset(t *testing.T) {
	m := NewPropMap()
	key := &StringValue{s: "x"}
	m.Set(key, &IntValue{n: 1}, PropConst)
	if err := m.Set(key, &IntValue{n: 2}, 0); err == nil {
		t.Fatalf("expected error overwriting a const property")
	}
	if _, err := m.Unset(key); err == nil {
		t.Fatalf("expected error unsetting a const property")
	}
}

func TestPropMapPreservesInsertionOrder(t *testing.T) {
	m := NewPropMap()
	m.SetByName("b", &IntValue{n: 2}, 0)
	m.SetByName("a", &IntValue{n: 1}, 0)
	m.SetByName("c", &IntValue{n: 3}, 0)
	keys := m.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	want := []string{"b", "a", "c"}
	for i, k := range keys {
		if k.(*StringValue).s != want[i] {
			t.Fatalf("order mismatch at %d: got %q want %q", i, k.(*StringValue).s, want[i])
		}
	}
}

func TestPropMapUnsetRemovesFromOrder(t *testing.T) {
	m := NewPropMap()
	m.SetByName("a", &IntValue{n: 1}, 0)
	m.SetByName("b", &IntValue{n: 2}, 0)
	m.Unset(&StringValue{s: "a"})
	if m.Has(&StringValue{s: "a"}) {
		t.Fatalf("expected key to be removed")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", m.Len())
	}
}
