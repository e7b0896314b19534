package value

import "fmt"

// PropFlag is one bit of the 16-bit per-entry flag word spec 3.1 requires
// on property storage.
type PropFlag uint16

const (
	PropConst PropFlag = 1 << iota
	PropHidden
	PropGetter
	PropSetter
	PropPreserve
)

// propEntry is one property-bag slot: the original (uncoerced) key value,
// the stored value, and its flag word.
type propEntry struct {
	key   Value
	val   Value
	flags PropFlag
}

// PropMap is the keyed property storage shared by every container kind
// capable of holding properties (all containers except tuple, per spec
// 3.1). It preserves insertion order the way a prior implementation's
// ident.Map-backed Environment does (slice of keys alongside a map),
// generalized here from case-insensitive string keys to the spec's
// type-loose key equivalence (integer 1 matches string "1"; booleans are
// compared strictly).
type PropMap struct {
	order   []string
	entries map[string]propEntry
}

// NewPropMap creates an empty property map.
func NewPropMap() *PropMap {
	return &PropMap{entries: make(map[string]propEntry)}
}

// canonicalKey converts a property key value into its lookup string,
// implementing spec 3.1's type-loose matching: integer and string keys
// that render to the same digits collide; boolean keys never collide with
// anything else. Buffers and tuples are rejected as keys because their
// equivalence would compare mutable content (spec 3.1).
func canonicalKey(key Value) (string, error) {
	switch k := key.(type) {
	case *IntValue:
		return k.String(), nil
	case *StringValue:
		return k.s, nil
	case *BoolValue:
		return "b:" + k.String(), nil
	case *DoubleValue:
		return k.String(), nil
	case *BufferValue:
		return "", fmt.Errorf("buffer is not usable as a property key")
	case *TupleValue:
		return "", fmt.Errorf("tuple is not usable as a property key")
	default:
		return "", fmt.Errorf("%s is not usable as a property key", key.Kind())
	}
}

// Get looks up key with spec 3.1's loose matching rules.
func (m *PropMap) Get(key Value) (Value, PropFlag, bool) {
	ck, err := canonicalKey(key)
	if err != nil {
		return nil, 0, false
	}
	e, ok := m.entries[ck]
	if !ok {
		return nil, 0, false
	}
	return e.val, e.flags, true
}

// GetByName is a convenience lookup for string property names, used
// pervasively by the evaluator's dot-operator handling.
func (m *PropMap) GetByName(name string) (Value, PropFlag, bool) {
	e, ok := m.entries[name]
	if !ok {
		return nil, 0, false
	}
	return e.val, e.flags, true
}

// Set inserts or overwrites a property. It returns an error if key is not
// usable as a property key, or if the existing entry is flagged const.
func (m *PropMap) Set(key, val Value, flags PropFlag) error {
	ck, err := canonicalKey(key)
	if err != nil {
		return err
	}
	if existing, ok := m.entries[ck]; ok {
		if existing.flags&PropConst != 0 {
			return fmt.Errorf("cannot assign to const property %q", ck)
		}
		existing.val = val
		existing.flags = flags
		m.entries[ck] = existing
		return nil
	}
	m.order = append(m.order, ck)
	m.entries[ck] = propEntry{key: key, val: val, flags: flags}
	return nil
}

// SetByName is the string-keyed convenience form of Set.
func (m *PropMap) SetByName(name string, val Value, flags PropFlag) error {
	return m.Set(&StringValue{s: name}, val, flags)
}

// Unset removes a property. Returns false if it did not exist, or an error
// if it exists but is const.
func (m *PropMap) Unset(key Value) (bool, error) {
	ck, err := canonicalKey(key)
	if err != nil {
		return false, err
	}
	e, ok := m.entries[ck]
	if !ok {
		return false, nil
	}
	if e.flags&PropConst != 0 {
		return false, fmt.Errorf("cannot unset const property %q", ck)
	}
	delete(m.entries, ck)
	for i, k := range m.order {
		if k == ck {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Has reports whether key is present.
func (m *PropMap) Has(key Value) bool {
	ck, err := canonicalKey(key)
	if err != nil {
		return false
	}
	_, ok := m.entries[ck]
	return ok
}

// Len returns the number of properties.
func (m *PropMap) Len() int { return len(m.order) }

// Range iterates properties in insertion order. Returning false from f
// stops the iteration early.
func (m *PropMap) Range(f func(key, val Value, flags PropFlag) bool) {
	for _, ck := range m.order {
		e := m.entries[ck]
		if !f(e.key, e.val, e.flags) {
			return
		}
	}
}

// Keys returns the property keys in insertion order.
func (m *PropMap) Keys() []Value {
	out := make([]Value, 0, len(m.order))
	for _, ck := range m.order {
		out = append(out, m.entries[ck].key)
	}
	return out
}
