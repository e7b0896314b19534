package value

import (
	"fmt"
	"strings"
)

// TupleValue is a fixed-size, index-only container: the one container
// kind with no property storage (spec 3.1), used for multi-value returns
// and destructuring.
type TupleValue struct {
	hdr   Header
	slots []Value
}

func newTuple(slots []Value) *TupleValue {
	return &TupleValue{slots: slots}
}

func (t *TupleValue) Kind() Kind   { return KindTuple }
func (t *TupleValue) Hdr() *Header { return &t.hdr }
func (t *TupleValue) Length() int64 { return int64(len(t.slots)) }
func (t *TupleValue) Slots() []Value { return t.slots }

func (t *TupleValue) String() string {
	parts := make([]string, len(t.slots))
	for i, s := range t.slots {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TupleValue) GetIndex(i int64) (Value, error) {
	if i < 0 || i >= int64(len(t.slots)) {
		return nil, fmt.Errorf("tuple index %d out of range [0,%d)", i, len(t.slots))
	}
	return t.slots[i], nil
}

func (t *TupleValue) SetIndex(i int64, v Value) error {
	if i < 0 || i >= int64(len(t.slots)) {
		return fmt.Errorf("tuple index %d out of range [0,%d)", i, len(t.slots))
	}
	t.slots[i] = v
	return nil
}
