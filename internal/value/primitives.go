package value

import (
	"fmt"
	"math"
	"strconv"
)

// UndefinedValue is the single "no value" marker.
type UndefinedValue struct{ hdr Header }

func (v *UndefinedValue) Kind() Kind    { return KindUndefined }
func (v *UndefinedValue) String() string { return "undefined" }
func (v *UndefinedValue) Hdr() *Header  { return &v.hdr }

// NullValue is the single "explicitly no object" marker, distinct from
// undefined per spec 3.1.
type NullValue struct{ hdr Header }

func (v *NullValue) Kind() Kind    { return KindNull }
func (v *NullValue) String() string { return "null" }
func (v *NullValue) Hdr() *Header  { return &v.hdr }

// BoolValue holds a boolean. Every BoolValue in practice is one of the two
// shared builtin singletons (see builtins.go); the type still carries a
// Header so it satisfies Refcounted uniformly with the other kinds.
type BoolValue struct {
	hdr Header
	val bool
}

func (v *BoolValue) Kind() Kind    { return KindBool }
func (v *BoolValue) String() string { return strconv.FormatBool(v.val) }
func (v *BoolValue) Hdr() *Header  { return &v.hdr }
func (v *BoolValue) Val() bool     { return v.val }

func (v *BoolValue) AsInt() (int64, bool) {
	if v.val {
		return 1, true
	}
	return 0, true
}
func (v *BoolValue) AsDouble() (float64, bool) {
	n, _ := v.AsInt()
	return float64(n), true
}

// IntValue holds a 64-bit signed integer.
type IntValue struct {
	hdr Header
	n   int64
}

func (v *IntValue) Kind() Kind    { return KindInt }
func (v *IntValue) String() string { return strconv.FormatInt(v.n, 10) }
func (v *IntValue) Hdr() *Header  { return &v.hdr }
func (v *IntValue) Val() int64    { return v.n }

func (v *IntValue) AsInt() (int64, bool)      { return v.n, true }
func (v *IntValue) AsDouble() (float64, bool) { return float64(v.n), true }

func (v *IntValue) EqualTo(other Value) (bool, error) {
	switch o := other.(type) {
	case *IntValue:
		return v.n == o.n, nil
	case *DoubleValue:
		return float64(v.n) == o.f, nil
	case *BoolValue:
		b, _ := o.AsInt()
		return v.n == b, nil
	default:
		return false, nil
	}
}

func (v *IntValue) CompareTo(other Value) (int, error) {
	switch o := other.(type) {
	case *IntValue:
		return cmpInt64(v.n, o.n), nil
	case *DoubleValue:
		return cmpFloat64(float64(v.n), o.f), nil
	default:
		return 0, fmt.Errorf("cannot compare %s with %s", v.Kind(), other.Kind())
	}
}

// DoubleValue holds a 64-bit float.
type DoubleValue struct {
	hdr Header
	f   float64
}

func (v *DoubleValue) Kind() Kind   { return KindDouble }
func (v *DoubleValue) Hdr() *Header { return &v.hdr }
func (v *DoubleValue) Val() float64 { return v.f }

func (v *DoubleValue) String() string {
	switch {
	case math.IsNaN(v.f):
		return "NaN"
	case math.IsInf(v.f, 1):
		return "Infinity"
	case math.IsInf(v.f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
}

func (v *DoubleValue) AsInt() (int64, bool)      { return int64(v.f), true }
func (v *DoubleValue) AsDouble() (float64, bool) { return v.f, true }

func (v *DoubleValue) EqualTo(other Value) (bool, error) {
	switch o := other.(type) {
	case *DoubleValue:
		return v.f == o.f, nil
	case *IntValue:
		return v.f == float64(o.n), nil
	default:
		return false, nil
	}
}

func (v *DoubleValue) CompareTo(other Value) (int, error) {
	switch o := other.(type) {
	case *DoubleValue:
		return cmpFloat64(v.f, o.f), nil
	case *IntValue:
		return cmpFloat64(v.f, float64(o.n)), nil
	default:
		return 0, fmt.Errorf("cannot compare %s with %s", v.Kind(), other.Kind())
	}
}

// StringValue holds an immutable UTF-8 byte sequence, per spec 3.1, with a
// precomputed ASCII-only flag.
type StringValue struct {
	hdr     Header
	s       string
	isASCII bool
	asciiOK bool
}

func (v *StringValue) Kind() Kind    { return KindString }
func (v *StringValue) String() string { return v.s }
func (v *StringValue) Hdr() *Header  { return &v.hdr }
func (v *StringValue) Val() string   { return v.s }
func (v *StringValue) ByteLen() int   { return len(v.s) }

// IsASCII reports whether every byte of the string is < 0x80.
func (v *StringValue) IsASCII() bool {
	if !v.asciiOK {
		v.isASCII = computeIsASCII(v.s)
		v.asciiOK = true
	}
	return v.isASCII
}

func computeIsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func (v *StringValue) EqualTo(other Value) (bool, error) {
	o, ok := other.(*StringValue)
	if !ok {
		return false, nil
	}
	return v.s == o.s, nil
}

func (v *StringValue) CompareTo(other Value) (int, error) {
	o, ok := other.(*StringValue)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s with %s", v.Kind(), other.Kind())
	}
	switch {
	case v.s < o.s:
		return -1, nil
	case v.s > o.s:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v *StringValue) Length() int64 { return int64(len(v.s)) }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
