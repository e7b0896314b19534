package value

import "fmt"

// NativeValue wraps an arbitrary host (Go) value so it can flow through
// the script engine without conversion — used by FFI-style bindings that
// hand the script a handle to host state (spec 3.1's "native" kind).
type NativeValue struct {
	hdr      Header
	props    *PropMap
	TypeName string
	Payload  any
}

func newNative(typeName string, payload any) *NativeValue {
	return &NativeValue{TypeName: typeName, Payload: payload, props: NewPropMap()}
}

func (n *NativeValue) Kind() Kind      { return KindNative }
func (n *NativeValue) Hdr() *Header    { return &n.hdr }
func (n *NativeValue) Props() *PropMap { return n.props }

func (n *NativeValue) String() string {
	return fmt.Sprintf("[native %s]", n.TypeName)
}

// UniqueValue is an opaque, identity-compared tag value (spec 3.1's
// "unique" kind), used for enum members and symbol-like constants where
// only `==` identity, not structural content, matters.
type UniqueValue struct {
	hdr   Header
	props *PropMap
	Tag   string
	id    uint64
}

var uniqueCounter uint64

func newUnique(tag string) *UniqueValue {
	uniqueCounter++
	return &UniqueValue{Tag: tag, id: uniqueCounter, props: NewPropMap()}
}

func (u *UniqueValue) Kind() Kind      { return KindUnique }
func (u *UniqueValue) Hdr() *Header    { return &u.hdr }
func (u *UniqueValue) Props() *PropMap { return u.props }
func (u *UniqueValue) ID() uint64      { return u.id }

func (u *UniqueValue) String() string {
	if u.Tag != "" {
		return fmt.Sprintf("[unique %s]", u.Tag)
	}
	return "[unique]"
}

func (u *UniqueValue) EqualTo(other Value) (bool, error) {
	o, ok := other.(*UniqueValue)
	return ok && o == u, nil
}
