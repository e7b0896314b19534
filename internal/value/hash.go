package value

// HashValue is a standalone dictionary. Per spec 3.1, hash-typed values
// always carry a hashtable storage shape (as opposed to object, whose
// storage shape is a build-time choice between an ordered list and a
// hashtable). In Go both shapes collapse to the same map+order-slice
// PropMap (see propmap.go's doc comment and DESIGN.md), so HashValue and
// ObjectValue share the same underlying structure but are kept as
// distinct kinds because scripts observe them differently (a hash has no
// prototype chain and no class identity).
type HashValue struct {
	hdr   Header
	props *PropMap
}

func newHash() *HashValue {
	return &HashValue{props: NewPropMap()}
}

func (h *HashValue) Kind() Kind      { return KindHash }
func (h *HashValue) Hdr() *Header    { return &h.hdr }
func (h *HashValue) Props() *PropMap { return h.props }
func (h *HashValue) String() string  { return "[hash]" }
func (h *HashValue) Length() int64   { return int64(h.props.Len()) }
