package value

import "fmt"

// BufferValue is a mutable byte buffer, distinct from the immutable
// StringValue. Buffers are intentionally excluded as property-key material
// (spec 3.1) because their content can change out from under a lookup.
type BufferValue struct {
	hdr   Header
	bytes []byte
	props *PropMap
}

func newBuffer(capacity int) *BufferValue {
	return &BufferValue{bytes: byteChunks.Get(capacity), props: NewPropMap()}
}

func (b *BufferValue) Kind() Kind      { return KindBuffer }
func (b *BufferValue) Hdr() *Header    { return &b.hdr }
func (b *BufferValue) Props() *PropMap { return b.props }
func (b *BufferValue) String() string  { return string(b.bytes) }
func (b *BufferValue) Length() int64   { return int64(len(b.bytes)) }
func (b *BufferValue) Bytes() []byte   { return b.bytes }

func (b *BufferValue) GetIndex(i int64) (Value, error) {
	if i < 0 || i >= int64(len(b.bytes)) {
		return nil, fmt.Errorf("buffer index %d out of range [0,%d)", i, len(b.bytes))
	}
	return &IntValue{n: int64(b.bytes[i])}, nil
}

func (b *BufferValue) SetIndex(i int64, v Value) error {
	n, ok := v.(NumericValue)
	if !ok {
		return fmt.Errorf("cannot store %s in buffer", v.Kind())
	}
	iv, _ := n.AsInt()
	for int64(len(b.bytes)) <= i {
		b.bytes = append(b.bytes, 0)
	}
	if i < 0 {
		return fmt.Errorf("buffer index %d out of range", i)
	}
	b.bytes[i] = byte(iv)
	return nil
}

// Append adds bytes to the end of the buffer.
func (b *BufferValue) Append(p []byte) {
	b.bytes = append(b.bytes, p...)
}
