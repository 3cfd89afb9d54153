package hosted

// Ref is an opaque handle to a value living in the hosted runtime's heap.
// The zero Ref (nil) is the null reference. Refs are borrowed: an extractor
// may hold one only for the duration of the call that received it.
type Ref interface {
	hostedRef()
}

// Integer boxes a 32-bit signed integer.
type Integer struct {
	v int32
}

// NewInteger boxes v.
func NewInteger(v int32) *Integer { return &Integer{v: v} }

// IntValue returns the boxed value.
func (o *Integer) IntValue() int32 { return o.v }

func (*Integer) hostedRef() {}

// Long boxes a 64-bit signed integer.
type Long struct {
	v int64
}

// NewLong boxes v.
func NewLong(v int64) *Long { return &Long{v: v} }

// LongValue returns the boxed value.
func (o *Long) LongValue() int64 { return o.v }

func (*Long) hostedRef() {}

// Boolean boxes a boolean.
type Boolean struct {
	v bool
}

// NewBoolean boxes v.
func NewBoolean(v bool) *Boolean { return &Boolean{v: v} }

// BoolValue returns the boxed value.
func (o *Boolean) BoolValue() bool { return o.v }

func (*Boolean) hostedRef() {}

// Str is a hosted string: a byte sequence that is expected, but not
// guaranteed, to be valid UTF-8. Decoding happens on the native side.
type Str struct {
	b []byte
}

// NewString wraps a native string as a hosted string.
func NewString(s string) *Str { return &Str{b: []byte(s)} }

// NewStringBytes wraps raw bytes as a hosted string without validation.
func NewStringBytes(b []byte) *Str {
	c := make([]byte, len(b))
	copy(c, b)
	return &Str{b: c}
}

func (o *Str) hostedRef() {}

// FloatArray is a hosted array of 32-bit floats.
type FloatArray struct {
	data []float32
}

// NewFloatArray copies vals into a hosted float array.
func NewFloatArray(vals []float32) *FloatArray {
	c := make([]float32, len(vals))
	copy(c, vals)
	return &FloatArray{data: c}
}

// Len returns the number of elements.
func (a *FloatArray) Len() int32 { return int32(len(a.data)) }

func (*FloatArray) hostedRef() {}

// ArrayList is an ordered, growable hosted list of references.
type ArrayList struct {
	items []Ref
}

// NewArrayList builds a list holding items in the given order.
func NewArrayList(items ...Ref) *ArrayList {
	return &ArrayList{items: items}
}

// Add appends a reference.
func (l *ArrayList) Add(r Ref) { l.items = append(l.items, r) }

// Size returns the element count.
func (l *ArrayList) Size() int32 { return int32(len(l.items)) }

func (*ArrayList) hostedRef() {}

// ListIter is a single-pass iterator over an ArrayList. It is not
// restartable; obtaining a fresh iterator requires going back to the list.
type ListIter struct {
	items []Ref
	pos   int
}

// Next returns the next element in source order, or false when exhausted.
func (it *ListIter) Next() (Ref, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	r := it.items[it.pos]
	it.pos++
	return r, true
}

// Optional is a hosted container that either holds one reference or is
// empty. A null Ref and an empty Optional are distinct shapes in the
// runtime, though extraction treats both as absent.
type Optional struct {
	inner   Ref
	present bool
}

// OptionalOf wraps r in a present Optional.
func OptionalOf(r Ref) *Optional { return &Optional{inner: r, present: true} }

// OptionalEmpty returns an empty Optional.
func OptionalEmpty() *Optional { return &Optional{} }

// IsPresent reports whether a value is held.
func (o *Optional) IsPresent() bool { return o.present }

// Get returns the held reference. Calling Get on an empty Optional is a
// contract violation and raises a hosted exception, mirroring how the
// runtime itself reacts; extractors always check IsPresent first.
func (o *Optional) Get() Ref {
	if !o.present {
		panic(&Exception{Name: ExNoSuchElement, Message: "optional is empty"})
	}
	return o.inner
}

func (*Optional) hostedRef() {}
