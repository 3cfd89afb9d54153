package hosted

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// Errors reported by Env operations. Callers classify all of them as
// invocation failures; the distinctions exist for messages and tests.
var (
	// ErrNullReference is returned when an operation needs a non-null Ref.
	ErrNullReference = errors.New("null reference")
	// ErrNoSuchMethod is returned when a descriptor names a method the
	// target object does not have.
	ErrNoSuchMethod = errors.New("no such method")
	// ErrSignature is returned when a method exists but its shape does not
	// match the descriptor's declared signature.
	ErrSignature = errors.New("signature mismatch")
	// ErrShape is returned when a Ref is not the hosted shape an operation
	// requires (list, string, float array, direct buffer).
	ErrShape = errors.New("unexpected hosted shape")
	// ErrRaised is returned when the invoked hosted method itself raised.
	ErrRaised = errors.New("hosted method raised")
)

// Descriptor names a hosted accessor: a method name plus a signature token.
// Descriptors are data, handed to the one generic invoke primitive; call
// sites never dispatch by hand. Supported signatures:
//
//	()i32  ()i64  ()bool  ()string  ()[]f32  ()object  ()optional
type Descriptor struct {
	Name string
	Sig  string
}

func (d Descriptor) String() string { return d.Name + " " + d.Sig }

// Value is the result of a hosted method invocation. Accessors fail rather
// than panic when the held value is not of the requested kind.
type Value struct {
	v any
}

// I32 unwraps a 32-bit integer result.
func (v Value) I32() (int32, error) {
	i, ok := v.v.(int32)
	if !ok {
		return 0, fmt.Errorf("%w: result is %T, want int32", ErrSignature, v.v)
	}
	return i, nil
}

// I64 unwraps a 64-bit integer result.
func (v Value) I64() (int64, error) {
	i, ok := v.v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: result is %T, want int64", ErrSignature, v.v)
	}
	return i, nil
}

// Bool unwraps a boolean result.
func (v Value) Bool() (bool, error) {
	b, ok := v.v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: result is %T, want bool", ErrSignature, v.v)
	}
	return b, nil
}

// Ref unwraps an object result.
func (v Value) Ref() (Ref, error) {
	if v.v == nil {
		return nil, nil
	}
	r, ok := v.v.(Ref)
	if !ok {
		return nil, fmt.Errorf("%w: result is %T, want hosted reference", ErrSignature, v.v)
	}
	return r, nil
}

// Env is the capability surface the runtime's binding layer exposes to
// native code. All calls are synchronous and execute on the caller's
// thread; an Env carries no state shared between boundary calls other than
// the pending exception slot.
type Env interface {
	// Invoke calls the accessor named by desc on ref. The method must take
	// no arguments and return exactly the shape the signature declares.
	Invoke(ref Ref, desc Descriptor) (Value, error)

	// IsNull reports whether ref is the null reference.
	IsNull(ref Ref) bool

	// ListSize returns the element count of a hosted list.
	ListSize(ref Ref) (int32, error)

	// ListIterator starts a single-pass iteration over a hosted list.
	ListIterator(ref Ref) (*ListIter, error)

	// StringBytes copies out the raw bytes of a hosted string.
	StringBytes(ref Ref) ([]byte, error)

	// ArrayLength returns the length of a hosted float array.
	ArrayLength(ref Ref) (int32, error)

	// FloatArrayRegion copies len(buf) elements starting at start from a
	// hosted float array into buf.
	FloatArrayRegion(ref Ref, start int32, buf []float32) error

	// BufferAddress returns the stable address of a direct buffer's
	// backing memory. Fails for non-direct buffers.
	BufferAddress(ref Ref) (unsafe.Pointer, error)

	// BufferCapacity returns a direct buffer's capacity in bytes.
	BufferCapacity(ref Ref) (int32, error)

	// Throw records exc as the pending exception for the current hosted
	// frame. It does not unwind native code; the native function is
	// expected to return normally afterwards.
	Throw(exc *Exception)

	// Pending returns the currently pending exception, if any.
	Pending() *Exception

	// ClearPending discards the pending exception.
	ClearPending()
}

// RuntimeEnv is the reflective Env over the hosted object model in this
// package. It is what the script host hands to boundary entry points.
type RuntimeEnv struct {
	pending *Exception
}

// NewEnv creates an empty environment for one hosted frame.
func NewEnv() *RuntimeEnv { return &RuntimeEnv{} }

var _ Env = (*RuntimeEnv)(nil)

// sigResult maps a signature token to a check on the method's return type.
func sigResult(sig string) (func(reflect.Type) bool, bool) {
	switch sig {
	case "()i32":
		return func(t reflect.Type) bool { return t == reflect.TypeOf(int32(0)) }, true
	case "()i64":
		return func(t reflect.Type) bool { return t == reflect.TypeOf(int64(0)) }, true
	case "()bool":
		return func(t reflect.Type) bool { return t == reflect.TypeOf(false) }, true
	case "()string":
		return func(t reflect.Type) bool { return t == reflect.TypeOf((*Str)(nil)) }, true
	case "()[]f32":
		return func(t reflect.Type) bool { return t == reflect.TypeOf((*FloatArray)(nil)) }, true
	case "()optional":
		return func(t reflect.Type) bool { return t == reflect.TypeOf((*Optional)(nil)) }, true
	case "()object":
		refType := reflect.TypeOf((*Ref)(nil)).Elem()
		return func(t reflect.Type) bool { return t.Implements(refType) }, true
	}
	return nil, false
}

// Invoke dispatches desc against ref by reflection. A panic with a hosted
// Exception inside the target method is the runtime's way of raising; it is
// captured and surfaced as an ErrRaised invocation failure. Other panics
// are native bugs and propagate.
func (e *RuntimeEnv) Invoke(ref Ref, desc Descriptor) (val Value, err error) {
	if e.IsNull(ref) {
		return Value{}, fmt.Errorf("%w: cannot invoke %s", ErrNullReference, desc)
	}
	check, ok := sigResult(desc.Sig)
	if !ok {
		return Value{}, fmt.Errorf("%w: unknown signature %q", ErrSignature, desc.Sig)
	}
	m := reflect.ValueOf(ref).MethodByName(desc.Name)
	if !m.IsValid() {
		return Value{}, fmt.Errorf("%w: %s on %T", ErrNoSuchMethod, desc, ref)
	}
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || !check(mt.Out(0)) {
		return Value{}, fmt.Errorf("%w: %s on %T", ErrSignature, desc, ref)
	}
	defer func() {
		if r := recover(); r != nil {
			exc, ok := r.(*Exception)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %s: %v", ErrRaised, desc, exc)
		}
	}()
	out := m.Call(nil)
	return Value{v: out[0].Interface()}, nil
}

// IsNull treats both a nil interface and a typed nil pointer as null.
func (e *RuntimeEnv) IsNull(ref Ref) bool {
	if ref == nil {
		return true
	}
	rv := reflect.ValueOf(ref)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (e *RuntimeEnv) ListSize(ref Ref) (int32, error) {
	l, err := e.asList(ref)
	if err != nil {
		return 0, err
	}
	return l.Size(), nil
}

func (e *RuntimeEnv) ListIterator(ref Ref) (*ListIter, error) {
	l, err := e.asList(ref)
	if err != nil {
		return nil, err
	}
	return &ListIter{items: l.items}, nil
}

func (e *RuntimeEnv) asList(ref Ref) (*ArrayList, error) {
	if e.IsNull(ref) {
		return nil, fmt.Errorf("%w: not a list", ErrNullReference)
	}
	l, ok := ref.(*ArrayList)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a list", ErrShape, ref)
	}
	return l, nil
}

func (e *RuntimeEnv) StringBytes(ref Ref) ([]byte, error) {
	if e.IsNull(ref) {
		return nil, fmt.Errorf("%w: not a string", ErrNullReference)
	}
	s, ok := ref.(*Str)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a string", ErrShape, ref)
	}
	c := make([]byte, len(s.b))
	copy(c, s.b)
	return c, nil
}

func (e *RuntimeEnv) ArrayLength(ref Ref) (int32, error) {
	a, err := e.asFloatArray(ref)
	if err != nil {
		return 0, err
	}
	return a.Len(), nil
}

func (e *RuntimeEnv) FloatArrayRegion(ref Ref, start int32, buf []float32) error {
	a, err := e.asFloatArray(ref)
	if err != nil {
		return err
	}
	if start < 0 || int(start)+len(buf) > len(a.data) {
		return fmt.Errorf("%w: region [%d,%d) out of bounds for length %d",
			ErrShape, start, int(start)+len(buf), len(a.data))
	}
	copy(buf, a.data[start:])
	return nil
}

func (e *RuntimeEnv) asFloatArray(ref Ref) (*FloatArray, error) {
	if e.IsNull(ref) {
		return nil, fmt.Errorf("%w: not a float array", ErrNullReference)
	}
	a, ok := ref.(*FloatArray)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a float array", ErrShape, ref)
	}
	return a, nil
}

func (e *RuntimeEnv) BufferAddress(ref Ref) (unsafe.Pointer, error) {
	b, err := e.asDirectBuffer(ref)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b.data)), nil
}

func (e *RuntimeEnv) BufferCapacity(ref Ref) (int32, error) {
	b, err := e.asDirectBuffer(ref)
	if err != nil {
		return 0, err
	}
	return b.Capacity(), nil
}

func (e *RuntimeEnv) asDirectBuffer(ref Ref) (*ByteBuffer, error) {
	if e.IsNull(ref) {
		return nil, fmt.Errorf("%w: not a buffer", ErrNullReference)
	}
	b, ok := ref.(*ByteBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a byte buffer", ErrShape, ref)
	}
	if !b.direct {
		return nil, fmt.Errorf("%w: buffer is not direct", ErrShape)
	}
	return b, nil
}

func (e *RuntimeEnv) Throw(exc *Exception) {
	// First throw wins; a second throw before delivery would mask it.
	if e.pending == nil {
		e.pending = exc
	}
}

func (e *RuntimeEnv) Pending() *Exception { return e.pending }

func (e *RuntimeEnv) ClearPending() { e.pending = nil }
