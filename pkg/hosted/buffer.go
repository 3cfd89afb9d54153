package hosted

// ByteBuffer is a hosted byte buffer. A direct buffer's backing memory is
// owned by the runtime but pinned: the runtime promises not to relocate it
// while any reference to the buffer stays reachable, which is what makes
// zero-copy views over it possible at all.
type ByteBuffer struct {
	data   []byte
	direct bool
}

// NewDirectByteBuffer wraps b as a direct buffer. The buffer aliases b; the
// caller keeps ownership of the memory.
func NewDirectByteBuffer(b []byte) *ByteBuffer {
	return &ByteBuffer{data: b, direct: true}
}

// AllocateDirect creates a zeroed direct buffer of n bytes.
func AllocateDirect(n int) *ByteBuffer {
	return &ByteBuffer{data: make([]byte, n), direct: true}
}

// NewByteBuffer wraps b as a non-direct (heap) buffer. Non-direct buffers
// have no stable address and cannot be viewed zero-copy.
func NewByteBuffer(b []byte) *ByteBuffer {
	return &ByteBuffer{data: b}
}

// Direct reports whether the buffer's backing memory has a stable address.
func (b *ByteBuffer) Direct() bool { return b.direct }

// Capacity returns the buffer's capacity in bytes.
func (b *ByteBuffer) Capacity() int32 { return int32(len(b.data)) }

// Put writes one byte at index i. Used by scripts to fill buffers.
func (b *ByteBuffer) Put(i int32, v byte) { b.data[i] = v }

// At reads one byte at index i.
func (b *ByteBuffer) At(i int32) byte { return b.data[i] }

func (*ByteBuffer) hostedRef() {}
