package bridge

import (
	"unsafe"

	"github.com/vexdb/vex/pkg/hosted"
)

// BorrowedBytes is a zero-copy view over memory owned by the hosted
// runtime. Its validity rests on the runtime's promise that a direct
// buffer's backing memory is stable, and holds only while the reference
// that produced the view stays reachable.
//
// Caller obligations, not enforceable here:
//   - consume the view before returning control to the runtime in a way
//     that could release the source reference;
//   - never store the view (or a slice taken from it) in anything that
//     outlives the call frame that produced it;
//   - do not assume concurrent mutation of the backing memory is safe.
type BorrowedBytes struct {
	ptr unsafe.Pointer
	n   int
}

// Len returns the view's length in bytes.
func (b BorrowedBytes) Len() int { return b.n }

// Bytes returns the view as a byte slice aliasing runtime memory. The
// slice carries the same lifetime obligations as the view itself.
func (b BorrowedBytes) Bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.n)
}

// BytesOpt extracts an optional direct byte buffer as a borrowed view.
// Absent (null reference or empty optional) yields ok=false. This is the
// one extractor that does not copy.
func BytesOpt(env hosted.Env, ref hosted.Ref) (BorrowedBytes, bool, error) {
	return Optional(env, ref, func(env hosted.Env, inner hosted.Ref) (BorrowedBytes, error) {
		addr, err := env.BufferAddress(inner)
		if err != nil {
			return BorrowedBytes{}, invokeErr("bytes", err)
		}
		capacity, err := env.BufferCapacity(inner)
		if err != nil {
			return BorrowedBytes{}, invokeErr("bytes", err)
		}
		return BorrowedBytes{ptr: addr, n: int(capacity)}, nil
	})
}
