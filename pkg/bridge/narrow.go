package bridge

import "fmt"

// NativeInt is the set of integer types a 32-bit hosted value can be
// narrowed into.
type NativeInt interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr
}

// Narrow converts a 32-bit signed hosted value into T, failing when the
// value is not representable. It never wraps or truncates.
func Narrow[T NativeInt](v int32) (T, error) {
	var zero T
	if zero-1 > zero {
		// Unsigned target.
		if v < 0 {
			return zero, wrapKind(KindNarrow, "narrow",
				fmt.Errorf("value %d out of range for %T", v, zero))
		}
		t := T(v)
		if uint64(t) != uint64(v) {
			return zero, wrapKind(KindNarrow, "narrow",
				fmt.Errorf("value %d out of range for %T", v, zero))
		}
		return t, nil
	}
	t := T(v)
	if int64(t) != int64(v) {
		return zero, wrapKind(KindNarrow, "narrow",
			fmt.Errorf("value %d out of range for %T", v, zero))
	}
	return t, nil
}
