package bridge

import "github.com/vexdb/vex/pkg/hosted"

// ElementFn extracts one native value from one hosted list element.
type ElementFn[T any] func(env hosted.Env, elem hosted.Ref) (T, error)

// extractList iterates a hosted list in source order, applying elem to each
// element. The result is pre-sized from the reported count and fails on the
// first element-level failure; no partial slice is returned.
func extractList[T any](env hosted.Env, listRef hosted.Ref, op string, elem ElementFn[T]) ([]T, error) {
	n, err := env.ListSize(listRef)
	if err != nil {
		return nil, invokeErr(op, err)
	}
	it, err := env.ListIterator(listRef)
	if err != nil {
		return nil, invokeErr(op, err)
	}
	out := make([]T, 0, n)
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		v, err := elem(env, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IntElement unwraps a boxed 32-bit integer list element.
func IntElement(env hosted.Env, elem hosted.Ref) (int32, error) {
	v, err := env.Invoke(elem, descIntValue)
	if err != nil {
		return 0, invokeErr("element:int", err)
	}
	i, err := v.I32()
	if err != nil {
		return 0, invokeErr("element:int", err)
	}
	return i, nil
}

// LongElement unwraps a boxed 64-bit integer list element.
func LongElement(env hosted.Env, elem hosted.Ref) (int64, error) {
	v, err := env.Invoke(elem, descLongValue)
	if err != nil {
		return 0, invokeErr("element:long", err)
	}
	i, err := v.I64()
	if err != nil {
		return 0, invokeErr("element:long", err)
	}
	return i, nil
}

// StringElement decodes a hosted string list element.
func StringElement(env hosted.Env, elem hosted.Ref) (string, error) {
	return decodeString(env, elem, "element:string")
}

// Integers extracts a hosted list of boxed integers into a native slice,
// preserving source order. A null list reference is an error here: unlike
// an optional, a list has no absent state.
func Integers(env hosted.Env, listRef hosted.Ref) ([]int32, error) {
	return extractList(env, listRef, "integers", IntElement)
}

// Longs extracts a hosted list of boxed longs into a native slice.
func Longs(env hosted.Env, listRef hosted.Ref) ([]int64, error) {
	return extractList(env, listRef, "longs", LongElement)
}

// Strings extracts a hosted list of strings into native owned strings.
func Strings(env hosted.Env, listRef hosted.Ref) ([]string, error) {
	return extractList(env, listRef, "strings", StringElement)
}
