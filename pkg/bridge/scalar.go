package bridge

import (
	"fmt"
	"unicode/utf8"

	"github.com/vexdb/vex/pkg/hosted"
)

// Accessor descriptors for the fixed hosted shapes. Kept as data and fed to
// the one generic invoke primitive.
var (
	descIntValue  = hosted.Descriptor{Name: "IntValue", Sig: "()i32"}
	descLongValue = hosted.Descriptor{Name: "LongValue", Sig: "()i64"}
	descIsPresent = hosted.Descriptor{Name: "IsPresent", Sig: "()bool"}
	descGet       = hosted.Descriptor{Name: "Get", Sig: "()object"}
)

// decodeString copies a hosted string's bytes out and validates the
// encoding. The result is an owned native string, never a view.
func decodeString(env hosted.Env, ref hosted.Ref, op string) (string, error) {
	b, err := env.StringBytes(ref)
	if err != nil {
		return "", invokeErr(op, err)
	}
	if !utf8.Valid(b) {
		return "", wrapKind(KindDecode, op, fmt.Errorf("hosted string is not valid UTF-8"))
	}
	return string(b), nil
}

// StringFromMethod invokes the string accessor named method on ref and
// decodes the result.
func StringFromMethod(env hosted.Env, ref hosted.Ref, method string) (string, error) {
	op := "string:" + method
	v, err := env.Invoke(ref, hosted.Descriptor{Name: method, Sig: "()string"})
	if err != nil {
		return "", invokeErr(op, err)
	}
	s, err := v.Ref()
	if err != nil {
		return "", invokeErr(op, err)
	}
	return decodeString(env, s, op)
}

// VecF32FromMethod invokes the float-array accessor named method on ref and
// copies the full array into a freshly allocated native slice. The target
// is pre-sized from the reported length and filled in one region copy.
func VecF32FromMethod(env hosted.Env, ref hosted.Ref, method string) ([]float32, error) {
	op := "f32s:" + method
	v, err := env.Invoke(ref, hosted.Descriptor{Name: method, Sig: "()[]f32"})
	if err != nil {
		return nil, invokeErr(op, err)
	}
	arr, err := v.Ref()
	if err != nil {
		return nil, invokeErr(op, err)
	}
	n, err := env.ArrayLength(arr)
	if err != nil {
		return nil, invokeErr(op, err)
	}
	buf := make([]float32, n)
	if err := env.FloatArrayRegion(arr, 0, buf); err != nil {
		return nil, invokeErr(op, err)
	}
	return buf, nil
}

// IntAsSizeFromMethod invokes the 32-bit integer accessor named method on
// ref and widens the result to a native size.
func IntAsSizeFromMethod(env hosted.Env, ref hosted.Ref, method string) (int, error) {
	op := "size:" + method
	v, err := env.Invoke(ref, hosted.Descriptor{Name: method, Sig: "()i32"})
	if err != nil {
		return 0, invokeErr(op, err)
	}
	i, err := v.I32()
	if err != nil {
		return 0, invokeErr(op, err)
	}
	return int(i), nil
}

// BoolFromMethod invokes the boolean accessor named method on ref.
func BoolFromMethod(env hosted.Env, ref hosted.Ref, method string) (bool, error) {
	op := "bool:" + method
	v, err := env.Invoke(ref, hosted.Descriptor{Name: method, Sig: "()bool"})
	if err != nil {
		return false, invokeErr(op, err)
	}
	b, err := v.Bool()
	if err != nil {
		return false, invokeErr(op, err)
	}
	return b, nil
}
