package bridge

import "github.com/vexdb/vex/pkg/hosted"

// InnerFn extracts the native value held inside a present optional.
type InnerFn[T any] func(env hosted.Env, inner hosted.Ref) (T, error)

// Optional extracts a hosted optional. A null reference is deliberately
// treated as absent, so omitted hosted arguments need not be wrapped in an
// empty optional. When present, the single-use accessor is called exactly
// once and inner is applied to the unwrapped reference.
func Optional[T any](env hosted.Env, ref hosted.Ref, inner InnerFn[T]) (T, bool, error) {
	var zero T
	if env.IsNull(ref) {
		return zero, false, nil
	}
	pv, err := env.Invoke(ref, descIsPresent)
	if err != nil {
		return zero, false, invokeErr("optional", err)
	}
	present, err := pv.Bool()
	if err != nil {
		return zero, false, invokeErr("optional", err)
	}
	if !present {
		return zero, false, nil
	}
	gv, err := env.Invoke(ref, descGet)
	if err != nil {
		return zero, false, invokeErr("optional", err)
	}
	got, err := gv.Ref()
	if err != nil {
		return zero, false, invokeErr("optional", err)
	}
	v, err := inner(env, got)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// StringOpt extracts an optional hosted string.
func StringOpt(env hosted.Env, ref hosted.Ref) (string, bool, error) {
	return Optional(env, ref, func(env hosted.Env, inner hosted.Ref) (string, error) {
		return decodeString(env, inner, "optional:string")
	})
}

// StringsOpt extracts an optional hosted list of strings.
func StringsOpt(env hosted.Env, ref hosted.Ref) ([]string, bool, error) {
	return Optional(env, ref, func(env hosted.Env, inner hosted.Ref) ([]string, error) {
		return Strings(env, inner)
	})
}

// IntOpt extracts an optional boxed 32-bit integer.
func IntOpt(env hosted.Env, ref hosted.Ref) (int32, bool, error) {
	return Optional(env, ref, IntElement)
}

// IntsOpt extracts an optional hosted list of boxed integers.
func IntsOpt(env hosted.Env, ref hosted.Ref) ([]int32, bool, error) {
	return Optional(env, ref, func(env hosted.Env, inner hosted.Ref) ([]int32, error) {
		return Integers(env, inner)
	})
}

// LongOpt extracts an optional boxed 64-bit integer.
func LongOpt(env hosted.Env, ref hosted.Ref) (int64, bool, error) {
	return Optional(env, ref, LongElement)
}

// U64Opt extracts an optional boxed long reinterpreted as unsigned, which
// is how the runtime smuggles unsigned 64-bit values through its signed
// box.
func U64Opt(env hosted.Env, ref hosted.Ref) (uint64, bool, error) {
	return Optional(env, ref, func(env hosted.Env, inner hosted.Ref) (uint64, error) {
		v, err := LongElement(env, inner)
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	})
}

// optionalIntFromMethod invokes an accessor returning an optional boxed
// integer and narrows the present value into T.
func optionalIntFromMethod[T NativeInt](env hosted.Env, ref hosted.Ref, method string) (T, bool, error) {
	var zero T
	op := "optional-int:" + method
	v, err := env.Invoke(ref, hosted.Descriptor{Name: method, Sig: "()optional"})
	if err != nil {
		return zero, false, invokeErr(op, err)
	}
	opt, err := v.Ref()
	if err != nil {
		return zero, false, invokeErr(op, err)
	}
	raw, ok, err := IntOpt(env, opt)
	if err != nil || !ok {
		return zero, false, err
	}
	t, err := Narrow[T](raw)
	if err != nil {
		return zero, false, err
	}
	return t, true, nil
}

// OptionalSizeFromMethod extracts an optional native size from an accessor
// returning an optional boxed integer.
func OptionalSizeFromMethod(env hosted.Env, ref hosted.Ref, method string) (int, bool, error) {
	return optionalIntFromMethod[int](env, ref, method)
}

// OptionalI32FromMethod extracts an optional int32 from an accessor
// returning an optional boxed integer.
func OptionalI32FromMethod(env hosted.Env, ref hosted.Ref, method string) (int32, bool, error) {
	return optionalIntFromMethod[int32](env, ref, method)
}

// OptionalU32FromMethod extracts an optional uint32, failing for negative
// source values instead of wrapping.
func OptionalU32FromMethod(env hosted.Env, ref hosted.Ref, method string) (uint32, bool, error) {
	return optionalIntFromMethod[uint32](env, ref, method)
}
