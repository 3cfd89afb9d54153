package bridge

import "github.com/vexdb/vex/pkg/hosted"

// toException translates a native error into the nearest hosted exception.
// The translation is the single place the kind-to-class mapping lives; both
// adapter forms go through it.
func toException(err error) *hosted.Exception {
	var name string
	switch KindOf(err) {
	case KindNarrow, KindDecode:
		name = hosted.ExIllegalArgument
	case KindNull:
		name = hosted.ExNullPointer
	default:
		name = hosted.ExRuntime
	}
	return &hosted.Exception{Name: name, Message: err.Error()}
}

// OkOrThrow is the void-form error adapter: on failure it throws the
// translated exception into the hosted frame and returns, so the boundary
// function itself completes normally having signalled through the
// exception channel.
func OkOrThrow(env hosted.Env, err error) {
	if err != nil {
		env.Throw(toException(err))
	}
}

// ReturnOrThrow is the value-form adapter: on success it passes v through;
// on failure it throws and returns sentinel, which the hosted caller
// ignores because an exception is already pending.
func ReturnOrThrow[T any](env hosted.Env, v T, err error, sentinel T) T {
	if err != nil {
		env.Throw(toException(err))
		return sentinel
	}
	return v
}
