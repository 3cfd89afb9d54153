package bridge

import (
	"context"

	"github.com/vexdb/vex/pkg/core"
	"github.com/vexdb/vex/pkg/hosted"
)

// Boundary entry points. Each one extracts its argument shape, discards or
// forwards the native value, and signals failure only through the hosted
// exception channel; the native function always returns normally.

// ParseInts validates a hosted list of boxed integers.
func ParseInts(env hosted.Env, listRef hosted.Ref) {
	_, err := Integers(env, listRef)
	OkOrThrow(env, err)
}

// ParseLongs validates a hosted list of boxed longs.
func ParseLongs(env hosted.Env, listRef hosted.Ref) {
	_, err := Longs(env, listRef)
	OkOrThrow(env, err)
}

// ParseIntsOpt validates an optional hosted list of boxed integers.
func ParseIntsOpt(env hosted.Env, optRef hosted.Ref) {
	_, _, err := IntsOpt(env, optRef)
	OkOrThrow(env, err)
}

// ParseQuery validates an optional hosted query descriptor.
func ParseQuery(env hosted.Env, optRef hosted.Ref) {
	_, _, err := DecodeQuery(env, optRef)
	OkOrThrow(env, err)
}

// ParseIndexParams validates a hosted index-params descriptor.
func ParseIndexParams(env hosted.Env, ref hosted.Ref) {
	_, err := DecodeIndexParams(env, ref)
	OkOrThrow(env, err)
}

// SearchWithQuery decodes an optional query descriptor and runs it against
// the engine, handing the hit count back across the boundary. Engine
// failures adapt exactly like extraction failures; -1 is the sentinel the
// hosted caller ignores when an exception is pending. An absent query
// yields zero hits without touching the engine.
func SearchWithQuery(ctx context.Context, env hosted.Env, store *core.VectorStore, optRef hosted.Ref) int32 {
	q, ok, err := DecodeQuery(env, optRef)
	if err != nil {
		return ReturnOrThrow[int32](env, 0, err, -1)
	}
	if !ok {
		return 0
	}
	hits, err := store.Search(ctx, q)
	if err != nil {
		return ReturnOrThrow[int32](env, 0, err, -1)
	}
	return int32(len(hits))
}

// BuildIndexWithParams decodes an index-params descriptor and triggers an
// engine index build.
func BuildIndexWithParams(ctx context.Context, env hosted.Env, store *core.VectorStore, ref hosted.Ref) {
	params, err := DecodeIndexParams(env, ref)
	if err != nil {
		OkOrThrow(env, err)
		return
	}
	OkOrThrow(env, store.BuildIndex(ctx, params))
}
