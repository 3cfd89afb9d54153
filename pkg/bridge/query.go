package bridge

import (
	"github.com/vexdb/vex/pkg/core"
	"github.com/vexdb/vex/pkg/hosted"
)

// DecodeQuery extracts an optional hosted query descriptor into a native
// search query for the engine. Absent yields ok=false; any field-level
// failure aborts the decode.
func DecodeQuery(env hosted.Env, ref hosted.Ref) (*core.SearchQuery, bool, error) {
	return Optional(env, ref, decodeQueryInner)
}

func decodeQueryInner(env hosted.Env, q hosted.Ref) (*core.SearchQuery, error) {
	column, err := StringFromMethod(env, q, "Column")
	if err != nil {
		return nil, err
	}
	key, err := VecF32FromMethod(env, q, "Key")
	if err != nil {
		return nil, err
	}
	k, err := IntAsSizeFromMethod(env, q, "K")
	if err != nil {
		return nil, err
	}
	nprobes, err := IntAsSizeFromMethod(env, q, "NProbes")
	if err != nil {
		return nil, err
	}
	query := &core.SearchQuery{
		Column:  column,
		Key:     key,
		TopK:    k,
		NProbes: nprobes,
	}
	if ef, ok, err := OptionalSizeFromMethod(env, q, "Ef"); err != nil {
		return nil, err
	} else if ok {
		query.EF = &ef
	}
	if rf, ok, err := OptionalU32FromMethod(env, q, "RefineFactor"); err != nil {
		return nil, err
	} else if ok {
		query.RefineFactor = &rf
	}
	dts, err := StringFromMethod(env, q, "DistanceType")
	if err != nil {
		return nil, err
	}
	dt, err := core.ParseDistanceType(dts)
	if err != nil {
		return nil, wrapKind(KindDecode, "query:DistanceType", err)
	}
	query.DistanceType = dt
	useIndex, err := BoolFromMethod(env, q, "UseIndex")
	if err != nil {
		return nil, err
	}
	query.UseIndex = useIndex
	return query, nil
}

// DecodeIndexParams extracts a hosted index-params descriptor into native
// index build parameters. Unlike queries the descriptor itself is not
// optional; only its tuning fields are.
func DecodeIndexParams(env hosted.Env, ref hosted.Ref) (*core.IndexParams, error) {
	mts, err := StringFromMethod(env, ref, "MetricType")
	if err != nil {
		return nil, err
	}
	mt, err := core.ParseDistanceType(mts)
	if err != nil {
		return nil, wrapKind(KindDecode, "index-params:MetricType", err)
	}
	params := &core.IndexParams{MetricType: mt}
	fields := []struct {
		method string
		dst    **int32
	}{
		{"NumPartitions", &params.NumPartitions},
		{"NumSubVectors", &params.NumSubVectors},
		{"NumBits", &params.NumBits},
		{"MaxIterations", &params.MaxIterations},
		{"SampleRate", &params.SampleRate},
	}
	for _, f := range fields {
		v, ok, err := OptionalI32FromMethod(env, ref, f.method)
		if err != nil {
			return nil, err
		}
		if ok {
			n := v
			*f.dst = &n
		}
	}
	return params, nil
}
