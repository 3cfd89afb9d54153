package bridge

import (
	"testing"

	"github.com/vexdb/vex/pkg/hosted"
)

func TestScalarFromMethod(t *testing.T) {
	env := hosted.NewEnv()
	q := hosted.NewQueryDescriptor()
	q.SetColumn("embedding")
	q.SetKey([]float32{1.5, 2.5, 3.5})
	q.SetK(7)
	q.SetUseIndex(true)

	s, err := StringFromMethod(env, q, "Column")
	if err != nil || s != "embedding" {
		t.Errorf("StringFromMethod = (%q, %v)", s, err)
	}

	v, err := VecF32FromMethod(env, q, "Key")
	if err != nil {
		t.Fatalf("VecF32FromMethod failed: %v", err)
	}
	if len(v) != 3 || v[0] != 1.5 || v[2] != 3.5 {
		t.Errorf("VecF32FromMethod = %v", v)
	}

	k, err := IntAsSizeFromMethod(env, q, "K")
	if err != nil || k != 7 {
		t.Errorf("IntAsSizeFromMethod = (%d, %v)", k, err)
	}

	b, err := BoolFromMethod(env, q, "UseIndex")
	if err != nil || !b {
		t.Errorf("BoolFromMethod = (%v, %v)", b, err)
	}
}

func TestScalarFromMethodFailures(t *testing.T) {
	env := hosted.NewEnv()
	q := hosted.NewQueryDescriptor()

	if _, err := StringFromMethod(env, q, "NoSuchAccessor"); err == nil || KindOf(err) != KindInvoke {
		t.Errorf("missing accessor error = %v, want invoke-kind", err)
	}
	// Accessor exists but has the wrong shape for the request.
	if _, err := IntAsSizeFromMethod(env, q, "Column"); err == nil || KindOf(err) != KindInvoke {
		t.Errorf("shape mismatch error = %v, want invoke-kind", err)
	}
	if _, err := StringFromMethod(env, nil, "Column"); err == nil || KindOf(err) != KindNull {
		t.Errorf("null target error = %v, want null-kind", err)
	}
}
