package bridge

import (
	"errors"
	"testing"

	"github.com/vexdb/vex/pkg/hosted"
)

func intList(vals ...int32) *hosted.ArrayList {
	l := hosted.NewArrayList()
	for _, v := range vals {
		l.Add(hosted.NewInteger(v))
	}
	return l
}

func longList(vals ...int64) *hosted.ArrayList {
	l := hosted.NewArrayList()
	for _, v := range vals {
		l.Add(hosted.NewLong(v))
	}
	return l
}

func TestIntegers(t *testing.T) {
	env := hosted.NewEnv()

	tests := []struct {
		name string
		in   []int32
	}{
		{"empty", nil},
		{"single", []int32{7}},
		{"several", []int32{1, 2, 3, -4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Integers(env, intList(tt.in...))
			if err != nil {
				t.Fatalf("Integers failed: %v", err)
			}
			if len(got) != len(tt.in) {
				t.Fatalf("got %d elements, want %d", len(got), len(tt.in))
			}
			for i := range tt.in {
				if got[i] != tt.in[i] {
					t.Errorf("element %d = %d, want %d", i, got[i], tt.in[i])
				}
			}
		})
	}
}

func TestLongs(t *testing.T) {
	env := hosted.NewEnv()
	in := []int64{1, 1 << 40, -9}
	got, err := Longs(env, longList(in...))
	if err != nil {
		t.Fatalf("Longs failed: %v", err)
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("element %d = %d, want %d", i, got[i], in[i])
		}
	}
}

func TestStrings(t *testing.T) {
	env := hosted.NewEnv()
	l := hosted.NewArrayList(hosted.NewString("a"), hosted.NewString("bé"))
	got, err := Strings(env, l)
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	if got[0] != "a" || got[1] != "bé" {
		t.Errorf("Strings = %v", got)
	}
}

func TestStringsInvalidEncoding(t *testing.T) {
	env := hosted.NewEnv()
	l := hosted.NewArrayList(hosted.NewStringBytes([]byte{0xff, 0xfe}))
	_, err := Strings(env, l)
	if err == nil {
		t.Fatal("Strings accepted invalid UTF-8")
	}
	if KindOf(err) != KindDecode {
		t.Errorf("error kind = %v, want KindDecode", KindOf(err))
	}
}

func TestIntegersNullList(t *testing.T) {
	env := hosted.NewEnv()
	_, err := Integers(env, nil)
	if err == nil {
		t.Fatal("Integers accepted a null list")
	}
	// A null list is not an absent optional: it is a contract violation.
	if KindOf(err) != KindNull {
		t.Errorf("error kind = %v, want KindNull", KindOf(err))
	}
}

func TestIntegersNonIntegerElement(t *testing.T) {
	env := hosted.NewEnv()
	l := hosted.NewArrayList(hosted.NewInteger(1), hosted.NewString("oops"))
	_, err := Integers(env, l)
	if err == nil {
		t.Fatal("Integers accepted a non-integer element")
	}
	if KindOf(err) != KindInvoke {
		t.Errorf("error kind = %v, want KindInvoke", KindOf(err))
	}
	if !errors.Is(err, hosted.ErrNoSuchMethod) {
		t.Errorf("error = %v, want wrapped ErrNoSuchMethod", err)
	}
}

func TestIntegersNoPartialResult(t *testing.T) {
	env := hosted.NewEnv()
	l := hosted.NewArrayList(hosted.NewInteger(1), hosted.NewInteger(2), hosted.NewLong(3))
	got, err := Integers(env, l)
	if err == nil {
		t.Fatal("expected failure on the long element")
	}
	if got != nil {
		t.Errorf("partial result %v returned alongside error", got)
	}
}
