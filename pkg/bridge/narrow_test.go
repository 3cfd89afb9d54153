package bridge

import (
	"errors"
	"math"
	"testing"
)

func TestNarrowUint32(t *testing.T) {
	tests := []struct {
		name    string
		in      int32
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"positive", 12345, 12345, false},
		{"max int32", math.MaxInt32, math.MaxInt32, false},
		{"minus one", -1, 0, true},
		{"min int32", math.MinInt32, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Narrow[uint32](tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Narrow[uint32](%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Narrow[uint32](%d) = %d, want %d", tt.in, got, tt.want)
			}
			if err != nil {
				var be *Error
				if !errors.As(err, &be) || be.Kind != KindNarrow {
					t.Errorf("error kind = %v, want KindNarrow", err)
				}
			}
		})
	}
}

func TestNarrowRoundTrip(t *testing.T) {
	// Every in-range value survives the conversion unchanged.
	for _, v := range []int32{0, 1, 255, 256, 65535, 65536, math.MaxInt32} {
		got, err := Narrow[uint32](v)
		if err != nil {
			t.Fatalf("Narrow[uint32](%d) failed: %v", v, err)
		}
		if int32(got) != v {
			t.Errorf("round trip of %d gave %d", v, got)
		}
	}
}

func TestNarrowSignedTargets(t *testing.T) {
	if _, err := Narrow[int8](127); err != nil {
		t.Errorf("Narrow[int8](127) failed: %v", err)
	}
	if _, err := Narrow[int8](128); err == nil {
		t.Error("Narrow[int8](128) succeeded, want range error")
	}
	if got, err := Narrow[int8](-128); err != nil || got != -128 {
		t.Errorf("Narrow[int8](-128) = %d, %v, want -128", got, err)
	}
	if _, err := Narrow[int8](-129); err == nil {
		t.Error("Narrow[int8](-129) succeeded, want range error")
	}
	if got, err := Narrow[int64](math.MinInt32); err != nil || got != math.MinInt32 {
		t.Errorf("Narrow[int64](MinInt32) = %d, %v", got, err)
	}
	if _, err := Narrow[uint16](65536); err == nil {
		t.Error("Narrow[uint16](65536) succeeded, want range error")
	}
	if got, err := Narrow[uint16](65535); err != nil || got != 65535 {
		t.Errorf("Narrow[uint16](65535) = %d, %v", got, err)
	}
}
