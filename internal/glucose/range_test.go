package glucose

import (
	"math"
	"testing"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		mmol float64
		want Range
	}{
		{"negative", -1, VeryLow},
		{"zero", 0, VeryLow},
		{"just below very-low bound", 3.3999, VeryLow},
		{"very-low bound is low", 3.4, Low},
		{"low upper bound is low", 4.0, Low},
		{"just above low", 4.0001, InRange},
		{"in range", 5.5, InRange},
		{"in-range upper bound", 7.8, InRange},
		{"just above in-range", 7.8001, High},
		{"high upper bound", 10.0, High},
		{"just above high", 10.0001, VeryHigh},
		{"very high", 25, VeryHigh},
		{"positive infinity", math.Inf(1), VeryHigh},
		{"negative infinity", math.Inf(-1), VeryLow},
		{"NaN", math.NaN(), VeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mmol); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.mmol, got, tt.want)
			}
		})
	}
}

func TestClassify_MonotonicPartition(t *testing.T) {
	// Walking upward in small steps the range never goes back down and
	// never skips a bucket.
	prev := Classify(0)
	for v := 0.0; v <= 30; v += 0.01 {
		got := Classify(v)
		if got < prev || got > prev+1 {
			t.Fatalf("Classify(%v) = %v after %v", v, got, prev)
		}
		prev = got
	}
	if prev != VeryHigh {
		t.Fatalf("final range = %v, want very-high", prev)
	}
}

func TestRange_ColorsAndNames(t *testing.T) {
	tests := []struct {
		r    Range
		name string
		hex  string
	}{
		{VeryLow, "very-low", "#FF0000"},
		{Low, "low", "#FFB6C1"},
		{InRange, "in-range", "#008000"},
		{High, "high", "#FFFF00"},
		{VeryHigh, "very-high", "#FFA500"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.r.Hex(); got != tt.hex {
			t.Errorf("%s Hex() = %q, want %q", tt.name, got, tt.hex)
		}
		if tt.r.Color().A != 0xFF {
			t.Errorf("%s color is not opaque", tt.name)
		}
	}
}

func TestRange_Urgent(t *testing.T) {
	for _, r := range []Range{VeryLow, Low, InRange, High, VeryHigh} {
		want := r == VeryLow || r == VeryHigh
		if r.Urgent() != want {
			t.Errorf("%v.Urgent() = %v, want %v", r, r.Urgent(), want)
		}
	}
}
