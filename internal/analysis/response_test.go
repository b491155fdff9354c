package analysis

import (
	"math"
	"testing"
)

func TestImpulseResponse(t *testing.T) {
	tests := []struct {
		name string
		char []float64
		want []float64
	}{
		{"deadbeat", []float64{1, 0, 0, 0}, []float64{1, 0, 0, 0, 0}},
		{"geometric", []float64{1, -0.5}, []float64{1, 0.5, 0.25, 0.125, 0.0625}},
		{"oscillating", []float64{1, 0.5}, []float64{1, -0.5, 0.25, -0.125, 0.0625}},
		{"double pole", []float64{1, -1, 0.25}, []float64{1, 1, 0.75, 0.5, 0.3125}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImpulseResponse(tt.char, len(tt.want))
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("y[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestImpulseResponse_Empty(t *testing.T) {
	if ImpulseResponse(nil, 10) != nil {
		t.Error("expected nil for empty polynomial")
	}
	if ImpulseResponse([]float64{1, 0}, 0) != nil {
		t.Error("expected nil for zero steps")
	}
}

func TestFilter_Improper(t *testing.T) {
	if _, err := Filter([]float64{1, 0, 0}, []float64{1, 0}, []float64{1}); err != ErrImproper {
		t.Errorf("expected ErrImproper, got %v", err)
	}
}

func TestSettlingStep(t *testing.T) {
	tests := []struct {
		resp []float64
		want int
	}{
		{[]float64{1, 0, 0, 0}, 1},
		{[]float64{1, 0, 0.5, 0}, 3},
		{[]float64{1, 1, 1}, -1},
		{nil, -1},
	}
	for _, tt := range tests {
		if got := SettlingStep(tt.resp, 0, 1e-9); got != tt.want {
			t.Errorf("SettlingStep(%v) = %d, want %d", tt.resp, got, tt.want)
		}
	}
}

func TestPeak(t *testing.T) {
	peak, idx := Peak([]float64{0.2, -1.5, 1})
	if peak != 1.5 || idx != 1 {
		t.Errorf("Peak = %v at %d", peak, idx)
	}
	if _, idx := Peak(nil); idx != -1 {
		t.Errorf("expected -1 for empty input, got %d", idx)
	}
}

func TestMagnitudeSpectrum(t *testing.T) {
	// a unit impulse has a flat spectrum
	spec := MagnitudeSpectrum([]float64{1, 0, 0})
	if len(spec) != 2 {
		t.Fatalf("expected 2 bins after padding to 4, got %d", len(spec))
	}
	for i, v := range spec {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, v)
		}
	}
}
