package poles

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestCharacteristicPolynomial_Shape(t *testing.T) {
	for n := 1; n <= 6; n++ {
		alpha := make([]float64, n)
		kbeta := make([]float64, n)
		alpha[0] = 1
		for i := range kbeta {
			kbeta[i] = float64(i) * 0.25
		}

		coeff := CharacteristicPolynomial(alpha, kbeta)
		if len(coeff) != n+1 {
			t.Errorf("n=%d: expected %d coefficients, got %d", n, n+1, len(coeff))
		}
		if coeff[0] != 1 {
			t.Errorf("n=%d: leading coefficient should be 1, got %f", n, coeff[0])
		}
	}
}

func TestCharacteristicPolynomial_Values(t *testing.T) {
	// alpha = [1, -1/4, -3/4], kbeta = [5/4, 1/2, -3/4] places every pole at 0
	coeff := CharacteristicPolynomial([]float64{1, -0.25, -0.75}, []float64{1.25, 0.5, -0.75})
	want := []float64{1, 0, 0, 0}
	for i := range want {
		if math.Abs(coeff[i]-want[i]) > 1e-12 {
			t.Errorf("coeff[%d] = %f, want %f", i, coeff[i], want[i])
		}
	}
}

func TestZeros(t *testing.T) {
	tests := []struct {
		name  string
		coeff []float64
		want  []complex128
	}{
		{"distinct real", []float64{1, -3, 2}, []complex128{1, 2}},
		{"complex pair", []float64{1, 0, 1}, []complex128{-1i, 1i}},
		{"leading zero", []float64{0, 2, -1}, []complex128{0.5}},
		{"trailing zeros", []float64{1, 0, 0}, []complex128{0, 0}},
		{"repeated", []float64{1, -2, 1}, []complex128{1, 1}},
		{"constant", []float64{3}, nil},
		{"all zero", []float64{0, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Zeros(tt.coeff)
			if err != nil {
				t.Fatalf("Zeros returned error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d zeros, got %d (%v)", len(tt.want), len(got), got)
			}
			if !sameZeros(got, tt.want, 1e-6) {
				t.Errorf("Zeros = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRealZeros(t *testing.T) {
	// (x^2 + 1)(x - 2)
	got, err := RealZeros([]float64{1, -2, 1, -2}, 1e-9)
	if err != nil {
		t.Fatalf("RealZeros returned error: %v", err)
	}
	if len(got) != 1 || math.Abs(got[0]-2) > 1e-9 {
		t.Errorf("expected single real zero 2, got %v", got)
	}
}

func TestInsideUnitCircle(t *testing.T) {
	tests := []struct {
		name    string
		zeros   []complex128
		inside  bool
		outside int
	}{
		{"empty", nil, true, 0},
		{"origin", []complex128{0, 0, 0}, true, 0},
		{"boundary is unstable", []complex128{1}, false, 1},
		{"boundary imaginary", []complex128{0.5, 1i}, false, 1},
		{"mixed", []complex128{0.2, 1.5, -2, 0.9i}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inside, outside := InsideUnitCircle(tt.zeros)
			if inside != tt.inside || outside != tt.outside {
				t.Errorf("InsideUnitCircle = (%v, %d), want (%v, %d)", inside, outside, tt.inside, tt.outside)
			}
		})
	}
}

func TestClassify_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		alpha  []float64
		kbeta  []float64
		inside bool
	}{
		{"deadbeat", []float64{1, 0, 0}, []float64{1, 0, 0}, true},
		// x^3 - x^2 + 1 has a complex pair of modulus ~1.15
		{"unit kbeta tail", []float64{1, 0, 0}, []float64{0, 0, 1}, false},
		{"integrator", []float64{1}, []float64{0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(CharacteristicPolynomial(tt.alpha, tt.kbeta))
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if c.Inside != tt.inside {
				t.Errorf("Inside = %v, want %v (zeros %v)", c.Inside, tt.inside, c.Zeros)
			}
			if c.Inside && c.Radius >= 1 {
				t.Errorf("radius %f inconsistent with inside verdict", c.Radius)
			}
		})
	}
}

func TestEval(t *testing.T) {
	if got := Eval([]float64{1, -3, 2}, 2); cmplx.Abs(got) > 1e-12 {
		t.Errorf("Eval at root = %v, want 0", got)
	}
	if got := Eval([]float64{1, 0, 1}, 1i); cmplx.Abs(got) > 1e-12 {
		t.Errorf("Eval at i = %v, want 0", got)
	}
}

// sameZeros matches two root multisets up to tol, ignoring order.
func sameZeros(got, want []complex128, tol float64) bool {
	used := make([]bool, len(got))
	for _, w := range want {
		found := false
		for i, g := range got {
			if !used[i] && cmplx.Abs(g-w) <= tol {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return len(got) == len(want)
}
