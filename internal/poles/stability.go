package poles

import "math/cmplx"

// Classification summarizes where a set of closed-loop poles lies.
type Classification struct {
	Zeros   []complex128
	Inside  bool
	Outside int
	Radius  float64
}

// InsideUnitCircle reports whether every zero lies strictly inside the unit
// disk and how many do not. A zero on the circle counts as outside.
func InsideUnitCircle(zeros []complex128) (bool, int) {
	inside := true
	outside := 0
	for _, z := range zeros {
		if abs(z) >= 1 {
			inside = false
			outside++
		}
	}
	return inside, outside
}

// SpectralRadius is the largest zero modulus, 0 for no zeros.
func SpectralRadius(zeros []complex128) float64 {
	r := 0.0
	for _, z := range zeros {
		if a := abs(z); a > r {
			r = a
		}
	}
	return r
}

// Classify finds the zeros of coeff and classifies them.
func Classify(coeff []float64) (Classification, error) {
	zeros, err := Zeros(coeff)
	if err != nil {
		return Classification{}, err
	}
	inside, outside := InsideUnitCircle(zeros)
	return Classification{
		Zeros:   zeros,
		Inside:  inside,
		Outside: outside,
		Radius:  SpectralRadius(zeros),
	}, nil
}

func abs(z complex128) float64 {
	return cmplx.Abs(z)
}
