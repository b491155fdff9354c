package analysis

import (
	"errors"
	"math"
)

var ErrImproper = errors.New("analysis: numerator degree exceeds denominator degree")

// Filter runs the causal difference equation of num(z)/den(z) over input.
// Both polynomials are given highest degree first; den[0] must be nonzero.
//
// With n = deg den and the numerator right-aligned to n+1 coefficients:
//
//	d0*y[k] = sum_j num[j]*u[k-j] - sum_{j>=1} d[j]*y[k-j]
func Filter(num, den, input []float64) ([]float64, error) {
	if len(num) > len(den) {
		return nil, ErrImproper
	}
	n := len(den) - 1
	b := make([]float64, n+1)
	copy(b[n+1-len(num):], num)

	out := make([]float64, len(input))
	for k := range input {
		acc := 0.0
		for j := 0; j <= n && j <= k; j++ {
			acc += b[j] * input[k-j]
			if j > 0 {
				acc -= den[j] * out[k-j]
			}
		}
		out[k] = acc / den[0]
	}
	return out, nil
}

// ImpulseResponse is the free response of the closed loop whose
// characteristic polynomial is char: y[0] = 1 followed by the decay of
// its modes. A stable loop decays to zero; a deadbeat loop of order n
// is exactly zero after at most n steps.
func ImpulseResponse(char []float64, steps int) []float64 {
	if len(char) == 0 || steps <= 0 {
		return nil
	}
	num := make([]float64, len(char))
	num[0] = 1
	input := make([]float64, steps)
	input[0] = 1
	out, _ := Filter(num, char, input)
	return out
}

// SettlingStep is the first index from which every sample stays within tol
// of target, or -1 when the response never settles.
func SettlingStep(resp []float64, target, tol float64) int {
	settled := -1
	for i, y := range resp {
		if math.Abs(y-target) <= tol {
			if settled < 0 {
				settled = i
			}
			continue
		}
		settled = -1
	}
	return settled
}

// Peak returns the largest absolute sample and its index.
func Peak(resp []float64) (float64, int) {
	peak, idx := 0.0, -1
	for i, y := range resp {
		if a := math.Abs(y); idx < 0 || a > peak {
			peak, idx = a, i
		}
	}
	return peak, idx
}
