// Package poles builds the closed-loop characteristic polynomial of a
// step-size controller and classifies its roots against the unit circle.
package poles

// CharacteristicPolynomial collapses (x-1)Q(x) + P(x) into its coefficient
// list, highest degree first. alpha and kbeta must both have length n >= 1;
// alpha[0] is normally 1 but is used as given.
func CharacteristicPolynomial(alpha, kbeta []float64) []float64 {
	n := len(alpha)
	coeff := make([]float64, n+1)
	coeff[0] = 1
	for i := 0; i < n-1; i++ {
		coeff[i+1] = kbeta[i] + alpha[i+1] - alpha[i]
	}
	coeff[n] = kbeta[n-1] - alpha[n-1]
	return coeff
}

// Eval evaluates a highest-degree-first polynomial at z by Horner's rule.
func Eval(coeff []float64, z complex128) complex128 {
	var out complex128
	for _, c := range coeff {
		out = out*z + complex(c, 0)
	}
	return out
}
