package poles

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var ErrNoConvergence = errors.New("poles: eigenvalue decomposition did not converge")

// Zeros returns every root of the polynomial whose coefficients are given
// highest degree first, repeated and complex roots included. Leading zero
// coefficients are dropped; trailing zeros contribute roots at the origin.
// The remaining roots are the eigenvalues of the companion matrix.
// Roots are sorted by real part, then imaginary part.
func Zeros(coeff []float64) ([]complex128, error) {
	start := 0
	for start < len(coeff) && coeff[start] == 0 {
		start++
	}
	end := len(coeff)
	for end > start && coeff[end-1] == 0 {
		end--
	}
	if start == len(coeff) {
		return nil, nil
	}
	trailing := len(coeff) - end
	core := coeff[start:end]
	deg := len(core) - 1

	roots := make([]complex128, 0, deg+trailing)
	if deg > 0 {
		companion := mat.NewDense(deg, deg, nil)
		for j := 0; j < deg; j++ {
			companion.Set(0, j, -core[j+1]/core[0])
		}
		for i := 1; i < deg; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if ok := eig.Factorize(companion, mat.EigenNone); !ok {
			return nil, ErrNoConvergence
		}
		roots = append(roots, eig.Values(nil)...)
	}
	for i := 0; i < trailing; i++ {
		roots = append(roots, 0)
	}

	sort.Slice(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
	return roots, nil
}

// RealZeros keeps the roots whose imaginary part is negligible relative to
// their magnitude, returning their real parts in ascending order.
func RealZeros(coeff []float64, tol float64) ([]float64, error) {
	zeros, err := Zeros(coeff)
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, z := range zeros {
		scale := 1.0
		if a := abs(z); a > 1 {
			scale = a
		}
		if imag(z) <= tol*scale && imag(z) >= -tol*scale {
			out = append(out, real(z))
		}
	}
	return out, nil
}
