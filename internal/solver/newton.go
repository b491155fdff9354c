package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/stepctl/internal/symbolic"
)

const newtonStart = 0.5

// newton looks for one real zero of eqs by damped Gauss-Newton iteration,
// starting every variable at 0.5. Each step solves the Jacobian system in
// the least-squares sense so over- and under-determined systems work.
func newton(eqs []symbolic.Poly, vars []int, maxIter int, tol float64) (map[int]float64, error) {
	m, n := len(eqs), len(vars)
	jac := make([][]symbolic.Poly, m)
	for i, eq := range eqs {
		jac[i] = make([]symbolic.Poly, n)
		for j, v := range vars {
			jac[i][j] = eq.Derivative(v)
		}
	}

	point := make(map[int]float64, n)
	for _, v := range vars {
		point[v] = newtonStart
	}

	residual := func(at map[int]float64) (*mat.VecDense, float64) {
		f := mat.NewVecDense(m, nil)
		norm := 0.0
		for i, eq := range eqs {
			val := eq.EvalFloat(at)
			f.SetVec(i, val)
			norm = math.Max(norm, math.Abs(val))
		}
		return f, norm
	}

	f, norm := residual(point)
	for iter := 0; iter < maxIter; iter++ {
		if norm <= tol {
			return point, nil
		}

		J := mat.NewDense(m, n, nil)
		for i := range jac {
			for j := range jac[i] {
				J.Set(i, j, jac[i][j].EvalFloat(point))
			}
		}
		var step mat.VecDense
		if err := step.SolveVec(J, f); err != nil {
			return nil, ErrNoConvergence
		}

		// halve the step until the residual stops growing
		lambda := 1.0
		var (
			next     map[int]float64
			nextF    *mat.VecDense
			nextNorm float64
		)
		for tries := 0; tries < 20; tries++ {
			next = make(map[int]float64, n)
			for j, v := range vars {
				next[v] = point[v] - lambda*step.AtVec(j)
			}
			nextF, nextNorm = residual(next)
			if nextNorm < norm {
				break
			}
			lambda /= 2
		}
		if nextNorm >= norm {
			break
		}
		point, f, norm = next, nextF, nextNorm
	}
	if norm <= math.Sqrt(tol) {
		return point, nil
	}
	return nil, ErrNoConvergence
}
