// Package equations turns polynomial identities in x into coefficient
// equations over the controller unknowns.
package equations

import (
	"fmt"
	"math/big"

	"github.com/san-kum/stepctl/internal/symbolic"
)

// Mode selects how coefficient equations are extracted.
type Mode int

const (
	// ModeBasis reads each x-power coefficient directly from its full
	// monomial basis. It needs no combination bound.
	ModeBasis Mode = iota
	// ModeProbe rebuilds each coefficient by probing the constant term,
	// every single parameter and every product of 2..k distinct parameters.
	// Monomials outside that set are dropped.
	ModeProbe
)

func (m Mode) String() string {
	switch m {
	case ModeBasis:
		return "basis"
	case ModeProbe:
		return "probe"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "basis" or "probe"; the empty string means basis.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "basis":
		return ModeBasis, nil
	case "probe":
		return ModeProbe, nil
	default:
		return 0, fmt.Errorf("equations: unknown derivation mode %q", s)
	}
}

// Derive dispatches to the extraction selected by m.
func (m Mode) Derive(expr symbolic.Poly, x symbolic.Param, params []symbolic.Param, order, maxCombinations int) []symbolic.Poly {
	if m == ModeProbe {
		return ParameterEquations(expr, x, params, order, maxCombinations)
	}
	return CoefficientEquations(expr, x, order)
}

// CoefficientEquations returns the coefficient of x^i for i in 0..order-1,
// each read as "coefficient = 0". Powers beyond the degree of expr yield
// the zero equation.
func CoefficientEquations(expr symbolic.Poly, x symbolic.Param, order int) []symbolic.Poly {
	eqs := make([]symbolic.Poly, order)
	for i := range eqs {
		eqs[i] = expr.CoeffOf(x.ID, i)
	}
	return eqs
}

// ParameterEquations extracts one equation per power 0..order-1 of x by
// summing, within the coefficient of x^i, the constant term, the linear
// term of each parameter and the term of each product of 2..maxCombinations
// distinct parameters.
//
// maxCombinations must cover the highest cross-term degree present in the
// coefficients of expr. Terms it does not cover, and powers of a single
// parameter, are silently left out.
func ParameterEquations(expr symbolic.Poly, x symbolic.Param, params []symbolic.Param, order, maxCombinations int) []symbolic.Poly {
	combos := Combinations(params, maxCombinations)
	probes := make([]symbolic.Monomial, 0, 1+len(params)+len(combos))
	probes = append(probes, symbolic.Monomial{})
	for _, p := range params {
		probes = append(probes, symbolic.ProductOf(p))
	}
	for _, combo := range combos {
		probes = append(probes, symbolic.ProductOf(combo...))
	}

	eqs := make([]symbolic.Poly, order)
	for i := range eqs {
		coeff := expr.CoeffOf(x.ID, i)
		eq := symbolic.Zero()
		for _, m := range probes {
			c := coeff.CoeffMonomial(m)
			if c.Sign() == 0 {
				continue
			}
			eq = eq.Add(symbolic.MonomialPoly(m, c))
		}
		eqs[i] = eq
	}
	return eqs
}

// Combinations lists every subset of params with 2..k elements, smaller
// subsets first and each size in lexicographic index order.
func Combinations(params []symbolic.Param, k int) [][]symbolic.Param {
	var out [][]symbolic.Param
	for size := 2; size <= k; size++ {
		out = appendCombinations(out, params, size)
	}
	return out
}

func appendCombinations(out [][]symbolic.Param, params []symbolic.Param, size int) [][]symbolic.Param {
	if size > len(params) {
		return out
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]symbolic.Param, size)
		for i, j := range idx {
			combo[i] = params[j]
		}
		out = append(out, combo)

		i := size - 1
		for i >= 0 && idx[i] == len(params)-size+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// FreeParams lists the unknowns occurring in expr other than x, in
// registry order.
func FreeParams(expr symbolic.Poly, x symbolic.Param, reg *symbolic.Registry) []symbolic.Param {
	var out []symbolic.Param
	for _, id := range expr.Vars() {
		if id == x.ID {
			continue
		}
		if p, ok := reg.Lookup(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Residual evaluates every equation at exact values and returns the
// largest absolute residual as a float. Equations still holding
// unassigned variables are skipped.
func Residual(eqs []symbolic.Poly, values map[int]*big.Rat) float64 {
	worst := 0.0
	for _, eq := range eqs {
		r, ok := eq.SubstituteValues(values).Constant()
		if !ok {
			continue
		}
		f := symbolic.RatFloat(r)
		if f < 0 {
			f = -f
		}
		if f > worst {
			worst = f
		}
	}
	return worst
}
