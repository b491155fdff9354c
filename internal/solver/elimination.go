package solver

import (
	"math/big"

	"github.com/san-kum/stepctl/internal/symbolic"
)

// substitution records v = expr, where expr never mentions an eliminated
// variable.
type substitution struct {
	v    int
	expr symbolic.Poly
}

// eliminateLinear repeatedly solves an equation for its highest-ranked
// variable when that variable appears with degree one and a constant
// coefficient, and substitutes the result everywhere. The substituted
// expression therefore only mentions lower-ranked variables. Among the
// candidates the highest-ranked variable goes first. ok is false when an
// equation reduces to a nonzero constant.
func eliminateLinear(eqs []symbolic.Poly) (rest []symbolic.Poly, subs []substitution, ok bool) {
	rest, ok = prune(eqs)
	if !ok {
		return nil, nil, false
	}

	for {
		idx, v, expr, found := findLinear(rest)
		if !found {
			return rest, subs, true
		}

		next := make([]symbolic.Poly, 0, len(rest)-1)
		for i, eq := range rest {
			if i == idx {
				continue
			}
			next = append(next, eq.Substitute(v, expr))
		}
		for i := range subs {
			subs[i].expr = subs[i].expr.Substitute(v, expr)
		}
		subs = append(subs, substitution{v: v, expr: expr})

		rest, ok = prune(next)
		if !ok {
			return nil, nil, false
		}
	}
}

func findLinear(eqs []symbolic.Poly) (idx, v int, expr symbolic.Poly, found bool) {
	var coeff *big.Rat
	for i, eq := range eqs {
		w := leadVar(eq)
		if w < 0 || (found && w >= v) || eq.Degree(w) != 1 {
			continue
		}
		c, isConst := eq.CoeffOf(w, 1).Constant()
		if !isConst || c.Sign() == 0 {
			continue
		}
		idx, v, coeff, found = i, w, c, true
	}
	if !found {
		return 0, 0, symbolic.Poly{}, false
	}
	// eq = coeff*v + r  =>  v = -r/coeff
	r := eqs[idx].Sub(symbolic.Const(coeff).Mul(symbolic.VarID(v)))
	inv := new(big.Rat).Inv(coeff)
	inv.Neg(inv)
	return idx, v, r.Scale(inv), true
}

// prune drops identically zero equations and reports false when a nonzero
// constant equation makes the system inconsistent.
func prune(eqs []symbolic.Poly) ([]symbolic.Poly, bool) {
	out := make([]symbolic.Poly, 0, len(eqs))
	for _, eq := range eqs {
		if eq.IsZero() {
			continue
		}
		if _, isConst := eq.Constant(); isConst {
			return nil, false
		}
		out = append(out, eq)
	}
	return out, true
}
