// Package solver solves systems of polynomial equations with rational
// coefficients.
//
// Solve first eliminates every unknown that leads an equation linearly with
// a constant coefficient, then triangularises the remainder with a lex
// Gröbner basis and back-solves it, branching over real roots. Unknowns the
// system does not pin down come back Unresolved, or Symbolic when they are
// a polynomial in unconstrained unknowns; so do unknowns outside
// System.Parameters whose roots are all complex. When the basis grows past
// the pair budget a Newton iteration supplies a single numeric branch
// instead.
package solver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/stepctl/internal/symbolic"
)

// Solve returns every real solution branch of sys. Branches are ordered by
// the ascending real roots of the last-ranked unknowns first. An empty
// Solution means the system is inconsistent over the reals. Errors are
// reserved for cancellation and numerical breakdown; a Newton fallback
// that fails returns an error wrapping ErrNoConvergence.
func Solve(ctx context.Context, sys System, opts ...Option) (Solution, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}

	rest, subs, ok := eliminateLinear(sys.Equations)
	if !ok {
		log.Debug("system inconsistent after linear elimination")
		return Solution{}, nil
	}
	log.Debug("linear elimination",
		zap.Int("equations", len(sys.Equations)),
		zap.Int("eliminated", len(subs)),
		zap.Int("remaining", len(rest)))

	var branches []branch
	basis, err := groebner(ctx, rest, o.maxPairs)
	switch {
	case err == nil:
		log.Debug("groebner basis", zap.Int("size", len(basis)))
		if len(basis) == 1 {
			if _, isConst := basis[0].Constant(); isConst {
				return Solution{}, nil
			}
		}
		// eliminated unknowns only matter on the variety of the basis
		for i := range subs {
			subs[i].expr = normalForm(subs[i].expr, basis)
		}
		branches = backSolve(basis, sys.required(), o.rootTol)
	case errors.Is(err, ErrBasisTooLarge):
		log.Warn("groebner basis too large, falling back to newton", zap.Int("max_pairs", o.maxPairs))
		b, nerr := newtonBranch(rest, o)
		if nerr != nil {
			return Solution{}, fmt.Errorf("newton fallback over %d equations: %w", len(rest), nerr)
		}
		branches = []branch{b}
	default:
		return Solution{}, err
	}

	sol := Solution{Branches: make([]Assignment, 0, len(branches))}
	for _, b := range branches {
		sol.Branches = append(sol.Branches, assemble(b, subs, sys.Unknowns))
	}
	log.Debug("solved", zap.Int("branches", len(sol.Branches)))
	return sol, nil
}

func newtonBranch(eqs []symbolic.Poly, o options) (branch, error) {
	seen := map[int]bool{}
	var vars []int
	for _, eq := range eqs {
		for _, v := range eq.Vars() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	point, err := newton(eqs, vars, o.newtonIter, o.newtonTol)
	if err != nil {
		return branch{}, err
	}
	b := newBranch()
	for v, f := range point {
		b.values[v] = symbolic.Float(f)
		b.approx[v] = true
	}
	return b, nil
}

// assemble resolves every unknown of one branch, back-substituting the
// linearly eliminated unknowns.
func assemble(b branch, subs []substitution, unknowns []symbolic.Param) Assignment {
	exprs := make(map[int]symbolic.Poly, len(b.values)+len(subs))
	approx := make(map[int]bool, len(b.approx))
	for v, e := range b.values {
		exprs[v] = e
		approx[v] = b.approx[v]
	}
	for _, s := range subs {
		exprs[s.v] = b.apply(s.expr)
		approx[s.v] = b.touchesApprox(s.expr)
	}

	out := make(Assignment, len(unknowns))
	for _, u := range unknowns {
		e, ok := exprs[u.ID]
		if !ok || b.free[u.ID] || b.stuck[u.ID] || b.touchesStuck(e) {
			out[u.ID] = UnresolvedValue()
			continue
		}
		if c, isConst := e.Constant(); isConst {
			if !approx[u.ID] {
				out[u.ID] = ExactValue(c)
			} else {
				out[u.ID] = NumericValue(symbolic.RatFloat(c))
			}
			continue
		}
		out[u.ID] = SymbolicValue(e)
	}
	return out
}
