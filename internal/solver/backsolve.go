package solver

import (
	"math"
	"math/big"
	"math/cmplx"
	"sort"

	"github.com/san-kum/stepctl/internal/poles"
	"github.com/san-kum/stepctl/internal/symbolic"
)

// branch is one partial solution of a triangular system. values maps a
// determined variable to a polynomial in the free variables; free
// variables map to themselves. approx marks variables whose value went
// through floating point.
type branch struct {
	values map[int]symbolic.Poly
	free   map[int]bool
	stuck  map[int]bool
	approx map[int]bool
}

func newBranch() branch {
	return branch{
		values: map[int]symbolic.Poly{},
		free:   map[int]bool{},
		stuck:  map[int]bool{},
		approx: map[int]bool{},
	}
}

func (b branch) clone() branch {
	nb := newBranch()
	for k, v := range b.values {
		nb.values[k] = v
	}
	for k := range b.free {
		nb.free[k] = true
	}
	for k := range b.stuck {
		nb.stuck[k] = true
	}
	for k := range b.approx {
		nb.approx[k] = true
	}
	return nb
}

func (b branch) touchesApprox(p symbolic.Poly) bool {
	for _, v := range p.Vars() {
		if b.approx[v] {
			return true
		}
	}
	return false
}

// apply substitutes every determined variable of b into p.
func (b branch) apply(p symbolic.Poly) symbolic.Poly {
	for _, v := range p.Vars() {
		if val, ok := b.values[v]; ok && !b.free[v] {
			p = p.Substitute(v, val)
		}
	}
	return p
}

func (b branch) touchesStuck(p symbolic.Poly) bool {
	for _, v := range p.Vars() {
		if b.stuck[v] {
			return true
		}
	}
	return false
}

// leadVar is the highest-ranked (lowest ID) variable of p.
func leadVar(p symbolic.Poly) int {
	vars := p.Vars()
	if len(vars) == 0 {
		return -1
	}
	return vars[0]
}

type backSolver struct {
	basis    []symbolic.Poly
	vars     []int
	required map[int]bool
	rootTol  float64
	out      []branch
}

// backSolve walks a lex Gröbner basis from the last-ranked variable to the
// first, branching over the real roots of each univariate polynomial. A
// variable outside required whose common roots are all complex is marked
// stuck and the branch carries on.
func backSolve(basis []symbolic.Poly, required map[int]bool, rootTol float64) []branch {
	seen := map[int]bool{}
	var vars []int
	for _, g := range basis {
		for _, v := range g.Vars() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	sort.Ints(vars)

	bs := &backSolver{basis: basis, vars: vars, required: required, rootTol: rootTol}
	bs.extend(newBranch(), len(vars)-1)
	return bs.out
}

func (bs *backSolver) extend(b branch, k int) {
	if k < 0 {
		bs.out = append(bs.out, b)
		return
	}
	w := bs.vars[k]

	var (
		univariate [][]*big.Rat
		linear     *symbolic.Poly
		other      int
		inherited  bool
	)
	for _, g := range bs.basis {
		if leadVar(g) != w || b.touchesStuck(g) {
			continue
		}
		inherited = inherited || b.touchesApprox(g)
		h := b.apply(g)
		if h.IsZero() {
			continue
		}
		if _, isConst := h.Constant(); isConst {
			return
		}
		if !h.Has(w) {
			continue
		}
		if coeffs, ok := h.Univariate(w); ok {
			univariate = append(univariate, coeffs)
			continue
		}
		if linear == nil && h.Degree(w) == 1 {
			if coeff, isConst := h.CoeffOf(w, 1).Constant(); isConst {
				r := h.Sub(symbolic.Const(coeff).Mul(symbolic.VarID(w)))
				inv := new(big.Rat).Inv(coeff)
				inv.Neg(inv)
				expr := r.Scale(inv)
				linear = &expr
				continue
			}
		}
		other++
	}

	switch {
	case len(univariate) > 0:
		roots, exact := bs.commonRoots(univariate)
		if len(roots) == 0 && !bs.required[w] && complexRoot(univariate) {
			nb := b.clone()
			nb.stuck[w] = true
			bs.extend(nb, k-1)
			return
		}
		for _, r := range roots {
			nb := b.clone()
			nb.values[w] = symbolic.Const(r)
			if !exact || inherited {
				nb.approx[w] = true
			}
			bs.extend(nb, k-1)
		}
	case linear != nil:
		nb := b.clone()
		nb.values[w] = *linear
		if inherited {
			nb.approx[w] = true
		}
		bs.extend(nb, k-1)
	case other == 0:
		nb := b.clone()
		nb.values[w] = symbolic.VarID(w)
		nb.free[w] = true
		bs.extend(nb, k-1)
	default:
		nb := b.clone()
		nb.stuck[w] = true
		bs.extend(nb, k-1)
	}
}

// commonRoots returns the real roots, ascending, of the lowest-degree
// polynomial that also satisfy the others.
func (bs *backSolver) commonRoots(polys [][]*big.Rat) ([]*big.Rat, bool) {
	sort.SliceStable(polys, func(i, j int) bool { return len(polys[i]) < len(polys[j]) })

	roots, exact := realRoots(polys[0], bs.rootTol)
	var out []*big.Rat
	for _, r := range roots {
		ok := true
		for _, q := range polys[1:] {
			if exact {
				if hornerRat(q, r).Sign() != 0 {
					ok = false
					break
				}
				continue
			}
			if !nearZero(q, symbolic.RatFloat(r)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, exact
}

// complexRoot reports whether the polynomials share a non-real root.
func complexRoot(polys [][]*big.Rat) bool {
	sort.SliceStable(polys, func(i, j int) bool { return len(polys[i]) < len(polys[j]) })
	zeros, err := poles.Zeros(ratFloats(polys[0]))
	if err != nil {
		return false
	}
	for _, z := range zeros {
		if imag(z) == 0 {
			continue
		}
		shared := true
		for _, q := range polys[1:] {
			f := ratFloats(q)
			scale := 0.0
			for _, c := range f {
				scale = scale*cmplx.Abs(z) + math.Abs(c)
			}
			if cmplx.Abs(poles.Eval(f, z)) > 1e-6*math.Max(1, scale) {
				shared = false
				break
			}
		}
		if shared {
			return true
		}
	}
	return false
}

func ratFloats(coeffs []*big.Rat) []float64 {
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = symbolic.RatFloat(c)
	}
	return out
}

// realRoots solves linear and rational-discriminant quadratics exactly and
// everything else through companion-matrix eigenvalues.
func realRoots(coeffs []*big.Rat, tol float64) ([]*big.Rat, bool) {
	for len(coeffs) > 0 && coeffs[0].Sign() == 0 {
		coeffs = coeffs[1:]
	}
	switch len(coeffs) {
	case 0, 1:
		return nil, true
	case 2:
		r := new(big.Rat).Quo(coeffs[1], coeffs[0])
		return []*big.Rat{r.Neg(r)}, true
	case 3:
		if roots, ok := rationalQuadratic(coeffs[0], coeffs[1], coeffs[2]); ok {
			return roots, true
		}
	}

	zeros, err := poles.RealZeros(ratFloats(coeffs), tol)
	if err != nil {
		return nil, false
	}
	sort.Float64s(zeros)

	var out []*big.Rat
	for i, z := range zeros {
		if i > 0 && math.Abs(z-zeros[i-1]) <= 1e-7*math.Max(1, math.Abs(z)) {
			continue
		}
		out = append(out, new(big.Rat).SetFloat64(z))
	}
	return out, false
}

// rationalQuadratic returns the real roots of ax^2+bx+c, ascending, when
// the discriminant is a perfect rational square (or negative).
func rationalQuadratic(a, b, c *big.Rat) ([]*big.Rat, bool) {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	switch disc.Sign() {
	case -1:
		return nil, true
	case 0:
		r := new(big.Rat).Quo(b, new(big.Rat).Mul(big.NewRat(2, 1), a))
		return []*big.Rat{r.Neg(r)}, true
	}

	sq, ok := ratSqrt(disc)
	if !ok {
		return nil, false
	}
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	negB := new(big.Rat).Neg(b)
	r1 := new(big.Rat).Quo(new(big.Rat).Sub(negB, sq), twoA)
	r2 := new(big.Rat).Quo(new(big.Rat).Add(negB, sq), twoA)
	if r1.Cmp(r2) > 0 {
		r1, r2 = r2, r1
	}
	return []*big.Rat{r1, r2}, true
}

func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	num, ok := intSqrt(r.Num())
	if !ok {
		return nil, false
	}
	den, ok := intSqrt(r.Denom())
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

func intSqrt(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	s := new(big.Int).Sqrt(n)
	return s, new(big.Int).Mul(s, s).Cmp(n) == 0
}

func hornerRat(coeffs []*big.Rat, x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for _, c := range coeffs {
		acc.Mul(acc, x)
		acc.Add(acc, c)
	}
	return acc
}

func nearZero(coeffs []*big.Rat, x float64) bool {
	acc, scale := 0.0, 0.0
	for _, c := range coeffs {
		f := symbolic.RatFloat(c)
		acc = acc*x + f
		scale = scale*math.Abs(x) + math.Abs(f)
	}
	return math.Abs(acc) <= 1e-6*math.Max(1, scale)
}
