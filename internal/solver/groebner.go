package solver

import (
	"context"
	"math/big"
	"sort"

	"github.com/san-kum/stepctl/internal/symbolic"
)

type pair struct{ i, j int }

// groebner computes the reduced Gröbner basis of polys under the lex order
// of symbolic.LexCompare. The result is sorted by ascending leading
// monomial, so polynomials in the last-ranked variables come first. A
// basis of {1} means the system has no solution.
func groebner(ctx context.Context, polys []symbolic.Poly, maxPairs int) ([]symbolic.Poly, error) {
	var basis []symbolic.Poly
	for _, p := range polys {
		if p.IsZero() {
			continue
		}
		basis = append(basis, monic(p))
	}

	var pairs []pair
	for j := range basis {
		for i := 0; i < j; i++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	processed := 0
	for len(pairs) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		processed++
		if maxPairs > 0 && processed > maxPairs {
			return nil, ErrBasisTooLarge
		}

		pr := pairs[0]
		pairs = pairs[1:]

		fi, _ := basis[pr.i].Leading()
		fj, _ := basis[pr.j].Leading()
		if fi.Mono.Coprime(fj.Mono) {
			continue
		}

		r := normalForm(sPoly(basis[pr.i], basis[pr.j]), basis)
		if r.IsZero() {
			continue
		}
		r = monic(r)
		if _, isConst := r.Constant(); isConst {
			return []symbolic.Poly{symbolic.One()}, nil
		}
		for k := range basis {
			pairs = append(pairs, pair{k, len(basis)})
		}
		basis = append(basis, r)
	}

	return reduceBasis(basis), nil
}

// sPoly cancels the leading terms of f and g against their lcm.
func sPoly(f, g symbolic.Poly) symbolic.Poly {
	lf, _ := f.Leading()
	lg, _ := g.Leading()
	l := lf.Mono.LCM(lg.Mono)
	a := f.MulTerm(lf.Mono.Div(l), new(big.Rat).Inv(lf.Coeff))
	b := g.MulTerm(lg.Mono.Div(l), new(big.Rat).Inv(lg.Coeff))
	return a.Sub(b)
}

// normalForm fully reduces f modulo divisors.
func normalForm(f symbolic.Poly, divisors []symbolic.Poly) symbolic.Poly {
	leads := make([]symbolic.Term, len(divisors))
	for i, d := range divisors {
		leads[i], _ = d.Leading()
	}

	rem := symbolic.Zero()
	p := f
	for !p.IsZero() {
		lt, _ := p.Leading()
		reduced := false
		for i, ld := range leads {
			if !ld.Mono.Divides(lt.Mono) {
				continue
			}
			c := new(big.Rat).Quo(lt.Coeff, ld.Coeff)
			p = p.Sub(divisors[i].MulTerm(ld.Mono.Div(lt.Mono), c))
			reduced = true
			break
		}
		if !reduced {
			head := symbolic.MonomialPoly(lt.Mono, lt.Coeff)
			rem = rem.Add(head)
			p = p.Sub(head)
		}
	}
	return rem
}

func monic(p symbolic.Poly) symbolic.Poly {
	lt, ok := p.Leading()
	if !ok {
		return p
	}
	return p.Scale(new(big.Rat).Inv(lt.Coeff))
}

// reduceBasis turns a Gröbner basis into the unique reduced one.
func reduceBasis(basis []symbolic.Poly) []symbolic.Poly {
	sortByLeading(basis)

	var minimal []symbolic.Poly
	for i, g := range basis {
		lg, _ := g.Leading()
		redundant := false
		for j, h := range basis {
			if i == j {
				continue
			}
			lh, _ := h.Leading()
			if !lh.Mono.Divides(lg.Mono) {
				continue
			}
			// equal leading monomials: keep the earliest
			if symbolic.LexCompare(lh.Mono, lg.Mono) != 0 || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, g)
		}
	}

	out := make([]symbolic.Poly, len(minimal))
	for i, g := range minimal {
		others := make([]symbolic.Poly, 0, len(minimal)-1)
		others = append(others, minimal[:i]...)
		others = append(others, minimal[i+1:]...)
		lt, _ := g.Leading()
		head := symbolic.MonomialPoly(lt.Mono, lt.Coeff)
		out[i] = monic(head.Add(normalForm(g.Sub(head), others)))
	}
	sortByLeading(out)
	return out
}

func sortByLeading(polys []symbolic.Poly) {
	sort.SliceStable(polys, func(i, j int) bool {
		a, _ := polys[i].Leading()
		b, _ := polys[j].Leading()
		return symbolic.LexCompare(a.Mono, b.Mono) < 0
	})
}
