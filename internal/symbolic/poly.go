package symbolic

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Namer resolves variable IDs to display names.
type Namer interface {
	Name(id int) string
}

type anonymous struct{}

func (anonymous) Name(id int) string { return "v" + strconv.Itoa(id) }

// Term is one coefficient-monomial pair of a Poly.
type Term struct {
	Mono  Monomial
	Coeff *big.Rat
}

// Poly is an immutable polynomial with rational coefficients. The zero
// value is the zero polynomial. Every operation returns a fresh Poly in
// expanded form; coefficients stored in a Poly are never mutated.
type Poly struct {
	terms map[string]Term
}

func Zero() Poly { return Poly{} }

func One() Poly { return Int(1) }

func Int(n int64) Poly { return Const(new(big.Rat).SetInt64(n)) }

func Const(r *big.Rat) Poly {
	p := Poly{terms: map[string]Term{}}
	p.addTerm(nil, r)
	return p
}

// Float converts f through its shortest decimal form so that 0.1 becomes
// exactly 1/10 rather than the nearest binary fraction.
func Float(f float64) Poly {
	return Const(RatFromFloat(f))
}

func Var(p Param) Poly { return VarID(p.ID) }

func VarID(id int) Poly {
	p := Poly{terms: map[string]Term{}}
	p.addTerm(Monomial{{Var: id, Exp: 1}}, big.NewRat(1, 1))
	return p
}

// MonomialPoly builds coeff*m.
func MonomialPoly(m Monomial, coeff *big.Rat) Poly {
	p := Poly{terms: map[string]Term{}}
	p.addTerm(m, coeff)
	return p
}

// addTerm accumulates coeff*m into p in place. Only used while p is being
// built and not yet shared.
func (p *Poly) addTerm(m Monomial, coeff *big.Rat) {
	if coeff.Sign() == 0 {
		return
	}
	if p.terms == nil {
		p.terms = map[string]Term{}
	}
	k := m.key()
	if t, ok := p.terms[k]; ok {
		sum := new(big.Rat).Add(t.Coeff, coeff)
		if sum.Sign() == 0 {
			delete(p.terms, k)
			return
		}
		p.terms[k] = Term{Mono: t.Mono, Coeff: sum}
		return
	}
	p.terms[k] = Term{Mono: m, Coeff: new(big.Rat).Set(coeff)}
}

func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// Len is the number of non-zero terms.
func (p Poly) Len() int { return len(p.terms) }

// Constant returns the value of p when p has no variables.
func (p Poly) Constant() (*big.Rat, bool) {
	switch len(p.terms) {
	case 0:
		return new(big.Rat), true
	case 1:
		if t, ok := p.terms[""]; ok {
			return new(big.Rat).Set(t.Coeff), true
		}
	}
	return nil, false
}

func (p Poly) Add(q Poly) Poly {
	out := Poly{terms: make(map[string]Term, len(p.terms)+len(q.terms))}
	for _, t := range p.terms {
		out.addTerm(t.Mono, t.Coeff)
	}
	for _, t := range q.terms {
		out.addTerm(t.Mono, t.Coeff)
	}
	return out
}

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

func (p Poly) Neg() Poly { return p.Scale(big.NewRat(-1, 1)) }

func (p Poly) Scale(r *big.Rat) Poly {
	out := Poly{terms: make(map[string]Term, len(p.terms))}
	if r.Sign() == 0 {
		return out
	}
	for _, t := range p.terms {
		out.addTerm(t.Mono, new(big.Rat).Mul(t.Coeff, r))
	}
	return out
}

func (p Poly) Mul(q Poly) Poly {
	out := Poly{terms: make(map[string]Term, len(p.terms)*len(q.terms))}
	for _, a := range p.terms {
		for _, b := range q.terms {
			out.addTerm(a.Mono.Mul(b.Mono), new(big.Rat).Mul(a.Coeff, b.Coeff))
		}
	}
	return out
}

// MulTerm multiplies p by coeff*m.
func (p Poly) MulTerm(m Monomial, coeff *big.Rat) Poly {
	out := Poly{terms: make(map[string]Term, len(p.terms))}
	for _, t := range p.terms {
		out.addTerm(t.Mono.Mul(m), new(big.Rat).Mul(t.Coeff, coeff))
	}
	return out
}

// Pow raises p to a non-negative integer power.
func (p Poly) Pow(n int) Poly {
	result := One()
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Product multiplies all factors; the empty product is 1.
func Product(factors ...Poly) Poly {
	out := One()
	for _, f := range factors {
		out = out.Mul(f)
	}
	return out
}

// Terms returns the terms in descending lex order (see LexCompare).
func (p Poly) Terms() []Term {
	out := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		out = append(out, Term{Mono: t.Mono, Coeff: new(big.Rat).Set(t.Coeff)})
	}
	sort.Slice(out, func(i, j int) bool { return LexCompare(out[i].Mono, out[j].Mono) > 0 })
	return out
}

// Leading returns the lex-largest term. ok is false for the zero poly.
func (p Poly) Leading() (Term, bool) {
	var lead Term
	found := false
	for _, t := range p.terms {
		if !found || LexCompare(t.Mono, lead.Mono) > 0 {
			lead = t
			found = true
		}
	}
	if !found {
		return Term{}, false
	}
	return Term{Mono: lead.Mono, Coeff: new(big.Rat).Set(lead.Coeff)}, true
}

// CoeffMonomial returns the coefficient of exactly m (zero when absent).
func (p Poly) CoeffMonomial(m Monomial) *big.Rat {
	if t, ok := p.terms[m.key()]; ok {
		return new(big.Rat).Set(t.Coeff)
	}
	return new(big.Rat)
}

// Vars lists the variables occurring in p in ascending ID order.
func (p Poly) Vars() []int {
	seen := map[int]struct{}{}
	for _, t := range p.terms {
		for _, f := range t.Mono {
			seen[f.Var] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func (p Poly) Has(v int) bool {
	return p.Degree(v) > 0
}

// Degree is the highest exponent of v in p.
func (p Poly) Degree(v int) int {
	d := 0
	for _, t := range p.terms {
		if e := t.Mono.Exp(v); e > d {
			d = e
		}
	}
	return d
}

// CoeffOf returns the coefficient of v^k as a polynomial in the other
// variables.
func (p Poly) CoeffOf(v, k int) Poly {
	out := Poly{terms: map[string]Term{}}
	for _, t := range p.terms {
		if t.Mono.Exp(v) == k {
			out.addTerm(t.Mono.Without(v), t.Coeff)
		}
	}
	return out
}

// Substitute replaces v by q everywhere.
func (p Poly) Substitute(v int, q Poly) Poly {
	if !p.Has(v) {
		return p
	}
	powers := map[int]Poly{0: One(), 1: q}
	power := func(e int) Poly {
		if pw, ok := powers[e]; ok {
			return pw
		}
		pw := q.Pow(e)
		powers[e] = pw
		return pw
	}
	out := Poly{terms: map[string]Term{}}
	for _, t := range p.terms {
		e := t.Mono.Exp(v)
		if e == 0 {
			out.addTerm(t.Mono, t.Coeff)
			continue
		}
		part := power(e).MulTerm(t.Mono.Without(v), t.Coeff)
		for _, pt := range part.terms {
			out.addTerm(pt.Mono, pt.Coeff)
		}
	}
	return out
}

// SubstituteValues replaces each variable in values by its rational value.
// Variables absent from values stay symbolic.
func (p Poly) SubstituteValues(values map[int]*big.Rat) Poly {
	out := Poly{terms: map[string]Term{}}
	for _, t := range p.terms {
		coeff := new(big.Rat).Set(t.Coeff)
		rest := make(Monomial, 0, len(t.Mono))
		for _, f := range t.Mono {
			val, ok := values[f.Var]
			if !ok {
				rest = append(rest, f)
				continue
			}
			for i := 0; i < f.Exp; i++ {
				coeff.Mul(coeff, val)
			}
		}
		out.addTerm(rest, coeff)
	}
	return out
}

// EvalFloat evaluates p in float64 arithmetic. Missing variables count
// as zero.
func (p Poly) EvalFloat(values map[int]float64) float64 {
	sum := 0.0
	for _, t := range p.terms {
		c, _ := t.Coeff.Float64()
		for _, f := range t.Mono {
			v := values[f.Var]
			for i := 0; i < f.Exp; i++ {
				c *= v
			}
		}
		sum += c
	}
	return sum
}

// Derivative is the partial derivative with respect to v.
func (p Poly) Derivative(v int) Poly {
	out := Poly{terms: map[string]Term{}}
	for _, t := range p.terms {
		e := t.Mono.Exp(v)
		if e == 0 {
			continue
		}
		exps := make(map[int]int, len(t.Mono))
		for _, f := range t.Mono {
			exps[f.Var] = f.Exp
		}
		exps[v] = e - 1
		out.addTerm(fromExps(exps), new(big.Rat).Mul(t.Coeff, big.NewRat(int64(e), 1)))
	}
	return out
}

// Univariate returns the coefficients of p highest degree first when v is
// its only variable.
func (p Poly) Univariate(v int) ([]*big.Rat, bool) {
	for _, t := range p.terms {
		for _, f := range t.Mono {
			if f.Var != v {
				return nil, false
			}
		}
	}
	d := p.Degree(v)
	out := make([]*big.Rat, d+1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for _, t := range p.terms {
		out[d-t.Mono.Exp(v)] = new(big.Rat).Set(t.Coeff)
	}
	return out, true
}

func (p Poly) Equal(q Poly) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for k, t := range p.terms {
		o, ok := q.terms[k]
		if !ok || o.Coeff.Cmp(t.Coeff) != 0 {
			return false
		}
	}
	return true
}

func (p Poly) String() string { return p.Format(anonymous{}) }

// Format renders p with higher total degree first, e.g.
// "x^2 + alpha2*x - 3/4".
func (p Poly) Format(n Namer) string {
	if p.IsZero() {
		return "0"
	}
	terms := p.Terms()
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Mono.Degree() > terms[j].Mono.Degree()
	})
	var b strings.Builder
	for i, t := range terms {
		c := new(big.Rat).Set(t.Coeff)
		neg := c.Sign() < 0
		if neg {
			c.Neg(c)
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		one := c.Cmp(big.NewRat(1, 1)) == 0
		switch {
		case t.Mono.IsOne():
			b.WriteString(RatString(c))
		case one:
			b.WriteString(t.Mono.Format(n))
		default:
			b.WriteString(RatString(c) + "*" + t.Mono.Format(n))
		}
	}
	return b.String()
}
