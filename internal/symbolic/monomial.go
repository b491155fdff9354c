package symbolic

import (
	"sort"
	"strconv"
	"strings"
)

// Factor is one variable raised to a positive power.
type Factor struct {
	Var int
	Exp int
}

// Monomial is a product of factors sorted by variable ID. The empty
// monomial is the constant 1.
type Monomial []Factor

// MonomialOf builds a canonical monomial from (var, exp) factors.
// Repeated variables are merged and zero exponents dropped.
func MonomialOf(factors ...Factor) Monomial {
	exps := make(map[int]int, len(factors))
	for _, f := range factors {
		exps[f.Var] += f.Exp
	}
	return fromExps(exps)
}

// ProductOf is the square-free monomial p1*p2*...*pk.
func ProductOf(params ...Param) Monomial {
	factors := make([]Factor, len(params))
	for i, p := range params {
		factors[i] = Factor{Var: p.ID, Exp: 1}
	}
	return MonomialOf(factors...)
}

func fromExps(exps map[int]int) Monomial {
	m := make(Monomial, 0, len(exps))
	for v, e := range exps {
		if e != 0 {
			m = append(m, Factor{Var: v, Exp: e})
		}
	}
	sort.Slice(m, func(i, j int) bool { return m[i].Var < m[j].Var })
	return m
}

func (m Monomial) key() string {
	if len(m) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(f.Var))
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(f.Exp))
	}
	return b.String()
}

func (m Monomial) IsOne() bool { return len(m) == 0 }

// Exp returns the exponent of v in m.
func (m Monomial) Exp(v int) int {
	for _, f := range m {
		if f.Var == v {
			return f.Exp
		}
	}
	return 0
}

func (m Monomial) Degree() int {
	d := 0
	for _, f := range m {
		d += f.Exp
	}
	return d
}

// Mul multiplies two monomials by merging their sorted factor lists.
func (m Monomial) Mul(o Monomial) Monomial {
	out := make(Monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) && j < len(o) {
		switch {
		case m[i].Var < o[j].Var:
			out = append(out, m[i])
			i++
		case m[i].Var > o[j].Var:
			out = append(out, o[j])
			j++
		default:
			out = append(out, Factor{Var: m[i].Var, Exp: m[i].Exp + o[j].Exp})
			i++
			j++
		}
	}
	out = append(out, m[i:]...)
	return append(out, o[j:]...)
}

// Without drops variable v from m.
func (m Monomial) Without(v int) Monomial {
	out := make(Monomial, 0, len(m))
	for _, f := range m {
		if f.Var != v {
			out = append(out, f)
		}
	}
	return out
}

// Divides reports whether m divides o.
func (m Monomial) Divides(o Monomial) bool {
	for _, f := range m {
		if o.Exp(f.Var) < f.Exp {
			return false
		}
	}
	return true
}

// Div returns o/m. The caller guarantees m.Divides(o).
func (m Monomial) Div(o Monomial) Monomial {
	exps := make(map[int]int, len(o))
	for _, f := range o {
		exps[f.Var] = f.Exp
	}
	for _, f := range m {
		exps[f.Var] -= f.Exp
	}
	return fromExps(exps)
}

// LCM is the least common multiple of m and o.
func (m Monomial) LCM(o Monomial) Monomial {
	exps := make(map[int]int, len(m)+len(o))
	for _, f := range m {
		exps[f.Var] = f.Exp
	}
	for _, f := range o {
		if f.Exp > exps[f.Var] {
			exps[f.Var] = f.Exp
		}
	}
	return fromExps(exps)
}

// Coprime reports whether m and o share no variable.
func (m Monomial) Coprime(o Monomial) bool {
	for _, f := range m {
		if o.Exp(f.Var) > 0 {
			return false
		}
	}
	return true
}

// LexCompare orders monomials lexicographically with lower variable IDs
// ranking higher, so the first declared unknown is eliminated first.
func LexCompare(a, b Monomial) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Var < b[j].Var):
			return 1
		case i >= len(a) || b[j].Var < a[i].Var:
			return -1
		case a[i].Exp != b[j].Exp:
			if a[i].Exp > b[j].Exp {
				return 1
			}
			return -1
		}
		i++
		j++
	}
	return 0
}

// Format renders m using names from n, e.g. alpha2*x^2.
func (m Monomial) Format(n Namer) string {
	if len(m) == 0 {
		return "1"
	}
	parts := make([]string, len(m))
	for i, f := range m {
		parts[i] = n.Name(f.Var)
		if f.Exp != 1 {
			parts[i] += "^" + strconv.Itoa(f.Exp)
		}
	}
	return strings.Join(parts, "*")
}
