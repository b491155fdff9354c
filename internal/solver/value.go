package solver

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/san-kum/stepctl/internal/symbolic"
)

// Kind tags the three states a solved unknown can be in.
type Kind int

const (
	// Unresolved: the solver found no expression for the unknown, either
	// because it is free or because it depends non-linearly on one.
	Unresolved Kind = iota
	// Symbolic: a polynomial in the free unknowns.
	Symbolic
	// Numeric: a concrete real number.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Unresolved:
		return "unresolved"
	case Symbolic:
		return "symbolic"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the solved value of one unknown.
type Value struct {
	kind  Kind
	expr  symbolic.Poly
	num   float64
	exact *big.Rat
}

func UnresolvedValue() Value { return Value{kind: Unresolved} }

func SymbolicValue(expr symbolic.Poly) Value {
	return Value{kind: Symbolic, expr: expr}
}

// NumericValue is a floating point result, e.g. a numerically found root.
func NumericValue(f float64) Value {
	return Value{kind: Numeric, num: f}
}

// ExactValue is a rational result obtained without rounding.
func ExactValue(r *big.Rat) Value {
	return Value{kind: Numeric, num: symbolic.RatFloat(r), exact: new(big.Rat).Set(r)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNumeric() bool { return v.kind == Numeric }

// Float returns the numeric value; ok is false for non-numeric kinds.
func (v Value) Float() (float64, bool) {
	if v.kind != Numeric {
		return 0, false
	}
	return v.num, true
}

// Rat returns the exact rational value when one is known.
func (v Value) Rat() (*big.Rat, bool) {
	if v.kind != Numeric || v.exact == nil {
		return nil, false
	}
	return new(big.Rat).Set(v.exact), true
}

// Format renders exact numbers as fractions, floats in shortest form and
// symbolic values with names from n.
func (v Value) Format(n symbolic.Namer) string {
	switch v.kind {
	case Numeric:
		if v.exact != nil {
			return symbolic.RatString(v.exact)
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case Symbolic:
		return v.expr.Format(n)
	default:
		return "unresolved"
	}
}
