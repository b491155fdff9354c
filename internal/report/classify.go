package report

import (
	"github.com/san-kum/stepctl/internal/poles"
	"github.com/san-kum/stepctl/internal/solver"
	"github.com/san-kum/stepctl/internal/symbolic"
)

const (
	LocationInside  = "inside"
	LocationOutside = "outside"
)

// Verdict is the stability classification of a numeric controller.
type Verdict struct {
	Alpha        []float64
	KBeta        []float64
	Coefficients []float64
	Zeros        []complex128
	Inside       bool
	Outside      int
	Radius       float64
}

func (v Verdict) Location() string {
	if v.Inside {
		return LocationInside
	}
	return LocationOutside
}

// Classify builds the closed-loop characteristic polynomial from the first
// solution branch and checks its zeros against the unit circle. It refuses
// (ok false) when the solution is empty, when any parameter is not numeric
// or when the alpha and kbeta families do not both have order entries
// once alpha1 = 1 is prepended.
//
// Parameters are split by role, so their order in params only matters
// within a family.
func Classify(sol solver.Solution, params []symbolic.Param, order int) (Verdict, bool) {
	first, ok := sol.First()
	if !ok || !first.AllNumeric(params) {
		return Verdict{}, false
	}

	alpha := []float64{1}
	var kbeta []float64
	for _, p := range params {
		f, _ := first.Get(p).Float()
		switch p.Role {
		case symbolic.RoleAlpha:
			alpha = append(alpha, f)
		case symbolic.RoleKBeta:
			kbeta = append(kbeta, f)
		}
	}
	if len(alpha) != order || len(kbeta) != order {
		return Verdict{}, false
	}

	v, err := ClassifyNumeric(alpha, kbeta)
	if err != nil {
		return Verdict{}, false
	}
	return v, true
}

// ClassifyNumeric classifies an explicit (alpha, kbeta) pair. alpha[0] is
// used as given.
func ClassifyNumeric(alpha, kbeta []float64) (Verdict, error) {
	coeff := poles.CharacteristicPolynomial(alpha, kbeta)
	cls, err := poles.Classify(coeff)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Alpha:        alpha,
		KBeta:        kbeta,
		Coefficients: coeff,
		Zeros:        cls.Zeros,
		Inside:       cls.Inside,
		Outside:      cls.Outside,
		Radius:       cls.Radius,
	}, nil
}
