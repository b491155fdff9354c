package controller

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/stepctl/internal/equations"
	"github.com/san-kum/stepctl/internal/solver"
	"github.com/san-kum/stepctl/internal/symbolic"
)

// Family names.
const (
	FamilyDenominator = "denominator"
	FamilyNumerator   = "numerator"
	FamilyClosedLoop  = "closed-loop"
)

// Family is one enforced identity "Expr = 0" and the coefficient equations
// derived from it.
type Family struct {
	Name            string
	Expr            symbolic.Poly
	Order           int
	MaxCombinations int
	Equations       []symbolic.Poly
	Unknowns        []symbolic.Param
}

// Design is a constructed controller: its symbolic pieces, the equation
// system and, after Construct, the solution.
type Design struct {
	Structure Structure
	Registry  *symbolic.Registry
	X         symbolic.Param
	Alpha     []symbolic.Param
	KBeta     []symbolic.Param
	Q         symbolic.Poly
	P         symbolic.Poly
	Families  []Family

	// Unknowns is the union of every family's free parameters in
	// declaration order.
	Unknowns []symbolic.Param

	// Parameters are the caller-relevant unknowns: kbeta1..n then
	// alpha2..n.
	Parameters []symbolic.Param

	Solution solver.Solution
}

// Equations concatenates the families in order.
func (d *Design) Equations() []symbolic.Poly {
	var out []symbolic.Poly
	for _, f := range d.Families {
		out = append(out, f.Equations...)
	}
	return out
}

type Constructor struct {
	mode       equations.Mode
	logger     *zap.Logger
	solverOpts []solver.Option
}

type Option func(*Constructor)

func WithDerivation(m equations.Mode) Option {
	return func(c *Constructor) { c.mode = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Constructor) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithSolverOptions(opts ...solver.Option) Option {
	return func(c *Constructor) { c.solverOpts = append(c.solverOpts, opts...) }
}

func New(opts ...Option) *Constructor {
	c := &Constructor{mode: equations.ModeBasis, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Construct builds the equation system for s and solves it.
func (c *Constructor) Construct(ctx context.Context, s Structure) (*Design, error) {
	d, err := c.Build(s)
	if err != nil {
		return nil, err
	}

	opts := append([]solver.Option{solver.WithLogger(c.logger)}, c.solverOpts...)
	sol, err := solver.Solve(ctx, solver.System{
		Equations:  d.Equations(),
		Unknowns:   d.Unknowns,
		Parameters: d.Parameters,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("solve order %d controller: %w", s.Order, err)
	}
	sol.Branches = c.verify(d, sol.Branches)
	d.Solution = sol

	c.logger.Info("controller constructed",
		zap.Int("order", s.Order),
		zap.Int("branches", len(sol.Branches)))
	return d, nil
}

// residualTol bounds how far a numeric branch may miss the equations.
const residualTol = 1e-6

// verify drops branches whose numeric values do not satisfy the equation
// system. Equations still holding unresolved unknowns are not checked.
func (c *Constructor) verify(d *Design, branches []solver.Assignment) []solver.Assignment {
	eqs := d.Equations()
	out := branches[:0]
	for i, b := range branches {
		values := make(map[int]*big.Rat, len(b))
		for id, v := range b {
			if r, ok := v.Rat(); ok {
				values[id] = r
			} else if f, ok := v.Float(); ok {
				if r := new(big.Rat).SetFloat64(f); r != nil {
					values[id] = r
				}
			}
		}
		if res := equations.Residual(eqs, values); res > residualTol {
			c.logger.Warn("dropping branch that misses the equations",
				zap.Int("branch", i), zap.Float64("residual", res))
			continue
		}
		out = append(out, b)
	}
	return out
}

// Build declares the unknowns, forms Q and P and derives the three equation
// families without solving.
func (c *Constructor) Build(s Structure) (*Design, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	n := s.Order

	// auxiliary unknowns rank ahead of kbeta and alpha; the solver
	// eliminates them first
	reg := symbolic.NewRegistry()
	x := reg.Indeterminate()
	qZeros := reg.DeclareRange(symbolic.RoleQZero, s.DenominatorRoots())
	scale := reg.Scale()
	pZeros := reg.DeclareRange(symbolic.RolePZero, s.NumeratorRoots())
	free := reg.DeclareRange(symbolic.RolePole, s.FreePoles())
	kbeta := reg.DeclareRange(symbolic.RoleKBeta, n)
	alpha := reg.DeclareRange(symbolic.RoleAlpha, n)
	X := symbolic.Var(x)

	Q := X.Pow(n - 1)
	P := symbolic.Zero()
	for i := 0; i < n; i++ {
		P = P.Add(symbolic.Var(kbeta[i]).Mul(X.Pow(n - 1 - i)))
		if i > 0 {
			Q = Q.Add(symbolic.Var(alpha[i]).Mul(X.Pow(n - 1 - i)))
		}
	}

	targetQ := symbolic.Product(
		X.Sub(symbolic.One()).Pow(s.AdaptivityExtra),
		X.Add(symbolic.One()).Pow(s.ErrorFilter),
		roots(X, qZeros),
	)
	targetP := symbolic.Product(
		symbolic.Var(scale),
		X.Add(symbolic.One()).Pow(s.StepsizeFilter),
		roots(X, pZeros),
	)

	targetChar := roots(X, free)
	for _, p := range s.PolePlacements {
		targetChar = targetChar.Mul(X.Sub(symbolic.Float(p)))
	}
	char := X.Sub(symbolic.One()).Mul(Q).Add(P)

	d := &Design{
		Structure: s,
		Registry:  reg,
		X:         x,
		Alpha:     alpha,
		KBeta:     kbeta,
		Q:         Q,
		P:         P,
	}
	d.Families = []Family{
		c.family(reg, x, FamilyDenominator, Q.Sub(targetQ), n, s.DenominatorRoots()),
		c.family(reg, x, FamilyNumerator, P.Sub(targetP), n, s.NumeratorRoots()+1),
		c.family(reg, x, FamilyClosedLoop, char.Sub(targetChar), n+1, s.FreePoles()),
	}
	d.Unknowns = mergeUnknowns(d.Families)
	d.Parameters = append(append([]symbolic.Param{}, kbeta...), alpha[1:]...)

	c.logger.Debug("equation system built",
		zap.Int("order", n),
		zap.Int("equations", len(d.Equations())),
		zap.Int("unknowns", len(d.Unknowns)),
		zap.Stringer("derivation", c.mode))
	return d, nil
}

func (c *Constructor) family(reg *symbolic.Registry, x symbolic.Param, name string, expr symbolic.Poly, order, maxComb int) Family {
	params := equations.FreeParams(expr, x, reg)
	return Family{
		Name:            name,
		Expr:            expr,
		Order:           order,
		MaxCombinations: maxComb,
		Equations:       c.mode.Derive(expr, x, params, order, maxComb),
		Unknowns:        params,
	}
}

// roots is prod(X - r) over the given parameters; 1 when there are none.
func roots(X symbolic.Poly, params []symbolic.Param) symbolic.Poly {
	out := symbolic.One()
	for _, p := range params {
		out = out.Mul(X.Sub(symbolic.Var(p)))
	}
	return out
}

func mergeUnknowns(families []Family) []symbolic.Param {
	seen := map[int]bool{}
	var out []symbolic.Param
	for _, f := range families {
		for _, p := range f.Unknowns {
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
