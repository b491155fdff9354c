// Package symbolic provides the exact polynomial kernel used to synthesize
// step-size controllers.
//
// The package defines two building blocks:
//
//   - [Registry]: per-construction table of tagged unknowns ([Param]),
//     each carrying a [Role] and an index instead of a bare name
//   - [Poly]: immutable multivariate polynomial over the rationals, kept
//     in expanded canonical form so coefficient extraction is always valid
//
// # Example
//
//	reg := symbolic.NewRegistry()
//	x := reg.Indeterminate()
//	a := reg.Declare(symbolic.RoleAlpha, 2)
//	q := symbolic.Var(x).Pow(2).Add(symbolic.Var(a).Mul(symbolic.Var(x)))
//	fmt.Println(q.Format(reg)) // x^2 + x*alpha2
//
// # Thread Safety
//
// Poly values are immutable and safe to share. A Registry is NOT
// thread-safe; each construction owns its own.
package symbolic
