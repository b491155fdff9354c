// Package controller synthesises digital step-size controllers for adaptive
// integrators.
//
// A controller of order n is described by its denominator and numerator
//
//	Q(x) = x^(n-1) + alpha2*x^(n-2) + ... + alphan
//	P(x) = kbeta1*x^(n-1) + ... + kbetan
//
// and three families of polynomial identities that constrain them:
//
//   - denominator shape: Q = (x-1)^a (x+1)^e prod(x - Qzero_j)
//   - numerator shape: P = c (x+1)^s prod(x - Pzero_k)
//   - pole placement: (x-1)Q + P = prod(x - fixed_m) prod(x - pole_k)
//
// Matching coefficients of every power of x turns each identity into a set
// of polynomial equations in the unknowns, which [Constructor.Construct]
// hands to the solver.
//
// # Example
//
//	c := controller.New(controller.WithLogger(log))
//	design, err := c.Construct(ctx, controller.Structure{
//		Order:           3,
//		AdaptivityExtra: 1,
//		StepsizeFilter:  1,
//		PolePlacements:  []float64{0, 0, 0},
//	})
//
// # Thread Safety
//
// A Constructor holds no mutable state and may be shared. Every Build gets
// its own parameter registry, so concurrent constructions are independent.
package controller
