package solver

import "errors"

var (
	// ErrBasisTooLarge indicates Buchberger's algorithm hit the pair budget.
	ErrBasisTooLarge = errors.New("solver: groebner basis exceeded pair budget")

	// ErrNoConvergence indicates the Newton fallback did not reach tolerance.
	ErrNoConvergence = errors.New("solver: newton iteration did not converge")
)
