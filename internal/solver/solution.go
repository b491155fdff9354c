package solver

import "github.com/san-kum/stepctl/internal/symbolic"

// System is a set of polynomial equations, each meaning "poly = 0", and the
// unknowns to solve for.
type System struct {
	Equations []symbolic.Poly
	Unknowns  []symbolic.Param

	// Parameters must come out real; nil means every unknown. Any other
	// unknown whose roots are all complex is left Unresolved rather than
	// discarding the branch.
	Parameters []symbolic.Param
}

// required is the set of unknown IDs a branch may not leave complex.
func (s System) required() map[int]bool {
	params := s.Parameters
	if params == nil {
		params = s.Unknowns
	}
	out := make(map[int]bool, len(params))
	for _, p := range params {
		out[p.ID] = true
	}
	return out
}

// Assignment maps unknown IDs to their solved values in one branch.
type Assignment map[int]Value

// Get returns the value of p, Unresolved when the branch does not mention it.
func (a Assignment) Get(p symbolic.Param) Value {
	if v, ok := a[p.ID]; ok {
		return v
	}
	return UnresolvedValue()
}

// AllNumeric reports whether every param resolved to a number.
func (a Assignment) AllNumeric(params []symbolic.Param) bool {
	for _, p := range params {
		if !a.Get(p).IsNumeric() {
			return false
		}
	}
	return true
}

// Solution holds the solution branches in a deterministic order. Real
// roots of each eliminated univariate polynomial are branched in
// ascending order.
type Solution struct {
	Branches []Assignment
}

func (s Solution) Empty() bool { return len(s.Branches) == 0 }

// First is the branch consumed downstream.
func (s Solution) First() (Assignment, bool) {
	if s.Empty() {
		return nil, false
	}
	return s.Branches[0], true
}
