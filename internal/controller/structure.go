package controller

import "fmt"

// Structure fixes the shape of the controller to synthesise.
type Structure struct {
	Order           int       `json:"order" yaml:"order"`
	AdaptivityExtra int       `json:"adaptivity_extra" yaml:"adaptivity_extra"`
	StepsizeFilter  int       `json:"stepsize_filter" yaml:"stepsize_filter"`
	ErrorFilter     int       `json:"error_filter" yaml:"error_filter"`
	PolePlacements  []float64 `json:"pole_placements" yaml:"pole_placements"`
}

// DenominatorRoots is the number of free Qzero roots in Q.
func (s Structure) DenominatorRoots() int {
	return s.Order - s.AdaptivityExtra - s.ErrorFilter - 1
}

// NumeratorRoots is the number of free Pzero roots in P.
func (s Structure) NumeratorRoots() int {
	return s.Order - s.StepsizeFilter - 1
}

// FreePoles is the number of closed-loop poles left to the solver.
func (s Structure) FreePoles() int {
	return s.Order - len(s.PolePlacements)
}

// Validate checks the filter exclusivity first, then the orders.
func (s Structure) Validate() error {
	if s.StepsizeFilter > 0 && s.ErrorFilter > 0 {
		return ErrFilterConflict
	}
	switch {
	case s.Order < 1:
		return fmt.Errorf("%w: order %d must be positive", ErrInvalidStructure, s.Order)
	case s.AdaptivityExtra < 0 || s.StepsizeFilter < 0 || s.ErrorFilter < 0:
		return fmt.Errorf("%w: filter and adaptivity orders must be non-negative", ErrInvalidStructure)
	case s.DenominatorRoots() < 0:
		return fmt.Errorf("%w: adaptivity %d + error filter %d exceed order %d - 1",
			ErrInvalidStructure, s.AdaptivityExtra, s.ErrorFilter, s.Order)
	case s.NumeratorRoots() < 0:
		return fmt.Errorf("%w: stepsize filter %d exceeds order %d - 1",
			ErrInvalidStructure, s.StepsizeFilter, s.Order)
	case s.FreePoles() < 0:
		return fmt.Errorf("%w: %d pole placements for order %d",
			ErrInvalidStructure, len(s.PolePlacements), s.Order)
	}
	return nil
}
