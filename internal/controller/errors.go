package controller

import "errors"

// Structural errors reported before any equation is built.
var (
	// ErrFilterConflict indicates both a step-size filter and an error filter
	// were requested. The two modes are mutually exclusive.
	ErrFilterConflict = errors.New("controller: cannot apply both stepsize and error filter")

	// ErrInvalidStructure indicates orders that cannot describe a controller.
	ErrInvalidStructure = errors.New("controller: invalid controller structure")
)
