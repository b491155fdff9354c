package controller

import "github.com/san-kum/stepctl/internal/solver"

func (c *Constructor) Verify(d *Design, branches []solver.Assignment) []solver.Assignment {
	return c.verify(d, branches)
}
