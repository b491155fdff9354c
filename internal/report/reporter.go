// Package report prints and exports solved controller designs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/stepctl/internal/controller"
	"github.com/san-kum/stepctl/internal/solver"
	"github.com/san-kum/stepctl/internal/symbolic"
)

const NoSolution = "No solution"

// Reporter writes human-readable reports.
type Reporter struct {
	w      io.Writer
	styles Styles
	plain  bool
}

type Option func(*Reporter)

// WithStyles enables lipgloss rendering.
func WithStyles(s Styles) Option {
	return func(r *Reporter) {
		r.styles = s
		r.plain = false
	}
}

// New returns a plain-text reporter writing to w.
func New(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{w: w, styles: PlainStyles(), plain: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) render(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

// printParameters prints "name: value" for each parameter of the first
// branch, or "No solution". Symbolic values are written with names.
func (r *Reporter) printParameters(sol solver.Solution, params []symbolic.Param, names symbolic.Namer) error {
	first, ok := sol.First()
	if !ok {
		_, err := fmt.Fprintln(r.w, NoSolution)
		return err
	}
	for _, p := range params {
		val := first.Get(p).Format(names)
		if _, err := fmt.Fprintf(r.w, "%s: %s\n",
			r.render(r.styles.Label, p.Name()), r.render(r.styles.Value, val)); err != nil {
			return err
		}
	}
	return nil
}

// PrintStability prints the verdict line when the first branch is fully
// numeric and prints nothing otherwise.
func (r *Reporter) PrintStability(sol solver.Solution, params []symbolic.Param, order int) error {
	v, ok := Classify(sol, params, order)
	if !ok {
		return nil
	}
	return r.PrintVerdict(v)
}

func (r *Reporter) PrintVerdict(v Verdict) error {
	style := r.styles.Outside
	if v.Inside {
		style = r.styles.Inside
	}
	_, err := fmt.Fprintf(r.w, "The parameters are: %s\n", r.render(style, v.Location()))
	return err
}

// PrintDesign prints the parameters and verdict of a constructed design,
// with a header and the remaining branch count when styled.
func (r *Reporter) PrintDesign(d *controller.Design) error {
	if !r.plain {
		s := d.Structure
		header := fmt.Sprintf("order %d  adaptivity %d  stepsize filter %d  error filter %d  poles %v",
			s.Order, s.AdaptivityExtra, s.StepsizeFilter, s.ErrorFilter, s.PolePlacements)
		if _, err := fmt.Fprintln(r.w, r.render(r.styles.Header, header)); err != nil {
			return err
		}
	}
	if err := r.printParameters(d.Solution, d.Parameters, d.Registry); err != nil {
		return err
	}
	if err := r.PrintStability(d.Solution, d.Parameters, d.Structure.Order); err != nil {
		return err
	}
	if !r.plain && len(d.Solution.Branches) > 1 {
		note := fmt.Sprintf("(%d further solution branches not shown)", len(d.Solution.Branches)-1)
		if _, err := fmt.Fprintln(r.w, r.render(r.styles.Muted, note)); err != nil {
			return err
		}
	}
	return nil
}

// PrintZeros lists polynomial zeros one per line.
func (r *Reporter) PrintZeros(zeros []complex128) error {
	for _, z := range zeros {
		if _, err := fmt.Fprintf(r.w, "  %s\n", FormatComplex(z)); err != nil {
			return err
		}
	}
	return nil
}

// FormatComplex prints a zero as "re" or "re ± imi".
func FormatComplex(z complex128) string {
	re, im := real(z), imag(z)
	if im == 0 {
		return fmt.Sprintf("%.6g", re)
	}
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("%.6g %s %.6gi", re, sign, im)
}

// FormatCoefficients prints a coefficient vector highest degree first.
func FormatCoefficients(coeff []float64) string {
	parts := make([]string, len(coeff))
	for i, c := range coeff {
		parts[i] = fmt.Sprintf("%.6g", c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
