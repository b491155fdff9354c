// Package sweep evaluates a controller structure over a range of uniform
// pole placements.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/stepctl/internal/controller"
	"github.com/san-kum/stepctl/internal/report"
)

var ErrInvalidRange = errors.New("sweep: invalid range")

// Point is the outcome for one placement value.
type Point struct {
	Placement  float64
	Design     *controller.Design
	Verdict    report.Verdict
	Classified bool
	Err        error
}

type Sweep struct {
	constructor *controller.Constructor
	workers     int
	logger      *zap.Logger
}

type Option func(*Sweep)

// WithWorkers caps concurrent constructions; values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Sweep) { s.workers = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sweep) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(c *controller.Constructor, opts ...Option) *Sweep {
	s := &Sweep{constructor: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Values lists from, from+step, ... up to and including to.
func Values(from, to, step float64) ([]float64, error) {
	if step <= 0 || to < from || math.IsNaN(from) || math.IsNaN(to) {
		return nil, fmt.Errorf("%w: from %g to %g step %g", ErrInvalidRange, from, to, step)
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out, nil
}

// Uniform places every closed-loop pole of base at p.
func Uniform(base controller.Structure, p float64) controller.Structure {
	s := base
	s.PolePlacements = make([]float64, base.Order)
	for i := range s.PolePlacements {
		s.PolePlacements[i] = p
	}
	return s
}

// Run constructs one controller per placement value concurrently. Results
// keep the order of values. Per-point construction failures are recorded
// in Point.Err; only cancellation aborts the sweep.
func (s *Sweep) Run(ctx context.Context, base controller.Structure, values []float64) ([]Point, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	points := make([]Point, len(values))
	parallelFor(len(values), s.workers, func(i int) {
		st := Uniform(base, values[i])
		p := Point{Placement: values[i]}
		p.Design, p.Err = s.constructor.Construct(ctx, st)
		if p.Err == nil {
			p.Verdict, p.Classified = report.Classify(p.Design.Solution, p.Design.Parameters, st.Order)
		}
		points[i] = p
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("sweep finished", zap.Int("points", len(points)), zap.Int("workers", s.workers))
	return points, nil
}

// Best returns the classified stable point with the smallest spectral
// radius.
func Best(points []Point) (Point, bool) {
	best := math.Inf(1)
	var out Point
	found := false
	for _, p := range points {
		if !p.Classified || !p.Verdict.Inside {
			continue
		}
		if p.Verdict.Radius < best {
			best = p.Verdict.Radius
			out = p
			found = true
		}
	}
	return out, found
}

// parallelFor runs fn(i) for i in [0, n) on at most workers goroutines.
func parallelFor(n, workers int, fn func(i int)) {
	if n <= 1 || workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
