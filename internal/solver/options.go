package solver

import "go.uber.org/zap"

const (
	DefaultMaxPairs      = 5000
	DefaultRootTolerance = 1e-7
	DefaultNewtonIter    = 200
	DefaultNewtonTol     = 1e-12
)

type options struct {
	maxPairs   int
	rootTol    float64
	newtonIter int
	newtonTol  float64
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		maxPairs:   DefaultMaxPairs,
		rootTol:    DefaultRootTolerance,
		newtonIter: DefaultNewtonIter,
		newtonTol:  DefaultNewtonTol,
		logger:     zap.NewNop(),
	}
}

type Option func(*options)

// WithMaxPairs bounds the number of S-pairs Buchberger's algorithm may
// process before the solver switches to Newton's method.
func WithMaxPairs(n int) Option {
	return func(o *options) { o.maxPairs = n }
}

// WithRootTolerance sets the imaginary-part tolerance for accepting a
// numerically found root as real.
func WithRootTolerance(tol float64) Option {
	return func(o *options) { o.rootTol = tol }
}

// WithNewton bounds the fallback iteration and sets its residual tolerance.
func WithNewton(maxIter int, tol float64) Option {
	return func(o *options) {
		o.newtonIter = maxIter
		o.newtonTol = tol
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
