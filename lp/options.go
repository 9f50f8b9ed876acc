package lp

// Defaults.
const (
	// DefaultTolerance is the pivot and optimality tolerance.
	DefaultTolerance = 1e-9

	// DefaultFeasibilityTolerance bounds the Phase I residual accepted as feasible.
	DefaultFeasibilityTolerance = 1e-7

	// DefaultMaxIterations caps pivots per Solve over both phases.
	DefaultMaxIterations = 200000

	// DefaultBlandAfter is the number of consecutive degenerate pivots after
	// which pricing switches to Bland's rule.
	DefaultBlandAfter = 50
)

// Options configures a Model. Fields are set through Option values.
type Options struct {
	tol           float64
	feasTol       float64
	maxIterations int
	blandAfter    int
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		tol:           DefaultTolerance,
		feasTol:       DefaultFeasibilityTolerance,
		maxIterations: DefaultMaxIterations,
		blandAfter:    DefaultBlandAfter,
	}
}

// WithTolerance sets the pivot/optimality tolerance. Panics if tol <= 0.
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic("lp: WithTolerance requires tol > 0")
	}

	return func(o *Options) { o.tol = tol }
}

// WithFeasibilityTolerance sets the Phase I acceptance threshold. Panics if tol <= 0.
func WithFeasibilityTolerance(tol float64) Option {
	if tol <= 0 {
		panic("lp: WithFeasibilityTolerance requires tol > 0")
	}

	return func(o *Options) { o.feasTol = tol }
}

// WithMaxIterations caps the pivot count. Panics if n <= 0.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic("lp: WithMaxIterations requires n > 0")
	}

	return func(o *Options) { o.maxIterations = n }
}

// WithBlandAfter sets the degenerate streak length that enables Bland's rule.
// Zero uses Bland's rule from the first pivot. Panics if n < 0.
func WithBlandAfter(n int) Option {
	if n < 0 {
		panic("lp: WithBlandAfter requires n >= 0")
	}

	return func(o *Options) { o.blandAfter = n }
}
