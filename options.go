package colgen

import "github.com/katalvlaran/colgen/event"

// Options configures a ColGen. Fields are set through Option values.
type Options struct {
	parallel      bool
	cuts          bool
	maxIterations int
	bus           *event.Bus
	cutoff        CutoffFunc
}

// CutoffFunc reports whether a node whose relaxation is bounded by bound
// can be abandoned.
type CutoffFunc func(bound float64) bool

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns sequential pricing, cut separation enabled, no
// iteration cap and no event bus.
func DefaultOptions() Options {
	return Options{cuts: true}
}

// WithParallelPricing solves the pricing problems of one round concurrently.
func WithParallelPricing(on bool) Option {
	return func(o *Options) { o.parallel = on }
}

// WithCuts enables or disables cut separation.
func WithCuts(on bool) Option {
	return func(o *Options) { o.cuts = on }
}

// WithMaxIterations caps master solves per Solve call. Zero means no cap.
// Panics if n < 0.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic("colgen: WithMaxIterations requires n >= 0")
	}

	return func(o *Options) { o.maxIterations = n }
}

// WithEvents publishes loop events on bus.
func WithEvents(bus *event.Bus) Option {
	return func(o *Options) { o.bus = bus }
}

// WithCutoff stops Solve as soon as a pricing bound satisfies f. The result
// then has CutOff set and is not converged.
func WithCutoff(f CutoffFunc) Option {
	return func(o *Options) { o.cutoff = f }
}
