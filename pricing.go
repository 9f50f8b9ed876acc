package colgen

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// pricingLevels arranges solvers into the levels of the pricing hierarchy,
// pricing problems in order of first appearance, and returns the number of
// distinct pricing problems.
func pricingLevels[T any](solvers []PricingSolver[T]) ([][]PricingSolver[T], int) {
	index := make(map[PricingProblem]int)
	var chains [][]PricingSolver[T]
	for _, s := range solvers {
		pp := s.PricingProblem()
		k, ok := index[pp]
		if !ok {
			k = len(chains)
			index[pp] = k
			chains = append(chains, nil)
		}
		chains[k] = append(chains[k], s)
	}

	var levels [][]PricingSolver[T]
	for d := 0; ; d++ {
		var level []PricingSolver[T]
		for _, c := range chains {
			if d < len(c) {
				level = append(level, c[d])
			}
		}
		if len(level) == 0 {
			return levels, len(chains)
		}
		levels = append(levels, level)
	}
}

// solvePricing runs every solver once and returns their columns in solver
// order. In parallel mode the solvers share nothing but ctx.
func solvePricing[T any](ctx context.Context, solvers []PricingSolver[T], parallel bool) ([][]*Column[T], error) {
	out := make([][]*Column[T], len(solvers))
	if !parallel || len(solvers) < 2 {
		for i, s := range solvers {
			cols, err := s.Solve(ctx)
			if err = classify(s.Name(), Optimal, err); err != nil {
				return nil, err
			}
			out[i] = cols
		}

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range solvers {
		g.Go(func() error {
			cols, err := s.Solve(gctx)
			if err = classify(s.Name(), Optimal, err); err != nil {
				return err
			}
			out[i] = cols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// checkColumns validates pricing output against the producing solver.
func checkColumns[T any](s PricingSolver[T], cols []*Column[T]) error {
	for _, c := range cols {
		if c == nil {
			return Violation("pricing solver %s returned a nil column", s.Name())
		}
		if c.Pricing != s.PricingProblem() {
			return Violation("pricing solver %s returned column %v of pricing problem %s",
				s.Name(), c, pricingName(c.Pricing))
		}
		if c.IsVolatile() {
			return Violation("pricing solver %s returned volatile column %v", s.Name(), c)
		}
	}

	return nil
}
