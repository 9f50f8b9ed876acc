package tspbap

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/bap"
	"github.com/katalvlaran/colgen/tsp"
)

// Config is the YAML-friendly configuration of Solve.
type Config struct {
	// Cut is the min cut routine of the subtour separator.
	Cut CutMethod `yaml:"cut"`
	// Ordering is "best-bound" (default), "dfs" or "bfs".
	Ordering string `yaml:"ordering"`
	// Inheritance is "master" (default) or "solution".
	Inheritance string `yaml:"inheritance"`

	WarmStart   bool  `yaml:"warm_start"`
	SeedColumns bool  `yaml:"seed_columns"`
	Restarts    int   `yaml:"restarts"`
	Seed        int64 `yaml:"seed"`

	TimeLimit         time.Duration `yaml:"time_limit"`
	NodeLimit         int           `yaml:"node_limit"`
	ParallelPricing   bool          `yaml:"parallel_pricing"`
	ConsistencyChecks bool          `yaml:"consistency_checks"`
}

// DefaultConfig returns Stoer-Wagner cuts, best-bound search and a 2-opt
// warm start seeded into the root.
func DefaultConfig() Config {
	return Config{Cut: StoerWagner, Ordering: "best-bound", Inheritance: "master", WarmStart: true, SeedColumns: true}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Cut {
	case "", StoerWagner, EdmondsKarp, Dinic:
	default:
		return errors.Errorf("config: unknown cut %q", c.Cut)
	}
	switch c.Ordering {
	case "", "best-bound", "dfs", "bfs":
	default:
		return errors.Errorf("config: unknown ordering %q", c.Ordering)
	}
	switch c.Inheritance {
	case "", "master", "solution":
	default:
		return errors.Errorf("config: unknown inheritance %q", c.Inheritance)
	}
	if c.Restarts < 0 || c.NodeLimit < 0 || c.TimeLimit < 0 {
		return errors.New("config: negative restarts, node limit or time limit")
	}

	return nil
}

// Result is the outcome of Solve.
type Result struct {
	// Tour is the best tour found, nil if none.
	Tour    []int
	Cost    float64
	Optimal bool
	Bound   float64
	Stats   bap.Stats
	// WarmCost is the cost of the 2-opt start, 0 without a warm start.
	WarmCost float64
}

// Solve runs branch-and-price on in. Options in extra are applied after the
// ones derived from cfg.
func Solve(ctx context.Context, in *tsp.Instance, cfg Config, extra ...bap.Option[Matching]) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := NewProblem(in, cfg.Cut)
	if err != nil {
		return nil, err
	}
	opts := p.Options()
	out := &Result{}

	if cfg.WarmStart {
		topts := tsp.DefaultOptions()
		topts.Restarts, topts.Seed = cfg.Restarts, cfg.Seed
		tour, cost, err := tsp.Improve(in, topts)
		if err != nil {
			return nil, errors.Wrap(err, "warm start")
		}
		cols, err := p.TourColumns(tour, "2-opt")
		if err != nil {
			return nil, errors.Wrap(err, "warm start")
		}
		out.WarmCost = cost
		opts = append(opts, bap.WithWarmStart(bap.WarmStart[Matching]{
			Objective:   cost,
			Solution:    cols,
			SeedColumns: cfg.SeedColumns,
		}))
	}
	switch cfg.Ordering {
	case "dfs":
		opts = append(opts, bap.WithNodeOrdering(bap.DepthFirst[Matching]()))
	case "bfs":
		opts = append(opts, bap.WithNodeOrdering(bap.BreadthFirst[Matching]()))
	}
	if cfg.Inheritance == "solution" {
		opts = append(opts, bap.WithInheritance[Matching](bap.InheritSolution))
	}
	opts = append(opts,
		bap.WithNodeLimit[Matching](cfg.NodeLimit),
		bap.WithConsistencyChecks[Matching](cfg.ConsistencyChecks),
		bap.WithColGenOptions[Matching](colgen.WithParallelPricing(cfg.ParallelPricing)),
	)
	opts = append(opts, extra...)

	eng, err := bap.New[Matching](p.Master, p.Solvers, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}
	res, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}

	out.Optimal, out.Bound, out.Stats = res.Optimal, res.Bound, res.Stats
	if res.Incumbent.Valid {
		if out.Tour, err = p.Tour(res.Incumbent.Solution); err != nil {
			return nil, err
		}
		if out.Cost, err = in.Cost(out.Tour); err != nil {
			return nil, err
		}
	}

	return out, nil
}
