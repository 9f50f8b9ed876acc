package colgen

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen/event"
)

// ErrNoPricing is returned by New when no pricing solver is given.
var ErrNoPricing = errors.New("colgen: at least one pricing solver is required")

// ErrNilMaster is returned by New when master is nil.
var ErrNilMaster = errors.New("colgen: master is nil")

// ColGen is the column generation loop for one master problem.
type ColGen[T any] struct {
	master  Master[T]
	solvers []PricingSolver[T]
	// levels[k] holds the k-th solver of every pricing problem that has one.
	levels   [][]PricingSolver[T]
	problems int
	cuts     *CutHandler[T]
	opts     Options
}

// Result summarises one Solve call.
type Result[T any] struct {
	// Objective is the last master value. It is a valid relaxation bound
	// unless CutOff is set.
	Objective float64
	// Bound is the best proven bound on the node: Objective after
	// convergence, otherwise the best pricing bound seen. HasBound is false
	// when the loop stopped before either was known.
	Bound    float64
	HasBound bool
	// CutOff is set when the cutoff function accepted Bound before the
	// loop converged.
	CutOff bool
	// Solution holds the master columns with positive value.
	Solution         []*Column[T]
	Iterations       int
	ColumnsGenerated int
	CutsAdded        int
	MasterTime       time.Duration
	PricingTime      time.Duration
}

// New assembles a loop from its collaborators.
func New[T any](master Master[T], solvers []PricingSolver[T], separators []Separator[T], opts ...Option) (*ColGen[T], error) {
	if master == nil {
		return nil, ErrNilMaster
	}
	if len(solvers) == 0 {
		return nil, ErrNoPricing
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	levels, problems := pricingLevels(solvers)

	return &ColGen[T]{
		master:   master,
		solvers:  append([]PricingSolver[T](nil), solvers...),
		levels:   levels,
		problems: problems,
		cuts:     NewCutHandler(separators...),
		opts:     o,
	}, nil
}

// Master returns the master problem driven by the loop.
func (cg *ColGen[T]) Master() Master[T] { return cg.master }

// Solvers returns the pricing solvers in the order given to New.
func (cg *ColGen[T]) Solvers() []PricingSolver[T] { return cg.solvers }

// Solve runs the loop on the master's current model until neither pricing
// nor separation changes it. data must describe the columns and cuts
// already in the model; Solve keeps it in sync.
//
// The returned Result is non-nil even on error and reports the work done.
func (cg *ColGen[T]) Solve(ctx context.Context, data *MasterData[T]) (*Result[T], error) {
	res := &Result[T]{}
	for {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(ErrTimeLimit, "column generation")
		}
		if cg.opts.maxIterations > 0 && res.Iterations >= cg.opts.maxIterations {
			return res, &SolverFailure{Solver: "column generation", Status: Failed, Err: ErrIterationLimit}
		}
		res.Iterations++
		data.Iterations++

		if err := cg.solveMaster(ctx, data, res); err != nil {
			return res, err
		}

		added, err := cg.price(ctx, data, res)
		if err != nil {
			return res, err
		}
		if res.HasBound && cg.opts.cutoff != nil && cg.opts.cutoff(res.Bound) {
			res.CutOff = true
			res.Objective = data.Objective
			res.Solution = cg.master.Solution()
			return res, nil
		}
		if added > 0 {
			continue
		}

		if !cg.opts.cuts || cg.cuts.Len() == 0 {
			break
		}
		found, err := cg.separate(ctx, data)
		if err != nil {
			return res, err
		}
		if found == 0 {
			break
		}
		res.CutsAdded += found
	}
	res.Objective = data.Objective
	res.Bound, res.HasBound = data.Objective, true
	res.Solution = cg.master.Solution()

	return res, nil
}

func (cg *ColGen[T]) solveMaster(ctx context.Context, data *MasterData[T], res *Result[T]) error {
	start := time.Now()
	st, err := cg.master.Solve(ctx)
	elapsed := time.Since(start)
	res.MasterTime += elapsed

	var obj float64
	if err == nil && st == Optimal {
		obj = cg.master.Objective()
		data.Objective = obj
	}
	cg.opts.bus.Emit(event.MasterSolved{
		NodeID:    data.Node,
		Iteration: res.Iterations,
		Status:    st.String(),
		Objective: obj,
		Duration:  elapsed,
	})
	if err = classify("master", st, err); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return errors.Wrap(ErrTimeLimit, "master")
	}

	return nil
}

// price runs one pricing round over the solver hierarchy and returns the
// number of columns added. A level whose solvers all report a best reduced
// cost tightens res.Bound.
func (cg *ColGen[T]) price(ctx context.Context, data *MasterData[T], res *Result[T]) (int, error) {
	duals := make(map[PricingProblem]Duals, cg.problems)
	for _, s := range cg.solvers {
		pp := s.PricingProblem()
		d, ok := duals[pp]
		if !ok {
			var err error
			if d, err = cg.master.Duals(pp); err != nil {
				return 0, &SolverFailure{Solver: "master", Status: Optimal, Err: errors.Wrapf(err, "duals for %s", s.Name())}
			}
			duals[pp] = d
		}
		s.SetObjective(d)
	}

	start := time.Now()
	var infos []event.ColumnInfo
	for _, level := range cg.levels {
		batches, err := solvePricing(ctx, level, cg.opts.parallel)
		if err != nil {
			res.PricingTime += time.Since(start)
			return 0, err
		}
		if ctx.Err() != nil {
			res.PricingTime += time.Since(start)
			return 0, errors.Wrap(ErrTimeLimit, "pricing")
		}
		for _, s := range level {
			if s.IsInfeasible() {
				res.PricingTime += time.Since(start)
				return 0, errors.Wrapf(ErrNodeInfeasible, "pricing problem %s", s.PricingProblem().Name())
			}
		}
		if b, ok := cg.levelBound(level, data.Objective); ok {
			if !res.HasBound {
				res.Bound, res.HasBound = b, true
			}
			res.Bound = cg.master.Sense().Worst(res.Bound, b)
		}

		for i, cols := range batches {
			if err = checkColumns(level[i], cols); err != nil {
				return 0, err
			}
			for _, c := range cols {
				if !data.AddColumn(c) {
					return 0, Violation("pricing solver %s returned active column %v", level[i].Name(), c)
				}
				if err = cg.master.AddColumn(c); err != nil {
					return 0, &SolverFailure{Solver: "master", Status: Failed, Err: errors.Wrapf(err, "add column %v", c)}
				}
				infos = append(infos, c.Info())
			}
		}
		if len(infos) > 0 {
			break
		}
	}
	elapsed := time.Since(start)
	res.PricingTime += elapsed
	res.ColumnsGenerated += len(infos)

	cg.opts.bus.Emit(event.PricingSolved{
		NodeID:    data.Node,
		Iteration: res.Iterations,
		Columns:   len(infos),
		Duration:  elapsed,
	})
	if len(infos) > 0 {
		cg.opts.bus.Emit(event.ColumnsAdded{NodeID: data.Node, Columns: infos})
	}

	return len(infos), nil
}

// levelBound is obj plus the improving part of every best reduced cost, or
// ok=false when some pricing problem of the round has no exact answer.
func (cg *ColGen[T]) levelBound(level []PricingSolver[T], obj float64) (float64, bool) {
	if len(level) != cg.problems {
		return 0, false
	}
	b := obj
	for _, s := range level {
		r, ok := s.(ReducedCostReporter)
		if !ok {
			return 0, false
		}
		rc, ok := r.BestReducedCost()
		if !ok {
			return 0, false
		}
		if cg.master.Sense() == Maximize {
			b += math.Max(rc, 0)
		} else {
			b += math.Min(rc, 0)
		}
	}

	return b, true
}

// separate runs the cut handler and returns the number of cuts added.
func (cg *ColGen[T]) separate(ctx context.Context, data *MasterData[T]) (int, error) {
	cuts, err := cg.cuts.Separate(ctx, cg.master.Solution(), data)
	if err != nil || len(cuts) == 0 {
		return 0, err
	}
	if err = cg.cuts.Materialize(cg.master, data, cuts); err != nil {
		return 0, err
	}
	infos := make([]event.CutInfo, len(cuts))
	for i, c := range cuts {
		infos[i] = CutInfo(c)
	}
	cg.opts.bus.Emit(event.CutsAdded{NodeID: data.Node, Cuts: infos})

	return len(cuts), nil
}
