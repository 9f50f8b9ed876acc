package colgen

import (
	"context"
	"fmt"
)

// Sense is the optimisation direction of a master problem.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}

	return "minimize"
}

// Better reports whether a is strictly better than b beyond Precision.
func (s Sense) Better(a, b float64) bool {
	if s == Maximize {
		return a > b+Precision
	}

	return a < b-Precision
}

// Worst returns the worse of a and b for this sense.
func (s Sense) Worst(a, b float64) float64 {
	if s.Better(a, b) {
		return b
	}

	return a
}

// Status is the outcome of an external solve.
type Status int

const (
	Optimal Status = iota
	Infeasible
	TimeLimit
	Unbounded
	Failed
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case TimeLimit:
		return "time limit"
	case Unbounded:
		return "unbounded"
	case Failed:
		return "failed"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// PricingProblem is the per-node state of one subproblem. Implementations
// hold the restrictions imposed by branching; comparing two PricingProblem
// values with == must identify the same subproblem.
type PricingProblem interface {
	Name() string
}

// Duals are the master dual values relevant to one pricing problem. Prices
// holds one entry per structural element of the pricing problem, Constant
// is the dual of its convexity row.
type Duals struct {
	Prices   []float64
	Constant float64
}

// Master is the restricted master problem. The implementation owns the live
// solver model; Build discards it and starts an empty one.
type Master[T any] interface {
	Sense() Sense
	Build(ctx context.Context) error
	AddColumn(col *Column[T]) error
	// AddInequality materialises a cut in the live model.
	AddInequality(ineq Inequality) error
	Solve(ctx context.Context) (Status, error)
	Objective() float64
	Duals(pp PricingProblem) (Duals, error)
	// Solution sets Value on every column of the model and returns those
	// with a positive value.
	Solution() []*Column[T]
}

// PricingSolver searches one pricing problem for improving columns.
//
// Several solvers may serve the same pricing problem. They form a hierarchy
// in the order given to New: each round tries the first solver of every
// pricing problem, and moves on to the next ones only when no solver of the
// current level found a column. Cheap heuristics therefore go first and an
// exact solver last. IsInfeasible must only report a proof.
type PricingSolver[T any] interface {
	Name() string
	PricingProblem() PricingProblem
	SetObjective(d Duals)
	// Solve returns the improving columns found, possibly none.
	Solve(ctx context.Context) ([]*Column[T], error)
	// IsInfeasible reports whether the last Solve proved the pricing
	// problem infeasible under its current restrictions.
	IsInfeasible() bool
}

// Separator finds inequalities violated by a master solution.
type Separator[T any] interface {
	Name() string
	Separate(ctx context.Context, solution []*Column[T]) ([]Inequality, error)
}

// ReducedCostReporter is implemented by pricing solvers that solve their
// problem to optimality. After a Solve that ran to completion,
// BestReducedCost returns the best reduced cost over every column the
// pricing problem admits (negative means improving for a minimisation
// master, positive for maximisation) and ok=true.
//
// When every pricing problem of a level reports, the loop derives the bound
// objective + Σ min(rc, 0) (max for maximisation). It is valid whenever a
// feasible integral solution uses at most one column per pricing problem.
type ReducedCostReporter interface {
	BestReducedCost() (rc float64, ok bool)
}
