package lp

import (
	"errors"
	"fmt"
)

// ErrBadCoefficient is returned when a model coefficient is NaN or infinite.
var ErrBadCoefficient = errors.New("lp: coefficient must be finite")

// ErrIndexOutOfRange is returned when a coefficient map names a row or column
// that does not exist.
var ErrIndexOutOfRange = errors.New("lp: index out of range")

// Sense is the relation of a row to its right-hand side.
type Sense int

const (
	// LessEqual is aᵀx ≤ b.
	LessEqual Sense = iota
	// GreaterEqual is aᵀx ≥ b.
	GreaterEqual
	// Equal is aᵀx = b.
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	}

	return fmt.Sprintf("Sense(%d)", int(s))
}

// Status is the outcome of Solve.
type Status int

const (
	// Optimal means X, Objective and Duals are valid.
	Optimal Status = iota
	// Infeasible means no x ≥ 0 satisfies the rows.
	Infeasible
	// Unbounded means the objective can be improved without limit.
	Unbounded
	// TimeLimit means the context expired before the solve finished.
	TimeLimit
	// IterationLimit means the pivot budget was exhausted.
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case TimeLimit:
		return "time limit"
	case IterationLimit:
		return "iteration limit"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Solution is the result of one Solve call.
type Solution struct {
	Status Status
	// Objective is cᵀx in the model's own sense.
	Objective float64
	// X holds one value per column.
	X []float64
	// Duals holds one price per row (see package doc for the sign convention).
	Duals []float64
	// Iterations counts pivots over both phases.
	Iterations int
}
