package tsp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDimensionMismatch is returned when a tour or matrix has the wrong shape.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrNonSquare is returned when a distance matrix is not square.
	ErrNonSquare = errors.New("tsp: distance matrix is not square")

	// ErrAsymmetric is returned when a distance matrix is not symmetric.
	ErrAsymmetric = errors.New("tsp: distance matrix is not symmetric")

	// ErrNegativeWeight is returned for negative or NaN distances.
	ErrNegativeWeight = errors.New("tsp: negative or NaN distance")

	// ErrStartOutOfRange is returned when the start vertex is not in [0..n-1].
	ErrStartOutOfRange = errors.New("tsp: start vertex out of range")

	// ErrTimeLimit is returned when a heuristic runs out of its time budget.
	ErrTimeLimit = errors.New("tsp: time limit exceeded")

	// ErrUnsupported is returned for TSPLIB features the reader does not handle.
	ErrUnsupported = errors.New("tsp: unsupported TSPLIB feature")
)

// ParseError reports a malformed TSPLIB line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tsp: line %d: %s", e.Line, e.Msg)
}

// Options configures the tour heuristics.
//   - StartVertex: vertex every returned tour starts and ends at.
//   - Eps: a 2-opt move is accepted only if it improves by more than Eps.
//   - TwoOptMaxIters: cap on accepted moves per descent, 0 = until local optimum.
//   - TimeLimit: soft budget for Improve, 0 = none.
//   - Restarts: additional descents from random permutations in Improve.
//   - Seed: seed of the restart permutations, 0 = fixed default.
type Options struct {
	StartVertex    int
	Eps            float64
	TwoOptMaxIters int
	TimeLimit      time.Duration
	Restarts       int
	Seed           int64
}

// DefaultOptions returns start 0, Eps 1e-9, a single descent and no time limit.
func DefaultOptions() Options {
	return Options{Eps: 1e-9}
}

func (o Options) validate(n int) error {
	if o.StartVertex < 0 || o.StartVertex >= n {
		return ErrStartOutOfRange
	}
	if o.Eps < 0 || o.TwoOptMaxIters < 0 || o.TimeLimit < 0 || o.Restarts < 0 {
		return ErrDimensionMismatch
	}

	return nil
}
