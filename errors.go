package colgen

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTimeLimit reports that a deadline expired during an external solve.
	ErrTimeLimit = errors.New("colgen: time limit exceeded")

	// ErrNodeInfeasible reports that the master or a pricing problem is infeasible.
	ErrNodeInfeasible = errors.New("colgen: node infeasible")

	// ErrProtocolViolation reports a broken plugin contract.
	ErrProtocolViolation = errors.New("colgen: protocol violation")

	// ErrIterationLimit reports that WithMaxIterations stopped the loop.
	ErrIterationLimit = errors.New("colgen: iteration limit reached")
)

// SolverFailure is returned for solver outcomes that are neither optimal,
// infeasible nor a time limit.
type SolverFailure struct {
	Solver string
	Status Status
	Err    error
}

func (e *SolverFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("colgen: %s failed with status %s: %v", e.Solver, e.Status, e.Err)
	}

	return fmt.Sprintf("colgen: %s failed with status %s", e.Solver, e.Status)
}

// Unwrap returns the underlying solver error, if any.
func (e *SolverFailure) Unwrap() error { return e.Err }

// Violation wraps ErrProtocolViolation with a formatted message. Plugins can
// use it to report their own contract checks.
func Violation(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProtocolViolation, format, args...)
}

// IsTimeLimit reports whether err means a deadline expired.
func IsTimeLimit(err error) bool {
	return errors.Is(err, ErrTimeLimit) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// classify maps the outcome of an external solve onto the error taxonomy.
func classify(solver string, st Status, err error) error {
	if err != nil {
		if IsTimeLimit(err) {
			return errors.Wrap(ErrTimeLimit, solver)
		}
		if errors.Is(err, ErrNodeInfeasible) || errors.Is(err, ErrProtocolViolation) {
			return err
		}

		return &SolverFailure{Solver: solver, Status: st, Err: err}
	}
	switch st {
	case Optimal:
		return nil
	case Infeasible:
		return errors.Wrap(ErrNodeInfeasible, solver)
	case TimeLimit:
		return errors.Wrap(ErrTimeLimit, solver)
	}

	return &SolverFailure{Solver: solver, Status: st}
}
