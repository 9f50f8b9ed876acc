package colgen

import (
	"context"

	"github.com/pkg/errors"
)

// CutHandler runs registered separators and guards against duplicate cuts.
type CutHandler[T any] struct {
	separators []Separator[T]
}

// NewCutHandler returns a handler with the given separators.
func NewCutHandler[T any](separators ...Separator[T]) *CutHandler[T] {
	return &CutHandler[T]{separators: append([]Separator[T](nil), separators...)}
}

// Register appends a separator; separators run in registration order.
func (h *CutHandler[T]) Register(s Separator[T]) { h.separators = append(h.separators, s) }

// Len returns the number of registered separators.
func (h *CutHandler[T]) Len() int { return len(h.separators) }

// Separate collects the violated inequalities of every separator. An
// inequality already active in data, or returned twice, is a protocol
// violation.
func (h *CutHandler[T]) Separate(ctx context.Context, solution []*Column[T], data *MasterData[T]) ([]Inequality, error) {
	var out []Inequality
	seen := make(map[string]string)
	for _, s := range h.separators {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(ErrTimeLimit, s.Name())
		}
		found, err := s.Separate(ctx, solution)
		if err != nil {
			if IsTimeLimit(err) {
				return nil, errors.Wrap(ErrTimeLimit, s.Name())
			}

			return nil, errors.Wrapf(err, "separator %s", s.Name())
		}
		for _, ineq := range found {
			k := ineq.Key()
			if data.HasCut(k) {
				return nil, Violation("separator %s returned active inequality %v", s.Name(), ineq)
			}
			if prev, dup := seen[k]; dup {
				return nil, Violation("separator %s returned inequality %v already returned by %s", s.Name(), ineq, prev)
			}
			seen[k] = s.Name()
			out = append(out, ineq)
		}
	}

	return out, nil
}

// Materialize adds cuts to the live model and to data.
func (h *CutHandler[T]) Materialize(master Master[T], data *MasterData[T], cuts []Inequality) error {
	for _, ineq := range cuts {
		if !data.AddCut(ineq) {
			return Violation("inequality %v is already active", ineq)
		}
		if err := master.AddInequality(ineq); err != nil {
			return &SolverFailure{Solver: "master", Status: Failed, Err: errors.Wrapf(err, "add inequality %v", ineq)}
		}
	}

	return nil
}
