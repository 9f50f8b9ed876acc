package bap

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/event"
)

// WarmStart seeds the search with a known feasible integral solution.
type WarmStart[T any] struct {
	// Objective becomes the initial incumbent value.
	Objective float64
	// Solution becomes the initial incumbent solution.
	Solution []*colgen.Column[T]
	// SeedColumns also places Solution in the root master.
	SeedColumns bool
}

type config[T any] struct {
	creators          []BranchCreator[T]
	separators        []colgen.Separator[T]
	integral          IntegralityFunc[T]
	artificial        ArtificialFunc[T]
	warm              *WarmStart[T]
	initial           []*colgen.Column[T]
	order             Comparator[T]
	integralObjective bool
	inheritance       Inheritance
	nodeLimit         int
	consistencyChecks bool
	bus               *event.Bus
	listeners         []event.Listener
	decisionListeners []DecisionListener[T]
	colgenOpts        []colgen.Option
}

// Option configures an Engine.
type Option[T any] func(*config[T]) error

// WithBranchCreators appends branch creators; the first one whose CanBranch
// holds is used.
func WithBranchCreators[T any](creators ...BranchCreator[T]) Option[T] {
	return func(c *config[T]) error {
		c.creators = append(c.creators, creators...)
		return nil
	}
}

// WithSeparators registers cut separators.
func WithSeparators[T any](separators ...colgen.Separator[T]) Option[T] {
	return func(c *config[T]) error {
		c.separators = append(c.separators, separators...)
		return nil
	}
}

// WithIntegrality sets the integrality predicate.
func WithIntegrality[T any](f IntegralityFunc[T]) Option[T] {
	return func(c *config[T]) error {
		c.integral = f
		return nil
	}
}

// WithArtificialColumns sets the generator of per-node volatile columns.
func WithArtificialColumns[T any](f ArtificialFunc[T]) Option[T] {
	return func(c *config[T]) error {
		c.artificial = f
		return nil
	}
}

// WithWarmStart seeds the incumbent and optionally the root columns.
func WithWarmStart[T any](ws WarmStart[T]) Option[T] {
	return func(c *config[T]) error {
		for _, col := range ws.Solution {
			if col.IsVolatile() {
				return ErrVolatileWarmStart
			}
		}
		c.warm = &ws
		return nil
	}
}

// WithInitialColumns places columns in the root master.
func WithInitialColumns[T any](cols ...*colgen.Column[T]) Option[T] {
	return func(c *config[T]) error {
		for _, col := range cols {
			if col.IsVolatile() {
				return errors.Wrapf(ErrVolatileWarmStart, "initial column %v", col)
			}
		}
		c.initial = append(c.initial, cols...)
		return nil
	}
}

// WithNodeOrdering sets the node comparator. The default is BestBound for
// the master's sense.
func WithNodeOrdering[T any](cmp Comparator[T]) Option[T] {
	return func(c *config[T]) error {
		c.order = cmp
		return nil
	}
}

// WithIntegralObjective declares that every integral solution has an
// integer objective, so bounds are rounded before pruning.
func WithIntegralObjective[T any](on bool) Option[T] {
	return func(c *config[T]) error {
		c.integralObjective = on
		return nil
	}
}

// WithInheritance selects which parent columns children inherit.
func WithInheritance[T any](mode Inheritance) Option[T] {
	return func(c *config[T]) error {
		c.inheritance = mode
		return nil
	}
}

// WithNodeLimit stops the search after n processed nodes. Zero means no limit.
func WithNodeLimit[T any](n int) Option[T] {
	return func(c *config[T]) error {
		if n < 0 {
			return errors.Errorf("bap: node limit must be >= 0, got %d", n)
		}
		c.nodeLimit = n
		return nil
	}
}

// WithConsistencyChecks verifies, at every node, that inherited columns are
// admitted and filtered columns rejected by pricing problems implementing
// Admitter. A mismatch aborts the run with colgen.ErrProtocolViolation.
func WithConsistencyChecks[T any](on bool) Option[T] {
	return func(c *config[T]) error {
		c.consistencyChecks = on
		return nil
	}
}

// WithEventBus publishes engine and column generation events on bus.
func WithEventBus[T any](bus *event.Bus) Option[T] {
	return func(c *config[T]) error {
		c.bus = bus
		return nil
	}
}

// WithListeners subscribes listeners to the engine's event bus.
func WithListeners[T any](ls ...event.Listener) Option[T] {
	return func(c *config[T]) error {
		c.listeners = append(c.listeners, ls...)
		return nil
	}
}

// WithDecisionListeners registers extra decision listeners.
func WithDecisionListeners[T any](ls ...DecisionListener[T]) Option[T] {
	return func(c *config[T]) error {
		c.decisionListeners = append(c.decisionListeners, ls...)
		return nil
	}
}

// WithColGenOptions forwards options to the column generation loop.
func WithColGenOptions[T any](opts ...colgen.Option) Option[T] {
	return func(c *config[T]) error {
		c.colgenOpts = append(c.colgenOpts, opts...)
		return nil
	}
}
