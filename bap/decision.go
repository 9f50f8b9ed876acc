package bap

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
)

// Decision is a reversible restriction of the pricing problems.
//
// Execute applies the restriction and Revert undoes it exactly. After
// Execute, ColumnCompatible must return false for precisely the columns the
// restricted pricing problem can no longer produce. InequalityCompatible
// reports whether a cut stays valid under the restriction.
type Decision[T any] interface {
	Execute() error
	Revert() error
	ColumnCompatible(c *colgen.Column[T]) bool
	InequalityCompatible(ineq colgen.Inequality) bool
	String() string
}

// DecisionListener is notified after a decision is executed or reverted.
// Masters and pricing solvers implementing it are registered automatically.
type DecisionListener[T any] interface {
	DecisionPerformed(d Decision[T]) error
	DecisionReversed(d Decision[T]) error
}

// Admitter is implemented by pricing problems that can tell whether a column
// is feasible under their current restrictions. With consistency checks on,
// the engine compares it against ColumnCompatible.
type Admitter[T any] interface {
	Admits(c *colgen.Column[T]) bool
}

// step is one executed decision together with the node it created.
type step[T any] struct {
	node     int
	decision Decision[T]
}

// manipulator moves the single active path through the tree.
type manipulator[T any] struct {
	stack     []step[T]
	listeners []DecisionListener[T]
}

// moveTo reverts the steps that are not on target's path, deepest first,
// then executes target's remaining decisions root first.
func (m *manipulator[T]) moveTo(target *Node[T]) error {
	k := 0
	for k < len(m.stack) && k < len(target.decisions) && m.stack[k].node == target.path[k+1] {
		k++
	}
	if err := m.revertTo(k); err != nil {
		return err
	}
	for i := k; i < len(target.decisions); i++ {
		d := target.decisions[i]
		if err := d.Execute(); err != nil {
			return colgen.Violation("execute %s: %v", d, err)
		}
		m.stack = append(m.stack, step[T]{node: target.path[i+1], decision: d})
		for _, l := range m.listeners {
			if err := l.DecisionPerformed(d); err != nil {
				return errors.Wrapf(err, "decision listener on execute %s", d)
			}
		}
	}

	return nil
}

// revertTo pops the stack down to depth k.
func (m *manipulator[T]) revertTo(k int) error {
	for len(m.stack) > k {
		top := m.stack[len(m.stack)-1]
		if err := top.decision.Revert(); err != nil {
			return colgen.Violation("revert %s: %v", top.decision, err)
		}
		m.stack = m.stack[:len(m.stack)-1]
		for _, l := range m.listeners {
			if err := l.DecisionReversed(top.decision); err != nil {
				return errors.Wrapf(err, "decision listener on revert %s", top.decision)
			}
		}
	}

	return nil
}

// restore reverts every active decision.
func (m *manipulator[T]) restore() error { return m.revertTo(0) }

// active returns the executed decisions, root first.
func (m *manipulator[T]) active() []Decision[T] {
	out := make([]Decision[T], len(m.stack))
	for i, s := range m.stack {
		out[i] = s.decision
	}

	return out
}

// activeNodes returns the IDs of the nodes whose decisions are executed.
func (m *manipulator[T]) activeNodes() []int {
	out := make([]int, len(m.stack))
	for i, s := range m.stack {
		out[i] = s.node
	}

	return out
}
