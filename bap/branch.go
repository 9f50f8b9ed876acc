package bap

import "github.com/katalvlaran/colgen"

// ChildFunc creates a child of the node being branched on. The child
// inherits the parent's compatible columns and cuts.
type ChildFunc[T any] func(d Decision[T]) *Node[T]

// BranchCreator turns a fractional node into children.
type BranchCreator[T any] interface {
	// CanBranch reports whether the creator finds a branching candidate.
	CanBranch(solution []*colgen.Column[T]) bool
	// CreateChildren returns two or more children made with spawn.
	CreateChildren(parent *Node[T], spawn ChildFunc[T]) ([]*Node[T], error)
}

// Inheritance selects which parent columns a child starts with.
type Inheritance int

const (
	// InheritMaster passes every non-volatile master column of the parent.
	InheritMaster Inheritance = iota
	// InheritSolution passes only the parent's positive solution columns.
	InheritSolution
)

// IntegralityFunc reports whether a processed node's solution is integral.
type IntegralityFunc[T any] func(n *Node[T]) bool

// ArtificialFunc returns the volatile columns that keep a node's master
// feasible. It is called for every node with the current incumbent.
type ArtificialFunc[T any] func(inc Incumbent[T]) []*colgen.Column[T]

// OneColumnPerPricing is an integrality predicate for masters with one
// convexity row per pricing problem: the solution is integral when it holds
// exactly one column per pricing problem, each at value 1.
func OneColumnPerPricing[T any](pricing int) IntegralityFunc[T] {
	return func(n *Node[T]) bool {
		if len(n.solution) != pricing {
			return false
		}
		seen := make(map[colgen.PricingProblem]bool, pricing)
		for _, c := range n.solution {
			if c.IsVolatile() || seen[c.Pricing] || colgen.IsFractional(c.Value) {
				return false
			}
			seen[c.Pricing] = true
		}
		return true
	}
}

// spawn returns the ChildFunc for parent.
func (e *Engine[T]) spawn(parent *Node[T]) ChildFunc[T] {
	return func(d Decision[T]) *Node[T] {
		child := &Node[T]{
			id:        e.nextID,
			parent:    parent.id,
			path:      append(append(make([]int, 0, len(parent.path)+1), parent.path...), e.nextID),
			decisions: append(append(make([]Decision[T], 0, len(parent.decisions)+1), parent.decisions...), d),
			bound:     parent.bound,
			status:    Unprocessed,
		}
		e.nextID++

		source := parent.masterColumns
		if e.cfg.inheritance == InheritSolution {
			source = parent.solution
		}
		for _, c := range source {
			if c.IsVolatile() {
				continue
			}
			if d.ColumnCompatible(c) {
				child.columns = append(child.columns, c)
			} else if e.cfg.consistencyChecks {
				child.rejected = append(child.rejected, c)
			}
		}
		for _, ineq := range parent.masterCuts {
			if d.InequalityCompatible(ineq) {
				child.cuts = append(child.cuts, ineq)
			}
		}
		e.spawned[child] = parent.id

		return child
	}
}
