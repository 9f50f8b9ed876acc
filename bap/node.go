package bap

import (
	"fmt"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/event"
)

// Status is the processing state of a node.
type Status int

const (
	Unprocessed Status = iota
	Integer
	Fractional
	Pruned
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Unprocessed:
		return "unprocessed"
	case Integer:
		return "integer"
	case Fractional:
		return "fractional"
	case Pruned:
		return "pruned"
	case Infeasible:
		return "infeasible"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Node is a search-tree node. Nodes are created by the engine only: the root
// in Run and children through the ChildFunc handed to a BranchCreator.
type Node[T any] struct {
	id     int
	parent int
	path   []int
	// decisions[i] created the node path[i+1].
	decisions []Decision[T]

	bound  float64
	status Status

	columns []*colgen.Column[T]
	cuts    []colgen.Inequality

	// Filled in once the node is processed.
	objective     float64
	solution      []*colgen.Column[T]
	masterColumns []*colgen.Column[T]
	masterCuts    []colgen.Inequality

	// rejected keeps the parent columns filtered out by the node's decision
	// when consistency checks are on.
	rejected []*colgen.Column[T]
}

// ID returns the creation-order identifier; the root is 0.
func (n *Node[T]) ID() int { return n.id }

// Parent returns the parent ID or -1 for the root.
func (n *Node[T]) Parent() int { return n.parent }

// Depth returns the number of decisions on the node's path.
func (n *Node[T]) Depth() int { return len(n.decisions) }

// Path returns the node IDs from the root to n.
func (n *Node[T]) Path() []int { return append([]int(nil), n.path...) }

// Decisions returns the decisions from the root to n.
func (n *Node[T]) Decisions() []Decision[T] { return append([]Decision[T](nil), n.decisions...) }

// Decision returns the decision that created n, or nil for the root.
func (n *Node[T]) Decision() Decision[T] {
	if len(n.decisions) == 0 {
		return nil
	}

	return n.decisions[len(n.decisions)-1]
}

// Bound is the parent's bound until the node is processed, then the
// node's own relaxation value, never better than the parent's.
func (n *Node[T]) Bound() float64 { return n.bound }

// Status returns the processing state.
func (n *Node[T]) Status() Status { return n.status }

// InheritedColumns returns the columns the node starts its master with.
func (n *Node[T]) InheritedColumns() []*colgen.Column[T] { return n.columns }

// InheritedCuts returns the cuts the node starts its master with.
func (n *Node[T]) InheritedCuts() []colgen.Inequality { return n.cuts }

// Objective returns the converged master value of a processed node.
func (n *Node[T]) Objective() float64 { return n.objective }

// Solution returns the positive master columns of a processed node.
func (n *Node[T]) Solution() []*colgen.Column[T] { return n.solution }

// MasterColumns returns the non-volatile master columns of a processed node.
func (n *Node[T]) MasterColumns() []*colgen.Column[T] { return n.masterColumns }

// MasterCuts returns the cuts active in a processed node's master.
func (n *Node[T]) MasterCuts() []colgen.Inequality { return n.masterCuts }

// info returns an event snapshot.
func (n *Node[T]) info() event.NodeInfo {
	ni := event.NodeInfo{
		ID:     n.id,
		Parent: n.parent,
		Depth:  n.Depth(),
		Bound:  n.bound,
		Status: n.status.String(),
	}
	if d := n.Decision(); d != nil {
		ni.Decision = d.String()
	}

	return ni
}

func (n *Node[T]) pathStrings() []string {
	out := make([]string, len(n.decisions))
	for i, d := range n.decisions {
		out[i] = d.String()
	}

	return out
}
