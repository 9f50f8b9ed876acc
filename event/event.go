// Package event defines the lifecycle notifications emitted by the column
// generation loop and the branch-and-price search, and the observer list that
// delivers them.
//
// Events are plain value structs. Slices inside an event are copies owned by
// the event, so listeners cannot reach back into solver state.
package event

import "time"

// Event is implemented by every notification type.
type Event interface {
	// Kind returns a short stable identifier, e.g. "node_pruned".
	Kind() string
}

// NodeInfo is a snapshot of a search node.
type NodeInfo struct {
	ID       int
	Parent   int // -1 for the root
	Depth    int
	Bound    float64
	Decision string // empty for the root
	Status   string
}

// ColumnInfo describes a column added to a master problem.
type ColumnInfo struct {
	Pricing  string
	Creator  string
	Key      string
	Volatile bool
	Payload  string
}

// CutInfo describes an inequality added to a master problem.
type CutInfo struct {
	Separator string
	Key       string
	Text      string
}

// Started is emitted once before the first node is popped.
type Started struct {
	Maximize     bool
	HasIncumbent bool
	Incumbent    float64
}

// NodePopped is emitted when a node leaves the open-node queue.
type NodePopped struct {
	Node  NodeInfo
	Queue int // open nodes left
}

// NodePruned is emitted when a node's bound cannot improve on the incumbent.
type NodePruned struct {
	Node      NodeInfo
	Incumbent float64
}

// NodeInfeasible is emitted when a node's relaxation has no feasible solution
// without artificial columns.
type NodeInfeasible struct {
	Node   NodeInfo
	Reason string
}

// NodeIntegral is emitted when a node's relaxation solution is integral.
type NodeIntegral struct {
	Node      NodeInfo
	Objective float64
	Improved  bool
}

// NodeFractional is emitted when a node has to be branched on.
type NodeFractional struct {
	Node      NodeInfo
	Objective float64
}

// BranchCreated is emitted after children have been queued.
type BranchCreated struct {
	Parent   NodeInfo
	Creator  string
	Children []NodeInfo
}

// IncumbentUpdated is emitted whenever the best known integral solution improves.
type IncumbentUpdated struct {
	NodeID    int
	Objective float64
}

// MasterSolved is emitted after each master solve.
type MasterSolved struct {
	NodeID    int
	Iteration int
	Status    string
	Objective float64
	Duration  time.Duration
}

// PricingSolved is emitted after each round of pricing.
type PricingSolved struct {
	NodeID    int
	Iteration int
	Columns   int
	Duration  time.Duration
}

// ColumnsAdded is emitted when columns enter a master problem.
type ColumnsAdded struct {
	NodeID  int
	Columns []ColumnInfo
}

// CutsAdded is emitted when inequalities enter a master problem.
type CutsAdded struct {
	NodeID int
	Cuts   []CutInfo
}

// TimeLimitHit is emitted when the deadline stops the search.
type TimeLimitHit struct {
	NodeID       int
	HasIncumbent bool
	Incumbent    float64
	Bound        float64
}

// Finished is emitted once when the search returns without a fatal error.
type Finished struct {
	Optimal      bool
	HasIncumbent bool
	Incumbent    float64
	Bound        float64
	Nodes        int
	MasterTime   time.Duration
	PricingTime  time.Duration
}

func (Started) Kind() string          { return "started" }
func (NodePopped) Kind() string       { return "node_popped" }
func (NodePruned) Kind() string       { return "node_pruned" }
func (NodeInfeasible) Kind() string   { return "node_infeasible" }
func (NodeIntegral) Kind() string     { return "node_integral" }
func (NodeFractional) Kind() string   { return "node_fractional" }
func (BranchCreated) Kind() string    { return "branch_created" }
func (IncumbentUpdated) Kind() string { return "incumbent_updated" }
func (MasterSolved) Kind() string     { return "master_solved" }
func (PricingSolved) Kind() string    { return "pricing_solved" }
func (ColumnsAdded) Kind() string     { return "columns_added" }
func (CutsAdded) Kind() string        { return "cuts_added" }
func (TimeLimitHit) Kind() string     { return "time_limit_hit" }
func (Finished) Kind() string         { return "finished" }
