package bap

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/event"
)

// Incumbent is the best integral solution found so far.
type Incumbent[T any] struct {
	Valid     bool
	Objective float64
	Solution  []*colgen.Column[T]
	// NodeID is the node that produced the solution, -1 for a warm start.
	NodeID int
}

// Stats aggregates the work of one run.
type Stats struct {
	Nodes            int // nodes whose master was solved
	Pruned           int
	CutOff           int // pruned during column generation, a subset of Pruned
	Infeasible       int
	Integer          int
	Fractional       int
	MaxDepth         int
	Iterations       int
	ColumnsGenerated int
	CutsAdded        int
	MasterTime       time.Duration
	PricingTime      time.Duration
}

// Result is the outcome of Run.
type Result[T any] struct {
	// Optimal is true when the tree was exhausted.
	Optimal   bool
	Incumbent Incumbent[T]
	// Bound is the best bound on the optimum over the open nodes and the
	// incumbent. With Optimal set it equals the incumbent objective.
	Bound float64
	Stats Stats
}

// Engine is the branch-and-price tree search. An Engine runs once.
type Engine[T any] struct {
	master  colgen.Master[T]
	pricing []colgen.PricingSolver[T]
	cg      *colgen.ColGen[T]
	cfg     config[T]
	sense   colgen.Sense
	bus     *event.Bus

	queue *nodeQueue[T]
	manip manipulator[T]

	incumbent Incumbent[T]
	bound     float64
	optimal   bool
	stats     Stats
	ran       bool

	nextID  int
	spawned map[*Node[T]]int
	// lastStatus is the last master status seen per node, for NodeError.
	lastStatus map[int]string
}

// New assembles an engine. At least one branch creator and an integrality
// predicate are required.
func New[T any](master colgen.Master[T], pricing []colgen.PricingSolver[T], opts ...Option[T]) (*Engine[T], error) {
	if master == nil {
		return nil, colgen.ErrNilMaster
	}
	var cfg config[T]
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if len(cfg.creators) == 0 {
		return nil, ErrNoBranchCreator
	}
	if cfg.integral == nil {
		return nil, ErrNoIntegrality
	}

	bus := cfg.bus
	if bus == nil {
		bus = &event.Bus{}
	}
	for _, l := range cfg.listeners {
		bus.Subscribe(l)
	}

	var e *Engine[T]
	cgOpts := append([]colgen.Option{
		colgen.WithEvents(bus),
		colgen.WithCutoff(func(b float64) bool { return !e.canImprove(b) }),
	}, cfg.colgenOpts...)
	cg, err := colgen.New(master, pricing, cfg.separators, cgOpts...)
	if err != nil {
		return nil, err
	}

	sense := master.Sense()
	if cfg.order == nil {
		cfg.order = BestBound[T](sense)
	}

	e = &Engine[T]{
		master:     master,
		pricing:    cg.Solvers(),
		cg:         cg,
		cfg:        cfg,
		sense:      sense,
		bus:        bus,
		queue:      newNodeQueue(cfg.order),
		incumbent:  Incumbent[T]{NodeID: -1},
		bound:      worstBound(sense),
		spawned:    make(map[*Node[T]]int),
		lastStatus: make(map[int]string),
	}
	e.manip.listeners = e.decisionListeners()
	bus.Subscribe(event.ListenerFunc(func(ev event.Event) {
		if ms, ok := ev.(event.MasterSolved); ok {
			e.lastStatus[ms.NodeID] = ms.Status
		}
	}))

	return e, nil
}

// decisionListeners collects the master, the pricing solvers and the
// configured listeners that want decision notifications.
func (e *Engine[T]) decisionListeners() []DecisionListener[T] {
	var out []DecisionListener[T]
	if l, ok := e.master.(DecisionListener[T]); ok {
		out = append(out, l)
	}
	for _, s := range e.pricing {
		if l, ok := s.(DecisionListener[T]); ok {
			out = append(out, l)
		}
	}

	return append(out, e.cfg.decisionListeners...)
}

// Run explores the tree until it is exhausted, the node limit is reached
// or ctx is done. A deadline is not an error: the returned Result holds the
// best incumbent and Optimal is false. Failures that abort the search are
// returned as *NodeError together with the partial Result.
func (e *Engine[T]) Run(ctx context.Context) (*Result[T], error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true

	root := &Node[T]{id: 0, parent: -1, path: []int{0}, bound: worstBound(e.sense)}
	e.nextID = 1
	root.columns = append(root.columns, e.cfg.initial...)
	if ws := e.cfg.warm; ws != nil {
		e.incumbent = Incumbent[T]{Valid: true, Objective: ws.Objective, Solution: snapshot(ws.Solution), NodeID: -1}
		if ws.SeedColumns {
			root.columns = append(root.columns, ws.Solution...)
		}
	}
	e.queue.push(root)
	e.bus.Emit(event.Started{
		Maximize:     e.sense == colgen.Maximize,
		HasIncumbent: e.incumbent.Valid,
		Incumbent:    e.incumbent.Objective,
	})

	stopped := false
	for e.queue.Len() > 0 {
		if e.cfg.nodeLimit > 0 && e.stats.Nodes >= e.cfg.nodeLimit {
			stopped = true
			break
		}
		n := e.queue.pop()
		e.bus.Emit(event.NodePopped{Node: n.info(), Queue: e.queue.Len()})

		err := e.process(ctx, n)
		if err == nil {
			continue
		}
		if colgen.IsTimeLimit(err) {
			// Processing restarts from scratch if the node is ever resumed.
			n.status = Unprocessed
			e.queue.push(n)
			e.bus.Emit(event.TimeLimitHit{
				NodeID:       n.id,
				HasIncumbent: e.incumbent.Valid,
				Incumbent:    e.incumbent.Objective,
				Bound:        e.openBound(),
			})
			stopped = true
			break
		}
		if rerr := e.manip.restore(); rerr != nil {
			err = errors.WithMessagef(err, "restore decisions also failed: %v", rerr)
		}

		return e.result(), &NodeError{NodeID: n.id, Path: n.pathStrings(), Status: e.status(n.id), Err: err}
	}
	if err := e.manip.restore(); err != nil {
		return e.result(), errors.WithMessage(err, "bap: restore decisions")
	}

	e.optimal = !stopped
	e.bound = e.openBound()
	res := e.result()
	e.bus.Emit(event.Finished{
		Optimal:      res.Optimal,
		HasIncumbent: res.Incumbent.Valid,
		Incumbent:    res.Incumbent.Objective,
		Bound:        res.Bound,
		Nodes:        res.Stats.Nodes,
		MasterTime:   res.Stats.MasterTime,
		PricingTime:  res.Stats.PricingTime,
	})

	return res, nil
}

// process solves one node and queues its children.
func (e *Engine[T]) process(ctx context.Context, n *Node[T]) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(colgen.ErrTimeLimit, "before node")
	}
	if !e.canImprove(n.bound) {
		e.prune(n)
		return nil
	}

	if err := e.manip.moveTo(n); err != nil {
		return err
	}
	if e.cfg.consistencyChecks {
		if err := checkInheritance(n); err != nil {
			return err
		}
	}

	data, err := e.buildMaster(ctx, n)
	if err != nil {
		return err
	}
	e.stats.Nodes++
	if n.Depth() > e.stats.MaxDepth {
		e.stats.MaxDepth = n.Depth()
	}

	res, err := e.cg.Solve(ctx, data)
	e.account(res)
	if err != nil {
		if errors.Is(err, colgen.ErrNodeInfeasible) {
			e.infeasible(n, err.Error())
			return nil
		}
		return err
	}
	if res.CutOff {
		n.objective = res.Objective
		n.bound = e.sense.Worst(n.bound, res.Bound)
		e.stats.CutOff++
		e.prune(n)
		return nil
	}

	n.objective = res.Objective
	n.solution = res.Solution
	n.masterCuts = data.Cuts()
	for _, c := range data.AllColumns() {
		if !c.IsVolatile() {
			n.masterColumns = append(n.masterColumns, c)
		}
	}
	n.bound = e.sense.Worst(n.bound, res.Objective)

	if !e.canImprove(n.bound) {
		e.prune(n)
		return nil
	}
	for _, c := range n.solution {
		if c.IsVolatile() && colgen.IsPositive(c.Value) {
			e.infeasible(n, "artificial column "+c.String()+" in solution")
			return nil
		}
	}
	if e.cfg.integral(n) {
		e.integral(n)
		return nil
	}

	return e.branch(n)
}

// buildMaster rebuilds the live master for n and returns its bookkeeping.
func (e *Engine[T]) buildMaster(ctx context.Context, n *Node[T]) (*colgen.MasterData[T], error) {
	if err := e.master.Build(ctx); err != nil {
		if colgen.IsTimeLimit(err) {
			return nil, errors.Wrap(colgen.ErrTimeLimit, "build master")
		}
		return nil, &colgen.SolverFailure{Solver: "master", Status: colgen.Failed, Err: errors.Wrap(err, "build")}
	}
	data := colgen.NewMasterData[T](n.id)

	add := func(c *colgen.Column[T]) error {
		if !data.AddColumn(c) {
			return colgen.Violation("duplicate column %v at node %d", c, n.id)
		}
		if err := e.master.AddColumn(c); err != nil {
			return &colgen.SolverFailure{Solver: "master", Status: colgen.Failed, Err: errors.Wrapf(err, "add column %v", c)}
		}
		return nil
	}
	for _, c := range n.columns {
		if c.IsVolatile() {
			return nil, colgen.Violation("node %d inherited volatile column %v", n.id, c)
		}
		if err := add(c); err != nil {
			return nil, err
		}
	}
	if e.cfg.artificial != nil {
		for _, c := range e.cfg.artificial(e.incumbent) {
			if !c.IsVolatile() {
				return nil, colgen.Violation("artificial column %v is not volatile", c)
			}
			if err := add(c); err != nil {
				return nil, err
			}
		}
	}
	for _, ineq := range n.cuts {
		if !data.AddCut(ineq) {
			return nil, colgen.Violation("duplicate inherited cut %s at node %d", ineq.Key(), n.id)
		}
		if err := e.master.AddInequality(ineq); err != nil {
			return nil, &colgen.SolverFailure{Solver: "master", Status: colgen.Failed, Err: errors.Wrapf(err, "add cut %s", ineq.Key())}
		}
	}
	if len(n.columns) > 0 {
		infos := make([]event.ColumnInfo, len(n.columns))
		for i, c := range n.columns {
			infos[i] = c.Info()
		}
		e.bus.Emit(event.ColumnsAdded{NodeID: n.id, Columns: infos})
	}

	return data, nil
}

// checkInheritance compares the decision's column filter with the
// restricted pricing problems.
func checkInheritance[T any](n *Node[T]) error {
	for _, c := range n.columns {
		if a, ok := c.Pricing.(Admitter[T]); ok && !a.Admits(c) {
			return colgen.Violation("node %d inherited column %v its pricing problem rejects", n.id, c)
		}
	}
	for _, c := range n.rejected {
		if a, ok := c.Pricing.(Admitter[T]); ok && a.Admits(c) {
			return colgen.Violation("node %d filtered column %v its pricing problem admits", n.id, c)
		}
	}

	return nil
}

func (e *Engine[T]) account(res *colgen.Result[T]) {
	if res == nil {
		return
	}
	e.stats.Iterations += res.Iterations
	e.stats.ColumnsGenerated += res.ColumnsGenerated
	e.stats.CutsAdded += res.CutsAdded
	e.stats.MasterTime += res.MasterTime
	e.stats.PricingTime += res.PricingTime
}

func (e *Engine[T]) prune(n *Node[T]) {
	n.status = Pruned
	e.stats.Pruned++
	e.bus.Emit(event.NodePruned{Node: n.info(), Incumbent: e.incumbent.Objective})
}

func (e *Engine[T]) infeasible(n *Node[T], reason string) {
	n.status = Infeasible
	e.stats.Infeasible++
	e.bus.Emit(event.NodeInfeasible{Node: n.info(), Reason: reason})
}

func (e *Engine[T]) integral(n *Node[T]) {
	n.status = Integer
	e.stats.Integer++
	improved := !e.incumbent.Valid || e.sense.Better(n.objective, e.incumbent.Objective)
	if improved {
		e.incumbent = Incumbent[T]{Valid: true, Objective: n.objective, Solution: snapshot(n.solution), NodeID: n.id}
	}
	e.bus.Emit(event.NodeIntegral{Node: n.info(), Objective: n.objective, Improved: improved})
	if improved {
		e.bus.Emit(event.IncumbentUpdated{NodeID: n.id, Objective: n.objective})
	}
}

// snapshot copies cols so later master solves cannot rewrite their values.
func snapshot[T any](cols []*colgen.Column[T]) []*colgen.Column[T] {
	out := make([]*colgen.Column[T], len(cols))
	for i, c := range cols {
		cp := *c
		out[i] = &cp
	}

	return out
}

func (e *Engine[T]) branch(n *Node[T]) error {
	n.status = Fractional
	e.stats.Fractional++
	e.bus.Emit(event.NodeFractional{Node: n.info(), Objective: n.objective})

	var creator BranchCreator[T]
	for _, bc := range e.cfg.creators {
		if bc.CanBranch(n.solution) {
			creator = bc
			break
		}
	}
	if creator == nil {
		return colgen.Violation("fractional node %d has no branching candidate", n.id)
	}

	children, err := creator.CreateChildren(n, e.spawn(n))
	defer clear(e.spawned)
	if err != nil {
		return errors.WithMessagef(err, "create children of node %d", n.id)
	}
	if len(children) < 2 {
		return colgen.Violation("branch creator %T returned %d children", creator, len(children))
	}
	infos := make([]event.NodeInfo, len(children))
	for i, c := range children {
		if p, ok := e.spawned[c]; !ok || p != n.id {
			return colgen.Violation("branch creator %T returned a node not spawned from node %d", creator, n.id)
		}
		infos[i] = c.info()
	}
	for _, c := range children {
		e.queue.push(c)
	}
	e.bus.Emit(event.BranchCreated{Parent: n.info(), Creator: creatorName(creator), Children: infos})

	return nil
}

// canImprove reports whether a node with bound b may still beat the incumbent.
func (e *Engine[T]) canImprove(b float64) bool {
	if !e.incumbent.Valid {
		return true
	}
	if e.cfg.integralObjective {
		if e.sense == colgen.Maximize {
			b = colgen.FloorTol(b)
		} else {
			b = colgen.CeilTol(b)
		}
	}

	return e.sense.Better(b, e.incumbent.Objective)
}

// openBound is the best bound over the open nodes and the incumbent.
func (e *Engine[T]) openBound() float64 {
	b, ok := e.queue.bestBound(e.sense)
	if !e.incumbent.Valid {
		if ok {
			return b
		}
		// Exhausted without a solution: the problem is infeasible.
		return -worstBound(e.sense)
	}
	if !ok || e.sense.Better(e.incumbent.Objective, b) {
		return e.incumbent.Objective
	}

	return b
}

func (e *Engine[T]) result() *Result[T] {
	return &Result[T]{
		Optimal:   e.optimal,
		Incumbent: e.incumbent,
		Bound:     e.bound,
		Stats:     e.stats,
	}
}

func (e *Engine[T]) status(node int) string {
	if s, ok := e.lastStatus[node]; ok {
		return s
	}

	return "unsolved"
}

// Incumbent returns the best integral solution found so far.
func (e *Engine[T]) Incumbent() Incumbent[T] { return e.incumbent }

// Bound returns the bound computed at the end of Run.
func (e *Engine[T]) Bound() float64 { return e.bound }

// IsOptimal reports whether Run exhausted the tree.
func (e *Engine[T]) IsOptimal() bool { return e.optimal }

// Stats returns the counters accumulated so far.
func (e *Engine[T]) Stats() Stats { return e.stats }

// SetNodeOrdering swaps the node comparator, also while nodes are queued.
func (e *Engine[T]) SetNodeOrdering(cmp Comparator[T]) {
	e.cfg.order = cmp
	e.queue.reorder(cmp)
}

// ActiveDecisions returns the decisions currently executed, root first.
// It is empty outside Run.
func (e *Engine[T]) ActiveDecisions() []Decision[T] { return e.manip.active() }

// Events returns the engine's event bus.
func (e *Engine[T]) Events() *event.Bus { return e.bus }

func worstBound(s colgen.Sense) float64 {
	if s == colgen.Maximize {
		return math.Inf(1)
	}

	return math.Inf(-1)
}

type namer interface{ Name() string }

func creatorName(v any) string {
	if n, ok := v.(namer); ok {
		return n.Name()
	}

	return "branch creator"
}
