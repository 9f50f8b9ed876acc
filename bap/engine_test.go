package bap_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/bap"
	"github.com/katalvlaran/colgen/event"
)

func recorder(out *[]event.Event) event.Listener {
	return event.ListenerFunc(func(e event.Event) { *out = append(*out, e) })
}

func eventsOf[E event.Event](all []event.Event) []E {
	var out []E
	for _, e := range all {
		if x, ok := e.(E); ok {
			out = append(out, x)
		}
	}
	return out
}

type EngineSuite struct {
	suite.Suite
	f *fixture
}

func (s *EngineSuite) SetupTest() { s.f = newFixture(tree()) }

func (s *EngineSuite) run(opts ...bap.Option[string]) *bap.Result[string] {
	e, err := s.f.engine(opts...)
	s.Require().NoError(err)
	res, err := e.Run(context.Background())
	s.Require().NoError(err)
	s.Empty(e.ActiveDecisions())
	s.Empty(s.f.master.tr.labels, "decisions left executed")

	return res
}

func (s *EngineSuite) TestDepthFirstWalk() {
	res := s.run(bap.WithNodeOrdering(bap.DepthFirst[string]()))

	s.True(res.Optimal)
	s.InDelta(11.5, res.Incumbent.Objective, 1e-9)
	s.InDelta(11.5, res.Bound, 1e-9)
	s.Equal(4, res.Incumbent.NodeID)
	s.Equal(7, res.Stats.Nodes)
	s.Equal(3, res.Stats.Pruned)
	s.Equal(1, res.Stats.Integer)
	s.Equal(3, res.Stats.Fractional)
	s.Equal(3, res.Stats.MaxDepth)

	want := []string{"", "R", "RR", "RL", "RLR", "RLL", "L"}
	if diff := cmp.Diff(want, s.f.master.builds); diff != "" {
		s.Failf("master build order", "(-want +got):\n%s", diff)
	}
}

func (s *EngineSuite) TestBoundIsClampedToParent() {
	s.run(bap.WithNodeOrdering(bap.DepthFirst[string]()))

	for _, fr := range eventsOf[event.NodeFractional](s.f.events) {
		if fr.Node.Decision == "L" && fr.Node.Depth == 2 {
			// RL solves to 10.9 below its parent's 11.
			s.InDelta(11.0, fr.Node.Bound, 1e-9)
			s.InDelta(10.9, fr.Objective, 1e-9)
			return
		}
	}
	s.Fail("node RL was not branched on")
}

func (s *EngineSuite) TestOrderingsAgreeOnOptimum() {
	orders := map[string]bap.Comparator[string]{
		"dfs":  bap.DepthFirst[string](),
		"bfs":  bap.BreadthFirst[string](),
		"best": bap.BestBound[string](colgen.Minimize),
	}
	for name, order := range orders {
		f := newFixture(tree())
		e, err := f.engine(bap.WithNodeOrdering(order))
		s.Require().NoError(err, name)
		res, err := e.Run(context.Background())
		s.Require().NoError(err, name)
		s.True(res.Optimal, name)
		s.InDelta(11.5, res.Incumbent.Objective, 1e-9, name)
		s.Equal(7, res.Stats.Nodes, name)
	}
}

func (s *EngineSuite) TestBoundMonotonicity() {
	s.run(bap.WithNodeOrdering(bap.BreadthFirst[string]()))

	bound := map[int]float64{}
	parent := map[int]int{}
	note := func(n event.NodeInfo) {
		bound[n.ID] = n.Bound
		parent[n.ID] = n.Parent
	}
	for _, e := range s.f.events {
		switch x := e.(type) {
		case event.NodeFractional:
			note(x.Node)
		case event.NodeIntegral:
			note(x.Node)
		case event.NodePruned:
			note(x.Node)
		}
	}
	for id, b := range bound {
		p, ok := bound[parent[id]]
		if id == 0 || !ok {
			continue
		}
		s.GreaterOrEqual(b, p-colgen.Precision, "node %d bound below parent", id)
	}
}

func (s *EngineSuite) TestPruningSoundness() {
	s.run(bap.WithNodeOrdering(bap.DepthFirst[string]()))

	pruned := eventsOf[event.NodePruned](s.f.events)
	s.Len(pruned, 3)
	for _, p := range pruned {
		s.GreaterOrEqual(p.Node.Bound, p.Incumbent-colgen.Precision)
	}

	// Every node that was branched on or accepted as integral could still
	// beat the incumbent of its time.
	var (
		incumbent float64
		has       bool
		checked   int
	)
	kept := func(n event.NodeInfo) {
		if has {
			s.Less(n.Bound, incumbent-colgen.Precision, "node %d kept without improving", n.ID)
			checked++
		}
	}
	for _, e := range s.f.events {
		switch x := e.(type) {
		case event.Started:
			incumbent, has = x.Incumbent, x.HasIncumbent
		case event.IncumbentUpdated:
			incumbent, has = x.Objective, true
		case event.NodeFractional:
			kept(x.Node)
		case event.NodeIntegral:
			kept(x.Node)
		}
	}
	s.Equal(1, checked, "RL is the only node kept after RR")
}

func (s *EngineSuite) TestIntegralObjectiveRounding() {
	f := newFixture(map[string]scripted{
		"":  {lp: 10},
		"L": {lp: 10.2},
		"R": {lp: 11, integral: true},
	})
	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithIntegralObjective[string](true),
	)
	s.Require().NoError(err)
	res, err := e.Run(context.Background())
	s.Require().NoError(err)
	s.InDelta(11.0, res.Incumbent.Objective, 1e-9)
	// L's 10.2 rounds up to 11 and cannot beat the incumbent.
	s.Equal(1, res.Stats.Pruned)
}

func (s *EngineSuite) TestEventLifecycle() {
	s.run(bap.WithNodeOrdering(bap.DepthFirst[string]()))

	s.Require().NotEmpty(s.f.events)
	s.IsType(event.Started{}, s.f.events[0])
	fin, ok := s.f.events[len(s.f.events)-1].(event.Finished)
	s.Require().True(ok)
	s.True(fin.Optimal)
	s.Equal(7, fin.Nodes)
	s.Len(eventsOf[event.NodePopped](s.f.events), 7)
	s.Len(eventsOf[event.BranchCreated](s.f.events), 3)
	s.Len(eventsOf[event.IncumbentUpdated](s.f.events), 1)
	s.Len(eventsOf[event.MasterSolved](s.f.events), 7)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestInheritanceFiltersColumns(t *testing.T) {
	f := newFixture(tree())
	f.brancher.forbidL, f.brancher.forbidR = "x", "y"
	f.master.pp.forbids["L"], f.master.pp.forbids["R"] = "x", "y"
	x := colgen.NewColumn[string](f.master.pp, "x", "seed")
	y := colgen.NewColumn[string](f.master.pp, "y", "seed")

	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithInitialColumns(x, y),
		bap.WithConsistencyChecks[string](true),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Optimal)

	assert.Equal(t, []string{"x", "y"}, f.master.columns[""])
	assert.Equal(t, []string{"y"}, f.master.columns["L"])
	assert.Equal(t, []string{"x"}, f.master.columns["R"])
	assert.Empty(t, f.master.columns["RL"])
	assert.Equal(t, []string{"x"}, f.master.columns["RR"])
}

func TestInheritSolutionOnly(t *testing.T) {
	f := newFixture(tree())
	x := colgen.NewColumn[string](f.master.pp, "x", "seed")

	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithInitialColumns(x),
		bap.WithInheritance[string](bap.InheritSolution),
	)
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)

	// x is in the root master but not in its solution.
	assert.Equal(t, []string{"x"}, f.master.columns[""])
	assert.Equal(t, []string{"aR", "bR"}, f.master.columns["RL"])
	assert.Equal(t, []string{"a", "b"}, f.master.columns["R"])
}

func TestConsistencyCheckCatchesLyingDecision(t *testing.T) {
	f := newFixture(tree())
	f.brancher.forbidL, f.brancher.lies = "x", true
	f.master.pp.forbids["L"] = "x"
	x := colgen.NewColumn[string](f.master.pp, "x", "seed")

	e, err := f.engine(
		bap.WithNodeOrdering(bap.BreadthFirst[string]()),
		bap.WithInitialColumns(x),
		bap.WithConsistencyChecks[string](true),
	)
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.ErrorIs(t, err, colgen.ErrProtocolViolation)

	var ne *bap.NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 1, ne.NodeID)
	assert.Equal(t, []string{"L"}, ne.Path)
	assert.Empty(t, f.master.tr.labels)
}

func TestVolatileSolutionMeansInfeasible(t *testing.T) {
	f := newFixture(map[string]scripted{
		"":  {lp: 10},
		"L": {lp: 9, volatile: true},
		"R": {lp: 11, integral: true},
	})
	artificial := func(inc bap.Incumbent[string]) []*colgen.Column[string] {
		return []*colgen.Column[string]{colgen.NewVolatileColumn[string](f.master.pp, "art", "artificial")}
	}
	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithArtificialColumns[string](artificial),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Optimal)
	assert.InDelta(t, 11.0, res.Incumbent.Objective, 1e-9)
	assert.Equal(t, 1, res.Stats.Infeasible)
	inf := eventsOf[event.NodeInfeasible](f.events)
	require.Len(t, inf, 1)
	assert.Equal(t, "L", inf[0].Node.Decision)
	// The artificial column is added to every master but never inherited.
	for key, cols := range f.master.columns {
		assert.NotContains(t, cols, "art", key)
	}
}

func TestInfeasibleMaster(t *testing.T) {
	f := newFixture(map[string]scripted{
		"":  {lp: 10},
		"L": {infeasible: true},
		"R": {infeasible: true},
	})
	e, err := f.engine()
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Optimal)
	assert.False(t, res.Incumbent.Valid)
	assert.Equal(t, 2, res.Stats.Infeasible)
	assert.True(t, math.IsInf(res.Bound, 1))
}

func TestTimeLimitKeepsIncumbent(t *testing.T) {
	script := tree()
	script["RL"] = scripted{cancel: true}
	f := newFixture(script)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.master.cancel = cancel

	e, err := f.engine(bap.WithNodeOrdering(bap.DepthFirst[string]()))
	require.NoError(t, err)
	res, err := e.Run(ctx)
	require.NoError(t, err)

	assert.False(t, res.Optimal)
	assert.False(t, e.IsOptimal())
	assert.True(t, res.Incumbent.Valid)
	assert.InDelta(t, 11.5, res.Incumbent.Objective, 1e-9)
	// RL (bound 11) and L (bound 10) are still open.
	assert.InDelta(t, 10.0, res.Bound, 1e-9)
	hits := eventsOf[event.TimeLimitHit](f.events)
	require.Len(t, hits, 1)
	assert.Equal(t, 3, hits[0].NodeID)
	assert.Empty(t, e.ActiveDecisions())
}

func TestNoBranchCandidateIsViolation(t *testing.T) {
	f := newFixture(tree())
	f.brancher.never = true
	e, err := f.engine()
	require.NoError(t, err)
	_, err = e.Run(context.Background())

	require.ErrorIs(t, err, colgen.ErrProtocolViolation)
	var ne *bap.NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 0, ne.NodeID)
	assert.Empty(t, ne.Path)
	assert.Equal(t, colgen.Optimal.String(), ne.Status)
}

func TestWarmStart(t *testing.T) {
	f := newFixture(tree())
	seed := colgen.NewColumn[string](f.master.pp, "tour", "warm")
	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithWarmStart(bap.WarmStart[string]{Objective: 11, Solution: []*colgen.Column[string]{seed}}),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Optimal)
	assert.InDelta(t, 11.0, res.Incumbent.Objective, 1e-9)
	assert.Equal(t, -1, res.Incumbent.NodeID)
	// Only the root, R and L are solved; both children are pruned.
	assert.Equal(t, 3, res.Stats.Nodes)
	assert.Empty(t, f.master.columns[""], "root must start without columns")
}

func TestWarmStartSeedsRoot(t *testing.T) {
	f := newFixture(tree())
	seed := colgen.NewColumn[string](f.master.pp, "tour", "warm")
	e, err := f.engine(bap.WithWarmStart(bap.WarmStart[string]{
		Objective: 100, Solution: []*colgen.Column[string]{seed}, SeedColumns: true,
	}))
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"tour"}, f.master.columns[""])
	assert.InDelta(t, 11.5, res.Incumbent.Objective, 1e-9)
}

func TestNodeLimit(t *testing.T) {
	f := newFixture(tree())
	e, err := f.engine(bap.WithNodeLimit[string](2))
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Optimal)
	assert.Equal(t, 2, res.Stats.Nodes)
}

func TestEngineOptionsValidation(t *testing.T) {
	f := newFixture(tree())
	pricing := []colgen.PricingSolver[string]{&idlePricing{pp: f.master.pp}}

	_, err := bap.New[string](f.master, pricing, bap.WithIntegrality(bap.OneColumnPerPricing[string](1)))
	assert.ErrorIs(t, err, bap.ErrNoBranchCreator)

	_, err = bap.New[string](f.master, pricing, bap.WithBranchCreators[string](f.brancher))
	assert.ErrorIs(t, err, bap.ErrNoIntegrality)

	_, err = f.engine(bap.WithWarmStart(bap.WarmStart[string]{
		Solution: []*colgen.Column[string]{colgen.NewVolatileColumn[string](f.master.pp, "v", "warm")},
	}))
	assert.ErrorIs(t, err, bap.ErrVolatileWarmStart)

	_, err = f.engine(bap.WithNodeLimit[string](-1))
	assert.Error(t, err)

	e, err := f.engine()
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, bap.ErrAlreadyRun)
}

func TestDecisionListenersSeeBalancedCalls(t *testing.T) {
	f := newFixture(tree())
	l := &balance{}
	e, err := f.engine(bap.WithDecisionListeners[string](l))
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, l.performed)
	assert.Equal(t, l.performed, l.reversed)
}

type balance struct{ performed, reversed int }

func (b *balance) DecisionPerformed(bap.Decision[string]) error { b.performed++; return nil }
func (b *balance) DecisionReversed(bap.Decision[string]) error  { b.reversed++; return nil }

func TestCutoffPrunesBeforeConvergence(t *testing.T) {
	f := newFixture(map[string]scripted{"": {lp: 12}})
	pricing := &reportingPricing{pp: f.master.pp, rc: -1}
	seed := colgen.NewColumn[string](f.master.pp, "tour", "warm")
	e, err := f.engineWith(pricing, bap.WithWarmStart(bap.WarmStart[string]{
		Objective: 10, Solution: []*colgen.Column[string]{seed},
	}))
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	// 12 - 1 cannot beat 10 although pricing still finds columns.
	assert.True(t, res.Optimal)
	assert.Equal(t, 1, res.Stats.CutOff)
	assert.Equal(t, 1, res.Stats.Pruned)
	assert.Equal(t, 1, res.Stats.Iterations)
	assert.Equal(t, 1, res.Stats.ColumnsGenerated)
	assert.Equal(t, 1, pricing.calls)
	assert.Equal(t, -1, res.Incumbent.NodeID)
	pruned := eventsOf[event.NodePruned](f.events)
	require.Len(t, pruned, 1)
	assert.InDelta(t, 11.0, pruned[0].Node.Bound, 1e-9)
	assert.Empty(t, eventsOf[event.NodeFractional](f.events))
}

func TestNoCutoffWhileBoundCanImprove(t *testing.T) {
	f := newFixture(map[string]scripted{"": {lp: 12}})
	pricing := &reportingPricing{pp: f.master.pp, rc: -1}
	seed := colgen.NewColumn[string](f.master.pp, "tour", "warm")
	e, err := f.engineWith(pricing,
		bap.WithWarmStart(bap.WarmStart[string]{Objective: 11.5, Solution: []*colgen.Column[string]{seed}}),
		bap.WithColGenOptions[string](colgen.WithMaxIterations(3)),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())

	require.ErrorIs(t, err, colgen.ErrIterationLimit)
	assert.Zero(t, res.Stats.CutOff)
	assert.Equal(t, 3, pricing.calls)
}

func TestChildrenInheritCompatibleCuts(t *testing.T) {
	f := newFixture(map[string]scripted{
		"":  {lp: 10},
		"L": {lp: 12, integral: true},
		"R": {lp: 11, integral: true},
	})
	f.brancher.rejectL = "c1"
	sep := &cutSeparator{tr: f.master.tr, cuts: map[string][]string{"": {"c1", "c2"}}, done: map[string]bool{}}
	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithSeparators[string](sep),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Optimal)
	assert.Equal(t, 2, res.Stats.CutsAdded)

	require.Len(t, f.brancher.children, 2)
	left, right := f.brancher.children[0], f.brancher.children[1]
	assert.Equal(t, []colgen.Inequality{labelCut("c2")}, left.InheritedCuts())
	assert.Equal(t, []colgen.Inequality{labelCut("c1"), labelCut("c2")}, right.InheritedCuts())

	assert.Equal(t, []string{"c1", "c2"}, f.master.cuts[""])
	assert.Equal(t, []string{"c2"}, f.master.cuts["L"], "rejected cut reached the child master")
	assert.Equal(t, []string{"c1", "c2"}, f.master.cuts["R"])
}

func TestIncumbentIsSnapshot(t *testing.T) {
	f := newFixture(tree())
	seed := colgen.NewColumn[string](f.master.pp, "tour", "warm")
	seed.Value = 1
	e, err := f.engine(
		bap.WithNodeOrdering(bap.DepthFirst[string]()),
		bap.WithWarmStart(bap.WarmStart[string]{Objective: 11, Solution: []*colgen.Column[string]{seed}}),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, -1, res.Incumbent.NodeID)
	require.Len(t, res.Incumbent.Solution, 1)
	seed.Value = 0
	assert.NotSame(t, seed, res.Incumbent.Solution[0])
	assert.Equal(t, 1.0, res.Incumbent.Solution[0].Value)

	// An incumbent found in the tree does not share columns with its node.
	f = newFixture(tree())
	e, err = f.engine(bap.WithNodeOrdering(bap.DepthFirst[string]()))
	require.NoError(t, err)
	res, err = e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, res.Incumbent.NodeID)
	var node *bap.Node[string]
	for _, c := range f.brancher.children {
		if c.ID() == 4 {
			node = c
		}
	}
	require.NotNil(t, node)
	require.Len(t, node.Solution(), 1)
	require.Len(t, res.Incumbent.Solution, 1)
	assert.NotSame(t, node.Solution()[0], res.Incumbent.Solution[0])
	node.Solution()[0].Value = 0.25
	assert.Equal(t, 1.0, res.Incumbent.Solution[0].Value)
}

func TestAbortReportsFailedRestore(t *testing.T) {
	f := newFixture(map[string]scripted{"": {lp: 10}})
	f.brancher.stuck = true
	e, err := f.engine(bap.WithNodeOrdering(bap.DepthFirst[string]()))
	require.NoError(t, err)
	_, err = e.Run(context.Background())

	var ne *bap.NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, []string{"R"}, ne.Path)
	assert.Contains(t, err.Error(), `no script for "R"`)
	assert.Contains(t, err.Error(), "restore decisions also failed")
	assert.Contains(t, err.Error(), "R cannot be reverted")
}
