package tspbap

import (
	"context"
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/tsp"
)

// MaxVertices bounds the instance size the exact pricing can handle; its
// dynamic program keeps one entry per vertex subset.
const MaxVertices = 20

// Pricing is the pricing problem of one colour. Branching decisions add
// forced and forbidden edges to it.
type Pricing struct {
	color     Color
	n         int
	forced    map[Edge]int
	forbidden map[Edge]int
}

func newPricing(c Color, n int) *Pricing {
	return &Pricing{color: c, n: n, forced: make(map[Edge]int), forbidden: make(map[Edge]int)}
}

// Name returns "red" or "blue".
func (p *Pricing) Name() string { return p.color.String() }

// Color returns the colour priced by p.
func (p *Pricing) Color() Color { return p.color }

func (p *Pricing) fix(e Edge)      { p.forced[e]++ }
func (p *Pricing) unfix(e Edge)    { release(p.forced, e) }
func (p *Pricing) forbid(e Edge)   { p.forbidden[e]++ }
func (p *Pricing) unforbid(e Edge) { release(p.forbidden, e) }

func release(m map[Edge]int, e Edge) {
	if m[e] <= 1 {
		delete(m, e)
		return
	}
	m[e]--
}

// Forced reports whether every matching of p must contain e.
func (p *Pricing) Forced(e Edge) bool { return p.forced[e] > 0 }

// Forbidden reports whether no matching of p may contain e.
func (p *Pricing) Forbidden(e Edge) bool { return p.forbidden[e] > 0 }

// forcedEdges lists the forced edges in (U, V) order.
func (p *Pricing) forcedEdges() []Edge {
	out := make([]Edge, 0, len(p.forced))
	for e := range p.forced {
		out = append(out, e)
	}
	return NewMatching(p.color, out, 0).Edges
}

// Admits reports whether c satisfies the current forced and forbidden edges.
func (p *Pricing) Admits(c *colgen.Column[Matching]) bool {
	if c.Pricing != p {
		return false
	}
	for e := range p.forced {
		if !c.Payload.Contains(e) {
			return false
		}
	}
	for _, e := range c.Payload.Edges {
		if p.forbidden[e] > 0 {
			return false
		}
	}

	return true
}

// MatchingSolver prices one colour exactly: it finds the perfect matching
// maximising Σ (π(e) − d(e)) under the problem's restrictions, where π are
// the edge prices of the duals, and returns it when its reduced cost
// −Σ(π(e) − d(e)) − constant is negative.
type MatchingSolver struct {
	pp    *Pricing
	in    *tsp.Instance
	duals colgen.Duals

	infeasible bool
	rc         float64
	hasRC      bool
}

// NewMatchingSolver returns the exact solver for pp.
func NewMatchingSolver(pp *Pricing, in *tsp.Instance) *MatchingSolver {
	return &MatchingSolver{pp: pp, in: in}
}

func (s *MatchingSolver) Name() string { return "matching-dp/" + s.pp.Name() }

func (s *MatchingSolver) PricingProblem() colgen.PricingProblem { return s.pp }

func (s *MatchingSolver) SetObjective(d colgen.Duals) { s.duals = d }

func (s *MatchingSolver) IsInfeasible() bool { return s.infeasible }

// BestReducedCost returns the reduced cost of the best matching found by the
// last Solve, whether or not it was returned as a column.
func (s *MatchingSolver) BestReducedCost() (float64, bool) { return s.rc, s.hasRC }

// Solve returns at most one column.
func (s *MatchingSolver) Solve(ctx context.Context) ([]*colgen.Column[Matching], error) {
	n := s.pp.n
	if len(s.duals.Prices) != numEdges(n) {
		return nil, errors.Errorf("%s: got %d edge prices for %d edges", s.Name(), len(s.duals.Prices), numEdges(n))
	}
	weight := func(e Edge) float64 {
		return s.duals.Prices[edgeIndex(n, e)] - s.in.Distance(e.U, e.V)
	}

	s.hasRC = false
	edges, total, ok, err := bestMatching(ctx, n, weight, s.pp)
	s.infeasible = err == nil && !ok
	if err != nil || !ok {
		return nil, err
	}
	s.rc, s.hasRC = -(total + s.duals.Constant), true
	if total <= -s.duals.Constant+colgen.Precision {
		return nil, nil
	}
	var cost float64
	for _, e := range edges {
		cost += s.in.Distance(e.U, e.V)
	}
	m := NewMatching(s.pp.color, edges, cost)

	return []*colgen.Column[Matching]{colgen.NewColumn[Matching](s.pp, m, s.Name())}, nil
}

// bestMatching runs the subset dynamic program. dp[S] is the best weight of
// a perfect matching on S, where S always holds the lowest vertices left
// open plus the forced pairs. It reports ok=false when the restrictions
// admit no perfect matching.
//
// Complexity: O(2^n · n) time, O(2^n) space.
func bestMatching(ctx context.Context, n int, weight func(Edge) float64, pp *Pricing) ([]Edge, float64, bool, error) {
	full := 1<<n - 1
	start := 0
	base := 0.0
	forced := pp.forcedEdges()
	for _, e := range forced {
		bit := 1<<e.U | 1<<e.V
		if start&bit != 0 || pp.forbidden[e] > 0 {
			return nil, 0, false, nil
		}
		start |= bit
		base += weight(e)
	}

	dp := make([]float64, full+1)
	from := make([]int32, full+1)
	for i := range dp {
		dp[i] = math.Inf(-1)
	}
	dp[start] = base

	for mask := start; mask < full; mask++ {
		if mask&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, false, errors.Wrap(colgen.ErrTimeLimit, "matching pricing")
			}
		}
		if math.IsInf(dp[mask], -1) {
			continue
		}
		i := bits.TrailingZeros(uint(^mask))
		for j := i + 1; j < n; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			e := Edge{U: i, V: j}
			if pp.forbidden[e] > 0 {
				continue
			}
			next := mask | 1<<i | 1<<j
			if v := dp[mask] + weight(e); v > dp[next] {
				dp[next] = v
				from[next] = int32(mask)
			}
		}
	}
	if math.IsInf(dp[full], -1) {
		return nil, 0, false, nil
	}

	edges := append(make([]Edge, 0, n/2), forced...)
	for mask := full; mask != start; mask = int(from[mask]) {
		pair := mask ^ int(from[mask])
		u := bits.TrailingZeros(uint(pair))
		v := bits.Len(uint(pair)) - 1
		edges = append(edges, Edge{U: u, V: v})
	}

	return edges, dp[full], true, nil
}
