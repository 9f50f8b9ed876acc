package tspbap

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/tsp"
)

// GreedySolver is a pricing heuristic for one colour. It keeps the forced
// edges and then takes the heaviest admissible edges between unmatched
// vertices until no more fit. It never proves anything about the pricing
// problem, so it sits ahead of MatchingSolver in the solver chain and the
// exact solver runs only in rounds where the greedy matching prices out.
type GreedySolver struct {
	pp    *Pricing
	in    *tsp.Instance
	duals colgen.Duals
}

// NewGreedySolver returns the heuristic solver for pp.
func NewGreedySolver(pp *Pricing, in *tsp.Instance) *GreedySolver {
	return &GreedySolver{pp: pp, in: in}
}

func (s *GreedySolver) Name() string { return "greedy/" + s.pp.Name() }

func (s *GreedySolver) PricingProblem() colgen.PricingProblem { return s.pp }

func (s *GreedySolver) SetObjective(d colgen.Duals) { s.duals = d }

func (s *GreedySolver) IsInfeasible() bool { return false }

// Solve returns the greedy matching when it is perfect and has a negative
// reduced cost.
func (s *GreedySolver) Solve(ctx context.Context) ([]*colgen.Column[Matching], error) {
	n := s.pp.n
	if len(s.duals.Prices) != numEdges(n) {
		return nil, errors.Errorf("%s: got %d edge prices for %d edges", s.Name(), len(s.duals.Prices), numEdges(n))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(colgen.ErrTimeLimit, "greedy pricing")
	}
	weight := func(e Edge) float64 {
		return s.duals.Prices[edgeIndex(n, e)] - s.in.Distance(e.U, e.V)
	}

	matched := make([]bool, n)
	edges := make([]Edge, 0, n/2)
	var total float64
	for _, e := range s.pp.forcedEdges() {
		if matched[e.U] || matched[e.V] || s.pp.Forbidden(e) {
			return nil, nil
		}
		matched[e.U], matched[e.V] = true, true
		edges = append(edges, e)
		total += weight(e)
	}

	cand := make([]Edge, 0, numEdges(n))
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			e := Edge{U: u, V: v}
			if !matched[u] && !matched[v] && !s.pp.Forbidden(e) {
				cand = append(cand, e)
			}
		}
	}
	sort.SliceStable(cand, func(i, j int) bool { return weight(cand[i]) > weight(cand[j]) })
	for _, e := range cand {
		if matched[e.U] || matched[e.V] {
			continue
		}
		matched[e.U], matched[e.V] = true, true
		edges = append(edges, e)
		total += weight(e)
	}

	if len(edges) != n/2 || total <= -s.duals.Constant+colgen.Precision {
		return nil, nil
	}
	var cost float64
	for _, e := range edges {
		cost += s.in.Distance(e.U, e.V)
	}
	m := NewMatching(s.pp.color, edges, cost)

	return []*colgen.Column[Matching]{colgen.NewColumn[Matching](s.pp, m, s.Name())}, nil
}
