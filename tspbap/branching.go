package tspbap

import (
	"math"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/bap"
)

// FixEdge forces an edge into every matching of one colour.
type FixEdge struct {
	Pricing *Pricing
	Edge    Edge
}

func (d *FixEdge) Execute() error { d.Pricing.fix(d.Edge); return nil }
func (d *FixEdge) Revert() error  { d.Pricing.unfix(d.Edge); return nil }

// ColumnCompatible keeps the other colour and the matchings containing the edge.
func (d *FixEdge) ColumnCompatible(c *colgen.Column[Matching]) bool {
	return c.Pricing != d.Pricing || c.Payload.Contains(d.Edge)
}

// InequalityCompatible is always true: subtour cuts hold for every tour.
func (d *FixEdge) InequalityCompatible(colgen.Inequality) bool { return true }

func (d *FixEdge) String() string { return "fix " + d.Pricing.Name() + d.Edge.String() }

// RemoveEdge forbids an edge in every matching of one colour.
type RemoveEdge struct {
	Pricing *Pricing
	Edge    Edge
}

func (d *RemoveEdge) Execute() error { d.Pricing.forbid(d.Edge); return nil }
func (d *RemoveEdge) Revert() error  { d.Pricing.unforbid(d.Edge); return nil }

func (d *RemoveEdge) ColumnCompatible(c *colgen.Column[Matching]) bool {
	return c.Pricing != d.Pricing || !c.Payload.Contains(d.Edge)
}

func (d *RemoveEdge) InequalityCompatible(colgen.Inequality) bool { return true }

func (d *RemoveEdge) String() string { return "remove " + d.Pricing.Name() + d.Edge.String() }

// BranchOnEdge branches on the (colour, edge) pair whose aggregated value
// is closest to 0.5. The RemoveEdge child is created before the FixEdge one.
type BranchOnEdge struct {
	n       int
	pricing [2]*Pricing
}

// NewBranchOnEdge returns the edge brancher for the given pricing problems.
func NewBranchOnEdge(n int, red, blue *Pricing) *BranchOnEdge {
	return &BranchOnEdge{n: n, pricing: [2]*Pricing{red, blue}}
}

func (b *BranchOnEdge) Name() string { return "edge" }

func (b *BranchOnEdge) CanBranch(solution []*colgen.Column[Matching]) bool {
	_, _, ok := b.candidate(solution)
	return ok
}

func (b *BranchOnEdge) CreateChildren(parent *bap.Node[Matching], spawn bap.ChildFunc[Matching]) ([]*bap.Node[Matching], error) {
	c, e, ok := b.candidate(parent.Solution())
	if !ok {
		return nil, colgen.Violation("edge brancher: node %d has no fractional edge", parent.ID())
	}
	pp := b.pricing[c]

	return []*bap.Node[Matching]{
		spawn(&RemoveEdge{Pricing: pp, Edge: e}),
		spawn(&FixEdge{Pricing: pp, Edge: e}),
	}, nil
}

// candidate scans colours then edges in index order; ties keep the first.
func (b *BranchOnEdge) candidate(solution []*colgen.Column[Matching]) (Color, Edge, bool) {
	var x [2][]float64
	for c := range x {
		x[c] = make([]float64, numEdges(b.n))
	}
	for _, col := range solution {
		if col.IsVolatile() {
			continue
		}
		for _, e := range col.Payload.Edges {
			x[col.Payload.Color][edgeIndex(b.n, e)] += col.Value
		}
	}

	var (
		bestColor Color
		bestEdge  Edge
		bestDist  = math.Inf(1)
	)
	for c := Red; c <= Blue; c++ {
		for u := 0; u < b.n; u++ {
			for v := u + 1; v < b.n; v++ {
				e := Edge{U: u, V: v}
				val := x[c][edgeIndex(b.n, e)]
				if !colgen.IsFractional(val) {
					continue
				}
				if d := math.Abs(val - 0.5); d < bestDist {
					bestColor, bestEdge, bestDist = c, e, d
				}
			}
		}
	}

	return bestColor, bestEdge, !math.IsInf(bestDist, 1)
}
