package tspbap

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/bap"
	"github.com/katalvlaran/colgen/lp"
	"github.com/katalvlaran/colgen/tsp"
)

var (
	// ErrOddInstance is returned for instances with an odd number of cities.
	ErrOddInstance = errors.New("tspbap: the number of cities must be even")

	// ErrInstanceSize is returned for instances below 4 or above MaxVertices cities.
	ErrInstanceSize = errors.New("tspbap: instance size not supported")

	// ErrNotTour is returned when two matchings do not form a Hamiltonian cycle.
	ErrNotTour = errors.New("tspbap: matchings do not form a tour")
)

// Problem bundles the plugin parts for one instance.
type Problem struct {
	Instance  *tsp.Instance
	Red, Blue *Pricing
	Master    *Master
	Solvers   []colgen.PricingSolver[Matching]
	Separator *SubtourSeparator
	Brancher  *BranchOnEdge

	bigM float64
}

// NewProblem validates in and builds the plugin parts.
func NewProblem(in *tsp.Instance, method CutMethod, lpOpts ...lp.Option) (*Problem, error) {
	n := in.N()
	if n < 4 || n > MaxVertices {
		return nil, errors.Wrapf(ErrInstanceSize, "%d cities", n)
	}
	if n%2 != 0 {
		return nil, errors.Wrapf(ErrOddInstance, "%d cities", n)
	}
	sep, err := NewSubtourSeparator(n, method)
	if err != nil {
		return nil, err
	}
	red, blue := newPricing(Red, n), newPricing(Blue, n)
	p := &Problem{
		Instance:  in,
		Red:       red,
		Blue:      blue,
		Master:    NewMaster(in, red, blue, lpOpts...),
		Solvers: []colgen.PricingSolver[Matching]{
			NewGreedySolver(red, in), NewGreedySolver(blue, in),
			NewMatchingSolver(red, in), NewMatchingSolver(blue, in),
		},
		Separator: sep,
		Brancher:  NewBranchOnEdge(n, red, blue),
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			p.bigM += in.Distance(u, v)
		}
	}
	p.bigM++

	return p, nil
}

func (p *Problem) pricingOf(c Color) *Pricing {
	if c == Blue {
		return p.Blue
	}
	return p.Red
}

// TourColumns splits a closed tour into its red and blue matchings:
// edge k of the tour is red for even k.
func (p *Problem) TourColumns(tour []int, creator string) ([]*colgen.Column[Matching], error) {
	return p.tourColumns(tour, creator, false)
}

func (p *Problem) tourColumns(tour []int, creator string, volatile bool) ([]*colgen.Column[Matching], error) {
	n := p.Instance.N()
	if err := tsp.ValidateTour(tour, n, tour[0]); err != nil {
		return nil, err
	}
	var edges [2][]Edge
	var cost [2]float64
	for k := 0; k < n; k++ {
		e := NewEdge(tour[k], tour[k+1])
		edges[k%2] = append(edges[k%2], e)
		cost[k%2] += p.Instance.Distance(e.U, e.V)
	}
	out := make([]*colgen.Column[Matching], 2)
	for c := Red; c <= Blue; c++ {
		if volatile {
			out[c] = colgen.NewVolatileColumn[Matching](p.pricingOf(c), NewMatching(c, edges[c], p.bigM), creator)
			continue
		}
		out[c] = colgen.NewColumn[Matching](p.pricingOf(c), NewMatching(c, edges[c], cost[c]), creator)
	}

	return out, nil
}

// Tour rebuilds the closed tour from one red and one blue matching,
// starting at 0 with a red edge, in canonical orientation.
func (p *Problem) Tour(cols []*colgen.Column[Matching]) ([]int, error) {
	n := p.Instance.N()
	var mates [2][]int
	for _, col := range cols {
		c := col.Payload.Color
		if mates[c] != nil {
			return nil, errors.Wrapf(ErrNotTour, "two %s matchings", c)
		}
		mates[c] = col.Payload.Mates(n)
	}
	if mates[Red] == nil || mates[Blue] == nil {
		return nil, errors.Wrap(ErrNotTour, "missing colour")
	}
	tour := make([]int, n+1)
	for i := 1; i <= n; i++ {
		tour[i] = mates[(i-1)%2][tour[i-1]]
		if tour[i] < 0 {
			return nil, errors.Wrapf(ErrNotTour, "vertex %d unmatched", tour[i-1])
		}
	}
	if err := tsp.ValidateTour(tour, n, 0); err != nil {
		return nil, errors.Wrap(ErrNotTour, err.Error())
	}
	_ = tsp.CanonicalizeOrientation(tour)

	return tour, nil
}

// Artificial returns volatile copies of the incumbent's matchings, or of
// the identity tour without an incumbent. Their cost exceeds the total edge
// weight, so they only stay positive when the node has no feasible column set.
func (p *Problem) Artificial(inc bap.Incumbent[Matching]) []*colgen.Column[Matching] {
	n := p.Instance.N()
	var tour []int
	if inc.Valid {
		tour, _ = p.Tour(inc.Solution)
	}
	if tour == nil {
		tour = make([]int, n+1)
		for i := 0; i < n; i++ {
			tour[i] = i
		}
	}
	cols, _ := p.tourColumns(tour, "artificial", true)

	return cols
}

// integralWeights reports whether every distance is an integer.
func (p *Problem) integralWeights() bool {
	n := p.Instance.N()
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if colgen.IsFractional(p.Instance.Distance(u, v)) {
				return false
			}
		}
	}
	return true
}

// Options returns the engine options wiring the plugin: the edge brancher,
// the subtour separator, one-matching-per-colour integrality, the
// artificial columns and, for integer distances, integral objective rounding.
func (p *Problem) Options() []bap.Option[Matching] {
	return []bap.Option[Matching]{
		bap.WithBranchCreators[Matching](p.Brancher),
		bap.WithSeparators[Matching](p.Separator),
		bap.WithIntegrality(bap.OneColumnPerPricing[Matching](2)),
		bap.WithArtificialColumns[Matching](p.Artificial),
		bap.WithIntegralObjective[Matching](p.integralWeights()),
	}
}
