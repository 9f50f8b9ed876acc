package tspbap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/flow"
)

// SubtourInequality requires every tour to cross the cut (S, V∖S) at least
// twice. S never contains vertex 0.
type SubtourInequality struct {
	set []int
	in  []bool
}

// NewSubtourInequality returns the cut for side over n vertices. When side
// holds vertex 0 its complement is used instead.
func NewSubtourInequality(n int, side []int) (*SubtourInequality, error) {
	in := make([]bool, n)
	for _, v := range side {
		if v < 0 || v >= n || in[v] {
			return nil, errors.Errorf("subtour: bad vertex %d in %v", v, side)
		}
		in[v] = true
	}
	if in[0] {
		for v := range in {
			in[v] = !in[v]
		}
	}
	s := &SubtourInequality{in: in}
	for v, ok := range in {
		if ok {
			s.set = append(s.set, v)
		}
	}
	if len(s.set) == 0 {
		return nil, errors.Errorf("subtour: side %v is not a proper cut", side)
	}

	return s, nil
}

// Set returns S in ascending order.
func (s *SubtourInequality) Set() []int { return append([]int(nil), s.set...) }

// Crosses reports whether e has exactly one endpoint in S.
func (s *SubtourInequality) Crosses(e Edge) bool { return s.in[e.U] != s.in[e.V] }

// Crossings counts the edges of m crossing the cut.
func (s *SubtourInequality) Crossings(m Matching) int {
	k := 0
	for _, e := range m.Edges {
		if s.Crosses(e) {
			k++
		}
	}

	return k
}

func (s *SubtourInequality) Key() string {
	parts := make([]string, len(s.set))
	for i, v := range s.set {
		parts[i] = strconv.Itoa(v)
	}

	return "{" + strings.Join(parts, ",") + "}"
}

func (s *SubtourInequality) Separator() string { return "subtour" }

func (s *SubtourInequality) String() string { return fmt.Sprintf("x(δ%v) >= 2", s.set) }

// CutMethod selects the min cut routine of the separator.
type CutMethod string

const (
	// StoerWagner computes one global min cut.
	StoerWagner CutMethod = "stoer-wagner"
	// EdmondsKarp takes the smallest of the 0-t max flow cuts.
	EdmondsKarp CutMethod = "edmonds-karp"
	// Dinic is EdmondsKarp with Dinic's max flow.
	Dinic CutMethod = "dinic"
)

// SubtourSeparator finds a subtour cut violated by the aggregated edge
// values of a master solution.
type SubtourSeparator struct {
	n      int
	method CutMethod
	opts   flow.Options
}

// NewSubtourSeparator returns a separator for n vertices. An empty method
// selects StoerWagner.
func NewSubtourSeparator(n int, method CutMethod) (*SubtourSeparator, error) {
	switch method {
	case "":
		method = StoerWagner
	case StoerWagner, EdmondsKarp, Dinic:
	default:
		return nil, errors.Errorf("subtour: unknown cut method %q", method)
	}

	return &SubtourSeparator{n: n, method: method, opts: flow.DefaultOptions()}, nil
}

func (s *SubtourSeparator) Name() string { return "subtour/" + string(s.method) }

// Separate returns at most one inequality, for a min cut of value below 2.
func (s *SubtourSeparator) Separate(ctx context.Context, solution []*colgen.Column[Matching]) ([]colgen.Inequality, error) {
	cut, err := s.minCut(ctx, edgeValues(s.n, solution))
	if err != nil {
		return nil, err
	}
	if cut.Value >= 2-colgen.Precision {
		return nil, nil
	}
	ineq, err := NewSubtourInequality(s.n, cut.Side)
	if err != nil {
		return nil, err
	}

	return []colgen.Inequality{ineq}, nil
}

func (s *SubtourSeparator) minCut(ctx context.Context, x flow.Network) (flow.Cut, error) {
	if s.method == StoerWagner {
		return flow.StoerWagner(ctx, x, s.opts)
	}
	maxFlow := flow.EdmondsKarp
	if s.method == Dinic {
		maxFlow = flow.Dinic
	}
	var best flow.Cut
	for t := 1; t < s.n; t++ {
		cut, err := maxFlow(ctx, x, 0, t, s.opts)
		if err != nil {
			return flow.Cut{}, err
		}
		if t == 1 || cut.Value < best.Value {
			best = cut
		}
	}

	return best, nil
}
