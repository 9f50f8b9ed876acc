package colgen_test

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/lp"
)

// ---------------------------------------------------------------------------
// Cutting stock: a real master on the lp package with a knapsack pricer.
// ---------------------------------------------------------------------------

type stockPricing struct{ name string }

func (p *stockPricing) Name() string { return p.name }

// pattern is a cutting pattern: Counts[i] pieces of item i per roll.
type pattern struct {
	Counts []int
}

type stockMaster struct {
	width  int
	widths []int
	demand []float64
	pp     *stockPricing

	model *lp.Model
	cols  []*colgen.Column[pattern]
	sol   *lp.Solution
}

func newStockMaster(width int, widths []int, demand []float64) *stockMaster {
	return &stockMaster{width: width, widths: widths, demand: demand, pp: &stockPricing{name: "rolls"}}
}

func (m *stockMaster) Sense() colgen.Sense { return colgen.Minimize }

func (m *stockMaster) Build(context.Context) error {
	m.model = lp.NewModel()
	m.cols = nil
	m.sol = nil
	for i, d := range m.demand {
		if _, err := m.model.AddRow(fmt.Sprintf("demand%d", i), lp.GreaterEqual, d, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *stockMaster) AddColumn(c *colgen.Column[pattern]) error {
	coefs := make(map[int]float64)
	for i, n := range c.Payload.Counts {
		coefs[i] = float64(n)
	}
	if _, err := m.model.AddColumn(c.Key(), 1, coefs); err != nil {
		return err
	}
	m.cols = append(m.cols, c)
	return nil
}

func (m *stockMaster) AddInequality(colgen.Inequality) error {
	return errors.New("cutting stock has no cuts")
}

func (m *stockMaster) Solve(ctx context.Context) (colgen.Status, error) {
	sol, err := m.model.Solve(ctx)
	if err != nil {
		return colgen.Failed, err
	}
	m.sol = sol
	switch sol.Status {
	case lp.Optimal:
		return colgen.Optimal, nil
	case lp.Infeasible:
		return colgen.Infeasible, nil
	case lp.TimeLimit:
		return colgen.TimeLimit, nil
	}
	return colgen.Failed, nil
}

func (m *stockMaster) Objective() float64 { return m.sol.Objective }

func (m *stockMaster) Duals(colgen.PricingProblem) (colgen.Duals, error) {
	return colgen.Duals{Prices: append([]float64(nil), m.sol.Duals...)}, nil
}

func (m *stockMaster) Solution() []*colgen.Column[pattern] {
	var out []*colgen.Column[pattern]
	for j, c := range m.cols {
		c.Value = m.sol.X[j]
		if colgen.IsPositive(c.Value) {
			out = append(out, c)
		}
	}
	return out
}

// knapsack prices patterns by unbounded knapsack dynamic programming.
type knapsack struct {
	m     *stockMaster
	duals colgen.Duals
}

func (k *knapsack) Name() string                          { return "knapsack" }
func (k *knapsack) PricingProblem() colgen.PricingProblem { return k.m.pp }
func (k *knapsack) SetObjective(d colgen.Duals)           { k.duals = d }
func (k *knapsack) IsInfeasible() bool                    { return false }

func (k *knapsack) Solve(context.Context) ([]*colgen.Column[pattern], error) {
	w := k.m.width
	best := make([]float64, w+1)
	choice := make([]int, w+1)
	for c := 1; c <= w; c++ {
		best[c], choice[c] = best[c-1], -1
		for i, wi := range k.m.widths {
			if wi <= c && best[c-wi]+k.duals.Prices[i] > best[c] {
				best[c], choice[c] = best[c-wi]+k.duals.Prices[i], i
			}
		}
	}
	if best[w] <= 1+colgen.Precision {
		return nil, nil
	}
	counts := make([]int, len(k.m.widths))
	for c := w; c > 0; {
		if choice[c] < 0 {
			c--
			continue
		}
		counts[choice[c]]++
		c -= k.m.widths[choice[c]]
	}
	return []*colgen.Column[pattern]{colgen.NewColumn[pattern](k.m.pp, pattern{Counts: counts}, "knapsack")}, nil
}

// ---------------------------------------------------------------------------
// Scripted fakes for protocol and error paths.
// ---------------------------------------------------------------------------

type fakePP string

func (p fakePP) Name() string { return string(p) }

type fakeCut struct{ ID int }

func (c fakeCut) Key() string       { return fmt.Sprintf("cut-%d", c.ID) }
func (c fakeCut) Separator() string { return "fake" }

type fakeMaster struct {
	statuses []colgen.Status // per Solve call, the last one repeats
	err      error
	calls    int
	cols     []*colgen.Column[int]
	cuts     []colgen.Inequality
}

func (m *fakeMaster) Sense() colgen.Sense         { return colgen.Minimize }
func (m *fakeMaster) Build(context.Context) error { m.cols, m.cuts = nil, nil; return nil }
func (m *fakeMaster) AddColumn(c *colgen.Column[int]) error {
	m.cols = append(m.cols, c)
	return nil
}
func (m *fakeMaster) AddInequality(i colgen.Inequality) error {
	m.cuts = append(m.cuts, i)
	return nil
}
func (m *fakeMaster) Solve(context.Context) (colgen.Status, error) {
	st := colgen.Optimal
	if len(m.statuses) > 0 {
		idx := m.calls
		if idx >= len(m.statuses) {
			idx = len(m.statuses) - 1
		}
		st = m.statuses[idx]
	}
	m.calls++
	return st, m.err
}
func (m *fakeMaster) Objective() float64 { return float64(len(m.cols)) }
func (m *fakeMaster) Duals(colgen.PricingProblem) (colgen.Duals, error) {
	return colgen.Duals{}, nil
}
func (m *fakeMaster) Solution() []*colgen.Column[int] {
	for _, c := range m.cols {
		c.Value = 1
	}
	return m.cols
}

type fakePricing struct {
	pp         fakePP
	rounds     [][]int // payloads per round; rounds past the end return nothing
	calls      int
	infeasible bool
	err        error
}

func (p *fakePricing) Name() string                          { return "fake-" + string(p.pp) }
func (p *fakePricing) PricingProblem() colgen.PricingProblem { return p.pp }
func (p *fakePricing) SetObjective(colgen.Duals)             {}
func (p *fakePricing) IsInfeasible() bool                    { return p.infeasible }
func (p *fakePricing) Solve(context.Context) ([]*colgen.Column[int], error) {
	defer func() { p.calls++ }()
	if p.err != nil {
		return nil, p.err
	}
	if p.calls >= len(p.rounds) {
		return nil, nil
	}
	var out []*colgen.Column[int]
	for _, v := range p.rounds[p.calls] {
		out = append(out, colgen.NewColumn[int](p.pp, v, p.Name()))
	}
	return out, nil
}

// boundedPricing reports a fixed best reduced cost after every round.
type boundedPricing struct {
	*fakePricing
	rc float64
}

func (p *boundedPricing) BestReducedCost() (float64, bool) { return p.rc, true }

type fakeSeparator struct {
	rounds [][]int
	calls  int
}

func (s *fakeSeparator) Name() string { return "fake-separator" }
func (s *fakeSeparator) Separate(context.Context, []*colgen.Column[int]) ([]colgen.Inequality, error) {
	defer func() { s.calls++ }()
	if s.calls >= len(s.rounds) {
		return nil, nil
	}
	var out []colgen.Inequality
	for _, id := range s.rounds[s.calls] {
		out = append(out, fakeCut{ID: id})
	}
	return out, nil
}
