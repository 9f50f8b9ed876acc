package tspbap

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/lp"
	"github.com/katalvlaran/colgen/tsp"
)

// Master is the restricted master problem on top of package lp. The model
// is rebuilt from scratch by Build.
type Master struct {
	n       int
	pricing [2]*Pricing
	lpOpts  []lp.Option

	model   *lp.Model
	conv    [2]int
	edgeRow []int
	cuts    []*SubtourInequality
	cutRow  []int
	cols    []*colgen.Column[Matching]
	sol     *lp.Solution
}

// NewMaster returns a master for the two pricing problems of in.
func NewMaster(in *tsp.Instance, red, blue *Pricing, opts ...lp.Option) *Master {
	return &Master{n: in.N(), pricing: [2]*Pricing{red, blue}, lpOpts: opts}
}

func (m *Master) Sense() colgen.Sense { return colgen.Minimize }

// Build starts an empty model with the convexity and edge rows.
func (m *Master) Build(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.model = lp.NewModel(m.lpOpts...)
	m.cuts, m.cutRow, m.cols, m.sol = nil, nil, nil, nil
	for c := Red; c <= Blue; c++ {
		i, err := m.model.AddRow("one_"+c.String(), lp.Equal, 1, nil)
		if err != nil {
			return err
		}
		m.conv[c] = i
	}
	m.edgeRow = make([]int, numEdges(m.n))
	for u := 0; u < m.n; u++ {
		for v := u + 1; v < m.n; v++ {
			e := Edge{U: u, V: v}
			i, err := m.model.AddRow(fmt.Sprintf("edge_%d_%d", u, v), lp.LessEqual, 1, nil)
			if err != nil {
				return err
			}
			m.edgeRow[edgeIndex(m.n, e)] = i
		}
	}

	return nil
}

// AddColumn adds a matching with its convexity, edge and cut coefficients.
func (m *Master) AddColumn(col *colgen.Column[Matching]) error {
	if m.model == nil {
		return errors.New("master: AddColumn before Build")
	}
	mt := col.Payload
	if col.Pricing != m.pricing[mt.Color] {
		return errors.Errorf("master: column %v belongs to %s", col, col.Pricing.Name())
	}
	coefs := map[int]float64{m.conv[mt.Color]: 1}
	for _, e := range mt.Edges {
		coefs[m.edgeRow[edgeIndex(m.n, e)]] = 1
	}
	for k, s := range m.cuts {
		if x := s.Crossings(mt); x > 0 {
			coefs[m.cutRow[k]] = float64(x)
		}
	}
	name := fmt.Sprintf("z_%s_%d", mt.Color, len(m.cols))
	if _, err := m.model.AddColumn(name, mt.Cost, coefs); err != nil {
		return err
	}
	m.cols = append(m.cols, col)

	return nil
}

// AddInequality adds a subtour row over the current columns.
func (m *Master) AddInequality(ineq colgen.Inequality) error {
	s, ok := ineq.(*SubtourInequality)
	if !ok {
		return errors.Errorf("master: unsupported inequality %T", ineq)
	}
	coefs := make(map[int]float64)
	for j, col := range m.cols {
		if x := s.Crossings(col.Payload); x > 0 {
			coefs[j] = float64(x)
		}
	}
	i, err := m.model.AddRow("subtour_"+s.Key(), lp.GreaterEqual, 2, coefs)
	if err != nil {
		return err
	}
	m.cuts = append(m.cuts, s)
	m.cutRow = append(m.cutRow, i)

	return nil
}

// Solve runs the simplex and maps its status.
func (m *Master) Solve(ctx context.Context) (colgen.Status, error) {
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
	case lp.Unbounded:
		return colgen.Unbounded, nil
	case lp.TimeLimit:
		return colgen.TimeLimit, nil
	}

	return colgen.Failed, errors.Errorf("simplex stopped: %s", sol.Status)
}

func (m *Master) Objective() float64 { return m.sol.Objective }

// Duals prices every edge with its edge row dual plus the duals of the cuts
// it crosses; the constant is the colour's convexity dual.
func (m *Master) Duals(pp colgen.PricingProblem) (colgen.Duals, error) {
	p, ok := pp.(*Pricing)
	if !ok || m.pricing[p.color] != p {
		return colgen.Duals{}, errors.Errorf("master: unknown pricing problem %s", pp.Name())
	}
	if m.sol == nil || m.sol.Status != lp.Optimal {
		return colgen.Duals{}, errors.New("master: no optimal solution")
	}
	y := m.sol.Duals
	prices := make([]float64, numEdges(m.n))
	for u := 0; u < m.n; u++ {
		for v := u + 1; v < m.n; v++ {
			e := Edge{U: u, V: v}
			k := edgeIndex(m.n, e)
			prices[k] = y[m.edgeRow[k]]
			for c, s := range m.cuts {
				if s.Crosses(e) {
					prices[k] += y[m.cutRow[c]]
				}
			}
		}
	}

	return colgen.Duals{Prices: prices, Constant: y[m.conv[p.color]]}, nil
}

// Solution writes the column values and returns the positive ones.
func (m *Master) Solution() []*colgen.Column[Matching] {
	var out []*colgen.Column[Matching]
	if m.sol == nil || m.sol.Status != lp.Optimal {
		return out
	}
	for j, col := range m.cols {
		col.Value = m.sol.X[j]
		if colgen.IsPositive(col.Value) {
			out = append(out, col)
		}
	}

	return out
}

// EdgeValues aggregates the current solution per edge over both colours.
func (m *Master) EdgeValues() [][]float64 {
	return edgeValues(m.n, m.Solution())
}

func edgeValues(n int, cols []*colgen.Column[Matching]) [][]float64 {
	x := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, n)
	}
	for _, col := range cols {
		for _, e := range col.Payload.Edges {
			x[e.U][e.V] += col.Value
			x[e.V][e.U] += col.Value
		}
	}

	return x
}
