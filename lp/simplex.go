package lp

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ctxCheckMask controls how often Solve polls its context (every 32 pivots).
const ctxCheckMask = 31

// tableau is the working state of one Solve call.
//
// Layout of t ((m+1) × (width+1)):
//
//	columns [0, nStruct)                 structural
//	columns [nStruct, nStruct+nSlack)    slack / surplus
//	columns [artStart, width)            artificial
//	column  width                        right-hand side
//	row     m                            reduced costs, rhs cell holds −z
type tableau struct {
	m, width int
	nStruct  int
	artStart int

	t       *mat.Dense
	basis   []int
	ident   []int     // per row: column holding the unit vector eᵢ at start
	sign    []float64 // per row: +1 or −1 applied during normalisation
	blocked []bool    // columns that may not enter the basis

	opts Options
	ctx  context.Context

	iterations int
	degenerate int
}

// Solve optimises the model from scratch.
//
// An error is returned only for malformed input; solver outcomes such as
// infeasibility or an expired context are reported through Solution.Status.
func (m *Model) Solve(ctx context.Context) (*Solution, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return &Solution{Status: TimeLimit}, nil
	}
	if len(m.rows) == 0 {
		return m.solveEmpty(), nil
	}

	tb := m.newTableau(ctx)

	// Phase I: minimise the sum of artificials.
	if tb.artStart < tb.width {
		tb.loadPhaseOne()
		if st := tb.run(); st != Optimal {
			return &Solution{Status: st, Iterations: tb.iterations}, nil
		}
		if -tb.t.At(tb.m, tb.width) > m.opts.feasTol {
			return &Solution{Status: Infeasible, Iterations: tb.iterations}, nil
		}
		tb.evictArtificials()
	}
	for j := tb.artStart; j < tb.width; j++ {
		tb.blocked[j] = true
	}

	// Phase II.
	tb.loadPhaseTwo(m)
	if st := tb.run(); st != Optimal {
		return &Solution{Status: st, Iterations: tb.iterations}, nil
	}

	return tb.extract(m), nil
}

// solveEmpty handles a model without rows: every column sits at its bound 0
// unless its cost makes the problem unbounded.
func (m *Model) solveEmpty() *Solution {
	sol := &Solution{Status: Optimal, X: make([]float64, len(m.cols)), Duals: []float64{}}
	for _, c := range m.cols {
		if (!m.maximize && c.cost < -m.opts.tol) || (m.maximize && c.cost > m.opts.tol) {
			return &Solution{Status: Unbounded}
		}
	}

	return sol
}

func (m *Model) newTableau(ctx context.Context) *tableau {
	nRows := len(m.rows)
	nStruct := len(m.cols)

	nSlack := 0
	for _, r := range m.rows {
		if r.sense != Equal {
			nSlack++
		}
	}

	tb := &tableau{
		m:       nRows,
		nStruct: nStruct,
		basis:   make([]int, nRows),
		ident:   make([]int, nRows),
		sign:    make([]float64, nRows),
		opts:    m.opts,
		ctx:     ctx,
	}

	// First pass decides which rows need an artificial.
	slackCol := make([]int, nRows)
	needArt := make([]bool, nRows)
	nArt := 0
	s := nStruct
	for i, r := range m.rows {
		tb.sign[i] = 1
		if r.rhs < 0 {
			tb.sign[i] = -1
		}
		slackCol[i] = -1
		if r.sense != Equal {
			slackCol[i] = s
			s++
		}
		// The slack is a ready-made unit column only when its signed
		// coefficient is +1. Equality rows have no slack at all.
		if r.sense == Equal || slackCoef(r.sense)*tb.sign[i] != 1 {
			needArt[i] = true
			nArt++
		}
	}
	tb.artStart = nStruct + nSlack
	tb.width = tb.artStart + nArt
	tb.blocked = make([]bool, tb.width)
	tb.t = mat.NewDense(nRows+1, tb.width+1, nil)

	a := tb.artStart
	for i, r := range m.rows {
		ri := tb.t.RawRowView(i)
		if slackCol[i] >= 0 {
			ri[slackCol[i]] = slackCoef(r.sense) * tb.sign[i]
		}
		ri[tb.width] = r.rhs * tb.sign[i]
		if needArt[i] {
			ri[a] = 1
			tb.basis[i] = a
			tb.ident[i] = a
			a++
		} else {
			tb.basis[i] = slackCol[i]
			tb.ident[i] = slackCol[i]
		}
	}
	for j, c := range m.cols {
		for k, i := range c.idx {
			tb.t.Set(i, j, c.val[k]*tb.sign[i])
		}
	}

	return tb
}

func slackCoef(s Sense) float64 {
	if s == GreaterEqual {
		return -1
	}

	return 1
}

// loadPhaseOne writes the reduced costs of Σ artificials for the starting basis.
func (tb *tableau) loadPhaseOne() {
	obj := tb.t.RawRowView(tb.m)
	for j := range obj {
		obj[j] = 0
	}
	for j := tb.artStart; j < tb.width; j++ {
		obj[j] = 1
	}
	for i := 0; i < tb.m; i++ {
		if tb.basis[i] >= tb.artStart {
			floats.AddScaled(obj, -1, tb.t.RawRowView(i))
		}
	}
}

// evictArtificials pivots zero-level basic artificials out of the basis.
// Rows where no pivot exists are redundant and keep their artificial at 0.
func (tb *tableau) evictArtificials() {
	for i := 0; i < tb.m; i++ {
		if tb.basis[i] < tb.artStart {
			continue
		}
		ri := tb.t.RawRowView(i)
		best, col := tb.opts.feasTol, -1
		for j := 0; j < tb.artStart; j++ {
			if v := math.Abs(ri[j]); v > best {
				best, col = v, j
			}
		}
		if col >= 0 {
			tb.pivot(i, col)
		}
	}
}

// loadPhaseTwo writes the reduced costs of the real objective for the
// current basis. Maximisation is handled as minimisation of −c.
func (tb *tableau) loadPhaseTwo(m *Model) {
	obj := tb.t.RawRowView(tb.m)
	for j := range obj {
		obj[j] = 0
	}
	cost := make([]float64, tb.width)
	for j, c := range m.cols {
		cost[j] = c.cost
		if m.maximize {
			cost[j] = -c.cost
		}
	}
	copy(obj, cost)
	for i := 0; i < tb.m; i++ {
		if cb := cost[tb.basis[i]]; cb != 0 {
			floats.AddScaled(obj, -cb, tb.t.RawRowView(i))
		}
	}
}

// run iterates pivots until optimality or a terminal status.
func (tb *tableau) run() Status {
	bland := tb.opts.blandAfter == 0
	for {
		if tb.iterations&ctxCheckMask == 0 && tb.ctx.Err() != nil {
			return TimeLimit
		}
		if tb.iterations >= tb.opts.maxIterations {
			return IterationLimit
		}

		col := tb.entering(bland)
		if col < 0 {
			return Optimal
		}
		r, ratio := tb.leaving(col, bland)
		if r < 0 {
			return Unbounded
		}

		if ratio <= tb.opts.tol {
			tb.degenerate++
			if tb.degenerate >= tb.opts.blandAfter {
				bland = true
			}
		} else {
			tb.degenerate = 0
			bland = tb.opts.blandAfter == 0
		}

		tb.pivot(r, col)
		tb.iterations++
	}
}

// entering picks the entering column or -1 at optimality.
func (tb *tableau) entering(bland bool) int {
	obj := tb.t.RawRowView(tb.m)
	best, col := -tb.opts.tol, -1
	for j := 0; j < tb.width; j++ {
		if tb.blocked[j] || obj[j] >= best {
			continue
		}
		if bland {
			return j
		}
		best, col = obj[j], j
	}

	return col
}

// leaving runs the ratio test for col. Ties prefer the smallest basis index
// under Bland's rule and the largest pivot element otherwise.
func (tb *tableau) leaving(col int, bland bool) (int, float64) {
	r := -1
	var bestRatio, bestPiv float64
	for i := 0; i < tb.m; i++ {
		a := tb.t.At(i, col)
		if a <= tb.opts.tol {
			continue
		}
		ratio := tb.t.At(i, tb.width) / a
		if ratio < 0 {
			ratio = 0
		}
		switch {
		case r < 0, ratio < bestRatio-tb.opts.tol:
		case math.Abs(ratio-bestRatio) <= tb.opts.tol:
			if bland && tb.basis[i] > tb.basis[r] {
				continue
			}
			if !bland && a <= bestPiv {
				continue
			}
		default:
			continue
		}
		r, bestRatio, bestPiv = i, ratio, a
	}

	return r, bestRatio
}

// pivot makes column c basic in row r.
func (tb *tableau) pivot(r, c int) {
	pr := tb.t.RawRowView(r)
	floats.Scale(1/pr[c], pr)
	pr[c] = 1
	for i := 0; i <= tb.m; i++ {
		if i == r {
			continue
		}
		ri := tb.t.RawRowView(i)
		if f := ri[c]; f != 0 {
			floats.AddScaled(ri, -f, pr)
			ri[c] = 0
		}
	}
	tb.basis[r] = c
}

// extract reads primal values, objective and duals off the final tableau.
func (tb *tableau) extract(m *Model) *Solution {
	sol := &Solution{
		Status:     Optimal,
		X:          make([]float64, tb.nStruct),
		Duals:      make([]float64, tb.m),
		Iterations: tb.iterations,
	}
	for i := 0; i < tb.m; i++ {
		if j := tb.basis[i]; j < tb.nStruct {
			v := tb.t.At(i, tb.width)
			if v < 0 && v > -tb.opts.feasTol {
				v = 0
			}
			sol.X[j] = v
		}
	}
	for j, c := range m.cols {
		sol.Objective += c.cost * sol.X[j]
	}

	// The unit column eᵢ has internal cost 0, so its reduced cost is −y'ᵢ.
	obj := tb.t.RawRowView(tb.m)
	for i := 0; i < tb.m; i++ {
		y := -obj[tb.ident[i]] * tb.sign[i]
		if m.maximize {
			y = -y
		}
		sol.Duals[i] = y
	}

	return sol
}
