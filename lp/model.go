package lp

import (
	"math"
	"sort"
)

// Model is an incrementally built linear program. It is not safe for
// concurrent use.
type Model struct {
	maximize bool
	rows     []row
	cols     []column
	opts     Options
}

type row struct {
	name  string
	sense Sense
	rhs   float64
}

// column keeps its nonzeros sorted by row index.
type column struct {
	name string
	cost float64
	idx  []int
	val  []float64
}

// NewModel returns an empty minimisation model.
func NewModel(opts ...Option) *Model {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Model{opts: o}
}

// SetMaximize switches the objective sense.
func (m *Model) SetMaximize(maximize bool) { m.maximize = maximize }

// Maximize reports the objective sense.
func (m *Model) Maximize() bool { return m.maximize }

// NumRows returns the number of rows.
func (m *Model) NumRows() int { return len(m.rows) }

// NumCols returns the number of columns.
func (m *Model) NumCols() int { return len(m.cols) }

// RowName returns the name given to row i.
func (m *Model) RowName(i int) string { return m.rows[i].name }

// ColName returns the name given to column j.
func (m *Model) ColName(j int) string { return m.cols[j].name }

// AddRow appends a row and returns its index. coefs maps existing column
// indices to their coefficient in the new row; zero entries are dropped.
func (m *Model) AddRow(name string, sense Sense, rhs float64, coefs map[int]float64) (int, error) {
	if !finite(rhs) {
		return -1, ErrBadCoefficient
	}
	for j, v := range coefs {
		if j < 0 || j >= len(m.cols) {
			return -1, ErrIndexOutOfRange
		}
		if !finite(v) {
			return -1, ErrBadCoefficient
		}
	}
	i := len(m.rows)
	m.rows = append(m.rows, row{name: name, sense: sense, rhs: rhs})
	for j, v := range coefs {
		if v == 0 {
			continue
		}
		// i is the largest row index so far; appending keeps idx sorted.
		m.cols[j].idx = append(m.cols[j].idx, i)
		m.cols[j].val = append(m.cols[j].val, v)
	}

	return i, nil
}

// AddColumn appends a column and returns its index. coefs maps row indices
// to coefficients; zero entries are dropped.
func (m *Model) AddColumn(name string, cost float64, coefs map[int]float64) (int, error) {
	if !finite(cost) {
		return -1, ErrBadCoefficient
	}
	c := column{name: name, cost: cost}
	for i, v := range coefs {
		if i < 0 || i >= len(m.rows) {
			return -1, ErrIndexOutOfRange
		}
		if !finite(v) {
			return -1, ErrBadCoefficient
		}
		if v != 0 {
			c.idx = append(c.idx, i)
		}
	}
	sort.Ints(c.idx)
	c.val = make([]float64, len(c.idx))
	for k, i := range c.idx {
		c.val[k] = coefs[i]
	}
	m.cols = append(m.cols, c)

	return len(m.cols) - 1, nil
}

// Coef returns the coefficient of column j in row i.
func (m *Model) Coef(i, j int) float64 {
	c := m.cols[j]
	k := sort.SearchInts(c.idx, i)
	if k < len(c.idx) && c.idx[k] == i {
		return c.val[k]
	}

	return 0
}

// Cost returns the objective coefficient of column j.
func (m *Model) Cost(j int) float64 { return m.cols[j].cost }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
