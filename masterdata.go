package colgen

// MasterData is the bookkeeping side of one node's master problem: which
// columns and cuts are active, in insertion order. The live model is owned
// by the Master implementation.
type MasterData[T any] struct {
	// Node is the search node this data belongs to, -1 outside a search.
	Node       int
	Objective  float64
	Iterations int

	order   []PricingProblem
	columns map[PricingProblem][]*Column[T]
	colKeys map[PricingProblem]map[string]struct{}

	cuts    []Inequality
	cutKeys map[string]struct{}
}

// NewMasterData returns empty bookkeeping for node.
func NewMasterData[T any](node int) *MasterData[T] {
	return &MasterData[T]{
		Node:    node,
		columns: make(map[PricingProblem][]*Column[T]),
		colKeys: make(map[PricingProblem]map[string]struct{}),
		cutKeys: make(map[string]struct{}),
	}
}

// HasColumn reports whether an equal column of the same pricing problem is active.
func (d *MasterData[T]) HasColumn(c *Column[T]) bool {
	_, ok := d.colKeys[c.Pricing][c.Key()]
	return ok
}

// AddColumn records c and reports false if an equal column was already active.
func (d *MasterData[T]) AddColumn(c *Column[T]) bool {
	keys, ok := d.colKeys[c.Pricing]
	if !ok {
		keys = make(map[string]struct{})
		d.colKeys[c.Pricing] = keys
		d.order = append(d.order, c.Pricing)
	}
	if _, dup := keys[c.Key()]; dup {
		return false
	}
	keys[c.Key()] = struct{}{}
	d.columns[c.Pricing] = append(d.columns[c.Pricing], c)

	return true
}

// Columns returns the active columns of pp.
func (d *MasterData[T]) Columns(pp PricingProblem) []*Column[T] {
	return d.columns[pp]
}

// AllColumns returns every active column, grouped by pricing problem in
// first-seen order.
func (d *MasterData[T]) AllColumns() []*Column[T] {
	out := make([]*Column[T], 0, d.NumColumns())
	for _, pp := range d.order {
		out = append(out, d.columns[pp]...)
	}

	return out
}

// NumColumns returns the number of active columns.
func (d *MasterData[T]) NumColumns() int {
	n := 0
	for _, cs := range d.columns {
		n += len(cs)
	}

	return n
}

// HasCut reports whether a cut with key is active.
func (d *MasterData[T]) HasCut(key string) bool {
	_, ok := d.cutKeys[key]
	return ok
}

// AddCut records ineq and reports false if it was already active.
func (d *MasterData[T]) AddCut(ineq Inequality) bool {
	k := ineq.Key()
	if _, dup := d.cutKeys[k]; dup {
		return false
	}
	d.cutKeys[k] = struct{}{}
	d.cuts = append(d.cuts, ineq)

	return true
}

// Cuts returns the active cuts in insertion order.
func (d *MasterData[T]) Cuts() []Inequality { return d.cuts }
