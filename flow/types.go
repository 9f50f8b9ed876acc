package flow

import "fmt"

// ErrSourceNotFound is returned when the source index is out of range.
var ErrSourceNotFound = fmt.Errorf("flow: %w", errSourceNotFound)
var errSourceNotFound = fmt.Errorf("source vertex not found")

// ErrSinkNotFound is returned when the sink index is out of range.
var ErrSinkNotFound = fmt.Errorf("flow: %w", errSinkNotFound)
var errSinkNotFound = fmt.Errorf("sink vertex not found")

// ErrSameTerminal is returned when source and sink coincide.
var ErrSameTerminal = fmt.Errorf("flow: source equals sink")

// ErrNotSquare is returned when a Network is not square.
var ErrNotSquare = fmt.Errorf("flow: capacity matrix is not square")

// ErrTooSmall is returned when a Network has fewer than two vertices.
var ErrTooSmall = fmt.Errorf("flow: at least two vertices required")

// ErrAsymmetric is returned when StoerWagner receives a directed network.
var ErrAsymmetric = fmt.Errorf("flow: capacity matrix is not symmetric")

// EdgeError is returned when an arc has a negative capacity.
type EdgeError struct {
	From, To int
	Cap      float64
}

func (e EdgeError) Error() string {
	return fmt.Sprintf("flow: negative capacity on arc %d→%d: %g", e.From, e.To, e.Cap)
}

// Network is a dense capacity matrix: n[u][v] is the capacity of u→v.
type Network [][]float64

// Cut is a partition of the vertices and the capacity crossing it.
type Cut struct {
	Value float64
	// Side lists one shore in ascending order.
	Side []int
}

// Options configures all routines.
//   - Epsilon: treat capacities ≤ Epsilon as zero (default 1e-9).
//   - LevelRebuildInterval: for Dinic, rebuild the level graph every N augmentations.
type Options struct {
	Epsilon              float64
	LevelRebuildInterval int
}

// DefaultOptions returns Epsilon = 1e-9 and no forced level rebuilds.
func DefaultOptions() Options {
	return Options{Epsilon: 1e-9}
}

// normalize fills in defaults for zero-valued fields.
func (o *Options) normalize() {
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-9
	}
	if o.LevelRebuildInterval < 0 {
		o.LevelRebuildInterval = 0
	}
}
