package flow

import (
	"context"
	"math"
	"sort"
)

// residual validates n and returns a copy with noise below Epsilon removed.
//
// Steps:
//  1. Reject non-square or too small matrices.
//  2. For each entry: below -Epsilon is an EdgeError, at most Epsilon
//     becomes 0, the diagonal is always 0.
//
// Complexity: O(V²) time and memory.
func residual(ctx context.Context, n Network, opts Options) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := len(n)
	if size < 2 {
		return nil, ErrTooSmall
	}
	out := make([][]float64, size)
	for u, row := range n {
		if len(row) != size {
			return nil, ErrNotSquare
		}
		out[u] = make([]float64, size)
		for v, c := range row {
			if c < -opts.Epsilon {
				return nil, EdgeError{From: u, To: v, Cap: c}
			}
			if u == v || c <= opts.Epsilon {
				continue
			}
			out[u][v] = c
		}
	}

	return out, nil
}

// checkTerminals validates source and sink indices for an n-vertex network.
func checkTerminals(size, source, sink int) error {
	if source < 0 || source >= size {
		return ErrSourceNotFound
	}
	if sink < 0 || sink >= size {
		return ErrSinkNotFound
	}
	if source == sink {
		return ErrSameTerminal
	}

	return nil
}

// reachable returns, in ascending order, the vertices reachable from s
// through arcs with residual capacity above eps.
func reachable(res [][]float64, s int, eps float64) []int {
	seen := make([]bool, len(res))
	seen[s] = true
	queue := []int{s}
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		for v, c := range res[u] {
			if c > eps && !seen[v] {
				seen[v] = true
				queue = append(queue, v)
			}
		}
	}
	sort.Ints(queue)

	return queue
}

// cutValue sums the original capacities leaving side.
func cutValue(n [][]float64, side []int) float64 {
	in := make([]bool, len(n))
	for _, v := range side {
		in[v] = true
	}
	var total float64
	for _, u := range side {
		for v, c := range n[u] {
			if !in[v] {
				total += c
			}
		}
	}

	return round1e9(total)
}

// round1e9 stabilises floating sums for comparisons in tests and callers.
func round1e9(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}
