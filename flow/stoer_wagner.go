package flow

import (
	"context"
	"math"
	"sort"
)

// StoerWagner computes a global minimum cut of the undirected graph whose
// symmetric weight matrix is n.
//
// It returns:
//   - cut : Value is the cut weight, Side the shore that was merged last
//   - err : ErrNotSquare, ErrTooSmall, ErrAsymmetric, EdgeError,
//     or a context error
//
// Steps:
//  1. Validate n and copy it into a working matrix (O(V²)).
//  2. Run V-1 phases. Each phase:
//     a. Checks for cancellation.
//     b. Grows a maximum adjacency ordering from the first active vertex:
//     the next vertex is the one most tightly connected to those already
//     added (ties go to the earliest active vertex).
//     c. Records the cut of the phase, the weight connecting the last
//     vertex to all others, as a candidate.
//     d. Merges the last vertex into the one added before it.
//  3. The lightest candidate is the global minimum cut.
//
// Complexity:
//
//	Time:   O(V³).
//	Memory: O(V²).
func StoerWagner(ctx context.Context, n Network, opts Options) (Cut, error) {
	// 1) Validate and copy
	opts.normalize()
	w, err := residual(ctx, n, opts)
	if err != nil {
		return Cut{}, err
	}
	size := len(w)
	for u := 0; u < size; u++ {
		for v := u + 1; v < size; v++ {
			if math.Abs(w[u][v]-w[v][u]) > opts.Epsilon {
				return Cut{}, ErrAsymmetric
			}
		}
	}

	groups := make([][]int, size)
	active := make([]int, size)
	for i := range active {
		active[i] = i
		groups[i] = []int{i}
	}

	best := Cut{Value: math.Inf(1)}
	weights := make([]float64, size)
	added := make([]bool, size)

	// 2) Phases
	for len(active) > 1 {
		// 2a) Cancellation check per phase
		if err = ctx.Err(); err != nil {
			return Cut{}, err
		}

		// 2b) Maximum adjacency ordering
		for _, v := range active {
			weights[v] = 0
			added[v] = false
		}
		prev, last := -1, -1
		for range active {
			sel := -1
			for _, v := range active {
				if !added[v] && (sel < 0 || weights[v] > weights[sel]) {
					sel = v
				}
			}
			added[sel] = true
			prev, last = last, sel
			for _, v := range active {
				if !added[v] {
					weights[v] += w[sel][v]
				}
			}
		}

		// 2c) Cut of the phase
		if weights[last] < best.Value {
			best.Value = weights[last]
			best.Side = append(best.Side[:0], groups[last]...)
		}

		// 2d) Merge last into prev
		groups[prev] = append(groups[prev], groups[last]...)
		for _, v := range active {
			w[prev][v] += w[last][v]
			w[v][prev] = w[prev][v]
		}
		w[prev][prev] = 0
		for i, v := range active {
			if v == last {
				active = append(active[:i], active[i+1:]...)
				break
			}
		}
	}

	// 3) Lightest phase cut
	sort.Ints(best.Side)
	best.Value = round1e9(best.Value)

	return best, nil
}
