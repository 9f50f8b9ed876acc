package flow

import (
	"context"
	"math"
)

// EdmondsKarp computes a maximum flow from source to sink in n using
// breadth-first augmenting paths, and returns the corresponding minimum
// source/sink cut.
//
// It returns:
//   - cut : Value is the maximum flow, Side the source shore
//   - err : ErrSourceNotFound, ErrSinkNotFound, ErrSameTerminal,
//     ErrNotSquare, ErrTooSmall, EdgeError, or a context error
//
// Steps:
//  1. Normalize options and build the residual matrix (O(V²)).
//  2. Repeat until the sink is unreachable:
//     a. Check for cancellation.
//     b. BFS from source over arcs with residual capacity > Epsilon (O(V²)).
//     c. Push the bottleneck along the path, updating both arc directions.
//  3. The source shore is the set reachable in the final residual matrix.
//
// Complexity:
//
//	Time:   O(V · E²) augmentations bound, each BFS O(V²).
//	Memory: O(V²).
func EdmondsKarp(ctx context.Context, n Network, source, sink int, opts Options) (Cut, error) {
	// 1) Normalize options and build residual capacities
	opts.normalize()
	res, err := residual(ctx, n, opts)
	if err != nil {
		return Cut{}, err
	}
	if err = checkTerminals(len(res), source, sink); err != nil {
		return Cut{}, err
	}

	// 2) Augment along shortest paths
	var maxFlow float64
	parent := make([]int, len(res))
	for {
		// 2a) Cancellation check before each BFS
		if err = ctx.Err(); err != nil {
			return Cut{}, err
		}
		// 2b) BFS recording parents
		for i := range parent {
			parent[i] = -1
		}
		parent[source] = source
		queue := []int{source}
		for i := 0; i < len(queue) && parent[sink] < 0; i++ {
			u := queue[i]
			for v, c := range res[u] {
				if c > opts.Epsilon && parent[v] < 0 {
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}
		if parent[sink] < 0 {
			break
		}

		// 2c) Bottleneck and augmentation
		push := math.Inf(1)
		for v := sink; v != source; v = parent[v] {
			push = math.Min(push, res[parent[v]][v])
		}
		for v := sink; v != source; v = parent[v] {
			u := parent[v]
			res[u][v] -= push
			res[v][u] += push
		}
		maxFlow += push
	}

	// 3) Source shore of the minimum cut
	return Cut{Value: round1e9(maxFlow), Side: reachable(res, source, opts.Epsilon)}, nil
}
