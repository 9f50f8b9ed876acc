package flow

import (
	"context"
	"math"
)

// Dinic computes a maximum flow from source to sink in n using Dinic's
// algorithm (level graph + blocking flows), and returns the corresponding
// minimum source/sink cut.
//
// It returns:
//   - cut : Value is the maximum flow, Side the source shore
//   - err : ErrSourceNotFound, ErrSinkNotFound, ErrSameTerminal,
//     ErrNotSquare, ErrTooSmall, EdgeError, or a context error
//
// Steps:
//  1. Normalize options and build the residual matrix (O(V²)).
//  2. Repeat until no more augmenting paths:
//     a. Check for cancellation (O(1)).
//     b. BFS to build the level graph: distance from source for each vertex (O(V²)).
//     c. If sink unreachable, break.
//     d. DFS-based blocking flow pushes until none remains,
//     optionally rebuilding the level graph every LevelRebuildInterval augmentations.
//  3. The source shore is the set reachable in the final residual matrix.
//
// Complexity:
//
//	Time:   O(V² · E) in general.
//	Memory: O(V²) for the residual matrix, O(V) for level and iter.
func Dinic(ctx context.Context, n Network, source, sink int, opts Options) (Cut, error) {
	// 1) Normalize options and build residual capacities
	opts.normalize()
	res, err := residual(ctx, n, opts)
	if err != nil {
		return Cut{}, err
	}
	if err = checkTerminals(len(res), source, sink); err != nil {
		return Cut{}, err
	}

	// 2) Main loop: level graph + blocking flows
	var maxFlow float64
	augmentCount := 0
	level := make([]int, len(res))
	iter := make([]int, len(res))
	for {
		// 2a) Cancellation check before BFS
		if err = ctx.Err(); err != nil {
			return Cut{}, err
		}

		// 2b) BFS to compute levels
		for i := range level {
			level[i] = -1
		}
		level[source] = 0
		queue := []int{source}
		for i := 0; i < len(queue); i++ {
			u := queue[i]
			for v, c := range res[u] {
				if c > opts.Epsilon && level[v] < 0 {
					level[v] = level[u] + 1
					queue = append(queue, v)
				}
			}
		}
		// 2c) If sink unreachable in level graph, we're done
		if level[sink] < 0 {
			break
		}

		// 2d) DFS-based blocking flow
		for i := range iter {
			iter[i] = 0
		}
		for {
			if err = ctx.Err(); err != nil {
				return Cut{}, err
			}
			pushed := dinicPush(res, level, iter, source, sink, math.Inf(1), opts.Epsilon)
			if pushed <= opts.Epsilon {
				break
			}
			maxFlow += pushed
			augmentCount++
			if opts.LevelRebuildInterval > 0 && augmentCount%opts.LevelRebuildInterval == 0 {
				break
			}
		}
	}

	// 3) Source shore of the minimum cut
	return Cut{Value: round1e9(maxFlow), Side: reachable(res, source, opts.Epsilon)}, nil
}

// dinicPush pushes flow from u toward sink along the level graph, updating
// res in place, and returns the amount actually sent.
func dinicPush(res [][]float64, level, iter []int, u, sink int, available, eps float64) float64 {
	if u == sink {
		return available
	}
	for ; iter[u] < len(res); iter[u]++ {
		v := iter[u]
		c := res[u][v]
		if c <= eps || level[v] != level[u]+1 {
			continue
		}
		pushed := dinicPush(res, level, iter, v, sink, math.Min(available, c), eps)
		if pushed > eps {
			res[u][v] -= pushed
			res[v][u] += pushed

			return pushed
		}
	}

	return 0
}
