package tspbap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/colgen/tsp"
)

// octagon is a small EUC_2D instance used where burma14 would be slow.
func octagon(t *testing.T) *tsp.Instance {
	t.Helper()
	in, err := tsp.FromCoords("octagon", tsp.WeightEuc2D, [][2]float64{
		{0, 0}, {10, 0}, {20, 5}, {25, 15}, {15, 25}, {5, 20}, {-5, 12}, {8, 10},
	})
	require.NoError(t, err)
	return in
}

func burma14(t *testing.T) *tsp.Instance {
	t.Helper()
	in, err := tsp.ReadFile("../tsp/testdata/burma14.tsp")
	require.NoError(t, err)
	return in
}

// bruteForce returns the optimal tour length by enumerating the
// permutations of 1..n-1.
func bruteForce(in *tsp.Instance) float64 {
	n := in.N()
	perm := make([]int, n-1)
	for i := range perm {
		perm[i] = i + 1
	}
	best := math.Inf(1)
	var rec func(k int)
	rec = func(k int) {
		if k == len(perm) {
			c := in.Distance(0, perm[0]) + in.Distance(perm[len(perm)-1], 0)
			for i := 0; i+1 < len(perm); i++ {
				c += in.Distance(perm[i], perm[i+1])
			}
			best = math.Min(best, c)
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			rec(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	rec(0)

	return best
}
