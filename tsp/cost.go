package tsp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// TourCost sums the distances along the closed tour.
//
// Contract:
//   - tour is closed: len(tour) >= 2 and tour[0] == tour[len-1].
//   - every index lies in [0..n-1] for the n×n matrix dist.
//   - Returns ErrDimensionMismatch or ErrNegativeWeight.
//
// Complexity: O(n).
func TourCost(dist mat.Symmetric, tour []int) (float64, error) {
	if dist == nil || len(tour) < 2 || tour[0] != tour[len(tour)-1] {
		return 0, ErrDimensionMismatch
	}
	n := dist.SymmetricDim()

	var total float64
	for i := 0; i+1 < len(tour); i++ {
		u, v := tour[i], tour[i+1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, ErrDimensionMismatch
		}
		w := dist.At(u, v)
		if math.IsNaN(w) || w < 0 {
			return 0, ErrNegativeWeight
		}
		total += w
	}

	return round1e9(total), nil
}

// round1e9 rounds x to 1e-9 to avoid cross-platform FP drift.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
