package tsp

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// TwoOpt runs deterministic first-improvement 2-opt from initTour.
//
// Candidate pairs 1 ≤ i < k ≤ n-1 are scanned in order. With a=T[i-1],
// b=T[i], c=T[k], d=T[k+1] the move reverses T[i..k] and changes the cost by
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d).
//
// A move is applied when Δ < −opts.Eps and the scan restarts from the
// beginning. The returned tour keeps opts.StartVertex, is passed through
// CanonicalizeOrientation and is returned with its cost.
//
// When opts.TimeLimit elapses, the current tour is returned together with
// ErrTimeLimit; it is still a valid tour.
//
// Complexity: O(n²) checks per pass, O(n) per accepted move.
func TwoOpt(dist mat.Symmetric, initTour []int, opts Options) ([]int, float64, error) {
	if dist == nil || len(initTour) < 2 {
		return nil, 0, ErrDimensionMismatch
	}
	n := dist.SymmetricDim()
	if err := opts.validate(n); err != nil {
		return nil, 0, err
	}
	if err := ValidateTour(initTour, n, opts.StartVertex); err != nil {
		return nil, 0, err
	}
	if _, err := TourCost(dist, initTour); err != nil {
		return nil, 0, err
	}

	// Prefetch into a dense buffer to keep interface calls out of the scan.
	w := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w[i*n+j] = dist.At(i, j)
		}
	}
	at := func(u, v int) float64 { return w[u*n+v] }

	cur := make([]int, n+1)
	copy(cur, initTour)

	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = time.Now().Add(opts.TimeLimit)
	}
	step := 0
	expired := func() bool {
		step++
		if deadline.IsZero() || step&2047 != 0 {
			return false
		}
		return time.Now().After(deadline)
	}

	var limitErr error
	accepted := 0
search:
	for {
		improved := false
		for i := 1; i <= n-2 && !improved; i++ {
			for k := i + 1; k <= n-1; k++ {
				if expired() {
					limitErr = ErrTimeLimit
					break search
				}
				a, b, c, d := cur[i-1], cur[i], cur[k], cur[k+1]
				wac, wbd := at(a, c), at(b, d)
				if math.IsInf(wac, 0) || math.IsInf(wbd, 0) {
					continue
				}
				if delta := (wac + wbd) - (at(a, b) + at(c, d)); delta >= -opts.Eps {
					continue
				}
				reverseSegment(cur, i, k)
				accepted++
				improved = true
				break
			}
		}
		if !improved || (opts.TwoOptMaxIters > 0 && accepted >= opts.TwoOptMaxIters) {
			break
		}
	}

	_ = CanonicalizeOrientation(cur)
	cost, err := TourCost(dist, cur)
	if err != nil {
		return nil, 0, err
	}

	return cur, cost, limitErr
}

// Improve runs TwoOpt from the identity tour and then from opts.Restarts
// seeded random permutations, keeping the cheapest local optimum. The time
// limit is shared by all descents; once it elapses the best tour so far is
// returned without error.
func Improve(in *Instance, opts Options) ([]int, float64, error) {
	n := in.N()
	if err := opts.validate(n); err != nil {
		return nil, 0, err
	}
	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = time.Now().Add(opts.TimeLimit)
	}

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	first, _ := MakeTourFromPermutation(identity, opts.StartVertex)

	best, bestCost, err := TwoOpt(in.Matrix(), first, opts)
	if errors.Is(err, ErrTimeLimit) {
		return best, bestCost, nil
	}
	if err != nil {
		return nil, 0, err
	}

	base := rngFromSeed(opts.Seed)
	for r := 0; r < opts.Restarts; r++ {
		local := opts
		if !deadline.IsZero() {
			local.TimeLimit = time.Until(deadline)
			if local.TimeLimit <= 0 {
				break
			}
		}
		perm := permRange(n, deriveRNG(base, uint64(r)))
		start, _ := MakeTourFromPermutation(perm, opts.StartVertex)
		tour, cost, err := TwoOpt(in.Matrix(), start, local)
		if err != nil && !errors.Is(err, ErrTimeLimit) {
			return nil, 0, err
		}
		if cost < bestCost-opts.Eps {
			best, bestCost = tour, cost
		}
		if errors.Is(err, ErrTimeLimit) {
			break
		}
	}

	return best, bestCost, nil
}
