package tsp

import (
	"strconv"
	"strings"
)

// ValidatePermutation checks that perm is a permutation of {0..n-1}.
//
// Complexity: O(n) time, O(n) space.
func ValidatePermutation(perm []int, n int) error {
	if n <= 0 || len(perm) != n {
		return ErrDimensionMismatch
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return ErrDimensionMismatch
		}
		seen[v] = true
	}

	return nil
}

// MakeTourFromPermutation rotates perm so it starts at start and closes it.
// The result satisfies len==n+1 and tour[0]==tour[n]==start.
//
// Complexity: O(n) time, O(n) space.
func MakeTourFromPermutation(perm []int, start int) ([]int, error) {
	n := len(perm)
	if err := ValidatePermutation(perm, n); err != nil {
		return nil, err
	}
	if start < 0 || start >= n {
		return nil, ErrStartOutOfRange
	}
	pivot := 0
	for perm[pivot] != start {
		pivot++
	}
	tour := make([]int, n+1)
	for i := 0; i < n; i++ {
		tour[i] = perm[(pivot+i)%n]
	}
	tour[n] = start

	return tour, nil
}

// ValidateTour enforces the closed Hamiltonian cycle invariants:
//
//	len(tour) == n+1, tour[0]==tour[n]==start,
//	each vertex of [0..n-1] appears exactly once in tour[0..n-1].
//
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n int, start int) error {
	if n <= 0 || len(tour) != n+1 {
		return ErrDimensionMismatch
	}
	if start < 0 || start >= n {
		return ErrStartOutOfRange
	}
	if tour[0] != start || tour[n] != start {
		return ErrDimensionMismatch
	}

	return ValidatePermutation(tour[:n], n)
}

// CanonicalizeOrientation fixes the direction of a closed tour: when
// tour[1] > tour[n-1] the interior tour[1..n-1] is reversed in place.
// Two tours of the same cycle and start become equal.
//
// Complexity: O(n) time, O(1) space.
func CanonicalizeOrientation(tour []int) error {
	n := len(tour) - 1
	if n < 2 || tour[0] != tour[n] {
		return ErrDimensionMismatch
	}
	if tour[1] > tour[n-1] {
		reverseSegment(tour, 1, n-1)
	}

	return nil
}

// reverseSegment reverses tour[i..k] in place; 1 ≤ i < k ≤ n-1 is the caller's job.
func reverseSegment(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i++
		k--
	}
}

// Edges lists the n edges of a closed tour as (min,max) pairs in tour order.
func Edges(tour []int) [][2]int {
	if len(tour) < 2 {
		return nil
	}
	out := make([][2]int, 0, len(tour)-1)
	for i := 0; i+1 < len(tour); i++ {
		u, v := tour[i], tour[i+1]
		if u > v {
			u, v = v, u
		}
		out = append(out, [2]int{u, v})
	}

	return out
}

// EqualCycles reports whether two closed tours over n ≥ 3 vertices describe
// the same undirected cycle, regardless of start and direction.
//
// Complexity: O(n) time, O(n) space.
func EqualCycles(a, b []int) bool {
	if len(a) != len(b) || len(a) < 2 {
		return false
	}
	n := len(a) - 1
	next := make(map[[2]int]bool, n)
	for _, e := range Edges(a) {
		next[e] = true
	}
	for _, e := range Edges(b) {
		if !next[e] {
			return false
		}
	}

	return len(next) == n
}

// String formats a tour as "[0 3 1 2 | 0]", the bar marking the closure.
func String(tour []int) string {
	if len(tour) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	n := len(tour) - 1
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(tour[i]))
	}
	sb.WriteString(" | ")
	sb.WriteString(strconv.Itoa(tour[n]))
	sb.WriteByte(']')

	return sb.String()
}
