package tsp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/colgen/tsp"
)

func TestTourHelpers(t *testing.T) {
	tour, err := tsp.MakeTourFromPermutation([]int{2, 0, 3, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2, 0, 3}, tour)
	require.NoError(t, tsp.ValidateTour(tour, 4, 3))
	assert.Equal(t, "[3 1 2 0 | 3]", tsp.String(tour))

	_, err = tsp.MakeTourFromPermutation([]int{0, 0, 1}, 0)
	assert.ErrorIs(t, err, tsp.ErrDimensionMismatch)
	_, err = tsp.MakeTourFromPermutation([]int{0, 1, 2}, 5)
	assert.ErrorIs(t, err, tsp.ErrStartOutOfRange)
	assert.ErrorIs(t, tsp.ValidateTour([]int{0, 1, 2, 1}, 3, 0), tsp.ErrDimensionMismatch)

	c := []int{0, 3, 2, 1, 0}
	require.NoError(t, tsp.CanonicalizeOrientation(c))
	assert.Equal(t, []int{0, 1, 2, 3, 0}, c)

	assert.True(t, tsp.EqualCycles([]int{0, 1, 2, 3, 0}, []int{2, 1, 0, 3, 2}))
	assert.False(t, tsp.EqualCycles([]int{0, 1, 2, 3, 0}, []int{0, 2, 1, 3, 0}))
	assert.Equal(t, [][2]int{{0, 2}, {1, 2}, {0, 1}}, tsp.Edges([]int{0, 2, 1, 0}))
}

func TestNewInstanceValidation(t *testing.T) {
	_, err := tsp.NewInstance("x", [][]float64{{0}})
	assert.ErrorIs(t, err, tsp.ErrDimensionMismatch)
	_, err = tsp.NewInstance("x", [][]float64{{0, 1}, {1}})
	assert.ErrorIs(t, err, tsp.ErrNonSquare)
	_, err = tsp.NewInstance("x", [][]float64{{0, -1}, {-1, 0}})
	assert.ErrorIs(t, err, tsp.ErrNegativeWeight)

	in, err := tsp.NewInstance("x", [][]float64{{0, 2}, {2, 0}})
	require.NoError(t, err)
	c, err := in.Cost([]int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, c)
	_, err = in.Cost([]int{0, 2, 0})
	assert.ErrorIs(t, err, tsp.ErrDimensionMismatch)
}

func TestTwoOptBurma14(t *testing.T) {
	in := burma14(t)
	canonical := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 0}

	tour, cost, err := tsp.TwoOpt(in.Matrix(), canonical, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 11, 13, 6, 12, 7, 10, 8, 9, 0}, tour)
	assert.Equal(t, 3448.0, cost)
	// The input is left untouched.
	assert.Equal(t, 1, canonical[1])

	again, _, err := tsp.TwoOpt(in.Matrix(), tour, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, tour, again)
}

func TestTwoOptMaxIters(t *testing.T) {
	in := burma14(t)
	opts := tsp.DefaultOptions()
	opts.TwoOptMaxIters = 1
	_, cost, err := tsp.TwoOpt(in.Matrix(), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 0}, opts)
	require.NoError(t, err)
	assert.Less(t, cost, 4562.0)
	assert.Greater(t, cost, 3448.0)
}

func TestImprove(t *testing.T) {
	in := burma14(t)
	opts := tsp.DefaultOptions()

	single, singleCost, err := tsp.Improve(in, opts)
	require.NoError(t, err)
	assert.Equal(t, 3448.0, singleCost)
	require.NoError(t, tsp.ValidateTour(single, 14, 0))

	opts.Restarts, opts.Seed = 8, 42
	best, bestCost, err := tsp.Improve(in, opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, bestCost, singleCost)
	assert.GreaterOrEqual(t, bestCost, 3323.0)
	require.NoError(t, tsp.ValidateTour(best, 14, 0))
	c, _ := in.Cost(best)
	assert.Equal(t, bestCost, c)

	// Same seed, same answer.
	again, _, err := tsp.Improve(in, opts)
	require.NoError(t, err)
	assert.Equal(t, best, again)

	opts.StartVertex = 14
	_, _, err = tsp.Improve(in, opts)
	assert.ErrorIs(t, err, tsp.ErrStartOutOfRange)

	opts.StartVertex, opts.TimeLimit = 0, time.Nanosecond
	_, _, err = tsp.Improve(in, opts)
	assert.NoError(t, err)
}
