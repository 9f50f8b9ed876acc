package tspbap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/colgen"
)

func TestEdgeIndexIsDense(t *testing.T) {
	const n = 7
	seen := make([]bool, numEdges(n))
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			k := edgeIndex(n, Edge{U: u, V: v})
			require.False(t, seen[k], "index %d reused", k)
			seen[k] = true
		}
	}
	assert.Equal(t, 0, edgeIndex(n, NewEdge(1, 0)))
	assert.Equal(t, numEdges(n)-1, edgeIndex(n, NewEdge(6, 5)))
}

func TestMatching(t *testing.T) {
	m := NewMatching(Blue, []Edge{NewEdge(3, 2), {U: 0, V: 1}}, 7)
	assert.Equal(t, []Edge{{0, 1}, {2, 3}}, m.Edges)
	assert.Equal(t, "blue 0-1 2-3", m.Key())
	assert.True(t, m.Contains(Edge{2, 3}))
	assert.False(t, m.Contains(Edge{1, 2}))
	assert.Equal(t, []int{1, 0, 3, 2, -1}, m.Mates(5))

	// The column key depends on edges and kind, not on cost.
	pp := newPricing(Blue, 4)
	a := colgen.NewColumn[Matching](pp, m, "a")
	b := colgen.NewColumn[Matching](pp, NewMatching(Blue, m.Edges, 99), "b")
	v := colgen.NewVolatileColumn[Matching](pp, m, "c")
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), v.Key())
}
