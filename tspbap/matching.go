package tspbap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Color names one of the two pricing problems.
type Color int

const (
	Red Color = iota
	Blue
)

func (c Color) String() string {
	if c == Blue {
		return "blue"
	}

	return "red"
}

// Edge is an undirected edge with U < V.
type Edge struct{ U, V int }

// NewEdge orders its endpoints.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

func (e Edge) String() string { return fmt.Sprintf("(%d,%d)", e.U, e.V) }

// edgeIndex numbers the edges of K_n row by row: (0,1)=0, (0,2)=1, ...
func edgeIndex(n int, e Edge) int {
	return e.U*n - e.U*(e.U+1)/2 + (e.V - e.U - 1)
}

// numEdges is the edge count of K_n.
func numEdges(n int) int { return n * (n - 1) / 2 }

// Matching is the payload of a column: a perfect matching of one colour.
type Matching struct {
	Color Color
	// Edges are sorted by (U, V).
	Edges []Edge
	// Cost is the column's objective coefficient.
	Cost float64
}

// NewMatching sorts edges and returns the matching.
func NewMatching(c Color, edges []Edge, cost float64) Matching {
	es := append([]Edge(nil), edges...)
	sort.Slice(es, func(i, j int) bool {
		if es[i].U != es[j].U {
			return es[i].U < es[j].U
		}
		return es[i].V < es[j].V
	})

	return Matching{Color: c, Edges: es, Cost: cost}
}

// Key identifies the matching by colour and edges.
func (m Matching) Key() string {
	var sb strings.Builder
	sb.WriteString(m.Color.String())
	for _, e := range m.Edges {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(e.U))
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(e.V))
	}

	return sb.String()
}

// Contains reports whether e is one of the matching's edges.
func (m Matching) Contains(e Edge) bool {
	i := sort.Search(len(m.Edges), func(i int) bool {
		f := m.Edges[i]
		return f.U > e.U || (f.U == e.U && f.V >= e.V)
	})

	return i < len(m.Edges) && m.Edges[i] == e
}

// Mates returns mate[v] for every vertex of an n-vertex matching, -1 when unmatched.
func (m Matching) Mates(n int) []int {
	mate := make([]int, n)
	for i := range mate {
		mate[i] = -1
	}
	for _, e := range m.Edges {
		mate[e.U], mate[e.V] = e.V, e.U
	}

	return mate
}

func (m Matching) String() string {
	return fmt.Sprintf("%s%v cost=%g", m.Color, m.Edges, m.Cost)
}
