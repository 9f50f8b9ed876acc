package bap

import (
	"container/heap"

	"github.com/katalvlaran/colgen"
)

// Comparator reports whether a should be processed before b.
type Comparator[T any] func(a, b *Node[T]) bool

// DepthFirst prefers the most recently created node.
func DepthFirst[T any]() Comparator[T] {
	return func(a, b *Node[T]) bool { return a.id > b.id }
}

// BreadthFirst prefers the earliest created node.
func BreadthFirst[T any]() Comparator[T] {
	return func(a, b *Node[T]) bool { return a.id < b.id }
}

// BestBound prefers the best bound for sense; equal bounds go to the most
// recently created node.
func BestBound[T any](sense colgen.Sense) Comparator[T] {
	return func(a, b *Node[T]) bool {
		if a.bound != b.bound {
			if sense == colgen.Maximize {
				return a.bound > b.bound
			}
			return a.bound < b.bound
		}
		return a.id > b.id
	}
}

// nodeQueue is a heap of open nodes ordered by a Comparator.
type nodeQueue[T any] struct {
	nodes []*Node[T]
	less  Comparator[T]
}

func newNodeQueue[T any](less Comparator[T]) *nodeQueue[T] {
	return &nodeQueue[T]{less: less}
}

func (q *nodeQueue[T]) Len() int           { return len(q.nodes) }
func (q *nodeQueue[T]) Less(i, j int) bool { return q.less(q.nodes[i], q.nodes[j]) }
func (q *nodeQueue[T]) Swap(i, j int)      { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *nodeQueue[T]) Push(x any) { q.nodes = append(q.nodes, x.(*Node[T])) }

func (q *nodeQueue[T]) Pop() any {
	n := len(q.nodes)
	x := q.nodes[n-1]
	q.nodes[n-1] = nil
	q.nodes = q.nodes[:n-1]

	return x
}

func (q *nodeQueue[T]) push(n *Node[T]) { heap.Push(q, n) }

func (q *nodeQueue[T]) pop() *Node[T] { return heap.Pop(q).(*Node[T]) }

// reorder switches the comparator and restores the heap property.
func (q *nodeQueue[T]) reorder(less Comparator[T]) {
	q.less = less
	heap.Init(q)
}

// bestBound returns the best bound among open nodes, ok=false when empty.
func (q *nodeQueue[T]) bestBound(sense colgen.Sense) (float64, bool) {
	if len(q.nodes) == 0 {
		return 0, false
	}
	best := q.nodes[0].bound
	for _, n := range q.nodes[1:] {
		if (sense == colgen.Maximize && n.bound > best) || (sense == colgen.Minimize && n.bound < best) {
			best = n.bound
		}
	}

	return best, true
}
