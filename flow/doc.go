// Package flow implements maximum-flow and minimum-cut routines on dense
// capacity matrices, the representation produced by LP solutions over
// complete graphs.
//
// The algorithms offered are:
//
//   - Edmonds–Karp
//
//   - Method: breadth-first search for shortest augmenting paths.
//
//   - Time:   O(V · E²), E = V² on a dense matrix.
//
//   - Memory: O(V²) for the residual matrix.
//
//   - Dinic
//
//   - Method: level graph construction + blocking flow via DFS.
//
//   - Time:   O(V² · E) in general, usually far less.
//
//   - Memory: O(V²) for the residual matrix, O(V) for levels.
//
//   - Stoer–Wagner
//
//   - Method: maximum adjacency orderings with vertex merging.
//
//   - Time:   O(V³) on a dense matrix.
//
//   - Memory: O(V²) for the merged weight matrix.
//
//   - Finds a global minimum cut of an undirected graph without choosing
//     terminals; the subtour separation of the TSP master relies on it.
//
// # Capacities
//
// A Network is a square [][]float64 where n[u][v] is the capacity of the arc
// u→v. Capacities at or below Options.Epsilon are treated as absent, and
// values in (-Epsilon, 0) are rounded to zero, since LP values carry noise of
// that order. Anything more negative is rejected with an EdgeError.
// StoerWagner additionally requires n to be symmetric within Epsilon.
//
// # Results
//
// Every routine returns a Cut: its Value, and Side, the sorted vertex set of
// one shore. For the max-flow routines Side is the source shore, i.e. the
// vertices reachable from the source in the final residual network, and
// Value equals the maximum flow.
//
// # Errors
//
//	ErrNotSquare       - if the matrix is not square.
//	ErrTooSmall        - if fewer than two vertices are given.
//	ErrSourceNotFound  - if the source index is out of range.
//	ErrSinkNotFound    - if the sink index is out of range.
//	ErrSameTerminal    - if source == sink.
//	ErrAsymmetric      - if StoerWagner receives a non-symmetric matrix.
//	EdgeError          - if a negative capacity (beyond Epsilon) is encountered.
//	context.Canceled / context.DeadlineExceeded - if ctx is done.
package flow
