// Package bap - branch-and-price tree search over column generation.
//
// An Engine owns the open-node queue, the incumbent and the single active
// root-to-node path. For every popped node it:
//
//  1. prunes the node if its inherited bound cannot beat the incumbent,
//  2. moves the active path to the node (reverting decisions that are no
//     longer on the path, executing the missing ones in root-to-node order),
//  3. rebuilds the master from the node's inherited columns and cuts plus the
//     artificial (volatile) columns supplied by the plugin,
//  4. runs column generation with cut separation (package colgen),
//  5. prunes, marks infeasible, accepts an integral solution, or asks the
//     first applicable BranchCreator for children.
//
// Children inherit the parent's master columns and cuts filtered through
// their Decision's compatibility predicates; volatile columns are never
// inherited.
//
// Node ordering is a pluggable Comparator. DepthFirst prefers the most
// recently created node, BreadthFirst the oldest one and BestBound the best
// bound for the optimisation sense, ties going to the most recent node.
//
// Invariant: the decisions executed on the pricing problems are exactly the
// decisions on the path from the root to the node being processed. The
// engine is therefore single-threaded; parallelism is limited to the pricing
// problems of one column generation round (colgen.WithParallelPricing).
//
// Deadlines: the context passed to Run bounds the whole search. When it
// expires the node in progress is returned to the queue and Run returns the
// incumbent with IsOptimal() == false. Only colgen.ErrTimeLimit and
// colgen.ErrNodeInfeasible are recovered; every other failure aborts the run
// with a *NodeError naming the node, its decision path and the last solver
// status.
//
// Observability: the engine publishes immutable event structs (package
// event) for node, branch, column, cut, incumbent and time-limit changes.
// Listeners run synchronously and cannot influence the search.
package bap
