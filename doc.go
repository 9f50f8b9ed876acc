// Package colgen - column generation with cut separation.
//
// The package drives a restricted master linear program to optimality by
// alternating master solves and pricing rounds:
//
//	loop:
//	    solve master                         → status, objective, duals
//	    give each pricing solver its duals
//	    solve every pricing problem          → improving columns
//	    columns found?  add them, loop
//	    separate cuts on the master solution → violated inequalities
//	    cuts found?     add them, loop
//	    done: the master objective is the relaxation bound
//
// Problem specifics are injected through small capability interfaces:
// Master, PricingSolver and Separator. Columns carry a problem-specific
// payload of type T and are identified by that payload plus their Kind
// (Real or Volatile). Volatile columns are artificial placeholders that keep
// a master feasible; they are never inherited by other nodes.
//
// Contracts:
//   - Every blocking call receives the caller's context; a master or pricing
//     solver whose deadline passed reports TimeLimit or returns an error
//     matching ErrTimeLimit.
//   - A separator must never return an inequality that is already active.
//     A repeat is reported as ErrProtocolViolation, never ignored.
//   - A pricing solver must never return a column that is already in the
//     master. A repeat is reported as ErrProtocolViolation.
//
// Error taxonomy (inspect with errors.Is / errors.As):
//
//	ErrTimeLimit          deadline reached; the caller may stop gracefully
//	ErrNodeInfeasible     master or pricing reported infeasibility
//	ErrProtocolViolation  plugin bug; abort
//	*SolverFailure        any other non-optimal solver outcome; abort
//
// Concurrency: a ColGen runs on the caller's goroutine. With
// WithParallelPricing the pricing solvers of one round run concurrently on an
// errgroup; they must not share mutable state with each other. Master solves
// and column insertion stay sequential.
//
// The module is organized as:
//
//	colgen       - data model, capability interfaces, column generation loop
//	bap/         - branch-and-price tree search over colgen nodes
//	event/       - lifecycle events and the listener bus
//	observe/     - logrus and prometheus listeners
//	lp/          - dense simplex with duals, used as the demo master solver
//	flow/        - min cut routines used for subtour separation
//	tsp/         - TSPLIB reader, tour utilities and 2-opt
//	tspbap/      - TSP plugin: two matching pricing problems, edge branching
//	cmd/tspbap/  - command line solver
package colgen
