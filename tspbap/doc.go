// Package tspbap solves symmetric TSP instances with an even number of
// cities by branch-and-price.
//
// A tour of an even cycle splits into two perfect matchings, red and blue,
// taken alternately. The master problem selects one matching per colour:
//
//	min  Σ c(m)·z(m)
//	s.t. Σ_{m red} z(m)  = 1,  Σ_{m blue} z(m) = 1
//	     Σ_{m ∋ e} z(m)  ≤ 1                       for every edge e
//	     Σ_m |δ(S) ∩ m|·z(m) ≥ 2                    for every subtour cut S
//	     z ≥ 0
//
// Each colour has its own pricing problem, a maximum weight perfect
// matching over dual-adjusted edge weights solved exactly by a bitmask
// dynamic program. Subtour cuts are separated on the aggregated edge
// values with package flow. Branching fixes or removes one edge of one
// colour.
//
// Solve wires everything into a bap.Engine; the individual parts are
// exported for callers that want to drive the engine themselves.
package tspbap
