// Package tsp models symmetric Travelling Salesman instances.
//
// It provides:
//
//   - Instance: an immutable symmetric distance matrix (gonum *mat.SymDense)
//     with optional node coordinates and TSPLIB metadata.
//
//   - Read / ReadFile: a TSPLIB parser for symmetric TSP files with
//     EUC_2D, CEIL_2D, GEO, ATT or EXPLICIT edge weights, and for tour files.
//
//   - Tour utilities: validation, rotation, canonical orientation, cost.
//
//   - TwoOpt / Improve: deterministic first-improvement 2-opt, optionally
//     restarted from seeded random permutations.
//
// Tours are closed: for n vertices len(tour) == n+1 and tour[0] == tour[n].
// Distances are stabilised to 1e-9 when summed.
//
// The package carries no search of its own; the exact solver lives in
// package tspbap, which uses Improve for its warm start.
package tsp
