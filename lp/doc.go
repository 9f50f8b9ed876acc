// Package lp - dense two-phase primal simplex with dual values.
//
// The package solves small and medium linear programs of the form
//
//	min / max  cᵀx
//	s.t.       aᵢᵀx  (≤ | ≥ | =)  bᵢ     for every row i
//	           x ≥ 0
//
// and reports, next to the primal solution, one dual price per row. Duals
// follow the usual solver convention: the reduced cost of column j is
// cⱼ − yᵀAⱼ, so at a minimisation optimum every reduced cost is ≥ 0, rows of
// type ≤ carry y ≤ 0 and rows of type ≥ carry y ≥ 0.
//
// Model construction is incremental: rows and columns can be appended at any
// time (a row appended after columns exist receives their coefficients via
// AddRow's coefficient map). Every Solve starts from scratch.
//
// Algorithm:
//   - Rows are normalised to a non-negative right-hand side. A slack with a
//     +1 coefficient starts basic; every other row receives an artificial.
//   - Phase I minimises the sum of artificials. A positive optimum means the
//     model is infeasible. Basic artificials left at zero are pivoted out when
//     a non-artificial pivot exists; afterwards artificials never re-enter.
//   - Phase II optimises the real objective from the Phase I basis.
//   - Pricing is Dantzig's most-negative rule, switching to Bland's rule after
//     a streak of degenerate pivots so cycling cannot occur.
//
// Storage is a gonum mat.Dense tableau; row operations use gonum floats.
//
// Complexity:
//   - One pivot is O(m·(n+m)); the number of pivots is exponential in the
//     worst case and small in practice.
//   - Memory: O(m·(n+m)) for the tableau.
//
// Cancellation: Solve checks its context every few pivots and reports
// TimeLimit instead of an error once the context is done.
package lp
