// Package depgraph maintains the directed cell-dependency graph and plans
// cycle-safe, minimal-recompute recalculation orders.
//
// What
//
//   - Graph records, per formula cell, the cells, ranges and named ranges
//     its formula references (dependent → depended-on edges), keyed by
//     stable "A1" address strings — adjacency lists, not object pointers,
//     so cycle handling stays a pure graph algorithm.
//   - SetFormula rebuilds a cell's outgoing edges from its extracted
//     references: one edge per distinct cell, one range-level edge per
//     range (a cell referenced both directly and through a range is still
//     scheduled exactly once).
//   - Plan(edited) computes the transitive dependent closure of an edited
//     cell and a topological evaluation order over exactly that closure —
//     cells with no path from the edit are never re-evaluated. Cells on a
//     dependency cycle are returned separately so the caller can mark them
//     circular instead of looping; cells downstream of a cycle stay in the
//     order and inherit the circular error by ordinary value propagation.
//
// Determinism
//
//	Dependent lists keep insertion order and Kahn's algorithm breaks ties
//	by discovery order, so the evaluation order for a given graph and edit
//	is reproducible run to run.
//
// Complexity (A = affected cells, E = edges among them, R = range edges)
//
//   - SetFormula: O(outgoing edges)
//   - Plan: O(A + E + R) — range membership is checked per observer.
//
// Usage
//
//	g := depgraph.New()
//	g.SetFormula(b1, formula.References(ast), names)
//	order, cycle := g.Plan(a1)
//	// evaluate `order` front to back; mark `cycle` circular
package depgraph
