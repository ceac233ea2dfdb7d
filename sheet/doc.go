// Package sheet ties the engine together: an in-memory cell store, a
// dependency graph, and a synchronous edit pipeline with cycle-safe,
// minimal recalculation.
//
// What
//
//   - Cell is a read-only snapshot of one cell: the raw text as entered,
//     the computed value in its storage unit, the optional display unit,
//     and a non-fatal warning.
//   - Sheet is the in-memory store. It implements eval.Store and
//     eval.NameResolver, so the evaluator resolves references and named
//     ranges straight from it.
//   - Engine owns one Sheet plus its dependency graph and evaluator and
//     exposes the edit surface: Set, Value, Cell, DefineName,
//     SetDisplayUnit, DisplayValue.
//
// Edit pipeline
//
//	Set(ref, raw) classifies the input — empty, "="-formula, numeric
//	literal (optionally unit-suffixed, "100 ft"), or plain text — then:
//
//	 1. parse; a malformed formula stores Error(#PARSE!) and contributes
//	    no dependency edges,
//	 2. rebuild the cell's outgoing edges in the dependency graph,
//	 3. plan the recalculation: the transitive dependents of the edit in
//	    topological order, with cycle members split out,
//	 4. mark every cycle member Error(#CIRC!), then evaluate the ordered
//	    cells exactly once each, front to back.
//
//	The whole pipeline is synchronous and single-writer: Set returns only
//	after every affected cell holds its new value. Upstream errors
//	propagate to dependents as values, never as panics.
//
// Storage unit vs display unit
//
//	The unit a value is computed in (its storage unit) is fixed by the
//	edit that produced it; every referencing formula observes it.
//	SetDisplayUnit attaches a presentation-only unit; DisplayValue
//	converts at read time through the conversion graph and never mutates
//	storage. When a re-evaluation changes a cell's dimension out from
//	under its display unit, the display unit is dropped and the cell
//	carries a warning instead of an error.
//
// Usage
//
//	reg, _ := unit.NewRegistry()
//	cg, _ := convert.NewGraph(reg)
//	eng, _ := sheet.NewEngine(reg, cg)
//	eng.Set("A1", "100 mi")
//	eng.Set("A2", "2 hr")
//	v, _ := eng.Set("A3", "=A1/A2") // 50 mi/hr
package sheet
