// Package convert finds and composes unit-conversion transforms over the
// edges registered in a unit.Registry.
//
// What
//
//   - Graph indexes all registered conversion edges into per-symbol
//     adjacency lists (each edge usable in both directions: factor inverted,
//     offset algebra inverted).
//   - Simple(from, to) runs a breadth-first search between two simple-unit
//     symbols of identical dimension and composes the affine transforms
//     along the minimal-hop path. Ties are broken by edge registration
//     order, so results are fully deterministic.
//   - Between(src, dst) converts compound units term-by-term: each source
//     term is matched to the target term of equal dimension and exponent,
//     its simple-unit factor f is looked up, and f^exponent multiplies the
//     overall scalar — the exponent applies to the conversion factor, never
//     to the raw value independent of scale (so 100 ft² → 9.290304 m²).
//   - The result is a Transform{Factor, Offset}; apply it to a value v as
//     v' = v·Factor + Offset.
//
// Affine scales
//
//	Offset-bearing edges (temperature-like) must not be chained the way
//	ratio edges are. A composed path admits an offset edge only as its
//	first or last hop — the catalog wires every affine unit straight to its
//	dimension's canonical unit, so °F→°C resolves as °F→K (affine in),
//	K→°C (affine out). An offset edge at an interior hop is reported as
//	ErrAffineChain; an offset unit inside a multi-term or powered compound
//	is meaningless and reported as ErrAffineCompound.
//
// Determinism
//
//	Adjacency lists hold edges in registration order and BFS scans them in
//	that order, so the minimal-hop path — and therefore the composed
//	factor — is reproducible run to run.
//
// Complexity (V = symbols of one dimension, E = registered edges)
//
//   - Build:  O(E)
//   - Simple: O(V + E) per lookup
//   - Between: O(T·(V + E)) for T compound terms
//
// Errors
//
//   - ErrIncompatibleUnits – endpoints differ in dimension, or compound
//     term structures do not match up.
//   - ErrNoConversionPath  – same dimension but no registered edge path
//     (a data-completeness condition, distinct from incompatibility).
//   - ErrAffineChain       – offset edge at an interior path position.
//   - ErrAffineCompound    – offset unit inside a compound/powered unit.
//   - unit.ErrUnknownUnit  – unregistered symbol (wrapped).
//
// Usage
//
//	reg, _ := unit.NewRegistry()
//	g := convert.NewGraph(reg)
//	tr, _ := g.Between(unit.MustParse("ft^2"), unit.MustParse("m^2"))
//	tr.Apply(100) // 9.290304…
package convert
