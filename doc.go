// Package unitgrid is a calculation engine for spreadsheets in which every
// numeric value carries a physical or economic unit as part of its type —
// not as display formatting.
//
// 🚀 What is unitgrid?
//
//	An in-memory engine that brings together:
//		• Dimension vectors: integer exponents over length, mass, time,
//		  temperature, currency, digital storage and custom axes
//		• Unit algebra: compound units (mi/hr, kg·m/s^2, USD/month) with
//		  multiply, divide, power and cancellation
//		• Conversion graph: BFS pathfinding between convertible units,
//		  affine (temperature-like) scales included
//		• Formula parser: =A1*B2 style formulas with unit-suffixed literals
//		• Evaluator: dimensional analysis at every operator and function
//		• Dependency graph: cycle-safe, minimal-recompute recalculation
//
// ✨ Why choose unitgrid?
//
//   - Units are types – adding feet to seconds is an error, not a number
//   - Rock-solid guarantees – typed error values, deterministic ordering
//   - Pure Go core – yaml-backed unit catalog, testify-backed test-suite
//   - Extensible – register your own units, conversions and dimensions
//
// Under the hood, everything is organized in topic subpackages:
//
//	dimension/ — base-dimension exponent vectors (pure value type)
//	unit/      — unit registry + compound-unit algebra and parsing
//	convert/   — per-dimension conversion graph with BFS path search
//	formula/   — lexer, AST and recursive-descent formula parser
//	eval/      — cell values, error taxonomy, unit-aware evaluator
//	depgraph/  — dependency edges, cycle detection, topological recalc order
//	sheet/     — cells, in-memory store, edit pipeline and display transform
//
// Quick example:
//
//	A1 = 100 mi
//	A2 = 2 hr
//	A3 = =A1/A2   →  50 mi/hr
//
// Dive into each package's doc.go for contracts, complexity and errors.
//
//	go get github.com/katalvlaran/unitgrid
package unitgrid
