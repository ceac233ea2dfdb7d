// Package unit provides the unit registry and the compound-unit algebra used
// by every other unitgrid component.
//
// What
//
//   - Registry maps unit symbols to their definition: a dimension.Vector, a
//     multiplicative factor to the dimension's canonical unit, and an optional
//     affine offset for non-ratio scales such as temperature.
//   - The built-in catalog (meters, feet, hours, kilograms, kelvin, USD,
//     bytes, ...) ships as an embedded YAML document and is loaded once by
//     NewRegistry; user-defined units and conversions are appended afterwards
//     under a write barrier (RWMutex), so read-mostly evaluation can share a
//     Registry safely.
//   - Unit is a compound unit: an ordered sequence of Terms (symbol, signed
//     integer exponent), conceptually "numerator and denominator merged by
//     signed exponent". Mul, Div, Pow and Simplify implement the exponent
//     bookkeeping; Parse turns text like "kg*m/s^2" or "mi/hr" into a Unit;
//     String renders the canonical "kg·m/s^2" form.
//
// Why
//
//	Compound-unit algebra is pure symbol/exponent arithmetic: mi/hr · hr
//	must cancel to mi, and (ft)² must mean ft with exponent 2 — the term
//	exponent and an explicit ^2 in formula text compose multiplicatively.
//	Keeping the algebra independent of conversion factors lets the
//	convert package treat factor pathfinding as a separate concern.
//
// Invariants
//
//   - After Simplify, a Unit holds at most one Term per distinct symbol and
//     no Term has exponent zero; a Unit with no terms is dimensionless.
//   - Registry.DimensionOf(u) = Σ over terms: exponent × dimension(symbol),
//     failing with ErrUnknownUnit on any unregistered symbol.
//   - The first unit registered for a dimension becomes its canonical unit
//     (factor forced to 1); later units give their factor to that canonical.
//
// Errors
//
//   - ErrUnknownUnit      – symbol not present in the registry.
//   - ErrDuplicateUnit    – symbol registered twice.
//   - ErrBadFactor        – non-positive conversion factor.
//   - ErrParse            – malformed unit text.
//
// Usage
//
//	reg, _ := unit.NewRegistry()
//	u, _ := unit.Parse("kg*m/s^2")
//	dim, _ := reg.DimensionOf(u)          // M^1·L^1·T^-2
//	u.Pow(2).String()                      // "kg^2·m^2/s^4"
package unit
