// Package eval walks formula ASTs and produces unit-tagged cell values,
// enforcing dimensional analysis at every operator and function boundary.
//
// What
//
//   - Value is the closed tagged variant every cell holds:
//     Empty | Number(value, unit) | Text | Error(kind, message).
//     Consumers switch on Kind and handle all four variants.
//   - ErrorKind is the full failure taxonomy (unknown unit, incompatible
//     units, no conversion path, fractional exponent of a unit, invalid
//     unit for function, division by zero, circular reference, #REF!,
//     #NAME?, parse error, depth exceeded, bad operand) with spreadsheet
//     display codes.
//   - Evaluator resolves references through the external Store contract and
//     named ranges through NameResolver, then walks the AST once,
//     synchronously, guarded by a configurable depth limit.
//
// Dimensional rules
//
//   - "+" and "-" demand equal dimensions; compatible-but-different units
//     convert the right operand into the left operand's unit and the result
//     keeps the left unit (left-operand-wins). A literal dimensionless zero
//     (the value an empty cell contributes) is compatible with any unit.
//   - "*" and "/" never demand compatibility; the result unit is the
//     simplified product/quotient, so mi/hr · hr cancels to mi.
//   - "^" on a unit-bearing base requires an integer, dimensionless
//     exponent and raises the unit term-wise; fractional exponents of
//     units fail with the fractional-exponent error.
//   - Equality and ordering comparisons demand compatible dimensions and
//     convert before comparing; they return dimensionless 1 or 0.
//   - Every function declares its own unit policy — see builtin.go:
//     aggregates (SUM, AVERAGE, MIN, MAX) require mutually compatible
//     arguments, skip empty cells, and keep the first argument's unit;
//     COUNT/COUNTA discard units; SQRT demands evenly divisible exponents;
//     CONVERT performs an explicit conversion-graph lookup.
//
// Error propagation
//
//	Errors travel as values: arithmetic on an error yields that error, and
//	when two differing errors meet, the first encountered (left to right)
//	wins. Nothing in this package panics across its boundary.
//
// Reference semantics
//
//	A reference to an empty cell contributes a dimensionless zero in
//	arithmetic and is skipped by aggregate functions — the conventional
//	blank-cell policy, fixed here deliberately and covered by tests.
//
// Usage
//
//	ev := eval.New(reg, graph, store, names)
//	v := ev.Evaluate(ast)
package eval
