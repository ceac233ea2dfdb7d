// Package formula turns spreadsheet formula text into an abstract syntax
// tree. It is pure syntax: no evaluation, no registry lookups — the only
// unit knowledge is recognizing a trailing unit token on numeric literals.
//
// What
//
//   - Lexing and recursive-descent parsing of formulas such as
//     "=A1*B2 + 100 ft" or "=CONVERT(SUM(A1:A5), \"km\")".
//   - AST node kinds: Number (with optional unit text), Text, CellRef,
//     RangeRef, NameRef, Unary, Binary, Call.
//   - Operator precedence, conventional arithmetic:
//     unary minus > ^ > *,/ > +,- > comparisons.
//     So -2^2 parses as (-2)^2, the spreadsheet convention.
//   - References(ast) extracts every cell, range and name reference for
//     dependency-graph maintenance.
//   - Address parsing/formatting for "A1"-style cell coordinates and
//     "A1:B5" ranges.
//
// Unit-suffixed literals
//
//	A numeric literal may be followed — with no more than whitespace in
//	between — by unit text written without internal spaces: "100 ft",
//	"9.8 m/s^2", "3 kg·m". The lexer attaches that text to the number
//	token; resolution against the unit registry happens later, in eval.
//	"100 ft / 2" therefore reads as (100 ft) divided by 2, while
//	"100 ft/s" reads as one literal in ft/s.
//
// Errors
//
//	Parse failures never panic past the package boundary: Parse returns a
//	*ParseError carrying the rune position and a human-readable message,
//	matchable with errors.Is(err, ErrParse).
//
// Usage
//
//	ast, err := formula.Parse("=A1/A2")
//	refs := formula.References(ast) // [{Cell A1} {Cell A2}]
package formula
