package unit

import (
	"strconv"
	"strings"
)

// Term is one factor of a compound unit: a simple-unit symbol raised to a
// signed integer exponent. A negative exponent places the symbol in the
// denominator. Exponent zero never survives Simplify.
type Term struct {
	Symbol string
	Exp    int
}

// Unit is a compound unit: an ordered product of Terms. The zero value is
// the dimensionless unit. Order is preserved by first appearance of each
// symbol, which keeps String output deterministic.
type Unit struct {
	Terms []Term
}

// Dimensionless is the empty compound unit.
var Dimensionless = Unit{}

// Simple returns the unit consisting of the single symbol s with exponent 1.
func Simple(s string) Unit {
	return Unit{Terms: []Term{{Symbol: s, Exp: 1}}}
}

// Mul returns u·v, simplified.
func (u Unit) Mul(v Unit) Unit {
	merged := make([]Term, 0, len(u.Terms)+len(v.Terms))
	merged = append(merged, u.Terms...)
	merged = append(merged, v.Terms...)
	return Unit{Terms: merged}.Simplify()
}

// Div returns u/v, simplified. Div(u, v) ≡ Mul(u, v.Pow(-1)).
func (u Unit) Div(v Unit) Unit {
	return u.Mul(v.Pow(-1))
}

// Pow returns u with every exponent multiplied by n.
// Pow(0) is the dimensionless unit regardless of u.
func (u Unit) Pow(n int) Unit {
	if n == 0 {
		return Dimensionless
	}
	terms := make([]Term, len(u.Terms))
	for i, t := range u.Terms {
		terms[i] = Term{Symbol: t.Symbol, Exp: t.Exp * n}
	}
	return Unit{Terms: terms}.Simplify()
}

// Simplify merges terms with equal symbols by summing exponents and drops
// terms whose exponent sums to zero. First-appearance order of the
// surviving symbols is preserved.
func (u Unit) Simplify() Unit {
	if len(u.Terms) == 0 {
		return Dimensionless
	}
	exps := make(map[string]int, len(u.Terms))
	order := make([]string, 0, len(u.Terms))
	for _, t := range u.Terms {
		if _, seen := exps[t.Symbol]; !seen {
			order = append(order, t.Symbol)
		}
		exps[t.Symbol] += t.Exp
	}
	out := make([]Term, 0, len(order))
	for _, s := range order {
		if e := exps[s]; e != 0 {
			out = append(out, Term{Symbol: s, Exp: e})
		}
	}
	if len(out) == 0 {
		return Dimensionless
	}
	return Unit{Terms: out}
}

// IsDimensionless reports whether u simplifies to the empty unit.
func (u Unit) IsDimensionless() bool {
	return len(u.Simplify().Terms) == 0
}

// Equal reports structural equality after Simplify: same symbols with the
// same exponents, order-insensitive.
func (u Unit) Equal(v Unit) bool {
	a, b := u.Simplify(), v.Simplify()
	if len(a.Terms) != len(b.Terms) {
		return false
	}
	exps := make(map[string]int, len(a.Terms))
	for _, t := range a.Terms {
		exps[t.Symbol] = t.Exp
	}
	for _, t := range b.Terms {
		if exps[t.Symbol] != t.Exp {
			return false
		}
	}
	return true
}

// String renders the canonical form: numerator terms joined by "·", then
// "/" and denominator terms with positive exponents, e.g. "kg·m/s^2",
// "mi/hr", "1/s". The dimensionless unit renders as "".
func (u Unit) String() string {
	s := u.Simplify()
	if len(s.Terms) == 0 {
		return ""
	}
	var num, den []string
	for _, t := range s.Terms {
		switch {
		case t.Exp > 0:
			num = append(num, formatTerm(t.Symbol, t.Exp))
		default:
			den = append(den, formatTerm(t.Symbol, -t.Exp))
		}
	}
	var b strings.Builder
	if len(num) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(num, "·"))
	}
	if len(den) > 0 {
		b.WriteString("/")
		b.WriteString(strings.Join(den, "·"))
	}
	return b.String()
}

// formatTerm renders symbol or symbol^exp for exp > 1.
func formatTerm(symbol string, exp int) string {
	if exp == 1 {
		return symbol
	}
	return symbol + "^" + strconv.Itoa(exp)
}
