package unit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrParse indicates malformed unit text.
var ErrParse = errors.New("unit: cannot parse unit text")

// Parse turns unit text into a simplified compound Unit.
//
// Accepted grammar (whitespace ignored):
//
//	unit    := product ( "/" product )*
//	product := term ( ("*" | "·") term )*
//	term    := "1" | symbol ( "^" [-]? digits )?
//	symbol  := letters, "$" or "%" characters
//
// Every product after a "/" contributes with negated exponents, so
// "kg*m/s^2", "mi/hr" and "1/s" all parse. Parse performs no registry
// lookup: unknown symbols surface later, from Registry.DimensionOf.
func Parse(text string) (Unit, error) {
	p := &unitScanner{src: []rune(strings.TrimSpace(text))}
	if len(p.src) == 0 {
		return Dimensionless, nil
	}
	u, err := p.parse()
	if err != nil {
		return Dimensionless, err
	}
	return u.Simplify(), nil
}

// MustParse is Parse that panics on error; intended for tests and
// package-level catalog literals.
func MustParse(text string) Unit {
	u, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return u
}

// unitScanner is a single-pass cursor over unit text.
type unitScanner struct {
	src []rune
	pos int
}

func (p *unitScanner) parse() (Unit, error) {
	sign := 1 // flips to -1 after each "/"
	var terms []Term
	for {
		ts, err := p.product(sign)
		if err != nil {
			return Dimensionless, err
		}
		terms = append(terms, ts...)
		p.skipSpace()
		if !p.eat('/') {
			break
		}
		sign = -1
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Dimensionless, fmt.Errorf("%w: unexpected %q at position %d", ErrParse, string(p.src[p.pos]), p.pos)
	}
	return Unit{Terms: terms}, nil
}

func (p *unitScanner) product(sign int) ([]Term, error) {
	var terms []Term
	for {
		t, ok, err := p.term(sign)
		if err != nil {
			return nil, err
		}
		if ok {
			terms = append(terms, t)
		}
		p.skipSpace()
		if !p.eat('*') && !p.eat('·') {
			break
		}
	}
	if len(terms) == 0 {
		// bare "1" products (as in "1/s") contribute nothing
		return nil, nil
	}
	return terms, nil
}

// term scans one symbol with an optional ^exponent. The second return value
// is false for the literal "1" numerator placeholder.
func (p *unitScanner) term(sign int) (Term, bool, error) {
	p.skipSpace()
	if p.eat('1') {
		return Term{}, false, nil
	}
	start := p.pos
	for p.pos < len(p.src) && isSymbolRune(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Term{}, false, fmt.Errorf("%w: expected unit symbol at position %d", ErrParse, start)
	}
	t := Term{Symbol: string(p.src[start:p.pos]), Exp: 1}
	p.skipSpace()
	if p.eat('^') {
		p.skipSpace()
		expStart := p.pos
		p.eat('-')
		for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
			p.pos++
		}
		exp, err := strconv.Atoi(string(p.src[expStart:p.pos]))
		if err != nil {
			return Term{}, false, fmt.Errorf("%w: bad exponent at position %d", ErrParse, expStart)
		}
		if exp == 0 {
			return Term{}, false, fmt.Errorf("%w: zero exponent at position %d", ErrParse, expStart)
		}
		t.Exp = exp
	}
	t.Exp *= sign
	return t, true, nil
}

func (p *unitScanner) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *unitScanner) eat(r rune) bool {
	if p.pos < len(p.src) && p.src[p.pos] == r {
		p.pos++
		return true
	}
	return false
}

// isSymbolRune reports whether r may appear in a unit symbol.
func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || r == '$' || r == '%'
}
