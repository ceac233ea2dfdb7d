package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrParse is the sentinel wrapped by every *ParseError.
var ErrParse = errors.New("formula: parse error")

// ParseError reports a lexing or parsing failure with its rune position.
// It never escapes as a panic; Parse returns it as an ordinary error value.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula: parse error at position %d: %s", e.Pos, e.Msg)
}

// Unwrap lets callers match with errors.Is(err, ErrParse).
func (e *ParseError) Unwrap() error { return ErrParse }

func errAt(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokCell
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
)

// token is one lexeme. Number tokens additionally carry the parsed value
// and any attached unit text.
type token struct {
	kind     tokenKind
	pos      int
	text     string
	num      float64
	unitText string
}

// lexer is a single-pass rune cursor over formula text.
type lexer struct {
	src []rune
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src)}
}

// next returns the following token, or a *ParseError on malformed input.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	r := l.src[l.pos]

	switch {
	case unicode.IsDigit(r) || r == '.':
		return l.scanNumber()
	case r == '"':
		return l.scanString()
	case unicode.IsLetter(r) || r == '_':
		return l.scanWord()
	}

	l.pos++
	switch r {
	case '+':
		return token{kind: tokPlus, pos: start, text: "+"}, nil
	case '-':
		return token{kind: tokMinus, pos: start, text: "-"}, nil
	case '*':
		return token{kind: tokStar, pos: start, text: "*"}, nil
	case '/':
		return token{kind: tokSlash, pos: start, text: "/"}, nil
	case '^':
		return token{kind: tokCaret, pos: start, text: "^"}, nil
	case '(':
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	case ',':
		return token{kind: tokComma, pos: start, text: ","}, nil
	case ':':
		return token{kind: tokColon, pos: start, text: ":"}, nil
	case '=':
		return token{kind: tokEq, pos: start, text: "="}, nil
	case '<':
		if l.peekIs('=') {
			l.pos++
			return token{kind: tokLe, pos: start, text: "<="}, nil
		}
		if l.peekIs('>') {
			l.pos++
			return token{kind: tokNe, pos: start, text: "<>"}, nil
		}
		return token{kind: tokLt, pos: start, text: "<"}, nil
	case '>':
		if l.peekIs('=') {
			l.pos++
			return token{kind: tokGe, pos: start, text: ">="}, nil
		}
		return token{kind: tokGt, pos: start, text: ">"}, nil
	}
	return token{}, errAt(start, "unexpected character %q", string(r))
}

// scanNumber scans a float literal and, if unit text follows within plain
// whitespace, attaches it to the token. Unit text is written without
// internal spaces, so "100 ft / 2" keeps "/" as division while "100 ft/s"
// reads as one ft/s literal.
func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	// scientific exponent
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			// "2e" was the start of unit text, not an exponent
			l.pos = save
		}
	}

	text := string(l.src[start:l.pos])
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, errAt(start, "bad number %q", text)
	}

	unitText := l.scanUnitSuffix()
	return token{kind: tokNumber, pos: start, text: text, num: num, unitText: unitText}, nil
}

// scanUnitSuffix consumes a unit expression immediately after a number
// (at most whitespace in between, none inside). Returns "" when no unit
// text follows.
func (l *lexer) scanUnitSuffix() string {
	save := l.pos
	l.skipSpace()
	if l.pos >= len(l.src) || !isUnitStart(l.src[l.pos]) {
		l.pos = save
		return ""
	}
	start := l.pos
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case isUnitStart(r):
			l.pos++
		case r == '^':
			// exponent: ^ [-] digits
			j := l.pos + 1
			if j < len(l.src) && l.src[j] == '-' {
				j++
			}
			if j >= len(l.src) || !unicode.IsDigit(l.src[j]) {
				return string(l.src[start:l.pos])
			}
			for j < len(l.src) && unicode.IsDigit(l.src[j]) {
				j++
			}
			l.pos = j
		case r == '*' || r == '/' || r == '·':
			// product/quotient continues only into another symbol
			if l.pos+1 < len(l.src) && isUnitStart(l.src[l.pos+1]) {
				l.pos += 2
			} else {
				return string(l.src[start:l.pos])
			}
		default:
			return string(l.src[start:l.pos])
		}
	}
	return string(l.src[start:l.pos])
}

// scanString scans a double-quoted literal with "" as the quote escape.
func (l *lexer) scanString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if r == '"' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
				b.WriteRune('"')
				l.pos += 2
				continue
			}
			l.pos++
			return token{kind: tokString, pos: start, text: b.String()}, nil
		}
		b.WriteRune(r)
		l.pos++
	}
	return token{}, errAt(start, "unterminated string literal")
}

// scanWord scans an identifier and classifies it: pure letters followed by
// pure digits is a cell reference ("A1"), anything else an identifier.
func (l *lexer) scanWord() (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.pos++
			continue
		}
		break
	}
	word := string(l.src[start:l.pos])
	if isCellWord(word) {
		return token{kind: tokCell, pos: start, text: strings.ToUpper(word)}, nil
	}
	return token{kind: tokIdent, pos: start, text: word}, nil
}

// isCellWord reports the letters-then-digits cell shape.
func isCellWord(w string) bool {
	i := 0
	for i < len(w) && w[i] >= 'A' && w[i] <= 'Z' || i < len(w) && w[i] >= 'a' && w[i] <= 'z' {
		i++
	}
	if i == 0 || i == len(w) {
		return false
	}
	for ; i < len(w); i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}
	return true
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) peekIs(r rune) bool {
	return l.pos < len(l.src) && l.src[l.pos] == r
}

// isUnitStart reports runes that may begin a unit symbol.
func isUnitStart(r rune) bool {
	return unicode.IsLetter(r) || r == '$' || r == '%'
}
