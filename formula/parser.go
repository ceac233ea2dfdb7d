package formula

import "strings"

// Parse turns formula text into an AST. A leading "=" is accepted and
// skipped, so both "=A1+1" and "A1+1" parse identically. On failure the
// returned error is a *ParseError wrapping ErrParse; Parse never panics.
func Parse(src string) (Node, error) {
	text := src
	if t := strings.TrimLeftFunc(text, func(r rune) bool { return r == ' ' || r == '\t' }); strings.HasPrefix(t, "=") {
		// keep positions aligned with the original text: blank the "="
		idx := strings.Index(text, "=")
		text = text[:idx] + " " + text[idx+1:]
	}

	p := &parser{lex: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, errAt(p.cur.pos, "unexpected %q after expression", p.cur.text)
	}
	return node, nil
}

// MaxNestingDepth bounds syntactic nesting (parentheses, call arguments,
// chained unary signs). Deeper formulas fail with a *ParseError instead of
// exhausting the call stack.
const MaxNestingDepth = 512

// parser is a one-token-lookahead recursive-descent parser.
type parser struct {
	lex   *lexer
	cur   token
	depth int
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// eat consumes the current token when it matches kind.
func (p *parser) eat(kind tokenKind) (token, bool, error) {
	if p.cur.kind != kind {
		return token{}, false, nil
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return token{}, false, err
	}
	return t, true, nil
}

// parseCompare handles =, <>, <, <=, >, >= (lowest precedence,
// non-associative in practice but parsed left-associatively).
func (p *parser) parseCompare() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.cur.kind {
		case tokEq:
			op = OpEq
		case tokNe:
			op = OpNe
		case tokLt:
			op = OpLt
		case tokLe:
			op = OpLe
		case tokGt:
			op = OpGt
		case tokGe:
			op = OpGe
		default:
			return left, nil
		}
		at := p.cur.pos
		if err = p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right, At: at}
	}
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := OpAdd
		if p.cur.kind == tokMinus {
			op = OpSub
		}
		at := p.cur.pos
		if err = p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right, At: at}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		op := OpMul
		if p.cur.kind == tokSlash {
			op = OpDiv
		}
		at := p.cur.pos
		if err = p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right, At: at}
	}
	return left, nil
}

// parsePower is right-associative; its base is parseUnary, so unary minus
// binds tighter than ^ and -2^2 means (-2)^2.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret {
		return base, nil
	}
	at := p.cur.pos
	if err = p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, L: base, R: exp, At: at}, nil
}

// parseUnary sits on every recursion path through the grammar, so it
// carries the nesting guard.
func (p *parser) parseUnary() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxNestingDepth {
		return nil, errAt(p.cur.pos, "formula nested deeper than %d levels", MaxNestingDepth)
	}

	switch p.cur.kind {
	case tokMinus:
		at := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNeg, X: x, At: at}, nil
	case tokPlus:
		// unary plus is a no-op
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, references, calls and parentheses.
func (p *parser) parsePrimary() (Node, error) {
	t := p.cur
	switch t.kind {
	case tokNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Number{Value: t.num, UnitText: t.unitText, At: t.pos}, nil

	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Text{Value: t.text, At: t.pos}, nil

	case tokCell:
		if err := p.advance(); err != nil {
			return nil, err
		}
		start, err := ParseAddress(t.text)
		if err != nil {
			return nil, errAt(t.pos, "bad cell reference %q", t.text)
		}
		if _, ok, err2 := p.eat(tokColon); err2 != nil {
			return nil, err2
		} else if ok {
			endTok := p.cur
			if endTok.kind != tokCell {
				return nil, errAt(endTok.pos, "expected cell after %q:", t.text)
			}
			if err = p.advance(); err != nil {
				return nil, err
			}
			end, err2 := ParseAddress(endTok.text)
			if err2 != nil {
				return nil, errAt(endTok.pos, "bad cell reference %q", endTok.text)
			}
			return &RangeRef{Range: NewRange(start, end), At: t.pos}, nil
		}
		return &CellRef{Addr: start, At: t.pos}, nil

	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, ok, err := p.eat(tokLParen); err != nil {
			return nil, err
		} else if ok {
			return p.parseCallArgs(strings.ToUpper(t.text), t.pos)
		}
		return &NameRef{Name: t.text, At: t.pos}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		if _, ok, err := p.eat(tokRParen); err != nil {
			return nil, err
		} else if !ok {
			return nil, errAt(p.cur.pos, "expected )")
		}
		return inner, nil

	case tokEOF:
		return nil, errAt(t.pos, "unexpected end of formula")
	}
	return nil, errAt(t.pos, "unexpected %q", t.text)
}

// parseCallArgs parses a comma-separated argument list; the opening paren
// is already consumed.
func (p *parser) parseCallArgs(name string, at int) (Node, error) {
	call := &Call{Name: name, At: at}
	if _, ok, err := p.eat(tokRParen); err != nil {
		return nil, err
	} else if ok {
		return call, nil
	}
	for {
		arg, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if _, ok, err := p.eat(tokComma); err != nil {
			return nil, err
		} else if ok {
			continue
		}
		if _, ok, err := p.eat(tokRParen); err != nil {
			return nil, err
		} else if !ok {
			return nil, errAt(p.cur.pos, "expected , or ) in %s argument list", name)
		}
		return call, nil
	}
}
