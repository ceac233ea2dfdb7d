package eval

import (
	"errors"
	"math"

	"github.com/katalvlaran/unitgrid/convert"
	"github.com/katalvlaran/unitgrid/formula"
	"github.com/katalvlaran/unitgrid/unit"
)

// DefaultMaxDepth bounds AST recursion; deeper formulas fail with a typed
// error instead of overflowing the call stack. The walk descends once per
// operator, so a left-deep chain of N additions needs depth N; the bound
// leaves ample room for long chains while syntactic nesting is already
// capped at parse time by formula.MaxNestingDepth.
const DefaultMaxDepth = 4096

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth overrides the recursion bound. Non-positive values keep the
// default.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// Evaluator walks ASTs against a cell store. It is stateless per call: all
// state lives in the AST and the store, so one Evaluator may be reused for
// every cell of a workbook.
type Evaluator struct {
	reg      *unit.Registry
	graph    *convert.Graph
	store    Store
	names    NameResolver
	maxDepth int
}

// New builds an Evaluator. A nil names resolver resolves nothing.
func New(reg *unit.Registry, graph *convert.Graph, store Store, names NameResolver, opts ...Option) *Evaluator {
	if names == nil {
		names = NoNames{}
	}
	e := &Evaluator{reg: reg, graph: graph, store: store, names: names, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the value of one AST. It never panics: every failure
// mode becomes an error Value.
func (e *Evaluator) Evaluate(ast formula.Node) Value {
	if ast == nil {
		return Empty()
	}
	return e.walk(ast, 0)
}

func (e *Evaluator) walk(n formula.Node, depth int) Value {
	if depth > e.maxDepth {
		return Errf(ErrKindDepthExceeded, "formula nested deeper than %d levels", e.maxDepth)
	}

	switch v := n.(type) {
	case *formula.Number:
		return e.literal(v)
	case *formula.Text:
		return Str(v.Value)
	case *formula.CellRef:
		return e.store.Get(v.Addr)
	case *formula.RangeRef:
		return Errf(ErrKindBadValue, "range %s used as a scalar", v.Range)
	case *formula.NameRef:
		return e.nameValue(v)
	case *formula.Unary:
		return e.unary(v, depth)
	case *formula.Binary:
		return e.binary(v, depth)
	case *formula.Call:
		return e.call(v, depth)
	}
	return Errf(ErrKindBadValue, "unsupported formula node")
}

// literal resolves a number literal's unit text against the registry.
func (e *Evaluator) literal(n *formula.Number) Value {
	if n.UnitText == "" {
		return Num(n.Value, unit.Dimensionless)
	}
	u, err := unit.Parse(n.UnitText)
	if err != nil {
		return Errf(ErrKindUnknownUnit, "bad unit text %q: %v", n.UnitText, err)
	}
	if err = e.reg.Validate(u); err != nil {
		return Errf(ErrKindUnknownUnit, "%v", err)
	}
	return Num(n.Value, u)
}

// nameValue resolves a named range; single-cell names act like cell refs,
// wider names are scalar errors (aggregates expand them before walking).
func (e *Evaluator) nameValue(n *formula.NameRef) Value {
	r, ok := e.names.ResolveName(n.Name)
	if !ok {
		return Errf(ErrKindName, "unknown name %q", n.Name)
	}
	if r.Start == r.End {
		return e.store.Get(r.Start)
	}
	return Errf(ErrKindBadValue, "name %q spans %s, used as a scalar", n.Name, r)
}

func (e *Evaluator) unary(n *formula.Unary, depth int) Value {
	x := e.walk(n.X, depth+1)
	if x.IsError() {
		return x
	}
	num, u, errv := asNumber(x)
	if errv != nil {
		return *errv
	}
	return Num(-num, u)
}

func (e *Evaluator) binary(n *formula.Binary, depth int) Value {
	l := e.walk(n.L, depth+1)
	if l.IsError() {
		return l // first-encountered error wins
	}
	r := e.walk(n.R, depth+1)
	if r.IsError() {
		return r
	}

	switch n.Op {
	case formula.OpAdd, formula.OpSub:
		return e.addSub(n.Op, l, r)
	case formula.OpMul, formula.OpDiv:
		return e.mulDiv(n.Op, l, r)
	case formula.OpPow:
		return e.pow(l, r)
	case formula.OpEq, formula.OpNe, formula.OpLt, formula.OpLe, formula.OpGt, formula.OpGe:
		return e.compare(n.Op, l, r)
	}
	return Errf(ErrKindBadValue, "unsupported operator %s", n.Op)
}

// addSub enforces dimensional compatibility and the left-operand-wins unit
// convention: a compatible right operand converts into the left unit and
// the result keeps the left unit.
func (e *Evaluator) addSub(op formula.Op, l, r Value) Value {
	ln, lu, errv := asNumber(l)
	if errv != nil {
		return *errv
	}
	rn, ru, errv := asNumber(r)
	if errv != nil {
		return *errv
	}

	// a literal dimensionless zero (empty cell, bare 0) is compatible with
	// any unit: 0 is the one value meaningful on every scale
	if ln == 0 && lu.IsDimensionless() && !ru.IsDimensionless() {
		lu = ru
	}
	if rn == 0 && ru.IsDimensionless() && !lu.IsDimensionless() {
		ru = lu
	}

	rn, errv = e.intoUnit(rn, ru, lu)
	if errv != nil {
		return *errv
	}
	if op == formula.OpSub {
		return Num(ln-rn, lu)
	}
	return Num(ln+rn, lu)
}

// intoUnit converts a value from unit `from` into unit `to`, demanding
// equal dimensions first.
func (e *Evaluator) intoUnit(v float64, from, to unit.Unit) (float64, *Value) {
	if from.Equal(to) {
		return v, nil
	}
	fd, err := e.reg.DimensionOf(from)
	if err != nil {
		return 0, errp(Errf(ErrKindUnknownUnit, "%v", err))
	}
	td, err := e.reg.DimensionOf(to)
	if err != nil {
		return 0, errp(Errf(ErrKindUnknownUnit, "%v", err))
	}
	if !fd.Equal(td) {
		return 0, errp(Errf(ErrKindIncompatibleUnits, "cannot combine %s with %s", display(from), display(to)))
	}
	tr, err := e.graph.Between(from, to)
	if err != nil {
		return 0, errp(convErrValue(err))
	}
	return tr.Apply(v), nil
}

// mulDiv needs no compatibility: the result unit is the simplified
// product or quotient.
func (e *Evaluator) mulDiv(op formula.Op, l, r Value) Value {
	ln, lu, errv := asNumber(l)
	if errv != nil {
		return *errv
	}
	rn, ru, errv := asNumber(r)
	if errv != nil {
		return *errv
	}
	if op == formula.OpDiv {
		if rn == 0 {
			return Errf(ErrKindDivZero, "division by zero")
		}
		return Num(ln/rn, lu.Div(ru))
	}
	return Num(ln*rn, lu.Mul(ru))
}

// pow raises a value to an exponent. Unit-bearing bases demand an integer,
// dimensionless exponent; the unit is raised term-wise.
func (e *Evaluator) pow(l, r Value) Value {
	ln, lu, errv := asNumber(l)
	if errv != nil {
		return *errv
	}
	rn, ru, errv := asNumber(r)
	if errv != nil {
		return *errv
	}
	if !ru.IsDimensionless() {
		return Errf(ErrKindBadValue, "exponent must be dimensionless, got %s", display(ru))
	}
	if lu.IsDimensionless() {
		return Num(math.Pow(ln, rn), unit.Dimensionless)
	}
	n := int(rn)
	if float64(n) != rn {
		return Errf(ErrKindFractionalExponent, "cannot raise %s to non-integer power %v", display(lu), rn)
	}
	return Num(math.Pow(ln, rn), lu.Pow(n))
}

// compare converts the right operand into the left unit, then compares.
// Results are dimensionless 1 or 0.
func (e *Evaluator) compare(op formula.Op, l, r Value) Value {
	// text comparisons: equality only
	if l.Kind == KindText || r.Kind == KindText {
		switch op {
		case formula.OpEq:
			return boolNum(l.Kind == KindText && r.Kind == KindText && l.Text == r.Text)
		case formula.OpNe:
			return boolNum(!(l.Kind == KindText && r.Kind == KindText && l.Text == r.Text))
		}
		return Errf(ErrKindBadValue, "cannot order text values")
	}

	ln, lu, errv := asNumber(l)
	if errv != nil {
		return *errv
	}
	rn, ru, errv := asNumber(r)
	if errv != nil {
		return *errv
	}
	if ln == 0 && lu.IsDimensionless() && !ru.IsDimensionless() {
		lu = ru
	}
	if rn == 0 && ru.IsDimensionless() && !lu.IsDimensionless() {
		ru = lu
	}
	rn, errv = e.intoUnit(rn, ru, lu)
	if errv != nil {
		return *errv
	}

	switch op {
	case formula.OpEq:
		return boolNum(ln == rn)
	case formula.OpNe:
		return boolNum(ln != rn)
	case formula.OpLt:
		return boolNum(ln < rn)
	case formula.OpLe:
		return boolNum(ln <= rn)
	case formula.OpGt:
		return boolNum(ln > rn)
	}
	return boolNum(ln >= rn)
}

// asNumber coerces a value for arithmetic: numbers pass through, empty
// cells contribute a dimensionless zero, text is a bad operand.
func asNumber(v Value) (float64, unit.Unit, *Value) {
	switch v.Kind {
	case KindNumber:
		return v.Number, v.Unit, nil
	case KindEmpty:
		return 0, unit.Dimensionless, nil
	case KindError:
		return 0, unit.Dimensionless, &v
	}
	return 0, unit.Dimensionless, errp(Errf(ErrKindBadValue, "text value in arithmetic"))
}

// convErrValue maps conversion-graph sentinels onto the error taxonomy.
func convErrValue(err error) Value {
	switch {
	case errors.Is(err, convert.ErrNoConversionPath),
		errors.Is(err, convert.ErrAffineCompound),
		errors.Is(err, convert.ErrAffineChain):
		return Errf(ErrKindNoConversionPath, "%v", err)
	case errors.Is(err, convert.ErrIncompatibleUnits):
		return Errf(ErrKindIncompatibleUnits, "%v", err)
	case errors.Is(err, unit.ErrUnknownUnit):
		return Errf(ErrKindUnknownUnit, "%v", err)
	}
	return Errf(ErrKindBadValue, "%v", err)
}

// display renders a unit for error messages, making dimensionless visible.
func display(u unit.Unit) string {
	if s := u.String(); s != "" {
		return s
	}
	return "a dimensionless value"
}

func boolNum(b bool) Value {
	if b {
		return Num(1, unit.Dimensionless)
	}
	return Num(0, unit.Dimensionless)
}

func errp(v Value) *Value { return &v }
