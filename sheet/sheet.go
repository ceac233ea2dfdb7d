package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/unitgrid/convert"
	"github.com/katalvlaran/unitgrid/depgraph"
	"github.com/katalvlaran/unitgrid/eval"
	"github.com/katalvlaran/unitgrid/formula"
	"github.com/katalvlaran/unitgrid/unit"
)

var (
	// ErrNilRegistry is returned by NewEngine for a nil unit registry.
	ErrNilRegistry = errors.New("sheet: nil unit registry")
	// ErrNilGraph is returned by NewEngine for a nil conversion graph.
	ErrNilGraph = errors.New("sheet: nil conversion graph")
	// ErrNotNumeric is returned by DisplayValue when the cell holds no number.
	ErrNotNumeric = errors.New("sheet: cell value is not numeric")
	// ErrBadName is returned by DefineName for an empty or non-identifier name.
	ErrBadName = errors.New("sheet: invalid range name")
)

// Cell is a read-only snapshot of one cell.
type Cell struct {
	Raw        string     // text as entered
	Value      eval.Value // computed result, in the storage unit
	Display    unit.Unit  // presentation-only unit
	HasDisplay bool
	Warning    string // non-fatal note, e.g. a dropped display unit
}

// cell is the mutable store record behind a Cell snapshot.
type cell struct {
	raw        string
	ast        formula.Node
	value      eval.Value
	display    unit.Unit
	hasDisplay bool
	warning    string
}

// Sheet is the in-memory cell store. It satisfies eval.Store and
// eval.NameResolver; the Engine mutates it, the evaluator reads it.
type Sheet struct {
	cells map[string]*cell
	names map[string]formula.Range // upper-cased name -> range
}

// NewSheet returns an empty store.
func NewSheet() *Sheet {
	return &Sheet{
		cells: make(map[string]*cell),
		names: make(map[string]formula.Range),
	}
}

// Get returns the computed value at addr; never-written cells are Empty.
func (s *Sheet) Get(addr formula.Address) eval.Value {
	if c, ok := s.cells[addr.String()]; ok {
		return c.value
	}
	return eval.Empty()
}

// SetComputed stores a computed value at addr, creating the cell if needed.
func (s *Sheet) SetComputed(addr formula.Address, v eval.Value) {
	s.ensure(addr).value = v
}

// ResolveName maps a named range, case-insensitively.
func (s *Sheet) ResolveName(name string) (formula.Range, bool) {
	r, ok := s.names[strings.ToUpper(name)]
	return r, ok
}

func (s *Sheet) ensure(addr formula.Address) *cell {
	key := addr.String()
	c, ok := s.cells[key]
	if !ok {
		c = &cell{value: eval.Empty()}
		s.cells[key] = c
	}
	return c
}

func (s *Sheet) lookup(addr formula.Address) *cell {
	return s.cells[addr.String()]
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth bounds formula nesting; see eval.WithMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.evalOpts = append(e.evalOpts, eval.WithMaxDepth(n))
	}
}

// Engine is one workbook: a Sheet, its dependency graph, and an evaluator
// over a shared unit registry and conversion graph. All mutation goes
// through the Engine; it is single-writer and fully synchronous — Set
// returns only after every affected cell is recomputed.
type Engine struct {
	reg      *unit.Registry
	cg       *convert.Graph
	sheet    *Sheet
	deps     *depgraph.Graph
	ev       *eval.Evaluator
	evalOpts []eval.Option
}

// NewEngine wires a workbook over reg and cg. Both may be shared read-only
// across engines.
func NewEngine(reg *unit.Registry, cg *convert.Graph, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if cg == nil {
		return nil, ErrNilGraph
	}
	e := &Engine{
		reg:   reg,
		cg:    cg,
		sheet: NewSheet(),
		deps:  depgraph.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ev = eval.New(reg, cg, e.sheet, e.sheet, e.evalOpts...)
	return e, nil
}

// Set writes raw into the cell at ref and synchronously recalculates every
// dependent. Raw text starting with "=" is a formula; otherwise a numeric
// literal with an optional unit suffix ("100 ft"), or plain text. Failures
// of the formula itself (parse errors, unknown units, cycles) become the
// cell's error value, not a returned error; the returned error covers only
// a malformed ref. The cell's final value is returned.
func (e *Engine) Set(ref, raw string) (eval.Value, error) {
	addr, err := formula.ParseAddress(ref)
	if err != nil {
		return eval.Value{}, err
	}

	c := e.sheet.ensure(addr)
	c.raw = raw
	c.warning = ""

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		c.ast = nil
		e.deps.Clear(addr)
		c.value = eval.Empty()
	case strings.HasPrefix(trimmed, "="):
		ast, perr := formula.Parse(trimmed)
		if perr != nil {
			c.ast = nil
			e.deps.Clear(addr)
			c.value = eval.Errf(eval.ErrKindParse, "%v", perr)
			break
		}
		c.ast = ast
		e.deps.SetFormula(addr, formula.References(ast), e.sheet.ResolveName)
		c.value = e.ev.Evaluate(ast)
	default:
		c.ast = nil
		e.deps.Clear(addr)
		c.value = e.literalValue(trimmed)
	}
	e.checkDisplay(c)

	e.recalc(addr)
	return c.value, nil
}

// Value returns the computed value at ref.
func (e *Engine) Value(ref string) (eval.Value, error) {
	addr, err := formula.ParseAddress(ref)
	if err != nil {
		return eval.Value{}, err
	}
	return e.sheet.Get(addr), nil
}

// Cell returns a snapshot of the cell at ref; ok is false for a cell that
// was never written.
func (e *Engine) Cell(ref string) (Cell, bool, error) {
	addr, err := formula.ParseAddress(ref)
	if err != nil {
		return Cell{}, false, err
	}
	c := e.sheet.lookup(addr)
	if c == nil {
		return Cell{}, false, nil
	}
	return Cell{
		Raw:        c.raw,
		Value:      c.value,
		Display:    c.display,
		HasDisplay: c.hasDisplay,
		Warning:    c.warning,
	}, true, nil
}

// DefineName binds name to the cell or range given by ref ("A1" or
// "A1:B5"), case-insensitively. Define names before entering the formulas
// that use them; redefining a name does not rewire edges of formulas
// already entered.
func (e *Engine) DefineName(name, ref string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBadName
	}
	for _, r := range name {
		if !isNameRune(r) {
			return fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}
	r, err := parseRangeRef(ref)
	if err != nil {
		return err
	}
	e.sheet.names[strings.ToUpper(name)] = r
	return nil
}

// SetDisplayUnit attaches a presentation-only unit to the cell at ref; an
// empty unitText clears it. The unit must be registered and, when the cell
// already holds a number, share its dimension. Storage is never touched.
func (e *Engine) SetDisplayUnit(ref, unitText string) error {
	addr, err := formula.ParseAddress(ref)
	if err != nil {
		return err
	}
	c := e.sheet.ensure(addr)
	if strings.TrimSpace(unitText) == "" {
		c.display = unit.Dimensionless
		c.hasDisplay = false
		c.warning = ""
		return nil
	}
	u, err := unit.Parse(unitText)
	if err != nil {
		return err
	}
	if err = e.reg.Validate(u); err != nil {
		return err
	}
	if c.value.Kind == eval.KindNumber {
		if _, err = e.cg.Between(c.value.Unit, u); err != nil {
			return err
		}
	}
	c.display = u
	c.hasDisplay = true
	c.warning = ""
	return nil
}

// DisplayValue renders the cell at ref for presentation: the number
// converted into the display unit when one is set, otherwise the storage
// value as is. It is a pure read; storage and formulas are unaffected.
func (e *Engine) DisplayValue(ref string) (float64, string, error) {
	addr, err := formula.ParseAddress(ref)
	if err != nil {
		return 0, "", err
	}
	c := e.sheet.lookup(addr)
	if c == nil || c.value.Kind != eval.KindNumber {
		return 0, "", ErrNotNumeric
	}
	if !c.hasDisplay {
		return c.value.Number, c.value.Unit.String(), nil
	}
	tr, err := e.cg.Between(c.value.Unit, c.display)
	if err != nil {
		return 0, "", err
	}
	return tr.Apply(c.value.Number), c.display.String(), nil
}

// recalc marks cycle members and evaluates the affected dependents of
// edited, each exactly once, in dependency order.
func (e *Engine) recalc(edited formula.Address) {
	order, cycle := e.deps.Plan(edited)
	for _, a := range cycle {
		e.sheet.SetComputed(a, eval.Errf(eval.ErrKindCircular, "cell %s is part of a reference cycle", a))
	}
	for _, a := range order {
		c := e.sheet.lookup(a)
		if c == nil || c.ast == nil {
			continue
		}
		c.value = e.ev.Evaluate(c.ast)
		e.checkDisplay(c)
	}
}

// literalValue interprets non-formula input: a number with an optional
// unit suffix, else plain text.
func (e *Engine) literalValue(raw string) eval.Value {
	ast, err := formula.Parse(raw)
	if err == nil {
		switch n := ast.(type) {
		case *formula.Number:
			return e.ev.Evaluate(n)
		case *formula.Unary:
			if _, ok := n.X.(*formula.Number); ok && n.Op == formula.OpNeg {
				return e.ev.Evaluate(n)
			}
		}
	}
	return eval.Str(raw)
}

// checkDisplay drops a display unit whose dimension no longer matches the
// cell's storage unit, leaving a warning. Re-evaluation can change a
// cell's dimension; the display preference must never turn that into an
// error.
func (e *Engine) checkDisplay(c *cell) {
	if !c.hasDisplay || c.value.Kind != eval.KindNumber {
		return
	}
	sd, err1 := e.reg.DimensionOf(c.value.Unit)
	dd, err2 := e.reg.DimensionOf(c.display)
	if err1 != nil || err2 != nil || !sd.Equal(dd) {
		c.warning = fmt.Sprintf("display unit %s dropped: incompatible with %s", c.display, c.value.Unit)
		c.display = unit.Dimensionless
		c.hasDisplay = false
	}
}

// parseRangeRef accepts "A1" or "A1:B5".
func parseRangeRef(ref string) (formula.Range, error) {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		start, err := formula.ParseAddress(ref[:i])
		if err != nil {
			return formula.Range{}, err
		}
		end, err := formula.ParseAddress(ref[i+1:])
		if err != nil {
			return formula.Range{}, err
		}
		return formula.NewRange(start, end), nil
	}
	a, err := formula.ParseAddress(ref)
	if err != nil {
		return formula.Range{}, err
	}
	return formula.NewRange(a, a), nil
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9', r == '_':
		return true
	}
	return false
}
