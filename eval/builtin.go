package eval

import (
	"math"

	"github.com/katalvlaran/unitgrid/formula"
	"github.com/katalvlaran/unitgrid/unit"
)

// builtinFn evaluates one function call. Implementations receive raw arg
// nodes so range arguments can be expanded cell-by-cell.
type builtinFn func(e *Evaluator, call *formula.Call, depth int) Value

// builtins is the base function set. Names are upper-case; the parser
// normalizes call names, so lookup is case-insensitive. None of these
// tolerate upstream error values.
var builtins map[string]builtinFn

func init() {
	builtins = map[string]builtinFn{
		"SUM":     fnSum,
		"AVERAGE": fnAverage,
		"MIN":     fnMin,
		"MAX":     fnMax,
		"COUNT":   fnCount,
		"COUNTA":  fnCountA,
		"ABS":     fnAbs,
		"SQRT":    fnSqrt,
		"ROUND":   fnRound,
		"CONVERT": fnConvert,
	}
}

func (e *Evaluator) call(n *formula.Call, depth int) Value {
	fn, ok := builtins[n.Name]
	if !ok {
		return Errf(ErrKindName, "unknown function %q", n.Name)
	}
	return fn(e, n, depth)
}

// flatten evaluates argument nodes, expanding range and wide-name
// references into their member cell values. The first error value
// encountered aborts the expansion.
func (e *Evaluator) flatten(args []formula.Node, depth int) ([]Value, *Value) {
	var out []Value
	for _, arg := range args {
		switch v := arg.(type) {
		case *formula.RangeRef:
			for _, addr := range v.Range.Cells() {
				cv := e.store.Get(addr)
				if cv.IsError() {
					return nil, &cv
				}
				out = append(out, cv)
			}
		case *formula.NameRef:
			r, ok := e.names.ResolveName(v.Name)
			if !ok {
				return nil, errp(Errf(ErrKindName, "unknown name %q", v.Name))
			}
			for _, addr := range r.Cells() {
				cv := e.store.Get(addr)
				if cv.IsError() {
					return nil, &cv
				}
				out = append(out, cv)
			}
		default:
			cv := e.walk(arg, depth+1)
			if cv.IsError() {
				return nil, &cv
			}
			out = append(out, cv)
		}
	}
	return out, nil
}

// numericArgs filters flattened values for an aggregate: empty cells are
// skipped, text is a bad operand, and every number must convert into the
// first number's unit (the aggregate keeps that unit).
func (e *Evaluator) numericArgs(call *formula.Call, depth int) ([]float64, unit.Unit, *Value) {
	vals, errv := e.flatten(call.Args, depth)
	if errv != nil {
		return nil, unit.Dimensionless, errv
	}
	var nums []float64
	first := unit.Dimensionless
	haveFirst := false
	for _, v := range vals {
		switch v.Kind {
		case KindEmpty:
			continue // aggregates skip blanks
		case KindText:
			return nil, unit.Dimensionless, errp(Errf(ErrKindBadValue, "text value in %s", call.Name))
		}
		if !haveFirst {
			first = v.Unit
			haveFirst = true
			nums = append(nums, v.Number)
			continue
		}
		n, errv := e.intoUnit(v.Number, v.Unit, first)
		if errv != nil {
			return nil, unit.Dimensionless, errv
		}
		nums = append(nums, n)
	}
	return nums, first, nil
}

func fnSum(e *Evaluator, call *formula.Call, depth int) Value {
	nums, u, errv := e.numericArgs(call, depth)
	if errv != nil {
		return *errv
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return Num(total, u)
}

func fnAverage(e *Evaluator, call *formula.Call, depth int) Value {
	nums, u, errv := e.numericArgs(call, depth)
	if errv != nil {
		return *errv
	}
	if len(nums) == 0 {
		return Errf(ErrKindDivZero, "AVERAGE of no numeric values")
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return Num(total/float64(len(nums)), u)
}

func fnMin(e *Evaluator, call *formula.Call, depth int) Value {
	return extremum(e, call, depth, func(a, b float64) bool { return b < a })
}

func fnMax(e *Evaluator, call *formula.Call, depth int) Value {
	return extremum(e, call, depth, func(a, b float64) bool { return b > a })
}

func extremum(e *Evaluator, call *formula.Call, depth int, better func(curr, cand float64) bool) Value {
	nums, u, errv := e.numericArgs(call, depth)
	if errv != nil {
		return *errv
	}
	if len(nums) == 0 {
		return Num(0, unit.Dimensionless)
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if better(best, n) {
			best = n
		}
	}
	return Num(best, u)
}

// fnCount counts numeric values; units are discarded and the result is
// dimensionless.
func fnCount(e *Evaluator, call *formula.Call, depth int) Value {
	vals, errv := e.flatten(call.Args, depth)
	if errv != nil {
		return *errv
	}
	n := 0
	for _, v := range vals {
		if v.Kind == KindNumber {
			n++
		}
	}
	return Num(float64(n), unit.Dimensionless)
}

// fnCountA counts non-empty values.
func fnCountA(e *Evaluator, call *formula.Call, depth int) Value {
	vals, errv := e.flatten(call.Args, depth)
	if errv != nil {
		return *errv
	}
	n := 0
	for _, v := range vals {
		if v.Kind != KindEmpty {
			n++
		}
	}
	return Num(float64(n), unit.Dimensionless)
}

func fnAbs(e *Evaluator, call *formula.Call, depth int) Value {
	if len(call.Args) != 1 {
		return Errf(ErrKindBadValue, "ABS takes exactly one argument")
	}
	v := e.walk(call.Args[0], depth+1)
	if v.IsError() {
		return v
	}
	n, u, errv := asNumber(v)
	if errv != nil {
		return *errv
	}
	return Num(math.Abs(n), u)
}

// fnSqrt is a transform function: the operand's unit exponents must all be
// evenly divisible by two, which halves them in the result (m² → m).
func fnSqrt(e *Evaluator, call *formula.Call, depth int) Value {
	if len(call.Args) != 1 {
		return Errf(ErrKindBadValue, "SQRT takes exactly one argument")
	}
	v := e.walk(call.Args[0], depth+1)
	if v.IsError() {
		return v
	}
	n, u, errv := asNumber(v)
	if errv != nil {
		return *errv
	}
	if n < 0 {
		return Errf(ErrKindBadValue, "SQRT of negative value")
	}
	root, ok := rootUnit(u, 2)
	if !ok {
		return Errf(ErrKindInvalidUnitForFunction, "SQRT needs even unit exponents, got %s", display(u))
	}
	return Num(math.Sqrt(n), root)
}

// rootUnit divides every term exponent by n, reporting false when any
// exponent is not evenly divisible.
func rootUnit(u unit.Unit, n int) (unit.Unit, bool) {
	s := u.Simplify()
	terms := make([]unit.Term, len(s.Terms))
	for i, t := range s.Terms {
		if t.Exp%n != 0 {
			return unit.Dimensionless, false
		}
		terms[i] = unit.Term{Symbol: t.Symbol, Exp: t.Exp / n}
	}
	return unit.Unit{Terms: terms}, true
}

// fnRound rounds to an optional number of decimal digits, keeping the unit.
func fnRound(e *Evaluator, call *formula.Call, depth int) Value {
	if len(call.Args) < 1 || len(call.Args) > 2 {
		return Errf(ErrKindBadValue, "ROUND takes one or two arguments")
	}
	v := e.walk(call.Args[0], depth+1)
	if v.IsError() {
		return v
	}
	n, u, errv := asNumber(v)
	if errv != nil {
		return *errv
	}
	digits := 0.0
	if len(call.Args) == 2 {
		d := e.walk(call.Args[1], depth+1)
		if d.IsError() {
			return d
		}
		dn, du, errv := asNumber(d)
		if errv != nil {
			return *errv
		}
		if !du.IsDimensionless() || dn != math.Trunc(dn) {
			return Errf(ErrKindBadValue, "ROUND digits must be a dimensionless integer")
		}
		digits = dn
	}
	scale := math.Pow(10, digits)
	return Num(math.Round(n*scale)/scale, u)
}

// fnConvert is the explicit conversion function:
// CONVERT(value, "target-unit") performs the conversion-graph lookup
// directly.
func fnConvert(e *Evaluator, call *formula.Call, depth int) Value {
	if len(call.Args) != 2 {
		return Errf(ErrKindBadValue, "CONVERT takes a value and a target unit string")
	}
	v := e.walk(call.Args[0], depth+1)
	if v.IsError() {
		return v
	}
	n, u, errv := asNumber(v)
	if errv != nil {
		return *errv
	}
	t := e.walk(call.Args[1], depth+1)
	if t.IsError() {
		return t
	}
	if t.Kind != KindText {
		return Errf(ErrKindBadValue, "CONVERT target must be a unit string")
	}
	target, err := unit.Parse(t.Text)
	if err != nil {
		return Errf(ErrKindUnknownUnit, "bad unit text %q: %v", t.Text, err)
	}
	if err = e.reg.Validate(target); err != nil {
		return Errf(ErrKindUnknownUnit, "%v", err)
	}
	tr, err := e.graph.Between(u, target)
	if err != nil {
		return convErrValue(err)
	}
	return Num(tr.Apply(n), target)
}
