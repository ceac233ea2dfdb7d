package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Op identifies a unary or binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNeg // unary minus
)

var opText = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^",
	OpEq: "=", OpNe: "<>", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpNeg: "-",
}

// String returns the operator's source form.
func (o Op) String() string { return opText[o] }

// Node is one AST node. Every implementation also renders itself back to
// normalized source text via String, which dependency and test tooling use
// as a stable structural key.
type Node interface {
	fmt.Stringer
	// Pos is the rune offset of the node in the original formula text.
	Pos() int
}

// Number is a numeric literal, optionally carrying raw unit text
// (resolved later by the evaluator).
type Number struct {
	Value    float64
	UnitText string
	At       int
}

func (n *Number) Pos() int { return n.At }
func (n *Number) String() string {
	s := strconv.FormatFloat(n.Value, 'g', -1, 64)
	if n.UnitText != "" {
		s += " " + n.UnitText
	}
	return s
}

// Text is a string literal.
type Text struct {
	Value string
	At    int
}

func (n *Text) Pos() int { return n.At }
func (n *Text) String() string {
	return `"` + strings.ReplaceAll(n.Value, `"`, `""`) + `"`
}

// CellRef references a single cell by address.
type CellRef struct {
	Addr Address
	At   int
}

func (n *CellRef) Pos() int       { return n.At }
func (n *CellRef) String() string { return n.Addr.String() }

// RangeRef references a rectangular cell range.
type RangeRef struct {
	Range Range
	At    int
}

func (n *RangeRef) Pos() int       { return n.At }
func (n *RangeRef) String() string { return n.Range.String() }

// NameRef references a named range by identifier.
type NameRef struct {
	Name string
	At   int
}

func (n *NameRef) Pos() int       { return n.At }
func (n *NameRef) String() string { return n.Name }

// Unary applies a prefix operator.
type Unary struct {
	Op Op
	X  Node
	At int
}

func (n *Unary) Pos() int       { return n.At }
func (n *Unary) String() string { return n.Op.String() + n.X.String() }

// Binary applies an infix operator.
type Binary struct {
	Op   Op
	L, R Node
	At   int
}

func (n *Binary) Pos() int { return n.At }
func (n *Binary) String() string {
	return "(" + n.L.String() + n.Op.String() + n.R.String() + ")"
}

// Call invokes a function. Name is stored upper-cased (function names are
// case-insensitive).
type Call struct {
	Name string
	Args []Node
	At   int
}

func (n *Call) Pos() int { return n.At }
func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ",") + ")"
}

// RefKind tags one extracted reference.
type RefKind int

const (
	RefCell RefKind = iota
	RefRange
	RefName
)

// Ref is one reference found in an AST: a cell, a range, or a name.
type Ref struct {
	Kind  RefKind
	Cell  Address // valid for RefCell
	Range Range   // valid for RefRange
	Name  string  // valid for RefName
}

// References walks the AST and returns every reference in source order,
// duplicates included; callers de-duplicate as needed.
func References(n Node) []Ref {
	var out []Ref
	walkRefs(n, &out)
	return out
}

func walkRefs(n Node, out *[]Ref) {
	switch v := n.(type) {
	case *CellRef:
		*out = append(*out, Ref{Kind: RefCell, Cell: v.Addr})
	case *RangeRef:
		*out = append(*out, Ref{Kind: RefRange, Range: v.Range})
	case *NameRef:
		*out = append(*out, Ref{Kind: RefName, Name: v.Name})
	case *Unary:
		walkRefs(v.X, out)
	case *Binary:
		walkRefs(v.L, out)
		walkRefs(v.R, out)
	case *Call:
		for _, a := range v.Args {
			walkRefs(a, out)
		}
	}
}
