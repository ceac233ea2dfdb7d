package eval

import "github.com/katalvlaran/unitgrid/formula"

// Store is the external cell-store contract the evaluator consumes.
// Implementations own the cells; the evaluator never caches values across
// calls.
type Store interface {
	// Get returns the computed value at addr; Empty() for unwritten cells.
	Get(addr formula.Address) Value

	// SetComputed writes a computed value back after recalculation.
	SetComputed(addr formula.Address, v Value)
}

// NameResolver is the named-range lookup contract. The name table itself
// (workbook bookkeeping) is outside this core.
type NameResolver interface {
	// ResolveName maps an identifier to its cell range;
	// ok is false for unknown names.
	ResolveName(name string) (formula.Range, bool)
}

// NoNames is a NameResolver that knows no names.
type NoNames struct{}

// ResolveName always reports an unknown name.
func (NoNames) ResolveName(string) (formula.Range, bool) { return formula.Range{}, false }
