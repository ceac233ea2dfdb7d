// Package dimension provides the Vector value type: integer exponents over
// the base physical/economic axes recognized by unitgrid.
package dimension

import (
	"errors"
	"strconv"
	"strings"
)

// Axis indexes one slot of a Vector.
type Axis int

// Base axes. Custom0..Custom3 are reserved for user-defined dimensions
// (e.g. "head of cattle", "story points") registered at runtime.
const (
	Length Axis = iota
	Mass
	Time
	Temperature
	Currency
	Storage
	Custom0
	Custom1
	Custom2
	Custom3

	// NumAxes is the fixed width of every Vector.
	NumAxes = int(Custom3) + 1
)

// axisLabels are the short labels used by Vector.String.
var axisLabels = [NumAxes]string{"L", "M", "T", "Θ", "$", "B", "C0", "C1", "C2", "C3"}

// ErrAxisRange indicates an Axis outside [0, NumAxes).
var ErrAxisRange = errors.New("dimension: axis out of range")

// Vector holds one signed exponent per base axis.
// The zero value is the dimensionless vector.
// Vector is comparable; use == or Equal for exact matching.
type Vector [NumAxes]int

// Base returns the unit vector for axis a (exponent 1, all others 0).
// An out-of-range axis yields the zero vector; Base is called with the
// package constants in practice.
func Base(a Axis) Vector {
	var v Vector
	if int(a) < 0 || int(a) >= NumAxes {
		return v
	}
	v[a] = 1
	return v
}

// CustomAxis returns the i-th custom axis, or ErrAxisRange when no free
// custom slot with that index exists.
func CustomAxis(i int) (Axis, error) {
	if i < 0 || i >= NumAxes-int(Custom0) {
		return 0, ErrAxisRange
	}
	return Custom0 + Axis(i), nil
}

// Add returns the component-wise sum v+w.
func (v Vector) Add(w Vector) Vector {
	for i := 0; i < NumAxes; i++ {
		v[i] += w[i]
	}
	return v
}

// Sub returns the component-wise difference v−w.
func (v Vector) Sub(w Vector) Vector {
	for i := 0; i < NumAxes; i++ {
		v[i] -= w[i]
	}
	return v
}

// Scale returns v with every exponent multiplied by n.
func (v Vector) Scale(n int) Vector {
	for i := 0; i < NumAxes; i++ {
		v[i] *= n
	}
	return v
}

// IsZero reports whether v is the dimensionless vector.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Equal reports exact component-wise equality.
func (v Vector) Equal(w Vector) bool {
	return v == w
}

// DivisibleBy reports whether every exponent of v is evenly divisible by n.
// Used by transform functions (e.g. square root needs n == 2).
// n must be non-zero; DivisibleBy(0) reports false.
func (v Vector) DivisibleBy(n int) bool {
	if n == 0 {
		return false
	}
	for i := 0; i < NumAxes; i++ {
		if v[i]%n != 0 {
			return false
		}
	}
	return true
}

// String renders non-zero axes as label^exp joined by "·",
// or "1" for the dimensionless vector.
func (v Vector) String() string {
	if v.IsZero() {
		return "1"
	}
	var b strings.Builder
	first := true
	for i := 0; i < NumAxes; i++ {
		if v[i] == 0 {
			continue
		}
		if !first {
			b.WriteString("·")
		}
		first = false
		b.WriteString(axisLabels[i])
		b.WriteString("^")
		b.WriteString(strconv.Itoa(v[i]))
	}
	return b.String()
}
