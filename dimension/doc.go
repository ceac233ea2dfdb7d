// Package dimension defines the base-dimension exponent vector that underpins
// all unit arithmetic in unitgrid.
//
// What
//
//   - A Vector is a fixed-size tuple of small signed integer exponents, one
//     slot per base axis: Length, Mass, Time, Temperature, Currency, Storage,
//     plus a fixed number of Custom slots for user-defined dimensions.
//   - Vectors are pure values: comparison is exact component-wise equality,
//     the zero Vector means "dimensionless".
//   - Add, Sub and Scale implement the exponent bookkeeping behind unit
//     multiplication, division and integer powers:
//     dim(a·b) = dim(a)+dim(b), dim(a/b) = dim(a)−dim(b), dim(aⁿ) = n·dim(a).
//
// Why
//
//	Dimensional analysis reduces to integer vector arithmetic: two quantities
//	may be added only when their Vectors are equal, and multiplication of
//	quantities adds their Vectors. Keeping the Vector a flat comparable value
//	type makes those checks exact (no floating point) and allocation-free.
//
// Complexity
//
//   - All operations: O(NumAxes) time, zero heap allocations.
//
// Usage
//
//	speed := dimension.Base(dimension.Length).Sub(dimension.Base(dimension.Time))
//	speed.IsZero()            // false
//	speed.Equal(speed)        // true
//	fmt.Println(speed)        // L^1·T^-1
package dimension
