// Package convert defines the Transform result type and the sentinel
// errors of conversion pathfinding.
package convert

import "errors"

// Sentinel errors for conversion lookups.
var (
	// ErrIncompatibleUnits indicates endpoints of different dimension, or
	// compound units whose term structures cannot be matched one-to-one.
	ErrIncompatibleUnits = errors.New("convert: incompatible units")

	// ErrNoConversionPath indicates two units of identical dimension with
	// no registered edge path between them.
	ErrNoConversionPath = errors.New("convert: no conversion path")

	// ErrAffineChain indicates an offset-bearing edge at an interior hop of
	// a conversion path.
	ErrAffineChain = errors.New("convert: affine edge chained mid-path")

	// ErrAffineCompound indicates an offset-bearing unit inside a compound
	// or powered unit, where an additive offset has no meaning.
	ErrAffineCompound = errors.New("convert: affine unit in compound unit")

	// ErrRegistryNil is returned when NewGraph receives a nil registry.
	ErrRegistryNil = errors.New("convert: registry is nil")
)

// Transform is a fully composed affine conversion map.
// Apply converts a source-unit value into the target unit.
type Transform struct {
	// Factor is the multiplicative part of the map.
	Factor float64

	// Offset is the additive part; zero for pure ratio conversions.
	Offset float64
}

// Identity is the do-nothing Transform.
var Identity = Transform{Factor: 1}

// Apply converts v as v·Factor + Offset.
func (t Transform) Apply(v float64) float64 {
	return v*t.Factor + t.Offset
}

// Ratio reports whether the transform has no additive part.
func (t Transform) Ratio() bool { return t.Offset == 0 }

// then returns the composition "t, then next": next(t(v)).
func (t Transform) then(next Transform) Transform {
	return Transform{
		Factor: t.Factor * next.Factor,
		Offset: t.Offset*next.Factor + next.Offset,
	}
}

// inverse returns the transform undoing t.
func (t Transform) inverse() Transform {
	return Transform{
		Factor: 1 / t.Factor,
		Offset: -t.Offset / t.Factor,
	}
}
