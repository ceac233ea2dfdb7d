package unit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/unitgrid/dimension"
)

// Sentinel errors for registry operations.
var (
	// ErrUnknownUnit indicates a symbol absent from the registry.
	ErrUnknownUnit = errors.New("unit: unknown unit")

	// ErrDuplicateUnit indicates a symbol registered twice.
	ErrDuplicateUnit = errors.New("unit: duplicate unit symbol")

	// ErrBadFactor indicates a non-positive conversion factor.
	ErrBadFactor = errors.New("unit: conversion factor must be positive")

	// ErrDimensionMismatch indicates a conversion between units whose
	// dimensions differ.
	ErrDimensionMismatch = errors.New("unit: conversion endpoints differ in dimension")
)

// Def is a registered simple unit: its dimension, the multiplicative factor
// to its dimension's canonical unit, and an optional affine offset for
// non-ratio scales (temperature). A Def with Factor == 0 is a registered
// symbol with no known path to the canonical unit; conversions involving it
// succeed only through explicitly registered edges.
type Def struct {
	Symbol string
	Dim    dimension.Vector

	// Factor converts a value in this unit to the canonical unit of Dim:
	// canonical = value·Factor (ratio scales), or the affine form below.
	Factor float64

	// Offset is the additive part of the affine map to canonical.
	// OffsetBefore selects (value+Offset)·Factor over value·Factor+Offset.
	Offset       float64
	OffsetBefore bool
}

// Affine reports whether the definition carries an additive offset.
func (d Def) Affine() bool { return d.Offset != 0 }

// Edge is one registered direct conversion between two symbols of equal
// dimension. Apply converts a value in From-units to To-units as
// (v+Offset)·Factor when OffsetBefore, else v·Factor+Offset.
type Edge struct {
	From, To     string
	Factor       float64
	Offset       float64
	OffsetBefore bool
}

// Registry holds all known simple units and direct conversion edges.
// Reads (Lookup, DimensionOf, Edges) take a shared lock; Register and
// RegisterConversion take the write barrier, so a Registry may be shared
// read-only across workbooks per the single-writer model.
type Registry struct {
	mu        sync.RWMutex
	defs      map[string]Def
	canonical map[dimension.Vector]string // dimension → canonical symbol
	edges     []Edge                      // in registration order (determinism)
}

// NewRegistry builds a Registry pre-loaded with the embedded builtin
// catalog (lengths, masses, durations, temperatures, currency, storage).
func NewRegistry() (*Registry, error) {
	r := NewEmptyRegistry()
	if err := loadBuiltin(r); err != nil {
		return nil, err
	}
	return r, nil
}

// NewEmptyRegistry builds a Registry with no units at all.
func NewEmptyRegistry() *Registry {
	return &Registry{
		defs:      make(map[string]Def),
		canonical: make(map[dimension.Vector]string),
	}
}

// Register adds a simple unit definition. The first unit registered for a
// dimension becomes that dimension's canonical unit and must have
// Factor == 1 and no offset. For later units a positive Factor (plus
// optional offset) also records a conversion edge to the canonical unit;
// Factor == 0 registers the symbol pathless.
func (r *Registry) Register(d Def) error {
	if d.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrUnknownUnit)
	}
	if d.Factor < 0 {
		return fmt.Errorf("%w: %q has factor %v", ErrBadFactor, d.Symbol, d.Factor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.defs[d.Symbol]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateUnit, d.Symbol)
	}

	canon, hasCanon := r.canonical[d.Dim]
	if !hasCanon {
		if d.Factor != 1 || d.Offset != 0 {
			return fmt.Errorf("%w: first unit %q of its dimension must have factor 1 and no offset", ErrBadFactor, d.Symbol)
		}
		r.canonical[d.Dim] = d.Symbol
	}
	r.defs[d.Symbol] = d

	if hasCanon && d.Factor > 0 {
		r.edges = append(r.edges, Edge{
			From:         d.Symbol,
			To:           canon,
			Factor:       d.Factor,
			Offset:       d.Offset,
			OffsetBefore: d.OffsetBefore,
		})
	}
	return nil
}

// RegisterConversion records a direct conversion edge between two already
// registered symbols of identical dimension.
func (r *Registry) RegisterConversion(e Edge) error {
	if e.Factor <= 0 {
		return fmt.Errorf("%w: %q→%q has factor %v", ErrBadFactor, e.From, e.To, e.Factor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.defs[e.From]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, e.From)
	}
	to, ok := r.defs[e.To]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, e.To)
	}
	if !from.Dim.Equal(to.Dim) {
		return fmt.Errorf("%w: %q is %s, %q is %s", ErrDimensionMismatch, e.From, from.Dim, e.To, to.Dim)
	}
	r.edges = append(r.edges, e)
	return nil
}

// Lookup returns the definition of a simple-unit symbol.
func (r *Registry) Lookup(symbol string) (Def, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[symbol]
	if !ok {
		return Def{}, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	return d, nil
}

// Canonical returns the canonical symbol for a dimension, if any unit of
// that dimension has been registered.
func (r *Registry) Canonical(dim dimension.Vector) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.canonical[dim]
	return s, ok
}

// DimensionOf folds a compound unit into its dimension vector:
// Σ exponent × dimension(symbol). Any unregistered symbol yields
// ErrUnknownUnit.
func (r *Registry) DimensionOf(u Unit) (dimension.Vector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var dim dimension.Vector
	for _, t := range u.Terms {
		d, ok := r.defs[t.Symbol]
		if !ok {
			return dimension.Vector{}, fmt.Errorf("%w: %q", ErrUnknownUnit, t.Symbol)
		}
		dim = dim.Add(d.Dim.Scale(t.Exp))
	}
	return dim, nil
}

// Validate checks that every symbol of u is registered.
func (r *Registry) Validate(u Unit) error {
	_, err := r.DimensionOf(u)
	return err
}

// Edges returns a snapshot of all conversion edges in registration order.
// The returned slice is a copy; callers may index it freely.
func (r *Registry) Edges() []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Edge, len(r.edges))
	copy(out, r.edges)
	return out
}
