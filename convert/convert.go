// Package convert implements breadth-first conversion pathfinding between
// registered units and term-by-term composition for compound units.
package convert

import (
	"fmt"
	"math"

	"github.com/katalvlaran/unitgrid/unit"
)

// arc is one usable direction of a registered conversion edge.
type arc struct {
	to string
	tr Transform // from-unit value → to-unit value
}

// Graph holds per-symbol adjacency lists built from a registry snapshot.
// Rebuild after mutating the registry; per the single-writer model no
// conversion may run concurrently with a registry mutation.
type Graph struct {
	reg *unit.Registry
	adj map[string][]arc
}

// NewGraph builds the conversion graph from the registry's current edges.
func NewGraph(reg *unit.Registry) (*Graph, error) {
	if reg == nil {
		return nil, ErrRegistryNil
	}
	g := &Graph{reg: reg}
	g.Rebuild()
	return g, nil
}

// Rebuild re-snapshots the registry's edge list. Arcs keep registration
// order, which fixes BFS tie-breaking and keeps composed factors
// deterministic.
func (g *Graph) Rebuild() {
	edges := g.reg.Edges()
	adj := make(map[string][]arc, len(edges)*2)
	for _, e := range edges {
		fwd := edgeTransform(e)
		adj[e.From] = append(adj[e.From], arc{to: e.To, tr: fwd})
		adj[e.To] = append(adj[e.To], arc{to: e.From, tr: fwd.inverse()})
	}
	g.adj = adj
}

// edgeTransform normalizes a registry edge into linear v·Factor+Offset form.
func edgeTransform(e unit.Edge) Transform {
	if e.OffsetBefore {
		// (v + o)·f  ≡  v·f + o·f
		return Transform{Factor: e.Factor, Offset: e.Offset * e.Factor}
	}
	return Transform{Factor: e.Factor, Offset: e.Offset}
}

// Simple returns the transform converting a value in simple unit `from`
// into simple unit `to`. Both symbols must be registered and share a
// dimension; the minimal-hop edge path is composed, with offset edges
// admitted only as the first or last hop.
func (g *Graph) Simple(from, to string) (Transform, error) {
	fromDef, err := g.reg.Lookup(from)
	if err != nil {
		return Identity, err
	}
	toDef, err := g.reg.Lookup(to)
	if err != nil {
		return Identity, err
	}
	if !fromDef.Dim.Equal(toDef.Dim) {
		return Identity, fmt.Errorf("%w: %q is %s, %q is %s",
			ErrIncompatibleUnits, from, fromDef.Dim, to, toDef.Dim)
	}
	if from == to {
		return Identity, nil
	}

	hops, err := g.shortestPath(from, to)
	if err != nil {
		return Identity, err
	}
	return composePath(from, to, hops)
}

// shortestPath runs BFS from src and reconstructs the arc sequence to dst.
// Neighbors are scanned in registration order, so among equal-length paths
// the earliest-registered one wins.
func (g *Graph) shortestPath(src, dst string) ([]arc, error) {
	type parentLink struct {
		prev string
		via  arc
	}
	visited := map[string]bool{src: true}
	parent := make(map[string]parentLink)
	queue := []string{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			break
		}
		for _, a := range g.adj[cur] {
			if visited[a.to] {
				continue
			}
			visited[a.to] = true
			parent[a.to] = parentLink{prev: cur, via: a}
			queue = append(queue, a.to)
		}
	}
	if !visited[dst] {
		return nil, fmt.Errorf("%w: %q → %q", ErrNoConversionPath, src, dst)
	}

	// walk parents back from dst, then reverse
	var rev []arc
	for cur := dst; cur != src; {
		link := parent[cur]
		rev = append(rev, link.via)
		cur = link.prev
	}
	hops := make([]arc, len(rev))
	for i := range rev {
		hops[i] = rev[len(rev)-1-i]
	}
	return hops, nil
}

// composePath folds the hop transforms left to right, rejecting offset
// edges anywhere but the path's endpoints.
func composePath(from, to string, hops []arc) (Transform, error) {
	total := Identity
	for i, h := range hops {
		if !h.tr.Ratio() && i != 0 && i != len(hops)-1 {
			return Identity, fmt.Errorf("%w: %q → %q passes an offset edge mid-path", ErrAffineChain, from, to)
		}
		total = total.then(h.tr)
	}
	return total, nil
}

// Between returns the transform converting a value tagged with compound
// unit src into compound unit dst.
//
// Both units are simplified first. Single-symbol units of power one convert
// directly (the only shape where an affine offset is meaningful). Otherwise
// conversion is term-by-term: every source term must pair with a target
// term of equal dimension and equal exponent, and each pair's simple-unit
// factor is raised to that exponent; a structural mismatch is
// ErrIncompatibleUnits even when the aggregate dimensions coincide.
func (g *Graph) Between(src, dst unit.Unit) (Transform, error) {
	s, d := src.Simplify(), dst.Simplify()

	sDim, err := g.reg.DimensionOf(s)
	if err != nil {
		return Identity, err
	}
	dDim, err := g.reg.DimensionOf(d)
	if err != nil {
		return Identity, err
	}
	if !sDim.Equal(dDim) {
		return Identity, fmt.Errorf("%w: %q is %s, %q is %s", ErrIncompatibleUnits, s, sDim, d, dDim)
	}
	if s.Equal(d) {
		return Identity, nil
	}

	// single simple unit on both sides: full affine conversion allowed
	if len(s.Terms) == 1 && len(d.Terms) == 1 &&
		s.Terms[0].Exp == 1 && d.Terms[0].Exp == 1 {
		return g.Simple(s.Terms[0].Symbol, d.Terms[0].Symbol)
	}

	return g.termwise(s, d)
}

// termwise pairs source terms with target terms and multiplies factors
// raised to the shared exponent.
func (g *Graph) termwise(s, d unit.Unit) (Transform, error) {
	if len(s.Terms) != len(d.Terms) {
		return Identity, fmt.Errorf("%w: %q and %q differ in term structure", ErrIncompatibleUnits, s, d)
	}

	used := make([]bool, len(d.Terms))
	factor := 1.0
	for _, st := range s.Terms {
		sDef, err := g.reg.Lookup(st.Symbol)
		if err != nil {
			return Identity, err
		}
		if sDef.Affine() {
			return Identity, fmt.Errorf("%w: %q", ErrAffineCompound, st.Symbol)
		}

		matched := false
		for j, dt := range d.Terms {
			if used[j] || dt.Exp != st.Exp {
				continue
			}
			dDef, err := g.reg.Lookup(dt.Symbol)
			if err != nil {
				return Identity, err
			}
			if !dDef.Dim.Equal(sDef.Dim) {
				continue
			}
			if dDef.Affine() {
				return Identity, fmt.Errorf("%w: %q", ErrAffineCompound, dt.Symbol)
			}

			tr, err := g.Simple(st.Symbol, dt.Symbol)
			if err != nil {
				return Identity, err
			}
			// exponent applies to the conversion factor, not the value
			factor *= math.Pow(tr.Factor, float64(st.Exp))
			used[j] = true
			matched = true
			break
		}
		if !matched {
			return Identity, fmt.Errorf("%w: no target term matches %s^%d", ErrIncompatibleUnits, st.Symbol, st.Exp)
		}
	}
	return Transform{Factor: factor}, nil
}
