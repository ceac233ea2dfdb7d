package depgraph

import (
	"github.com/katalvlaran/unitgrid/formula"
)

// ResolveName maps a named-range identifier to its range; ok is false for
// unknown names (which then contribute no dependency edge — the evaluator
// reports them as #NAME? independently).
type ResolveName func(name string) (formula.Range, bool)

// outgoing is one cell's recorded precedents: the snapshot of its
// formula's references at SetFormula time.
type outgoing struct {
	cells  []formula.Address
	ranges []formula.Range
}

// Graph is the dependency graph: dependent → depended-on edges plus the
// reverse adjacency used for recompute planning. All maps are keyed by the
// canonical "A1" address string.
type Graph struct {
	// forward: dependent cell → its precedents
	out map[string]outgoing

	// reverse: precedent cell → dependent cells, insertion-ordered
	dependents map[string][]formula.Address

	// range observers in insertion order: dependents watching whole ranges
	observers []rangeObserver
}

type rangeObserver struct {
	r         formula.Range
	dependent formula.Address
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		out:        make(map[string]outgoing),
		dependents: make(map[string][]formula.Address),
	}
}

// SetFormula replaces addr's outgoing edges with the references of its new
// formula. Pass refs from formula.References; names resolve through
// resolve (nil means no names exist). Duplicate references collapse to one
// edge.
func (g *Graph) SetFormula(addr formula.Address, refs []formula.Ref, resolve ResolveName) {
	g.Clear(addr)

	var o outgoing
	seenCell := make(map[string]bool)
	for _, ref := range refs {
		switch ref.Kind {
		case formula.RefCell:
			if key := ref.Cell.String(); !seenCell[key] {
				seenCell[key] = true
				o.cells = append(o.cells, ref.Cell)
			}
		case formula.RefRange:
			o.ranges = append(o.ranges, ref.Range)
		case formula.RefName:
			if resolve == nil {
				continue
			}
			if r, ok := resolve(ref.Name); ok {
				o.ranges = append(o.ranges, r)
			}
		}
	}

	for _, c := range o.cells {
		g.dependents[c.String()] = append(g.dependents[c.String()], addr)
	}
	for _, r := range o.ranges {
		g.observers = append(g.observers, rangeObserver{r: r, dependent: addr})
	}
	g.out[addr.String()] = o
}

// Clear removes addr's outgoing edges (the cell no longer holds a formula).
func (g *Graph) Clear(addr formula.Address) {
	key := addr.String()
	o, ok := g.out[key]
	if !ok {
		return
	}
	for _, c := range o.cells {
		g.dependents[c.String()] = removeAddr(g.dependents[c.String()], addr)
	}
	if len(o.ranges) > 0 {
		kept := g.observers[:0]
		for _, obs := range g.observers {
			if obs.dependent != addr {
				kept = append(kept, obs)
			}
		}
		g.observers = kept
	}
	delete(g.out, key)
}

// DependentsOf returns the cells whose formulas reference addr, directly
// or through a containing range — the dependency seed the cell-store
// contract needs, with this graph as the canonical source. Order is
// deterministic (direct edges first, then range observers, both in
// insertion order); duplicates are collapsed.
func (g *Graph) DependentsOf(addr formula.Address) []formula.Address {
	var out []formula.Address
	seen := make(map[string]bool)
	for _, d := range g.dependents[addr.String()] {
		if !seen[d.String()] {
			seen[d.String()] = true
			out = append(out, d)
		}
	}
	for _, obs := range g.observers {
		if obs.r.Contains(addr) && !seen[obs.dependent.String()] {
			seen[obs.dependent.String()] = true
			out = append(out, obs.dependent)
		}
	}
	return out
}

// precedentsWithin returns addr's precedent cells restricted to the given
// set, counting each at most once (range members expand here).
func (g *Graph) precedentsWithin(addr formula.Address, within map[string]bool) []string {
	o := g.out[addr.String()]
	var keys []string
	seen := make(map[string]bool)
	for _, c := range o.cells {
		if k := c.String(); within[k] && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, r := range o.ranges {
		for _, c := range r.Cells() {
			if k := c.String(); within[k] && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Plan computes the recalculation schedule after a write to edited:
// the transitive dependent closure in a valid topological order, plus the
// members of any dependency cycle reachable from the edit (excluded from
// the order; the caller marks them circular). Cells downstream of a cycle
// without being on it stay in the order, after the members, so evaluating
// them picks up the circular error as a value. The edited cell itself
// appears in the order only when a cycle pulls it in as a dependent.
func (g *Graph) Plan(edited formula.Address) (order, cycle []formula.Address) {
	// 1. Affected closure: BFS over dependents, discovery-ordered.
	affected := make(map[string]bool)
	var discovery []formula.Address
	queue := g.DependentsOf(edited)
	for _, d := range queue {
		affected[d.String()] = true
		discovery = append(discovery, d)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range g.DependentsOf(cur) {
			if k := d.String(); !affected[k] {
				affected[k] = true
				discovery = append(discovery, d)
				queue = append(queue, d)
			}
		}
	}
	if len(discovery) == 0 {
		return nil, nil
	}

	// 2. Kahn over the affected subgraph only: in-degrees count precedents
	// inside the closure. Ties break by discovery order for reproducibility.
	indeg := make(map[string]int, len(discovery))
	byKey := make(map[string]formula.Address, len(discovery))
	for _, a := range discovery {
		k := a.String()
		byKey[k] = a
		indeg[k] = len(g.precedentsWithin(a, affected))
	}

	var ready []formula.Address
	for _, a := range discovery {
		if indeg[a.String()] == 0 {
			ready = append(ready, a)
		}
	}
	done := make(map[string]bool, len(discovery))
	drain := func() {
		for len(ready) > 0 {
			cur := ready[0]
			ready = ready[1:]
			order = append(order, cur)
			done[cur.String()] = true
			for _, d := range g.DependentsOf(cur) {
				k := d.String()
				if !affected[k] || done[k] {
					continue
				}
				indeg[k]--
				if indeg[k] == 0 {
					ready = append(ready, d)
				}
			}
		}
	}
	drain()

	// 3. Kahn stalls only when a cycle blocks it. Split the stalled set
	// into true cycle members and cells merely downstream of one: members
	// are reported for circular marking, then their dependents are
	// released so the stragglers still get evaluated (the circular error
	// reaches them as a propagated value, like any upstream error).
	var stalled []formula.Address
	for _, a := range discovery {
		if !done[a.String()] {
			stalled = append(stalled, a)
		}
	}
	if len(stalled) == 0 {
		return order, nil
	}
	members := g.cycleMembers(stalled)
	for _, a := range stalled {
		k := a.String()
		if !members[k] {
			continue
		}
		cycle = append(cycle, a)
		done[k] = true
	}
	for _, a := range cycle {
		for _, d := range g.DependentsOf(a) {
			k := d.String()
			if !affected[k] || done[k] || members[k] {
				continue
			}
			indeg[k]--
			if indeg[k] == 0 {
				ready = append(ready, d)
			}
		}
	}
	drain()

	// Every stalled cell is on a cycle or strictly downstream of one, so
	// the second drain schedules all stragglers; sweep as a safety net.
	for _, a := range stalled {
		if !done[a.String()] {
			cycle = append(cycle, a)
		}
	}
	return order, cycle
}

// cycleMembers finds the stalled cells that actually lie on a cycle:
// a Gray/Black depth-first walk over the stalled subgraph where a back
// edge to a Gray node marks every cell on the stack from that node up.
func (g *Graph) cycleMembers(stalled []formula.Address) map[string]bool {
	const (
		white = iota
		gray
		black
	)
	within := make(map[string]bool, len(stalled))
	for _, a := range stalled {
		within[a.String()] = true
	}
	color := make(map[string]int, len(stalled))
	members := make(map[string]bool)
	var stack []string

	var visit func(a formula.Address)
	visit = func(a formula.Address) {
		key := a.String()
		color[key] = gray
		stack = append(stack, key)
		for _, d := range g.DependentsOf(a) {
			k := d.String()
			if !within[k] {
				continue
			}
			switch color[k] {
			case white:
				visit(d)
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					members[stack[i]] = true
					if stack[i] == k {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[key] = black
	}
	for _, a := range stalled {
		if color[a.String()] == white {
			visit(a)
		}
	}
	return members
}

// HasFormula reports whether addr currently records outgoing edges.
func (g *Graph) HasFormula(addr formula.Address) bool {
	_, ok := g.out[addr.String()]
	return ok
}

func removeAddr(list []formula.Address, addr formula.Address) []formula.Address {
	kept := list[:0]
	for _, a := range list {
		if a != addr {
			kept = append(kept, a)
		}
	}
	return kept
}
