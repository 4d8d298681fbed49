// Package group implements named fixture groups with set algebra
// (union, intersection, difference, symmetric difference). A group
// holds non-owning references to its fixtures — the rig owns
// lifetime; groups exist only to name and combine subsets of it — and
// is directly usable as a selector.Selector.
package group

import (
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
)

// Group is a labeled membership set of fixtures. Its zero value is an
// empty, unnamed group.
type Group struct {
	Name    string
	members map[*fixture.Fixture]struct{}
	order   []*fixture.Fixture
}

// New constructs a group containing fixtures, in the given order.
// Duplicate fixtures are deduplicated, keeping first occurrence.
func New(name string, fixtures ...*fixture.Fixture) *Group {
	g := &Group{Name: name, members: map[*fixture.Fixture]struct{}{}}
	for _, f := range fixtures {
		g.add(f)
	}
	return g
}

func (g *Group) add(f *fixture.Fixture) {
	if _, ok := g.members[f]; ok {
		return
	}
	g.members[f] = struct{}{}
	g.order = append(g.order, f)
}

// Select implements selector.Selector: a group used as a selector
// yields its own members regardless of the rig passed in, since a
// group's membership is already scoped to fixtures the rig owns.
func (g *Group) Select(*rig.Rig) []*fixture.Fixture {
	return g.All()
}

// All returns the group's fixtures in insertion order.
func (g *Group) All() []*fixture.Fixture {
	out := make([]*fixture.Fixture, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of fixtures in the group.
func (g *Group) Len() int { return len(g.order) }

// Contains reports whether f is a member of g.
func (g *Group) Contains(f *fixture.Fixture) bool {
	_, ok := g.members[f]
	return ok
}

// Union returns a new, unnamed group containing every fixture in
// either g or other.
func (g *Group) Union(other *Group) *Group {
	out := New("")
	for _, f := range g.order {
		out.add(f)
	}
	for _, f := range other.order {
		out.add(f)
	}
	return out
}

// Intersection returns a new, unnamed group containing fixtures in
// both g and other.
func (g *Group) Intersection(other *Group) *Group {
	out := New("")
	for _, f := range g.order {
		if other.Contains(f) {
			out.add(f)
		}
	}
	return out
}

// Difference returns a new, unnamed group containing fixtures in g
// but not in other.
func (g *Group) Difference(other *Group) *Group {
	out := New("")
	for _, f := range g.order {
		if !other.Contains(f) {
			out.add(f)
		}
	}
	return out
}

// SymmetricDifference returns a new, unnamed group containing
// fixtures in exactly one of g or other.
func (g *Group) SymmetricDifference(other *Group) *Group {
	out := New("")
	for _, f := range g.order {
		if !other.Contains(f) {
			out.add(f)
		}
	}
	for _, f := range other.order {
		if !g.Contains(f) {
			out.add(f)
		}
	}
	return out
}

// BuildRegistry walks every fixture in r and registers it into a
// named Group for each name in its declared Groups, in rig insertion
// order. Fixtures register into their declared groups this way
// without a group holding an owning reference to the rig: the
// registry is rebuilt from the rig's current fixtures, never mutated
// independently of it.
func BuildRegistry(r *rig.Rig) map[string]*Group {
	registry := map[string]*Group{}
	for _, f := range r.Fixtures() {
		for _, name := range f.Groups {
			g, ok := registry[name]
			if !ok {
				g = New(name)
				registry[name] = g
			}
			g.add(f)
		}
	}
	return registry
}
