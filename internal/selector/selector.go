// Package selector implements the Selector contract: a selector is
// either a group, a concrete fixture collection, or a function from a
// rig to the fixtures it picks out. It sits above rig and fixture so
// that the rig package does not depend on it; a *group.Group
// satisfies Selector directly without importing this package.
package selector

import (
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
)

// Selector selects a subset of a rig's fixtures, in a defined order.
// A *group.Group satisfies this interface directly; Single and Func
// adapt the other two forms a selector can take: a concrete fixture,
// and a plain function.
type Selector interface {
	Select(r *rig.Rig) []*fixture.Fixture
}

// Func adapts a plain function to Selector.
type Func func(r *rig.Rig) []*fixture.Fixture

// Select implements Selector.
func (f Func) Select(r *rig.Rig) []*fixture.Fixture { return f(r) }

// single adapts one fixture to Selector, so "a fixture" and "a group"
// are interchangeable wherever a selector is expected.
type single struct{ f *fixture.Fixture }

// Select implements Selector.
func (s single) Select(*rig.Rig) []*fixture.Fixture { return []*fixture.Fixture{s.f} }

// Single wraps one fixture as a one-element Selector.
func Single(f *fixture.Fixture) Selector { return single{f} }

// All selects every fixture in the rig, in insertion order.
func All() Selector {
	return Func(func(r *rig.Rig) []*fixture.Fixture { return r.Fixtures() })
}

// InUniverse selects every fixture in the given universe, in
// insertion order.
func InUniverse(universe uint16) Selector {
	return Func(func(r *rig.Rig) []*fixture.Fixture {
		var out []*fixture.Fixture
		for _, f := range r.Fixtures() {
			if f.Universe == universe {
				out = append(out, f)
			}
		}
		return out
	})
}
