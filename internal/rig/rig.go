// Package rig implements the fixture collection: insertion-ordered
// storage with overlap-checked addressing, and batch encoding of
// fixture states into per-universe DMX channel maps.
package rig

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
)

// ErrOverlap is returned by Add when a new fixture's occupied channel
// range intersects an existing fixture in the same universe.
var ErrOverlap = errors.New("rig: fixture address range overlaps an existing fixture")

// Rig is an ordered collection of fixtures with addressing
// integrity: it rejects insertion of a fixture whose occupied channel
// range intersects any existing fixture in the same universe.
// Iteration order is insertion order and is stable; effect templates
// rely on it for per-fixture index.
type Rig struct {
	fixtures []*fixture.Fixture
}

// New constructs an empty rig.
func New() *Rig {
	return &Rig{}
}

// Add inserts f, rejecting it with ErrOverlap if its channel range
// intersects any existing fixture in the same universe. Adjacency
// (ranges that touch but don't overlap) is allowed. On rejection the
// rig is left unchanged.
func (r *Rig) Add(f *fixture.Fixture) error {
	a, b := f.StartAddress, f.EndAddress()
	for _, existing := range r.fixtures {
		if existing.Universe != f.Universe {
			continue
		}
		ea, eb := existing.StartAddress, existing.EndAddress()
		if a <= eb && ea <= b {
			return fmt.Errorf("%w: universe %d, channels %d-%d overlap existing %d-%d",
				ErrOverlap, f.Universe, a, b, ea, eb)
		}
	}
	r.fixtures = append(r.fixtures, f)
	return nil
}

// Fixtures returns the rig's fixtures in insertion order. The
// returned slice is a copy; mutating it does not affect the rig.
func (r *Rig) Fixtures() []*fixture.Fixture {
	out := make([]*fixture.Fixture, len(r.fixtures))
	copy(out, r.fixtures)
	return out
}

// Len returns the number of fixtures in the rig.
func (r *Rig) Len() int { return len(r.fixtures) }

// Universes returns the sorted, deduplicated set of universes any
// fixture in the rig occupies; this is the set a transport services
// at play time.
func (r *Rig) Universes() []uint16 {
	seen := map[uint16]struct{}{}
	for _, f := range r.fixtures {
		seen[f.Universe] = struct{}{}
	}
	out := make([]uint16, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Encode batch-encodes a fixture->state map into per-universe DMX
// channel maps (1-indexed channel -> byte), discarding any channel
// outside [1, 512]. Fixtures absent from states are omitted from the
// output entirely (callers are expected to have populated state for
// every fixture of interest; the engine always does).
func (r *Rig) Encode(states map[*fixture.Fixture]blend.State) map[uint16]map[int]byte {
	out := make(map[uint16]map[int]byte)
	for _, f := range r.fixtures {
		state, ok := states[f]
		if !ok {
			continue
		}
		universeMap, ok := out[f.Universe]
		if !ok {
			universeMap = make(map[int]byte)
			out[f.Universe] = universeMap
		}
		for offset, b := range f.Type.Encode(state) {
			ch := f.StartAddress + offset
			if ch < 1 || ch > 512 {
				continue
			}
			universeMap[ch] = b
		}
	}
	return out
}
