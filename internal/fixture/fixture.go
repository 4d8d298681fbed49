// Package fixture implements the fixture model: fixture types
// (ordered attribute lists) that encode a FixtureState into DMX
// channel bytes, and fixture instances (universe, address, position,
// group membership) that place a type in a rig.
package fixture

import (
	"fmt"

	"github.com/roguenand/dmxld/internal/attribute"
	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/value"
	"github.com/roguenand/dmxld/internal/vec3"
)

// Type is an ordered sequence of attributes. Its total channel count
// is the sum of its attributes' channel counts.
type Type struct {
	Name       string
	Attributes []attribute.Attribute
}

// NewType constructs a fixture type from an ordered attribute list.
func NewType(name string, attrs ...attribute.Attribute) *Type {
	return &Type{Name: name, Attributes: attrs}
}

// ChannelCount returns the total number of DMX slots this type
// occupies.
func (t *Type) ChannelCount() int {
	n := 0
	for _, a := range t.Attributes {
		n += a.ChannelCount()
	}
	return n
}

// SegmentCount returns the maximum Segments() across the type's
// attributes, always >= 1.
func (t *Type) SegmentCount() int {
	max := 1
	for _, a := range t.Attributes {
		if s := a.Segments(); s > max {
			max = s
		}
	}
	return max
}

// Encode walks the type's attributes left to right at a running
// channel offset, resolving each attribute's value by its resolution
// order (segmented color attributes iterate per-segment; plain color
// attributes prefer a unified "color" key; everything else reads its
// own key or falls back to the attribute default), and returns an
// offset-keyed map of bytes (offset 0 = the fixture's first channel).
// The caller (Rig) relocates these by start_address + offset.
func (t *Type) Encode(state blend.State) map[int]byte {
	out := make(map[int]byte, t.ChannelCount())
	offset := 0
	for _, a := range t.Attributes {
		offset = encodeAttribute(a, state, out, offset)
	}
	return out
}

func encodeAttribute(a attribute.Attribute, state blend.State, out map[int]byte, offset int) int {
	segments := a.Segments()
	colorAttr, isColorAttr := a.(attribute.ColorAttribute)

	if segments > 1 && a.Name() == "color" {
		perSegment := a.ChannelCount() / segments
		for s := 0; s < segments; s++ {
			v := resolveSegmentValue(a, colorAttr, state, s)
			writeBytes(out, offset, a.Encode(v))
			offset += perSegment
		}
		return offset
	}

	var v value.Value
	switch {
	case isColorAttr && hasKey(state, "color"):
		v = state["color"]
	default:
		if sv, ok := state[a.Name()]; ok {
			v = sv
		} else {
			v = a.Default()
		}
	}
	writeBytes(out, offset, a.Encode(v))
	return offset + a.ChannelCount()
}

// resolveSegmentValue resolves one segment of a segmented color
// attribute: a per-segment "color_<s>" key wins, else the unified
// "color" key broadcasts to every segment, else the attribute
// default.
func resolveSegmentValue(a attribute.Attribute, colorAttr attribute.ColorAttribute, state blend.State, s int) value.Value {
	key := fmt.Sprintf("color_%d", s)
	if v, ok := state[key]; ok {
		return v
	}
	if v, ok := state["color"]; ok {
		return v
	}
	_ = colorAttr
	return a.Default()
}

func hasKey(state blend.State, key string) bool {
	_, ok := state[key]
	return ok
}

func writeBytes(out map[int]byte, offset int, bytes []byte) {
	for i, b := range bytes {
		out[offset+i] = b
	}
}

// Fixture is a physical luminaire occupying a contiguous channel
// range within a universe. Two fixtures are equal iff they are the
// same instance; Fixture values are always handled as *Fixture so
// that identity comparison (pointer equality) and map keys work
// directly without a separate hashing scheme.
type Fixture struct {
	Type         *Type
	Universe     uint16
	StartAddress int
	Pos          vec3.Vec3
	Groups       []string
	Meta         map[string]string
}

// New constructs a fixture instance. startAddress is 1-indexed.
func New(t *Type, universe uint16, startAddress int, pos vec3.Vec3, groups ...string) *Fixture {
	return &Fixture{
		Type:         t,
		Universe:     universe,
		StartAddress: startAddress,
		Pos:          pos,
		Groups:       groups,
		Meta:         map[string]string{},
	}
}

// EndAddress returns the last (inclusive, 1-indexed) channel this
// fixture occupies within its universe.
func (f *Fixture) EndAddress() int {
	return f.StartAddress + f.Type.ChannelCount() - 1
}

// SegmentCount returns the fixture's maximum segment count, derived
// from its type.
func (f *Fixture) SegmentCount() int {
	return f.Type.SegmentCount()
}

// InGroup reports whether name is one of the fixture's declared
// groups.
func (f *Fixture) InGroup(name string) bool {
	for _, g := range f.Groups {
		if g == name {
			return true
		}
	}
	return false
}
