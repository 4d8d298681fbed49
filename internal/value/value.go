// Package value implements the tagged union backing attribute
// values: a FixtureState or FixtureDelta entry is always exactly one
// of a scalar, a tuple, a Color, a Raw channel list, or an Opaque
// non-numeric annotation.
package value

import "github.com/roguenand/dmxld/internal/color"

// Kind distinguishes which field of a Value is meaningful.
type Kind int

const (
	// KindScalar holds a single normalized float64 in Scalar.
	KindScalar Kind = iota
	// KindTuple holds an arbitrary-length tuple in Tuple (used for
	// attributes that take multiple numbers but aren't a Color, e.g.
	// raw pan/tilt pairs authored together).
	KindTuple
	// KindColor holds a color.Color in Color; subject to an
	// attribute's convert() unless wrapped as Raw.
	KindColor
	// KindRaw holds a color.Raw in Raw; bypasses conversion entirely.
	KindRaw
	// KindOpaque holds an arbitrary non-numeric value in Opaque, e.g.
	// a gobo-wheel preset name or a scene author's free-form tag
	// stashed under a key no attribute codec reads. It has no
	// component-wise arithmetic: only the SET blend op is meaningful
	// against it.
	KindOpaque
)

// Value is a single FixtureState/FixtureDelta entry: exactly one of
// its fields is meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Scalar float64
	Tuple  []float64
	Color  color.Color
	Raw    color.Raw
	Opaque any
}

// Scalar constructs a KindScalar value.
func Scalar(v float64) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// Tuple constructs a KindTuple value.
func Tuple(v ...float64) Value {
	return Value{Kind: KindTuple, Tuple: v}
}

// FromColor constructs a KindColor value.
func FromColor(c color.Color) Value {
	return Value{Kind: KindColor, Color: c}
}

// FromRaw constructs a KindRaw value.
func FromRaw(c color.Raw) Value {
	return Value{Kind: KindRaw, Raw: c}
}

// FromOpaque constructs a KindOpaque value wrapping an arbitrary
// non-numeric annotation.
func FromOpaque(v any) Value {
	return Value{Kind: KindOpaque, Opaque: v}
}

// Channels returns the value's components as a float64 slice,
// regardless of Kind: a scalar becomes a one-element slice, tuple and
// color/raw values return their backing slice. It is used by the
// blend algebra to treat any value as "an arity-N tuple" uniformly.
func (v Value) Channels() []float64 {
	switch v.Kind {
	case KindScalar:
		return []float64{v.Scalar}
	case KindTuple:
		return v.Tuple
	case KindColor:
		return []float64(v.Color)
	case KindRaw:
		return []float64(v.Raw)
	default:
		return nil
	}
}

// WithChannels rebuilds a value of the same Kind from new component
// data, preserving which union arm is active. Used when the blend
// algebra produces a new component slice and needs to wrap it back
// into the same kind of value it started from.
func (v Value) WithChannels(components []float64) Value {
	switch v.Kind {
	case KindScalar:
		c := 0.0
		if len(components) > 0 {
			c = components[0]
		}
		return Scalar(c)
	case KindTuple:
		return Value{Kind: KindTuple, Tuple: components}
	case KindColor:
		return Value{Kind: KindColor, Color: color.Color(components)}
	case KindRaw:
		return Value{Kind: KindRaw, Raw: color.Raw(components)}
	default:
		return v
	}
}

// IsNumeric reports whether the value supports ADD_CLAMP/MUL
// component-wise arithmetic: scalar, tuple, color, and raw are all
// numeric tuples of some arity; Opaque is not, so only SET is
// meaningful against it.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindScalar, KindTuple, KindColor, KindRaw:
		return true
	default:
		return false
	}
}

// Scale multiplies every component by factor, preserving Kind. Used
// to scale a delta operand (e.g. for tempo/master attenuation) while
// leaving its BlendOp and value shape untouched.
func (v Value) Scale(factor float64) Value {
	components := v.Channels()
	scaled := make([]float64, len(components))
	for i, c := range components {
		scaled[i] = c * factor
	}
	return v.WithChannels(scaled)
}
