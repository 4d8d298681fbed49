// Package attribute implements the per-attribute DMX codecs: the
// capability interface every fixture-type attribute satisfies
// (name, channel count, default, encode, optional convert/segments),
// and the concrete attributes a FixtureType is built from (dimmer,
// RGB/RGBW/RGBA/RGBAW, strobe, pan/tilt, gobo, skip).
package attribute

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/roguenand/dmxld/internal/color"
	"github.com/roguenand/dmxld/internal/value"
)

// Attribute is the capability interface a FixtureType attribute must
// satisfy. Segments, when > 1, means the attribute occupies
// segments*(ChannelCount/segments) consecutive channels and may be
// addressed per-segment by the fixture-type encoder.
type Attribute interface {
	// Name is the key under which the attribute reads from a
	// FixtureState.
	Name() string
	// ChannelCount is the number of DMX slots the attribute consumes
	// in total (across all of its segments, if any).
	ChannelCount() int
	// Default is the neutral value used when the state has no entry
	// for Name().
	Default() value.Value
	// Encode produces channel bytes for v. For a segmented attribute
	// this returns bytes for one segment (ChannelCount()/Segments()
	// bytes); the fixture-type encoder drives iteration across
	// segments.
	Encode(v value.Value) []byte
	// Segments is the number of independently addressable segments,
	// >= 1. Only color attributes are expected to report > 1.
	Segments() int
}

// Converter maps an arbitrary color tuple into an attribute's native
// channel format (e.g. RGB -> RGBW extracts a white component).
// Converter is resolved once per attribute instance at construction
// time so the hot encode path never performs a strategy lookup.
type Converter func(c color.Color) []float64

// ColorAttribute is the subset of attributes that carry a Converter;
// FixtureType's encoder type-asserts to this interface to find out
// whether an attribute's value should be resolved through the color
// resolution rules (unified "color" key, per-segment overrides) rather
// than read directly off its own key.
type ColorAttribute interface {
	Attribute
	Convert(c color.Color) []float64
}

func clampByte(f float64) byte {
	if f < 0 {
		f = 0
	}
	if f > 255 {
		f = 255
	}
	return byte(math.Trunc(f))
}

func scalarOf(v value.Value) float64 {
	if v.Kind == value.KindScalar {
		return v.Scalar
	}
	ch := v.Channels()
	if len(ch) > 0 {
		return ch[0]
	}
	return 0
}

func encode8(v float64) []byte {
	return []byte{clampByte(v * 255)}
}

func encode16(v float64) []byte {
	raw := v * 65535
	if raw < 0 {
		raw = 0
	}
	if raw > 65535 {
		raw = 65535
	}
	u := uint16(math.Trunc(raw))
	coarse := byte(u >> 8)
	fine := byte(u & 0xff)
	return []byte{coarse, fine}
}

// base holds the fields common to every concrete attribute.
type base struct {
	name     string
	channels int
	def      value.Value
	segments int
}

func (b base) Name() string         { return b.name }
func (b base) ChannelCount() int    { return b.channels }
func (b base) Default() value.Value { return b.def }
func (b base) Segments() int {
	if b.segments < 1 {
		return 1
	}
	return b.segments
}

// Dimmer is an 8- or 16-bit scalar attribute named "dimmer".
type Dimmer struct {
	base
	sixteenBit bool
}

// NewDimmer constructs a dimmer attribute. sixteenBit selects 16-bit
// (coarse/fine) encoding; default value is 0 (blacked out).
func NewDimmer(sixteenBit bool) *Dimmer {
	n := 1
	if sixteenBit {
		n = 2
	}
	return &Dimmer{base: base{name: "dimmer", channels: n, def: value.Scalar(0)}, sixteenBit: sixteenBit}
}

func (d *Dimmer) Encode(v value.Value) []byte {
	if d.sixteenBit {
		return encode16(scalarOf(v))
	}
	return encode8(scalarOf(v))
}

// Strobe is an 8-bit scalar attribute named "strobe".
type Strobe struct{ base }

// NewStrobe constructs a strobe attribute, default 0.
func NewStrobe() *Strobe {
	return &Strobe{base{name: "strobe", channels: 1, def: value.Scalar(0)}}
}

func (s *Strobe) Encode(v value.Value) []byte { return encode8(scalarOf(v)) }

// PanTilt is an 8- or 16-bit scalar attribute used for pan and tilt.
type PanTilt struct {
	base
	sixteenBit bool
}

// NewPan constructs a pan attribute, default 0.5 (centered).
func NewPan(sixteenBit bool) *PanTilt { return newPanTilt("pan", sixteenBit) }

// NewTilt constructs a tilt attribute, default 0.5 (centered).
func NewTilt(sixteenBit bool) *PanTilt { return newPanTilt("tilt", sixteenBit) }

func newPanTilt(name string, sixteenBit bool) *PanTilt {
	n := 1
	if sixteenBit {
		n = 2
	}
	return &PanTilt{base: base{name: name, channels: n, def: value.Scalar(0.5)}, sixteenBit: sixteenBit}
}

func (p *PanTilt) Encode(v value.Value) []byte {
	if p.sixteenBit {
		return encode16(scalarOf(v))
	}
	return encode8(scalarOf(v))
}

// Gobo is a plain single-channel scalar passthrough: encode(v) =
// [to_dmx(v)], default 0, with no wheel-position concept. Gobo-wheel
// position selection is left to the show author via the raw 0-1
// scalar, mirroring original_source/src/dmxld/attributes.py's GoboAttr.
type Gobo struct{ base }

// NewGobo constructs a gobo attribute, default 0.
func NewGobo() *Gobo {
	return &Gobo{base{name: "gobo", channels: 1, def: value.Scalar(0)}}
}

func (g *Gobo) Encode(v value.Value) []byte { return encode8(scalarOf(v)) }

var skipCounter uint64

// Skip is an opaque filler attribute emitting count zero bytes. Each
// instance carries a process-unique synthetic name so two skips in
// the same fixture type are distinct state keys that are never read.
type Skip struct{ base }

// NewSkip constructs a skip attribute occupying count channels.
func NewSkip(count int) *Skip {
	id := atomic.AddUint64(&skipCounter, 1)
	return &Skip{base{
		name:     fmt.Sprintf("__skip_%d", id),
		channels: count,
		def:      value.Scalar(0),
	}}
}

func (s *Skip) Encode(value.Value) []byte {
	return make([]byte, s.channels)
}

// colorBase is shared by the color-family attributes; it implements
// ColorAttribute via a per-instance Converter resolved at
// construction (never looked up from ambient process state in the
// hot path).
type colorBase struct {
	base
	arity     int
	convert   Converter
	perByte   func(c []float64) []byte
}

func (c *colorBase) Convert(col color.Color) []float64 { return c.convert(col) }

func (c *colorBase) Encode(v value.Value) []byte {
	var comps []float64
	switch v.Kind {
	case value.KindRaw:
		comps = []float64(v.Raw)
	case value.KindColor:
		comps = c.convert(v.Color)
	default:
		comps = v.Channels()
	}
	out := make([]float64, c.arity)
	for i := 0; i < c.arity && i < len(comps); i++ {
		out[i] = comps[i]
	}
	return c.perByte(out)
}

func encode8Tuple(c []float64) []byte {
	out := make([]byte, len(c))
	for i, v := range c {
		out[i] = clampByte(v * 255)
	}
	return out
}

// RGBOption configures an RGB-family attribute: the global color
// conversion strategy (resolved once, at construction) or a number of
// LED segments.
type RGBOption func(*rgbOptions)

type rgbOptions struct {
	strategy color.Strategy
	segments int
}

// WithStrategy overrides the process-wide default color strategy for
// this attribute instance, for shows that mix fixture generations.
func WithStrategy(s color.Strategy) RGBOption {
	return func(o *rgbOptions) { o.strategy = s }
}

// WithSegments sets the attribute's segment count (>1 for a
// multi-pixel LED bar addressed per-zone via "color_<n>").
func WithSegments(n int) RGBOption {
	return func(o *rgbOptions) { o.segments = n }
}

func resolveOptions(defaultStrategy color.Strategy, opts []RGBOption) rgbOptions {
	o := rgbOptions{strategy: defaultStrategy, segments: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRGB constructs a plain 3-channel RGB color attribute named
// "color". Its convert is the identity (RGB stays RGB); Raw values
// still bypass it entirely per the ColorAttribute contract.
func NewRGB(defaultStrategy color.Strategy, opts ...RGBOption) *colorBase {
	o := resolveOptions(defaultStrategy, opts)
	return &colorBase{
		base:    base{name: "color", channels: 3 * o.segments, def: value.FromColor(color.RGB(0, 0, 0)), segments: o.segments},
		arity:   3,
		convert: func(c color.Color) []float64 {
			ch := color.Channels4(c)
			return ch[:3]
		},
		perByte: encode8Tuple,
	}
}

// NewRGBW constructs a 4-channel RGBW color attribute named "color".
func NewRGBW(defaultStrategy color.Strategy, opts ...RGBOption) *colorBase {
	o := resolveOptions(defaultStrategy, opts)
	strategy := o.strategy
	return &colorBase{
		base:  base{name: "color", channels: 4 * o.segments, def: value.FromColor(color.RGB(0, 0, 0)), segments: o.segments},
		arity: 4,
		convert: func(c color.Color) []float64 {
			r, g, b, w := color.RGBToRGBW(c.R(), c.G(), c.B(), strategy)
			return []float64{r, g, b, w}
		},
		perByte: encode8Tuple,
	}
}

// NewRGBA constructs a 4-channel RGB+amber color attribute named
// "color".
func NewRGBA(opts ...RGBOption) *colorBase {
	o := resolveOptions(color.StrategyBalanced, opts)
	return &colorBase{
		base:  base{name: "color", channels: 4 * o.segments, def: value.FromColor(color.RGB(0, 0, 0)), segments: o.segments},
		arity: 4,
		convert: func(c color.Color) []float64 {
			r, g, b, a := color.RGBToRGBA(c.R(), c.G(), c.B())
			return []float64{r, g, b, a}
		},
		perByte: encode8Tuple,
	}
}

// NewRGBAW constructs a 5-channel RGB+amber+white color attribute
// named "color".
func NewRGBAW(defaultStrategy color.Strategy, opts ...RGBOption) *colorBase {
	o := resolveOptions(defaultStrategy, opts)
	strategy := o.strategy
	return &colorBase{
		base:  base{name: "color", channels: 5 * o.segments, def: value.FromColor(color.RGB(0, 0, 0)), segments: o.segments},
		arity: 5,
		convert: func(c color.Color) []float64 {
			r, g, b, a, w := color.RGBToRGBAW(c.R(), c.G(), c.B(), strategy)
			return []float64{r, g, b, a, w}
		},
		perByte: encode8Tuple,
	}
}
