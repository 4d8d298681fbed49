// Package effect is the template library of parameterized effects
// built on the clip.Effect contract: Pulse, Chase, Rainbow, Strobe,
// Wave, Solid.
package effect

import (
	"fmt"
	"math"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/clip"
	"github.com/roguenand/dmxld/internal/color"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/value"
)

func dimmerMul(v float64) clip.EffectState {
	return clip.EffectState{"dimmer": {Op: blend.MUL, Value: value.Scalar(v)}}
}

// Pulse produces a sine-wave dimmer modulation: dimmer =
// 0.5 + 0.5*sin(2*pi*t*rate), composed via MUL so it modulates
// brightness already SET by a Scene underneath rather than replacing
// it.
func Pulse(sel selector.Selector, rate float64, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(t float64, _ *fixture.Fixture, _, _ int) clip.EffectState {
		v := 0.5 + 0.5*math.Sin(2*math.Pi*t*rate)
		return dimmerMul(v)
	}, opts...)
	e.Name = fmt.Sprintf("Pulse(rate=%g)", rate)
	return e
}

// chaseDistance returns the wrap-around distance between fixture
// index i and the chase's current position pos, both taken modulo
// count.
func chaseDistance(i int, pos float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	d := math.Abs(float64(i) - pos)
	wrapped := float64(count) - d
	if wrapped < d {
		return wrapped
	}
	return d
}

// Chase produces a moving band of brightness sweeping across count
// positions at speed positions/second, width positions wide.
func Chase(sel selector.Selector, count int, speed, width float64, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(t float64, _ *fixture.Fixture, index, _ int) clip.EffectState {
		pos := math.Mod(t*speed, float64(count))
		if pos < 0 {
			pos += float64(count)
		}
		distance := chaseDistance(index, pos, count)
		v := math.Max(0, 1-distance/width)
		return dimmerMul(v)
	}, opts...)
	e.Name = fmt.Sprintf("Chase(count=%d,speed=%g,width=%g)", count, speed, width)
	return e
}

// wrap01 wraps x into [0, 1).
func wrap01(x float64) float64 {
	x = math.Mod(x, 1)
	if x < 0 {
		x += 1
	}
	return x
}

// Rainbow sweeps hue across selected fixtures and segments at the
// given saturation and full value. Dimmer and
// color are SET (not modulated): Rainbow is a standalone full-color
// look, not a modulator over a prior Scene.
func Rainbow(sel selector.Selector, speed, saturation float64, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(t float64, _ *fixture.Fixture, index, segment int) clip.EffectState {
		hue := wrap01(t*speed + 0.1*float64(index) + 0.05*float64(segment))
		c := color.FromHSV(hue, saturation, 1)
		return clip.EffectState{
			"dimmer": {Op: blend.SET, Value: value.Scalar(1)},
			"color":  {Op: blend.SET, Value: value.FromColor(c)},
		}
	}, opts...)
	e.Name = fmt.Sprintf("Rainbow(speed=%g,saturation=%g)", speed, saturation)
	return e
}

// Strobe flashes fully on for the first duty fraction of each
// 1/rate-second cycle, off for the rest.
func Strobe(sel selector.Selector, rate, duty float64, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(t float64, _ *fixture.Fixture, _, _ int) clip.EffectState {
		phase := wrap01(t * rate)
		v := 0.0
		if phase < duty {
			v = 1.0
		}
		return dimmerMul(v)
	}, opts...)
	e.Name = fmt.Sprintf("Strobe(rate=%g,duty=%g)", rate, duty)
	return e
}

// Wave produces a traveling sine wave of brightness across fixture
// index, at speed cycles/second and the given wavelength (in fixture
// positions).
func Wave(sel selector.Selector, speed, wavelength float64, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(t float64, _ *fixture.Fixture, index, _ int) clip.EffectState {
		phase := t*speed - float64(index)/wavelength
		v := 0.5 + 0.5*math.Sin(2*math.Pi*phase)
		return dimmerMul(v)
	}, opts...)
	e.Name = fmt.Sprintf("Wave(speed=%g,wavelength=%g)", speed, wavelength)
	return e
}

// Solid is a static look expressed on the Effect contract: a constant
// dimmer, and color only if provided (nil means "don't touch color").
func Solid(sel selector.Selector, dimmer float64, c *color.Color, opts ...clip.Option) *clip.Effect {
	e := clip.NewEffect(sel, func(float64, *fixture.Fixture, int, int) clip.EffectState {
		out := clip.EffectState{"dimmer": {Op: blend.SET, Value: value.Scalar(dimmer)}}
		if c != nil {
			out["color"] = blend.Entry{Op: blend.SET, Value: value.FromColor(*c)}
		}
		return out
	}, opts...)
	if c != nil {
		e.Name = fmt.Sprintf("Solid(dimmer=%g,color=%v)", dimmer, *c)
	} else {
		e.Name = fmt.Sprintf("Solid(dimmer=%g)", dimmer)
	}
	return e
}
