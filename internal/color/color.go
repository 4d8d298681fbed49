// Package color implements normalized color values and the conversions
// between them: HSV<->RGB, and RGB<->RGBW/RGBA/RGBAW for fixtures whose
// native format isn't plain RGB.
//
// Conversions follow the balanced/preserve_rgb/max_white strategies
// and an amber-extraction heuristic for warm-white fixtures; they are
// total functions that never fail, clamping implicitly through their
// arithmetic rather than rejecting input.
package color

import "math"

// Strategy selects how RGB->RGBW (and, transitively, RGB->RGBAW)
// extracts a white channel from a color.
type Strategy int

const (
	// StrategyBalanced extracts white as min(r, g, b), leaving the
	// residual RGB with the common component removed. This is the
	// default strategy.
	StrategyBalanced Strategy = iota
	// StrategyPreserveRGB never extracts white; RGB channels pass
	// through unchanged and white is always 0.
	StrategyPreserveRGB
	// StrategyMaxWhite maximizes the white channel and rescales the
	// residual RGB to compensate.
	StrategyMaxWhite
)

// Color is an ordered tuple of normalized channels, length >= 3: red,
// green, blue, and optionally white and further channels. It is the
// value stored under the "color" key of a FixtureState.
type Color []float64

// RGB constructs a 3-channel color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// FromHSV constructs a Color from hue/saturation/value, each in
// [0, 1]. Hue wraps modulo 1.
func FromHSV(h, s, v float64) Color {
	r, g, b := HSVToRGB(h, s, v)
	return Color{r, g, b}
}

// R returns the red channel, or 0 if absent.
func (c Color) R() float64 { return c.at(0) }

// G returns the green channel, or 0 if absent.
func (c Color) G() float64 { return c.at(1) }

// B returns the blue channel, or 0 if absent.
func (c Color) B() float64 { return c.at(2) }

// W returns the fourth channel (white, by convention for RGBW
// colors), or 0 if absent.
func (c Color) W() float64 { return c.at(3) }

func (c Color) at(i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return 0
}

// HSV returns the hue/saturation/value representation of the color's
// RGB channels.
func (c Color) HSV() (h, s, v float64) {
	return RGBToHSV(c.R(), c.G(), c.B())
}

// Raw wraps a channel tuple to indicate "deliver these channels to the
// attribute codec verbatim, bypass format conversion". It is
// orthogonal to Color: an attribute's convert step never runs on a
// Raw value.
type Raw []float64

// HSVToRGB converts hue/saturation/value (each in [0, 1], hue wrapping
// modulo 1) to red/green/blue in [0, 1]. Standard hexagonal model.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	h = h - math.Floor(h)
	h6 := h * 6.0
	i := int(math.Floor(h6))
	f := h6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// RGBToHSV converts red/green/blue (each in [0, 1]) to hue/saturation/value.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	v = maxC

	if maxC == minC {
		return 0, 0, v
	}

	diff := maxC - minC
	s = diff / maxC

	switch maxC {
	case r:
		h = (g - b) / diff
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/diff + 2
	default:
		h = (r-g)/diff + 4
	}
	h /= 6
	return h, s, v
}

// RGBToRGBW converts red/green/blue to red/green/blue/white under the
// given strategy.
//
//	balanced:     w = min(r, g, b); rgb residual has w removed
//	preserve_rgb: w = 0; rgb unchanged
//	max_white:    w maximized; residual rgb rescaled to compensate
func RGBToRGBW(r, g, b float64, strategy Strategy) (rOut, gOut, bOut, w float64) {
	switch strategy {
	case StrategyPreserveRGB:
		return r, g, b, 0

	case StrategyMaxWhite:
		w = math.Min(r, math.Min(g, b))
		if w <= 0 {
			return r, g, b, 0
		}
		remaining := 1 - w
		if remaining <= 0 {
			return 0, 0, 0, w
		}
		scaled := func(c float64) float64 {
			if c > w {
				return (c - w) / (1 - w) * remaining
			}
			return 0
		}
		return scaled(r), scaled(g), scaled(b), w

	default: // StrategyBalanced
		w = math.Min(r, math.Min(g, b))
		return r - w, g - w, b - w, w
	}
}

// RGBWToRGB is the inverse of RGBToRGBW: each channel is min(1, c+w).
func RGBWToRGB(r, g, b, w float64) (rOut, gOut, bOut float64) {
	return math.Min(1, r+w), math.Min(1, g+w), math.Min(1, b+w)
}

// RGBToRGBA converts red/green/blue to red/green/blue/amber. Amber is
// approximately (1.0, 0.75, 0.0): a warm orange. It is extracted only
// when blue is <= 0.5 (amber doesn't belong in blue-ish colors) and
// the warm components are non-trivial.
func RGBToRGBA(r, g, b float64) (rOut, gOut, bOut, amber float64) {
	if b > 0.5 {
		return r, g, b, 0
	}

	if g > 0 {
		amber = math.Min(r, g/0.75)
	}
	amber = math.Min(amber, 1-b)
	amber = math.Max(0, amber)

	rOut = math.Max(0, r-amber)
	gOut = math.Max(0, g-amber*0.75)
	return rOut, gOut, b, amber
}

// RGBAToRGB is the inverse of RGBToRGBA.
func RGBAToRGB(r, g, b, amber float64) (rOut, gOut, bOut float64) {
	return math.Min(1, r+amber), math.Min(1, g+amber*0.75), b
}

// RGBToRGBAW composes RGBToRGBW then RGBToRGBA on the residual RGB,
// producing red/green/blue/amber/white.
func RGBToRGBAW(r, g, b float64, strategy Strategy) (rOut, gOut, bOut, amber, white float64) {
	rw, gw, bw, w := RGBToRGBW(r, g, b, strategy)
	rOut, gOut, bOut, amber = RGBToRGBA(rw, gw, bw)
	return rOut, gOut, bOut, amber, w
}

// channels returns up to n channels from tuple-like input, defaulting
// missing channels to 0 and ignoring channels beyond n. It is shared
// by attribute convert() implementations operating on Color or Raw
// values of arbitrary length (spec: conversion is defined on tuples of
// length 3, 4, or 5; missing channels default to 0, excess ignored).
func channels(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(values); i++ {
		out[i] = values[i]
	}
	return out
}

// Channels4 returns the first 4 channels of values, zero-padded.
func Channels4(values []float64) [4]float64 {
	c := channels(values, 4)
	return [4]float64{c[0], c[1], c[2], c[3]}
}

// Channels5 returns the first 5 channels of values, zero-padded.
func Channels5(values []float64) [5]float64 {
	c := channels(values, 5)
	return [5]float64{c[0], c[1], c[2], c[3], c[4]}
}
