package clip

import (
	"fmt"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/selector"
)

// EffectState is the per-(fixture, segment) output of an Effect's
// params function: unlike Scene's State, each key carries an explicit
// BlendOp, since math-driven effects routinely need to modulate
// (MUL) atop whatever a prior Scene already SET rather than replace
// it outright.
type EffectState map[string]blend.Entry

// EffectParams computes one fixture-segment's contribution at time t.
// index is the fixture's zero-based position in selector iteration
// order; segment is 0 for fixtures with a single segment.
type EffectParams func(t float64, f *fixture.Fixture, index, segment int) EffectState

// Effect is a math-driven clip: params depends on time, fixture
// index, and segment. Dimmer is fade-scaled exactly as for Scene,
// regardless of the BlendOp the template chose for it.
type Effect struct {
	Name     string
	selector selector.Selector
	params   EffectParams
	fadeIn   float64
	fadeOut  float64
	duration float64
	finite   bool
}

// NewEffect constructs an Effect over sel with the given params
// function.
func NewEffect(sel selector.Selector, params EffectParams, opts ...Option) *Effect {
	var cfg sceneConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Effect{
		selector: sel,
		params:   params,
		fadeIn:   cfg.fadeIn,
		fadeOut:  cfg.fadeOut,
		duration: cfg.duration,
		finite:   cfg.finite,
	}
}

// Duration implements Clip.
func (e *Effect) Duration() (float64, bool) { return e.duration, e.finite }

// Render implements Clip.
func (e *Effect) Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta {
	if !inBounds(t, e.duration, e.finite) {
		return map[*fixture.Fixture]blend.Delta{}
	}

	fadeMult := fade(t, e.fadeIn, e.fadeOut, e.duration, e.finite)

	fixtures := e.selector.Select(r)
	out := make(map[*fixture.Fixture]blend.Delta, len(fixtures))
	for index, f := range fixtures {
		segCount := f.SegmentCount()
		delta := map[string]blend.Entry{}

		if segCount > 1 {
			for seg := 0; seg < segCount; seg++ {
				for k, entry := range e.params(t, f, index, seg) {
					if k == "color" {
						k = fmt.Sprintf("color_%d", seg)
					}
					delta[k] = entry
				}
			}
		} else {
			for k, entry := range e.params(t, f, index, 0) {
				delta[k] = entry
			}
		}

		if entry, ok := delta["dimmer"]; ok {
			delta["dimmer"] = blend.Entry{Op: entry.Op, Value: entry.Value.Scale(fadeMult)}
		}

		out[f] = blend.Delta(delta)
	}
	return out
}
