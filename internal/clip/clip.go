// Package clip implements the clip protocol and its lighting-domain
// primitives: Scene (a static look with a fade envelope), Effect
// (math-driven, time+index+segment), and Timeline (a scheduled
// container of child clips that itself satisfies Clip so timelines
// nest).
package clip

import (
	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
)

// Clip is the uniform contract every time-varying composition element
// satisfies: an optional duration, and a pure render function from a
// time value to per-fixture deltas. render must not mutate rig and
// must return an empty map for t < 0 or t past a finite duration.
type Clip interface {
	// Duration returns the clip's length in seconds and true, or
	// (0, false) if the clip is unbounded.
	Duration() (float64, bool)
	// Render evaluates the clip at time t against rig, returning a
	// delta for every fixture the clip has an opinion about.
	Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta
}

// inBounds reports whether t falls within [0, duration] for a
// possibly-unbounded duration, per the shared out-of-bounds rule
// every clip implementation applies.
func inBounds(t float64, duration float64, finite bool) bool {
	if t < 0 {
		return false
	}
	if finite && t > duration {
		return false
	}
	return true
}

// fade computes the fade envelope: a multiplier in [0, 1] applied to
// a clip's dimmer operand. fadeIn/fadeOut are seconds; a
// duration of (0, false) means unbounded (fade-out never triggers,
// since there's no end to be near).
func fade(t, fadeIn, fadeOut float64, duration float64, finite bool) float64 {
	if fadeIn > 0 && t < fadeIn {
		return t / fadeIn
	}
	if finite && fadeOut > 0 {
		remaining := duration - t
		if remaining < fadeOut {
			if remaining < 0 {
				return 0
			}
			return remaining / fadeOut
		}
	}
	return 1
}
