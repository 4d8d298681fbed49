package clip

import (
	"errors"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/value"
)

// ErrInvalidScene is returned by NewScene when both the single-layer
// and multi-layer construction forms are supplied, or neither.
var ErrInvalidScene = errors.New("clip: scene must be constructed with exactly one of WithLayer or WithLayers")

// State is a plain attribute-key -> value mapping, the shape a
// Scene's params function populates (an Effect's params return an
// EffectState instead). It carries no blend op: Scene always
// composes it as SET per attribute key.
type State map[string]value.Value

// SceneParams computes a fixture's intended look. A constant State
// can be adapted via ConstParams.
type SceneParams func(f *fixture.Fixture) State

// ConstParams adapts a constant State to a SceneParams, for scenes
// whose every selected fixture gets the identical look.
func ConstParams(s State) SceneParams {
	return func(*fixture.Fixture) State { return s }
}

// Layer is one (selector, params) pair of a multi-layer Scene; later
// layers in the list overwrite earlier ones per attribute key when
// they select the same fixture.
type Layer struct {
	Selector selector.Selector
	Params   SceneParams
}

// Scene is a static lighting look: one or more layers evaluated
// per-fixture, composed with last-layer-wins per attribute key, with
// an optional fade-in/fade-out envelope applied to the dimmer key.
type Scene struct {
	layers   []Layer
	fadeIn   float64
	fadeOut  float64
	duration float64
	finite   bool
}

// Option configures a Scene.
type Option func(*sceneConfig)

type sceneConfig struct {
	layer      *Layer
	layers     []Layer
	haveLayer  bool
	haveLayers bool
	fadeIn     float64
	fadeOut    float64
	duration   float64
	finite     bool
}

// WithLayer configures a single-layer scene: sel selects the
// fixtures, params computes each one's look.
func WithLayer(sel selector.Selector, params SceneParams) Option {
	return func(c *sceneConfig) {
		c.layer = &Layer{Selector: sel, Params: params}
		c.haveLayer = true
	}
}

// WithLayers configures a multi-layer scene; layers compose in the
// given order, later layers overwriting earlier ones per key.
func WithLayers(layers []Layer) Option {
	return func(c *sceneConfig) {
		c.layers = layers
		c.haveLayers = true
	}
}

// WithFade sets the fade-in/fade-out durations, in seconds.
func WithFade(fadeIn, fadeOut float64) Option {
	return func(c *sceneConfig) {
		c.fadeIn = fadeIn
		c.fadeOut = fadeOut
	}
}

// WithDuration gives the scene a finite duration, in seconds. Without
// it, the scene is unbounded.
func WithDuration(seconds float64) Option {
	return func(c *sceneConfig) {
		c.duration = seconds
		c.finite = true
	}
}

// NewScene constructs a Scene. Exactly one of WithLayer or WithLayers
// must be supplied; supplying both, or neither, returns
// ErrInvalidScene.
func NewScene(opts ...Option) (*Scene, error) {
	var cfg sceneConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.haveLayer == cfg.haveLayers {
		return nil, ErrInvalidScene
	}

	layers := cfg.layers
	if cfg.haveLayer {
		layers = []Layer{*cfg.layer}
	}

	return &Scene{
		layers:   layers,
		fadeIn:   cfg.fadeIn,
		fadeOut:  cfg.fadeOut,
		duration: cfg.duration,
		finite:   cfg.finite,
	}, nil
}

// Duration implements Clip.
func (s *Scene) Duration() (float64, bool) { return s.duration, s.finite }

// Render implements Clip.
func (s *Scene) Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta {
	if !inBounds(t, s.duration, s.finite) {
		return map[*fixture.Fixture]blend.Delta{}
	}

	fadeMult := fade(t, s.fadeIn, s.fadeOut, s.duration, s.finite)

	perFixture := map[*fixture.Fixture]map[string]blend.Entry{}
	for _, layer := range s.layers {
		for _, f := range layer.Selector.Select(r) {
			state := layer.Params(f)
			keys, ok := perFixture[f]
			if !ok {
				keys = map[string]blend.Entry{}
				perFixture[f] = keys
			}
			for k, v := range state {
				if k == "dimmer" {
					v = v.Scale(fadeMult)
				}
				keys[k] = blend.Entry{Op: blend.SET, Value: v}
			}
		}
	}

	out := make(map[*fixture.Fixture]blend.Delta, len(perFixture))
	for f, keys := range perFixture {
		out[f] = blend.Delta(keys)
	}
	return out
}
