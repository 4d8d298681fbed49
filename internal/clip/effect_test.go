package clip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/attribute"
	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/color"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/value"
	"github.com/roguenand/dmxld/internal/vec3"
)

func twoSegmentRig(t *testing.T) (*rig.Rig, *fixture.Fixture) {
	t.Helper()
	ft := fixture.NewType("bar", attribute.NewRGBW(color.StrategyBalanced, attribute.WithSegments(2)))
	f := fixture.New(ft, 1, 1, vec3.New(0, 0, 0))
	r := rig.New()
	require.NoError(t, r.Add(f))
	return r, f
}

// TestEffectPulseReproducesSineEnvelope verifies that a dimmer pulse
// at time t yields 0.5+0.5*sin(2*pi*t*rate), composed via MUL so it
// modulates whatever a prior layer already set.
func TestEffectPulseReproducesSineEnvelope(t *testing.T) {
	r, f := oneFixtureRig(t)
	rate := 1.0
	eff := NewEffect(selector.All(), func(t float64, f *fixture.Fixture, index, segment int) EffectState {
		return EffectState{"dimmer": {Op: blend.MUL, Value: value.Scalar(0.5 + 0.5*math.Sin(2*math.Pi*t*rate))}}
	})

	deltas := eff.Render(0.25, r)
	want := 0.5 + 0.5*math.Sin(2*math.Pi*0.25*rate)
	assert.InDelta(t, want, deltas[f]["dimmer"].Value.Scalar, 1e-9)
	assert.Equal(t, blend.MUL, deltas[f]["dimmer"].Op)
}

func TestEffectDimmerIsFadeScaledRegardlessOfOp(t *testing.T) {
	r, f := oneFixtureRig(t)
	eff := NewEffect(selector.All(), func(t float64, f *fixture.Fixture, index, segment int) EffectState {
		return EffectState{"dimmer": {Op: blend.SET, Value: value.Scalar(1.0)}}
	}, WithFade(1, 0))

	deltas := eff.Render(0.5, r)
	assert.InDelta(t, 0.5, deltas[f]["dimmer"].Value.Scalar, 1e-9)
	assert.Equal(t, blend.SET, deltas[f]["dimmer"].Op, "fade scaling must preserve the template's chosen op")
}

func TestEffectRewritesColorKeyPerSegment(t *testing.T) {
	r, f := twoSegmentRig(t)
	eff := NewEffect(selector.All(), func(t float64, f *fixture.Fixture, index, segment int) EffectState {
		return EffectState{"color": {Op: blend.SET, Value: value.FromColor(color.RGB(float64(segment), 0, 0))}}
	})

	deltas := eff.Render(0, r)
	d := deltas[f]
	assert.InDelta(t, 0, d["color_0"].Value.Color.R(), 1e-9)
	assert.InDelta(t, 1, d["color_1"].Value.Color.R(), 1e-9)
	_, plain := d["color"]
	assert.False(t, plain, "segmented fixtures must not carry a plain color key")
}

func TestEffectIndexPassedToParams(t *testing.T) {
	ft := fixture.NewType("par", attribute.NewDimmer(false))
	a := fixture.New(ft, 1, 1, vec3.New(0, 0, 0))
	b := fixture.New(ft, 1, 2, vec3.New(0, 0, 0))
	r := rig.New()
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))

	eff := NewEffect(selector.All(), func(t float64, f *fixture.Fixture, index, segment int) EffectState {
		return EffectState{"dimmer": {Op: blend.SET, Value: value.Scalar(float64(index))}}
	})

	deltas := eff.Render(0, r)
	assert.InDelta(t, 0, deltas[a]["dimmer"].Value.Scalar, 1e-9)
	assert.InDelta(t, 1, deltas[b]["dimmer"].Value.Scalar, 1e-9)
}
