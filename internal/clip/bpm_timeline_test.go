package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/tempo"
	"github.com/roguenand/dmxld/internal/value"
)

func TestBPMTimelineConvertsBeatsToSecondsAtConstantTempo(t *testing.T) {
	r, f := oneFixtureRig(t)
	scene, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(1))
	require.NoError(t, err)

	// 120bpm = 2 beats/sec, so beat 4 lands at 2 seconds.
	tl := NewBPMTimeline(tempo.NewMap(120)).Add(4, scene)

	assert.Empty(t, tl.Render(1.9, r))
	deltas := tl.Render(2.0, r)
	_, ok := deltas[f]
	assert.True(t, ok)
}

func TestBPMTimelineDurationAccountsForTempo(t *testing.T) {
	scene, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(1))
	require.NoError(t, err)

	tl := NewBPMTimeline(tempo.NewMap(120)).Add(4, scene) // starts at 2s, runs 1s
	d, finite := tl.Duration()
	assert.True(t, finite)
	assert.InDelta(t, 3, d, 1e-9)
}

func TestBPMTimelineRespectsMidShowTempoChange(t *testing.T) {
	scene, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(1))
	require.NoError(t, err)

	m := tempo.NewMap(120).SetTempo(4, 60) // slows to 1 beat/sec after beat 4
	tl := NewBPMTimeline(m).Add(8, scene)   // beat 8 = 2s (first 4 beats) + 4s (next 4 beats at 60bpm) = 6s

	d, finite := tl.Duration()
	assert.True(t, finite)
	assert.InDelta(t, 7, d, 1e-9)
}
