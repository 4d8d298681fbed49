package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/value"
)

func TestEmptyTimelineDurationIsZeroFinite(t *testing.T) {
	tl := NewTimeline()
	d, finite := tl.Duration()
	assert.Equal(t, 0.0, d)
	assert.True(t, finite)
}

func TestTimelineDurationIsMaxEndAcrossEntries(t *testing.T) {
	short, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(2))
	require.NoError(t, err)
	long, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(5))
	require.NoError(t, err)

	tl := NewTimeline().Add(0, short).Add(3, long)
	d, finite := tl.Duration()
	assert.True(t, finite)
	assert.InDelta(t, 8, d, 1e-9)
}

func TestTimelineUnboundedIfAnyChildUnbounded(t *testing.T) {
	bounded, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})), WithDuration(2))
	require.NoError(t, err)
	unbounded, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})))
	require.NoError(t, err)

	tl := NewTimeline().Add(0, bounded).Add(0, unbounded)
	_, finite := tl.Duration()
	assert.False(t, finite)
}

// mulClip is a minimal unbounded clip that MULs every rig fixture's
// dimmer by factor, used to exercise Timeline's ordered-merge
// composition without a full Effect template.
type mulClip struct{ factor float64 }

func (m mulClip) Duration() (float64, bool) { return 0, false }
func (m mulClip) Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta {
	out := map[*fixture.Fixture]blend.Delta{}
	for _, f := range r.Fixtures() {
		out[f] = blend.Delta{"dimmer": {Op: blend.MUL, Value: value.Scalar(m.factor)}}
	}
	return out
}

// TestTimelineComposesOverlappingEntriesInScheduleOrder verifies that
// a SET scene and an overlapping MUL clip on the same fixture compose
// via merge_deltas in schedule order, earlier first.
func TestTimelineComposesOverlappingEntriesInScheduleOrder(t *testing.T) {
	r, f := oneFixtureRig(t)
	first, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(0.4)})))
	require.NoError(t, err)
	second := mulClip{factor: 0.5}

	tl := NewTimeline().Add(0, first).Add(0, second)
	deltas := tl.Render(0, r)
	assert.InDelta(t, 0.2, deltas[f]["dimmer"].Value.Scalar, 1e-9)
}

func TestTimelineEntryNotYetStartedContributesNothing(t *testing.T) {
	r, f := oneFixtureRig(t)
	later, err := NewScene(WithLayer(selector.All(), ConstParams(State{"dimmer": value.Scalar(1)})))
	require.NoError(t, err)

	tl := NewTimeline().Add(10, later)
	deltas := tl.Render(1, r)
	_, ok := deltas[f]
	assert.False(t, ok)
}
