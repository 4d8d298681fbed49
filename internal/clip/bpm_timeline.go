package clip

import (
	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/tempo"
)

// bpmEntry is one (beat, child) scheduling of a BPMTimeline.
type bpmEntry struct {
	beat float64
	clip Clip
}

// BPMTimeline is the tempo-mapped counterpart of Timeline: children
// are scheduled at beat positions and converted through an embedded
// tempo.Map at Duration and Render time, but otherwise compose
// overlapping children via merge_deltas exactly like Timeline. It
// satisfies Clip, so it nests inside an ordinary Timeline or vice
// versa.
type BPMTimeline struct {
	Map     *tempo.Map
	entries []bpmEntry
}

// NewBPMTimeline constructs an empty tempo-mapped timeline driven by
// m.
func NewBPMTimeline(m *tempo.Map) *BPMTimeline {
	return &BPMTimeline{Map: m}
}

// Add schedules child at the given beat position. Chainable.
func (tl *BPMTimeline) Add(beat float64, child Clip) *BPMTimeline {
	tl.entries = append(tl.entries, bpmEntry{beat: beat, clip: child})
	return tl
}

// Duration implements Clip: the max, in seconds, of each entry's
// start time (converted through Map) plus the child's duration, or
// unbounded if any child is unbounded, or 0 if empty.
func (tl *BPMTimeline) Duration() (float64, bool) {
	if len(tl.entries) == 0 {
		return 0, true
	}
	max := 0.0
	for _, e := range tl.entries {
		d, finite := e.clip.Duration()
		if !finite {
			return 0, false
		}
		start := tl.Map.Time(e.beat)
		if end := start + d; end > max {
			max = end
		}
	}
	return max, true
}

// Render implements Clip, converting each entry's beat position to
// seconds through Map before delegating to Timeline's scheduling and
// composition rules.
func (tl *BPMTimeline) Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta {
	duration, finite := tl.Duration()
	if !inBounds(t, duration, finite) {
		return map[*fixture.Fixture]blend.Delta{}
	}

	grouped := map[*fixture.Fixture][]blend.Delta{}
	var order []*fixture.Fixture
	seen := map[*fixture.Fixture]struct{}{}

	for _, e := range tl.entries {
		start := tl.Map.Time(e.beat)
		local := t - start
		if local < 0 {
			continue
		}
		if d, finite := e.clip.Duration(); finite && local > d {
			continue
		}
		for f, delta := range e.clip.Render(local, r) {
			grouped[f] = append(grouped[f], delta)
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				order = append(order, f)
			}
		}
	}

	out := make(map[*fixture.Fixture]blend.Delta, len(grouped))
	for _, f := range order {
		merged := blend.Merge(grouped[f], nil)
		delta := make(blend.Delta, len(merged))
		for k, v := range merged {
			delta[k] = blend.Entry{Op: blend.SET, Value: v}
		}
		out[f] = delta
	}
	return out
}
