package clip

import (
	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
)

// Entry is one (start_time, child) scheduling of a Timeline.
type Entry struct {
	Start float64
	Clip  Clip
}

// Timeline is a container of (start_time, child_clip) entries,
// itself satisfying Clip so timelines nest. Overlapping children
// blend via merge_deltas, composed in the order entries were added.
type Timeline struct {
	Entries []Entry
}

// NewTimeline constructs an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Add appends a (start, child) entry and returns the timeline,
// chainable.
func (tl *Timeline) Add(start float64, c Clip) *Timeline {
	tl.Entries = append(tl.Entries, Entry{Start: start, Clip: c})
	return tl
}

// Duration implements Clip: the max of start+child.duration across
// entries, or unbounded if any child is unbounded, or 0 if empty.
func (tl *Timeline) Duration() (float64, bool) {
	if len(tl.Entries) == 0 {
		return 0, true
	}
	max := 0.0
	for _, e := range tl.Entries {
		d, finite := e.Clip.Duration()
		if !finite {
			return 0, false
		}
		if end := e.Start + d; end > max {
			max = end
		}
	}
	return max, true
}

// Render implements Clip: for each entry with t-start in
// [0, child.duration], invokes the child, groups resulting deltas by
// fixture in entry order, then composes each group via
// blend.Merge — earlier-scheduled clips compose first. Each fixture's
// merged state is returned as a delta of SET entries.
func (tl *Timeline) Render(t float64, r *rig.Rig) map[*fixture.Fixture]blend.Delta {
	duration, finite := tl.Duration()
	if !inBounds(t, duration, finite) {
		return map[*fixture.Fixture]blend.Delta{}
	}

	grouped := map[*fixture.Fixture][]blend.Delta{}
	var order []*fixture.Fixture
	seen := map[*fixture.Fixture]struct{}{}

	for _, e := range tl.Entries {
		local := t - e.Start
		if local < 0 {
			continue
		}
		if d, finite := e.Clip.Duration(); finite && local > d {
			continue
		}
		for f, delta := range e.Clip.Render(local, r) {
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
