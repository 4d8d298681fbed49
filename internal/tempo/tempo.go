// Package tempo implements a piecewise-linear beats->seconds mapping
// supporting mid-show tempo changes. It underlies clip.BPMTimeline,
// which schedules children at beat positions instead of second
// offsets.
package tempo

import "sort"

// change is one tempo change: at beat start, the tempo becomes bpm
// beats per minute, effective at startSeconds into the show.
type change struct {
	beat         float64
	bpm          float64
	startSeconds float64
}

// Map is a piecewise-linear beats<->seconds mapping. The zero value
// is not usable; construct with NewMap.
type Map struct {
	changes []change
}

// NewMap constructs a tempo map with a constant initial tempo of bpm
// beats per minute from beat 0.
func NewMap(bpm float64) *Map {
	return &Map{changes: []change{{beat: 0, bpm: bpm, startSeconds: 0}}}
}

// SetTempo schedules a tempo change to bpm beats per minute, taking
// effect at the given beat position. Chainable. Changes may be added
// in any order; they are kept sorted by beat internally. A beat at or
// before the map's earliest change replaces that change in place
// rather than appending a second entry at the same (or an earlier)
// beat, which would leave its ordering relative to the original
// first change up to sort.Slice's unstable tie-breaking.
func (m *Map) SetTempo(beat, bpm float64) *Map {
	if len(m.changes) > 0 && beat <= m.changes[0].beat {
		m.changes[0] = change{beat: beat, bpm: bpm}
		m.recompute()
		return m
	}
	m.changes = append(m.changes, change{beat: beat, bpm: bpm})
	sort.Slice(m.changes, func(i, j int) bool { return m.changes[i].beat < m.changes[j].beat })
	m.recompute()
	return m
}

// recompute refills each change's startSeconds by integrating the
// piecewise-constant tempo forward from beat 0.
func (m *Map) recompute() {
	seconds := 0.0
	for i := range m.changes {
		if i == 0 {
			m.changes[i].startSeconds = 0
			continue
		}
		prev := m.changes[i-1]
		beatSpan := m.changes[i].beat - prev.beat
		seconds += beatSpan * 60 / prev.bpm
		m.changes[i].startSeconds = seconds
	}
}

// segmentFor returns the index of the tempo segment containing beat
// (the last change with change.beat <= beat).
func (m *Map) segmentFor(beat float64) int {
	idx := 0
	for i, c := range m.changes {
		if c.beat <= beat {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// Time converts a beat position into elapsed show seconds.
func (m *Map) Time(beats float64) float64 {
	idx := m.segmentFor(beats)
	c := m.changes[idx]
	return c.startSeconds + (beats-c.beat)*60/c.bpm
}

// Beat converts elapsed show seconds into a beat position, the
// inverse of Time.
func (m *Map) Beat(seconds float64) float64 {
	idx := 0
	for i, c := range m.changes {
		if c.startSeconds <= seconds {
			idx = i
		} else {
			break
		}
	}
	c := m.changes[idx]
	return c.beat + (seconds-c.startSeconds)*c.bpm/60
}
