package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantTempoTime(t *testing.T) {
	m := NewMap(120) // 2 beats/sec
	assert.InDelta(t, 0, m.Time(0), 1e-9)
	assert.InDelta(t, 1, m.Time(2), 1e-9)
	assert.InDelta(t, 4, m.Time(8), 1e-9)
}

func TestConstantTempoBeatIsInverseOfTime(t *testing.T) {
	m := NewMap(90)
	for _, beats := range []float64{0, 1.5, 10, 37.25} {
		seconds := m.Time(beats)
		assert.InDelta(t, beats, m.Beat(seconds), 1e-9)
	}
}

func TestTempoChangeMidShow(t *testing.T) {
	// 120 bpm (2 beats/sec) for the first 4 beats, then 60 bpm (1 beat/sec).
	m := NewMap(120).SetTempo(4, 60)
	assert.InDelta(t, 2, m.Time(4), 1e-9, "first 4 beats at 120bpm take 2s")
	assert.InDelta(t, 3, m.Time(5), 1e-9, "fifth beat takes 1 more second at 60bpm")
	assert.InDelta(t, 6, m.Time(8), 1e-9)
}

func TestSetTempoOutOfOrderIsSortedInternally(t *testing.T) {
	a := NewMap(120).SetTempo(8, 30).SetTempo(4, 60)
	b := NewMap(120).SetTempo(4, 60).SetTempo(8, 30)
	assert.InDelta(t, a.Time(10), b.Time(10), 1e-9)
}

func TestSetTempoAtOrBeforeFirstChangeReplacesIt(t *testing.T) {
	m := NewMap(120).SetTempo(0, 90)
	assert.Len(t, m.changes, 1, "SetTempo(0, ...) must replace the initial change, not add a second beat-0 entry")
	assert.InDelta(t, 90, m.changes[0].bpm, 1e-9)
	assert.InDelta(t, 0, m.Time(0), 1e-9)
	assert.InDelta(t, 60.0/90, m.Time(1), 1e-9)

	m2 := NewMap(120).SetTempo(-4, 60)
	assert.Len(t, m2.changes, 1, "a beat before the map's start still replaces rather than appends")
	assert.InDelta(t, -4, m2.changes[0].beat, 1e-9)
	assert.InDelta(t, 60, m2.changes[0].bpm, 1e-9)
}

func TestBeatInverseAcrossTempoChange(t *testing.T) {
	m := NewMap(120).SetTempo(4, 60)
	for _, beats := range []float64{0, 2, 4, 6, 9} {
		seconds := m.Time(beats)
		assert.InDelta(t, beats, m.Beat(seconds), 1e-9)
	}
}
