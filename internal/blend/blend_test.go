package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/value"
)

func TestApplySET(t *testing.T) {
	state := State{"dimmer": value.Scalar(0.2)}
	out := Apply(state, Delta{"dimmer": {Op: SET, Value: value.Scalar(0.9)}})
	assert.Equal(t, 0.9, out["dimmer"].Scalar)
	assert.Equal(t, 0.2, state["dimmer"].Scalar, "Apply must not mutate its input state")
}

func TestApplyADDClamp(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		operand float64
		want    float64
	}{
		{"within range", 0.3, 0.2, 0.5},
		{"clamps above 1", 0.9, 0.5, 1.0},
		{"clamps below 0", 0.1, -0.5, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := State{"dimmer": value.Scalar(tc.current)}
			out := Apply(state, Delta{"dimmer": {Op: ADDClamp, Value: value.Scalar(tc.operand)}})
			assert.InDelta(t, tc.want, out["dimmer"].Scalar, 1e-9)
		})
	}
}

func TestApplyMUL(t *testing.T) {
	state := State{"dimmer": value.Scalar(0.5)}
	out := Apply(state, Delta{"dimmer": {Op: MUL, Value: value.Scalar(0.5)}})
	assert.InDelta(t, 0.25, out["dimmer"].Scalar, 1e-9)
}

func TestApplyAbsentDefaultsToZeroArity(t *testing.T) {
	out := Apply(State{}, Delta{"dimmer": {Op: ADDClamp, Value: value.Scalar(0.3)}})
	assert.InDelta(t, 0.3, out["dimmer"].Scalar, 1e-9)
}

func TestApplyNonNumericOnlyHonorsSET(t *testing.T) {
	preset := value.FromOpaque("gobo-3")
	state := State{"gobo": preset}

	mulOut := Apply(state, Delta{"gobo": {Op: MUL, Value: value.Scalar(0.5)}})
	assert.Equal(t, preset, mulOut["gobo"], "MUL against a non-numeric current value must leave it unchanged")

	addOut := Apply(state, Delta{"gobo": {Op: ADDClamp, Value: value.Scalar(0.5)}})
	assert.Equal(t, preset, addOut["gobo"], "ADD_CLAMP against a non-numeric current value must leave it unchanged")

	setOut := Apply(state, Delta{"gobo": {Op: SET, Value: value.FromOpaque("gobo-7")}})
	assert.Equal(t, "gobo-7", setOut["gobo"].Opaque, "SET is still honored against a non-numeric value")
}

func TestApplyNonNumericOperandAbsentCurrent(t *testing.T) {
	out := Apply(State{}, Delta{"gobo": {Op: MUL, Value: value.FromOpaque("gobo-1")}})
	assert.Equal(t, value.FromOpaque("gobo-1"), out["gobo"], "a non-SET op with no prior state just adopts the non-numeric operand")
}

func TestMergeOrderedSETAddMul(t *testing.T) {
	// Merging a SET, then an ADD_CLAMP, then a MUL delta on the same
	// key must equal clamp(clamp(a + b) * c) for scalar operands a, b, c.
	a, b, c := 0.4, 0.3, 0.5
	deltas := []Delta{
		{"dimmer": {Op: SET, Value: value.Scalar(a)}},
		{"dimmer": {Op: ADDClamp, Value: value.Scalar(b)}},
		{"dimmer": {Op: MUL, Value: value.Scalar(c)}},
	}
	out := Merge(deltas, nil)
	want := clamp01(clamp01(a+b) * c)
	assert.InDelta(t, want, out["dimmer"].Scalar, 1e-9)
}

func TestMergeOrderMatters(t *testing.T) {
	deltas := []Delta{
		{"dimmer": {Op: SET, Value: value.Scalar(1.0)}},
		{"dimmer": {Op: MUL, Value: value.Scalar(0.5)}},
	}
	reversed := []Delta{deltas[1], deltas[0]}

	forward := Merge(deltas, nil)
	backward := Merge(reversed, nil)

	assert.InDelta(t, 0.5, forward["dimmer"].Scalar, 1e-9)
	assert.InDelta(t, 1.0, backward["dimmer"].Scalar, 1e-9, "MUL before any SET yields 0, which the later SET then replaces")
}

func TestSETIdempotent(t *testing.T) {
	state := State{"dimmer": value.Scalar(0.1)}
	d := Delta{"dimmer": {Op: SET, Value: value.Scalar(0.77)}}
	once := Apply(state, d)
	twice := Apply(once, d)
	require.Equal(t, once["dimmer"].Scalar, twice["dimmer"].Scalar)
}

func TestScaleDeltaPreservesOp(t *testing.T) {
	d := Delta{"dimmer": {Op: MUL, Value: value.Scalar(0.4)}}
	scaled := ScaleDelta(d, 0.5)
	assert.Equal(t, MUL, scaled["dimmer"].Op)
	assert.InDelta(t, 0.2, scaled["dimmer"].Value.Scalar, 1e-9)
}

func TestApplyColorTuple(t *testing.T) {
	state := State{"color": value.FromColor([]float64{0.2, 0.2, 0.2})}
	out := Apply(state, Delta{"color": {Op: ADDClamp, Value: value.FromColor([]float64{0.9, 0.9, 0.9})}})
	for _, c := range out["color"].Color {
		assert.InDelta(t, 1.0, c, 1e-9)
	}
}
