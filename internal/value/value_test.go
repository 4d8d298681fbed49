package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roguenand/dmxld/internal/color"
)

func TestChannelsByKind(t *testing.T) {
	assert.Equal(t, []float64{0.5}, Scalar(0.5).Channels())
	assert.Equal(t, []float64{0.1, 0.2}, Tuple(0.1, 0.2).Channels())
	assert.Equal(t, []float64{1, 0, 0}, FromColor(color.RGB(1, 0, 0)).Channels())
	assert.Equal(t, []float64{1, 2, 3, 4}, FromRaw(color.Raw{1, 2, 3, 4}).Channels())
}

func TestWithChannelsPreservesKind(t *testing.T) {
	v := Tuple(0, 0, 0).WithChannels([]float64{1, 2, 3})
	assert.Equal(t, KindTuple, v.Kind)
	assert.Equal(t, []float64{1, 2, 3}, v.Tuple)
}

func TestScale(t *testing.T) {
	v := Scalar(0.4).Scale(0.5)
	assert.InDelta(t, 0.2, v.Scalar, 1e-9)

	c := FromColor(color.RGB(1, 0.5, 0)).Scale(0.5)
	assert.InDelta(t, 0.5, c.Color.R(), 1e-9)
	assert.InDelta(t, 0.25, c.Color.G(), 1e-9)
}

func TestOpaqueIsNotNumeric(t *testing.T) {
	v := FromOpaque("rotate-fast")
	assert.Equal(t, KindOpaque, v.Kind)
	assert.Equal(t, "rotate-fast", v.Opaque)
	assert.False(t, v.IsNumeric())
	assert.Nil(t, v.Channels())
}

func TestNumericKinds(t *testing.T) {
	assert.True(t, Scalar(0).IsNumeric())
	assert.True(t, Tuple(0, 0).IsNumeric())
	assert.True(t, FromColor(color.RGB(0, 0, 0)).IsNumeric())
	assert.True(t, FromRaw(color.Raw{0}).IsNumeric())
	assert.False(t, FromOpaque(nil).IsNumeric())
}
