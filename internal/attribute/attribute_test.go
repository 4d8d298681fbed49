package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/color"
	"github.com/roguenand/dmxld/internal/value"
)

func TestDimmerEncode8Bit(t *testing.T) {
	d := NewDimmer(false)
	assert.Equal(t, []byte{255}, d.Encode(value.Scalar(1.0)))
	assert.Equal(t, []byte{0}, d.Encode(value.Scalar(0.0)))
	assert.Equal(t, []byte{127}, d.Encode(value.Scalar(0.5)))
}

func TestDimmerClampsOutOfRange(t *testing.T) {
	d := NewDimmer(false)
	assert.Equal(t, []byte{255}, d.Encode(value.Scalar(2.0)))
	assert.Equal(t, []byte{0}, d.Encode(value.Scalar(-1.0)))
}

func TestDimmer16Bit(t *testing.T) {
	d := NewDimmer(true)
	require.Equal(t, 2, d.ChannelCount())
	bytes := d.Encode(value.Scalar(1.0))
	assert.Equal(t, []byte{0xff, 0xff}, bytes)
	bytes = d.Encode(value.Scalar(0))
	assert.Equal(t, []byte{0x00, 0x00}, bytes)
}

func TestSkipEmitsZeroBytesAndUniqueNames(t *testing.T) {
	a := NewSkip(3)
	b := NewSkip(3)
	assert.Equal(t, []byte{0, 0, 0}, a.Encode(value.Scalar(1)))
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestGoboIsPlainScalarPassthrough(t *testing.T) {
	g := NewGobo()
	assert.Equal(t, 1, g.ChannelCount())
	assert.Equal(t, value.Scalar(0), g.Default())
	assert.Equal(t, []byte{127}, g.Encode(value.Scalar(0.5)))
}

func TestRGBConvertIdentity(t *testing.T) {
	rgb := NewRGB(color.StrategyBalanced)
	bytes := rgb.Encode(value.FromColor(color.RGB(1, 0.5, 0)))
	assert.Equal(t, []byte{255, 127, 0}, bytes)
}

func TestRGBWConvertsThroughStrategy(t *testing.T) {
	rgbw := NewRGBW(color.StrategyBalanced)
	bytes := rgbw.Encode(value.FromColor(color.RGB(1, 1, 1)))
	assert.Equal(t, []byte{0, 0, 0, 255}, bytes)
}

func TestRawBypassesConversion(t *testing.T) {
	rgbw := NewRGBW(color.StrategyBalanced)
	bytes := rgbw.Encode(value.FromRaw(color.Raw{1, 1, 1, 1}))
	assert.Equal(t, []byte{255, 255, 255, 255}, bytes, "Raw must skip convert() entirely, unlike a Color of the same (1,1,1) which RGBW-converts to all-white")
}

func TestSegmentedRGBWChannelCount(t *testing.T) {
	rgbw := NewRGBW(color.StrategyBalanced, WithSegments(4))
	assert.Equal(t, 16, rgbw.ChannelCount())
	assert.Equal(t, 4, rgbw.Segments())
}

func TestPanTiltDefaultsCentered(t *testing.T) {
	pan := NewPan(false)
	assert.Equal(t, value.Scalar(0.5), pan.Default())
	assert.Equal(t, []byte{127}, pan.Encode(pan.Default()))
}
