package sacn

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulticastAddrEncodesUniverseIntoLastTwoOctets(t *testing.T) {
	assert.Equal(t, "239.255.0.1:5568", multicastAddr(1))
	assert.Equal(t, "239.255.1.44:5568", multicastAddr(300))
}

func TestPadNameTruncatesAndPads(t *testing.T) {
	out := padName("dmxld")
	assert.Len(t, out, sourceNameLimit)
	assert.Equal(t, []byte("dmxld"), out[:5])
	assert.Equal(t, byte(0), out[5])

	long := padName(strings.Repeat("x", sourceNameLimit+10))
	assert.Len(t, long, sourceNameLimit)
}

func TestSequenceWrapsAt256(t *testing.T) {
	var s sequence
	var last byte
	for i := 0; i < 256; i++ {
		last = s.next()
	}
	assert.Equal(t, byte(0), last, "256 increments from 0 must wrap back to 0")
}

func TestBuildPacketLengthAndUniversePlacement(t *testing.T) {
	tr := New(Config{Universe: 7, SourceName: "dmxld"}, [16]byte{1, 2, 3})
	var frame [512]byte
	frame[0] = 0xff
	frame[511] = 0x42

	packet := tr.buildPacket(7, frame)
	assert.Len(t, packet, 38+77+10+513)

	gotUniverse := binary.BigEndian.Uint16(packet[113:115])
	assert.Equal(t, uint16(7), gotUniverse)

	assert.Equal(t, byte(0xff), packet[126])
	assert.Equal(t, byte(0x42), packet[126+511])
}

func TestBuildPacketSequenceIncrements(t *testing.T) {
	tr := New(Config{Universe: 1}, [16]byte{})
	var frame [512]byte
	first := tr.buildPacket(1, frame)
	second := tr.buildPacket(1, frame)
	assert.Equal(t, byte(1), first[111])
	assert.Equal(t, byte(2), second[111])
}

func TestDefaultPriorityAppliedWhenZero(t *testing.T) {
	tr := New(Config{Universe: 1}, [16]byte{})
	assert.Equal(t, byte(100), tr.cfg.Priority)
}
