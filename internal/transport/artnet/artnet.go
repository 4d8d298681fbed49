// Package artnet implements a minimal Art-Net sender: one UDP socket
// per universe, unicasting to a configured target or broadcasting a
// 512-byte DMX payload to the local segment when the target is
// 255.255.255.255.
package artnet

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"github.com/roguenand/dmxld/internal/logging"
)

var artnetLog = logging.Default().With("artnet")

const port = 6454

var artNetID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0}

// Config configures an Art-Net transport for one universe.
type Config struct {
	// Universe is the DMX universe number this transport sends.
	Universe uint16
	// Target is the destination address; "255.255.255.255" (the
	// default) broadcasts to the local network segment.
	Target string
}

// Transport sends Art-Net ArtDMX packets for one universe over a UDP
// socket.
type Transport struct {
	cfg Config
	seq byte

	mu        sync.Mutex
	conn      *net.UDPConn
	broadcast bool
}

// New constructs an Art-Net transport for cfg.Universe. An empty
// Target defaults to the broadcast address.
func New(cfg Config) *Transport {
	if cfg.Target == "" {
		cfg.Target = "255.255.255.255"
	}
	return &Transport{cfg: cfg}
}

// Start opens the transport's UDP socket. When Target is the
// broadcast literal, the socket is flagged for broadcast sends rather
// than unicast to one address.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	broadcast := t.cfg.Target == "255.255.255.255"

	laddr := &net.UDPAddr{Port: 0}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return fmt.Errorf("artnet: listen: %w", err)
	}

	t.conn = conn
	t.broadcast = broadcast
	artnetLog.Info("universe %d streaming to %s (broadcast=%v)", t.cfg.Universe, t.cfg.Target, broadcast)
	return nil
}

// Send builds and writes one ArtDMX packet carrying frame.
func (t *Transport) Send(universe uint16, frame [512]byte) error {
	t.mu.Lock()
	conn := t.conn
	t.seq++
	seq := t.seq
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("artnet: transport not started")
	}

	target := fmt.Sprintf("%s:%d", t.cfg.Target, port)
	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return fmt.Errorf("artnet: resolve %s: %w", target, err)
	}

	packet := buildPacket(universe, seq, frame)
	if _, err := conn.WriteToUDP(packet, addr); err != nil {
		return fmt.Errorf("artnet: send universe %d: %w", universe, err)
	}
	return nil
}

// Stop closes the transport's UDP socket.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// buildPacket assembles an ArtDMX packet: 8-byte ID, opcode 0x5000,
// protocol version, sequence, physical port, universe (little-endian
// per the Art-Net spec's 15-bit Net/Sub-Net/Universe addressing), and
// a 512-byte DMX payload.
func buildPacket(universe uint16, seq byte, frame [512]byte) []byte {
	const headerLen = 18
	buf := make([]byte, headerLen+512)

	copy(buf[0:8], artNetID[:])
	binary.LittleEndian.PutUint16(buf[8:10], 0x5000)
	binary.BigEndian.PutUint16(buf[10:12], 14)
	buf[12] = seq
	buf[13] = 0
	binary.LittleEndian.PutUint16(buf[14:16], universe)
	binary.BigEndian.PutUint16(buf[16:18], 512)
	copy(buf[headerLen:], frame[:])

	return buf
}
