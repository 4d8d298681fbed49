// Package sacn implements a minimal sACN (E1.31) sender: one UDP
// socket per universe, multicasting to 239.255.<hi>.<lo> by default
// or unicasting to a configured destination, each packet a fixed ACN
// root/frame/DMP layer header followed by the 512-byte DMX payload.
package sacn

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"github.com/roguenand/dmxld/internal/logging"
)

var sacnLog = logging.Default().With("sacn")

const (
	port            = 5568
	sourceNameLimit = 64
	cidLength       = 16
)

// Config configures a sACN transport for one universe.
type Config struct {
	// Universe is the DMX universe number this transport sends.
	Universe uint16
	// Destination overrides multicast with a unicast target address
	// ("host" or "host:port"); empty means multicast to the
	// universe's default ACN multicast group.
	Destination string
	// SourceName identifies the sender in each packet's root layer,
	// truncated to 64 bytes.
	SourceName string
	// Priority is the sACN packet priority (0-200, 100 is default).
	Priority byte
}

// sequence wraps a byte that increments per packet and wraps at 256,
// as the E1.31 DMP layer sequence number requires.
type sequence struct {
	mu sync.Mutex
	n  byte
}

func (s *sequence) next() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// Transport sends sACN packets for one universe over a UDP socket.
type Transport struct {
	cfg  Config
	cid  [cidLength]byte
	seq  sequence
	mu   sync.Mutex
	conn *net.UDPConn
	addr *net.UDPAddr
}

// New constructs a sACN transport for cfg.Universe. cid should be a
// stable 16-byte identifier for the sending process; a zero value is
// accepted but discouraged across multiple concurrent sources.
func New(cfg Config, cid [16]byte) *Transport {
	if cfg.Priority == 0 {
		cfg.Priority = 100
	}
	return &Transport{cfg: cfg, cid: cid}
}

// multicastAddr returns the default ACN multicast group for a
// universe: 239.255.<hi>.<lo>.
func multicastAddr(universe uint16) string {
	return fmt.Sprintf("239.255.%d.%d:%d", byte(universe>>8), byte(universe), port)
}

// Start opens the transport's UDP socket, resolving the destination
// to the configured unicast target or, when none is set, the
// universe's default multicast group.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := t.cfg.Destination
	if target == "" {
		target = multicastAddr(t.cfg.Universe)
	} else if _, _, err := net.SplitHostPort(target); err != nil {
		target = fmt.Sprintf("%s:%d", target, port)
	}

	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return fmt.Errorf("sacn: resolve %s: %w", target, err)
	}

	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return fmt.Errorf("sacn: dial %s: %w", target, err)
	}

	t.conn = conn
	t.addr = addr
	sacnLog.Info("universe %d streaming to %s", t.cfg.Universe, target)
	return nil
}

// Send builds and writes one sACN DMP packet carrying frame.
func (t *Transport) Send(universe uint16, frame [512]byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("sacn: transport not started")
	}

	packet := t.buildPacket(universe, frame)
	_, err := conn.Write(packet)
	if err != nil {
		return fmt.Errorf("sacn: send universe %d: %w", universe, err)
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

// buildPacket assembles the ACN root layer, E1.31 framing layer, and
// DMP layer for one universe frame, per the E1.31 wire format.
func (t *Transport) buildPacket(universe uint16, frame [512]byte) []byte {
	const (
		rootLen  = 38
		frameLen = 77
		dmpLen   = 10 + 513
		total    = rootLen + frameLen + dmpLen
	)

	buf := make([]byte, total)

	// Root layer.
	binary.BigEndian.PutUint16(buf[0:2], 0x0010)
	copy(buf[4:16], "ASC-E1.17\x00\x00\x00")
	flagsAndLength(buf[16:18], total-16)
	binary.BigEndian.PutUint32(buf[18:22], 0x00000004)
	copy(buf[22:38], t.cid[:])

	// Framing layer.
	flagsAndLength(buf[38:40], total-38)
	binary.BigEndian.PutUint32(buf[40:44], 0x00000002)
	copy(buf[44:44+sourceNameLimit], padName(t.cfg.SourceName))
	buf[108] = t.cfg.Priority
	binary.BigEndian.PutUint16(buf[109:111], 0)
	buf[111] = t.seq.next()
	buf[112] = 0
	binary.BigEndian.PutUint16(buf[113:115], universe)

	// DMP layer.
	flagsAndLength(buf[115:117], total-115)
	buf[117] = 0x02
	buf[118] = 0xa1
	binary.BigEndian.PutUint16(buf[119:121], 0)
	binary.BigEndian.PutUint16(buf[121:123], 1)
	binary.BigEndian.PutUint16(buf[123:125], 513)
	buf[125] = 0
	copy(buf[126:638], frame[:])

	return buf
}

// flagsAndLength writes the 0x7 high nibble (PDU flags) plus length
// into a 2-byte ACN "flags and length" field.
func flagsAndLength(dst []byte, length int) {
	v := uint16(0x7000) | uint16(length&0x0fff)
	binary.BigEndian.PutUint16(dst, v)
}

func padName(name string) []byte {
	out := make([]byte, sourceNameLimit)
	copy(out, name)
	return out
}
