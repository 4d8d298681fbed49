// Package transport defines the external collaborator contract the
// engine drives: a handle that starts, sends one 512-byte DMX
// payload per universe per tick, and stops. The wire-level sACN and
// Art-Net encoders living under transport/sacn and transport/artnet
// are themselves out of the render/composition/scheduling core; this
// interface is the seam between them.
package transport

import (
	"context"
	"errors"
)

// ErrSendFailed wraps a transport-level send error. The engine stops
// the frame loop and propagates it through Wait.
var ErrSendFailed = errors.New("transport: send failed")

// Transport is the contract every wire encoder (sACN, Art-Net, or a
// test double) satisfies.
type Transport interface {
	// Start opens whatever sockets the transport needs for the
	// universes it was configured with.
	Start(ctx context.Context) error
	// Send emits one full 512-byte DMX payload for universe.
	// Channels absent from frame are 0 by construction (the engine
	// always hands over a full array).
	Send(universe uint16, frame [512]byte) error
	// Stop closes the transport's sockets. It is always called
	// before Engine.Wait returns.
	Stop() error
}

// Multi fans Send out across multiple per-universe transports,
// letting the engine treat "the rig's universes" as a single
// transport handle. Start/Stop are applied to every member.
type Multi struct {
	byUniverse map[uint16]Transport
}

// NewMulti constructs a Multi transport from a universe->Transport
// map.
func NewMulti(byUniverse map[uint16]Transport) *Multi {
	return &Multi{byUniverse: byUniverse}
}

// Start starts every underlying transport, stopping any already
// started if one fails.
func (m *Multi) Start(ctx context.Context) error {
	started := make([]Transport, 0, len(m.byUniverse))
	for _, t := range m.byUniverse {
		if err := t.Start(ctx); err != nil {
			for _, s := range started {
				_ = s.Stop()
			}
			return err
		}
		started = append(started, t)
	}
	return nil
}

// Send routes frame to the transport registered for universe, if
// any. A universe with no registered transport is silently ignored
// (the rig may reference fewer universes than are wired up).
func (m *Multi) Send(universe uint16, frame [512]byte) error {
	t, ok := m.byUniverse[universe]
	if !ok {
		return nil
	}
	if err := t.Send(universe, frame); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// Stop stops every underlying transport, collecting (not
// short-circuiting on) errors.
func (m *Multi) Stop() error {
	var errs []error
	for _, t := range m.byUniverse {
		if err := t.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
