// Package engine implements the frame loop: it owns the persistent
// per-fixture state, drives clip rendering at a fixed frame rate,
// folds deltas into state via the blend algebra, encodes the result
// through the rig, and hands per-universe frames to a pluggable
// transport.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/roguenand/dmxld/internal/blend"
	"github.com/roguenand/dmxld/internal/clip"
	"github.com/roguenand/dmxld/internal/config"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/logging"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/transport"
	"github.com/roguenand/dmxld/internal/transport/artnet"
	"github.com/roguenand/dmxld/internal/transport/sacn"
)

var engineLog = logging.Default().With("engine")

// ErrRenderFailed wraps a panic or error recovered from a
// user-supplied clip's Render method. The engine's policy is to fail
// the tick and stop rather than silently continue emitting stale
// frames, which would mask an authoring bug.
var ErrRenderFailed = errors.New("engine: clip render failed")

// TransportFactory builds the transport an Engine drives for a given
// set of universes. NewEngine wires one based on config.Config; tests
// and embedders can substitute their own.
type TransportFactory func(universes []uint16) transport.Transport

// Engine owns a rig, persistent per-fixture state, and the frame
// loop. It is not safe for concurrent Play calls; a single Engine
// drives one show at a time.
type Engine struct {
	mu    sync.Mutex
	r     *rig.Rig
	state map[*fixture.Fixture]blend.State
	fps   float64

	newTransport TransportFactory

	cancel      context.CancelFunc
	done        chan struct{}
	loopErr     error
	transport   transport.Transport
	currentClip clip.Clip

	subs map[chan map[uint16]map[int]byte]struct{}
}

// New constructs an Engine with an explicit frame rate and transport
// factory. Most callers should use NewEngine(cfg) instead.
func New(fps float64, factory TransportFactory) *Engine {
	return &Engine{
		fps:          fps,
		newTransport: factory,
		state:        map[*fixture.Fixture]blend.State{},
		subs:         map[chan map[uint16]map[int]byte]struct{}{},
	}
}

// Subscribe registers ch to receive a copy of every universe map the
// frame loop emits, for as long as a play session is running. Sends
// are best-effort: a subscriber that can't keep up has frames dropped
// rather than stalling the loop, the same non-blocking discipline the
// loop applies to the transport itself.
func (e *Engine) Subscribe(ch chan map[uint16]map[int]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs[ch] = struct{}{}
}

// Unsubscribe removes a channel registered via Subscribe.
func (e *Engine) Unsubscribe(ch chan map[uint16]map[int]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, ch)
}

// CurrentClip returns the clip passed to the most recent Play call,
// or nil if Play has never been called. The preview façade uses this
// to serve single-frame renders without the caller re-threading the
// show's root clip through the HTTP layer.
func (e *Engine) CurrentClip() clip.Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentClip
}

func (e *Engine) notifySubscribers(universeMap map[uint16]map[int]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- universeMap:
		default:
		}
	}
}

// NewEngine constructs an Engine wired from cfg: its fps and the
// sACN/Art-Net transport factory selected by cfg.Engine.Protocol.
func NewEngine(cfg *config.Config) *Engine {
	return New(float64(cfg.Engine.FPS), func(universes []uint16) transport.Transport {
		byUniverse := make(map[uint16]transport.Transport, len(universes))
		for _, u := range universes {
			switch cfg.Engine.Protocol {
			case config.ProtocolArtNet:
				target := cfg.Network.ArtNetTarget
				if ip, ok := cfg.Network.UniverseTargets[u]; ok {
					target = ip
				}
				byUniverse[u] = artnet.New(artnet.Config{Universe: u, Target: target})
			default:
				dest := cfg.Network.UniverseTargets[u]
				byUniverse[u] = sacn.New(sacn.Config{Universe: u, Destination: dest, SourceName: "dmxld"}, [16]byte{})
			}
		}
		return transport.NewMulti(byUniverse)
	})
}

// SetRig replaces the engine's rig and resets per-fixture state to
// empty.
func (e *Engine) SetRig(r *rig.Rig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.r = r
	e.state = map[*fixture.Fixture]blend.State{}
}

// Rig returns the engine's current rig, or nil if none has been set.
func (e *Engine) Rig() *rig.Rig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.r
}

// renderOnce invokes c.Render(t, r), converting a panic from
// user-supplied code into ErrRenderFailed rather than crashing the
// driver goroutine.
func renderOnce(c clip.Clip, t float64, r *rig.Rig) (deltas map[*fixture.Fixture]blend.Delta, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRenderFailed, p)
		}
	}()
	return c.Render(t, r), nil
}

// RenderFrame resets fixture state, renders clip once at t, applies
// the resulting deltas, and encodes via the rig. It is deterministic
// and has no side effects beyond the engine's internal state;
// intended for testing and offline preview.
func (e *Engine) RenderFrame(c clip.Clip, t float64) (map[uint16]map[int]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.r == nil {
		return nil, fmt.Errorf("engine: no rig configured")
	}

	e.state = map[*fixture.Fixture]blend.State{}
	deltas, err := renderOnce(c, t, e.r)
	if err != nil {
		return nil, err
	}
	e.applyDeltasLocked(deltas)
	return e.r.Encode(e.state), nil
}

func (e *Engine) applyDeltasLocked(deltas map[*fixture.Fixture]blend.Delta) {
	for f, d := range deltas {
		e.state[f] = blend.Merge([]blend.Delta{d}, e.state[f])
	}
}

// Play creates and starts a transport for every universe present in
// the rig, resets fixture state, and enters the frame loop on a new
// goroutine. Play is non-blocking; call Wait to block until the show
// finishes or Stop is called.
func (e *Engine) Play(c clip.Clip, startAt float64) error {
	e.mu.Lock()
	if e.r == nil {
		e.mu.Unlock()
		return fmt.Errorf("engine: no rig configured")
	}
	if e.cancel != nil {
		e.mu.Unlock()
		return fmt.Errorf("engine: already playing")
	}

	universes := e.r.Universes()
	tr := e.newTransport(universes)

	ctx, cancel := context.WithCancel(context.Background())
	if err := tr.Start(ctx); err != nil {
		cancel()
		e.mu.Unlock()
		return fmt.Errorf("engine: start transport: %w", err)
	}

	e.transport = tr
	e.cancel = cancel
	e.done = make(chan struct{})
	e.loopErr = nil
	e.state = map[*fixture.Fixture]blend.State{}
	e.currentClip = c
	r := e.r
	done := e.done
	e.mu.Unlock()

	go e.loop(ctx, c, startAt, r, done)
	return nil
}

// loop is the soft-realtime frame loop: compute show time, stop if
// past a finite duration, render, fold deltas into persistent state,
// encode, hand off to the transport, then pace to the next tick at an
// absolute deadline to avoid drift.
func (e *Engine) loop(ctx context.Context, c clip.Clip, startAt float64, r *rig.Rig, done chan struct{}) {
	interval := time.Duration(float64(time.Second) / e.fps)
	startInstant := time.Now().Add(-time.Duration(startAt * float64(time.Second)))

	var loopErr error
	frameIndex := 0

tickLoop:
	for {
		select {
		case <-ctx.Done():
			break tickLoop
		default:
		}

		showTime := time.Since(startInstant).Seconds()
		if dur, finite := c.Duration(); finite && showTime > dur {
			break tickLoop
		}

		deltas, err := renderOnce(c, showTime, r)
		if err != nil {
			loopErr = err
			break tickLoop
		}

		e.mu.Lock()
		e.applyDeltasLocked(deltas)
		universeMap := r.Encode(e.state)
		e.mu.Unlock()

		if err := e.emit(universeMap); err != nil {
			loopErr = err
			break tickLoop
		}

		frameIndex++
		deadline := startInstant.Add(time.Duration(float64(frameIndex) * float64(interval)))
		sleep := time.Until(deadline)
		if sleep <= 0 {
			continue
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			break tickLoop
		case <-timer.C:
		}
	}

	e.mu.Lock()
	tr := e.transport
	e.mu.Unlock()
	if tr != nil {
		if err := tr.Stop(); err != nil && loopErr == nil {
			loopErr = err
		}
	}

	e.mu.Lock()
	e.loopErr = loopErr
	e.cancel = nil
	e.mu.Unlock()
	close(done)
}

func (e *Engine) emit(universeMap map[uint16]map[int]byte) error {
	e.mu.Lock()
	tr := e.transport
	e.mu.Unlock()

	for universe, channels := range universeMap {
		var frame [512]byte
		for ch, b := range channels {
			frame[ch-1] = b
		}
		if err := tr.Send(universe, frame); err != nil {
			return err
		}
	}
	e.notifySubscribers(universeMap)
	return nil
}

// Wait blocks until the current play finishes (clip duration elapsed)
// or Stop is called, then returns any error the loop recorded.
func (e *Engine) Wait() error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loopErr
}

// Stop signals the loop to exit at the next frame boundary. The
// transport is always shut down before Wait returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// PlaySync is Play followed by Wait, with the play cancelled if the
// process receives an interrupt signal.
func (e *Engine) PlaySync(c clip.Clip) error {
	if err := e.Play(c, 0); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	resultCh := make(chan error, 1)
	go func() { resultCh <- e.Wait() }()

	select {
	case err := <-resultCh:
		return err
	case <-sigCh:
		engineLog.Info("interrupt received, stopping")
		e.Stop()
		return <-resultCh
	}
}
