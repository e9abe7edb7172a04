// Package playback owns the authoritative playback position and drives the
// audio output hardware. The controller is the only component allowed to
// change playback phase or position; everything else observes it.
package playback

import (
	"log"
	"sync"
	"time"
)

// Phase is the playback state machine position.
type Phase int

const (
	// PhaseIdle means no playback is scheduled; position rests at its
	// stored value (0 after natural completion).
	PhaseIdle Phase = iota
	// PhasePlaying means an output node is active and position advances.
	PhasePlaying
	// PhasePaused means playback is suspended at the stored position.
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "idle"
	}
}

// endEpsilon is how close to the end of the track the position may get before
// the controller treats playback as naturally complete.
const endEpsilon = 0.01

// State is the snapshot handed to observers on every change.
type State struct {
	Phase    Phase
	Position float64
	Rate     float64
}

// Node is one live audio output. Stop is idempotent: stopping an already
// stopped or never-started node is a no-op. A stop issued through this method
// marks the node as intentionally stopped so its completion is never mistaken
// for natural end of track.
type Node interface {
	Stop()
}

// Engine creates output nodes bound to the loaded audio. onEnded fires at
// most once, only when the node drains naturally (never after Stop).
type Engine interface {
	Start(offsetSeconds, rate float64, onEnded func(Node)) (Node, error)
}

// Clock abstracts the hardware timebase so tests can advance time manually.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock timebase used outside of tests.
var SystemClock Clock = systemClock{}

// Controller keeps the displayed position in lockstep with the audio
// hardware across pause, seek, and rate changes. Position is always
// recomputed from the clock delta since the last start, never accumulated
// per tick, so scheduling jitter cannot drift it.
type Controller struct {
	mu sync.Mutex

	engine   Engine
	clock    Clock
	duration float64

	phase     Phase
	stored    float64 // position at the last start/pause/seek boundary
	rate      float64
	startedAt time.Time // clock reference captured at the last start
	node      Node

	onChange func(State)
}

// NewController builds a controller for a track of the given duration. A
// duration of zero (or a nil engine) turns every operation into a no-op.
func NewController(engine Engine, clock Clock, durationSeconds float64) *Controller {
	if clock == nil {
		clock = SystemClock
	}
	return &Controller{
		engine:   engine,
		clock:    clock,
		duration: durationSeconds,
		rate:     1,
	}
}

// SetOnChange registers the observer notified after every phase or position
// change. Callbacks run outside the controller lock.
func (c *Controller) SetOnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) usable() bool {
	return c.engine != nil && c.duration > 0
}

func (c *Controller) clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > c.duration {
		return c.duration
	}
	return t
}

// positionLocked recomputes the live position from the clock delta.
func (c *Controller) positionLocked(now time.Time) float64 {
	if c.phase != PhasePlaying {
		return c.stored
	}
	elapsed := now.Sub(c.startedAt).Seconds()
	return c.clamp(c.stored + elapsed*c.rate)
}

// stopNodeLocked stops the current output node, if any, marking the stop as
// intentional. Stopping an absent node is not an error.
func (c *Controller) stopNodeLocked() {
	if c.node != nil {
		c.node.Stop()
		c.node = nil
	}
}

// startNodeLocked starts output from the stored position at the current rate.
func (c *Controller) startNodeLocked() bool {
	node, err := c.engine.Start(c.stored, c.rate, c.handleEnded)
	if err != nil {
		log.Println("playback: start output failed:", err)
		return false
	}
	c.node = node
	c.startedAt = c.clock.Now()
	return true
}

func (c *Controller) snapshotLocked() (func(State), State) {
	return c.onChange, State{Phase: c.phase, Position: c.positionLocked(c.clock.Now()), Rate: c.rate}
}

func notify(fn func(State), st State) {
	if fn != nil {
		fn(st)
	}
}

// Play starts or resumes playback from the stored position. Calling Play
// while already playing is a no-op.
func (c *Controller) Play() {
	c.mu.Lock()
	if !c.usable() || c.phase == PhasePlaying {
		c.mu.Unlock()
		return
	}
	c.stopNodeLocked()
	if !c.startNodeLocked() {
		c.mu.Unlock()
		return
	}
	c.phase = PhasePlaying
	tracef("play from %.3fs at %.2fx", c.stored, c.rate)
	fn, st := c.snapshotLocked()
	c.mu.Unlock()
	notify(fn, st)
}

// Pause freezes the position at its current value and stops output.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.phase != PhasePlaying {
		c.mu.Unlock()
		return
	}
	c.stored = c.positionLocked(c.clock.Now())
	c.stopNodeLocked()
	c.phase = PhasePaused
	tracef("pause at %.3fs", c.stored)
	fn, st := c.snapshotLocked()
	c.mu.Unlock()
	notify(fn, st)
}

// Seek jumps to t (clamped to the track bounds). While playing, output is
// restarted from the new position without leaving the playing phase.
func (c *Controller) Seek(t float64) {
	c.mu.Lock()
	if !c.usable() {
		c.mu.Unlock()
		return
	}
	c.stored = c.clamp(t)
	if c.phase == PhasePlaying {
		c.stopNodeLocked()
		if !c.startNodeLocked() {
			c.phase = PhasePaused
		}
	}
	tracef("seek to %.3fs", c.stored)
	fn, st := c.snapshotLocked()
	c.mu.Unlock()
	notify(fn, st)
}

// Skip moves the position by delta seconds relative to the live position.
func (c *Controller) Skip(delta float64) {
	c.Seek(c.Position() + delta)
}

// SetRate changes the playback rate. While playing, output restarts so the
// new rate takes effect immediately; elapsed time already played is folded
// into the stored position under the old rate first.
func (c *Controller) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.mu.Lock()
	if !c.usable() {
		c.mu.Unlock()
		return
	}
	if c.phase == PhasePlaying {
		c.stored = c.positionLocked(c.clock.Now())
		c.stopNodeLocked()
		c.rate = rate
		if !c.startNodeLocked() {
			c.phase = PhasePaused
		}
	} else {
		c.rate = rate
	}
	tracef("rate set to %.2fx", rate)
	fn, st := c.snapshotLocked()
	c.mu.Unlock()
	notify(fn, st)
}

// Tick recomputes the position from the hardware clock delta and publishes
// it. The UI drives this once per display frame while playing; near the end
// of the track it performs the natural-completion reset.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.phase != PhasePlaying {
		c.mu.Unlock()
		return
	}
	pos := c.positionLocked(c.clock.Now())
	if pos >= c.duration-endEpsilon {
		fn, st := c.finishLocked()
		c.mu.Unlock()
		notify(fn, st)
		return
	}
	fn := c.onChange
	st := State{Phase: c.phase, Position: pos, Rate: c.rate}
	c.mu.Unlock()
	notify(fn, st)
}

// finishLocked is the natural-completion path: stop output, rewind to the
// start, and return to idle.
func (c *Controller) finishLocked() (func(State), State) {
	c.stopNodeLocked()
	c.stored = 0
	c.phase = PhaseIdle
	tracef("finished, reset to idle")
	return c.snapshotLocked()
}

// handleEnded is the completion notification from the output hardware. The
// engine only delivers it for natural ends, but a stale or duplicate signal
// may still arrive after the controller already moved on; those are ignored.
func (c *Controller) handleEnded(n Node) {
	c.mu.Lock()
	if c.phase != PhasePlaying || n != c.node {
		c.mu.Unlock()
		return
	}
	fn, st := c.finishLocked()
	c.mu.Unlock()
	notify(fn, st)
}

// Position returns the live playback position in seconds.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked(c.clock.Now())
}

// Phase returns the current playback phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Rate returns the current playback rate.
func (c *Controller) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Stop halts playback and releases the output node without rewinding. Used
// when tearing down the session (source change, window close).
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stored = c.positionLocked(c.clock.Now())
	c.stopNodeLocked()
	c.phase = PhaseIdle
	fn, st := c.snapshotLocked()
	c.mu.Unlock()
	notify(fn, st)
}
