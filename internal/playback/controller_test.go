package playback

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeNode struct {
	stopped bool
}

func (n *fakeNode) Stop() { n.stopped = true }

type fakeEngine struct {
	starts  []float64 // offsets passed to Start
	rates   []float64
	nodes   []*fakeNode
	onEnded func(Node)
}

func (e *fakeEngine) Start(offset, rate float64, onEnded func(Node)) (Node, error) {
	n := &fakeNode{}
	e.starts = append(e.starts, offset)
	e.rates = append(e.rates, rate)
	e.nodes = append(e.nodes, n)
	e.onEnded = onEnded
	return n, nil
}

func (e *fakeEngine) last() *fakeNode { return e.nodes[len(e.nodes)-1] }

func newTestController(duration float64) (*Controller, *fakeEngine, *fakeClock) {
	engine := &fakeEngine{}
	clock := newFakeClock()
	return NewController(engine, clock, duration), engine, clock
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPlayPauseResumeNoDrift(t *testing.T) {
	c, _, clock := newTestController(100)

	c.Play()
	clock.Advance(2 * time.Second)
	if p := c.Position(); !near(p, 2) {
		t.Fatalf("position after 2s = %v, want 2", p)
	}

	c.Pause()
	clock.Advance(5 * time.Second) // paused time must not count
	if p := c.Position(); !near(p, 2) {
		t.Fatalf("position while paused = %v, want 2", p)
	}

	c.Play()
	clock.Advance(1 * time.Second)
	if p := c.Position(); !near(p, 3) {
		t.Fatalf("position after resume+1s = %v, want 3", p)
	}
}

func TestSetRateScalesElapsedTime(t *testing.T) {
	c, engine, clock := newTestController(100)

	c.Play()
	clock.Advance(1 * time.Second)
	c.SetRate(2)
	clock.Advance(1 * time.Second)
	if p := c.Position(); !near(p, 3) { // 1s at 1x + 1s at 2x
		t.Fatalf("position = %v, want 3", p)
	}
	if got := engine.rates[len(engine.rates)-1]; got != 2 {
		t.Fatalf("restart rate = %v, want 2", got)
	}
	if c.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", c.Phase())
	}
}

func TestSetRateWhilePausedAppliesOnResume(t *testing.T) {
	c, engine, clock := newTestController(100)
	c.Play()
	clock.Advance(1 * time.Second)
	c.Pause()
	c.SetRate(0.5)
	if len(engine.nodes) != 1 {
		t.Fatalf("rate change while paused started a node: %d nodes", len(engine.nodes))
	}
	c.Play()
	clock.Advance(2 * time.Second)
	if p := c.Position(); !near(p, 2) { // 1 + 2x0.5
		t.Fatalf("position = %v, want 2", p)
	}
}

func TestSeekRestartsOutputWhilePlaying(t *testing.T) {
	c, engine, clock := newTestController(100)

	c.Play()
	clock.Advance(2 * time.Second)
	first := engine.last()
	c.Seek(50)
	if !first.stopped {
		t.Fatal("seek did not stop the previous output node")
	}
	if len(engine.starts) != 2 || engine.starts[1] != 50 {
		t.Fatalf("starts = %v, want second start at 50", engine.starts)
	}
	if c.Phase() != PhasePlaying {
		t.Fatalf("phase after seek = %v, want playing", c.Phase())
	}
	clock.Advance(1 * time.Second)
	if p := c.Position(); !near(p, 51) {
		t.Fatalf("position = %v, want 51", p)
	}
}

func TestSeekClampsAndSkip(t *testing.T) {
	c, _, _ := newTestController(100)
	c.Seek(250)
	if p := c.Position(); !near(p, 100) {
		t.Fatalf("seek past end: position = %v, want 100", p)
	}
	c.Seek(-5)
	if p := c.Position(); !near(p, 0) {
		t.Fatalf("seek before start: position = %v, want 0", p)
	}
	c.Seek(10)
	c.Skip(-30)
	if p := c.Position(); !near(p, 0) {
		t.Fatalf("skip below start: position = %v, want 0", p)
	}
	c.Skip(7.5)
	if p := c.Position(); !near(p, 7.5) {
		t.Fatalf("skip: position = %v, want 7.5", p)
	}
}

func TestTickFinishesNearEnd(t *testing.T) {
	c, engine, clock := newTestController(10)
	var last State
	c.SetOnChange(func(st State) { last = st })

	c.Play()
	clock.Advance(9995 * time.Millisecond) // duration - 0.005, inside epsilon
	c.Tick()

	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle after natural completion", c.Phase())
	}
	if p := c.Position(); !near(p, 0) {
		t.Fatalf("position = %v, want reset to 0", p)
	}
	if !engine.last().stopped {
		t.Fatal("completion did not stop the output node")
	}
	if last.Phase != PhaseIdle || !near(last.Position, 0) {
		t.Fatalf("observer saw %+v, want idle at 0", last)
	}
}

func TestTickPublishesPosition(t *testing.T) {
	c, _, clock := newTestController(100)
	var states []State
	c.SetOnChange(func(st State) { states = append(states, st) })

	c.Play()
	clock.Advance(1 * time.Second)
	c.Tick()
	clock.Advance(1 * time.Second)
	c.Tick()

	lastTwo := states[len(states)-2:]
	if !near(lastTwo[0].Position, 1) || !near(lastTwo[1].Position, 2) {
		t.Fatalf("tick positions = %v, %v; want 1, 2", lastTwo[0].Position, lastTwo[1].Position)
	}
}

func TestNaturalEndSignal(t *testing.T) {
	c, engine, _ := newTestController(10)
	c.Play()
	node := engine.last()

	engine.onEnded(node)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle after ended signal", c.Phase())
	}
	if p := c.Position(); !near(p, 0) {
		t.Fatalf("position = %v, want 0", p)
	}

	// A duplicate signal after idling must be a no-op.
	engine.onEnded(node)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after duplicate ended = %v, want idle", c.Phase())
	}
}

func TestEndedFromStaleNodeIgnored(t *testing.T) {
	c, engine, _ := newTestController(10)
	c.Play()
	stale := engine.last()
	onEndedStale := engine.onEnded
	c.Seek(5) // replaces the node while staying in playing phase

	onEndedStale(stale)
	if c.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, stale ended signal must not stop playback", c.Phase())
	}
}

func TestPlayStopsPriorNode(t *testing.T) {
	c, engine, _ := newTestController(10)
	c.Play()
	first := engine.last()
	c.Pause()
	if !first.stopped {
		t.Fatal("pause did not stop the output node")
	}
	c.Play()
	if len(engine.nodes) != 2 {
		t.Fatalf("nodes started = %d, want 2", len(engine.nodes))
	}
}

func TestNoSourceIsNoOp(t *testing.T) {
	c := NewController(nil, newFakeClock(), 0)
	c.Play()
	c.Pause()
	c.Seek(5)
	c.Skip(1)
	c.SetRate(2)
	c.Tick()
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
	if p := c.Position(); !near(p, 0) {
		t.Fatalf("position = %v, want 0", p)
	}
}

func TestInvalidRateRejected(t *testing.T) {
	c, _, _ := newTestController(10)
	c.SetRate(0)
	c.SetRate(-1)
	if r := c.Rate(); r != 1 {
		t.Fatalf("rate = %v, want 1 (invalid rates ignored)", r)
	}
}
