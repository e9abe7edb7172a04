package playback

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/edward-ap/wavecut/internal/audio"
)

// Oto allows a single context per process, so it is created once at the
// sample rate of the first loaded source. Later sources at other rates are
// resampled inside the node reader.
var (
	otoCtx     *oto.Context
	otoCtxRate int
	otoOnce    sync.Once
)

func initOto(sampleRate int) error {
	var err error
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, err = oto.NewContext(op)
		if err == nil {
			otoCtxRate = sampleRate
			<-ready
		}
	})
	if err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	if otoCtx == nil {
		return fmt.Errorf("audio output unavailable")
	}
	return nil
}

// endedPollInterval is how often a node's monitor checks for drained output.
// The display-refresh tick usually observes the end first; the monitor is the
// backstop for scheduling gaps.
const endedPollInterval = 50 * time.Millisecond

// OtoEngine converts a decoded source into interleaved 16-bit stereo PCM once
// and creates oto players over it on demand.
type OtoEngine struct {
	pcm        []byte // interleaved stereo int16 LE frames
	sampleRate int

	mu      sync.Mutex
	volume  float64 // 0..1
	current *otoNode
}

// NewOtoEngine prepares the output engine for one audio source. Mono sources
// are duplicated onto both output channels.
func NewOtoEngine(src *audio.Source) (*OtoEngine, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("no audio source")
	}
	if err := initOto(src.SampleRate); err != nil {
		return nil, err
	}

	left := src.Channels[0]
	right := left
	if len(src.Channels) > 1 {
		right = src.Channels[1]
	}
	frames := len(left)
	if len(right) < frames {
		frames = len(right)
	}
	pcm := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		putSample(pcm[i*4:], left[i])
		putSample(pcm[i*4+2:], right[i])
	}
	return &OtoEngine{pcm: pcm, sampleRate: src.SampleRate, volume: 1}, nil
}

// SetVolume applies an output level in [0, 1] to the active node and every
// node started afterwards.
func (e *OtoEngine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.mu.Lock()
	e.volume = v
	if e.current != nil {
		e.current.player.SetVolume(v)
	}
	e.mu.Unlock()
}

func putSample(dst []byte, v float32) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s := int16(v * 32767)
	dst[0] = byte(s)
	dst[1] = byte(uint16(s) >> 8)
}

// Start creates and starts an output node at the given offset and rate. The
// node monitors its own player and delivers onEnded exactly once when the
// output drains naturally; a node stopped through Stop never reports.
func (e *OtoEngine) Start(offsetSeconds, rate float64, onEnded func(Node)) (Node, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid playback rate %v", rate)
	}
	frames := len(e.pcm) / 4
	startFrame := int(offsetSeconds * float64(e.sampleRate))
	if startFrame < 0 {
		startFrame = 0
	}
	if startFrame > frames {
		startFrame = frames
	}

	// Fold the playback rate and any context/source rate mismatch into a
	// single read step.
	step := rate * float64(e.sampleRate) / float64(otoCtxRate)
	reader := &pcmReader{pcm: e.pcm, pos: float64(startFrame), step: step}

	n := &otoNode{player: otoCtx.NewPlayer(reader)}
	e.mu.Lock()
	n.player.SetVolume(e.volume)
	e.current = n
	e.mu.Unlock()
	n.player.Play()
	go n.monitor(onEnded)
	return n, nil
}

// pcmReader serves stereo int16 frames from the prepared buffer, stepping
// through source frames at the playback rate (nearest-neighbor resampling).
type pcmReader struct {
	pcm  []byte
	pos  float64
	step float64
}

func (r *pcmReader) Read(p []byte) (int, error) {
	frames := len(r.pcm) / 4
	if int(r.pos) >= frames {
		return 0, io.EOF
	}
	n := 0
	for n+4 <= len(p) {
		idx := int(r.pos)
		if idx >= frames {
			break
		}
		copy(p[n:n+4], r.pcm[idx*4:idx*4+4])
		n += 4
		r.pos += r.step
	}
	// A buffer shorter than one frame reads zero bytes without error; EOF is
	// reported only once the cursor passes the last frame.
	return n, nil
}

// otoNode is one live output player plus the one-shot intentional-stop flag.
type otoNode struct {
	player      *oto.Player
	intentional atomic.Bool
	closeOnce   sync.Once
}

// Stop marks the stop as requested by the controller and releases the
// player. Safe to call multiple times and on an already drained node.
func (n *otoNode) Stop() {
	n.intentional.Store(true)
	n.closeOnce.Do(func() {
		_ = n.player.Close()
	})
}

// monitor watches for the player draining naturally. An intentional stop
// silences the completion signal.
func (n *otoNode) monitor(onEnded func(Node)) {
	t := time.NewTicker(endedPollInterval)
	defer t.Stop()
	for range t.C {
		if n.intentional.Load() {
			return
		}
		if !n.player.IsPlaying() {
			if n.intentional.Load() {
				return
			}
			n.closeOnce.Do(func() {
				_ = n.player.Close()
			})
			if onEnded != nil {
				onEnded(n)
			}
			return
		}
	}
}
