package ui

import (
	"image/color"
	"math"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
)

// PlaybackIndicator is a tiny circular indicator that breathes through green
// hues while playback runs, holds amber while paused, and rests gray when
// idle.
type PlaybackIndicator struct {
	wrap   *fyne.Container
	circle *canvas.Circle
	on     atomic.Bool
}

var (
	indicatorIdle   = color.NRGBA{0x80, 0x80, 0x80, 0xFF}
	indicatorPaused = color.NRGBA{0xD9, 0xA4, 0x2B, 0xFF}
)

// NewPlaybackIndicator constructs a PlaybackIndicator with the given diameter.
func NewPlaybackIndicator(diameter float32) *PlaybackIndicator {
	c := canvas.NewCircle(indicatorIdle)
	c.StrokeColor = color.NRGBA{0, 0, 0, 0}
	inner := container.New(layout.NewGridWrapLayout(fyne.NewSize(diameter, diameter)), c)
	wrap := container.NewCenter(inner)
	return &PlaybackIndicator{wrap: wrap, circle: c}
}

// CanvasObject returns the fyne object suitable for embedding in layouts.
func (s *PlaybackIndicator) CanvasObject() fyne.CanvasObject { return s.wrap }

// SetPlaying toggles the pulsating animation.
func (s *PlaybackIndicator) SetPlaying(on bool) {
	prev := s.on.Load()
	s.on.Store(on)
	if on && !prev {
		go s.animate()
	} else if !on {
		CallOnMain(func() {
			s.circle.FillColor = indicatorIdle
			s.circle.Refresh()
		})
	}
}

// SetPaused switches the indicator to the static paused color.
func (s *PlaybackIndicator) SetPaused() {
	s.on.Store(false)
	CallOnMain(func() {
		s.circle.FillColor = indicatorPaused
		s.circle.Refresh()
	})
}

// animate cycles the fill color until the on flag drops. The hue stays local
// to this goroutine; every restart begins the cycle anew.
func (s *PlaybackIndicator) animate() {
	t := time.NewTicker(90 * time.Millisecond)
	defer t.Stop()
	hue := 0.0
	for range t.C {
		if !s.on.Load() {
			return
		}
		// cycle through hues for a subtle breathing effect
		hue += 8
		if hue >= 360 {
			hue = 0
		}
		col := hsvToNRGBA(hue, 0.65, 0.95)
		CallOnMain(func() {
			if !s.on.Load() {
				return
			}
			s.circle.FillColor = col
			s.circle.Refresh()
		})
	}
}

// hsvToNRGBA converts HSV (0..360, 0..1, 0..1) to color.NRGBA.
func hsvToNRGBA(h, s, v float64) color.NRGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.NRGBA{
		R: uint8((r+m)*255 + 0.5),
		G: uint8((g+m)*255 + 0.5),
		B: uint8((b+m)*255 + 0.5),
		A: 0xFF,
	}
}
