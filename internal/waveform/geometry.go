package waveform

import "math"

const (
	// MinZoom and MaxZoom bound the integer zoom factor.
	MinZoom = 1
	MaxZoom = 8

	// followMargin is how close the playhead may get to the viewport edge
	// before the view re-centers on it.
	followMargin = 20
)

// ClampZoom constrains a zoom factor to the supported range.
func ClampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// Mapper performs stateless conversions between track time, zoomed canvas
// pixels, and viewport-relative pointer coordinates.
type Mapper struct {
	Duration      float64 // seconds
	Zoom          int     // integer factor in [MinZoom, MaxZoom]
	ViewportWidth float64 // logical pixels
	ScrollOffset  float64 // logical pixels, >= 0
}

// CanvasWidth is the full zoomed canvas width in logical pixels, never below 1.
func (m Mapper) CanvasWidth() float64 {
	w := math.Floor(m.ViewportWidth * float64(ClampZoom(m.Zoom)))
	if w < 1 {
		return 1
	}
	return w
}

// TimeToX converts a track time to a canvas x coordinate.
func (m Mapper) TimeToX(t float64) float64 {
	if m.Duration <= 0 {
		return 0
	}
	return t / m.Duration * m.CanvasWidth()
}

// XToTime converts a canvas x coordinate back to a track time, clamped to
// [0, Duration].
func (m Mapper) XToTime(x float64) float64 {
	if m.Duration <= 0 {
		return 0
	}
	t := x / m.CanvasWidth() * m.Duration
	if t < 0 {
		return 0
	}
	if t > m.Duration {
		return m.Duration
	}
	return t
}

// PointerToCanvasX translates a pointer x relative to the viewport origin into
// canvas space, accounting for horizontal scrolling when zoomed in.
func (m Mapper) PointerToCanvasX(clientX, viewportOriginX float64) float64 {
	return clientX - viewportOriginX + m.ScrollOffset
}

// FollowPlayhead reports the scroll offset that keeps the playhead visible.
// While the playhead stays inside the viewport minus a small edge margin the
// current offset is returned with moved=false; once it drifts outside, the
// returned offset centers the playhead, clamped so the view never scrolls
// before the start of the canvas.
func (m Mapper) FollowPlayhead(t float64) (offset float64, moved bool) {
	x := m.TimeToX(t)
	if x >= m.ScrollOffset && x <= m.ScrollOffset+m.ViewportWidth-followMargin {
		return m.ScrollOffset, false
	}
	offset = x - m.ViewportWidth/2
	if offset < 0 {
		offset = 0
	}
	return offset, true
}
