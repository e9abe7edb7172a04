package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"github.com/edward-ap/wavecut/internal/cuts"
	"github.com/edward-ap/wavecut/internal/waveform"
)

const (
	waveViewHeight = 140
	playheadWidth  = 2
	markerDashOn   = 4
	markerDashOff  = 4
)

var (
	waveBackground = color.NRGBA{0x16, 0x16, 0x16, 0xFF}
	waveCenterLine = color.NRGBA{0x3A, 0x3A, 0x3A, 0xFF}
	waveColor      = color.NRGBA{0x3C, 0xB0, 0x6E, 0xFF}
	markerColor    = color.NRGBA{0xE0, 0x52, 0x52, 0xFF}
	playheadColor  = color.NRGBA{0xF0, 0xF0, 0xF0, 0xFF}
)

// WaveView paints the downsampled waveform, cut markers, and the playhead,
// and turns pointer clicks into cut-point toggles. The widget's width is the
// full zoomed canvas; its parent scroll container provides the viewport.
type WaveView struct {
	widget.BaseWidget

	store *cuts.Store

	// OnCutToggled fires after a tap added (removed=false) or removed
	// (removed=true) a cut point.
	OnCutToggled func(p cuts.Point, removed bool)
	// OnSeek fires when the user requests playback from a position
	// (secondary click).
	OnSeek func(t float64)

	samples  []float32
	duration float64
	zoom     int
	viewport float64
	playhead float64

	peaks      []waveform.Peak
	peaksWidth int
}

// NewWaveView creates the widget over the given cut point store.
func NewWaveView(store *cuts.Store) *WaveView {
	v := &WaveView{store: store, zoom: waveform.MinZoom}
	v.ExtendBaseWidget(v)
	return v
}

// SetStore swaps the cut point store, used when a new file begins a session.
func (v *WaveView) SetStore(store *cuts.Store) {
	v.store = store
	v.Refresh()
}

// SetSource replaces the visualized audio data.
func (v *WaveView) SetSource(samples []float32, durationSeconds float64) {
	v.samples = samples
	v.duration = durationSeconds
	v.playhead = 0
	v.peaksWidth = 0 // force recompute
	v.Refresh()
}

// Mapper returns the geometry for the current zoom and viewport. Scroll
// offset is tracked by the owner and not needed for widget-local coordinates.
func (v *WaveView) Mapper() waveform.Mapper {
	return waveform.Mapper{Duration: v.duration, Zoom: v.zoom, ViewportWidth: v.viewport}
}

// SetViewportWidth records the visible width so the canvas can size itself
// from the zoom factor.
func (v *WaveView) SetViewportWidth(w float64) {
	if w == v.viewport || w <= 0 {
		return
	}
	v.viewport = w
	v.Refresh()
}

// Zoom returns the current zoom factor.
func (v *WaveView) Zoom() int { return v.zoom }

// SetZoom applies a clamped zoom factor and returns the value in effect.
func (v *WaveView) SetZoom(zoom int) int {
	z := waveform.ClampZoom(zoom)
	if z != v.zoom {
		v.zoom = z
		v.Refresh()
	}
	return z
}

// SetPlayhead moves the playback position marker.
func (v *WaveView) SetPlayhead(t float64) {
	v.playhead = t
	v.Refresh()
}

// MinSize stretches the widget to the zoomed canvas width so the parent
// scroll container can pan across it.
func (v *WaveView) MinSize() fyne.Size {
	return fyne.NewSize(float32(v.Mapper().CanvasWidth()), waveViewHeight)
}

// Tapped implements the single-gesture cut policy: a click near an existing
// marker removes it, a click elsewhere adds one at that position.
func (v *WaveView) Tapped(e *fyne.PointEvent) {
	if v.duration <= 0 {
		return
	}
	m := v.Mapper()
	p, removed := v.store.ToggleAt(float64(e.Position.X), cuts.DefaultHitThreshold, m.TimeToX, m.XToTime)
	if v.OnCutToggled != nil {
		v.OnCutToggled(p, removed)
	}
	v.Refresh()
}

// TappedSecondary starts playback from the clicked position.
func (v *WaveView) TappedSecondary(e *fyne.PointEvent) {
	if v.duration <= 0 || v.OnSeek == nil {
		return
	}
	v.OnSeek(v.Mapper().XToTime(float64(e.Position.X)))
}

// Cursor shows a crosshair over the timeline on desktop.
func (v *WaveView) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (v *WaveView) CreateRenderer() fyne.WidgetRenderer {
	r := &waveViewRenderer{v: v}
	r.raster = canvas.NewRaster(r.draw)
	r.objs = []fyne.CanvasObject{r.raster}
	return r
}

// ensurePeaks recomputes the per-column peak data when zoom or viewport
// changed the canvas width. A full recompute is a single O(N) pass, cheap
// next to the repaint.
func (v *WaveView) ensurePeaks() {
	w := int(v.Mapper().CanvasWidth())
	if w == v.peaksWidth && v.peaks != nil {
		return
	}
	v.peaks = waveform.Downsample(v.samples, w)
	v.peaksWidth = w
}

type waveViewRenderer struct {
	v      *WaveView
	raster *canvas.Raster
	objs   []fyne.CanvasObject
}

// draw renders at logical resolution and scales to the physical raster size,
// so device pixel ratio is one uniform factor applied at the end.
func (r *waveViewRenderer) draw(w, h int) image.Image {
	v := r.v
	v.ensurePeaks()

	logicalW := v.peaksWidth
	logicalH := int(float64(h) * float64(logicalW) / float64(maxInt(w, 1)))
	if logicalH < 1 {
		logicalH = waveViewHeight
	}
	img := image.NewNRGBA(image.Rect(0, 0, logicalW, logicalH))
	r.paint(img, logicalW, logicalH)

	if logicalW == w && logicalH == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

func (r *waveViewRenderer) paint(img *image.NRGBA, w, h int) {
	v := r.v
	fillRect(img, 0, 0, w, h, waveBackground)

	mid := h / 2
	drawHLine(img, 0, w, mid, waveCenterLine)

	for x := 0; x < w && x < len(v.peaks); x++ {
		p := v.peaks[x]
		if p.Max < p.Min {
			continue // degenerate tail column stays a flat center line
		}
		// Amplitude rows count from the bottom; flip into raster space.
		top := h - int(waveform.AmplitudeToY(p.Max, h))
		bottom := h - int(waveform.AmplitudeToY(p.Min, h))
		drawVLine(img, x, top, bottom, waveColor)
	}

	m := v.Mapper()
	for _, p := range v.store.Sorted() {
		drawDashedVLine(img, int(m.TimeToX(p.Time)), h, markerColor)
	}

	if v.duration > 0 {
		x := int(m.TimeToX(v.playhead))
		for dx := 0; dx < playheadWidth; dx++ {
			drawVLine(img, x+dx, 0, h, playheadColor)
		}
	}
}

func (r *waveViewRenderer) Layout(sz fyne.Size) {
	r.raster.Resize(sz)
}

func (r *waveViewRenderer) MinSize() fyne.Size { return r.v.MinSize() }

func (r *waveViewRenderer) Refresh() {
	canvas.Refresh(r.raster)
}

func (r *waveViewRenderer) Destroy() {}

func (r *waveViewRenderer) Objects() []fyne.CanvasObject { return r.objs }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawHLine(img *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	if y < 0 || y >= img.Rect.Dy() {
		return
	}
	for x := x0; x < x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Rect.Dx() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Rect.Dy() {
		y1 = img.Rect.Dy()
	}
	if y1 <= y0 {
		// Ensure at least the center pixel so silence still draws a line.
		if y0 >= 0 && y0 < img.Rect.Dy() {
			img.SetNRGBA(x, y0, c)
		}
		return
	}
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawDashedVLine(img *image.NRGBA, x, h int, c color.NRGBA) {
	period := markerDashOn + markerDashOff
	for y := 0; y < h; y++ {
		if y%period < markerDashOn {
			img.SetNRGBA(x, y, c)
		}
	}
}
