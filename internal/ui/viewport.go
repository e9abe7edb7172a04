package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Viewport is a horizontal scroll area that reports width changes. It is the
// resize notification source the waveform canvas sizes itself from.
type Viewport struct {
	widget.BaseWidget

	scroll *container.Scroll

	// OnWidthChanged receives the new visible width in logical pixels.
	OnWidthChanged func(float64)
}

// NewViewport wraps content in a horizontally scrolling viewport.
func NewViewport(content fyne.CanvasObject) *Viewport {
	v := &Viewport{scroll: container.NewHScroll(content)}
	v.ExtendBaseWidget(v)
	return v
}

func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.scroll)
}

func (v *Viewport) Resize(size fyne.Size) {
	old := v.Size().Width
	v.BaseWidget.Resize(size)
	if v.OnWidthChanged != nil && size.Width != old {
		v.OnWidthChanged(float64(size.Width))
	}
}

// ScrollToOffset pans the viewport to the given horizontal offset.
func (v *Viewport) ScrollToOffset(x float64) {
	v.scroll.Offset.X = float32(x)
	v.scroll.Refresh()
}

// CurrentOffset reports the viewport's horizontal scroll position.
func (v *Viewport) CurrentOffset() float64 {
	return float64(v.scroll.Offset.X)
}
