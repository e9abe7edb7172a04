package cutapp

import (
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ui "github.com/edward-ap/wavecut/internal/ui"
)

// skipStep is the jump applied by the skip buttons and arrow keys.
const skipStep = 5.0

// rateOptions are the playback speeds offered in the toolbar.
var rateOptions = map[string]float64{
	"0.5×":  0.5,
	"0.75×": 0.75,
	"1×":    1,
	"1.25×": 1.25,
	"1.5×":  1.5,
	"2×":    2,
}

func rateLabels() []string {
	labels := make([]string, 0, len(rateOptions))
	for l := range rateOptions {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return rateOptions[labels[i]] < rateOptions[labels[j]] })
	return labels
}

func rateLabelFor(rate float64) string {
	for l, r := range rateOptions {
		if r == rate {
			return l
		}
	}
	return "1×"
}

// buildToolbar constructs the control strip above the waveform.
func (a *App) buildToolbar() fyne.CanvasObject {
	openBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), a.showOpenDialog)

	a.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), a.togglePlay)
	backBtn := widget.NewButtonWithIcon("", theme.MediaFastRewindIcon(), func() { a.skip(-skipStep) })
	fwdBtn := widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), func() { a.skip(skipStep) })

	rateSel := widget.NewSelect(rateLabels(), func(label string) {
		a.setRate(rateOptions[label])
	})
	rateSel.SetSelected(rateLabelFor(a.config.Rate))

	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { a.setZoom(a.waveView.Zoom() - 1) })
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { a.setZoom(a.waveView.Zoom() + 1) })
	a.zoomLbl = widget.NewLabel(fmt.Sprintf("%d×", a.config.Zoom))

	a.volBar = ui.NewMiniThumbSlider(0, 100)
	a.volBar.Value = float64(a.config.Volume)
	a.volBar.OnChanged = a.setVolume

	a.ind = ui.NewPlaybackIndicator(10)
	a.timeLbl = widget.NewLabel("00:00 / 00:00")
	a.fileLbl = widget.NewLabel("No file")
	a.fileLbl.Truncation = fyne.TextTruncateEllipsis

	left := container.NewHBox(
		openBtn,
		widget.NewSeparator(),
		backBtn, a.playBtn, fwdBtn,
		widget.NewSeparator(),
		rateSel,
		widget.NewSeparator(),
		zoomOut, a.zoomLbl, zoomIn,
	)
	right := container.NewHBox(a.volBar, a.ind.CanvasObject(), a.timeLbl)
	return container.NewBorder(nil, nil, left, right, a.fileLbl)
}

func (a *App) showOpenDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		a.loadFile(path)
	}, a.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp3", ".wav"}))
	fd.Show()
}

func (a *App) skip(delta float64) {
	if a.ctrl != nil {
		a.ctrl.Skip(delta)
	}
}

// handleShortcutKey centralizes keyboard shortcuts regardless of which widget
// currently owns focus.
func (a *App) handleShortcutKey(ke *fyne.KeyEvent) {
	if ke == nil {
		return
	}
	switch ke.Name {
	case fyne.KeySpace:
		a.togglePlay()
	case fyne.KeyLeft:
		a.skip(-skipStep)
	case fyne.KeyRight:
		a.skip(skipStep)
	case fyne.KeyUp:
		a.setZoom(a.waveView.Zoom() + 1)
	case fyne.KeyDown:
		a.setZoom(a.waveView.Zoom() - 1)
	}
}
