package cutapp

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	cuts "github.com/edward-ap/wavecut/internal/cuts"
	timefmt "github.com/edward-ap/wavecut/internal/timefmt"
)

// cutRow is one entry in the cut list: an editable time field plus play-from
// and delete actions for a single cut point.
type cutRow struct {
	widget.BaseWidget

	app     *App
	id      string
	entry   *widget.Entry
	content fyne.CanvasObject
}

func newCutRow(a *App) *cutRow {
	r := &cutRow{app: a}
	r.entry = widget.NewEntry()
	r.entry.OnSubmitted = func(text string) { a.submitCutTime(r.id, text, r.entry) }

	play := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { a.playFromCut(r.id) })
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { a.removeCut(r.id) })
	play.Importance = widget.LowImportance
	del.Importance = widget.LowImportance

	r.content = container.NewBorder(nil, nil, nil, container.NewHBox(play, del), r.entry)
	r.ExtendBaseWidget(r)
	return r
}

func (r *cutRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.content)
}

func (r *cutRow) setPoint(p cuts.Point) {
	r.id = p.ID
	r.entry.SetText(timefmt.Format(p.Time))
}

// buildCutPanel constructs the side panel listing cut points sorted by time.
func (a *App) buildCutPanel() fyne.CanvasObject {
	a.cutList = widget.NewList(
		func() int { return len(a.cutRows) },
		func() fyne.CanvasObject { return newCutRow(a) },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i < 0 || i >= len(a.cutRows) {
				return
			}
			obj.(*cutRow).setPoint(a.cutRows[i])
		},
	)
	a.store.OnChanged = a.refreshCuts

	header := widget.NewLabel("Cut points")
	header.TextStyle = fyne.TextStyle{Bold: true}

	// transparent spacer fixes the panel width inside the border layout
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(220, 1))

	top := container.NewVBox(header, spacer)
	return container.NewBorder(top, nil, nil, nil, a.cutList)
}

// refreshCuts re-snapshots the sorted presentation order and redraws the
// list and the waveform markers. The store's OnChanged hook runs it after
// every mutation regardless of which path performed it.
func (a *App) refreshCuts() {
	a.cutRows = a.store.Sorted()
	a.cutList.Refresh()
	a.waveView.Refresh()
}

// submitCutTime applies a hand-edited time value. Invalid text reverts the
// field to the stored value; valid input is clamped by the store.
func (a *App) submitCutTime(id, text string, entry *widget.Entry) {
	t, ok := timefmt.Parse(text)
	if !ok {
		for _, p := range a.cutRows {
			if p.ID == id {
				entry.SetText(timefmt.Format(p.Time))
				return
			}
		}
		return
	}
	a.store.Update(id, t)
	if a.OnUpdateCutPoint != nil {
		a.OnUpdateCutPoint(id, t)
	}
}

func (a *App) removeCut(id string) {
	a.store.Remove(id)
	if a.OnRemoveCutPoint != nil {
		a.OnRemoveCutPoint(id)
	}
}

// playFromCut starts playback at the cut point's current time.
func (a *App) playFromCut(id string) {
	for _, p := range a.cutRows {
		if p.ID == id {
			a.playFrom(p.Time)
			return
		}
	}
}
