// Package cutapp wires the waveform widget, playback controller, and
// configuration layers together to present the WaveCut editor window.
package cutapp

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	audiopkg "github.com/edward-ap/wavecut/internal/audio"
	config "github.com/edward-ap/wavecut/internal/config"
	cuts "github.com/edward-ap/wavecut/internal/cuts"
	playback "github.com/edward-ap/wavecut/internal/playback"
	timefmt "github.com/edward-ap/wavecut/internal/timefmt"
	ui "github.com/edward-ap/wavecut/internal/ui"
)

// App owns the fyne application, main window, playback session, and widgets.
// It orchestrates interactions between user input, playback, the cut point
// store, and configuration persistence.
type App struct {
	fa     fyne.App
	w      fyne.Window
	config *config.Config

	// playback session, rebuilt whenever a new file is loaded
	source *audiopkg.Source
	engine *playback.OtoEngine
	ctrl   *playback.Controller
	store  *cuts.Store

	// UI elements
	waveView *ui.WaveView
	viewport *ui.Viewport
	playBtn  *widget.Button
	timeLbl  *widget.Label
	zoomLbl  *widget.Label
	fileLbl  *widget.Label
	volBar   *ui.MiniThumbSlider
	ind      *ui.PlaybackIndicator
	cutList  *widget.List
	cutRows  []cuts.Point // sorted snapshot backing the list

	// display-refresh driver for position updates while playing
	anim   *fyne.Animation
	animOn bool
	follow *ui.Debouncer

	// Event callbacks exposed to an embedding host. All optional.
	OnAddCutPoint    func(t float64)
	OnRemoveCutPoint func(id string)
	OnUpdateCutPoint func(id string, t float64)
	OnPlayFromTime   func(t float64)
	OnTimeUpdate     func(t float64)
}

// NewApp wires configuration, playback, and fyne scaffolding into a
// ready-to-run App instance. filePath may be empty; the user can open a file
// from the toolbar.
func NewApp(filePath string) *App {
	cfg, err := config.Load()
	if err != nil {
		log.Println("config load error:", err)
		cfg = &config.Config{Volume: config.DefaultVolume, Rate: config.DefaultRate,
			Zoom: config.DefaultZoom, WindowW: config.DefaultWidth, WindowH: config.DefaultHeight}
	}

	fa := app.NewWithID(config.AppID)
	fa.Settings().SetTheme(theme.DarkTheme())
	ui.UseSmallThumbTheme()
	w := fa.NewWindow("WaveCut")
	w.SetMaster()
	w.Resize(fyne.NewSize(float32(cfg.WindowW), float32(cfg.WindowH)))

	a := &App{
		fa:     fa,
		w:      w,
		config: cfg,
		follow: ui.NewScrollDebouncer(),
	}

	a.buildUI()

	a.anim = fyne.NewAnimation(time.Second, func(float32) { a.tick() })
	a.anim.RepeatCount = fyne.AnimationRepeatForever
	a.anim.Curve = fyne.AnimationLinear

	if filePath == "" {
		filePath = cfg.LastFile
	}
	if filePath != "" {
		a.loadFile(filePath)
	}

	w.SetCloseIntercept(func() {
		a.teardownSession()
		sz := w.Canvas().Size()
		cfg.WindowW = int(sz.Width)
		cfg.WindowH = int(sz.Height)
		if err := cfg.Save(); err != nil {
			log.Println("config save error:", err)
		}
		w.Close()
		fa.Quit()
	})

	w.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		a.handleShortcutKey(ke)
	})

	return a
}

// Run enters the fyne event loop.
func (a *App) Run() {
	a.w.ShowAndRun()
}

// buildUI assembles the toolbar, waveform viewport, and cut list into the
// window's border layout.
func (a *App) buildUI() {
	a.store = cuts.NewStore(0)

	a.waveView = ui.NewWaveView(a.store)
	a.waveView.SetZoom(a.config.Zoom)
	a.waveView.OnCutToggled = a.handleCutToggled
	a.waveView.OnSeek = a.playFrom

	a.viewport = ui.NewViewport(a.waveView)
	a.viewport.OnWidthChanged = func(w float64) {
		a.waveView.SetViewportWidth(w)
	}

	toolbar := a.buildToolbar()
	cutPanel := a.buildCutPanel()

	root := container.NewBorder(toolbar, nil, nil, cutPanel, a.viewport)
	a.w.SetContent(root)
}

// loadFile decodes the file in the background and swaps the playback session
// in on the UI thread. A decode failure leaves the current session intact.
func (a *App) loadFile(path string) {
	a.fileLbl.SetText("Loading…")
	go func() {
		src, err := audiopkg.DecodeFile(path)
		if err == nil {
			var engErr error
			var engine *playback.OtoEngine
			engine, engErr = playback.NewOtoEngine(src)
			if engErr != nil {
				err = engErr
			}
			if err == nil {
				ui.CallOnMain(func() { a.installSession(path, src, engine) })
				return
			}
		}
		ui.CallOnMain(func() {
			a.fileLbl.SetText("No file")
			dialog.ShowError(fmt.Errorf("cannot open %s: %w", path, err), a.w)
		})
	}()
}

// installSession replaces any current playback session with one for the
// freshly decoded source.
func (a *App) installSession(path string, src *audiopkg.Source, engine *playback.OtoEngine) {
	a.teardownSession()

	a.source = src
	a.engine = engine
	a.ctrl = playback.NewController(engine, playback.SystemClock, src.Duration())
	a.ctrl.SetOnChange(a.handlePlaybackState)
	a.ctrl.SetRate(a.config.Rate)
	engine.SetVolume(float64(a.config.Volume) / 100)

	a.store = cuts.NewStore(src.Duration())
	a.store.OnChanged = a.refreshCuts
	a.waveView.SetStore(a.store)
	a.waveView.SetSource(src.VisualChannel(), src.Duration())

	a.config.LastFile = path
	a.fileLbl.SetText(path)
	a.updateTimeLabel(0)
	a.refreshCuts()
}

// teardownSession stops playback and cancels every pending callback so a
// stale timer cannot touch the replaced state.
func (a *App) teardownSession() {
	a.stopTicking()
	a.follow.Cancel()
	if a.ctrl != nil {
		a.ctrl.Stop()
		a.ctrl = nil
	}
	a.engine = nil
	a.source = nil
}

// tick runs once per display frame while playing.
func (a *App) tick() {
	if a.ctrl != nil {
		a.ctrl.Tick()
	}
}

func (a *App) startTicking() {
	if !a.animOn {
		a.animOn = true
		a.anim.Start()
	}
}

func (a *App) stopTicking() {
	if a.animOn {
		a.animOn = false
		a.anim.Stop()
	}
}

// handlePlaybackState is the controller's observer. It may be invoked from
// the output monitor goroutine, so everything is marshalled onto the UI
// thread before touching widgets.
func (a *App) handlePlaybackState(st playback.State) {
	ui.CallOnMain(func() {
		switch st.Phase {
		case playback.PhasePlaying:
			a.playBtn.SetIcon(theme.MediaPauseIcon())
			a.ind.SetPlaying(true)
			a.startTicking()
		case playback.PhasePaused:
			a.playBtn.SetIcon(theme.MediaPlayIcon())
			a.ind.SetPaused()
			a.stopTicking()
			a.follow.Cancel()
		default:
			a.playBtn.SetIcon(theme.MediaPlayIcon())
			a.ind.SetPlaying(false)
			a.stopTicking()
			a.follow.Cancel()
		}

		a.waveView.SetPlayhead(st.Position)
		a.updateTimeLabel(st.Position)
		if st.Phase == playback.PhasePlaying {
			a.followPlayhead(st.Position)
		}
		if a.OnTimeUpdate != nil {
			a.OnTimeUpdate(st.Position)
		}
	})
}

// followPlayhead keeps the zoomed viewport scrolled to the playhead,
// debounced so rapid position updates settle into one scroll.
func (a *App) followPlayhead(t float64) {
	m := a.waveView.Mapper()
	m.ScrollOffset = a.viewport.CurrentOffset()
	offset, moved := m.FollowPlayhead(t)
	if !moved {
		return
	}
	a.follow.Schedule(func() {
		a.viewport.ScrollToOffset(offset)
	})
}

func (a *App) updateTimeLabel(t float64) {
	total := 0.0
	if a.source != nil {
		total = a.source.Duration()
	}
	a.timeLbl.SetText(timefmt.Format(t) + " / " + timefmt.Format(total))
}

// playFrom seeks to t and makes sure playback is running.
func (a *App) playFrom(t float64) {
	if a.ctrl == nil {
		return
	}
	a.ctrl.Seek(t)
	if a.ctrl.Phase() != playback.PhasePlaying {
		a.ctrl.Play()
	}
	if a.OnPlayFromTime != nil {
		a.OnPlayFromTime(t)
	}
}

func (a *App) togglePlay() {
	if a.ctrl == nil {
		return
	}
	if a.ctrl.Phase() == playback.PhasePlaying {
		a.ctrl.Pause()
	} else {
		a.ctrl.Play()
	}
}

func (a *App) handleCutToggled(p cuts.Point, removed bool) {
	if removed {
		if a.OnRemoveCutPoint != nil {
			a.OnRemoveCutPoint(p.ID)
		}
	} else if a.OnAddCutPoint != nil {
		a.OnAddCutPoint(p.Time)
	}
}

func (a *App) setZoom(zoom int) {
	z := a.waveView.SetZoom(zoom)
	a.config.Zoom = z
	a.zoomLbl.SetText(fmt.Sprintf("%d×", z))
	// Re-center on the playhead right away; zooming moves it off-screen.
	if a.ctrl != nil {
		a.followPlayhead(a.ctrl.Position())
	}
}

func (a *App) setRate(rate float64) {
	if a.ctrl != nil {
		a.ctrl.SetRate(rate)
	}
	a.config.Rate = rate
}

func (a *App) setVolume(percent float64) {
	a.config.Volume = int(percent)
	if a.engine != nil {
		a.engine.SetVolume(percent / 100)
	}
}
