package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/gasmaster/internal/config"
	"github.com/iburimskiy/gasmaster/internal/input"
	"github.com/iburimskiy/gasmaster/internal/sim"
	"github.com/iburimskiy/gasmaster/internal/sound"
	"github.com/iburimskiy/gasmaster/internal/store"
)

// Options carries everything the game needs from main.
type Options struct {
	Config  *config.Config
	Library *sound.Library
	Engine  *sound.Engine
	Store   *store.Store
	Queue   *input.Queue
	Rand    *rand.Rand
}

type Game struct {
	cfg      *config.Config
	core     *sim.Core
	lib      *sound.Library
	engine   *sound.Engine
	selector *sound.Selector
	store    *store.Store
	queue    *input.Queue
	rng      *rand.Rand

	// clock
	start time.Time
	now   func() time.Duration

	// input
	pointer input.Hold
	space   input.Hold
	holders input.Holders
	touches []ebiten.TouchID

	// scenes
	loading bool
	loader  loader

	// render state
	frame       sim.Frame
	spin        float64
	lastRelease sim.Release
	view        *view

	closers []func()
	quit    bool
	lastErr error
}

func New(opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{
		cfg:      opts.Config,
		core:     sim.NewCore(opts.Config, rng),
		lib:      opts.Library,
		engine:   opts.Engine,
		selector: sound.NewSelector(),
		store:    opts.Store,
		queue:    opts.Queue,
		rng:      rng,
		start:    time.Now(),
		loading:  true,
		loader:   loader{samples: opts.Library.Progress},
		view:     newView(),
	}
	g.now = func() time.Duration { return time.Since(g.start) }

	prefs := g.store.Prefs
	if err := g.selector.Select(sound.SoundID(prefs.ActiveSound)); err != nil {
		log.Printf("[Game] Warning: %v, keeping %s", err, g.selector.Active().ID)
	}
	g.engine.SetVolume(prefs.Volume)
	g.engine.SetMuted(prefs.Muted)
	return g
}

// OnClose registers teardown work, run in reverse order by Close.
func (g *Game) OnClose(fn func()) {
	g.closers = append(g.closers, fn)
}

// Close stops input sources and audio and saves preferences.
func (g *Game) Close() {
	for i := len(g.closers) - 1; i >= 0; i-- {
		g.closers[i]()
	}
	g.closers = nil
	g.engine.Close()
	if err := g.store.Save(); err != nil {
		log.Printf("[Game] Failed to save: %v", err)
	}
}

func (g *Game) Update() error {
	if g.loading {
		g.updateLoader()
		return nil
	}

	input.Keyboard(g.handle)

	var down bool
	var x, y float64
	down, x, y, g.touches = input.Pointer(g.touches)
	sx, sy := g.toScene(x, y)
	g.pointer.Update(g.buttonArea(), down, sx, sy, g.handle)
	g.space.Update(everywhere{}, input.SpaceHeld(), 0, 0, g.handle)

	var tapped bool
	tapped, x, y, g.touches = input.JustTapped(g.touches)
	if tapped {
		sx, sy := g.toScene(x, y)
		if i := tileAt(sx, sy); i >= 0 {
			g.handle(input.Event{Kind: input.SelectSound, Index: i})
		}
	}

	g.queue.Drain(g.handle)
	g.tick()

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) updateLoader() {
	g.loader.Update(time.Second / time.Duration(ebiten.TPS()))
	if !g.loader.Ready() {
		return
	}
	var tapped bool
	tapped, _, _, g.touches = input.JustTapped(g.touches)
	if tapped || inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.startMain()
	}
}

// startMain leaves the splash screen and opens the speaker.
func (g *Game) startMain() {
	if err := g.engine.Init(); err != nil {
		log.Printf("[Game] Audio unavailable: %v", err)
		g.lastErr = err
	}
	g.loading = false
	g.core.Pause()
}

func (g *Game) tick() {
	g.core.Tick(g.now())
	g.frame = g.core.Frame()

	// dashed gauge: one turn per 2s idle, faster under pressure
	period := 2 - 1.8*g.frame.Pressure
	g.spin += 360 / (period * float64(ebiten.TPS()))
}

func (g *Game) handle(e input.Event) {
	switch e.Kind {
	case input.PressStart:
		if g.holders.Start() {
			g.core.PressStart()
		}
	case input.PressEnd:
		if g.holders.End() {
			g.release()
		}
	case input.SelectSound:
		if g.selector.SelectIndex(e.Index) {
			g.store.Prefs.ActiveSound = string(g.selector.Active().ID)
		}
	case input.NextSound:
		g.selector.Next()
		g.store.Prefs.ActiveSound = string(g.selector.Active().ID)
	case input.PrevSound:
		g.selector.Prev()
		g.store.Prefs.ActiveSound = string(g.selector.Active().ID)
	case input.ToggleMute:
		on := g.engine.ToggleMute()
		g.store.Prefs.Muted = !on
		log.Printf("[Game] Sound on: %v", on)
	case input.LoadSound:
		// hold state would go stale while the dialog is open
		g.pointer.Cancel(g.handle)
		g.space.Cancel(g.handle)
		if err := g.lib.OpenDialog(g.selector.Active().ID); err != nil {
			g.lastErr = err
		}
		g.core.Pause()
	case input.Quit:
		g.quit = true
	}
}

func (g *Game) release() {
	rel, ok := g.core.PressEnd()
	if !ok {
		return
	}
	g.lastRelease = rel
	g.engine.Play(g.selector.Active().ID, rel.PlaybackRate)
	g.store.Stats.Record(rel.Pressure)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// zoom is the scene magnification at the current pressure.
func (g *Game) zoom() float64 {
	return 1 + g.frame.Pressure*config.ZoomScale
}

// zoomOrigin is the fixed point of the zoom, in screen pixels.
func zoomOrigin() (float64, float64) {
	return config.WindowWidth / 2, config.WindowHeight * 0.3
}

// toScene maps a screen point into the unzoomed scene.
func (g *Game) toScene(x, y float64) (float64, float64) {
	ox, oy := zoomOrigin()
	z := g.zoom()
	return ox + (x-ox)/z, oy + (y-oy)/z
}

// buttonArea is the pressable circle in scene coordinates.
func (g *Game) buttonArea() input.Circle {
	x, y := g.core.Origin()
	return input.Circle{X: x, Y: y, R: config.ButtonRadius}
}

type everywhere struct{}

func (everywhere) Contains(x, y float64) bool { return true }
