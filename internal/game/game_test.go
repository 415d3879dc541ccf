package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/gasmaster/internal/config"
	"github.com/iburimskiy/gasmaster/internal/input"
	"github.com/iburimskiy/gasmaster/internal/sound"
	"github.com/iburimskiy/gasmaster/internal/store"
)

type captureSink struct {
	voices int
}

func (c *captureSink) Add(beep.Streamer) { c.voices++ }

type harness struct {
	g    *Game
	sink *captureSink
	now  time.Duration
}

func newHarness(t *testing.T, prefs store.Prefs) *harness {
	t.Helper()
	lib := sound.NewLibrary()
	for _, p := range sound.Profiles {
		buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
		lib.Store(p.ID, buf)
	}
	engine := sound.NewEngine(lib, 44100)
	sink := &captureSink{}
	engine.UseSink(sink)

	h := &harness{sink: sink}
	h.g = New(Options{
		Config:  config.Default(),
		Library: lib,
		Engine:  engine,
		Store:   store.New(nil, prefs),
		Queue:   input.NewQueue(16),
		Rand:    rand.New(rand.NewSource(5)),
	})
	h.g.now = func() time.Duration { return h.now }
	h.g.loading = false
	return h
}

// run advances the game at 60 ticks per second for d.
func (h *harness) run(d time.Duration) {
	for end := h.now + d; h.now < end; {
		h.now += time.Second / 60
		h.g.tick()
	}
}

var defaultPrefs = store.Prefs{ActiveSound: "PUM", Volume: 1}

func TestFullPressRelease(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	h.g.tick()

	h.g.handle(input.Event{Kind: input.PressStart})
	h.run(2500 * time.Millisecond)
	if h.g.frame.Pressure != 1 {
		t.Fatalf("pressure after 2.5s: got %v, want 1", h.g.frame.Pressure)
	}
	if z := h.g.zoom(); math.Abs(z-1.3) > 1e-9 {
		t.Errorf("zoom at full pressure: got %v, want 1.3", z)
	}

	h.g.handle(input.Event{Kind: input.PressEnd})
	rel := h.g.lastRelease
	if math.Abs(rel.PlaybackRate-1.3) > 1e-9 {
		t.Errorf("PlaybackRate: got %v, want 1.3", rel.PlaybackRate)
	}
	if rel.Spawned != 15 {
		t.Errorf("Spawned: got %d, want 15", rel.Spawned)
	}
	if h.sink.voices != 1 {
		t.Errorf("voices: got %d, want 1", h.sink.voices)
	}
	if h.g.store.Stats.Releases != 1 || h.g.store.Stats.FullBlasts != 1 {
		t.Errorf("stats: %+v", h.g.store.Stats)
	}

	h.run(time.Second / 60)
	if h.g.frame.Pressure != 0 {
		t.Errorf("pressure after release: got %v, want 0", h.g.frame.Pressure)
	}
	if len(h.g.frame.Particles) != 15 {
		t.Errorf("particles in frame: got %d, want 15", len(h.g.frame.Particles))
	}

	// smoke fades in 1.25s
	h.run(1300 * time.Millisecond)
	if len(h.g.frame.Particles) != 0 {
		t.Errorf("particles after fade: got %d, want 0", len(h.g.frame.Particles))
	}
}

func TestDuplicateReleasePlaysOnce(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	h.g.handle(input.Event{Kind: input.PressStart})
	h.run(500 * time.Millisecond)
	h.g.handle(input.Event{Kind: input.PressEnd})
	h.g.handle(input.Event{Kind: input.PressEnd})
	if h.sink.voices != 1 {
		t.Errorf("voices: got %d, want 1", h.sink.voices)
	}
	if h.g.store.Stats.Releases != 1 {
		t.Errorf("releases: got %d, want 1", h.g.store.Stats.Releases)
	}
}

func TestSecondSourceDoesNotEndPress(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	area := h.g.buttonArea()

	// mouse down on the button
	h.g.pointer.Update(area, true, area.X, area.Y, h.g.handle)
	h.run(time.Second)

	// tap space while the mouse is still held
	h.g.space.Update(everywhere{}, true, 0, 0, h.g.handle)
	h.run(100 * time.Millisecond)
	h.g.space.Update(everywhere{}, false, 0, 0, h.g.handle)
	h.run(time.Second / 60)
	if h.sink.voices != 0 {
		t.Fatalf("space release played %d voices under a held pointer", h.sink.voices)
	}
	if !h.g.frame.Pressed {
		t.Fatal("press ended while the pointer is held")
	}

	h.run(time.Second)
	h.g.pointer.Update(area, false, area.X, area.Y, h.g.handle)
	if h.sink.voices != 1 {
		t.Errorf("voices: got %d, want 1", h.sink.voices)
	}
	if p := h.g.lastRelease.Pressure; p < 1 {
		t.Errorf("released pressure: got %v, want 1", p)
	}
}

func TestQueuedMIDIEventsDrive(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	notes := input.NewNotes(h.g.queue)
	notes.On(60)
	h.g.queue.Drain(h.g.handle)
	h.run(time.Second)
	notes.Off(60)
	h.g.queue.Drain(h.g.handle)

	if h.sink.voices != 1 {
		t.Errorf("voices: got %d, want 1", h.sink.voices)
	}
	if p := h.g.lastRelease.Pressure; p < 0.45 || p > 0.55 {
		t.Errorf("pressure after 1s: got %v, want ~0.5", p)
	}
}

func TestSelectionUpdatesPrefs(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	h.g.handle(input.Event{Kind: input.SelectSound, Index: 2})
	if got := h.g.store.Prefs.ActiveSound; got != string(sound.Fiuuu) {
		t.Errorf("ActiveSound: got %s, want FIUUU", got)
	}
	h.g.handle(input.Event{Kind: input.NextSound})
	if got := h.g.selector.Active().ID; got != sound.Splat {
		t.Errorf("after next: got %s, want SPLAT", got)
	}
	h.g.handle(input.Event{Kind: input.PrevSound})
	h.g.handle(input.Event{Kind: input.PrevSound})
	if got := h.g.store.Prefs.ActiveSound; got != string(sound.Prrr) {
		t.Errorf("after prev x2: got %s, want PRRR", got)
	}
	h.g.handle(input.Event{Kind: input.SelectSound, Index: 17})
	if got := h.g.selector.Active().ID; got != sound.Prrr {
		t.Errorf("out of range select changed sound to %s", got)
	}
}

func TestPrefsRestored(t *testing.T) {
	h := newHarness(t, store.Prefs{ActiveSound: "SPLAT", Volume: 0.3, Muted: true})
	if got := h.g.selector.Active().ID; got != sound.Splat {
		t.Errorf("active: got %s, want SPLAT", got)
	}
	if !h.g.engine.Muted() {
		t.Error("engine not muted")
	}
	h.g.handle(input.Event{Kind: input.PressStart})
	h.g.handle(input.Event{Kind: input.PressEnd})
	if h.sink.voices != 0 {
		t.Errorf("muted release played %d voices", h.sink.voices)
	}
	h.g.handle(input.Event{Kind: input.ToggleMute})
	if h.g.store.Prefs.Muted {
		t.Error("prefs still muted after toggle")
	}
}

func TestUnknownSavedSoundFallsBack(t *testing.T) {
	h := newHarness(t, store.Prefs{ActiveSound: "KABOOM", Volume: 1})
	if got := h.g.selector.Active().ID; got != sound.Pum {
		t.Errorf("active: got %s, want PUM", got)
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	h.g.handle(input.Event{Kind: input.Quit})
	if !h.g.quit {
		t.Error("quit flag not set")
	}
}

func TestCloseRunsClosersInReverse(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	var order []int
	h.g.OnClose(func() { order = append(order, 1) })
	h.g.OnClose(func() { order = append(order, 2) })
	h.g.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order: got %v, want [2 1]", order)
	}
	if h.g.engine.Play(sound.Pum, 1) {
		t.Error("engine still plays after Close")
	}
}

func TestToSceneInvertsZoom(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	h.g.frame.Pressure = 1
	ox, oy := zoomOrigin()
	// a scene point at distance d from the origin appears at d*zoom
	sx, sy := h.g.toScene(ox+130, oy-65)
	if math.Abs(sx-(ox+100)) > 1e-9 || math.Abs(sy-(oy-50)) > 1e-9 {
		t.Errorf("toScene: got (%v,%v), want (%v,%v)", sx, sy, ox+100, oy-50)
	}
	if x, y := h.g.toScene(ox, oy); x != ox || y != oy {
		t.Errorf("zoom origin moved: (%v,%v)", x, y)
	}
}

func TestTileLayout(t *testing.T) {
	for i := range sound.Profiles {
		r := tileRect(i)
		if got := tileAt(r.X+r.W/2, r.Y+r.H/2); got != i {
			t.Errorf("tileAt(centre of %d) = %d", i, got)
		}
		if r.X < 0 || r.X+r.W > config.WindowWidth || r.Y+r.H > config.WindowHeight {
			t.Errorf("tile %d off screen: %+v", i, r)
		}
	}
	if got := tileAt(5, 5); got != -1 {
		t.Errorf("tileAt(5,5) = %d, want -1", got)
	}
	x, y := newHarness(t, defaultPrefs).g.core.Origin()
	if tileAt(x, y) != -1 {
		t.Error("button overlaps a selector tile")
	}
}

func TestLoaderProgress(t *testing.T) {
	var l loader
	if l.Progress() != 0 || l.Ready() {
		t.Fatal("fresh loader not at 0")
	}
	l.Update(100 * time.Millisecond)
	if got := l.Progress(); got != 25 {
		t.Errorf("progress after 100ms: got %d, want 25", got)
	}
	l.Update(300 * time.Millisecond)
	if got := l.Progress(); got != 100 || !l.Ready() {
		t.Errorf("progress after 400ms: got %d ready %v", got, l.Ready())
	}
	l.Update(time.Second)
	if got := l.Progress(); got != 100 {
		t.Errorf("progress capped: got %d", got)
	}
}

func TestLoaderWaitsForSamples(t *testing.T) {
	decoded := 0.5
	l := loader{samples: func() float64 { return decoded }}
	l.Update(time.Second)
	if got := l.Progress(); got != 50 || l.Ready() {
		t.Fatalf("half decoded: got %d ready %v", got, l.Ready())
	}
	decoded = 1
	if !l.Ready() {
		t.Error("not ready once every sample decoded")
	}

	decoded = 0
	l = loader{samples: func() float64 { return decoded }}
	l.Update(config.LoaderTimeout)
	if !l.Ready() {
		t.Error("stuck decoder held the loader past the timeout")
	}
}

func TestHarnessLoaderUsesLibrary(t *testing.T) {
	h := newHarness(t, defaultPrefs)
	if h.g.loader.samples == nil {
		t.Fatal("loader not wired to the library")
	}
	if got := h.g.loader.samples(); got != 0 {
		t.Errorf("samples before LoadDir: got %v, want 0", got)
	}
}

func TestRotate(t *testing.T) {
	x, y := rotate(1, 0, 90)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("rotate(1,0,90) = (%v,%v), want (0,1)", x, y)
	}
}
