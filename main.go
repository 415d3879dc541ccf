package main

import (
	"errors"
	"flag"
	"log"

	"github.com/faiface/beep"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/gasmaster/internal/config"
	"github.com/iburimskiy/gasmaster/internal/game"
	"github.com/iburimskiy/gasmaster/internal/input"
	"github.com/iburimskiy/gasmaster/internal/input/midi"
	"github.com/iburimskiy/gasmaster/internal/sound"
	"github.com/iburimskiy/gasmaster/internal/store"
)

const appName = "gasmaster"

func main() {
	configPath := flag.String("config", "gasmaster.yaml", "path to the YAML config file")
	soundsDir := flag.String("sounds", "", "directory holding pum.mp3, prrr.mp3, fiuuu.mp3 and splat.mp3")
	useMIDI := flag.Bool("midi", false, "use a MIDI keyboard as the button")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *soundsDir != "" {
		cfg.SoundsDir = *soundsDir
	}
	if *useMIDI {
		cfg.MIDI.Enabled = true
	}

	st := store.Open(appName, store.Prefs{
		ActiveSound: cfg.ActiveSound,
		Volume:      cfg.Volume,
	})

	lib := sound.NewLibrary()
	go func() {
		if err := lib.LoadDir(cfg.SoundsDir); err != nil {
			log.Printf("[Main] Some sounds are unavailable and will stay silent")
		}
	}()
	engine := sound.NewEngine(lib, beep.SampleRate(cfg.SampleRate))

	queue := input.NewQueue(64)
	g := game.New(game.Options{
		Config:  cfg,
		Library: lib,
		Engine:  engine,
		Store:   st,
		Queue:   queue,
	})

	if cfg.MIDI.Enabled {
		l, err := midi.Open(cfg.MIDI.Device, queue)
		if err != nil {
			log.Printf("[Main] MIDI disabled: %v", err)
		} else {
			g.OnClose(l.Close)
		}
	}
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("GASMASTER - hold to build pressure, release to blow")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("[Main] %v", err)
	}
}
