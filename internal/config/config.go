package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 720
	WindowHeight = 960

	// Pressure
	RampRate = 0.5 // reaches 1.0 after 2s held

	// Smoke particles
	BaseCount    = 5
	CountScale   = 10
	MinSpeed     = 2.0
	SpeedScale   = 5.0
	MinSize      = 40.0
	MaxSize      = 100.0
	TimeScale    = 60.0 // velocities are in px per 60fps frame
	DecayRate    = 0.8
	RotateJitter = 5.0 // degrees per tick, either direction

	// Pitch
	BasePitch          = 0.8
	MaxPitchMultiplier = 1.5

	// Frame clock
	MinDelta = 1e-4
	MaxDelta = 0.1

	// Screen effects
	ZoomScale     = 0.3
	JitterPixels  = 10.0
	ButtonShrink  = 0.1
	HotPressure   = 0.8
	GaugeScale    = 0.5
	ButtonRadius  = 110
	GridSpacing   = 40
	MeterRingSize = 4096

	// Loader
	LoaderStep     = 5
	LoaderInterval = 20 * time.Millisecond
	LoaderTimeout  = 3 * time.Second
)

// Config holds the tunables that can be overridden from a YAML file.
// Zero values never reach the simulation: Load fills them from Default.
type Config struct {
	SoundsDir   string  `yaml:"sounds_dir"`
	ActiveSound string  `yaml:"active_sound"`
	Volume      float64 `yaml:"volume"`
	SampleRate  int     `yaml:"sample_rate"`

	RampRate     float64 `yaml:"ramp_rate"`
	DecayRate    float64 `yaml:"decay_rate"`
	MaxDelta     float64 `yaml:"max_delta"`
	MaxParticles int     `yaml:"max_particles"`

	// Spawn origin as a fraction of the window size.
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`

	MIDI MIDIConfig `yaml:"midi"`
}

type MIDIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device"`
}

// Default returns the reference tuning.
func Default() *Config {
	return &Config{
		SoundsDir:   "sounds",
		ActiveSound: "PUM",
		Volume:      1.0,
		SampleRate:  44100,

		RampRate:     RampRate,
		DecayRate:    DecayRate,
		MaxDelta:     MaxDelta,
		MaxParticles: 0,

		OriginX: 0.5,
		OriginY: 1.0 / 3.0,
	}
}

// Load reads a YAML config file. A missing file is not an error: the
// defaults are returned. Invalid values are logged and replaced.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[Config] %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	known := map[string]bool{
		"sounds_dir": true, "active_sound": true, "volume": true, "sample_rate": true,
		"ramp_rate": true, "decay_rate": true, "max_delta": true, "max_particles": true,
		"origin_x": true, "origin_y": true, "midi": true,
	}
	for key := range raw {
		if !known[key] {
			log.Printf("[Config] Warning: unrecognised key '%s' in %s", key, path)
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) sanitize() {
	def := Default()
	if !(c.Volume >= 0 && c.Volume <= 1) {
		log.Printf("[Config] Invalid volume %.2f, using %.2f", c.Volume, def.Volume)
		c.Volume = def.Volume
	}
	if c.SampleRate <= 0 {
		log.Printf("[Config] Invalid sample_rate %d, using %d", c.SampleRate, def.SampleRate)
		c.SampleRate = def.SampleRate
	}
	if !(c.RampRate > 0) || math.IsInf(c.RampRate, 1) {
		log.Printf("[Config] Invalid ramp_rate %.3f, using %.3f", c.RampRate, def.RampRate)
		c.RampRate = def.RampRate
	}
	if !(c.DecayRate > 0) || math.IsInf(c.DecayRate, 1) {
		log.Printf("[Config] Invalid decay_rate %.3f, using %.3f", c.DecayRate, def.DecayRate)
		c.DecayRate = def.DecayRate
	}
	if !(c.MaxDelta >= MinDelta) || math.IsInf(c.MaxDelta, 1) {
		log.Printf("[Config] Invalid max_delta %.4f, using %.4f", c.MaxDelta, def.MaxDelta)
		c.MaxDelta = def.MaxDelta
	}
	if c.MaxParticles < 0 {
		c.MaxParticles = 0
	}
	c.OriginX = clamp01(c.OriginX)
	c.OriginY = clamp01(c.OriginY)
	if c.SoundsDir == "" {
		c.SoundsDir = def.SoundsDir
	}
}

// PlaybackRate maps a release pressure onto the sample playback rate.
func PlaybackRate(pressure float64) float64 {
	return BasePitch + clamp01(pressure)*(MaxPitchMultiplier-1)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
