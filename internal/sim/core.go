package sim

import (
	"time"

	"github.com/iburimskiy/gasmaster/internal/config"
)

// Release describes what a press-end produced.
type Release struct {
	Pressure     float64
	PlaybackRate float64
	Spawned      int
}

// Frame is the read-only view handed to the renderer once per tick.
type Frame struct {
	Pressure  float64
	Pressed   bool
	Particles []Particle
}

// Core ties the clock, the pressure integrator and the smoke together.
// All methods must be called from the same goroutine.
type Core struct {
	clock     *Clock
	pressure  *Pressure
	particles *Particles

	originX, originY float64
	frame            Frame
}

func NewCore(cfg *config.Config, rng Rand) *Core {
	return &Core{
		clock:     NewClock(cfg.MaxDelta),
		pressure:  NewPressure(cfg.RampRate),
		particles: NewParticles(rng, cfg.DecayRate, cfg.MaxParticles),
		originX:   cfg.OriginX * config.WindowWidth,
		originY:   cfg.OriginY * config.WindowHeight,
	}
}

// SetOrigin moves the spawn point, in screen pixels.
func (c *Core) SetOrigin(x, y float64) {
	c.originX, c.originY = x, y
}

func (c *Core) Origin() (float64, float64) {
	return c.originX, c.originY
}

// Tick advances the simulation to host time now and refreshes the frame.
func (c *Core) Tick(now time.Duration) {
	c.Step(c.clock.Step(now))
}

// Step advances the simulation by dt seconds, which must already be
// clamped.
func (c *Core) Step(dt float64) {
	c.pressure.Tick(dt)
	c.particles.Tick(dt)
	c.frame.Pressure = c.pressure.Value()
	c.frame.Pressed = c.pressure.Pressed()
	c.frame.Particles = c.particles.Snapshot(c.frame.Particles)
}

func (c *Core) PressStart() {
	c.pressure.PressStart()
}

// PressEnd releases the button. ok is false for a spurious release.
func (c *Core) PressEnd() (Release, bool) {
	final, ok := c.pressure.PressEnd()
	if !ok {
		return Release{}, false
	}
	return Release{
		Pressure:     final,
		PlaybackRate: config.PlaybackRate(final),
		Spawned:      c.particles.Spawn(c.originX, c.originY, final),
	}, true
}

// Frame returns the snapshot taken by the last tick. The slice is reused
// by the next tick.
func (c *Core) Frame() Frame {
	return c.frame
}

// Pause drops the clock reference so the first tick after a resume
// does not see the whole pause as one frame.
func (c *Core) Pause() {
	c.clock.Reset()
}

func (c *Core) Particles() int { return c.particles.Len() }
