package sim

import (
	"math"

	"github.com/iburimskiy/gasmaster/internal/config"
)

// Rand is the random source used for spawn and rotation jitter.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Particle is one puff of smoke. Velocities are in pixels per 60fps frame.
type Particle struct {
	ID       uint64
	X, Y     float64
	VX, VY   float64
	Size     float64
	Rotation float64 // degrees
	Life     float64 // 1 at spawn, removed once it reaches 0

	age float64 // seconds since spawn
}

// Particles owns the live smoke set. It is not safe for concurrent use;
// the render side only ever sees copies made by Snapshot.
type Particles struct {
	rng    Rand
	decay  float64
	max    int
	nextID uint64
	list   []Particle
}

// NewParticles creates an empty set. max <= 0 means no cap.
func NewParticles(rng Rand, decay float64, max int) *Particles {
	return &Particles{
		rng:   rng,
		decay: decay,
		max:   max,
		list:  make([]Particle, 0, 64),
	}
}

// BatchSize is the number of particles a release at pressure spawns.
func BatchSize(pressure float64) int {
	return config.BaseCount + int(math.Floor(clampPressure(pressure)*config.CountScale))
}

// Spawn appends a burst at (x, y) and returns how many were added.
func (ps *Particles) Spawn(x, y, pressure float64) int {
	pressure = clampPressure(pressure)
	n := BatchSize(pressure)
	maxSpeed := config.SpeedScale * (1 + pressure)

	for i := 0; i < n; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := config.MinSpeed + ps.rng.Float64()*maxSpeed
		ps.nextID++
		ps.list = append(ps.list, Particle{
			ID:       ps.nextID,
			X:        x,
			Y:        y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Size:     config.MinSize + ps.rng.Float64()*(config.MaxSize-config.MinSize),
			Rotation: ps.rng.Float64() * 360,
			Life:     1,
		})
	}

	if ps.max > 0 && len(ps.list) > ps.max {
		drop := len(ps.list) - ps.max
		ps.list = append(ps.list[:0], ps.list[drop:]...)
	}
	return n
}

// Tick moves, spins and ages every particle, then drops the dead ones
// keeping the survivors in order.
func (ps *Particles) Tick(dt float64) {
	step := dt * config.TimeScale
	alive := ps.list[:0]
	for _, p := range ps.list {
		p.X += p.VX * step
		p.Y += p.VY * step
		p.Rotation += (ps.rng.Float64()*2 - 1) * config.RotateJitter
		// life from accumulated age: equal steps land exactly on zero
		p.age += dt
		p.Life = 1 - p.age*ps.decay
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	// Clear the tail so the backing array holds no stale particles.
	for i := len(alive); i < len(ps.list); i++ {
		ps.list[i] = Particle{}
	}
	ps.list = alive
}

func (ps *Particles) Len() int { return len(ps.list) }

// Snapshot appends a copy of the live particles to dst.
func (ps *Particles) Snapshot(dst []Particle) []Particle {
	return append(dst[:0], ps.list...)
}

func clampPressure(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
