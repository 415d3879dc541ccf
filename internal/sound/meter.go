package sound

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// Meter wraps a beep.Streamer and records the last N frames into a ring
// buffer so the renderer can react to what is currently audible.
type Meter struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func NewMeter(src beep.Streamer, ringSize int) *Meter {
	return &Meter{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (m *Meter) Stream(samples [][2]float64) (int, bool) {
	n, ok := m.Source.Stream(samples)
	if n > 0 {
		m.mu.Lock()
		for i := 0; i < n; i++ {
			m.buffer[m.nextIndex] = samples[i]
			m.nextIndex++
			if m.nextIndex >= len(m.buffer) {
				m.nextIndex = 0
			}
		}
		m.mu.Unlock()
	}
	return n, ok
}

func (m *Meter) Err() error { return m.Source.Err() }

// Level returns the RMS of the last n frames, mixed to mono, in [0, 1].
func (m *Meter) Level(n int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > len(m.buffer) {
		n = len(m.buffer)
	}
	if n <= 0 {
		return 0
	}
	var sumSquares float64
	idx := m.nextIndex - 1
	for i := 0; i < n; i++ {
		if idx < 0 {
			idx = len(m.buffer) - 1
		}
		mono := (m.buffer[idx][0] + m.buffer[idx][1]) * 0.5
		sumSquares += mono * mono
		idx--
	}
	rms := math.Sqrt(sumSquares / float64(n))
	if rms > 1 {
		return 1
	}
	return rms
}
