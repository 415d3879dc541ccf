package sound

import (
	"math"

	"github.com/faiface/beep"
)

// CompressorSettings mirrors the usual dynamics compressor knobs.
type CompressorSettings struct {
	Threshold float64 // dB
	Knee      float64 // dB
	Ratio     float64
	Attack    float64 // seconds
	Release   float64 // seconds
}

// DefaultCompressor is a loud limiter: samples get pushed hard without
// clipping.
var DefaultCompressor = CompressorSettings{
	Threshold: -10,
	Knee:      40,
	Ratio:     12,
	Attack:    0,
	Release:   0.25,
}

// Compressor is a stereo-linked feed-forward compressor with a soft knee.
type Compressor struct {
	Streamer beep.Streamer
	settings CompressorSettings

	attackCoef  float64
	releaseCoef float64
	envelope    float64 // current gain reduction in dB
}

func NewCompressor(s beep.Streamer, rate beep.SampleRate, settings CompressorSettings) *Compressor {
	return &Compressor{
		Streamer:    s,
		settings:    settings,
		attackCoef:  smoothingCoef(settings.Attack, rate),
		releaseCoef: smoothingCoef(settings.Release, rate),
	}
}

func smoothingCoef(seconds float64, rate beep.SampleRate) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * float64(rate)))
}

func (c *Compressor) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		peak := math.Max(math.Abs(samples[i][0]), math.Abs(samples[i][1]))
		reduction := c.settings.reduction(toDB(peak))

		coef := c.releaseCoef
		if reduction > c.envelope {
			coef = c.attackCoef
		}
		c.envelope = coef*c.envelope + (1-coef)*reduction

		gain := math.Pow(10, -c.envelope/20)
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

func (c *Compressor) Err() error { return c.Streamer.Err() }

// reduction returns how many dB an input level gets pulled down.
func (s CompressorSettings) reduction(in float64) float64 {
	over := in - s.Threshold
	var out float64
	switch {
	case 2*over < -s.Knee:
		out = in
	case s.Knee > 0 && 2*math.Abs(over) <= s.Knee:
		k := over + s.Knee/2
		out = in + (1/s.Ratio-1)*k*k/(2*s.Knee)
	default:
		out = s.Threshold + over/s.Ratio
	}
	return in - out
}

func toDB(amp float64) float64 {
	if amp < 1e-9 {
		return -180
	}
	return 20 * math.Log10(amp)
}
