package sound

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/gasmaster/internal/config"
)

// resampleQuality trades CPU for aliasing in the pitch shifter.
const resampleQuality = 4

// Sink receives one finished voice per Play call.
type Sink interface {
	Add(s beep.Streamer)
}

// speakerSink feeds a mixer that is permanently playing on the speaker.
type speakerSink struct {
	mixer *beep.Mixer
}

func (s *speakerSink) Add(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Engine plays samples from a Library at arbitrary playback rates.
// Play never fails loudly: a missing sample or output is a silent no-op.
type Engine struct {
	lib  *Library
	rate beep.SampleRate

	mu     sync.Mutex
	sink   Sink
	meter  *Meter
	volume float64
	muted  bool
}

func NewEngine(lib *Library, rate beep.SampleRate) *Engine {
	return &Engine{
		lib:    lib,
		rate:   rate,
		volume: 1,
	}
}

// Init opens the speaker. Calling it again is a no-op.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sink != nil {
		return nil
	}

	if err := speaker.Init(e.rate, e.rate.N(time.Second/20)); err != nil {
		return err
	}
	mixer := &beep.Mixer{}
	e.meter = NewMeter(mixer, config.MeterRingSize)
	speaker.Play(e.meter)
	e.sink = &speakerSink{mixer: mixer}
	log.Printf("[Sound] Speaker initialised at %d Hz", e.rate)
	return nil
}

// UseSink routes voices to s instead of the speaker.
func (e *Engine) UseSink(s Sink) {
	e.mu.Lock()
	e.sink = s
	e.mu.Unlock()
}

// Close stops everything that is playing.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sink.(*speakerSink); ok {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	e.sink = nil
}

// Play starts id at playbackRate (1 = original speed and pitch) and
// reports whether a voice was started.
func (e *Engine) Play(id SoundID, playbackRate float64) bool {
	e.mu.Lock()
	sink, volume, muted := e.sink, e.volume, e.muted
	e.mu.Unlock()

	if sink == nil || muted || playbackRate <= 0 || math.IsNaN(playbackRate) {
		return false
	}
	buf, err := e.lib.Buffer(id)
	if err != nil {
		if !errors.Is(err, ErrNotLoaded) {
			log.Printf("[Sound] Play %s: %v", id, err)
		}
		return false
	}

	sink.Add(e.voice(buf, playbackRate, volume))
	return true
}

// voice builds sample -> pitch shift -> compressor -> volume.
func (e *Engine) voice(buf *beep.Buffer, playbackRate, volume float64) beep.Streamer {
	ratio := playbackRate * float64(buf.Format().SampleRate) / float64(e.rate)
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	s = beep.ResampleRatio(resampleQuality, ratio, s)
	s = NewCompressor(s, e.rate, DefaultCompressor)
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(volume, 1e-6)),
		Silent:   volume <= 0,
	}
}

func (e *Engine) SetVolume(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	e.mu.Lock()
	e.volume = math.Min(math.Max(v, 0), 1)
	e.mu.Unlock()
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// ToggleMute flips mute and returns true if sound is now on.
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	return !e.muted
}

func (e *Engine) SetMuted(m bool) {
	e.mu.Lock()
	e.muted = m
	e.mu.Unlock()
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Level is the loudness of what the speaker played most recently.
func (e *Engine) Level() float64 {
	e.mu.Lock()
	m := e.meter
	e.mu.Unlock()
	if m == nil {
		return 0
	}
	return m.Level(e.rate.N(time.Second / 30))
}
