package sound

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

var (
	ErrNotLoaded       = errors.New("sound not loaded")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Library holds decoded samples. Loading runs in the background while the
// loading screen is up, so access is guarded.
type Library struct {
	mu      sync.RWMutex
	buffers map[SoundID]*beep.Buffer
	done    int
}

func NewLibrary() *Library {
	return &Library{buffers: make(map[SoundID]*beep.Buffer)}
}

// LoadDir decodes every profile's file from dir. A sample that fails to
// load stays silent; all failures are returned together.
func (l *Library) LoadDir(dir string) error {
	var errs []error
	for _, p := range Profiles {
		if err := l.LoadFile(p.ID, filepath.Join(dir, p.File)); err != nil {
			log.Printf("[Sound] Failed to load sound %s: %v", p.ID, err)
			errs = append(errs, err)
		}
		l.mu.Lock()
		l.done++
		l.mu.Unlock()
	}
	log.Printf("[Sound] Loaded %d/%d sounds from %s", l.Loaded(), len(Profiles), dir)
	return errors.Join(errs...)
}

// LoadFile decodes path into the slot for id, replacing what was there.
func (l *Library) LoadFile(id SoundID, path string) error {
	if Lookup(id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}
	buf, err := decodeFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	l.Store(id, buf)
	return nil
}

// Store puts an already decoded buffer into the slot for id.
func (l *Library) Store(id SoundID, buf *beep.Buffer) {
	l.mu.Lock()
	l.buffers[id] = buf
	l.mu.Unlock()
}

func (l *Library) Buffer(id SoundID) (*beep.Buffer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	buf, ok := l.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}
	return buf, nil
}

func (l *Library) Loaded() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buffers)
}

// Progress reports how far LoadDir got, in [0, 1].
func (l *Library) Progress() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return float64(l.done) / float64(len(Profiles))
}

func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}
