package store

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	prefsObject = "prefs"
	statsObject = "stats"
	globalProp  = "global"
)

// Prefs are the user's choices, restored on the next start.
type Prefs struct {
	ActiveSound string  `yaml:"activeSound"`
	Volume      float64 `yaml:"volume"`
	Muted       bool    `yaml:"muted"`
}

// Stats count what the button has been through.
type Stats struct {
	Releases    int     `yaml:"releases"`
	MaxPressure float64 `yaml:"maxPressure"`
	FullBlasts  int     `yaml:"fullBlasts"`
}

// Record accounts for one release at pressure.
func (s *Stats) Record(pressure float64) {
	s.Releases++
	if pressure > s.MaxPressure {
		s.MaxPressure = pressure
	}
	if pressure >= 1 {
		s.FullBlasts++
	}
}

// Store persists Prefs and Stats through gdata. A nil manager keeps
// everything in memory.
type Store struct {
	manager *gdata.Manager
	Prefs   Prefs
	Stats   Stats
}

// Open creates the platform data directory for appName. Failing to do so
// is logged and yields a memory-only store.
func Open(appName string, defaults Prefs) *Store {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Store] Warning: persistence unavailable: %v", err)
		manager = nil
	}
	return New(manager, defaults)
}

// New loads saved state from manager, falling back to defaults.
func New(manager *gdata.Manager, defaults Prefs) *Store {
	s := &Store{manager: manager, Prefs: defaults}
	if err := s.load(prefsObject, &s.Prefs); err != nil {
		log.Printf("[Store] Warning: %v (using defaults)", err)
		s.Prefs = defaults
	}
	if err := s.load(statsObject, &s.Stats); err != nil {
		log.Printf("[Store] Warning: %v", err)
		s.Stats = Stats{}
	}
	return s
}

func (s *Store) load(object string, v any) error {
	if s.manager == nil || !s.manager.ObjectPropExists(object, globalProp) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(object, globalProp)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", object, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", object, err)
	}
	return nil
}

func (s *Store) save(object string, v any) error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", object, err)
	}
	if err := s.manager.SaveObjectProp(object, globalProp, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", object, err)
	}
	return nil
}

// Save writes prefs and stats.
func (s *Store) Save() error {
	if err := s.save(prefsObject, s.Prefs); err != nil {
		return err
	}
	return s.save(statsObject, s.Stats)
}

// Persistent reports whether Save reaches disk.
func (s *Store) Persistent() bool {
	return s.manager != nil
}
