package sound

import (
	"errors"
	"fmt"
	"image/color"
)

// SoundID names one of the fixed sample slots.
type SoundID string

const (
	Pum   SoundID = "PUM"
	Prrr  SoundID = "PRRR"
	Fiuuu SoundID = "FIUUU"
	Splat SoundID = "SPLAT"
)

var ErrUnknownSound = errors.New("unknown sound")

type Profile struct {
	ID          SoundID
	Label       string
	Description string
	Color       color.RGBA
	File        string
}

// Profiles is the selectable set, in display order.
var Profiles = []Profile{
	{ID: Pum, Label: "PUM!", Description: "IMPACTO SECO", Color: color.RGBA{R: 250, G: 204, B: 21, A: 255}, File: "pum.mp3"},
	{ID: Prrr, Label: "PRRR!", Description: "CLASICO ROTO", Color: color.RGBA{R: 74, G: 222, B: 128, A: 255}, File: "prrr.mp3"},
	{ID: Fiuuu, Label: "FIUUU!", Description: "SILBIDO LETAL", Color: color.RGBA{R: 34, G: 211, B: 238, A: 255}, File: "fiuuu.mp3"},
	{ID: Splat, Label: "SPLAT!", Description: "HUMEDO", Color: color.RGBA{R: 251, G: 113, B: 133, A: 255}, File: "splat.mp3"},
}

// Lookup returns the profile index for id, or -1.
func Lookup(id SoundID) int {
	for i, p := range Profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Selector tracks the active sound.
type Selector struct {
	index int
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) Active() Profile {
	return Profiles[s.index]
}

func (s *Selector) Index() int { return s.index }

func (s *Selector) Select(id SoundID) error {
	i := Lookup(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}
	s.index = i
	return nil
}

// SelectIndex picks by display position; out of range is ignored.
func (s *Selector) SelectIndex(i int) bool {
	if i < 0 || i >= len(Profiles) {
		return false
	}
	s.index = i
	return true
}

func (s *Selector) Next() {
	s.index = (s.index + 1) % len(Profiles)
}

func (s *Selector) Prev() {
	s.index = (s.index + len(Profiles) - 1) % len(Profiles)
}
