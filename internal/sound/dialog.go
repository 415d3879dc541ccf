package sound

import (
	"errors"
	"log"

	"github.com/ncruces/zenity"
)

// OpenDialog lets the user pick a file that replaces the sample for id.
// Cancelling the dialog is not an error.
func (l *Library) OpenDialog(id SoundID) error {
	filename, err := zenity.SelectFile(
		zenity.Title("Load sound for "+string(id)),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	if err := l.LoadFile(id, filename); err != nil {
		return err
	}
	log.Printf("[Sound] Loaded %s into %s", filename, id)
	return nil
}
