// Package midi turns a MIDI keyboard or pedal into the press button.
package midi

import (
	"fmt"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/iburimskiy/gasmaster/internal/input"
)

// Listener forwards note-on / note-off from one input port.
type Listener struct {
	name  string
	notes *input.Notes
	stop  func()
}

// Open connects to the first input port whose name contains device
// (case-insensitive), or the first port at all when device is empty.
func Open(device string, q *input.Queue) (*Listener, error) {
	port, err := findPort(device)
	if err != nil {
		return nil, err
	}

	l := &Listener{name: port.String(), notes: input.NewNotes(q)}
	stop, err := midi.ListenTo(port, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			l.notes.On(int(key))
		case msg.GetNoteEnd(&ch, &key):
			l.notes.Off(int(key))
		}
	}, midi.HandleError(func(err error) {
		log.Printf("[MIDI] Listener error on %s: %v", l.name, err)
	}))
	if err != nil {
		return nil, fmt.Errorf("listen %q: %w", l.name, err)
	}
	l.stop = stop
	log.Printf("[MIDI] Listening on %s", l.name)
	return l, nil
}

func findPort(device string) (drivers.In, error) {
	ports := midi.GetInPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI input ports")
	}
	if device == "" {
		return ports[0], nil
	}
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(device)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input matching %q", device)
}

// Close stops listening and releases any held press.
func (l *Listener) Close() {
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	l.notes.Reset()
	midi.CloseDriver()
}
