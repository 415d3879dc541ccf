package input

import "log"

type Kind int

const (
	PressStart Kind = iota
	PressEnd
	SelectSound // Index holds the profile position
	NextSound
	PrevSound
	ToggleMute
	LoadSound
	Quit
)

func (k Kind) String() string {
	switch k {
	case PressStart:
		return "press-start"
	case PressEnd:
		return "press-end"
	case SelectSound:
		return "select-sound"
	case NextSound:
		return "next-sound"
	case PrevSound:
		return "prev-sound"
	case ToggleMute:
		return "toggle-mute"
	case LoadSound:
		return "load-sound"
	case Quit:
		return "quit"
	}
	return "unknown"
}

type Event struct {
	Kind  Kind
	Index int
}

// Queue serializes events from any goroutine onto the update loop.
type Queue struct {
	ch chan Event
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Event, size)}
}

// Post never blocks; when the queue is full the event is dropped.
func (q *Queue) Post(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		log.Printf("[Input] Queue full, dropping %s", e.Kind)
		return false
	}
}

// Drain delivers every queued event to fn, in order.
func (q *Queue) Drain(fn func(Event)) {
	for {
		select {
		case e := <-q.ch:
			fn(e)
		default:
			return
		}
	}
}
