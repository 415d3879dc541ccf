package input

import "sync"

// Hitter is anything that can tell whether a point is inside it.
type Hitter interface {
	Contains(x, y float64) bool
}

// Hold turns polled pointer state into press-start / press-end pairs.
// A press must begin inside the area; leaving the area while held counts
// as a release, so every start gets exactly one end.
type Hold struct {
	held     bool
	prevDown bool
}

// Update feeds one frame of pointer state.
func (h *Hold) Update(area Hitter, down bool, x, y float64, emit func(Event)) {
	justDown := down && !h.prevDown
	h.prevDown = down

	inside := area.Contains(x, y)
	switch {
	case !h.held && justDown && inside:
		h.held = true
		emit(Event{Kind: PressStart})
	case h.held && (!down || !inside):
		h.held = false
		emit(Event{Kind: PressEnd})
	}
}

func (h *Hold) Held() bool { return h.held }

// Cancel ends a hold in progress, e.g. when the window loses focus.
func (h *Hold) Cancel(emit func(Event)) {
	if h.held {
		h.held = false
		emit(Event{Kind: PressEnd})
	}
}

// Holders merges several press sources into one button: the first
// source down starts the press and the last one up ends it.
type Holders struct {
	count int
}

// Start reports whether this start begins a press.
func (h *Holders) Start() bool {
	h.count++
	return h.count == 1
}

// End reports whether this end finishes the press. Ends without a
// matching start are ignored.
func (h *Holders) End() bool {
	if h.count == 0 {
		return false
	}
	h.count--
	return h.count == 0
}

func (h *Holders) Count() int { return h.count }

// Notes tracks held MIDI keys: the first key down starts a press and the
// last key up ends it. It is driven from the MIDI goroutine.
type Notes struct {
	queue *Queue

	mu   sync.Mutex
	down map[int]bool
}

func NewNotes(q *Queue) *Notes {
	return &Notes{queue: q, down: make(map[int]bool)}
}

func (n *Notes) On(key int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.down[key] {
		return
	}
	n.down[key] = true
	if len(n.down) == 1 {
		n.queue.Post(Event{Kind: PressStart})
	}
}

func (n *Notes) Off(key int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.down[key] {
		return
	}
	delete(n.down, key)
	if len(n.down) == 0 {
		n.queue.Post(Event{Kind: PressEnd})
	}
}

// Reset releases everything, e.g. after the device disappears.
func (n *Notes) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.down) > 0 {
		n.down = make(map[int]bool)
		n.queue.Post(Event{Kind: PressEnd})
	}
}
