package playlist

// History keeps snapshots of the queue track list for undo/redo of
// destructive edits.
type History struct {
	states  [][]Track
	current int // index of current state (-1 = before any state)
	maxSize int
}

func NewHistory(maxSize int) *History {
	return &History{
		states:  make([][]Track, 0, maxSize),
		current: -1,
		maxSize: maxSize,
	}
}

// Push saves a snapshot. Any redo states past the current position are
// discarded, and the oldest states are dropped once over the limit.
func (h *History) Push(tracks []Track) {
	snapshot := make([]Track, len(tracks))
	copy(snapshot, tracks)

	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, snapshot)
	h.current = len(h.states) - 1

	if len(h.states) > h.maxSize {
		excess := len(h.states) - h.maxSize
		h.states = h.states[excess:]
		h.current -= excess
	}
}

// Undo steps back and returns the previous snapshot.
func (h *History) Undo() ([]Track, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.current--
	return h.snapshot(), true
}

// Redo steps forward and returns the next snapshot.
func (h *History) Redo() ([]Track, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.current++
	return h.snapshot(), true
}

func (h *History) snapshot() []Track {
	out := make([]Track, len(h.states[h.current]))
	copy(out, h.states[h.current])
	return out
}

func (h *History) CanUndo() bool {
	return h.current > 0
}

func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}
