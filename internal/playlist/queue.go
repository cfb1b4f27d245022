// Package playlist holds the playing queue: an ordered list of tracks
// with a cursor for the one currently loaded in the engine.
package playlist

import "time"

// Track is one entry in the queue.
type Track struct {
	ID          int64  // library track ID (0 if from filesystem)
	Path        string // file path for playback
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// Queue is an ordered track list with a current position.
// The zero index convention is -1 for "nothing playing".
type Queue struct {
	tracks  []Track
	current int
}

func NewQueue() *Queue {
	return &Queue{current: -1}
}

// Current returns the currently playing track, or nil if none.
func (q *Queue) Current() *Track {
	if q.current < 0 || q.current >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.current]
}

// CurrentIndex returns the index of the currently playing track (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.current
}

// HasNext returns true if there is a track after the current one.
func (q *Queue) HasNext() bool {
	return q.current < len(q.tracks)-1
}

// HasPrevious returns true if there is a track before the current one.
func (q *Queue) HasPrevious() bool {
	return q.current > 0 && len(q.tracks) > 0
}

// Next advances to the next track and returns it, or nil at the end.
func (q *Queue) Next() *Track {
	if !q.HasNext() {
		return nil
	}
	q.current++
	return q.Current()
}

// Previous moves back to the previous track and returns it, or nil at
// the start.
func (q *Queue) Previous() *Track {
	if !q.HasPrevious() {
		return nil
	}
	q.current--
	return q.Current()
}

// JumpTo sets the current index and returns the track there, or nil if
// the index is out of bounds.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.current = index
	return q.Current()
}

// Add appends tracks without changing playback.
func (q *Queue) Add(tracks ...Track) {
	q.tracks = append(q.tracks, tracks...)
}

// AddAndPlay appends tracks and moves the cursor to the first added
// track. Returns the track to play, or nil if tracks is empty.
func (q *Queue) AddAndPlay(tracks ...Track) *Track {
	if len(tracks) == 0 {
		return nil
	}
	insert := len(q.tracks)
	q.tracks = append(q.tracks, tracks...)
	q.current = insert
	return q.Current()
}

// Replace swaps the whole queue for the given tracks and starts at the
// first. Returns the first track, or nil if tracks is empty.
func (q *Queue) Replace(tracks ...Track) *Track {
	q.tracks = q.tracks[:0]
	q.current = -1
	if len(tracks) == 0 {
		return nil
	}
	q.tracks = append(q.tracks, tracks...)
	q.current = 0
	return q.Current()
}

// RemoveAt removes the track at the given index, adjusting the cursor
// so it keeps pointing at the same track where possible.
func (q *Queue) RemoveAt(index int) bool {
	if index < 0 || index >= len(q.tracks) {
		return false
	}
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	if q.current > index {
		q.current--
	} else if q.current == index && q.current >= len(q.tracks) {
		q.current = len(q.tracks) - 1
	}
	return true
}

// Move moves the track at from to position to, keeping the cursor on
// the track it pointed at before.
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.tracks) || to < 0 || to >= len(q.tracks) {
		return false
	}
	if from == to {
		return true
	}

	track := q.tracks[from]
	q.tracks = append(q.tracks[:from], q.tracks[from+1:]...)
	q.tracks = append(q.tracks[:to], append([]Track{track}, q.tracks[to:]...)...)

	switch {
	case q.current == from:
		q.current = to
	case from < q.current && to >= q.current:
		q.current--
	case from > q.current && to <= q.current:
		q.current++
	}
	return true
}

// Clear removes all tracks and resets the cursor.
func (q *Queue) Clear() {
	q.tracks = q.tracks[:0]
	q.current = -1
}

// Tracks returns a copy of all tracks.
func (q *Queue) Tracks() []Track {
	result := make([]Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

func (q *Queue) Len() int {
	return len(q.tracks)
}

func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Restore replaces the queue contents and cursor in one shot, used
// when loading persisted state. An out of range index is clamped.
func (q *Queue) Restore(tracks []Track, index int) {
	q.tracks = append(q.tracks[:0], tracks...)
	if index < -1 {
		index = -1
	}
	if index >= len(q.tracks) {
		index = len(q.tracks) - 1
	}
	q.current = index
}
