package playback

import "time"

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback moves to a different track:
// explicit navigation (Next, Previous, JumpTo), queue replacement that
// starts playback, and automatic advance when a track finishes.
// Queue edits that do not start a different track never emit it.
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents or cursor change.
type QueueChange struct {
	Tracks []Track
	Index  int
}

// PositionChange is emitted when the playback position advances or a
// seek lands.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when a load or playback error occurs.
type ErrorEvent struct {
	Operation string // e.g. "load", "seek"
	Path      string // track path if applicable
	Err       error
}
