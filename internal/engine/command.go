package engine

import "fmt"

// Command is a transport intent sent from the controller to the engine.
// Commands are applied in send order, at most one per control-loop
// iteration, and are checked again before every decoded packet so a
// command issued mid-playback interrupts within one packet's time.
type Command interface {
	isCommand()
}

// Stop tears down the output sink and halts decoding.
type Stop struct{}

// Play resumes a paused session.
type Play struct{}

// Pause suspends decoding without releasing the session or the sink.
type Pause struct{}

// Seek reloads the active source at the given offset.
type Seek struct {
	Seconds uint64
}

// LoadFile replaces the session with one for the given source path and
// starts playback.
type LoadFile struct {
	Path string
}

// Select sets the preferred track index for subsequent loads. A negative
// index restores automatic selection.
type Select struct {
	Track int
}

// SetVolume sets the engine-local gain level in [0, 1].
type SetVolume struct {
	Level float64
}

// SetMuted silences the sink without touching the gain level.
type SetMuted struct {
	Muted bool
}

func (Stop) isCommand()      {}
func (Play) isCommand()      {}
func (Pause) isCommand()     {}
func (Seek) isCommand()      {}
func (LoadFile) isCommand()  {}
func (Select) isCommand()    {}
func (SetVolume) isCommand() {}
func (SetMuted) isCommand()  {}

func commandName(c Command) string {
	switch c := c.(type) {
	case Stop:
		return "stop"
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Seek:
		return fmt.Sprintf("seek(%ds)", c.Seconds)
	case LoadFile:
		return fmt.Sprintf("load(%s)", c.Path)
	case Select:
		return fmt.Sprintf("select(%d)", c.Track)
	case SetVolume:
		return fmt.Sprintf("volume(%.2f)", c.Level)
	case SetMuted:
		return fmt.Sprintf("muted(%t)", c.Muted)
	default:
		return "unknown"
	}
}
