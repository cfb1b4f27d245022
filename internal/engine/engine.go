// Package engine implements the audio playback engine: a dedicated
// goroutine that owns the demux/decode session, reacts to transport
// commands and streams decoded samples to the output sink while
// reporting timing back to the controller.
//
// The controller and the engine communicate exclusively through two
// unbounded FIFO queues; the session (reader, decoder, sink) never
// crosses the goroutine boundary, so no locks guard playback state.
package engine

import (
	"log/slog"

	"github.com/jvautrin/fermata/internal/media"
	"github.com/jvautrin/fermata/internal/output"
)

// State is the engine's transport state. LoadingFile and SeekingTo are
// transient: the control loop resolves them into Playing (or back to
// Stopped on failure) within one iteration.
type State int

const (
	Unstarted State = iota
	Stopped
	Playing
	Paused
	LoadingFile
	SeekingTo
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Unstarted:
		return "Unstarted"
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case LoadingFile:
		return "LoadingFile"
	case SeekingTo:
		return "SeekingTo"
	default:
		return "Unknown"
	}
}

// ProbeFunc opens a source path as a format reader.
type ProbeFunc func(path string) (media.FormatReader, error)

// DecoderFactory constructs a decoder for a selected track.
type DecoderFactory func(t media.Track) (media.Decoder, error)

// Engine runs the transport state machine. Create with New, start Run
// in its own goroutine, send commands through the transport methods and
// drain events with PollEvent or NextEvent.
type Engine struct {
	cmds   *queue[Command]
	events *queue[Event]

	log        *slog.Logger
	probe      ProbeFunc
	newDecoder DecoderFactory
	openSink   output.Opener

	// Everything below is owned by the Run goroutine.
	state       State
	pendingPath string
	pendingSeek uint64
	sess        *session
	activePath  string
	trackIndex  int
	volume      float64
	muted       bool
	gen         uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithProbe overrides the container probe (tests).
func WithProbe(p ProbeFunc) Option {
	return func(e *Engine) { e.probe = p }
}

// WithDecoderFactory overrides decoder construction (tests).
func WithDecoderFactory(f DecoderFactory) Option {
	return func(e *Engine) { e.newDecoder = f }
}

// WithSinkOpener overrides the output device (tests).
func WithSinkOpener(o output.Opener) Option {
	return func(e *Engine) { e.openSink = o }
}

// New creates an engine. Run must be started for commands to take
// effect.
func New(opts ...Option) *Engine {
	e := &Engine{
		cmds:       newQueue[Command](),
		events:     newQueue[Event](),
		log:        slog.Default(),
		probe:      media.Probe,
		newDecoder: media.NewDecoder,
		openSink:   output.Open,
		state:      Unstarted,
		trackIndex: -1,
		volume:     1.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the control loop until Close is called. One iteration
// applies at most one pending command, then acts according to the
// current state. Blocking work (reading, decoding, writing a packet)
// completes within an iteration and never blocks the controller.
func (e *Engine) Run() {
	defer func() {
		e.sess.close()
		e.sess = nil
		e.events.Close()
	}()

	for {
		// Act on the current state first so transition work (sink
		// teardown, loads) happens before the engine parks waiting for
		// the next command.
		switch e.state {
		case Playing:
			e.decodeLoop()
		case LoadingFile:
			e.handleLoad(e.pendingPath)
		case SeekingTo:
			e.handleSeek(e.pendingSeek)
		case Unstarted, Stopped, Paused:
			// Nothing to do; only a command can cause a transition.
		}

		cmd, ok := e.nextCommand()
		if !ok && e.cmds.Closed() {
			return
		}
		if ok {
			e.apply(cmd)
		}
	}
}

// nextCommand fetches the next pending command. While there is active
// work (playing, loading, seeking) the receive is non-blocking; in idle
// states the engine parks until a command arrives instead of spinning.
func (e *Engine) nextCommand() (Command, bool) {
	switch e.state {
	case Playing:
		if e.sess != nil && !e.sess.drained {
			return e.cmds.TryPop()
		}
		return e.cmds.Pop()
	case LoadingFile, SeekingTo:
		return e.cmds.TryPop()
	default:
		return e.cmds.Pop()
	}
}

// apply mutates transport state for one command. Commands that are not
// meaningful in the current state are consumed and logged, never
// errors.
func (e *Engine) apply(cmd Command) {
	e.log.Debug("engine: command", "cmd", commandName(cmd), "state", e.state.String())

	switch cmd := cmd.(type) {
	case Stop:
		// The sink is torn down right away so the device is free while
		// the engine sits stopped; the reader and decoder are kept so
		// Play can resume.
		e.state = Stopped
		e.sess.releaseSink()
	case Play:
		if e.state == Paused || (e.sess != nil && !e.sess.drained) {
			e.state = Playing
		} else {
			e.log.Debug("engine: play ignored, no active session")
		}
	case Pause:
		if e.state == Playing {
			e.state = Paused
		} else {
			e.log.Debug("engine: pause ignored", "state", e.state.String())
		}
	case Seek:
		if e.activePath == "" {
			e.log.Debug("engine: seek ignored, no active source")
			return
		}
		e.pendingSeek = cmd.Seconds
		e.state = SeekingTo
	case LoadFile:
		e.pendingPath = cmd.Path
		e.state = LoadingFile
	case Select:
		e.trackIndex = cmd.Track
	case SetVolume:
		e.setVolume(cmd.Level)
	case SetMuted:
		e.muted = cmd.Muted
		if e.sess != nil && e.sess.sink != nil {
			e.sess.sink.SetMuted(cmd.Muted)
		}
	}
}

func (e *Engine) setVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	e.volume = level
	if e.sess != nil && e.sess.sink != nil {
		e.sess.sink.SetGain(level)
	}
}

// Transport command senders (controller side).

// Stop requests playback stop and sink teardown.
func (e *Engine) Stop() { e.cmds.Push(Stop{}) }

// Play requests that a paused session resume.
func (e *Engine) Play() { e.cmds.Push(Play{}) }

// Pause requests that playback pause in place.
func (e *Engine) Pause() { e.cmds.Push(Pause{}) }

// SeekTo requests a reload of the active source at the given offset.
func (e *Engine) SeekTo(seconds uint64) { e.cmds.Push(Seek{Seconds: seconds}) }

// Load requests playback of a new source file.
func (e *Engine) Load(path string) { e.cmds.Push(LoadFile{Path: path}) }

// SelectTrack sets the preferred track index for subsequent loads.
func (e *Engine) SelectTrack(index int) { e.cmds.Push(Select{Track: index}) }

// SetVolume sets the playback gain in [0, 1].
func (e *Engine) SetVolume(level float64) { e.cmds.Push(SetVolume{Level: level}) }

// SetMuted silences or unsilences the output without losing the gain.
func (e *Engine) SetMuted(muted bool) { e.cmds.Push(SetMuted{Muted: muted}) }

// Send enqueues a raw command.
func (e *Engine) Send(cmd Command) { e.cmds.Push(cmd) }

// PollEvent returns the next engine event without blocking.
func (e *Engine) PollEvent() (Event, bool) {
	return e.events.TryPop()
}

// NextEvent blocks until an event is available or the engine closes.
func (e *Engine) NextEvent() (Event, bool) {
	return e.events.Pop()
}

// Close stops command intake and shuts the engine down once queued
// commands and in-flight playback complete. Send Stop first to abandon
// playback immediately. Pending events remain drainable after Run
// returns.
func (e *Engine) Close() {
	e.cmds.Close()
}
