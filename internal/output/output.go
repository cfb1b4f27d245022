// Package output abstracts the audio device the engine streams decoded
// samples into.
package output

import (
	"github.com/jvautrin/fermata/internal/media"
)

// Spec describes the stream an opened sink accepts. It is fixed for the
// lifetime of the sink; a new load opens a new sink.
type Spec struct {
	SampleRate int
	Channels   int
}

// Sink is the destination for decoded audio. Write blocks while the
// device buffer is full, which paces the decode loop to real time.
type Sink interface {
	Write(buf *media.Buffer) error
	// Flush blocks until buffered audio has been consumed.
	Flush()
	Close() error
	// SetGain sets the playback level in [0, 1].
	SetGain(level float64)
	SetMuted(muted bool)
}

// Opener constructs a sink for a stream spec. durationHint is the frame
// capacity of the decoder's buffers and sizes the device-side queue.
type Opener func(spec Spec, durationHint int) (Sink, error)
