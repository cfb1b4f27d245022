package engine

import (
	"github.com/jvautrin/fermata/internal/media"
	"github.com/jvautrin/fermata/internal/output"
)

// PlayTrackOptions is the immutable snapshot of the selected track and
// resolved seek position, computed once per load or seek and consulted
// for every subsequent packet.
type PlayTrackOptions struct {
	TrackID uint32
	// SeekTS is the trim threshold in track ticks: frames with a
	// presentation time below it are decoded but not written.
	SeekTS uint64
}

// session aggregates the resources of one loaded source. Exactly one
// session is live at a time and it is owned exclusively by the engine
// goroutine.
type session struct {
	reader  media.FormatReader
	decoder media.Decoder
	sink    output.Sink
	track   media.Track
	opts    PlayTrackOptions
	// drained marks that the decode loop has terminated (end of stream
	// or fatal error) and there is nothing to do until the next command.
	drained bool
}

// close releases the session's resources: reader first, then decoder,
// then the output sink.
func (s *session) close() {
	if s == nil {
		return
	}
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
	s.decoder = nil
	if s.sink != nil {
		s.sink.Flush()
		s.sink.Close()
		s.sink = nil
	}
}

// releaseSink flushes and tears down the output sink only, keeping the
// reader and decoder.
func (s *session) releaseSink() {
	if s == nil || s.sink == nil {
		return
	}
	s.sink.Flush()
	s.sink.Close()
	s.sink = nil
}
