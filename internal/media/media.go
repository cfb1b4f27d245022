// Package media provides container demuxing and audio decoding for the
// playback engine. A FormatReader splits a probed source into per-track
// packet streams; a Decoder turns packets of one codec into raw sample
// buffers.
package media

import "io"

// Codec identifies the compression scheme of a track.
type Codec int

const (
	// CodecNull marks a track the player cannot decode.
	CodecNull Codec = iota
	CodecOpus
	CodecVorbis
	CodecFLAC
	// CodecPCM16 carries raw 16-bit little-endian PCM packets. Used by
	// readers whose underlying library exposes a decoded byte stream
	// rather than compressed frames (MP3).
	CodecPCM16
)

// String returns the codec name for logging.
func (c Codec) String() string {
	switch c {
	case CodecOpus:
		return "Opus"
	case CodecVorbis:
		return "Vorbis"
	case CodecFLAC:
		return "FLAC"
	case CodecPCM16:
		return "PCM"
	default:
		return "Unknown"
	}
}

// TimeBase expresses the duration of one packet timestamp tick as the
// rational Num/Den seconds. For every reader in this package one tick is
// one sample frame, so Num is 1 and Den is the sample rate.
type TimeBase struct {
	Num uint64
	Den uint64
}

// Seconds converts a tick count to whole seconds.
func (tb TimeBase) Seconds(ts uint64) uint64 {
	if tb.Den == 0 {
		return 0
	}
	return ts * tb.Num / tb.Den
}

// Ticks converts whole seconds to ticks.
func (tb TimeBase) Ticks(seconds uint64) uint64 {
	if tb.Num == 0 {
		return 0
	}
	return seconds * tb.Den / tb.Num
}

// Track describes one elementary stream within a container.
type Track struct {
	ID         uint32
	Codec      Codec
	SampleRate int
	Channels   int
	// NumFrames is the total sample-frame count, or 0 when the container
	// does not declare it.
	NumFrames uint64
	TimeBase  TimeBase
	// BitDepth is the source sample width where known (FLAC).
	BitDepth int
	// Header holds codec setup packets in stream order (OpusHead for
	// Opus, the three Vorbis headers for Vorbis). Consumed by NewDecoder.
	Header [][]byte
	// PreSkip is the number of priming samples at stream start (Opus).
	PreSkip int
	// MD5 is the expected hash of the decoded stream where the container
	// declares one (FLAC). Consumed by Decoder.Finalize verification.
	MD5 []byte
}

// DurationSeconds returns the track duration in whole seconds, or 0 when
// unknown.
func (t Track) DurationSeconds() uint64 {
	return t.TimeBase.Seconds(t.NumFrames)
}

// Decodable reports whether the player has a decoder for this track.
func (t Track) Decodable() bool {
	return t.Codec != CodecNull
}

// Packet is one compressed unit read from a container, tagged with the
// track it belongs to and its presentation timestamp in track ticks.
type Packet struct {
	TrackID uint32
	TS      uint64
	Data    []byte
}

// Buffer holds decoded interleaved float32 samples in [-1, 1].
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// FormatReader demultiplexes a probed container into packets.
//
// NextPacket returns ErrEndOfStream once the container is exhausted;
// that is the only non-error terminal condition. Seek repositions the
// reader so that decoding resumes at or before the requested time for
// the given track and returns the tick position actually reached; a
// reader that cannot seek in place returns ErrResetRequired, telling the
// caller to rebuild the session from scratch.
type FormatReader interface {
	Tracks() []Track
	NextPacket() (*Packet, error)
	Seek(seconds uint64, trackID uint32) (uint64, error)
	io.Closer
}

// FinalizeResult carries optional end-of-decode integrity information.
// VerifyOK is nil when the codec performs no verification.
type FinalizeResult struct {
	VerifyOK *bool
}

// Decoder turns packets of a single codec into sample buffers. Decode
// returns *DecodeError for recoverable per-packet corruption; any other
// error is fatal to the stream.
type Decoder interface {
	Decode(p *Packet) (*Buffer, error)
	Finalize() FinalizeResult
}

// NewDecoder constructs a decoder for the track's codec. Failure here
// means the track cannot be played at all.
func NewDecoder(t Track) (Decoder, error) {
	switch t.Codec {
	case CodecOpus:
		return newOpusDecoder(t)
	case CodecVorbis:
		return newVorbisDecoder(t)
	case CodecFLAC:
		return newFLACDecoder(t)
	case CodecPCM16:
		return newPCM16Decoder(t)
	default:
		return nil, ErrNoDecodableTrack
	}
}

// SelectTrack picks the track to play: the preferred index when set and
// valid, otherwise the first decodable track. ok is false when the
// container holds nothing playable.
func SelectTrack(tracks []Track, preferred int) (Track, bool) {
	if preferred >= 0 && preferred < len(tracks) && tracks[preferred].Decodable() {
		return tracks[preferred], true
	}
	return FirstDecodableTrack(tracks)
}

// FirstDecodableTrack returns the first track with a known codec.
func FirstDecodableTrack(tracks []Track) (Track, bool) {
	for _, t := range tracks {
		if t.Decodable() {
			return t, true
		}
	}
	return Track{}, false
}
