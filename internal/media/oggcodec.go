package media

import (
	"errors"
	"fmt"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

// Opus always decodes at 48kHz regardless of the input sample rate.
const opusSampleRate = 48000

// Maximum Opus frame is 120ms at 48kHz.
const opusMaxFrameSize = 5760

var (
	errInvalidOpusHead     = errors.New("opus: invalid OpusHead packet")
	errUnsupportedOpus     = errors.New("opus: unsupported OpusHead version")
	errInvalidVorbisHeader = errors.New("vorbis: invalid header packets")
)

// opusDecoder decodes Opus packets via jj11hh/opus.
type opusDecoder struct {
	dec      *opus.Decoder
	channels int
	preSkip  int // encoder priming frames still to discard
	pcm      []float32
}

func newOpusDecoder(t Track) (Decoder, error) {
	if len(t.Header) == 0 || len(t.Header[0]) < 19 || string(t.Header[0][:8]) != "OpusHead" {
		return nil, errInvalidOpusHead
	}
	if t.Header[0][8] != 1 {
		return nil, errUnsupportedOpus
	}

	dec, err := opus.NewDecoder(opusSampleRate, t.Channels)
	if err != nil {
		return nil, fmt.Errorf("opus: new decoder: %w", err)
	}

	return &opusDecoder{
		dec:      dec,
		channels: t.Channels,
		preSkip:  t.PreSkip,
		pcm:      make([]float32, opusMaxFrameSize*t.Channels),
	}, nil
}

func (d *opusDecoder) Decode(p *Packet) (*Buffer, error) {
	perChannel, err := d.dec.DecodeFloat32(p.Data, d.pcm)
	if err != nil {
		return nil, &DecodeError{Codec: CodecOpus, Err: err}
	}
	drop := d.discardPriming(perChannel)
	samples := make([]float32, (perChannel-drop)*d.channels)
	copy(samples, d.pcm[drop*d.channels:perChannel*d.channels])
	return &Buffer{
		Samples:    samples,
		SampleRate: opusSampleRate,
		Channels:   d.channels,
	}, nil
}

// discardPriming counts decoded frames against the OpusHead pre-skip
// and returns how many of this packet's frames are encoder warm-up to
// drop. Only the first packets of a stream are affected.
func (d *opusDecoder) discardPriming(frames int) int {
	if d.preSkip <= 0 {
		return 0
	}
	drop := min(frames, d.preSkip)
	d.preSkip -= drop
	return drop
}

// Finalize reports no verification: Opus carries no stream checksum.
func (d *opusDecoder) Finalize() FinalizeResult {
	return FinalizeResult{}
}

// vorbisDecoder decodes Vorbis packets via jfreymuth/vorbis. The three
// header packets collected by the demuxer initialize the decoder.
type vorbisDecoder struct {
	dec        *vorbis.Decoder
	channels   int
	sampleRate int
}

func newVorbisDecoder(t Track) (Decoder, error) {
	if len(t.Header) < 3 {
		return nil, errInvalidVorbisHeader
	}
	dec := &vorbis.Decoder{}
	for _, hdr := range t.Header[:3] {
		if err := dec.ReadHeader(hdr); err != nil {
			return nil, fmt.Errorf("vorbis: read header: %w", err)
		}
	}
	return &vorbisDecoder{
		dec:        dec,
		channels:   t.Channels,
		sampleRate: t.SampleRate,
	}, nil
}

func (d *vorbisDecoder) Decode(p *Packet) (*Buffer, error) {
	samples, err := d.dec.Decode(p.Data)
	if err != nil {
		return nil, &DecodeError{Codec: CodecVorbis, Err: err}
	}
	out := make([]float32, len(samples))
	copy(out, samples)
	return &Buffer{
		Samples:    out,
		SampleRate: d.sampleRate,
		Channels:   d.channels,
	}, nil
}

func (d *vorbisDecoder) Finalize() FinalizeResult {
	return FinalizeResult{}
}
