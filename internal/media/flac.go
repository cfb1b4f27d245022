package media

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/mewkiz/flac"
)

// flacTrackID is the synthetic track id for single-track containers.
const flacTrackID = 1

// flacReader reads FLAC frames as packets. Each packet carries the
// frame's interleaved samples as little-endian integers at the stream's
// bit depth, which is also the layout FLAC's MD5 signature is computed
// over.
type flacReader struct {
	stream   *flac.Stream
	track    Track
	seekable bool
	pos      uint64 // sample index of the next frame
}

func newFLACReader(src io.ReadSeekCloser) (*flacReader, error) {
	stream, err := flac.NewSeek(src)
	seekable := true
	if err != nil {
		// No seek table or unseekable source; fall back to a forward-only
		// parse from the start.
		if _, serr := src.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		stream, err = flac.New(src)
		if err != nil {
			return nil, fmt.Errorf("flac: parse: %w", err)
		}
		seekable = false
	}

	info := stream.Info
	md5sum := make([]byte, len(info.MD5sum))
	copy(md5sum, info.MD5sum[:])

	return &flacReader{
		stream:   stream,
		seekable: seekable,
		track: Track{
			ID:         flacTrackID,
			Codec:      CodecFLAC,
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			NumFrames:  info.NSamples,
			TimeBase:   TimeBase{Num: 1, Den: uint64(info.SampleRate)},
			BitDepth:   int(info.BitsPerSample),
			MD5:        md5sum,
		},
	}, nil
}

func (r *flacReader) Tracks() []Track {
	return []Track{r.track}
}

func (r *flacReader) NextPacket() (*Packet, error) {
	frame, err := r.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("flac: parse frame: %w", err)
	}

	blockSize := 0
	if len(frame.Subframes) > 0 {
		blockSize = len(frame.Subframes[0].Samples)
	}

	width := (r.track.BitDepth + 7) / 8
	data := make([]byte, 0, blockSize*len(frame.Subframes)*width)
	for i := 0; i < blockSize; i++ {
		for _, sub := range frame.Subframes {
			v := sub.Samples[i]
			for b := 0; b < width; b++ {
				data = append(data, byte(v>>(8*b)))
			}
		}
	}

	pkt := &Packet{TrackID: flacTrackID, TS: r.pos, Data: data}
	r.pos += uint64(blockSize)
	return pkt, nil
}

func (r *flacReader) Seek(seconds uint64, trackID uint32) (uint64, error) {
	if trackID != flacTrackID {
		return 0, fmt.Errorf("flac: unknown track %d", trackID)
	}
	if !r.seekable {
		return 0, ErrResetRequired
	}
	target := r.track.TimeBase.Ticks(seconds)
	if r.track.NumFrames > 0 && target > r.track.NumFrames {
		target = r.track.NumFrames
	}
	actual, err := r.stream.Seek(target)
	if err != nil {
		return 0, fmt.Errorf("flac: seek: %w", err)
	}
	r.pos = actual
	return actual, nil
}

func (r *flacReader) Close() error {
	return r.stream.Close()
}

// flacDecoder unpacks the reader's integer payloads into float32 and
// maintains the running MD5 for end-of-stream verification.
type flacDecoder struct {
	track Track
	hash  hash.Hash
}

func newFLACDecoder(t Track) (Decoder, error) {
	if t.BitDepth < 8 || t.BitDepth > 32 {
		return nil, fmt.Errorf("flac: unsupported bit depth %d", t.BitDepth)
	}
	if t.Channels <= 0 {
		return nil, fmt.Errorf("flac: invalid channel count %d", t.Channels)
	}
	return &flacDecoder{track: t, hash: md5.New()}, nil
}

func (d *flacDecoder) Decode(p *Packet) (*Buffer, error) {
	width := (d.track.BitDepth + 7) / 8
	if len(p.Data)%(width*d.track.Channels) != 0 {
		return nil, &DecodeError{
			Codec: CodecFLAC,
			Err:   fmt.Errorf("payload length %d not a sample multiple", len(p.Data)),
		}
	}

	d.hash.Write(p.Data)

	scale := float32(int64(1) << (d.track.BitDepth - 1))
	n := len(p.Data) / width
	samples := make([]float32, n)
	shift := 32 - d.track.BitDepth
	for i := 0; i < n; i++ {
		var v int32
		for b := 0; b < width; b++ {
			v |= int32(p.Data[i*width+b]) << (8 * b)
		}
		// Sign-extend from the source width.
		v = v << shift >> shift
		samples[i] = float32(v) / scale
	}

	return &Buffer{
		Samples:    samples,
		SampleRate: d.track.SampleRate,
		Channels:   d.track.Channels,
	}, nil
}

// Finalize compares the running hash against the stream's declared MD5.
func (d *flacDecoder) Finalize() FinalizeResult {
	if len(d.track.MD5) == 0 || allZero(d.track.MD5) {
		return FinalizeResult{}
	}
	ok := bytes.Equal(d.hash.Sum(nil), d.track.MD5)
	return FinalizeResult{VerifyOK: &ok}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
