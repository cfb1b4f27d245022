package media

import (
	"errors"
	"fmt"
	"io"

	mp3 "github.com/llehouerou/go-mp3"
)

const mp3TrackID = 1

// mp3BlockFrames is the number of sample frames carried per packet.
// go-mp3 exposes a decoded byte stream rather than MPEG frames, so the
// reader chunks it into fixed blocks and pairs them with a pass-through
// PCM decoder.
const mp3BlockFrames = 4096

// go-mp3 always outputs 16-bit stereo: 4 bytes per sample frame.
const mp3FrameBytes = 4

type mp3Reader struct {
	dec    *mp3.Decoder
	closer io.Closer
	track  Track
	pos    uint64 // sample index of the next block
}

func newMP3Reader(src io.ReadSeekCloser) (*mp3Reader, error) {
	dec, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, fmt.Errorf("mp3: decode: %w", err)
	}
	rate := dec.SampleRate()
	if rate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	return &mp3Reader{
		dec:    dec,
		closer: src,
		track: Track{
			ID:         mp3TrackID,
			Codec:      CodecPCM16,
			SampleRate: rate,
			Channels:   2,
			NumFrames:  uint64(dec.Length() / mp3FrameBytes),
			TimeBase:   TimeBase{Num: 1, Den: uint64(rate)},
			BitDepth:   16,
		},
	}, nil
}

func (r *mp3Reader) Tracks() []Track {
	return []Track{r.track}
}

func (r *mp3Reader) NextPacket() (*Packet, error) {
	buf := make([]byte, mp3BlockFrames*mp3FrameBytes)
	n, err := io.ReadFull(r.dec, buf)
	if n == 0 {
		if err == nil || isEOF(err) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("mp3: read: %w", err)
	}
	if err != nil && !isEOF(err) {
		return nil, fmt.Errorf("mp3: read: %w", err)
	}
	// Trim to whole frames.
	n -= n % mp3FrameBytes

	pkt := &Packet{TrackID: mp3TrackID, TS: r.pos, Data: buf[:n]}
	r.pos += uint64(n / mp3FrameBytes)
	return pkt, nil
}

func (r *mp3Reader) Seek(seconds uint64, trackID uint32) (uint64, error) {
	if trackID != mp3TrackID {
		return 0, fmt.Errorf("mp3: unknown track %d", trackID)
	}
	target := r.track.TimeBase.Ticks(seconds)
	if r.track.NumFrames > 0 && target > r.track.NumFrames {
		target = r.track.NumFrames
	}
	if _, err := r.dec.Seek(int64(target)*mp3FrameBytes, io.SeekStart); err != nil {
		return 0, fmt.Errorf("mp3: seek: %w", err)
	}
	r.pos = target
	return target, nil
}

func (r *mp3Reader) Close() error {
	return r.closer.Close()
}

// pcm16Decoder converts 16-bit little-endian PCM packets to float32.
type pcm16Decoder struct {
	track Track
}

func newPCM16Decoder(t Track) (Decoder, error) {
	if t.Channels <= 0 {
		return nil, fmt.Errorf("pcm: invalid channel count %d", t.Channels)
	}
	return &pcm16Decoder{track: t}, nil
}

func (d *pcm16Decoder) Decode(p *Packet) (*Buffer, error) {
	if len(p.Data)%2 != 0 {
		return nil, &DecodeError{
			Codec: CodecPCM16,
			Err:   fmt.Errorf("odd payload length %d", len(p.Data)),
		}
	}
	samples := make([]float32, len(p.Data)/2)
	for i := range samples {
		v := int16(uint16(p.Data[2*i]) | uint16(p.Data[2*i+1])<<8)
		samples[i] = float32(v) / 32768
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: d.track.SampleRate,
		Channels:   d.track.Channels,
	}, nil
}

func (d *pcm16Decoder) Finalize() FinalizeResult {
	return FinalizeResult{}
}
