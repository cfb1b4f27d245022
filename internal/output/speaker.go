package output

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/jvautrin/fermata/internal/media"
)

// The speaker can only be initialized once per process; its sample rate
// is fixed at the rate of the first opened sink and later streams are
// resampled to it.
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerRate        beep.SampleRate
)

const minRingFrames = 16384

// Open creates a speaker-backed sink for the given stream spec.
func Open(spec Spec, durationHint int) (Sink, error) {
	if spec.SampleRate <= 0 || spec.Channels <= 0 {
		return nil, errors.New("output: invalid stream spec")
	}

	speakerMu.Lock()
	if !speakerInitialized {
		speakerRate = beep.SampleRate(spec.SampleRate)
		if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
			speakerMu.Unlock()
			return nil, err
		}
		speakerInitialized = true
	}
	speakerMu.Unlock()

	capacity := durationHint * 8
	if capacity < minRingFrames {
		capacity = minRingFrames
	}
	ring := newRingStreamer(capacity)

	var str beep.Streamer = ring
	if beep.SampleRate(spec.SampleRate) != speakerRate {
		str = beep.Resample(4, beep.SampleRate(spec.SampleRate), speakerRate, ring)
	}

	vol := &effects.Volume{Streamer: str, Base: 2, Volume: 0, Silent: false}
	speaker.Play(vol)

	return &speakerSink{spec: spec, ring: ring, vol: vol}, nil
}

type speakerSink struct {
	spec   Spec
	ring   *ringStreamer
	vol    *effects.Volume
	closed bool
}

var errSinkClosed = errors.New("output: sink closed")

// Write queues decoded samples, blocking while the ring is full. Mono
// is duplicated to both channels; additional channels beyond the first
// two are dropped.
func (s *speakerSink) Write(buf *media.Buffer) error {
	if s.closed {
		return errSinkClosed
	}

	ch := buf.Channels
	frames := make([][2]float64, buf.Frames())
	for i := range frames {
		base := i * ch
		switch {
		case ch == 1:
			v := float64(buf.Samples[base])
			frames[i] = [2]float64{v, v}
		default:
			frames[i] = [2]float64{
				float64(buf.Samples[base]),
				float64(buf.Samples[base+1]),
			}
		}
	}

	if !s.ring.push(frames) {
		return errSinkClosed
	}
	return nil
}

func (s *speakerSink) Flush() {
	s.ring.waitEmpty()
}

func (s *speakerSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	// Closing the ring ends the streamer; the mixer drops it on the
	// next pull.
	s.ring.close()
	return nil
}

func (s *speakerSink) SetGain(level float64) {
	speaker.Lock()
	s.vol.Volume = levelToVolume(level)
	speaker.Unlock()
}

func (s *speakerSink) SetMuted(muted bool) {
	speaker.Lock()
	s.vol.Silent = muted
	speaker.Unlock()
}

// levelToVolume converts a 0.0-1.0 level to beep's logarithmic Volume
// value with base 2: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
