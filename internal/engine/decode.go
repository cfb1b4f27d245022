package engine

import (
	"errors"

	"github.com/jvautrin/fermata/internal/media"
	"github.com/jvautrin/fermata/internal/output"
)

// decodeLoop pulls, decodes and writes packets while the state stays
// Playing. The command queue is re-checked before every packet, so an
// interrupting command is observed within one packet's processing time;
// sink teardown on a state change is the outer loop's job, not ours.
func (e *Engine) decodeLoop() {
	sess := e.sess
	if sess == nil || sess.drained {
		return
	}

	for {
		if cmd, ok := e.cmds.TryPop(); ok {
			e.apply(cmd)
			if e.state != Playing {
				return
			}
		}

		pkt, err := sess.reader.NextPacket()
		if err != nil {
			if errors.Is(err, media.ErrEndOfStream) {
				// Expected terminal condition: the media is complete.
				e.finalize(sess)
				e.events.Push(AudioFinished{Gen: e.gen})
			} else {
				e.log.Error("engine: read failed", "err", err)
				e.finalize(sess)
			}
			// State is left as-is; the session is drained until the
			// next command replaces or releases it.
			sess.drained = true
			return
		}

		e.events.Push(CurrentTimestamp{
			Gen:     e.gen,
			Seconds: sess.track.TimeBase.Seconds(pkt.TS),
		})

		// Containers interleave packets of every track; only the
		// selected one is decoded.
		if pkt.TrackID != sess.opts.TrackID {
			continue
		}

		buf, err := sess.decoder.Decode(pkt)
		if err != nil {
			if media.IsDecodeError(err) {
				// A single corrupt packet does not abort playback.
				e.log.Warn("engine: decode error", "err", err)
				continue
			}
			e.log.Error("engine: decoder failed", "err", err)
			e.finalize(sess)
			sess.drained = true
			return
		}

		if sess.sink == nil {
			sink, err := e.openSink(
				output.Spec{SampleRate: buf.SampleRate, Channels: buf.Channels},
				buf.Frames(),
			)
			if err != nil {
				e.log.Error("engine: open output failed", "err", err)
				sess.drained = true
				return
			}
			sink.SetGain(e.volume)
			sink.SetMuted(e.muted)
			sess.sink = sink
		}

		// Soft seek: packets before the resolved seek position are
		// decoded for codec state but their samples are discarded.
		if pkt.TS >= sess.opts.SeekTS {
			if err := sess.sink.Write(buf); err != nil {
				e.log.Error("engine: write failed", "err", err)
				sess.drained = true
				return
			}
		}
	}
}

// finalize retrieves the decoder's integrity verification result, if
// the codec provides one. Verification failure is informational only.
func (e *Engine) finalize(sess *session) {
	if sess.decoder == nil {
		return
	}
	res := sess.decoder.Finalize()
	if res.VerifyOK == nil {
		return
	}
	if *res.VerifyOK {
		e.log.Info("engine: verification passed")
	} else {
		e.log.Warn("engine: verification failed")
	}
}
