package engine

import (
	"errors"
	"fmt"

	"github.com/jvautrin/fermata/internal/media"
)

// handleLoad resolves a LoadFile transition: the prior session is
// destroyed, the new source is probed and on success the engine starts
// playing from the beginning. Failure is reported, never fatal: the
// engine stays idle with no session.
func (e *Engine) handleLoad(path string) {
	e.sess.close()
	e.sess = nil
	e.activePath = path
	e.gen++

	sess, err := e.buildSession(path, 0)
	if err != nil {
		e.reportLoadFailure(path, err)
		return
	}

	e.sess = sess
	e.events.Push(TotalTrackDuration{Gen: e.gen, Seconds: sess.track.DurationSeconds()})
	e.state = Playing
}

// handleSeek resolves a SeekTo transition by re-running the load
// procedure against the active source at the requested offset.
func (e *Engine) handleSeek(seconds uint64) {
	path := e.activePath
	if path == "" {
		e.state = Stopped
		return
	}

	e.sess.close()
	e.sess = nil
	e.gen++

	sess, err := e.buildSession(path, seconds)
	if err != nil {
		e.reportLoadFailure(path, err)
		return
	}

	e.sess = sess
	e.state = Playing
}

func (e *Engine) reportLoadFailure(path string, err error) {
	e.log.Warn("engine: load failed", "path", path, "err", err)
	e.events.Push(LoadFailed{Gen: e.gen, Path: path, Err: err})
	e.state = Stopped
}

// buildSession performs the load procedure: probe the container, select
// a track, resolve the seek target and construct a decoder.
//
// Seek failures are never fatal: a reader demanding reconstruction
// falls back to a fresh track selection with no trim, and any other
// seek error plays from the start. Decoder construction failure is
// fatal to the load attempt, since decoding cannot proceed without it.
func (e *Engine) buildSession(path string, seekSeconds uint64) (*session, error) {
	reader, err := e.probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	track, ok := media.SelectTrack(reader.Tracks(), e.trackIndex)
	if !ok {
		reader.Close()
		return nil, media.ErrNoDecodableTrack
	}

	var seekTS uint64
	if seekSeconds > 0 {
		ts, err := reader.Seek(seekSeconds, track.ID)
		switch {
		case err == nil:
			seekTS = ts
		case errors.Is(err, media.ErrResetRequired):
			e.log.Warn("engine: seek requires reader reset", "path", path)
			if track, ok = media.FirstDecodableTrack(reader.Tracks()); !ok {
				reader.Close()
				return nil, media.ErrNoDecodableTrack
			}
			seekTS = 0
		default:
			e.log.Warn("engine: seek failed, playing from start", "path", path, "err", err)
			seekTS = 0
		}
	}

	decoder, err := e.newDecoder(track)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("decoder: %w", err)
	}

	e.log.Info("engine: loaded",
		"path", path,
		"codec", track.Codec.String(),
		"track", track.ID,
		"seek_ts", seekTS,
	)

	return &session{
		reader:  reader,
		decoder: decoder,
		track:   track,
		opts:    PlayTrackOptions{TrackID: track.ID, SeekTS: seekTS},
	}, nil
}
