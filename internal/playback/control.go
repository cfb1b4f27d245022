package playback

import "time"

// Play resumes a paused session, or starts the current queue track when
// stopped. No-op if the queue is empty.
func (s *Service) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePaused:
		s.eng.Play()
		s.setStateLocked(StatePlaying)
	case StateStopped:
		cur := s.queue.Current()
		if cur == nil {
			cur = s.queue.JumpTo(0)
		}
		if cur != nil {
			s.startTrackLocked(cur)
		}
	case StatePlaying:
	}
}

// Pause suspends playback in place.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		s.eng.Pause()
		s.setStateLocked(StatePaused)
	}
}

// Stop halts playback and releases the audio device. The queue cursor
// is untouched, so Play restarts the same track.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	s.eng.Stop()
	s.position = 0
	s.setStateLocked(StateStopped)
}

// Toggle flips between playing and paused.
func (s *Service) Toggle() {
	s.mu.Lock()
	playing := s.state == StatePlaying
	s.mu.Unlock()

	if playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// Next starts the next queued track, if any.
func (s *Service) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	next := s.queue.Next()
	if next == nil {
		return
	}
	s.startTrackLocked(next)
	s.emitTrackChangeLocked(prev, prevIndex)
}

// Previous restarts the current track when more than a few seconds in,
// otherwise starts the preceding queued track.
func (s *Service) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.position > restartThreshold && s.state.IsActive() {
		s.seekLocked(0)
		return
	}

	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	t := s.queue.Previous()
	if t == nil {
		if cur := s.queue.Current(); cur != nil && s.state.IsActive() {
			s.seekLocked(0)
		}
		return
	}
	s.startTrackLocked(t)
	s.emitTrackChangeLocked(prev, prevIndex)
}

// JumpTo starts playback of the track at the given queue index.
func (s *Service) JumpTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	t := s.queue.JumpTo(index)
	if t == nil {
		return
	}
	s.startTrackLocked(t)
	s.emitTrackChangeLocked(prev, prevIndex)
}

// SeekTo seeks the active track to an absolute position. Seeking
// resumes playback.
func (s *Service) SeekTo(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsActive() {
		return
	}
	s.seekLocked(pos)
}

// Seek seeks relative to the current position.
func (s *Service) Seek(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsActive() {
		return
	}
	s.seekLocked(s.position + delta)
}

func (s *Service) seekLocked(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.position = pos
	s.eng.SeekTo(uint64(pos / time.Second))
	s.setStateLocked(StatePlaying)
	s.emitPositionLocked()
}

// SetVolume sets the playback gain in [0, 1].
func (s *Service) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = level
	s.eng.SetVolume(level)
}

// Volume returns the current gain level.
func (s *Service) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetMuted silences or unsilences the output.
func (s *Service) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	s.eng.SetMuted(muted)
}

// Muted returns whether output is muted.
func (s *Service) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Service) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	s.eng.SetMuted(s.muted)
	return s.muted
}

// State returns the transport state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) IsPlaying() bool { return s.State() == StatePlaying }
func (s *Service) IsPaused() bool  { return s.State() == StatePaused }
func (s *Service) IsStopped() bool { return s.State() == StateStopped }

// Position returns the playback position of the current track.
func (s *Service) Position() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Duration returns the duration of the current track.
func (s *Service) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duration
}

// CurrentTrack returns the queue track under the cursor, or nil.
func (s *Service) CurrentTrack() *Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fromPlaylistTrack(s.queue.Current())
}
