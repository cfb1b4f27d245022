package playback

// Queue operations. Every edit pushes a history snapshot so destructive
// changes can be undone.

// AddTracks appends tracks without changing playback.
func (s *Service) AddTracks(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Add(toPlaylistTracks(tracks)...)
	s.snapshotLocked()
	s.emitQueueChangeLocked()
}

// AddAndPlay appends tracks and starts playback at the first added one.
func (s *Service) AddAndPlay(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	t := s.queue.AddAndPlay(toPlaylistTracks(tracks)...)
	s.snapshotLocked()
	s.emitQueueChangeLocked()
	if t != nil {
		s.startTrackLocked(t)
		s.emitTrackChangeLocked(prev, prevIndex)
	}
}

// ReplaceTracks swaps the whole queue and starts playback at the first
// track. An empty replacement stops playback.
func (s *Service) ReplaceTracks(tracks ...Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	t := s.queue.Replace(toPlaylistTracks(tracks)...)
	s.snapshotLocked()
	s.emitQueueChangeLocked()
	if t == nil {
		s.stopLocked()
		return
	}
	s.startTrackLocked(t)
	s.emitTrackChangeLocked(prev, prevIndex)
}

// RemoveTrack removes the track at the given index. Removing the track
// being played starts the one that slides into its place, or stops at
// the end of the queue.
func (s *Service) RemoveTrack(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasCurrent := index == s.queue.CurrentIndex()
	if !s.queue.RemoveAt(index) {
		return false
	}
	s.snapshotLocked()
	s.emitQueueChangeLocked()

	if wasCurrent && s.state.IsActive() {
		if cur := s.queue.Current(); cur != nil {
			s.startTrackLocked(cur)
		} else {
			s.stopLocked()
		}
	}
	return true
}

// MoveTrack moves a track between queue positions.
func (s *Service) MoveTrack(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queue.Move(from, to) {
		return false
	}
	s.snapshotLocked()
	s.emitQueueChangeLocked()
	return true
}

// ClearQueue stops playback and empties the queue.
func (s *Service) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.queue.Clear()
	s.snapshotLocked()
	s.emitQueueChangeLocked()
}

// Undo restores the previous queue contents. Playback is not touched;
// the cursor is clamped into the restored list.
func (s *Service) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.queue.Restore(tracks, s.queue.CurrentIndex())
	s.emitQueueChangeLocked()
	return true
}

// Redo re-applies an undone queue change.
func (s *Service) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.queue.Restore(tracks, s.queue.CurrentIndex())
	s.emitQueueChangeLocked()
	return true
}

func (s *Service) snapshotLocked() {
	s.history.Push(s.queue.Tracks())
}

// QueueTracks returns a copy of the queue contents.
func (s *Service) QueueTracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fromPlaylistTracks(s.queue.Tracks())
}

// QueueCurrentIndex returns the cursor position (-1 if none).
func (s *Service) QueueCurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.CurrentIndex()
}

func (s *Service) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

func (s *Service) QueueIsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.IsEmpty()
}

func (s *Service) QueueHasNext() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.HasNext()
}

// RestoreQueue loads persisted queue contents without starting
// playback, used on startup.
func (s *Service) RestoreQueue(tracks []Track, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Restore(toPlaylistTracks(tracks), index)
	s.history.Push(s.queue.Tracks())
	s.emitQueueChangeLocked()
}

// QueueSnapshot returns the queue contents and cursor for persistence.
func (s *Service) QueueSnapshot() ([]Track, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fromPlaylistTracks(s.queue.Tracks()), s.queue.CurrentIndex()
}
