package app

import (
	"log/slog"

	"github.com/jvautrin/fermata/internal/playback"
	"github.com/jvautrin/fermata/internal/state"
)

// restoreState loads the persisted queue and volume into the playback
// service. Missing state is not an error; the player starts fresh.
func (m *Model) restoreState() error {
	vol, err := m.stateMgr.GetVolume()
	if err != nil {
		return err
	}
	if vol == nil {
		// First run: the config supplies the startup level.
		vol = &state.VolumeState{Volume: m.cfg.Volume}
	}
	m.svc.SetVolume(vol.Volume)
	m.svc.SetMuted(vol.Muted)

	saved, err := m.stateMgr.GetQueue()
	if err != nil {
		return err
	}
	if len(saved.Tracks) == 0 {
		return nil
	}

	tracks := make([]playback.Track, len(saved.Tracks))
	for i, t := range saved.Tracks {
		tracks[i] = playback.Track{
			ID:          t.TrackID,
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
		}
	}
	m.svc.RestoreQueue(tracks, saved.CurrentIndex)
	m.queueCursor = saved.CurrentIndex
	if m.queueCursor < 0 {
		m.queueCursor = 0
	}
	return nil
}

// saveState persists the queue and volume. Failures are logged, not
// surfaced; the app is quitting anyway.
func (m *Model) saveState() {
	tracks, index := m.svc.QueueSnapshot()
	saved := state.QueueState{CurrentIndex: index}
	saved.Tracks = make([]state.QueueTrack, len(tracks))
	for i, t := range tracks {
		saved.Tracks[i] = state.QueueTrack{
			TrackID:     t.ID,
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
		}
	}
	if err := m.stateMgr.SaveQueue(saved); err != nil {
		slog.Error("app: save queue failed", "err", err)
	}
	if err := m.stateMgr.SaveVolume(m.svc.Volume(), m.svc.Muted()); err != nil {
		slog.Error("app: save volume failed", "err", err)
	}
}
