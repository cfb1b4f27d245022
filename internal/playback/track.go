package playback

import (
	"time"

	"github.com/jvautrin/fermata/internal/playlist"
)

// Track is a snapshot of a queue entry handed to subscribers and the
// UI. It is a copy, not a reference into the queue.
type Track struct {
	ID          int64
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

func fromPlaylistTrack(t *playlist.Track) *Track {
	if t == nil {
		return nil
	}
	return &Track{
		ID:          t.ID,
		Path:        t.Path,
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
		Duration:    t.Duration,
	}
}

func fromPlaylistTracks(tracks []playlist.Track) []Track {
	out := make([]Track, len(tracks))
	for i := range tracks {
		out[i] = *fromPlaylistTrack(&tracks[i])
	}
	return out
}

func toPlaylistTracks(tracks []Track) []playlist.Track {
	out := make([]playlist.Track, len(tracks))
	for i, t := range tracks {
		out[i] = playlist.Track{
			ID:          t.ID,
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
			Duration:    t.Duration,
		}
	}
	return out
}
