package playlist

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/jvautrin/fermata/internal/library"
	"github.com/jvautrin/fermata/internal/tags"
)

// FromLibraryTrack converts a library track to a queue track.
func FromLibraryTrack(t library.Track) Track {
	return Track{
		ID:          t.ID,
		Path:        t.Path,
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
	}
}

// FromLibraryTracks converts a slice of library tracks to queue tracks.
func FromLibraryTracks(tracks []library.Track) []Track {
	result := make([]Track, len(tracks))
	for i := range tracks {
		result[i] = FromLibraryTrack(tracks[i])
	}
	return result
}

// CollectAlbum returns all tracks of an album in play order.
func CollectAlbum(lib *library.Library, albumArtist, album string) ([]Track, error) {
	tracks, err := lib.Tracks(albumArtist, album)
	if err != nil {
		return nil, err
	}
	return FromLibraryTracks(tracks), nil
}

// CollectArtist returns all tracks of an artist, album by album in
// release order.
func CollectArtist(lib *library.Library, albumArtist string) ([]Track, error) {
	tracks, err := lib.ArtistTracks(albumArtist)
	if err != nil {
		return nil, err
	}
	return FromLibraryTracks(tracks), nil
}

// FromPath builds a queue track from a file path by reading its tags.
// Falls back to the bare filename when the tags cannot be read.
func FromPath(path string) Track {
	info, err := tags.Read(path)
	if err != nil {
		return Track{
			Path:  path,
			Title: filepath.Base(path),
		}
	}
	return Track{
		Path:        path,
		Title:       info.Title,
		Artist:      info.Artist,
		Album:       info.Album,
		TrackNumber: info.TrackNumber,
	}
}

// CollectDir recursively collects every music file under dir, sorted by
// path. Unreadable entries are skipped.
func CollectDir(dir string) ([]Track, error) {
	var collected []Track
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		if d.IsDir() || !tags.IsMusicFile(path) {
			return nil
		}
		collected = append(collected, FromPath(path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Path < collected[j].Path
	})
	return collected, nil
}

// FormatDuration formats a duration as M:SS, or H:MM:SS past an hour.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
