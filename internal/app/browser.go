package app

import (
	"fmt"

	"github.com/jvautrin/fermata/internal/library"
	"github.com/jvautrin/fermata/internal/playlist"
)

type browseLevel int

const (
	levelArtists browseLevel = iota
	levelAlbums
	levelTracks
)

// browser is the artist > album > track drill-down over the library
// cache. Each level keeps its own cursor so going back restores the
// previous selection.
type browser struct {
	lib *library.Library

	level   browseLevel
	artists []string
	albums  []library.Album
	tracks  []library.Track

	artist string
	album  string

	cursor [3]int
}

func newBrowser(lib *library.Library) *browser {
	return &browser{lib: lib}
}

// reload refreshes the artist list, used at startup and after a scan.
func (b *browser) reload() error {
	artists, err := b.lib.Artists()
	if err != nil {
		return err
	}
	b.artists = artists
	b.level = levelArtists
	b.clampCursor()
	return nil
}

func (b *browser) len() int {
	switch b.level {
	case levelArtists:
		return len(b.artists)
	case levelAlbums:
		return len(b.albums)
	default:
		return len(b.tracks)
	}
}

func (b *browser) pos() int {
	return b.cursor[b.level]
}

func (b *browser) moveUp() {
	if b.cursor[b.level] > 0 {
		b.cursor[b.level]--
	}
}

func (b *browser) moveDown() {
	if b.cursor[b.level] < b.len()-1 {
		b.cursor[b.level]++
	}
}

func (b *browser) clampCursor() {
	if b.cursor[b.level] >= b.len() {
		b.cursor[b.level] = b.len() - 1
	}
	if b.cursor[b.level] < 0 {
		b.cursor[b.level] = 0
	}
}

// enter drills into the selection. At the track level it is a no-op;
// the caller plays the selection instead.
func (b *browser) enter() error {
	switch b.level {
	case levelArtists:
		if len(b.artists) == 0 {
			return nil
		}
		b.artist = b.artists[b.pos()]
		albums, err := b.lib.Albums(b.artist)
		if err != nil {
			return err
		}
		b.albums = albums
		b.level = levelAlbums
		b.cursor[levelAlbums] = 0

	case levelAlbums:
		if len(b.albums) == 0 {
			return nil
		}
		b.album = b.albums[b.pos()].Name
		tracks, err := b.lib.Tracks(b.artist, b.album)
		if err != nil {
			return err
		}
		b.tracks = tracks
		b.level = levelTracks
		b.cursor[levelTracks] = 0

	case levelTracks:
	}
	return nil
}

// back climbs one level up. Returns false at the root.
func (b *browser) back() bool {
	switch b.level {
	case levelArtists:
		return false
	case levelAlbums:
		b.level = levelArtists
	case levelTracks:
		b.level = levelAlbums
	}
	return true
}

// rows renders the current level as display strings.
func (b *browser) rows() []string {
	switch b.level {
	case levelArtists:
		return b.artists
	case levelAlbums:
		rows := make([]string, len(b.albums))
		for i, a := range b.albums {
			if a.Year > 0 {
				rows[i] = fmt.Sprintf("%s (%d)", a.Name, a.Year)
			} else {
				rows[i] = a.Name
			}
		}
		return rows
	default:
		rows := make([]string, len(b.tracks))
		for i, t := range b.tracks {
			rows[i] = fmt.Sprintf("%02d  %s", t.TrackNumber, t.Title)
		}
		return rows
	}
}

// title names the current level for the pane header.
func (b *browser) title() string {
	switch b.level {
	case levelArtists:
		return "Artists"
	case levelAlbums:
		return b.artist
	default:
		return fmt.Sprintf("%s / %s", b.artist, b.album)
	}
}

// selection collects the tracks the cursor stands for: a whole artist,
// a whole album, or a single track.
func (b *browser) selection() ([]playlist.Track, error) {
	switch b.level {
	case levelArtists:
		if len(b.artists) == 0 {
			return nil, nil
		}
		return playlist.CollectArtist(b.lib, b.artists[b.pos()])
	case levelAlbums:
		if len(b.albums) == 0 {
			return nil, nil
		}
		return playlist.CollectAlbum(b.lib, b.artist, b.albums[b.pos()].Name)
	default:
		if len(b.tracks) == 0 {
			return nil, nil
		}
		t := b.tracks[b.pos()]
		return []playlist.Track{playlist.FromLibraryTrack(t)}, nil
	}
}
