// Package library maintains the music library: scanning source
// directories for tagged audio files and answering artist/album/track
// queries against the SQLite cache.
package library

import (
	"database/sql"
)

type Track struct {
	ID          int64
	Path        string
	Mtime       int64
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	DiscNumber  int
	TrackNumber int
	Year        int
	Genre       string
}

type Album struct {
	Name string
	Year int
}

type Library struct {
	db *sql.DB
}

func New(db *sql.DB) *Library {
	return &Library{db: db}
}
