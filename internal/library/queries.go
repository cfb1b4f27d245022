package library

import (
	"database/sql"
	"time"

	dbutil "github.com/jvautrin/fermata/internal/db"
	"github.com/jvautrin/fermata/internal/tags"
)

// Artists returns all unique album artists in the library.
func (l *Library) Artists() ([]string, error) {
	rows, err := l.db.Query(`
		SELECT DISTINCT album_artist FROM library_tracks ORDER BY album_artist COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var artist string
		if err := rows.Scan(&artist); err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// Albums returns all albums for a given album artist.
func (l *Library) Albums(albumArtist string) ([]Album, error) {
	rows, err := l.db.Query(`
		SELECT album, MAX(year) as year
		FROM library_tracks
		WHERE album_artist = ?
		GROUP BY album
		ORDER BY (year IS NULL OR year = 0), year, album COLLATE NOCASE
	`, albumArtist)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var a Album
		var year sql.NullInt64
		if err := rows.Scan(&a.Name, &year); err != nil {
			return nil, err
		}
		a.Year = int(dbutil.NullInt64Value(year))
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// Tracks returns all tracks for a given album artist and album.
func (l *Library) Tracks(albumArtist, album string) ([]Track, error) {
	return l.queryTracks(`
		SELECT id, path, mtime, artist, album_artist, album, title, disc_number, track_number, year, genre
		FROM library_tracks
		WHERE album_artist = ? AND album = ?
		ORDER BY disc_number, track_number, title COLLATE NOCASE
	`, albumArtist, album)
}

// ArtistTracks returns all tracks for an artist, ordered by album year
// then disc/track number.
func (l *Library) ArtistTracks(albumArtist string) ([]Track, error) {
	return l.queryTracks(`
		SELECT id, path, mtime, artist, album_artist, album, title, disc_number, track_number, year, genre
		FROM library_tracks
		WHERE album_artist = ?
		ORDER BY (year IS NULL OR year = 0), year, album COLLATE NOCASE, disc_number, track_number, title COLLATE NOCASE
	`, albumArtist)
}

func (l *Library) queryTracks(query string, args ...any) ([]Track, error) {
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *t)
	}
	return tracks, rows.Err()
}

func scanTrack(row interface{ Scan(...any) error }) (*Track, error) {
	var t Track
	var discNum, trackNum, year sql.NullInt64
	var genre sql.NullString

	err := row.Scan(&t.ID, &t.Path, &t.Mtime, &t.Artist, &t.AlbumArtist, &t.Album, &t.Title,
		&discNum, &trackNum, &year, &genre)
	if err != nil {
		return nil, err
	}
	t.DiscNumber = int(dbutil.NullInt64Value(discNum))
	t.TrackNumber = int(dbutil.NullInt64Value(trackNum))
	t.Year = int(dbutil.NullInt64Value(year))
	t.Genre = dbutil.NullStringValue(genre)
	return &t, nil
}

// TrackByID returns a track by its ID.
func (l *Library) TrackByID(id int64) (*Track, error) {
	return scanTrack(l.db.QueryRow(`
		SELECT id, path, mtime, artist, album_artist, album, title, disc_number, track_number, year, genre
		FROM library_tracks
		WHERE id = ?
	`, id))
}

// TrackByPath returns a track by its file path.
func (l *Library) TrackByPath(path string) (*Track, error) {
	return scanTrack(l.db.QueryRow(`
		SELECT id, path, mtime, artist, album_artist, album, title, disc_number, track_number, year, genre
		FROM library_tracks
		WHERE path = ?
	`, path))
}

// TrackCount returns the total number of tracks in the library.
func (l *Library) TrackCount() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM library_tracks`).Scan(&count)
	return count, err
}

// ArtistCount returns the number of unique album artists.
func (l *Library) ArtistCount() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(DISTINCT album_artist) FROM library_tracks`).Scan(&count)
	return count, err
}

// AlbumCount returns the number of unique albums.
func (l *Library) AlbumCount() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(DISTINCT album_artist || album) FROM library_tracks`).Scan(&count)
	return count, err
}

// upsertTrack inserts or updates a track. Uses file mtime for added_at
// on new tracks (preserved across copies).
func (l *Library) upsertTrack(path string, mtime int64, info *tags.Tag) error {
	now := time.Now().Unix()
	_, err := l.db.Exec(`
		INSERT INTO library_tracks (path, mtime, artist, album_artist, album, title, disc_number, track_number, year, genre, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime = excluded.mtime,
			artist = excluded.artist,
			album_artist = excluded.album_artist,
			album = excluded.album,
			title = excluded.title,
			disc_number = excluded.disc_number,
			track_number = excluded.track_number,
			year = excluded.year,
			genre = excluded.genre,
			updated_at = excluded.updated_at
	`, path, mtime, info.Artist, info.AlbumArtist, info.Album, info.Title,
		info.DiscNumber, info.TrackNumber, info.Year(), info.Genre, mtime, now)
	return err
}

// deleteTrackByPath removes a track from the library by its path.
func (l *Library) deleteTrackByPath(path string) error {
	_, err := l.db.Exec(`DELETE FROM library_tracks WHERE path = ?`, path)
	return err
}
