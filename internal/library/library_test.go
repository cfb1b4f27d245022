package library

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/jvautrin/fermata/internal/tags"
)

func testTag(artist, album, title string, num int) *tags.Tag {
	return &tags.Tag{
		Title:       title,
		Artist:      artist,
		AlbumArtist: artist,
		Album:       album,
		TrackNumber: num,
		DiscNumber:  1,
		Date:        "1999",
	}
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE library_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			mtime INTEGER NOT NULL,
			artist TEXT NOT NULL,
			album_artist TEXT NOT NULL,
			album TEXT NOT NULL,
			title TEXT NOT NULL,
			disc_number INTEGER,
			track_number INTEGER,
			year INTEGER,
			genre TEXT,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestTracks(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO library_tracks (path, mtime, artist, album_artist, album, title, track_number, disc_number, year, added_at, updated_at)
		VALUES
			('/music/beatles/abbey/01.mp3', 1000, 'The Beatles', 'The Beatles', 'Abbey Road', 'Come Together', 1, 1, 1969, 1000, 1000),
			('/music/beatles/abbey/02.mp3', 1000, 'The Beatles', 'The Beatles', 'Abbey Road', 'Something', 2, 1, 1969, 1000, 1000),
			('/music/beatles/revolver/01.mp3', 1000, 'The Beatles', 'The Beatles', 'Revolver', 'Taxman', 1, 1, 1966, 1000, 1000),
			('/music/pink/wall/01.mp3', 1000, 'Pink Floyd', 'Pink Floyd', 'The Wall', 'Another Brick', 1, 1, 1979, 1000, 1000),
			('/music/zeppelin/iv/01.mp3', 1000, 'Led Zeppelin', 'Led Zeppelin', 'IV', 'Stairway', 1, 1, 1971, 1000, 1000)
	`)
	if err != nil {
		t.Fatalf("failed to insert tracks: %v", err)
	}
}

func TestArtists(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)

	artists, err := lib.Artists()
	if err != nil {
		t.Fatalf("Artists failed: %v", err)
	}
	if len(artists) != 0 {
		t.Errorf("expected 0 artists, got %d", len(artists))
	}

	insertTestTracks(t, db)

	artists, err = lib.Artists()
	if err != nil {
		t.Fatalf("Artists failed: %v", err)
	}
	expected := []string{"Led Zeppelin", "Pink Floyd", "The Beatles"}
	if len(artists) != len(expected) {
		t.Fatalf("expected %d artists, got %d", len(expected), len(artists))
	}
	for i, artist := range artists {
		if artist != expected[i] {
			t.Errorf("artist[%d] = %s, expected %s", i, artist, expected[i])
		}
	}
}

func TestAlbums(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	albums, err := lib.Albums("The Beatles")
	if err != nil {
		t.Fatalf("Albums failed: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}

	// Ordered by year ascending
	if albums[0].Name != "Revolver" || albums[0].Year != 1966 {
		t.Errorf("albums[0] = %+v, expected Revolver (1966)", albums[0])
	}
	if albums[1].Name != "Abbey Road" || albums[1].Year != 1969 {
		t.Errorf("albums[1] = %+v, expected Abbey Road (1969)", albums[1])
	}
}

func TestTracks(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	tracks, err := lib.Tracks("The Beatles", "Abbey Road")
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "Come Together" || tracks[0].TrackNumber != 1 {
		t.Errorf("tracks[0] = %+v, expected Come Together #1", tracks[0])
	}
	if tracks[1].Title != "Something" || tracks[1].TrackNumber != 2 {
		t.Errorf("tracks[1] = %+v, expected Something #2", tracks[1])
	}
}

func TestTrackByID(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	tracks, err := lib.Tracks("Pink Floyd", "The Wall")
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}

	track, err := lib.TrackByID(tracks[0].ID)
	if err != nil {
		t.Fatalf("TrackByID failed: %v", err)
	}
	if track.Title != "Another Brick" {
		t.Errorf("track.Title = %s, expected Another Brick", track.Title)
	}

	_, err = lib.TrackByID(99999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for missing ID, got %v", err)
	}
}

func TestTrackByPath(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	track, err := lib.TrackByPath("/music/zeppelin/iv/01.mp3")
	if err != nil {
		t.Fatalf("TrackByPath failed: %v", err)
	}
	if track.Title != "Stairway" {
		t.Errorf("track.Title = %s, expected Stairway", track.Title)
	}
}

func TestCounts(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	trackCount, err := lib.TrackCount()
	if err != nil {
		t.Fatalf("TrackCount failed: %v", err)
	}
	if trackCount != 5 {
		t.Errorf("TrackCount = %d, expected 5", trackCount)
	}

	artistCount, err := lib.ArtistCount()
	if err != nil {
		t.Fatalf("ArtistCount failed: %v", err)
	}
	if artistCount != 3 {
		t.Errorf("ArtistCount = %d, expected 3", artistCount)
	}

	albumCount, err := lib.AlbumCount()
	if err != nil {
		t.Fatalf("AlbumCount failed: %v", err)
	}
	if albumCount != 4 {
		t.Errorf("AlbumCount = %d, expected 4", albumCount)
	}
}

func TestUpsertTrack(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)

	info := testTag("Artist", "Album", "Title", 3)
	if err := lib.upsertTrack("/music/a/b/03.flac", 1000, info); err != nil {
		t.Fatalf("upsertTrack failed: %v", err)
	}

	track, err := lib.TrackByPath("/music/a/b/03.flac")
	if err != nil {
		t.Fatalf("TrackByPath failed: %v", err)
	}
	if track.Title != "Title" || track.TrackNumber != 3 || track.Mtime != 1000 {
		t.Errorf("unexpected track after insert: %+v", track)
	}

	// Update with new mtime and title, path stays unique
	info.Title = "New Title"
	if err := lib.upsertTrack("/music/a/b/03.flac", 2000, info); err != nil {
		t.Fatalf("upsertTrack update failed: %v", err)
	}

	track, err = lib.TrackByPath("/music/a/b/03.flac")
	if err != nil {
		t.Fatalf("TrackByPath failed: %v", err)
	}
	if track.Title != "New Title" || track.Mtime != 2000 {
		t.Errorf("unexpected track after update: %+v", track)
	}

	count, err := lib.TrackCount()
	if err != nil {
		t.Fatalf("TrackCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("TrackCount = %d, expected 1 after upsert", count)
	}
}

func TestDeleteTrackByPath(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	if err := lib.deleteTrackByPath("/music/pink/wall/01.mp3"); err != nil {
		t.Fatalf("deleteTrackByPath failed: %v", err)
	}

	count, err := lib.TrackCount()
	if err != nil {
		t.Fatalf("TrackCount failed: %v", err)
	}
	if count != 4 {
		t.Errorf("TrackCount = %d, expected 4 after delete", count)
	}
}

func TestGetExistingTracks(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	insertTestTracks(t, db)

	existing, err := lib.getExistingTracks()
	if err != nil {
		t.Fatalf("getExistingTracks failed: %v", err)
	}
	if len(existing) != 5 {
		t.Fatalf("expected 5 existing tracks, got %d", len(existing))
	}
	if mtime, ok := existing["/music/beatles/abbey/01.mp3"]; !ok || mtime != 1000 {
		t.Errorf("unexpected mtime for known path: %d (found=%v)", mtime, ok)
	}
}
