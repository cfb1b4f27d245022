package state

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *Manager {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := initSchema(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}

	m := &Manager{db: db}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestGetQueue_Empty(t *testing.T) {
	m := setupTestDB(t)

	state, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if state.CurrentIndex != -1 {
		t.Errorf("CurrentIndex = %d, expected -1 for empty queue", state.CurrentIndex)
	}
	if len(state.Tracks) != 0 {
		t.Errorf("expected empty track list, got %d tracks", len(state.Tracks))
	}
}

func TestSaveQueue_RoundTrip(t *testing.T) {
	m := setupTestDB(t)

	saved := QueueState{
		CurrentIndex: 1,
		Tracks: []QueueTrack{
			{TrackID: 10, Path: "/music/a/01.mp3", Title: "One", Artist: "A", Album: "X", TrackNumber: 1},
			{TrackID: 11, Path: "/music/a/02.mp3", Title: "Two", Artist: "A", Album: "X", TrackNumber: 2},
			{TrackID: 12, Path: "/music/b/01.flac", Title: "Three", Artist: "B", Album: "Y", TrackNumber: 1},
		},
	}
	if err := m.SaveQueue(saved); err != nil {
		t.Fatalf("SaveQueue failed: %v", err)
	}

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if got.CurrentIndex != saved.CurrentIndex {
		t.Errorf("CurrentIndex = %d, expected %d", got.CurrentIndex, saved.CurrentIndex)
	}
	if len(got.Tracks) != len(saved.Tracks) {
		t.Fatalf("got %d tracks, expected %d", len(got.Tracks), len(saved.Tracks))
	}
	for i, track := range got.Tracks {
		if track != saved.Tracks[i] {
			t.Errorf("track[%d] = %+v, expected %+v", i, track, saved.Tracks[i])
		}
	}
}

func TestSaveQueue_ClearsExisting(t *testing.T) {
	m := setupTestDB(t)

	first := QueueState{
		CurrentIndex: 0,
		Tracks: []QueueTrack{
			{TrackID: 1, Path: "/music/old/01.mp3", Title: "Old"},
			{TrackID: 2, Path: "/music/old/02.mp3", Title: "Older"},
		},
	}
	if err := m.SaveQueue(first); err != nil {
		t.Fatalf("SaveQueue failed: %v", err)
	}

	second := QueueState{
		CurrentIndex: 0,
		Tracks: []QueueTrack{
			{TrackID: 3, Path: "/music/new/01.mp3", Title: "New"},
		},
	}
	if err := m.SaveQueue(second); err != nil {
		t.Fatalf("SaveQueue failed: %v", err)
	}

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if len(got.Tracks) != 1 {
		t.Fatalf("got %d tracks, expected 1 after replace", len(got.Tracks))
	}
	if got.Tracks[0].Title != "New" {
		t.Errorf("Title = %s, expected New", got.Tracks[0].Title)
	}
}

func TestSaveQueue_PreservesOrder(t *testing.T) {
	m := setupTestDB(t)

	var tracks []QueueTrack
	titles := []string{"Zebra", "Apple", "Mango", "Banana", "Cherry"}
	for i, title := range titles {
		tracks = append(tracks, QueueTrack{
			TrackID: int64(i + 1),
			Path:    "/music/" + title + ".mp3",
			Title:   title,
		})
	}
	if err := m.SaveQueue(QueueState{CurrentIndex: 2, Tracks: tracks}); err != nil {
		t.Fatalf("SaveQueue failed: %v", err)
	}

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	for i, track := range got.Tracks {
		if track.Title != titles[i] {
			t.Errorf("track[%d].Title = %s, expected %s", i, track.Title, titles[i])
		}
	}
}

func TestSaveQueue_NullableTrackID(t *testing.T) {
	m := setupTestDB(t)

	// Tracks outside the library cache have no ID.
	saved := QueueState{
		CurrentIndex: 0,
		Tracks: []QueueTrack{
			{TrackID: 0, Path: "/downloads/loose.mp3", Title: "Loose"},
		},
	}
	if err := m.SaveQueue(saved); err != nil {
		t.Fatalf("SaveQueue failed: %v", err)
	}

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if len(got.Tracks) != 1 {
		t.Fatalf("got %d tracks, expected 1", len(got.Tracks))
	}
	if got.Tracks[0].TrackID != 0 {
		t.Errorf("TrackID = %d, expected 0 for null", got.Tracks[0].TrackID)
	}
}

func TestGetVolume_FirstRun(t *testing.T) {
	m := setupTestDB(t)

	v, err := m.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v != nil {
		t.Errorf("volume = %+v, expected nil before first save", v)
	}
}

func TestSaveVolume_RoundTrip(t *testing.T) {
	m := setupTestDB(t)

	if err := m.SaveVolume(0.45, true); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}

	v, err := m.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v.Volume != 0.45 || !v.Muted {
		t.Errorf("volume = %+v, expected {0.45 true}", v)
	}

	// Overwrites on repeat saves
	if err := m.SaveVolume(0.8, false); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	v, err = m.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v.Volume != 0.8 || v.Muted {
		t.Errorf("volume = %+v, expected {0.8 false}", v)
	}
}
