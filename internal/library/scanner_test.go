package library

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()

	mustWrite := func(rel string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("artist/album/01.mp3")
	mustWrite("artist/album/02.flac")
	mustWrite("artist/album/cover.jpg")
	mustWrite("artist/album/notes.txt")
	mustWrite("other/song.opus")

	files, err := discoverFiles([]string{dir})
	if err != nil {
		t.Fatalf("discoverFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 music files, got %d", len(files))
	}
	for _, f := range files {
		if f.source != dir {
			t.Errorf("file %s has source %s, expected %s", f.path, f.source, dir)
		}
		if f.mtime == 0 {
			t.Errorf("file %s has zero mtime", f.path)
		}
	}
}

func TestDiscoverFilesMissingSource(t *testing.T) {
	_, err := discoverFiles([]string{"/nonexistent/source/dir"})
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestRefreshRemovesDeletedTracks(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	source := t.TempDir()

	// Cache entries whose files no longer exist on disk.
	stale := filepath.Join(source, "gone", "01.mp3")
	if err := lib.upsertTrack(stale, 1000, testTag("A", "B", "Gone", 1)); err != nil {
		t.Fatalf("upsertTrack failed: %v", err)
	}

	stats, err := lib.Refresh(context.Background(), []string{source}, nil)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if stats.BySource[source].Removed != 1 {
		t.Errorf("Removed = %d, expected 1", stats.BySource[source].Removed)
	}

	count, err := lib.TrackCount()
	if err != nil {
		t.Fatalf("TrackCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("TrackCount = %d, expected 0 after cleanup", count)
	}
}

func TestRefreshReportsPhases(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	source := t.TempDir()

	var phases []string
	_, err := lib.Refresh(context.Background(), []string{source}, func(p ScanProgress) {
		phases = append(phases, p.Phase)
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	want := []string{"scanning", "cleaning", "done"}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, expected %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phases[%d] = %s, expected %s", i, phases[i], want[i])
		}
	}
}

func TestProcessFilesStopsProgressGoroutine(t *testing.T) {
	db := setupTestDB(t)
	lib := New(db)
	source := t.TempDir()

	// Unreadable as audio, but enough to drive the worker pool.
	path := filepath.Join(source, "noise.mp3")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := runtime.NumGoroutine()
	for range 10 {
		files := []fileInfo{{path: path, mtime: 1000, source: source}}
		if err := lib.processFiles(context.Background(), files, nil, newScanStats([]string{source}), func(ScanProgress) {}); err != nil {
			t.Fatalf("processFiles failed: %v", err)
		}
	}

	// The ticker goroutine exits asynchronously after each run.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("goroutines before = %d, after = %d, progress reporter leaked", before, runtime.NumGoroutine())
}

func TestRelativePath(t *testing.T) {
	got := relativePath("/music/artist/album/01.mp3", "/music")
	if got != "artist/album/01.mp3" {
		t.Errorf("relativePath = %s", got)
	}
}
