package library

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ScanProgress reports progress during a library refresh.
type ScanProgress struct {
	Phase       string // "scanning", "processing", "cleaning", "done"
	Current     int
	Total       int
	CurrentFile string
	Stats       *ScanStats
}

// ScanStats accumulates per-source counts for a refresh.
type ScanStats struct {
	BySource map[string]*SourceStats
}

type SourceStats struct {
	Added   int
	Removed int
	Updated int
}

func newScanStats(sources []string) *ScanStats {
	stats := &ScanStats{BySource: make(map[string]*SourceStats)}
	for _, source := range sources {
		stats.BySource[source] = &SourceStats{}
	}
	return stats
}

func (s *ScanStats) get(source string) *SourceStats {
	ss, ok := s.BySource[source]
	if !ok {
		ss = &SourceStats{}
		s.BySource[source] = ss
	}
	return ss
}

// Refresh scans the source directories and brings the library cache up
// to date. Unchanged files (same mtime) are skipped, deleted files are
// removed. progressFn may be nil.
func (l *Library) Refresh(ctx context.Context, sources []string, progressFn func(ScanProgress)) (*ScanStats, error) {
	if progressFn == nil {
		progressFn = func(ScanProgress) {}
	}
	return l.refresh(ctx, sources, progressFn)
}

func (l *Library) refresh(ctx context.Context, sources []string, progressFn func(ScanProgress)) (*ScanStats, error) {
	stats := newScanStats(sources)

	progressFn(ScanProgress{Phase: "scanning"})
	files, err := discoverFiles(sources)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	existing, err := l.getExistingTracks()
	if err != nil {
		return nil, fmt.Errorf("loading existing tracks: %w", err)
	}

	// Diff against the cache: only new or modified files need tag reads.
	var toProcess []fileInfo
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f.path] = true
		if mtime, ok := existing[f.path]; !ok || mtime != f.mtime {
			toProcess = append(toProcess, f)
		}
	}

	if err := l.processFiles(ctx, toProcess, existing, stats, progressFn); err != nil {
		return nil, err
	}

	progressFn(ScanProgress{Phase: "cleaning", Stats: stats})
	removed, err := l.removeDeleted(existing, seen, sources, stats)
	if err != nil {
		return nil, fmt.Errorf("removing deleted tracks: %w", err)
	}
	if removed > 0 {
		slog.Info("removed deleted tracks from library", "count", removed)
	}

	progressFn(ScanProgress{Phase: "done", Stats: stats})
	return stats, nil
}

// removeDeleted drops cache entries whose files no longer exist on disk.
func (l *Library) removeDeleted(existing map[string]int64, seen map[string]bool, sources []string, stats *ScanStats) (int, error) {
	removed := 0
	for path := range existing {
		if seen[path] {
			continue
		}
		if err := l.deleteTrackByPath(path); err != nil {
			return removed, err
		}
		stats.get(sourceFor(path, sources)).Removed++
		removed++
	}
	return removed, nil
}

func sourceFor(path string, sources []string) string {
	for _, source := range sources {
		if strings.HasPrefix(path, source+string(filepath.Separator)) {
			return source
		}
	}
	return ""
}

// getExistingTracks returns a path to mtime map of every cached track.
func (l *Library) getExistingTracks() (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT path, mtime FROM library_tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		existing[path] = mtime
	}
	return existing, rows.Err()
}
