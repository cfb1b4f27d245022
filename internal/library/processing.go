package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jvautrin/fermata/internal/tags"
)

const numWorkers = 8

type trackResult struct {
	path   string
	mtime  int64
	info   *tags.Tag
	source string
	isNew  bool
	err    error
}

// processFiles reads tags for new or modified files using a worker pool
// and writes the results sequentially into the cache.
func (l *Library) processFiles(ctx context.Context, files []fileInfo, existing map[string]int64, stats *ScanStats, progressFn func(ScanProgress)) error {
	if len(files) == 0 {
		return nil
	}

	workCh := make(chan fileInfo)
	resultCh := make(chan trackResult)

	var processed atomic.Int64
	var currentFile atomic.Value
	currentFile.Store("")

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range workCh {
				currentFile.Store(relativePath(f.path, f.source))
				info, err := tags.Read(f.path)
				_, isNew := existing[f.path]
				resultCh <- trackResult{
					path:   f.path,
					mtime:  f.mtime,
					info:   info,
					source: f.source,
					isNew:  !isNew,
					err:    err,
				}
				processed.Add(1)
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, f := range files {
			select {
			case workCh <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Progress updates come from a ticker so the DB loop stays tight.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				progressFn(ScanProgress{
					Phase:       "processing",
					Current:     int(processed.Load()),
					Total:       len(files),
					CurrentFile: currentFile.Load().(string),
					Stats:       stats,
				})
			case <-done:
				return
			}
		}
	}()

	// DB writes are sequential; SQLite serializes them anyway.
	for res := range resultCh {
		if err := ctx.Err(); err != nil {
			return err
		}
		if res.err != nil {
			slog.Warn("skipping unreadable file", "path", res.path, "err", res.err)
			continue
		}
		if res.info.Artist == "" || res.info.Album == "" {
			slog.Warn("skipping file without artist/album tags", "path", res.path)
			continue
		}
		if err := l.upsertTrack(res.path, res.mtime, res.info); err != nil {
			return fmt.Errorf("upserting track %s: %w", res.path, err)
		}
		if res.isNew {
			stats.get(res.source).Added++
		} else {
			stats.get(res.source).Updated++
		}
	}

	progressFn(ScanProgress{
		Phase:   "processing",
		Current: len(files),
		Total:   len(files),
		Stats:   stats,
	})
	return ctx.Err()
}
