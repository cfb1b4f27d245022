package library

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jvautrin/fermata/internal/tags"
)

type fileInfo struct {
	path   string
	mtime  int64
	source string
}

// discoverFiles walks the source directories and collects every music
// file with its modification time.
func discoverFiles(sources []string) ([]fileInfo, error) {
	var files []fileInfo
	for _, source := range sources {
		err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !tags.IsMusicFile(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			files = append(files, fileInfo{
				path:   path,
				mtime:  info.ModTime().Unix(),
				source: source,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// relativePath returns the path relative to its source directory, for
// progress display.
func relativePath(path, source string) string {
	rel, err := filepath.Rel(source, path)
	if err != nil {
		return path
	}
	return strings.TrimPrefix(rel, string(filepath.Separator))
}
