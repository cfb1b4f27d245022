package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Supported file extensions.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtOPUS = ".opus"
)

// Probe opens the file and selects a FormatReader using content magic
// first and the extension as a fallback hint. The caller owns the
// returned reader; the file is closed on any probe failure.
func Probe(path string) (FormatReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := probeFile(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		f.Close()
		return nil, err
	}
	return reader, nil
}

func probeFile(f *os.File, ext string) (FormatReader, error) {
	var magic [4]byte
	n, err := f.Read(magic[:])
	if err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch {
	case n >= 4 && string(magic[:4]) == "OggS":
		return newOggReader(f)
	case n >= 4 && string(magic[:4]) == "fLaC":
		return newFLACReader(f)
	case n >= 3 && string(magic[:3]) == "ID3":
		// An ID3v2 tag can front either an MP3 or a FLAC stream; some
		// taggers prepend one to FLAC files.
		if ext == ExtFLAC {
			if err := skipID3v2(f); err != nil {
				return nil, err
			}
			return newFLACReader(f)
		}
		return newMP3Reader(f)
	}

	// No recognized magic; trust the extension.
	switch ext {
	case ExtMP3:
		return newMP3Reader(f)
	case ExtFLAC:
		return newFLACReader(f)
	case ExtOGG, ExtOGA, ExtOPUS:
		return newOggReader(f)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
