package media

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream signals that the container has no more packets. It
	// is a terminal condition, not a failure.
	ErrEndOfStream = errors.New("media: end of stream")

	// ErrResetRequired is returned by Seek when the reader cannot
	// reposition in place and must be reconstructed.
	ErrResetRequired = errors.New("media: reader reset required")

	// ErrUnsupportedFormat is returned by Probe when no reader claims
	// the source.
	ErrUnsupportedFormat = errors.New("media: unsupported format")

	// ErrNoDecodableTrack is returned when a container holds no track
	// with a known codec.
	ErrNoDecodableTrack = errors.New("media: no decodable track")
)

// DecodeError marks per-packet corruption that the caller should log and
// skip rather than treat as fatal.
type DecodeError struct {
	Codec Codec
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode: %v", e.Codec, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is a recoverable per-packet decode
// error.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
