package media

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

// Ogg page header flags.
const (
	oggFlagContinued = 0x01 // first packet continues from previous page
	oggFlagBOS       = 0x02 // beginning of logical stream
	oggFlagEOS       = 0x04 // end of logical stream
)

// oggPageHeader represents the header of an Ogg page.
type oggPageHeader struct {
	Flags        uint8
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	NumSegments  uint8
	SegmentTable []uint8
}

// bodySize returns the total byte length of the page body.
func (h *oggPageHeader) bodySize() int {
	n := 0
	for _, s := range h.SegmentTable {
		n += int(s)
	}
	return n
}

// parseOggPageHeader reads and parses an Ogg page header from the reader.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	// Fixed header is 27 bytes
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}

	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		Flags:        buf[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])),
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
		// checksum at buf[22:26] - not validated
		NumSegments: buf[26],
	}

	if hdr.NumSegments > 0 {
		hdr.SegmentTable = make([]uint8, hdr.NumSegments)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}

	return hdr, nil
}

// readOggPageBody reads the page body and splits it into packets using
// the segment lacing values. A packet spans segments of 255 bytes until
// a segment shorter than 255 terminates it; a page ending on a 255-byte
// segment leaves a partial packet that continues on the next page.
// partial is nil when the last packet completed within this page.
func readOggPageBody(r io.Reader, hdr *oggPageHeader) (packets [][]byte, partial []byte, err error) {
	body := make([]byte, hdr.bodySize())
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, err
	}

	var current []byte
	offset := 0
	for _, seg := range hdr.SegmentTable {
		current = append(current, body[offset:offset+int(seg)]...)
		offset += int(seg)
		if seg < 255 {
			packets = append(packets, current)
			current = nil
		}
	}

	return packets, current, nil
}
