package media

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseOggPageHeader(t *testing.T) {
	// "OggS" + version(1) + flags(1) + granule(8) + serial(4) +
	// sequence(4) + checksum(4) + segment count(1) + segment table
	header := []byte{
		'O', 'g', 'g', 'S',
		0,    // version
		0x04, // flags: EOS
		0x80, 0xBB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // granule 48000
		1, 0, 0, 0, // serial
		2, 0, 0, 0, // sequence
		0, 0, 0, 0, // checksum (not validated)
		2,        // 2 segments
		255, 100, // segment table
	}

	hdr, err := parseOggPageHeader(bytes.NewReader(header))
	if err != nil {
		t.Fatalf("parseOggPageHeader failed: %v", err)
	}

	if hdr.Flags != oggFlagEOS {
		t.Errorf("Flags = %#x, want %#x", hdr.Flags, oggFlagEOS)
	}
	if hdr.GranulePos != 48000 {
		t.Errorf("GranulePos = %d, want 48000", hdr.GranulePos)
	}
	if hdr.SerialNumber != 1 {
		t.Errorf("SerialNumber = %d, want 1", hdr.SerialNumber)
	}
	if hdr.SequenceNum != 2 {
		t.Errorf("SequenceNum = %d, want 2", hdr.SequenceNum)
	}
	if len(hdr.SegmentTable) != 2 || hdr.SegmentTable[0] != 255 || hdr.SegmentTable[1] != 100 {
		t.Errorf("SegmentTable = %v, want [255 100]", hdr.SegmentTable)
	}
	if hdr.bodySize() != 355 {
		t.Errorf("bodySize = %d, want 355", hdr.bodySize())
	}
}

func TestParseOggPageHeader_InvalidMagic(t *testing.T) {
	header := make([]byte, 27)
	copy(header, "BadS")
	_, err := parseOggPageHeader(bytes.NewReader(header))
	if !errors.Is(err, errInvalidOggMagic) {
		t.Errorf("err = %v, want %v", err, errInvalidOggMagic)
	}
}

func TestParseOggPageHeader_UnsupportedVersion(t *testing.T) {
	header := make([]byte, 27)
	copy(header, "OggS")
	header[4] = 1
	_, err := parseOggPageHeader(bytes.NewReader(header))
	if !errors.Is(err, errInvalidOggVersion) {
		t.Errorf("err = %v, want %v", err, errInvalidOggVersion)
	}
}

func TestReadOggPageBody(t *testing.T) {
	hdr := &oggPageHeader{
		NumSegments:  2,
		SegmentTable: []uint8{100, 50},
	}
	body := make([]byte, 150)
	for i := range body {
		body[i] = byte(i)
	}

	packets, partial, err := readOggPageBody(bytes.NewReader(body), hdr)
	if err != nil {
		t.Fatalf("readOggPageBody failed: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	if partial != nil {
		t.Errorf("expected no partial, got %d bytes", len(partial))
	}
	if len(packets[0]) != 100 || len(packets[1]) != 50 {
		t.Errorf("packet lengths = %d, %d, want 100, 50", len(packets[0]), len(packets[1]))
	}
	if packets[1][0] != 100 {
		t.Errorf("packet[1] starts at byte %d, want 100", packets[1][0])
	}
}

func TestReadOggPageBody_SpanningSegments(t *testing.T) {
	// One packet of 610 bytes laced as 255+255+100.
	hdr := &oggPageHeader{
		NumSegments:  3,
		SegmentTable: []uint8{255, 255, 100},
	}
	body := make([]byte, 610)

	packets, partial, err := readOggPageBody(bytes.NewReader(body), hdr)
	if err != nil {
		t.Fatalf("readOggPageBody failed: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}
	if len(packets[0]) != 610 {
		t.Errorf("packet len = %d, want 610", len(packets[0]))
	}
	if partial != nil {
		t.Errorf("expected no partial, got %d bytes", len(partial))
	}
}

func TestReadOggPageBody_PartialPacket(t *testing.T) {
	// A page ending on a 255-byte segment leaves the packet open.
	hdr := &oggPageHeader{
		NumSegments:  2,
		SegmentTable: []uint8{30, 255},
	}
	body := make([]byte, 285)

	packets, partial, err := readOggPageBody(bytes.NewReader(body), hdr)
	if err != nil {
		t.Fatalf("readOggPageBody failed: %v", err)
	}
	if len(packets) != 1 || len(packets[0]) != 30 {
		t.Fatalf("completed packets = %v, want one of 30 bytes", len(packets))
	}
	if len(partial) != 255 {
		t.Errorf("partial len = %d, want 255", len(partial))
	}
}
