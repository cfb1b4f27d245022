package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// oggStream tracks demux state for one logical stream (one serial
// number) within an Ogg container.
type oggStream struct {
	track Track

	headerDone    bool
	headersNeeded int // total header packets before audio data
	headersSeen   int

	partial     []byte // packet continuing onto the next page
	prevGranule int64  // granule of the last consumed page
	lastGranule int64  // granule of the final page (duration)
}

// oggReader demultiplexes an Ogg container. Multiplexed logical streams
// are exposed as separate tracks keyed by their serial numbers.
//
// Packet timestamps are the granule position at the start of the
// containing page. That is an approximation: granules are only recorded
// per page, so every packet in a page shares the page's start time.
// Combined with the engine's decode-and-discard trim this gives seeking
// that is page-accurate, not sample-accurate.
type oggReader struct {
	src       io.ReadSeekCloser
	streams   map[uint32]*oggStream
	order     []uint32 // serials in order of appearance
	dataStart int64
	pending   []*Packet
}

func newOggReader(src io.ReadSeekCloser) (*oggReader, error) {
	r := &oggReader{
		src:     src,
		streams: make(map[uint32]*oggStream),
	}
	if err := r.readHeaders(); err != nil {
		return nil, err
	}
	if err := r.scanLastGranules(); err != nil {
		return nil, err
	}
	if _, err := r.src.Seek(r.dataStart, io.SeekStart); err != nil {
		return nil, err
	}
	return r, nil
}

// readHeaders consumes the header pages of every logical stream and
// records where audio data begins. Ogg requires all header pages to
// precede all data pages, so the first page belonging to a stream whose
// headers are complete marks the start of data.
func (r *oggReader) readHeaders() error {
	for {
		pageStart, err := r.src.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}

		hdr, err := parseOggPageHeader(r.src)
		if err != nil {
			if isEOF(err) {
				// Headers only, no audio pages. Valid but empty.
				r.dataStart = pageStart
				return nil
			}
			return err
		}

		st := r.streams[hdr.SerialNumber]
		if st != nil && st.headerDone {
			// First data page. Rewind so NextPacket sees it.
			r.dataStart = pageStart
			_, err := r.src.Seek(pageStart, io.SeekStart)
			return err
		}

		packets, partial, err := readOggPageBody(r.src, hdr)
		if err != nil {
			return err
		}

		if st == nil {
			if hdr.Flags&oggFlagBOS == 0 {
				// Page for an unknown stream without a BOS marker.
				// Skip it rather than failing the whole probe.
				continue
			}
			if len(packets) == 0 {
				return errors.New("ogg: empty BOS page")
			}
			st = newOggStream(hdr.SerialNumber, packets[0])
			r.streams[hdr.SerialNumber] = st
			r.order = append(r.order, hdr.SerialNumber)
			packets = packets[1:]
		}

		if hdr.Flags&oggFlagContinued != 0 && len(st.partial) > 0 {
			if len(packets) > 0 {
				packets[0] = append(st.partial, packets[0]...)
			} else if partial != nil {
				partial = append(st.partial, partial...)
			}
		}
		st.partial = partial

		for _, pkt := range packets {
			st.addHeaderPacket(pkt)
		}
	}
}

// newOggStream creates stream state from the first packet of a BOS page,
// detecting the codec. Unknown codecs become CodecNull tracks: their
// packets still flow through the demuxer so track filtering can discard
// them, but they are not selectable for playback.
func newOggStream(serial uint32, first []byte) *oggStream {
	st := &oggStream{}
	switch {
	case len(first) >= 19 && string(first[:8]) == "OpusHead":
		head := make([]byte, len(first))
		copy(head, first)
		st.track = Track{
			ID:         serial,
			Codec:      CodecOpus,
			SampleRate: opusSampleRate,
			Channels:   int(first[9]),
			TimeBase:   TimeBase{Num: 1, Den: opusSampleRate},
			Header:     [][]byte{head},
			PreSkip:    int(binary.LittleEndian.Uint16(first[10:12])),
		}
		// OpusHead + OpusTags
		st.headersNeeded = 2
		st.headersSeen = 1
	case len(first) >= 16 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		ident := make([]byte, len(first))
		copy(ident, first)
		rate := int(binary.LittleEndian.Uint32(first[12:16]))
		st.track = Track{
			ID:         serial,
			Codec:      CodecVorbis,
			SampleRate: rate,
			Channels:   int(first[11]),
			TimeBase:   TimeBase{Num: 1, Den: uint64(rate)},
			Header:     [][]byte{ident},
		}
		// identification + comment + setup
		st.headersNeeded = 3
		st.headersSeen = 1
	default:
		st.track = Track{ID: serial, Codec: CodecNull}
		st.headerDone = true
	}
	return st
}

// addHeaderPacket collects one header packet, marking the stream ready
// once the codec's expected header count is reached.
func (st *oggStream) addHeaderPacket(pkt []byte) {
	if st.headerDone {
		return
	}
	p := make([]byte, len(pkt))
	copy(p, pkt)
	st.track.Header = append(st.track.Header, p)
	st.headersSeen++
	if st.headersSeen >= st.headersNeeded {
		st.headerDone = true
	}
}

// scanLastGranules walks page headers to the end of the file recording
// the final granule position per stream, then derives track durations.
func (r *oggReader) scanLastGranules() error {
	if _, err := r.src.Seek(r.dataStart, io.SeekStart); err != nil {
		return err
	}

	for {
		hdr, err := parseOggPageHeader(r.src)
		if err != nil {
			if isEOF(err) {
				break
			}
			return err
		}
		if st := r.streams[hdr.SerialNumber]; st != nil && hdr.GranulePos > st.lastGranule {
			st.lastGranule = hdr.GranulePos
		}
		if _, err := r.src.Seek(int64(hdr.bodySize()), io.SeekCurrent); err != nil {
			return err
		}
	}

	for _, st := range r.streams {
		frames := st.lastGranule - int64(st.track.PreSkip)
		if frames > 0 {
			st.track.NumFrames = uint64(frames)
		}
	}
	return nil
}

func (r *oggReader) Tracks() []Track {
	tracks := make([]Track, 0, len(r.order))
	for _, serial := range r.order {
		tracks = append(tracks, r.streams[serial].track)
	}
	return tracks
}

func (r *oggReader) NextPacket() (*Packet, error) {
	for len(r.pending) == 0 {
		if err := r.readDataPage(); err != nil {
			return nil, err
		}
	}
	pkt := r.pending[0]
	r.pending = r.pending[1:]
	return pkt, nil
}

// readDataPage consumes one page and queues its packets. Packets are
// stamped with the granule position of the page's start (the previous
// page's end granule for the same stream).
func (r *oggReader) readDataPage() error {
	hdr, err := parseOggPageHeader(r.src)
	if err != nil {
		if isEOF(err) {
			return ErrEndOfStream
		}
		return fmt.Errorf("ogg: read page: %w", err)
	}

	st := r.streams[hdr.SerialNumber]
	if st == nil {
		// Unknown serial mid-stream; skip the body.
		_, err := r.src.Seek(int64(hdr.bodySize()), io.SeekCurrent)
		return err
	}

	packets, partial, err := readOggPageBody(r.src, hdr)
	if err != nil {
		if isEOF(err) {
			return ErrEndOfStream
		}
		return fmt.Errorf("ogg: read page body: %w", err)
	}

	if hdr.Flags&oggFlagContinued != 0 && len(st.partial) > 0 {
		if len(packets) > 0 {
			packets[0] = append(st.partial, packets[0]...)
		} else if partial != nil {
			partial = append(st.partial, partial...)
		}
	}
	st.partial = partial

	ts := uint64(0)
	if st.prevGranule > 0 {
		ts = uint64(st.prevGranule)
	}
	if hdr.GranulePos >= 0 {
		st.prevGranule = hdr.GranulePos
	}

	for _, pkt := range packets {
		r.pending = append(r.pending, &Packet{
			TrackID: hdr.SerialNumber,
			TS:      ts,
			Data:    pkt,
		})
	}
	return nil
}

// Seek scans page headers from the start of data to find the page
// containing the target time for the given track, repositions there and
// returns the requested position in ticks. Decoding resumes at the
// preceding page boundary; samples before the returned tick are the
// caller's to discard.
func (r *oggReader) Seek(seconds uint64, trackID uint32) (uint64, error) {
	st := r.streams[trackID]
	if st == nil {
		return 0, fmt.Errorf("ogg: no stream with serial %d", trackID)
	}

	target := int64(st.track.TimeBase.Ticks(seconds))
	if st.lastGranule > 0 && target > st.lastGranule {
		target = st.lastGranule
	}

	pos := r.dataStart
	landing := r.dataStart
	prevGranule := int64(0)
	if _, err := r.src.Seek(pos, io.SeekStart); err != nil {
		return 0, err
	}

	for {
		pageStart, err := r.src.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		hdr, err := parseOggPageHeader(r.src)
		if err != nil {
			if isEOF(err) {
				landing = pageStart
				break
			}
			return 0, err
		}
		if hdr.SerialNumber == trackID {
			if hdr.GranulePos >= target {
				landing = pageStart
				break
			}
			if hdr.GranulePos >= 0 {
				prevGranule = hdr.GranulePos
			}
		}
		if _, err := r.src.Seek(int64(hdr.bodySize()), io.SeekCurrent); err != nil {
			return 0, err
		}
	}

	if _, err := r.src.Seek(landing, io.SeekStart); err != nil {
		return 0, err
	}

	// Continuation state does not survive a reposition. The scanned
	// granule belongs to the target stream only; other streams restart
	// their timestamps from their next page granule.
	r.pending = nil
	for _, s := range r.streams {
		s.partial = nil
		s.prevGranule = 0
	}
	st.prevGranule = prevGranule

	if target < 0 {
		target = 0
	}
	return uint64(target), nil
}

func (r *oggReader) Close() error {
	return r.src.Close()
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
