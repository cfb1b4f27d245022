package media

// MockReader is a test double for FormatReader.
type MockReader struct {
	TracksVal []Track
	Packets   []*Packet
	// NextErr, when set, is returned by NextPacket after the queued
	// packets are exhausted instead of ErrEndOfStream.
	NextErr error
	// SeekFunc overrides Seek when set.
	SeekFunc func(seconds uint64, trackID uint32) (uint64, error)

	SeekCalls  []uint64
	NextCalls  int
	CloseCalls int
}

func (m *MockReader) Tracks() []Track { return m.TracksVal }

func (m *MockReader) NextPacket() (*Packet, error) {
	m.NextCalls++
	if len(m.Packets) == 0 {
		if m.NextErr != nil {
			return nil, m.NextErr
		}
		return nil, ErrEndOfStream
	}
	p := m.Packets[0]
	m.Packets = m.Packets[1:]
	return p, nil
}

func (m *MockReader) Seek(seconds uint64, trackID uint32) (uint64, error) {
	m.SeekCalls = append(m.SeekCalls, seconds)
	if m.SeekFunc != nil {
		return m.SeekFunc(seconds, trackID)
	}
	if len(m.TracksVal) > 0 {
		return m.TracksVal[0].TimeBase.Ticks(seconds), nil
	}
	return 0, nil
}

func (m *MockReader) Close() error {
	m.CloseCalls++
	return nil
}

// MockDecoder is a test double for Decoder.
type MockDecoder struct {
	Track Track
	// DecodeErrs maps a zero-based decode call index to an error to
	// return for that call. Wrap in *DecodeError to simulate a single
	// corrupt packet.
	DecodeErrs map[int]error

	DecodeCalls int
	Decoded     []*Packet
	Finalized   bool
	// VerifyOK is reported by Finalize when non-nil.
	VerifyOK *bool
}

func (m *MockDecoder) Decode(p *Packet) (*Buffer, error) {
	call := m.DecodeCalls
	m.DecodeCalls++
	if err, ok := m.DecodeErrs[call]; ok {
		return nil, err
	}
	m.Decoded = append(m.Decoded, p)
	frames := len(p.Data)
	if frames == 0 {
		frames = 1
	}
	return &Buffer{
		Samples:    make([]float32, frames*max(m.Track.Channels, 1)),
		SampleRate: max(m.Track.SampleRate, 1),
		Channels:   max(m.Track.Channels, 1),
	}, nil
}

func (m *MockDecoder) Finalize() FinalizeResult {
	m.Finalized = true
	return FinalizeResult{VerifyOK: m.VerifyOK}
}
