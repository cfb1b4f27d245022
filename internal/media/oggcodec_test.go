package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpusDecoderValidatesHead(t *testing.T) {
	tests := []struct {
		name    string
		header  [][]byte
		wantErr error
	}{
		{
			name:    "no header packets",
			header:  nil,
			wantErr: errInvalidOpusHead,
		},
		{
			name:    "truncated OpusHead",
			header:  [][]byte{[]byte("OpusHead")},
			wantErr: errInvalidOpusHead,
		},
		{
			name:    "wrong magic",
			header:  [][]byte{append([]byte("NotOpus!"), make([]byte, 11)...)},
			wantErr: errInvalidOpusHead,
		},
		{
			name: "unsupported version",
			header: [][]byte{func() []byte {
				h := append([]byte("OpusHead"), make([]byte, 11)...)
				h[8] = 2
				return h
			}()},
			wantErr: errUnsupportedOpus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newOpusDecoder(Track{Channels: 2, Header: tt.header})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewOpusDecoderAcceptsValidHead(t *testing.T) {
	head := append([]byte("OpusHead"), make([]byte, 11)...)
	head[8] = 1 // version
	head[9] = 2 // channels

	dec, err := newOpusDecoder(Track{Channels: 2, Header: [][]byte{head}})
	require.NoError(t, err)
	require.NotNil(t, dec)

	// Opus carries no stream checksum, so there is nothing to verify.
	assert.Nil(t, dec.Finalize().VerifyOK)
}

func TestOpusDecoderDiscardsPrimingFrames(t *testing.T) {
	head := append([]byte("OpusHead"), make([]byte, 11)...)
	head[8] = 1 // version
	head[9] = 2 // channels

	dec, err := newOpusDecoder(Track{Channels: 2, PreSkip: 312, Header: [][]byte{head}})
	require.NoError(t, err)
	d := dec.(*opusDecoder)

	// 120-frame packets: the first two are swallowed whole, the third
	// loses its first 72 frames, then the skip is exhausted.
	assert.Equal(t, 120, d.discardPriming(120))
	assert.Equal(t, 120, d.discardPriming(120))
	assert.Equal(t, 72, d.discardPriming(120))
	assert.Equal(t, 0, d.discardPriming(120))
	assert.Equal(t, 0, d.preSkip)
}

func TestNewVorbisDecoderRequiresThreeHeaders(t *testing.T) {
	_, err := newVorbisDecoder(Track{
		Channels: 2,
		Header:   [][]byte{{0x01}, {0x03}},
	})
	assert.ErrorIs(t, err, errInvalidVorbisHeader)
}
