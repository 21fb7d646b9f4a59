package rc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A valid CRSF packet: length 24 (0x18), type 22 (0x16), 22 payload bytes,
// CRC 0xad. Every channel is centred (992 raw).
var validCRSFPacket = []byte{
	0xc8, 0x18, 0x16, 0xe0, 0x03, 0x1f, 0xf8, 0xc0, 0x07, 0x3e, 0xf0, 0x81, 0x0f, 0x7c,
	0xe0, 0x03, 0x1f, 0xf8, 0xc0, 0x07, 0x3e, 0xf0, 0x81, 0x0f, 0x7c, 0xad,
}

func feedCRSF(p *CRSFParser, data []byte) (frames []Channels) {
	for _, b := range data {
		if ch, ok := p.Feed(b); ok {
			frames = append(frames, ch)
		}
	}
	return frames
}

func TestCRSFProtocol(t *testing.T) {
	p := NewCRSFParser()
	frames := feedCRSF(p, validCRSFPacket)
	require.Len(t, frames, 1)
	for i, v := range frames[0] {
		require.Equal(t, uint16(NEUTRAL_RX_VALUE), v, "CH%d", i+1)
	}
	require.Zero(t, p.Errors())
}

func TestCRSFChecksumMismatch(t *testing.T) {
	bad := append([]byte(nil), validCRSFPacket...)
	bad[len(bad)-1] ^= 0xFF

	p := NewCRSFParser()
	require.Empty(t, feedCRSF(p, bad))
	require.Equal(t, uint32(1), p.Errors())

	// The parser resynchronises on the next sync byte.
	require.Len(t, feedCRSF(p, validCRSFPacket), 1)
}

func TestCRSFSkipsNoiseAndOtherFrames(t *testing.T) {
	linkStats := []byte{0xc8, 0x0c, 0x14, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	stream := append([]byte{0x00, 0x55, 0xff}, linkStats...)
	stream = append(stream, validCRSFPacket...)

	p := NewCRSFParser()
	require.Len(t, feedCRSF(p, stream), 1)
}

func TestCRSFBadLength(t *testing.T) {
	p := NewCRSFParser()
	require.Empty(t, feedCRSF(p, []byte{0xc8, 0x01}))
	require.Equal(t, uint32(1), p.Errors())
	require.Empty(t, feedCRSF(p, []byte{0xc8, 0x50}))
	require.Equal(t, uint32(2), p.Errors())
}

func TestCalculateCrc8(t *testing.T) {
	require.Equal(t, byte(0xad), calculateCrc8(validCRSFPacket[2:25]))
	require.Equal(t, byte(0x00), calculateCrc8(nil))
}

func TestCRSFToMicros(t *testing.T) {
	require.Equal(t, uint16(MIN_RX_VALUE), crsfToMicros(CRSF_CHANNEL_VALUE_MIN))
	require.Equal(t, uint16(MAX_RX_VALUE), crsfToMicros(CRSF_CHANNEL_VALUE_MAX))
	require.Equal(t, uint16(MIN_RX_VALUE), crsfToMicros(0))
	require.Equal(t, uint16(MAX_RX_VALUE), crsfToMicros(2047))
}

func TestEncodeCRSF(t *testing.T) {
	var ch Channels
	for i := range ch {
		ch[i] = NEUTRAL_RX_VALUE
	}
	pkt := EncodeCRSF(ch)
	require.Equal(t, validCRSFPacket, pkt[:])

	ch[0] = MIN_RX_VALUE
	ch[2] = 1700
	ch[4] = MAX_RX_VALUE
	pkt = EncodeCRSF(ch)
	frames := feedCRSF(NewCRSFParser(), pkt[:])
	require.Len(t, frames, 1)
	for i := range ch {
		require.InDelta(t, float64(ch[i]), float64(frames[0][i]), 1, "CH%d", i+1)
	}
}
