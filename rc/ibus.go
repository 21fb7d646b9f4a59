package rc

// FlySky iBus receiver implementation.

const (
	IBUS_HEADER1      = 0x20
	IBUS_HEADER2      = 0x40
	IBUS_NUM_CHANNELS = 14
	// Header (2) + Channels (14 * 2) + Checksum (2)
	IBUS_PACKET_SIZE = 2 + (IBUS_NUM_CHANNELS * 2) + 2

	IBUS_BAUD_RATE = 115200
)

type ibusState int

const (
	ibusWaitingForHeader1 ibusState = iota
	ibusWaitingForHeader2
	ibusReadingPayload
	ibusReadingChecksumLow
	ibusReadingChecksumHigh
)

// IBusParser is a byte-at-a-time iBus frame decoder.
type IBusParser struct {
	state    ibusState
	payload  [IBUS_NUM_CHANNELS * 2]byte
	index    int
	checksum uint16
	low      byte
	errors   uint32
}

// NewIBusParser returns a parser waiting for the first header byte.
func NewIBusParser() *IBusParser {
	return &IBusParser{}
}

// Errors returns the number of frames discarded for a checksum mismatch.
func (p *IBusParser) Errors() uint32 { return p.errors }

// Feed pushes one byte through the frame state machine.
func (p *IBusParser) Feed(b byte) (Channels, bool) {
	switch p.state {
	case ibusWaitingForHeader1:
		if b == IBUS_HEADER1 {
			p.state = ibusWaitingForHeader2
		}
	case ibusWaitingForHeader2:
		if b == IBUS_HEADER2 {
			p.index = 0
			p.checksum = 0xFFFF - IBUS_HEADER1 - IBUS_HEADER2
			p.state = ibusReadingPayload
		} else {
			// Invalid header sequence, reset
			p.state = ibusWaitingForHeader1
		}
	case ibusReadingPayload:
		p.payload[p.index] = b
		p.checksum -= uint16(b)
		p.index++
		if p.index >= len(p.payload) {
			p.state = ibusReadingChecksumLow
		}
	case ibusReadingChecksumLow:
		p.low = b
		p.state = ibusReadingChecksumHigh
	case ibusReadingChecksumHigh:
		p.state = ibusWaitingForHeader1
		received := uint16(p.low) | uint16(b)<<8
		if received != p.checksum {
			p.errors++
			return Channels{}, false
		}
		var ch Channels
		for i := 0; i < IBUS_NUM_CHANNELS; i++ {
			ch[i] = uint16(p.payload[2*i]) | uint16(p.payload[2*i+1])<<8
		}
		return ch, true
	}
	return Channels{}, false
}
