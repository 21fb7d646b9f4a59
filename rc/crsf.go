package rc

// CRSF (Crossfire) protocol receiver implementation.
// Used by TBS Crossfire and ExpressLRS for the RC link.

const (
	// CRSF uses 0xC8 as the address for the flight controller sync byte
	CRSF_FLIGHT_CONTROLLER     = 0xC8
	CRSF_FRAMETYPE_RC_CHANNELS = 0x16

	// A standard RC channels packed packet is 26 bytes long.
	// 1 (sync) + 1 (length) + 1 (type) + 22 (payload) + 1 (CRC) = 26 bytes
	CRSF_PACKET_SIZE = 26

	// The length byte covers type, payload and CRC. 64 is the protocol maximum.
	CRSF_MIN_LENGTH = 2
	CRSF_MAX_LENGTH = 64

	CRSF_NUM_CHANNELS = 16

	CRSF_CHANNEL_VALUE_MIN = 172  // 987us
	CRSF_CHANNEL_VALUE_MAX = 1811 // 2012us

	// ELRS=420000 CRSF=416666
	CRSF_BAUD_RATE = 420000
)

type crsfState int

const (
	crsfDestination crsfState = iota
	crsfLength
	crsfType
	crsfPayload
	crsfChecksum
)

// CRSFParser is a byte-at-a-time CRSF frame decoder.
// ExpressLRS speaks the same framing, so it is served by this parser too.
type CRSFParser struct {
	state  crsfState
	packet [CRSF_MAX_LENGTH + 2]byte
	index  int
	length int
	errors uint32
}

// NewCRSFParser returns a parser waiting for a sync byte.
func NewCRSFParser() *CRSFParser {
	return &CRSFParser{}
}

func (p *CRSFParser) reset() {
	p.index = 0
	p.length = 0
	p.state = crsfDestination
}

// Errors returns the number of frames discarded for a bad length, type or CRC.
func (p *CRSFParser) Errors() uint32 { return p.errors }

// Feed pushes one byte through the frame state machine.
func (p *CRSFParser) Feed(b byte) (Channels, bool) {
	switch p.state {
	case crsfDestination:
		// Wait for the destination byte.
		if b == CRSF_FLIGHT_CONTROLLER {
			p.packet[0] = b
			p.index = 1
			p.state = crsfLength
		}

	case crsfLength:
		if b < CRSF_MIN_LENGTH || b > CRSF_MAX_LENGTH {
			p.errors++
			p.reset()
			break
		}
		p.length = int(b)
		p.packet[p.index] = b
		p.index++
		p.state = crsfType

	case crsfType:
		if b != CRSF_FRAMETYPE_RC_CHANNELS || p.length != CRSF_PACKET_SIZE-2 {
			// Telemetry and link-statistics frames are not channel data.
			p.reset()
			break
		}
		p.packet[p.index] = b
		p.index++
		p.state = crsfPayload

	case crsfPayload:
		p.packet[p.index] = b
		p.index++
		if p.index >= p.length+1 {
			p.state = crsfChecksum
		}

	case crsfChecksum:
		// The CRC8 covers type and payload, from index 2 up to the CRC byte.
		p.packet[p.index] = b
		ok := calculateCrc8(p.packet[2:p.index]) == b
		var ch Channels
		if ok {
			ch = unpackCRSFChannels(p.packet[3:p.index])
		} else {
			p.errors++
		}
		p.reset()
		return ch, ok
	}
	return Channels{}, false
}

// unpackCRSFChannels unpacks the 11-bit channel values from a CRSF payload
// and converts them to pulse widths.
func unpackCRSFChannels(bitstream []byte) Channels {
	var ch Channels
	var bitsMerged uint
	var readValue uint32
	var readByteIndex int

	for n := 0; n < CRSF_NUM_CHANNELS; n++ {
		for bitsMerged < 11 {
			if readByteIndex >= len(bitstream) {
				return ch
			}
			readValue |= uint32(bitstream[readByteIndex]) << bitsMerged
			readByteIndex++
			bitsMerged += 8
		}
		ch[n] = crsfToMicros(uint16(readValue & 0x07FF))
		readValue >>= 11
		bitsMerged -= 11
	}
	return ch
}

func crsfToMicros(v uint16) uint16 {
	us := MapRange(float64(v), CRSF_CHANNEL_VALUE_MIN, CRSF_CHANNEL_VALUE_MAX, MIN_RX_VALUE, MAX_RX_VALUE)
	return uint16(Constrain(us, MIN_RX_VALUE, MAX_RX_VALUE) + 0.5)
}

// calculateCrc8 computes the CRC8-DVB-S2 checksum used by CRSF.
func calculateCrc8(data []byte) byte {
	crc := byte(0x00)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if (crc & 0x80) != 0 {
				crc = (crc << 1) ^ 0xD5
			} else {
				crc = crc << 1
			}
		}
	}
	return crc
}

// EncodeCRSF packs channel pulse widths into an RC channels frame. It is
// the inverse of the parser, used to synthesize receiver input.
func EncodeCRSF(ch Channels) [CRSF_PACKET_SIZE]byte {
	var pkt [CRSF_PACKET_SIZE]byte
	pkt[0] = CRSF_FLIGHT_CONTROLLER
	pkt[1] = CRSF_PACKET_SIZE - 2
	pkt[2] = CRSF_FRAMETYPE_RC_CHANNELS

	var bits uint32
	var nbits uint
	i := 3
	for _, us := range ch {
		bits |= uint32(microsToCrsf(us)) << nbits
		nbits += 11
		for nbits >= 8 {
			pkt[i] = byte(bits)
			i++
			bits >>= 8
			nbits -= 8
		}
	}
	pkt[CRSF_PACKET_SIZE-1] = calculateCrc8(pkt[2 : CRSF_PACKET_SIZE-1])
	return pkt
}

func microsToCrsf(us uint16) uint16 {
	v := Constrain(float64(us), MIN_RX_VALUE, MAX_RX_VALUE)
	return uint16(MapRange(v, MIN_RX_VALUE, MAX_RX_VALUE, CRSF_CHANNEL_VALUE_MIN, CRSF_CHANNEL_VALUE_MAX) + 0.5)
}
