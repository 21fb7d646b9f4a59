package rc

import "errors"

// Status is the health of the radio-control link.
type Status uint8

const (
	StatusOk Status = iota
	StatusLost
	StatusReallyLost
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusLost:
		return "lost"
	case StatusReallyLost:
		return "really_lost"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Default loss thresholds, in periodic ticks since the last valid frame.
const (
	DefaultLostTicks       = 30
	DefaultReallyLostTicks = 60
)

// ErrNoSource is returned by Init when the link has no byte source.
var ErrNoSource = errors.New("rc: no byte source")

// ByteSource is a non-blocking receiver input such as a UART.
// machine.UART satisfies it on TinyGo targets.
type ByteSource interface {
	Buffered() int
	ReadByte() (byte, error)
}

// LinkConfig sets the loss thresholds of a Link.
type LinkConfig struct {
	LostTicks       uint32
	ReallyLostTicks uint32
}

// Link decodes receiver frames from a byte source and tracks link health.
// Event drains bytes on the event path; Periodic ages the last frame on the
// periodic path.
type Link struct {
	src ByteSource
	dec Decoder

	channels        Channels
	status          Status
	ticksSinceFrame uint32
	lostTicks       uint32
	reallyLostTicks uint32
	frames          uint32
}

// NewLink returns a link over src decoded by dec.
func NewLink(src ByteSource, dec Decoder, cfg LinkConfig) *Link {
	if cfg.LostTicks == 0 {
		cfg.LostTicks = DefaultLostTicks
	}
	if cfg.ReallyLostTicks <= cfg.LostTicks {
		cfg.ReallyLostTicks = cfg.LostTicks * 2
	}
	return &Link{
		src:             src,
		dec:             dec,
		lostTicks:       cfg.LostTicks,
		reallyLostTicks: cfg.ReallyLostTicks,
	}
}

// Init puts the link in the really-lost state until the first valid frame.
func (l *Link) Init() error {
	if l.src == nil || l.dec == nil {
		return ErrNoSource
	}
	l.status = StatusReallyLost
	l.ticksSinceFrame = l.reallyLostTicks
	l.channels = Channels{}
	for i := range l.channels {
		l.channels[i] = NEUTRAL_RX_VALUE
	}
	return nil
}

// Periodic counts one base tick without a frame and downgrades the status.
func (l *Link) Periodic() {
	if l.ticksSinceFrame >= l.reallyLostTicks {
		l.status = StatusReallyLost
		return
	}
	if l.ticksSinceFrame >= l.lostTicks {
		l.status = StatusLost
	}
	l.ticksSinceFrame++
}

// Event decodes every buffered byte and calls onFrame once per valid frame.
// It returns without calling onFrame when nothing is buffered.
func (l *Link) Event(onFrame func()) {
	for l.src.Buffered() > 0 {
		b, err := l.src.ReadByte()
		if err != nil {
			return
		}
		ch, ok := l.dec.Feed(b)
		if !ok {
			continue
		}
		l.channels = ch
		l.ticksSinceFrame = 0
		l.status = StatusOk
		l.frames++
		if onFrame != nil {
			onFrame()
		}
	}
}

// Status returns the current link health.
func (l *Link) Status() Status { return l.status }

// Channels returns the last decoded frame.
func (l *Link) Channels() Channels { return l.channels }

// Frames returns the number of valid frames decoded since boot.
func (l *Link) Frames() uint32 { return l.frames }

// Errors returns the decoder's discarded-frame count.
func (l *Link) Errors() uint32 { return l.dec.Errors() }
