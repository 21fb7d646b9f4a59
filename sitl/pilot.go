package sitl

import "github.com/BryanSouza91/RotorFC/rc"

// Pilot synthesizes CRSF receiver input into a queue, for runs without a
// physical receiver.
type Pilot struct {
	q  *rc.Queue
	ch rc.Channels
}

// NewPilot starts with centred sticks, throttle down and switches low.
func NewPilot(q *rc.Queue) *Pilot {
	p := &Pilot{q: q}
	for i := range p.ch {
		p.ch[i] = rc.NEUTRAL_RX_VALUE
	}
	p.ch[2] = rc.MIN_RX_VALUE
	p.ch[4] = rc.MIN_RX_VALUE
	p.ch[5] = rc.MIN_RX_VALUE
	return p
}

// Set moves one channel, in microseconds.
func (p *Pilot) Set(channel int, us uint16) {
	if channel >= 0 && channel < rc.NumChannels {
		p.ch[channel] = us
	}
}

func (p *Pilot) Channels() rc.Channels { return p.ch }

// Send writes one frame with the current channels.
func (p *Pilot) Send() {
	pkt := rc.EncodeCRSF(p.ch)
	_, _ = p.q.Write(pkt[:])
}
