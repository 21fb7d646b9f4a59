package sitl

import "time"

// PilotStep moves one channel to US once simulated time reaches At.
type PilotStep struct {
	At      time.Duration
	Channel int
	US      uint16
	Note    string
}

// Script drives the Pilot from simulated time, so frame pacing follows the
// kernel whether it runs on the wall clock or lock-step.
type Script struct {
	Steps []PilotStep
	// Off is when the transmitter stops sending. Zero keeps it on.
	Off time.Duration
	// Period is the frame interval. Zero selects 20 ms.
	Period time.Duration
}

// scriptModule is the user module that plays a Script.
type scriptModule struct {
	script Script
	pilot  *Pilot
	sim    *Sim
	logf   func(format string, args ...any)

	next     int
	nextSend float64
	off      bool
}

func (m *scriptModule) Init() error {
	if m.script.Period <= 0 {
		m.script.Period = 20 * time.Millisecond
	}
	m.next, m.nextSend, m.off = 0, 0, false
	return nil
}

func (m *scriptModule) Periodic() {
	if m.off {
		return
	}
	now := m.sim.Time()
	for m.next < len(m.script.Steps) && now >= m.script.Steps[m.next].At.Seconds() {
		s := m.script.Steps[m.next]
		m.log("Pilot: %s", s.Note)
		m.pilot.Set(s.Channel, s.US)
		m.next++
	}
	if m.script.Off > 0 && now >= m.script.Off.Seconds() {
		m.log("Pilot: transmitter off")
		m.off = true
		return
	}
	if now >= m.nextSend {
		m.nextSend = now + m.script.Period.Seconds()
		m.pilot.Send()
	}
}

func (m *scriptModule) Event() {}

func (m *scriptModule) log(format string, args ...any) {
	if m.logf != nil {
		m.logf(format, args...)
	}
}
