package kernel

import (
	"github.com/google/uuid"

	"github.com/BryanSouza91/RotorFC/rc"
)

// State is the shared mutable flight state. It is touched only from the
// kernel's control thread; collaborators receive a pointer to it from the
// dispatchers and must not retain it.
type State struct {
	Mode         Mode
	MotorsOn     bool
	InFlight     bool
	FlightTime   uint32
	DatalinkTime uint32
	Attitude     AttitudeState
	Session      uuid.UUID
	Ticks        uint64

	logf func(format string, args ...any)
}

// SetMode changes the active mode. Setting the current mode is a no-op.
func (s *State) SetMode(m Mode) {
	if s.Mode == m {
		return
	}
	if s.logf != nil {
		s.logf("mode: %s -> %s", s.Mode, m)
	}
	s.Mode = m
}

// ResetDatalinkTime marks an uplink message as just received.
func (s *State) ResetDatalinkTime() {
	s.DatalinkTime = 0
}

// BeginSession starts a new flight session: timers are cleared and the
// session id is regenerated. The attitude gate is not reopened.
func (s *State) BeginSession() {
	s.Session = uuid.New()
	s.FlightTime = 0
	s.DatalinkTime = 0
}

func (s *State) setAttitude(a AttitudeState) {
	if s.Attitude == a {
		return
	}
	if s.logf != nil {
		s.logf("attitude: %s -> %s", s.Attitude, a)
	}
	s.Attitude = a
}

// Snapshot is a read-only copy of the flight state for telemetry and observers.
type Snapshot struct {
	Session      uuid.UUID     `json:"session"`
	Ticks        uint64        `json:"ticks"`
	Mode         Mode          `json:"mode"`
	Attitude     AttitudeState `json:"attitude_state"`
	Link         rc.Status     `json:"link"`
	MotorsOn     bool          `json:"motors_on"`
	InFlight     bool          `json:"in_flight"`
	FlightTime   uint32        `json:"flight_time"`
	DatalinkTime uint32        `json:"datalink_time"`
	Estimate     Estimate      `json:"estimate"`
}
