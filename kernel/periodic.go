package kernel

// FlightTimerDivider is the number of periodic ticks per flight-time unit.
const FlightTimerDivider = 512

// Periodic is the base-tick dispatcher. The caller runs it only when the
// tick source reports a boundary. Every step runs to completion. It does
// nothing until Init has succeeded.
func (k *Kernel) Periodic() {
	if !k.initialized {
		return
	}
	s := &k.subs
	k.state.Ticks++

	s.IMU.Periodic()

	cmd := s.Autopilot.Periodic(&k.state, k.estimate())
	s.Actuators.Set(cmd, k.state.MotorsOn)

	k.prescaler.Tick()

	if k.cfg.Features.GPS {
		k.checkPositionLoss()
		s.GPS.Periodic()
	}
	if k.cfg.Features.ExtraADC {
		s.Analog.Periodic()
	}
	for _, m := range s.Modules {
		m.Periodic()
	}

	if k.state.InFlight && k.flightTimer.Ready() {
		k.state.FlightTime++
		k.state.DatalinkTime++
	}
}

func (k *Kernel) sendTelemetry() {
	k.subs.Telemetry.Periodic(k.Snapshot())
}
