package flight

import (
	"math"

	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/rc"
)

// --- Channel Mapping ---
const (
	RollCh     = 0 // Rx channel 1
	PitchCh    = 1 // Rx channel 2
	ThrottleCh = 2 // Rx channel 3
	YawCh      = 3 // Rx channel 4
	ArmCh      = 4 // Rx channel 5
	ModeCh     = 5 // Rx channel 6
)

// ChannelSource is where the autopilot reads sticks. *rc.Link satisfies it.
type ChannelSource interface {
	Channels() rc.Channels
}

// AutopilotConfig tunes the RC autopilot. Rates in rad/s, angles in radians.
type AutopilotConfig struct {
	Dt           float64
	MaxRollRate  float64
	MaxPitchRate float64
	MaxYawRate   float64
	MaxAngle     float64
	AngleGain    float64 // rate setpoint per radian of angle error

	HoverThrust    float64
	FailsafeThrust float64
	// ArmThrottle is the highest throttle that allows arming.
	ArmThrottle float64

	// The vehicle is in flight after InFlightTicks ticks above
	// InFlightThrust, and landed after as many ticks below it.
	InFlightThrust float64
	InFlightTicks  uint32

	// ModeSwitch maps the low, middle and high positions of the mode channel.
	ModeSwitch [3]kernel.Mode

	RatePID [3][3]float64 // roll, pitch, yaw: Kp, Ki, Kd
}

// DefaultAutopilotConfig is tuned for a 250 mm quad at a 512 Hz base rate.
func DefaultAutopilotConfig() AutopilotConfig {
	return AutopilotConfig{
		Dt:             1.0 / 512,
		MaxRollRate:    600 * math.Pi / 180,
		MaxPitchRate:   600 * math.Pi / 180,
		MaxYawRate:     200 * math.Pi / 180,
		MaxAngle:       35 * math.Pi / 180,
		AngleGain:      4,
		HoverThrust:    0.45,
		FailsafeThrust: 0.38,
		ArmThrottle:    0.05,
		InFlightThrust: 0.2,
		InFlightTicks:  256,
		ModeSwitch:     [3]kernel.Mode{kernel.ModeRcManual, kernel.ModeAttitudeDirect, kernel.ModeHover},
		RatePID: [3][3]float64{
			{0.08, 0.05, 0.002},
			{0.08, 0.05, 0.002},
			{0.15, 0.05, 0},
		},
	}
}

// Autopilot flies from the sticks: rate control in RcManual, self-levelling
// in the attitude modes, and a level descent in failsafe. Guidance in Nav
// holds level at hover thrust.
type Autopilot struct {
	cfg   AutopilotConfig
	radio ChannelSource
	pids  [3]*PID

	// waitDisarm blocks arming until the arm switch has been seen low,
	// at boot and after a kill that was not commanded by the switch.
	waitDisarm bool
	armed      bool
	flyCount   uint32
	landCount  uint32
}

func NewAutopilot(cfg AutopilotConfig, radio ChannelSource) *Autopilot {
	a := &Autopilot{cfg: cfg, radio: radio}
	for i, g := range cfg.RatePID {
		a.pids[i] = NewPID(g[0], g[1], g[2])
	}
	return a
}

func (a *Autopilot) Init() error {
	a.resetControllers()
	a.waitDisarm = true
	a.armed = false
	a.flyCount, a.landCount = 0, 0
	return nil
}

func (a *Autopilot) UsesRC() bool { return true }

// OnRCFrame applies the arm and mode switches.
func (a *Autopilot) OnRCFrame(st *kernel.State) {
	ch := a.radio.Channels()

	if !rc.Switch(ch[ArmCh]) {
		a.waitDisarm = false
		a.armed = false
		st.MotorsOn = false
		st.SetMode(kernel.ModeKill)
		return
	}
	if st.Mode == kernel.ModeKill || st.Mode == kernel.ModeInit {
		if a.armed {
			// Killed by the ground station or ground detection.
			a.armed = false
			a.waitDisarm = true
		}
		if a.waitDisarm || rc.Throttle(ch[ThrottleCh]) > a.cfg.ArmThrottle {
			return
		}
		a.armed = true
		st.MotorsOn = true
	}
	st.SetMode(a.modeFromSwitch(ch[ModeCh]))
}

func (a *Autopilot) modeFromSwitch(us uint16) kernel.Mode {
	switch {
	case us < 1300:
		return a.cfg.ModeSwitch[0]
	case us > 1700:
		return a.cfg.ModeSwitch[2]
	}
	return a.cfg.ModeSwitch[1]
}

// Periodic computes the control output for this tick.
func (a *Autopilot) Periodic(st *kernel.State, est kernel.Estimate) kernel.Commands {
	if st.Mode == kernel.ModeKill || st.Mode == kernel.ModeInit {
		st.MotorsOn = false
	}
	if !st.MotorsOn {
		a.resetControllers()
		a.checkInFlight(st, 0)
		return kernel.Commands{}
	}

	ch := a.radio.Channels()
	att := est.Attitude
	var rates [3]float64
	var thrust float64

	switch st.Mode {
	case kernel.ModeRcManual:
		rates[0] = rc.Stick(ch[RollCh]) * a.cfg.MaxRollRate
		rates[1] = rc.Stick(ch[PitchCh]) * a.cfg.MaxPitchRate
		thrust = rc.Throttle(ch[ThrottleCh])
	case kernel.ModeFailsafe:
		rates[0] = a.cfg.AngleGain * (0 - att.Roll)
		rates[1] = a.cfg.AngleGain * (0 - att.Pitch)
		thrust = a.cfg.FailsafeThrust
	default:
		rates[0] = a.cfg.AngleGain * (rc.Stick(ch[RollCh])*a.cfg.MaxAngle - att.Roll)
		rates[1] = a.cfg.AngleGain * (rc.Stick(ch[PitchCh])*a.cfg.MaxAngle - att.Pitch)
		thrust = rc.Throttle(ch[ThrottleCh])
		if st.Mode == kernel.ModeHover || st.Mode == kernel.ModeNav {
			thrust = a.cfg.HoverThrust + 0.5*(thrust-0.5)
		}
	}
	if st.Mode != kernel.ModeFailsafe {
		rates[2] = rc.Stick(ch[YawCh]) * a.cfg.MaxYawRate
	}

	measured := [3]float64{att.Rates.X, att.Rates.Y, att.Rates.Z}
	var out [3]float64
	for i := range out {
		out[i] = rc.Constrain(a.pids[i].Update(rates[i]-measured[i], a.cfg.Dt), -1, 1)
	}
	thrust = rc.Constrain(thrust, 0, 1)
	a.checkInFlight(st, thrust)

	return kernel.Commands{Roll: out[0], Pitch: out[1], Yaw: out[2], Thrust: thrust}
}

func (a *Autopilot) checkInFlight(st *kernel.State, thrust float64) {
	if !st.MotorsOn {
		st.InFlight = false
		a.flyCount, a.landCount = 0, 0
		return
	}
	if !st.InFlight {
		a.landCount = 0
		if thrust > a.cfg.InFlightThrust {
			a.flyCount++
			if a.flyCount >= a.cfg.InFlightTicks {
				st.InFlight = true
				a.flyCount = 0
			}
		} else {
			a.flyCount = 0
		}
		return
	}
	a.flyCount = 0
	if thrust <= a.cfg.InFlightThrust {
		a.landCount++
		if a.landCount >= a.cfg.InFlightTicks {
			st.InFlight = false
			a.landCount = 0
		}
	} else {
		a.landCount = 0
	}
}

func (a *Autopilot) resetControllers() {
	for _, p := range a.pids {
		p.Reset()
	}
}
