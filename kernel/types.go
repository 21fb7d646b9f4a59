package kernel

import (
	"fmt"
	"strings"
)

// Mode is the active autopilot mode.
type Mode uint8

const (
	ModeInit Mode = iota
	ModeKill
	ModeFailsafe
	ModeRcManual
	ModeAttitudeDirect
	ModeHover
	ModeNav
)

var modeNames = [...]string{
	ModeInit:           "init",
	ModeKill:           "kill",
	ModeFailsafe:       "failsafe",
	ModeRcManual:       "rc_manual",
	ModeAttitudeDirect: "attitude_direct",
	ModeHover:          "hover",
	ModeNav:            "nav",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode returns the mode named s, as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeInit, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// AttitudeState is the progress of the attitude reference through alignment.
// It only moves forward within a flight session.
type AttitudeState uint8

const (
	AttitudeUninitialized AttitudeState = iota
	AttitudeAligning
	AttitudeRunning
)

func (s AttitudeState) String() string {
	switch s {
	case AttitudeUninitialized:
		return "uninitialized"
	case AttitudeAligning:
		return "aligning"
	case AttitudeRunning:
		return "running"
	}
	return "unknown"
}

func (s AttitudeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// AlignerStatus is reported by the aligner collaborator.
type AlignerStatus uint8

const (
	AlignerNotLocked AlignerStatus = iota
	AlignerLocked
)

// Vec3 is a three-axis sample or vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Attitude is the output of the attitude reference. Angles in radians,
// rates in rad/s.
type Attitude struct {
	Roll    float64 `json:"roll"`
	Pitch   float64 `json:"pitch"`
	Heading float64 `json:"heading"`
	Rates   Vec3    `json:"rates"`
}

// Nav is the output of the navigation estimator, local NED frame in meters.
type Nav struct {
	Position Vec3 `json:"position"`
	Velocity Vec3 `json:"velocity"`
}

// Estimate is what the autopilot control step consumes each tick.
type Estimate struct {
	Attitude Attitude `json:"attitude"`
	Nav      Nav      `json:"nav"`
}

// Fix is one positioning-satellite solution.
type Fix struct {
	Position Vec3 `json:"position"`
	Velocity Vec3 `json:"velocity"`
	NumSV    uint8 `json:"num_sv"`
	Valid    bool  `json:"valid"`
}

// Commands is the control output handed to the actuators. Axes are
// normalized to [-1, 1], thrust to [0, 1].
type Commands struct {
	Roll   float64 `json:"roll"`
	Pitch  float64 `json:"pitch"`
	Yaw    float64 `json:"yaw"`
	Thrust float64 `json:"thrust"`
}
