package flight

import (
	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/rc"
)

const (
	MIN_PULSE_WIDTH_US = 1000 // 1ms pulse, motor stopped
	MAX_PULSE_WIDTH_US = 2000 // 2ms pulse, full thrust

	NumMotors = 4

	// MotorIdle keeps armed motors spinning at zero thrust.
	MotorIdle = 0.05
)

// Motor order for the X frame: front right, rear left, front left, rear
// right. Props 0 and 1 spin counter clockwise.
var quadX = [NumMotors]struct{ roll, pitch, yaw float64 }{
	{-1, +1, +1},
	{+1, -1, +1},
	{+1, +1, -1},
	{-1, -1, -1},
}

// Pulses are ESC pulse widths in microseconds, one per motor.
type Pulses [NumMotors]uint32

// MixQuadX turns normalized commands into ESC pulses. Disarmed outputs are
// MIN_PULSE_WIDTH_US on every motor.
func MixQuadX(cmd kernel.Commands, motorsOn bool) Pulses {
	var out Pulses
	if !motorsOn {
		for i := range out {
			out[i] = MIN_PULSE_WIDTH_US
		}
		return out
	}
	for i, m := range quadX {
		v := cmd.Thrust + m.roll*cmd.Roll + m.pitch*cmd.Pitch + m.yaw*cmd.Yaw
		v = rc.Constrain(v, MotorIdle, 1)
		out[i] = uint32(rc.MapRange(v, 0, 1, float64(MIN_PULSE_WIDTH_US), float64(MAX_PULSE_WIDTH_US)))
	}
	return out
}

// Duty converts a pulse width to a PWM duty value for a timer whose counter
// wraps at top every periodNs nanoseconds.
func Duty(pulseUS, top uint32, periodNs uint64) uint32 {
	if periodNs == 0 {
		return 0
	}
	return uint32(uint64(pulseUS) * 1000 * uint64(top) / periodNs)
}
