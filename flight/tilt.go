package flight

import (
	"math"

	"github.com/BryanSouza91/RotorFC/kernel"
)

// Sensor conventions: accelerometers report specific force with +Z out of
// the top of the board, so a level board at rest reads (0, 0, +g). Gyros
// report body rates in rad/s.

const (
	// StandardGravity in m/s^2.
	StandardGravity = 9.80665

	// The LSM6DS3TR driver returns values in micro-g for accel and
	// micro-dps for gyro. Convert to m/s^2 and rad/s respectively.
	MicroGToMS2    = StandardGravity / 1e6
	MicroDPSToRadS = math.Pi / (180 * 1e6)
)

// PitchAccel is the pitch angle in radians the accelerometer sees.
func PitchAccel(a kernel.Vec3) float64 {
	return math.Atan2(-a.X, math.Sqrt(a.Y*a.Y+a.Z*a.Z))
}

// RollAccel is the roll angle in radians the accelerometer sees.
func RollAccel(a kernel.Vec3) float64 {
	return math.Atan2(a.Y, a.Z)
}

// MagHeading is the heading in radians from a magnetometer sample on a level board.
func MagHeading(m kernel.Vec3) float64 {
	return math.Atan2(-m.Y, m.X)
}

// WrapPi wraps an angle into [-pi, pi).
func WrapPi(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func norm(v kernel.Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func sub(a, b kernel.Vec3) kernel.Vec3 {
	return kernel.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}
