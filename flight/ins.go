package flight

import (
	"math"

	"github.com/BryanSouza91/RotorFC/kernel"
)

const (
	// DefaultBaroGain is the fraction of altitude error removed per baro sample.
	DefaultBaroGain = 0.05
	// DefaultGPSGain is the fraction of horizontal error removed per fix.
	DefaultGPSGain = 0.2
)

// INS is a complementary vertical and horizontal estimator in a local NED
// frame. The first baro reading after alignment sets the ground reference.
type INS struct {
	dt       float64
	baroGain float64
	gpsGain  float64

	nav        kernel.Nav
	groundAlt  float64
	haveGround bool
}

func NewINS(dt float64) *INS {
	return &INS{dt: dt, baroGain: DefaultBaroGain, gpsGain: DefaultGPSGain}
}

func (n *INS) Init() error {
	n.nav = kernel.Nav{}
	n.haveGround = false
	return nil
}

// Propagate integrates vertical specific force rotated by the current tilt.
func (n *INS) Propagate(att kernel.Attitude, accel kernel.Vec3) {
	up := accel.Z*math.Cos(att.Roll)*math.Cos(att.Pitch) - StandardGravity
	n.nav.Velocity.Z -= up * n.dt
	n.nav.Position.Z += n.nav.Velocity.Z * n.dt
	n.nav.Position.X += n.nav.Velocity.X * n.dt
	n.nav.Position.Y += n.nav.Velocity.Y * n.dt
}

func (n *INS) UpdateBaro(pressure float64) {
	alt := PressureAltitude(pressure)
	if !n.haveGround {
		n.groundAlt = alt
		n.haveGround = true
	}
	z := -(alt - n.groundAlt)
	n.nav.Position.Z += n.baroGain * (z - n.nav.Position.Z)
}

func (n *INS) UpdateGPS(fix kernel.Fix) {
	if !fix.Valid {
		return
	}
	n.nav.Position.X += n.gpsGain * (fix.Position.X - n.nav.Position.X)
	n.nav.Position.Y += n.gpsGain * (fix.Position.Y - n.nav.Position.Y)
	n.nav.Velocity.X = fix.Velocity.X
	n.nav.Velocity.Y = fix.Velocity.Y
}

func (n *INS) Nav() kernel.Nav { return n.nav }
