package sitl

import (
	"math"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
)

// VehicleParams describe the simulated quad.
type VehicleParams struct {
	Mass      float64 // kg
	MaxThrust float64 // N per motor
	// TorqueGain is angular acceleration in rad/s^2 per unit of motor
	// thrust difference; RateDamping opposes body rates.
	TorqueGain  float64
	YawGain     float64
	RateDamping float64
	Drag        float64 // linear, per second
}

func DefaultVehicleParams() VehicleParams {
	return VehicleParams{
		Mass:        0.6,
		MaxThrust:   3.3,
		TorqueGain:  120,
		YawGain:     30,
		RateDamping: 6,
		Drag:        0.3,
	}
}

// Vehicle is a rigid-body quad in a local NED frame over flat ground at Z=0.
// Attitude integrates body rates with small-angle kinematics.
type Vehicle struct {
	p VehicleParams

	Position kernel.Vec3
	Velocity kernel.Vec3
	Attitude kernel.Attitude

	thrust   float64 // total, N
	onGround bool
}

func NewVehicle(p VehicleParams) *Vehicle {
	return &Vehicle{p: p, onGround: true}
}

// Step advances the vehicle dt seconds under the given ESC pulses.
func (v *Vehicle) Step(dt float64, pulses flight.Pulses) {
	var f [flight.NumMotors]float64
	v.thrust = 0
	for i, us := range pulses {
		f[i] = (float64(us) - flight.MIN_PULSE_WIDTH_US) / (flight.MAX_PULSE_WIDTH_US - flight.MIN_PULSE_WIDTH_US)
		f[i] = math.Max(0, math.Min(1, f[i]))
		v.thrust += f[i] * v.p.MaxThrust
	}

	// Motor layout matches flight.MixQuadX.
	rollT := (f[1] + f[2]) - (f[0] + f[3])
	pitchT := (f[0] + f[2]) - (f[1] + f[3])
	yawT := (f[0] + f[1]) - (f[2] + f[3])

	r := &v.Attitude.Rates
	r.X += (v.p.TorqueGain*rollT - v.p.RateDamping*r.X) * dt
	r.Y += (v.p.TorqueGain*pitchT - v.p.RateDamping*r.Y) * dt
	r.Z += (v.p.YawGain*yawT - v.p.RateDamping*r.Z) * dt

	a := &v.Attitude
	a.Roll += r.X * dt
	a.Pitch += r.Y * dt
	a.Heading = flight.WrapPi(a.Heading + r.Z*dt)

	accel := v.thrust / v.p.Mass
	forward := -accel * math.Sin(a.Pitch)
	right := accel * math.Sin(a.Roll)
	sinH, cosH := math.Sincos(a.Heading)
	acc := kernel.Vec3{
		X: forward*cosH - right*sinH - v.p.Drag*v.Velocity.X,
		Y: forward*sinH + right*cosH - v.p.Drag*v.Velocity.Y,
		Z: flight.StandardGravity - accel*math.Cos(a.Roll)*math.Cos(a.Pitch) - v.p.Drag*v.Velocity.Z,
	}

	v.Velocity.X += acc.X * dt
	v.Velocity.Y += acc.Y * dt
	v.Velocity.Z += acc.Z * dt
	v.Position.X += v.Velocity.X * dt
	v.Position.Y += v.Velocity.Y * dt
	v.Position.Z += v.Velocity.Z * dt

	v.onGround = false
	if v.Position.Z >= 0 {
		v.Position.Z = 0
		if v.Velocity.Z > 0 {
			v.Velocity = kernel.Vec3{}
			*a = kernel.Attitude{Heading: a.Heading}
		}
		v.onGround = true
	}
}

func (v *Vehicle) OnGround() bool { return v.onGround }

// Altitude above ground in meters.
func (v *Vehicle) Altitude() float64 { return -v.Position.Z }

// SpecificForce is what a perfect accelerometer reads, +Z out of the top of the board.
func (v *Vehicle) SpecificForce() kernel.Vec3 {
	if v.onGround && v.thrust < v.p.Mass*flight.StandardGravity {
		g := flight.StandardGravity
		a := v.Attitude
		return kernel.Vec3{
			X: -g * math.Sin(a.Pitch),
			Y: g * math.Sin(a.Roll) * math.Cos(a.Pitch),
			Z: g * math.Cos(a.Roll) * math.Cos(a.Pitch),
		}
	}
	return kernel.Vec3{Z: v.thrust / v.p.Mass}
}

// MagField is the body-frame magnetic field for a horizontal field pointing north.
func (v *Vehicle) MagField() kernel.Vec3 {
	s, c := math.Sincos(v.Attitude.Heading)
	return kernel.Vec3{X: c, Y: -s}
}
