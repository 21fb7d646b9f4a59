package kernel

import (
	"fmt"

	"github.com/BryanSouza91/RotorFC/rc"
)

// Collaborator contracts. Each subsystem the kernel drives is reached only
// through one of these. None returns an error after Init: degraded
// conditions are read back through status queries.

// Initializer is a subsystem with a one-time init step.
type Initializer interface {
	Init() error
}

// PeriodicTask is serviced from the periodic path.
type PeriodicTask interface {
	Periodic()
}

// TickSource reports the base-period boundary. TickReached must not block
// and returns true at most once per base period.
type TickSource interface {
	TickReached() bool
}

// Platform is the board: hardware init first, event delivery enabled last.
type Platform interface {
	Initializer
	// BootDelay holds off hardware init so a receiver can bind close to power up.
	BootDelay()
	// EnableEvents starts latching asynchronous sensor and link events.
	EnableEvents()
}

// Actuators drive the motors and servos. Outputs are safe when motorsOn is false.
type Actuators interface {
	Initializer
	Set(cmd Commands, motorsOn bool)
}

// RadioControl decodes the RC link.
type RadioControl interface {
	Initializer
	PeriodicTask
	Status() rc.Status
	// Event calls onFrame once per frame decoded since the last call.
	Event(onFrame func())
}

// Analog is the ADC subsystem. Its periodic service only runs with Features.ExtraADC.
type Analog interface {
	Initializer
	PeriodicTask
}

// Baro is the barometer driver.
type Baro interface {
	Initializer
	PeriodicTask
	Event(onAbsolute, onDifferential func())
	// Pressure returns the last absolute reading in Pa.
	Pressure() float64
}

// IMU is the inertial sensor driver. Samples are latched by the driver and
// scaled in place by the Scale calls.
type IMU interface {
	Initializer
	PeriodicTask
	Event(onGyroAccel, onMag func())
	ScaleGyro()
	ScaleAccel()
	ScaleMag()
	Gyro() Vec3
	Accel() Vec3
	Mag() Vec3
}

// FMS is the flight-management sequencer.
type FMS interface {
	Initializer
	PeriodicTask
}

// Autopilot computes control from the estimate and owns the controllers.
// It may change st.Mode, st.MotorsOn and st.InFlight from RC input.
type Autopilot interface {
	Initializer
	Periodic(st *State, est Estimate) Commands
	// UsesRC reports whether RC frames should be routed to OnRCFrame.
	UsesRC() bool
	OnRCFrame(st *State)
}

// Aligner accumulates stationary samples until an initial attitude can be committed.
type Aligner interface {
	Initializer
	Run(gyro, accel, mag Vec3)
	Status() AlignerStatus
}

// AttitudeReference estimates vehicle orientation.
type AttitudeReference interface {
	Initializer
	// Align commits the initial attitude from the locked aligner.
	Align()
	Propagate(gyro Vec3)
	UpdateAccel(accel Vec3)
	UpdateMag(mag Vec3)
	Attitude() Attitude
}

// NavigationEstimator estimates position and velocity.
type NavigationEstimator interface {
	Initializer
	Propagate(att Attitude, accel Vec3)
	UpdateBaro(pressure float64)
	UpdateGPS(fix Fix)
	Nav() Nav
}

// GPS is the positioning-satellite receiver.
type GPS interface {
	Initializer
	PeriodicTask
	Event(onFix func())
	Lost() bool
	Fix() Fix
}

// Datalink drains uplink frames and applies them to st.
type Datalink interface {
	Event(st *State)
}

// Telemetry emits downlink messages from a snapshot.
type Telemetry interface {
	Periodic(s Snapshot)
}

// GroundDetector evaluates the ground-contact failsafe.
type GroundDetector interface {
	Event(st *State)
}

// Module is a user module with hooks on every path.
type Module interface {
	Initializer
	PeriodicTask
	Event()
}

// Subsystems is every collaborator the kernel drives. Optional members are
// only required when their feature is enabled.
type Subsystems struct {
	Tick          TickSource
	Platform      Platform
	Clock         Initializer
	Actuators     Actuators
	Radio         RadioControl
	Analog        Analog
	Baro          Baro
	PWM           Initializer // Features.Cam or Features.Drop
	Battery       Initializer
	IMU           IMU
	FMS           FMS
	Autopilot     Autopilot
	Nav           Initializer
	GuidanceH     Initializer
	GuidanceV     Initializer
	Stabilization Initializer
	Aligner       Aligner
	AHRS          AttitudeReference
	INS           NavigationEstimator
	GPS           GPS // Features.GPS
	Datalink      Datalink
	Telemetry     Telemetry
	LED           PeriodicTask
	GroundDetect  GroundDetector // Features.GroundDetect
	Modules       []Module
}

func (s *Subsystems) validate(f Features) error {
	required := []struct {
		name string
		nil  bool
	}{
		{"tick", s.Tick == nil},
		{"platform", s.Platform == nil},
		{"clock", s.Clock == nil},
		{"actuators", s.Actuators == nil},
		{"radio", s.Radio == nil},
		{"analog", s.Analog == nil},
		{"baro", s.Baro == nil},
		{"pwm", (f.Cam || f.Drop) && s.PWM == nil},
		{"battery", s.Battery == nil},
		{"imu", s.IMU == nil},
		{"fms", s.FMS == nil},
		{"autopilot", s.Autopilot == nil},
		{"nav", s.Nav == nil},
		{"guidance_h", s.GuidanceH == nil},
		{"guidance_v", s.GuidanceV == nil},
		{"stabilization", s.Stabilization == nil},
		{"aligner", s.Aligner == nil},
		{"ahrs", s.AHRS == nil},
		{"ins", s.INS == nil},
		{"gps", f.GPS && s.GPS == nil},
		{"datalink", s.Datalink == nil},
		{"telemetry", s.Telemetry == nil},
		{"led", s.LED == nil},
		{"ground_detect", f.GroundDetect && s.GroundDetect == nil},
	}
	for _, r := range required {
		if r.nil {
			return fmt.Errorf("%w: %s", ErrMissingCollaborator, r.name)
		}
	}
	for i, m := range s.Modules {
		if m == nil {
			return fmt.Errorf("%w: module[%d]", ErrMissingCollaborator, i)
		}
	}
	return nil
}
