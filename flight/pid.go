package flight

import "github.com/BryanSouza91/RotorFC/rc"

// PID is a rate controller with a clamped integrator.
type PID struct {
	Kp, Ki, Kd float64
	// IntegralLimit bounds the integral term's contribution. Zero disables the clamp.
	IntegralLimit float64

	prevError float64
	integral  float64
	primed    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, IntegralLimit: 0.3}
}

// Update returns the control output for err over dt seconds.
func (pid *PID) Update(err, dt float64) float64 {
	if dt <= 0 {
		return pid.Kp * err
	}
	pid.integral += err * dt
	integral := pid.Ki * pid.integral
	if pid.IntegralLimit > 0 && pid.Ki != 0 {
		integral = rc.Constrain(integral, -pid.IntegralLimit, pid.IntegralLimit)
		pid.integral = integral / pid.Ki
	}

	derivative := 0.0
	if pid.primed {
		derivative = pid.Kd * (err - pid.prevError) / dt
	}
	pid.prevError = err
	pid.primed = true

	return pid.Kp*err + integral + derivative
}

// Reset clears the integrator, for use while disarmed.
func (pid *PID) Reset() {
	pid.integral = 0
	pid.prevError = 0
	pid.primed = false
}
