package flight

import "github.com/BryanSouza91/RotorFC/kernel"

// DefaultMagGain is the fraction of heading error removed per magnetometer sample.
const DefaultMagGain = 0.02

// KalmanAHRS tracks tilt with a Kalman filter and heading by integrating
// yaw rate, pulled toward the magnetometer.
type KalmanAHRS struct {
	aligner *Aligner
	kf      *Kalman
	dt      float64
	magGain float64

	bias    kernel.Vec3
	heading float64
	rates   kernel.Vec3
}

// NewKalmanAHRS returns a filter propagated every dt seconds.
// Align reads the initial state from aligner.
func NewKalmanAHRS(aligner *Aligner, dt float64) *KalmanAHRS {
	return &KalmanAHRS{aligner: aligner, kf: NewKalman(), dt: dt, magGain: DefaultMagGain}
}

func (a *KalmanAHRS) Init() error {
	a.kf.Reset(0, 0)
	a.bias, a.rates, a.heading = kernel.Vec3{}, kernel.Vec3{}, 0
	return nil
}

func (a *KalmanAHRS) Align() {
	pitch, roll, heading := a.aligner.Level()
	a.kf.Reset(pitch, roll)
	a.heading = heading
	a.bias = a.aligner.GyroBias()
}

func (a *KalmanAHRS) Propagate(gyro kernel.Vec3) {
	a.rates = sub(gyro, a.bias)
	a.kf.Predict(a.rates.X, a.rates.Y, a.dt)
	a.heading = WrapPi(a.heading + a.rates.Z*a.dt)
}

func (a *KalmanAHRS) UpdateAccel(accel kernel.Vec3) {
	a.kf.Update(PitchAccel(accel), RollAccel(accel))
}

func (a *KalmanAHRS) UpdateMag(mag kernel.Vec3) {
	a.heading = WrapPi(a.heading + a.magGain*WrapPi(MagHeading(mag)-a.heading))
}

func (a *KalmanAHRS) Attitude() kernel.Attitude {
	return kernel.Attitude{
		Pitch:   a.kf.X[0],
		Roll:    a.kf.X[1],
		Heading: a.heading,
		Rates:   a.rates,
	}
}
