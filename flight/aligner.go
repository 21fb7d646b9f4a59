package flight

import "github.com/BryanSouza91/RotorFC/kernel"

const (
	DefaultAlignSamples = 512
	// DefaultAlignMaxRate is the body rate in rad/s above which the vehicle
	// is considered moving and alignment restarts.
	DefaultAlignMaxRate = 0.1
)

// Aligner averages stationary samples into gyro bias and initial tilt.
// It locks after Samples consecutive quiet samples.
type Aligner struct {
	Samples int
	MaxRate float64

	n                         int
	gyroSum, accelSum, magSum kernel.Vec3
	status                    kernel.AlignerStatus

	gyroBias kernel.Vec3
	accel    kernel.Vec3
	mag      kernel.Vec3
}

func NewAligner(samples int) *Aligner {
	if samples <= 0 {
		samples = DefaultAlignSamples
	}
	return &Aligner{Samples: samples, MaxRate: DefaultAlignMaxRate}
}

func (a *Aligner) Init() error {
	a.restart()
	a.status = kernel.AlignerNotLocked
	return nil
}

func (a *Aligner) restart() {
	a.n = 0
	a.gyroSum, a.accelSum, a.magSum = kernel.Vec3{}, kernel.Vec3{}, kernel.Vec3{}
}

// Run adds one sample. Samples after lock are ignored.
func (a *Aligner) Run(gyro, accel, mag kernel.Vec3) {
	if a.status == kernel.AlignerLocked {
		return
	}
	if a.MaxRate > 0 && norm(gyro) > a.MaxRate {
		a.restart()
		return
	}
	a.n++
	a.gyroSum = add(a.gyroSum, gyro)
	a.accelSum = add(a.accelSum, accel)
	a.magSum = add(a.magSum, mag)
	if a.n < a.Samples {
		return
	}
	n := float64(a.n)
	a.gyroBias = scale(a.gyroSum, 1/n)
	a.accel = scale(a.accelSum, 1/n)
	a.mag = scale(a.magSum, 1/n)
	a.status = kernel.AlignerLocked
}

func (a *Aligner) Status() kernel.AlignerStatus { return a.status }

// GyroBias is the mean gyro reading over the aligned window.
func (a *Aligner) GyroBias() kernel.Vec3 { return a.gyroBias }

// Level returns the initial pitch, roll and heading.
func (a *Aligner) Level() (pitch, roll, heading float64) {
	return PitchAccel(a.accel), RollAccel(a.accel), MagHeading(a.mag)
}

func add(a, b kernel.Vec3) kernel.Vec3 {
	return kernel.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func scale(v kernel.Vec3, k float64) kernel.Vec3 {
	return kernel.Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}
